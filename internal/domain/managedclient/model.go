package managedclient

import (
	"strings"

	"github.com/medroute/medroute/internal/types"
)

// ManagedClient is a client record created and owned by facility staff on
// behalf of someone who has no login of their own.
//
// Two historically divergent tables have stored this entity
// (`managed_clients` and `facility_managed_clients`) with inconsistent column
// naming. Neither is a single source of truth: lookups must consult every
// known source and merge by id.
type ManagedClient struct {
	ID         string `db:"id" json:"id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Phone      string `db:"phone" json:"phone,omitempty"`
	FacilityID string `db:"facility_id" json:"facility_id"`

	types.BaseModel
}

// FullName returns the display name, or empty when no usable name parts exist
func (m *ManagedClient) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName))
}

// HasUsableName reports whether the record carries any name parts at all
func (m *ManagedClient) HasUsableName() bool {
	return m.FullName() != ""
}
