package profile

import (
	"strings"

	"github.com/medroute/medroute/internal/types"
)

// Profile represents an authenticated user account. A profile with role
// `facility` is facility staff; a profile with role `client` and a facility
// id is an authenticated client scoped to that facility.
type Profile struct {
	ID         string         `db:"id" json:"id"`
	FirstName  string         `db:"first_name" json:"first_name"`
	LastName   string         `db:"last_name" json:"last_name"`
	Role       types.UserRole `db:"role" json:"role"`
	FacilityID *string        `db:"facility_id" json:"facility_id,omitempty"`
	Phone      string         `db:"phone" json:"phone,omitempty"`
	Email      string         `db:"email" json:"email,omitempty"`

	types.BaseModel
}

// FullName returns the display name, or empty when no usable name parts exist
func (p *Profile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// HasUsableName reports whether the profile carries any name parts at all
func (p *Profile) HasUsableName() bool {
	return p.FullName() != ""
}
