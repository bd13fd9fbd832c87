package types

// Status is a type for the lifecycle status of a persisted resource in the database.
// This is used to determine if a row should be included in queries.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

// UserRole is the role attached to an authenticated profile
type UserRole string

const (
	UserRoleFacility   UserRole = "facility"
	UserRoleClient     UserRole = "client"
	UserRoleDispatcher UserRole = "dispatcher"
	UserRoleAdmin      UserRole = "admin"
)

func (r UserRole) Validate() bool {
	switch r {
	case UserRoleFacility, UserRoleClient, UserRoleDispatcher, UserRoleAdmin:
		return true
	}
	return false
}
