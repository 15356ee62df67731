package domain

import "time"

// Role is the business role of a profile, distinct from authentication.
// It is a closed set; anything else is rejected at the boundary.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleStaff
}

// Profile represents a bank customer or staff member. A profile owns zero or
// more accounts. Profiles are soft deleted; the row is never removed so the
// ledger keeps its ownership linkage.
type Profile struct {
	ProfileID string `json:"profileID"` // Primary Key (UUID)
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// IsDeleted reports whether the profile has been soft deleted.
func (p *Profile) IsDeleted() bool {
	return p.DeletedAt != nil
}
