package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // ProfileID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // ProfileID reference
}

// Actor is the authenticated caller of an operation as supplied by the
// external identity provider. The role claim is treated as authoritative;
// it is never read from request bodies.
type Actor struct {
	ProfileID string `json:"profileID"`
	Role      Role   `json:"role"`
}

// IsStaff reports whether the actor carries the staff role.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}
