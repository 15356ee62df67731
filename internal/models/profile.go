package models

import (
	"time"
)

// Profile is the DB shape of a customer or staff profile.
type Profile struct {
	ProfileID    string `db:"profile_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Role         string `db:"role"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
