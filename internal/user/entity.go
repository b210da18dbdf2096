// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User is a row of users joined with its role name. PasswordHash is read
// for the credential checks in auth and is never serialized.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name"`
	RoleID       int64     `db:"role_id"`
	RoleName     string    `db:"role_name"`
	IsActive     bool      `db:"is_active"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
