// AngelaMos | 2026
// entity.go

package theme

import (
	"time"
)

// Theme is owned by UserID. Default themes are visible to everyone.
type Theme struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	UserID         *string   `db:"user_id"`
	PrimaryColor   string    `db:"primary_color"`
	SecondaryColor string    `db:"secondary_color"`
	AccentColor    string    `db:"accent_color"`
	IsDefault      bool      `db:"is_default"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (t *Theme) OwnedBy(userID string) bool {
	return t.UserID != nil && *t.UserID == userID
}
