// AngelaMos | 2026
// entity.go

package role

import (
	"time"
)

const (
	Admin   = "admin"
	Teacher = "teacher"
	Player  = "player"
)

// Permission names are compared by string equality only.
const (
	PermManageUsers     = "manage_users"
	PermManageQuestions = "manage_questions"
	PermManageGames     = "manage_games"
	PermViewActivity    = "view_activity"
	PermManageThemes    = "manage_themes"
	PermPlayGames       = "play_games"
)

type Role struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type grant struct {
	RoleID     int64  `db:"role_id"`
	Permission string `db:"name"`
}
