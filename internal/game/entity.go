// AngelaMos | 2026
// entity.go

package game

import (
	"time"
)

const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

type Game struct {
	ID               string    `db:"id"`
	Title            string    `db:"title"`
	Description      string    `db:"description"`
	CreatedBy        *string   `db:"created_by"`
	CreatedByName    *string   `db:"created_by_name"`
	Status           string    `db:"status"`
	MaxPlayers       *int      `db:"max_players"`
	TimeLimitSeconds *int      `db:"time_limit_seconds"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Question is one entry of a game's ordered question list.
type Question struct {
	ID              string `db:"id"`
	QuestionText    string `db:"question_text"`
	DifficultyLevel string `db:"difficulty_level"`
	Category        string `db:"category"`
	Order           int    `db:"question_order"`
}
