// AngelaMos | 2026
// entity.go

package question

import (
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Question struct {
	ID              string    `db:"id"`
	QuestionText    string    `db:"question_text"`
	DifficultyLevel string    `db:"difficulty_level"`
	Category        string    `db:"category"`
	CreatedBy       *string   `db:"created_by"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	Options         []Option  `db:"-"`
}

// Option belongs to exactly one question. Position orders the choices.
type Option struct {
	ID         string `db:"id"`
	QuestionID string `db:"question_id"`
	OptionText string `db:"option_text"`
	IsCorrect  bool   `db:"is_correct"`
	Position   int    `db:"position"`
}
