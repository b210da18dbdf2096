// AngelaMos | 2026
// dto.go

package question

import (
	"strings"
	"time"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type OptionInput struct {
	Text      string `json:"text"       validate:"required,max=1000"`
	IsCorrect bool   `json:"is_correct"`
}

type CreateQuestionRequest struct {
	QuestionText    string        `json:"question_text"    validate:"required,max=5000"`
	DifficultyLevel string        `json:"difficulty_level" validate:"omitempty,oneof=easy medium hard"`
	Category        string        `json:"category"         validate:"max=100"`
	Options         []OptionInput `json:"options"          validate:"required,min=2,max=10,dive"`
}

func (r *CreateQuestionRequest) normalize() {
	r.QuestionText = strings.TrimSpace(r.QuestionText)
	r.DifficultyLevel = strings.ToLower(strings.TrimSpace(r.DifficultyLevel))
	r.Category = strings.TrimSpace(r.Category)
	for i := range r.Options {
		r.Options[i].Text = strings.TrimSpace(r.Options[i].Text)
	}
}

type ListQuestionsParams struct {
	Page       int
	PageSize   int
	Category   string
	Difficulty string
}

func (p *ListQuestionsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > core.MaxPage {
		p.Page = core.MaxPage
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListQuestionsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type OptionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Position  int    `json:"position"`
}

type QuestionResponse struct {
	ID              string           `json:"id"`
	QuestionText    string           `json:"question_text"`
	DifficultyLevel string           `json:"difficulty_level"`
	Category        string           `json:"category"`
	CreatedBy       *string          `json:"created_by"`
	IsActive        bool             `json:"is_active"`
	Options         []OptionResponse `json:"options"`
	CreatedAt       time.Time        `json:"created_at"`
}

func ToQuestionResponse(q *Question) QuestionResponse {
	opts := make([]OptionResponse, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, OptionResponse{
			ID:        o.ID,
			Text:      o.OptionText,
			IsCorrect: o.IsCorrect,
			Position:  o.Position,
		})
	}

	return QuestionResponse{
		ID:              q.ID,
		QuestionText:    q.QuestionText,
		DifficultyLevel: q.DifficultyLevel,
		Category:        q.Category,
		CreatedBy:       q.CreatedBy,
		IsActive:        q.IsActive,
		Options:         opts,
		CreatedAt:       q.CreatedAt,
	}
}

func ToQuestionResponseList(questions []Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, ToQuestionResponse(&questions[i]))
	}
	return out
}
