// AngelaMos | 2026
// dto.go

package game

import (
	"strings"
	"time"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type CreateGameRequest struct {
	Title            string `json:"title"              validate:"required,max=255"`
	Description      string `json:"description"        validate:"max=5000"`
	MaxPlayers       *int   `json:"max_players"        validate:"omitempty,min=1,max=1000"`
	TimeLimitSeconds *int   `json:"time_limit_seconds" validate:"omitempty,min=5,max=86400"`
}

func (r *CreateGameRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

// AddQuestionRequest appends when Order is nil.
type AddQuestionRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Order      *int   `json:"order"       validate:"omitempty,min=0"`
}

type ListGamesParams struct {
	Page     int
	PageSize int
	Status   string
}

func (p *ListGamesParams) Normalize() {
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

func (p *ListGamesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type GameResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	CreatedBy        *string   `json:"created_by"`
	CreatedByName    *string   `json:"created_by_name,omitempty"`
	MaxPlayers       *int      `json:"max_players"`
	TimeLimitSeconds *int      `json:"time_limit_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

type QuestionResponse struct {
	ID              string `json:"id"`
	QuestionText    string `json:"question_text"`
	DifficultyLevel string `json:"difficulty_level"`
	Category        string `json:"category"`
	Order           int    `json:"order"`
}

type GameDetailResponse struct {
	Game      GameResponse       `json:"game"`
	Questions []QuestionResponse `json:"questions"`
}

func ToGameResponse(g *Game) GameResponse {
	return GameResponse{
		ID:               g.ID,
		Title:            g.Title,
		Description:      g.Description,
		Status:           g.Status,
		CreatedBy:        g.CreatedBy,
		CreatedByName:    g.CreatedByName,
		MaxPlayers:       g.MaxPlayers,
		TimeLimitSeconds: g.TimeLimitSeconds,
		CreatedAt:        g.CreatedAt,
	}
}

func ToGameResponseList(games []Game) []GameResponse {
	out := make([]GameResponse, 0, len(games))
	for i := range games {
		out = append(out, ToGameResponse(&games[i]))
	}
	return out
}

func ToDetailResponse(g *Game, questions []Question) GameDetailResponse {
	qs := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		qs = append(qs, QuestionResponse(q))
	}
	return GameDetailResponse{Game: ToGameResponse(g), Questions: qs}
}
