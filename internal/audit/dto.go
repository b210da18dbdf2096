// AngelaMos | 2026
// dto.go

package audit

import (
	"time"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type EntryResponse struct {
	ID         int64     `json:"id"`
	UserID     *string   `json:"user_id"`
	UserEmail  *string   `json:"user_email"`
	Action     string    `json:"action"`
	EntityType *string   `json:"entity_type"`
	EntityID   *string   `json:"entity_id"`
	Details    Details   `json:"details"`
	IPAddress  *string   `json:"ip_address"`
	UserAgent  *string   `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListParams struct {
	Page       int
	PageSize   int
	Action     string
	UserID     string
	EntityType string
}

const defaultPageSize = 50

// Normalize clamps paging; limit is the largest page an operator may ask for.
func (p *ListParams) Normalize(limit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > core.MaxPage {
		p.Page = core.MaxPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if limit > 0 && p.PageSize > limit {
		p.PageSize = limit
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		UserEmail:  e.UserEmail,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	}
}

func ToEntryResponseList(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ToEntryResponse(&entries[i]))
	}
	return out
}
