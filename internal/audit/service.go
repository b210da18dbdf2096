// AngelaMos | 2026
// service.go

package audit

import (
	"context"
)

type Service struct {
	repo      Repository
	listLimit int
}

func NewService(repo Repository, listLimit int) *Service {
	return &Service{repo: repo, listLimit: listLimit}
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, params ListParams) ([]Entry, int, ListParams, error) {
	params.Normalize(s.listLimit)

	entries, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, params, err
	}

	return entries, total, params, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 10
	}
	if s.listLimit > 0 && limit > s.listLimit {
		limit = s.listLimit
	}
	return s.repo.Recent(ctx, limit)
}
