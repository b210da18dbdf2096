// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"time"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/role"
)

const recentActivityLimit = 10

type ActivityFeed interface {
	Recent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type PermissionLister interface {
	PermissionsForUser(ctx context.Context, userID string) []string
}

type ActivityItem struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats is shaped by role. Everyone gets their permissions and the game
// count; only admins and teachers get the other totals and recent activity.
type Stats struct {
	Role           string         `json:"role"`
	TotalGames     int            `json:"total_games"`
	TotalQuestions *int           `json:"total_questions,omitempty"`
	TotalUsers     *int           `json:"total_users,omitempty"`
	RecentActivity []ActivityItem `json:"recent_activity,omitempty"`
	Permissions    []string       `json:"permissions"`
}

type Service struct {
	repo     Repository
	activity ActivityFeed
	perms    PermissionLister
}

func NewService(repo Repository, activity ActivityFeed, perms PermissionLister) *Service {
	return &Service{repo: repo, activity: activity, perms: perms}
}

func (s *Service) Stats(ctx context.Context, userID, userRole string) (*Stats, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Role:        userRole,
		TotalGames:  totals.Games,
		Permissions: s.perms.PermissionsForUser(ctx, userID),
	}

	if userRole != role.Admin && userRole != role.Teacher {
		return stats, nil
	}

	entries, err := s.activity.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	stats.TotalQuestions = &totals.Questions
	stats.TotalUsers = &totals.Users
	stats.RecentActivity = make([]ActivityItem, 0, len(entries))
	for _, e := range entries {
		stats.RecentActivity = append(stats.RecentActivity, ActivityItem{
			ID:        e.ID,
			Action:    e.Action,
			CreatedAt: e.CreatedAt,
		})
	}

	return stats, nil
}
