// AngelaMos | 2026
// repository.go

package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Repository interface {
	Insert(ctx context.Context, event Event) error
	List(ctx context.Context, params ListParams) ([]Entry, int, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const entryColumns = `
	a.id, a.user_id, u.email AS user_email, a.action, a.entity_type,
	a.entity_id, a.details, a.ip_address, a.user_agent, a.created_at`

func (r *repository) Insert(ctx context.Context, e Event) error {
	query := `
		INSERT INTO activity_logs (
			user_id, action, entity_type, entity_id, details,
			ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		nullable(e.ActorID),
		e.Action,
		nullable(e.EntityType),
		nullable(e.EntityID),
		e.Details,
		nullable(e.IPAddress),
		nullable(e.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Entry, int, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Action != "" {
		conditions = append(conditions, fmt.Sprintf("a.action = $%d", argIdx))
		args = append(args, params.Action)
		argIdx++
	}

	if params.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, params.UserID)
		argIdx++
	}

	if params.EntityType != "" {
		conditions = append(conditions, fmt.Sprintf("a.entity_type = $%d", argIdx))
		args = append(args, params.EntityType)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM activity_logs a %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM activity_logs a
		LEFT JOIN users u ON u.id = a.user_id
		%s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d`,
		entryColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}

	return entries, total, nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM activity_logs a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1`, entryColumns)

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("recent activity logs: %w", err)
	}

	return entries, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
