// AngelaMos | 2026
// repository.go

package dashboard

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Totals struct {
	Games     int `db:"games"`
	Questions int `db:"questions"`
	Users     int `db:"users"`
}

type Repository interface {
	Totals(ctx context.Context) (Totals, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Totals(ctx context.Context) (Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM games)     AS games,
			(SELECT COUNT(*) FROM questions) AS questions,
			(SELECT COUNT(*) FROM users)     AS users`

	var t Totals
	if err := r.db.GetContext(ctx, &t, query); err != nil {
		return Totals{}, fmt.Errorf("dashboard totals: %w", err)
	}

	return t, nil
}
