// AngelaMos | 2026
// repository.go

package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Repository interface {
	Create(ctx context.Context, theme *Theme) error
	GetByID(ctx context.Context, id string) (*Theme, error)
	ListVisible(ctx context.Context, userID string) ([]Theme, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const themeColumns = `
	id, name, user_id, primary_color, secondary_color, accent_color,
	is_default, created_at, updated_at`

func (r *repository) Create(ctx context.Context, theme *Theme) error {
	query := `
		INSERT INTO themes (name, user_id, primary_color, secondary_color, accent_color, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + themeColumns

	err := r.db.GetContext(ctx, theme, query,
		theme.Name,
		theme.UserID,
		theme.PrimaryColor,
		theme.SecondaryColor,
		theme.AccentColor,
		theme.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("create theme: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes WHERE id = $1`

	var theme Theme
	err := r.db.GetContext(ctx, &theme, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get theme: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get theme: %w", err)
	}

	return &theme, nil
}

// ListVisible returns the user's own themes and every default theme,
// defaults first.
func (r *repository) ListVisible(ctx context.Context, userID string) ([]Theme, error) {
	query := `
		SELECT ` + themeColumns + `
		FROM themes
		WHERE user_id = $1 OR is_default = true
		ORDER BY is_default DESC, created_at DESC`

	var themes []Theme
	if err := r.db.SelectContext(ctx, &themes, query, userID); err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}

	return themes, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM themes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete theme: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete theme: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete theme: %w", core.ErrNotFound)
	}

	return nil
}
