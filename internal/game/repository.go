// AngelaMos | 2026
// repository.go

package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Repository interface {
	Create(ctx context.Context, game *Game) error
	GetByID(ctx context.Context, id string) (*Game, error)
	List(ctx context.Context, params ListGamesParams) ([]Game, int, error)
	Questions(ctx context.Context, gameID string) ([]Question, error)
	AddQuestion(ctx context.Context, gameID, questionID string, order *int) (int, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, game *Game) error {
	query := `
		INSERT INTO games (title, description, created_by, status, max_players, time_limit_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, game, query,
		game.Title,
		game.Description,
		game.CreatedBy,
		game.Status,
		game.MaxPlayers,
		game.TimeLimitSeconds,
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Game, error) {
	query := `
		SELECT g.id, g.title, g.description, g.created_by, u.full_name AS created_by_name,
		       g.status, g.max_players, g.time_limit_seconds, g.created_at, g.updated_at
		FROM games g
		LEFT JOIN users u ON u.id = g.created_by
		WHERE g.id = $1`

	var game Game
	err := r.db.GetContext(ctx, &game, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get game: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	return &game, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListGamesParams,
) ([]Game, int, error) {
	params.Normalize()

	var total int
	countQuery := `SELECT COUNT(*) FROM games WHERE ($1 = '' OR status = $1)`
	if err := r.db.GetContext(ctx, &total, countQuery, params.Status); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	query := `
		SELECT id, title, description, created_by, status,
		       max_players, time_limit_seconds, created_at, updated_at
		FROM games
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var games []Game
	err := r.db.SelectContext(ctx, &games, query,
		params.Status,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}

	return games, total, nil
}

func (r *repository) Questions(ctx context.Context, gameID string) ([]Question, error) {
	query := `
		SELECT q.id, q.question_text, q.difficulty_level, q.category, gq.question_order
		FROM game_questions gq
		JOIN questions q ON q.id = gq.question_id
		WHERE gq.game_id = $1
		ORDER BY gq.question_order, q.created_at`

	var questions []Question
	if err := r.db.SelectContext(ctx, &questions, query, gameID); err != nil {
		return nil, fmt.Errorf("list game questions: %w", err)
	}

	return questions, nil
}

// AddQuestion attaches a question and returns the order it was stored
// with. A nil order appends after the current last question.
func (r *repository) AddQuestion(
	ctx context.Context,
	gameID, questionID string,
	order *int,
) (int, error) {
	query := `
		INSERT INTO game_questions (game_id, question_id, question_order)
		VALUES ($1, $2, COALESCE($3, (
			SELECT COALESCE(MAX(question_order) + 1, 0)
			FROM game_questions
			WHERE game_id = $1
		)))
		RETURNING question_order`

	var stored int
	err := r.db.GetContext(ctx, &stored, query, gameID, questionID, order)
	switch {
	case core.IsUniqueViolation(err):
		return 0, fmt.Errorf("add game question: %w", core.ErrDuplicateKey)
	case core.IsForeignKeyViolation(err):
		return 0, fmt.Errorf("add game question: %w", core.ErrNotFound)
	case err != nil:
		return 0, fmt.Errorf("add game question: %w", err)
	}

	return stored, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete game: %w", core.ErrNotFound)
	}

	return nil
}
