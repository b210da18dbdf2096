// AngelaMos | 2026
// repository.go

package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Repository interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id string) (*Question, error)
	List(ctx context.Context, params ListQuestionsParams) ([]Question, int, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
	tx core.TxRunner
}

func NewRepository(db core.DBTX, tx core.TxRunner) Repository {
	return &repository{db: db, tx: tx}
}

const questionColumns = `
	id, question_text, difficulty_level, category, created_by,
	is_active, created_at, updated_at`

// Create writes the question and all of its options in one transaction.
func (r *repository) Create(ctx context.Context, q *Question) error {
	return r.tx.InTx(ctx, func(tx core.DBTX) error {
		query := `
			INSERT INTO questions (question_text, difficulty_level, category, created_by)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + questionColumns

		if err := tx.GetContext(ctx, q, query,
			q.QuestionText,
			q.DifficultyLevel,
			q.Category,
			q.CreatedBy,
		); err != nil {
			return fmt.Errorf("create question: %w", err)
		}

		optionQuery := `
			INSERT INTO question_options (question_id, option_text, is_correct, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id`

		for i := range q.Options {
			opt := &q.Options[i]
			opt.QuestionID = q.ID
			opt.Position = i

			if err := tx.GetContext(ctx, &opt.ID, optionQuery,
				q.ID,
				opt.OptionText,
				opt.IsCorrect,
				opt.Position,
			); err != nil {
				return fmt.Errorf("create question option %d: %w", i, err)
			}
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	var q Question
	err := r.db.GetContext(ctx, &q, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get question: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	questions := []Question{q}
	if err := r.attachOptions(ctx, questions); err != nil {
		return nil, err
	}

	return &questions[0], nil
}

func (r *repository) List(
	ctx context.Context,
	params ListQuestionsParams,
) ([]Question, int, error) {
	params.Normalize()

	filter := `
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR difficulty_level = $2)`

	var total int
	countQuery := `SELECT COUNT(*) FROM questions` + filter
	if err := r.db.GetContext(ctx, &total, countQuery,
		params.Category,
		params.Difficulty,
	); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	query := `SELECT ` + questionColumns + ` FROM questions` + filter + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	var questions []Question
	if err := r.db.SelectContext(ctx, &questions, query,
		params.Category,
		params.Difficulty,
		params.PageSize,
		params.Offset(),
	); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}

	if err := r.attachOptions(ctx, questions); err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// attachOptions loads the options of every question in one round trip.
func (r *repository) attachOptions(ctx context.Context, questions []Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(questions))
	index := make(map[string]int, len(questions))
	for i := range questions {
		ids = append(ids, questions[i].ID)
		index[questions[i].ID] = i
		questions[i].Options = []Option{}
	}

	query, args, err := sqlx.In(`
		SELECT id, question_id, option_text, is_correct, position
		FROM question_options
		WHERE question_id IN (?)
		ORDER BY question_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load question options: %w", err)
	}

	var options []Option
	if err := r.db.SelectContext(ctx, &options, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load question options: %w", err)
	}

	for _, opt := range options {
		if i, ok := index[opt.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, opt)
		}
	}

	return nil
}

// Delete removes the question; options and game links cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete question: %w", core.ErrNotFound)
	}

	return nil
}
