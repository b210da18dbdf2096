// AngelaMos | 2026
// service.go

package question

import (
	"context"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/core"
)

var ErrCorrectOptionCount = core.ValidationError("exactly one option must be correct")

type ActivityRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	repo  Repository
	audit ActivityRecorder
}

func NewService(repo Repository, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, audit: recorder}
}

func (s *Service) List(
	ctx context.Context,
	params ListQuestionsParams,
) ([]Question, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Question, error) {
	return s.repo.GetByID(ctx, id)
}

// Create expects a request that already passed struct validation.
func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateQuestionRequest,
) (*Question, error) {
	correct := 0
	for _, o := range req.Options {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return nil, ErrCorrectOptionCount
	}

	q := &Question{
		QuestionText:    req.QuestionText,
		DifficultyLevel: req.DifficultyLevel,
		Category:        req.Category,
		CreatedBy:       &actorID,
		Options:         make([]Option, 0, len(req.Options)),
	}
	for _, o := range req.Options {
		q.Options = append(q.Options, Option{OptionText: o.Text, IsCorrect: o.IsCorrect})
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionQuestionCreated,
		EntityType: audit.EntityQuestion,
		EntityID:   q.ID,
		Details: audit.Details{
			"category":   q.Category,
			"difficulty": q.DifficultyLevel,
			"options":    len(q.Options),
		},
	})

	return q, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionQuestionDeleted,
		EntityType: audit.EntityQuestion,
		EntityID:   id,
		Details:    audit.Details{"question_text": q.QuestionText},
	})

	return nil
}
