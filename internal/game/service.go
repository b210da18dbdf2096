// AngelaMos | 2026
// service.go

package game

import (
	"context"
	"errors"
	"net/http"

	"github.com/carterperez-dev/quiz-platform/internal/audit"
	"github.com/carterperez-dev/quiz-platform/internal/core"
)

var ErrQuestionAlreadyAdded = core.NewAppError(
	core.ErrDuplicateKey,
	"question is already part of this game",
	http.StatusConflict,
	"CONFLICT",
)

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
	params ListGamesParams,
) ([]Game, int, error) {
	return s.repo.List(ctx, params)
}

// Get returns the game with its questions in play order.
func (s *Service) Get(ctx context.Context, id string) (*Game, []Question, error) {
	game, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.repo.Questions(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return game, questions, nil
}

// Create stores a new game in draft status owned by actorID.
func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateGameRequest,
) (*Game, error) {
	game := &Game{
		Title:            req.Title,
		Description:      req.Description,
		CreatedBy:        &actorID,
		Status:           StatusDraft,
		MaxPlayers:       req.MaxPlayers,
		TimeLimitSeconds: req.TimeLimitSeconds,
	}

	if err := s.repo.Create(ctx, game); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionGameCreated,
		EntityType: audit.EntityGame,
		EntityID:   game.ID,
		Details:    audit.Details{"title": game.Title},
	})

	return game, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	game, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionGameDeleted,
		EntityType: audit.EntityGame,
		EntityID:   id,
		Details:    audit.Details{"title": game.Title},
	})

	return nil
}

func (s *Service) AddQuestion(
	ctx context.Context,
	actorID, gameID string,
	req AddQuestionRequest,
) (int, error) {
	if _, err := s.repo.GetByID(ctx, gameID); err != nil {
		return 0, err
	}

	order, err := s.repo.AddQuestion(ctx, gameID, req.QuestionID, req.Order)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return 0, ErrQuestionAlreadyAdded
		}
		if errors.Is(err, core.ErrNotFound) {
			return 0, core.NotFoundError("question")
		}
		return 0, err
	}

	s.audit.Record(ctx, audit.Event{
		ActorID:    actorID,
		Action:     audit.ActionGameQuestionAdded,
		EntityType: audit.EntityGame,
		EntityID:   gameID,
		Details: audit.Details{
			"question_id": req.QuestionID,
			"order":       order,
		},
	})

	return order, nil
}
