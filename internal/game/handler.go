// AngelaMos | 2026
// handler.go

package game

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

const maxBodyBytes = 1 << 16

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts /games. Reads need a session; writes also pass
// through manage.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, manage func(http.Handler) http.Handler,
) {
	r.Route("/games", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{gameID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(manage)
			r.Post("/", h.Create)
			r.Delete("/{gameID}", h.Delete)
			r.Post("/{gameID}/questions", h.AddQuestion)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListGamesParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Status:   strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))),
	}
	params.Normalize()

	games, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.Paginated(w, ToGameResponseList(games), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	game, questions, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.OK(w, ToDetailResponse(game, questions))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.normalize()
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	game, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.Created(w, ToGameResponse(game))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var req AddQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.AddQuestion(r.Context(), middleware.GetUserID(r.Context()), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.Created(w, map[string]any{
		"game_id":     id,
		"question_id": req.QuestionID,
		"order":       order,
	})
}

func gameIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "gameID")
	if _, err := uuid.Parse(id); err != nil {
		core.NotFound(w, "game")
		return "", false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if !core.IsAppError(err) && errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "game")
		return
	}
	core.JSONError(w, r, err)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
