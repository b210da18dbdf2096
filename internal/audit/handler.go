// AngelaMos | 2026
// handler.go

package audit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, guard func(http.Handler) http.Handler,
) {
	r.With(authenticator, guard).Get("/admin/activity", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListParams{
		Page:       parseIntQuery(r, "page", 1),
		PageSize:   parseIntQuery(r, "page_size", defaultPageSize),
		Action:     strings.ToUpper(strings.TrimSpace(q.Get("action"))),
		UserID:     strings.TrimSpace(q.Get("user_id")),
		EntityType: strings.TrimSpace(q.Get("entity_type")),
	}

	if params.UserID != "" {
		if _, err := uuid.Parse(params.UserID); err != nil {
			core.BadRequest(w, "user_id must be a UUID")
			return
		}
	}

	entries, total, params, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.Paginated(
		w,
		ToEntryResponseList(entries),
		params.Page,
		params.PageSize,
		total,
	)
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
