// AngelaMos | 2026
// handler.go

package role

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/quiz-platform/internal/core"
)

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, guard func(http.Handler) http.Handler,
) {
	r.With(authenticator, guard).Get("/admin/roles", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.resolver.List(r.Context())
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, roles)
}
