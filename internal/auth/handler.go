// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carterperez-dev/quiz-platform/internal/config"
	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/middleware"
)

const (
	maxBodyBytes = 1 << 16

	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeTokenReuse         = "TOKEN_REUSE_DETECTED"
)

type Handler struct {
	service *Service
	cfg     config.AuthConfig
}

func NewHandler(service *Service, cfg config.AuthConfig) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// RegisterRoutes mounts /auth. strict wraps the credential endpoints with
// the tighter login limiter.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, strict func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.With(strict).Post("/login", h.Login)
		r.With(strict).Post("/signup", h.Signup)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
			r.Get("/sessions", h.Sessions)
			r.Delete("/sessions/{sessionID}", h.RevokeSession)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.loginError(w, r, err)
		return
	}

	core.OK(w, resp)
}

// loginError keeps the two credential failures apart in the audit trail
// while the client may only see one message.
func (h *Handler) loginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmailNotFound), errors.Is(err, ErrWrongPassword):
		message := "invalid email or password"
		if !h.cfg.UniformLoginErrors {
			message = err.Error()
		}
		core.JSONError(w, r, core.NewAppError(
			core.ErrUnauthorized,
			message,
			http.StatusUnauthorized,
			codeInvalidCredentials,
		))
	case core.IsAppError(err):
		core.JSONError(w, r, err)
	default:
		core.InternalServerError(w, r, err)
	}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			core.JSONError(w, r, core.DuplicateError("email"))
		case core.IsAppError(err):
			core.JSONError(w, r, err)
		default:
			core.InternalServerError(w, r, err)
		}
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		core.BadRequest(w, "refresh_token is required")
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenReuse):
			core.JSONError(w, r, core.NewAppError(
				core.ErrTokenRevoked,
				"security alert: token reuse detected, all sessions revoked",
				http.StatusUnauthorized,
				codeTokenReuse,
			))
		case errors.Is(err, core.ErrTokenExpired),
			errors.Is(err, core.ErrTokenRevoked),
			errors.Is(err, core.ErrTokenInvalid):
			core.JSONError(w, r, err)
		default:
			core.InternalServerError(w, r, err)
		}
		return
	}

	core.OK(w, resp)
}

// Logout accepts an empty body; the refresh token is optional.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "")
		return
	}

	var req LogoutRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), claims, req.RefreshToken); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "cannot revoke another user's token")
			return
		}
		core.InternalServerError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.LogoutAll(r.Context(), claims); err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.service.ActiveSessions(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, SessionsResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessionID := chi.URLParam(r, "sessionID")
	if _, err := uuid.Parse(sessionID); err != nil {
		core.NotFound(w, "session")
		return
	}

	if err := h.service.RevokeSession(r.Context(), userID, sessionID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "session")
			return
		}
		core.InternalServerError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCurrentPassword):
			core.JSONError(w, r, core.UnauthorizedError(err.Error()))
		case core.IsAppError(err):
			core.JSONError(w, r, err)
		default:
			core.InternalServerError(w, r, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.service.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, me)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}
