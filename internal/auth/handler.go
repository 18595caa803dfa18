package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/transport"
	"github.com/mazta/kpi-dashboard/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service      *Service
	cookieName   string
	cookieTTL    time.Duration
	secureCookie bool
}

func NewHandler(svc *Service, cfg internal.SessionConfig) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(lg),
		Service:      svc,
		cookieName:   cfg.CookieName,
		cookieTTL:    cfg.TTL,
		secureCookie: cfg.SecureCookie,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, token, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		MaxAge:   int(h.cookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"email":      session.Email,
		"department": session.Department,
		"role":       session.Role,
		"personal":   session.Personal,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		h.Service.Logout(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		MaxAge:   -1,
	})

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the caller's resolved identity for the client shell.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionRequired)
		return
	}
	h.WriteJSON(w, http.StatusOK, session)
}

// CheckLogin reports whether the caller holds a live session without
// requiring one, so the login page can poll it.
func (h *Handler) CheckLogin(w http.ResponseWriter, r *http.Request) {
	loggedIn := false
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		_, loggedIn = h.Service.Resolve(cookie.Value)
	}
	h.WriteJSON(w, http.StatusOK, map[string]bool{"loggedIn": loggedIn})
}

// SessionMiddleware resolves the cookie to a session and rejects
// requests that lack one.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookieName)
		if err != nil || cookie.Value == "" {
			h.HandleServiceError(w, internal.ErrSessionRequired)
			return
		}

		session, ok := h.Service.Resolve(cookie.Value)
		if !ok {
			h.HandleServiceError(w, internal.ErrSessionExpired)
			return
		}

		ctx := ContextWithSession(r.Context(), session)
		ctx = logger.With(ctx, "email", session.Email, "role", session.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
