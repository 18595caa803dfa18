package comment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/transport"
	"github.com/mazta/kpi-dashboard/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// List returns every comment, grouped by KPI row when ?grouped=true.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		grouped, err := h.Service.ListGrouped(r.Context())
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, grouped)
		return
	}

	comments, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, comments)
}

func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionRequired)
		return
	}

	var dto AppendDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	author := session.Personal
	if author == "" {
		author = session.Email
	}

	comment, err := h.Service.Append(r.Context(), dto, author)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"comment": comment,
	})
}
