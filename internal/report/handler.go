package report

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/kpi"
	"github.com/mazta/kpi-dashboard/internal/sheets"
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

func (h *Handler) Workload(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.Workload(ctx, scope)
	})
}

func (h *Handler) KpiPersonal(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	records, err := h.Service.KpiPersonal(r.Context(), scope, r.URL.Query().Get("dept"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) QualityObjectives(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.QualityObjectives(ctx, scope)
	})
}

func (h *Handler) QualityObjectiveChart(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.QualityObjectiveChart(ctx, scope)
	})
}

func (h *Handler) QualityObjectiveIndicators(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.QualityObjectiveIndicators(ctx, scope)
	})
}

func (h *Handler) PersonalIndicators(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.PersonalIndicators(ctx, scope)
	})
}

func (h *Handler) ProjectCollaboration(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.ProjectCollaboration(ctx, scope)
	})
}

func (h *Handler) ProjectIndependent(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.ProjectIndependent(ctx, scope)
	})
}

func (h *Handler) CollaborationDetail(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.CollaborationDetail(ctx, scope)
	})
}

func (h *Handler) IndependentDetail(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.IndependentDetail(ctx, scope)
	})
}

func (h *Handler) AllProjects(w http.ResponseWriter, r *http.Request) {
	h.listing(w, r, func(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
		return h.Service.AllProjects(ctx, scope)
	})
}

func (h *Handler) ProjectSummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.Projects(r.Context(), scope)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) listing(w http.ResponseWriter, r *http.Request, fetch func(context.Context, kpi.Scope) ([]sheets.Record, error)) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	records, err := fetch(r.Context(), scope)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if records == nil {
		records = []sheets.Record{}
	}
	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (kpi.Scope, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionRequired)
		return kpi.Scope{}, false
	}
	return kpi.ScopeFromSession(session), true
}
