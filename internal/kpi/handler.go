package kpi

import (
	"fmt"
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

func (h *Handler) DepartmentRanking(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	result, err := h.Service.DepartmentRanking(r.Context(), scope)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) EmployeeRanking(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.EmployeeRanking(r.Context(), scope, r.URL.Query().Get("dept"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) DepartmentSummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.DepartmentSummary(r.Context(), scope, r.URL.Query().Get("dept"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) DepartmentSummaryPDF(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.DepartmentSummary(r.Context(), scope, r.URL.Query().Get("dept"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	pdfBytes, err := SummaryPDF(summary)
	if err != nil {
		h.Logger.Error("summary PDF generation failed", "error", err, "department", summary.Department)
		h.HandleServiceError(w, internal.NewInternalError("failed to generate PDF", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("summary-%s.pdf", summary.Department)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.Logger.Error("failed to write PDF response", "error", err)
	}
}

func (h *Handler) KpiSummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.KpiSummary(r.Context(), scope)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) Performers(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	performers, err := h.Service.Performers(r.Context(), scope)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, performers)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (Scope, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionRequired)
		return Scope{}, false
	}
	return ScopeFromSession(session), true
}
