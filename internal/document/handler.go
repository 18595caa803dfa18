package document

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/transport"
	"github.com/mazta/kpi-dashboard/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
	maxSize int64
}

func NewHandler(service *Service, maxSize int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		maxSize:     maxSize,
	}
}

// Upload accepts a multipart form with a "document" file part plus
// title, category, and description fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionRequired)
		return
	}

	// allow some slack over the file limit for the other form fields;
	// the service enforces the exact file size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+1<<20)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		h.HandleServiceError(w, internal.NewValidationError(
			"file is too large or the form is malformed", internal.ErrCodeFileTooLarge))
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	dto := UploadDTO{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
	}

	meta, err := h.Service.Upload(r.Context(), session, dto, file, header.Filename, header.Size)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"document": meta,
	})
}

// List returns document metadata, optionally filtered by ?category.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionRequired)
		return
	}

	views, err := h.Service.List(r.Context(), session, r.URL.Query().Get("category"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if views == nil {
		views = []View{}
	}
	h.WriteJSON(w, http.StatusOK, views)
}

// Download streams a document as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, false)
}

// Preview streams a PDF inline for in-browser viewing. Non-PDF formats
// have no inline rendering and must be downloaded instead.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, true)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request, inline bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "document id is required")
		return
	}

	meta, f, err := h.Service.Open(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer f.Close()

	if inline {
		if fileExt(meta.StoredFilename) != ".pdf" {
			h.WriteError(w, http.StatusBadRequest, "only PDF documents can be previewed")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="`+meta.OriginalFilename+`"`)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="`+meta.OriginalFilename+`"`)
	}

	if _, err := io.Copy(w, f); err != nil {
		h.Logger.Error("failed to stream document", "id", id, "error", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrSessionRequired)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "document id is required")
		return
	}

	if err := h.Service.Delete(r.Context(), session, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
