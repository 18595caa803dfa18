package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/sheets"
)

// Repository accesses the documents range of the spreadsheet store.
type Repository interface {
	Values(ctx context.Context, rangeName string) ([][]string, error)
	Append(ctx context.Context, rangeName string, row []string) error
	Clear(ctx context.Context, rangeName string) error
}

const (
	documentsSheet = "documents"
	documentsRange = "documents!A:I"
)

type Service struct {
	repo    Repository
	store   *DiskStore
	maxSize int64
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, store *DiskStore, maxSize int64, logger *slog.Logger) *Service {
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	return &Service{
		repo:    repo,
		store:   store,
		maxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload validates and stores one document. Validation happens before
// any byte hits disk and before any metadata row is written; a metadata
// write failure removes the just-written file so no orphan survives a
// failed upload. An orphan can still appear if the process dies between
// the two steps, which is logged distinctly when later detected.
func (s *Service) Upload(ctx context.Context, session auth.Session, dto UploadDTO, file io.Reader, filename string, declaredSize int64) (*Metadata, error) {
	if session.Role != auth.RoleAdmin && session.Role != auth.RoleHead {
		return nil, internal.ErrRoleDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeMissingField)
	}

	ext := strings.ToLower(fileExt(filename))
	if !ExtensionAllowed(ext) {
		return nil, internal.NewValidationError(
			"file must be PDF, DOC, DOCX, XLS, or XLSX", internal.ErrCodeInvalidFileType)
	}

	if declaredSize > s.maxSize {
		return nil, internal.NewValidationError(
			fmt.Sprintf("file exceeds the %dMB limit", s.maxSize>>20), internal.ErrCodeFileTooLarge)
	}

	storedName, size, err := s.store.Save(io.LimitReader(file, s.maxSize+1), ext)
	if err != nil {
		return nil, internal.NewInternalError("failed to store file", err)
	}
	if size > s.maxSize {
		_ = s.store.Remove(storedName)
		return nil, internal.NewValidationError(
			fmt.Sprintf("file exceeds the %dMB limit", s.maxSize>>20), internal.ErrCodeFileTooLarge)
	}

	uploadedBy := session.Personal
	if uploadedBy == "" {
		uploadedBy = session.Email
	}

	meta := &Metadata{
		ID:               uuid.NewString(),
		Title:            dto.Title,
		Category:         dto.Category,
		Description:      dto.Description,
		StoredFilename:   storedName,
		OriginalFilename: filename,
		Size:             strconv.FormatInt(size, 10),
		UploadedBy:       uploadedBy,
		UploadDate:       s.now().Format(time.RFC3339),
	}

	row := []string{
		meta.ID, meta.Title, meta.Category, meta.Description,
		meta.StoredFilename, meta.OriginalFilename, meta.Size,
		meta.UploadedBy, meta.UploadDate,
	}
	if err := s.repo.Append(ctx, documentsRange, row); err != nil {
		if rmErr := s.store.Remove(storedName); rmErr != nil {
			// the file survived a failed upload; flag it apart from the
			// upstream failure so cleanup can find it
			s.logger.Error("orphaned upload left on disk",
				"stored_filename", storedName, "error", rmErr)
		}
		s.logger.Error("failed to append document metadata", "error", err, "title", dto.Title)
		return nil, internal.NewUpstreamError("failed to save document", err)
	}

	s.logger.Info("document uploaded",
		"id", meta.ID, "title", meta.Title, "size", size, "uploaded_by", uploadedBy)
	return meta, nil
}

// List returns document metadata, optionally narrowed by category, with
// the caller's delete permission resolved per row.
func (s *Service) List(ctx context.Context, session auth.Session, category string) ([]View, error) {
	docs, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(docs))
	for _, doc := range docs {
		if category != "" && !sheets.EqualFold(doc.Category, category) {
			continue
		}
		views = append(views, View{
			Metadata:  doc,
			CanDelete: s.canDelete(session, doc),
		})
	}
	return views, nil
}

// Open finds a document by ID and opens its binary for streaming.
func (s *Service) Open(ctx context.Context, id string) (*Metadata, *os.File, error) {
	doc, _, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !s.store.Exists(doc.StoredFilename) {
		s.logger.Error("document metadata points at a missing file",
			"id", doc.ID, "stored_filename", doc.StoredFilename)
		return nil, nil, internal.ErrFileNotFound
	}

	f, err := s.store.Open(doc.StoredFilename)
	if err != nil {
		return nil, nil, internal.NewInternalError("failed to open file", err)
	}
	return doc, f, nil
}

// Delete removes a document's file and blanks its metadata row. Admins
// may delete anything; others only their own uploads.
func (s *Service) Delete(ctx context.Context, session auth.Session, id string) error {
	doc, rowIndex, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !s.canDelete(session, *doc) {
		return internal.NewForbiddenError(
			"you may only delete documents you uploaded", internal.ErrCodeRoleDenied)
	}

	if err := s.store.Remove(doc.StoredFilename); err != nil {
		s.logger.Error("failed to remove document file",
			"id", id, "stored_filename", doc.StoredFilename, "error", err)
	}

	// +2: one for the header row, one because sheet rows are 1-based
	rowRange := fmt.Sprintf("%s!A%d:I%d", documentsSheet, rowIndex+2, rowIndex+2)
	if err := s.repo.Clear(ctx, rowRange); err != nil {
		s.logger.Error("failed to clear document row", "error", err, "id", id)
		return internal.NewUpstreamError("failed to delete document", err)
	}

	s.logger.Info("document deleted", "id", id, "deleted_by", session.Email)
	return nil
}

func (s *Service) canDelete(session auth.Session, doc Metadata) bool {
	if session.Role == auth.RoleAdmin {
		return true
	}
	owner := session.Personal
	if owner == "" {
		owner = session.Email
	}
	return sheets.EqualFold(doc.UploadedBy, owner)
}

func (s *Service) all(ctx context.Context) ([]Metadata, error) {
	rows, err := s.repo.Values(ctx, documentsRange)
	if err != nil {
		s.logger.Error("failed to load documents sheet", "error", err)
		return nil, internal.NewUpstreamError("failed to load documents", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	docs := make([]Metadata, 0, len(rows)-1)
	for _, row := range rows[1:] {
		docs = append(docs, Metadata{
			ID:               cell(row, 0),
			Title:            cell(row, 1),
			Category:         cell(row, 2),
			Description:      cell(row, 3),
			StoredFilename:   cell(row, 4),
			OriginalFilename: cell(row, 5),
			Size:             cell(row, 6),
			UploadedBy:       cell(row, 7),
			UploadDate:       cell(row, 8),
		})
	}
	return docs, nil
}

// find returns a document and its 0-based data row index. Cleared rows
// keep their position, so indices stay aligned with the sheet.
func (s *Service) find(ctx context.Context, id string) (*Metadata, int, error) {
	docs, err := s.all(ctx)
	if err != nil {
		return nil, 0, err
	}

	for i, doc := range docs {
		if doc.ID == id {
			return &docs[i], i, nil
		}
	}
	return nil, 0, internal.ErrDocumentNotFound
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
