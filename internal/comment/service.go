// Package comment is the append-only annotation list attached to KPI
// rows. Rows live in the Komentar sheet; there is no update or delete.
package comment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mazta/kpi-dashboard/internal"
)

// Repository accesses the comment range of the spreadsheet store.
type Repository interface {
	Values(ctx context.Context, rangeName string) ([][]string, error)
	Append(ctx context.Context, rangeName string, row []string) error
}

const commentRange = "Komentar!A:F"

// Comment is one annotation. RowID is the composite key of the KPI row
// it belongs to (personal+department+month).
type Comment struct {
	RowID       string `json:"rowId"`
	Department  string `json:"department"`
	Month       string `json:"month"`
	Body        string `json:"body"`
	Author      string `json:"author"`
	CreatedDate string `json:"createdDate"`
}

// AppendDTO is the client payload; author and date are server-assigned.
type AppendDTO struct {
	RowID      string `json:"rowId"`
	Department string `json:"department"`
	Month      string `json:"month"`
	Body       string `json:"body"`
}

func (dto AppendDTO) Validate() error {
	if strings.TrimSpace(dto.RowID) == "" {
		return errors.New("rowId is required")
	}
	if strings.TrimSpace(dto.Department) == "" {
		return errors.New("department is required")
	}
	if strings.TrimSpace(dto.Month) == "" {
		return errors.New("month is required")
	}
	if strings.TrimSpace(dto.Body) == "" {
		return errors.New("comment body is required")
	}
	return nil
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns every comment in sheet order.
func (s *Service) List(ctx context.Context) ([]Comment, error) {
	rows, err := s.repo.Values(ctx, commentRange)
	if err != nil {
		s.logger.Error("failed to load comments", "error", err)
		return nil, internal.NewUpstreamError("failed to load comments", err)
	}

	if len(rows) <= 1 {
		return []Comment{}, nil
	}

	comments := make([]Comment, 0, len(rows)-1)
	for _, row := range rows[1:] {
		comments = append(comments, Comment{
			RowID:       cell(row, 0),
			Department:  cell(row, 1),
			Month:       cell(row, 2),
			Body:        cell(row, 3),
			Author:      cell(row, 4),
			CreatedDate: cell(row, 5),
		})
	}
	return comments, nil
}

// ListGrouped returns all comments keyed by the KPI row they annotate.
func (s *Service) ListGrouped(ctx context.Context) (map[string][]Comment, error) {
	comments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]Comment)
	for _, c := range comments {
		grouped[c.RowID] = append(grouped[c.RowID], c)
	}
	return grouped, nil
}

// Append stores one comment with a server-assigned author and date.
// Concurrent appends are not serialized here; ordering is whatever the
// upstream append API provides.
func (s *Service) Append(ctx context.Context, dto AppendDTO, author string) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeMissingField)
	}

	if strings.TrimSpace(author) == "" {
		author = "UNKNOWN"
	}

	comment := Comment{
		RowID:       dto.RowID,
		Department:  dto.Department,
		Month:       dto.Month,
		Body:        dto.Body,
		Author:      author,
		CreatedDate: s.now().Format("2006-01-02"),
	}

	row := []string{comment.RowID, comment.Department, comment.Month, comment.Body, comment.Author, comment.CreatedDate}
	if err := s.repo.Append(ctx, commentRange, row); err != nil {
		s.logger.Error("failed to append comment", "error", err, "row_id", dto.RowID)
		return nil, internal.NewUpstreamError("failed to save comment", err)
	}

	s.logger.Info("comment saved", "row_id", comment.RowID, "author", comment.Author)
	return &comment, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
