// Package report serves the visibility-filtered sheet listings behind
// the dashboard tables: workload, personal KPI, quality objectives,
// personal indicators, and the project boards.
package report

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/kpi"
	"github.com/mazta/kpi-dashboard/internal/sheets"
)

type Repository interface {
	Records(ctx context.Context, sheetName string) ([]sheets.Record, error)
}

const (
	workloadSheet           = "Workload"
	kpiPersonalSheet        = "Kpi_personal"
	qualityObjectiveSheet   = "SasaranMutu"
	personalIndicatorSheet  = "indikatorpersonal"
	projectCollabSheet      = "Projectkolaborasi"
	projectIndependentSheet = "Projectmandiri"
	collabDetailSheet       = "detailkolaborasi"
	independentDetailSheet  = "detailmandiri"
	sarmutChartSheet        = "chartsarmut"
	sarmutIndicatorSheet    = "sarmutindikator"
)

// marketingDepartment is the one department the quality-objective chart
// feed is pinned to; the sheet only tracks marketing.
const marketingDepartment = "MKT"

// ProjectSummary totals project states across both project boards.
type ProjectSummary struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	InProgress int `json:"progress"`
	Overdue    int `json:"overdue"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Listing fetches one sheet and narrows it to the caller's visibility.
// employeeScoped marks sheets where staff should only see their own rows.
func (s *Service) Listing(ctx context.Context, scope kpi.Scope, sheetName string, employeeScoped bool) ([]sheets.Record, error) {
	records, err := s.fetch(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	return kpi.VisibleRecords(records, scope, employeeScoped), nil
}

func (s *Service) Workload(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, workloadSheet, false)
}

// KpiPersonal returns personal KPI rows. Staff get only their own rows;
// head and admin may narrow by an explicit department query, defaulting
// to the caller's own department for non-admins.
func (s *Service) KpiPersonal(ctx context.Context, scope kpi.Scope, deptQuery string) ([]sheets.Record, error) {
	records, err := s.fetch(ctx, kpiPersonalSheet)
	if err != nil {
		return nil, err
	}

	if scope.Role == auth.RoleStaff && scope.Personal != "" {
		out := records[:0:0]
		for _, rec := range records {
			if sheets.EqualFold(rec.Personal(), scope.Personal) {
				out = append(out, rec)
			}
		}
		return out, nil
	}

	dept := strings.TrimSpace(deptQuery)
	if dept == "" && !scope.SeesAllDepartments() {
		dept = scope.Department
	}
	if dept == "" {
		return records, nil
	}

	out := records[:0:0]
	for _, rec := range records {
		if sheets.EqualFold(rec.Department(), dept) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Service) QualityObjectives(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, qualityObjectiveSheet, false)
}

func (s *Service) PersonalIndicators(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, personalIndicatorSheet, false)
}

// QualityObjectiveChart serves the marketing quality-objective chart
// feed. The sheet only tracks marketing, so the feed is pinned to MKT:
// admins and marketing members get the MKT rows, every other department
// gets an empty feed rather than a permission error.
func (s *Service) QualityObjectiveChart(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	if !scope.SeesAllDepartments() && !sheets.EqualFold(scope.Department, marketingDepartment) {
		return []sheets.Record{}, nil
	}

	records, err := s.fetch(ctx, sarmutChartSheet)
	if err != nil {
		return nil, err
	}

	out := records[:0:0]
	for _, rec := range records {
		if sheets.EqualFold(rec.Department(), marketingDepartment) ||
			sheets.EqualFold(rec.Department(), "Marketing") {
			out = append(out, rec)
		}
	}
	return out, nil
}

// QualityObjectiveIndicators returns the per-indicator quality-objective
// rows, department-filtered for everyone but admins.
func (s *Service) QualityObjectiveIndicators(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, sarmutIndicatorSheet, false)
}

func (s *Service) ProjectCollaboration(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, projectCollabSheet, false)
}

func (s *Service) ProjectIndependent(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, projectIndependentSheet, false)
}

func (s *Service) CollaborationDetail(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, collabDetailSheet, false)
}

func (s *Service) IndependentDetail(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	return s.Listing(ctx, scope, independentDetailSheet, false)
}

// AllProjects concatenates every project sheet, visibility-filtered, so
// the client can build its department filter list.
func (s *Service) AllProjects(ctx context.Context, scope kpi.Scope) ([]sheets.Record, error) {
	var all []sheets.Record
	for _, sheetName := range []string{projectCollabSheet, projectIndependentSheet, collabDetailSheet, independentDetailSheet} {
		records, err := s.Listing(ctx, scope, sheetName, false)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// Projects totals the Done / On Progress / Over Due columns across both
// project boards within the caller's visibility.
func (s *Service) Projects(ctx context.Context, scope kpi.Scope) (*ProjectSummary, error) {
	summary := &ProjectSummary{}
	for _, sheetName := range []string{projectCollabSheet, projectIndependentSheet} {
		records, err := s.Listing(ctx, scope, sheetName, false)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			summary.Done += int(rec.Num("Done"))
			summary.InProgress += int(rec.Num("On Progress"))
			summary.Overdue += int(rec.Num("Over Due"))
		}
	}
	summary.Total = summary.Done + summary.InProgress + summary.Overdue
	return summary, nil
}

func (s *Service) fetch(ctx context.Context, sheetName string) ([]sheets.Record, error) {
	records, err := s.repo.Records(ctx, sheetName)
	if err != nil {
		s.logger.Error("sheet fetch failed", "sheet", sheetName, "error", err)
		return nil, internal.NewUpstreamError("failed to load "+sheetName, err)
	}
	return records, nil
}
