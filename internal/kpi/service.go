package kpi

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/auth"
	"github.com/mazta/kpi-dashboard/internal/sheets"
)

// Repository reads sheet rows from the spreadsheet store.
type Repository interface {
	Records(ctx context.Context, sheetName string) ([]sheets.Record, error)
}

const (
	kpiPersonalSheet = "Kpi_personal"
	kpiHeadSheet     = "kpihead"

	scoreField = "Nilai KPI"

	fieldTeamKpi    = "Kpi team"
	fieldSasaran    = "Ach Sasaran Mutu"
	fieldProject    = "Ach Project"
	fieldPimpinan   = "Nilai Pimpinan"
	fieldAttendance = "Kehadiran / Kedisiplinan"
)

type Service struct {
	repo   Repository
	policy MeanPolicy
	logger *slog.Logger
}

func NewService(repo Repository, policy MeanPolicy, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

// DepartmentRanking groups every KPI row by department and ranks the
// means. Staff are pinned to their own department; head and admin see
// the whole table, since cross-department ranks are the point of it.
func (s *Service) DepartmentRanking(ctx context.Context, scope Scope) (*DeptRankingResult, error) {
	records, err := s.fetch(ctx, kpiPersonalSheet, "failed to load department ranking")
	if err != nil {
		return nil, err
	}

	if scope.Role == auth.RoleStaff {
		records = VisibleRecords(records, scope, false)
	}

	entries := Rank(records, func(rec sheets.Record) GroupKey {
		dept := strings.TrimSpace(rec.Department())
		if dept == "" {
			dept = "Unknown"
		}
		return GroupKey{Subject: dept}
	}, scoreField, s.policy)

	return &DeptRankingResult{
		Rankings: entries,
		CurrentUser: CurrentUser{
			Role:       string(scope.Role),
			Department: scope.Department,
			Name:       scope.Personal,
		},
	}, nil
}

// EmployeeRanking ranks mean KPI per employee, keyed by name plus
// department so same-name employees in different departments stay
// separate. An optional department filter narrows the table.
func (s *Service) EmployeeRanking(ctx context.Context, scope Scope, deptFilter string) ([]RankingEntry, error) {
	records, err := s.fetch(ctx, kpiPersonalSheet, "failed to load employee ranking")
	if err != nil {
		return nil, err
	}

	if scope.Role == auth.RoleStaff {
		records = VisibleRecords(records, scope, false)
	}

	if deptFilter != "" {
		filtered := records[:0:0]
		for _, rec := range records {
			if sheets.EqualFold(rec.Department(), deptFilter) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	return Rank(records, func(rec sheets.Record) GroupKey {
		name := strings.TrimSpace(rec.Personal())
		if name == "" {
			name = "Unknown"
		}
		dept := strings.TrimSpace(rec.Department())
		if dept == "" {
			dept = "-"
		}
		return GroupKey{Subject: name, Department: dept}
	}, scoreField, s.policy), nil
}

// DepartmentSummary computes the five-way composite scorecard for one
// department from the head KPI sheet. A head asking about another
// department gets a permission error, not an empty summary.
func (s *Service) DepartmentSummary(ctx context.Context, scope Scope, dept string) (*DeptSummary, error) {
	if strings.TrimSpace(dept) == "" {
		return nil, internal.NewValidationError("dept parameter is required", internal.ErrCodeMissingField)
	}

	if scope.Role == auth.RoleHead {
		if err := scope.CanViewDepartment(dept); err != nil {
			s.logger.Warn("head denied cross-department summary",
				"caller_department", scope.Department, "requested", dept)
			return nil, err
		}
	}

	records, err := s.fetch(ctx, kpiHeadSheet, "failed to load department summary")
	if err != nil {
		return nil, err
	}

	if scope.Role == auth.RoleStaff {
		records = VisibleRecords(records, scope, false)
	}

	var rows []sheets.Record
	for _, rec := range records {
		if sheets.EqualFold(rec.Department(), dept) {
			rows = append(rows, rec)
		}
	}

	summary := &DeptSummary{Department: dept}
	if len(rows) == 0 {
		summary.Grade = GradeFor(0)
		return summary, nil
	}

	summary.AvgKpi = s.mean(rows, fieldTeamKpi)
	summary.AchSasaranMutu = s.mean(rows, fieldSasaran)
	summary.AchProject = s.mean(rows, fieldProject)
	summary.NilaiPimpinan = s.mean(rows, fieldPimpinan)
	summary.Kehadiran = s.mean(rows, fieldAttendance)
	summary.SampleCount = len(rows)

	percentage := (summary.AvgKpi + summary.AchSasaranMutu + summary.AchProject +
		summary.NilaiPimpinan + summary.Kehadiran) / 5

	summary.Persentase = round2(percentage)
	summary.NilaiKpiHead = HeadScore(percentage)
	summary.Grade = GradeFor(summary.NilaiKpiHead)
	return summary, nil
}

// KpiSummary aggregates the caller's visible KPI rows into the headline
// dashboard numbers.
func (s *Service) KpiSummary(ctx context.Context, scope Scope) (*Summary, error) {
	records, err := s.fetch(ctx, kpiPersonalSheet, "failed to load KPI summary")
	if err != nil {
		return nil, err
	}

	records = VisibleRecords(records, scope, false)

	employees := make(map[string]struct{})
	var total float64
	var counted, above90, below70 int

	for _, rec := range records {
		if name := strings.TrimSpace(rec.Personal()); name != "" {
			employees[strings.ToLower(name)] = struct{}{}
		}

		score, numeric := rec.NumOK(scoreField)
		if !numeric && s.policy == ExcludeMissing {
			continue
		}
		total += score
		counted++
		if score >= 90 {
			above90++
		}
		if score < 70 {
			below70++
		}
	}

	summary := &Summary{
		TotalEmployees: len(employees),
		Count90Up:      above90,
		CountUnder70:   below70,
	}
	if counted > 0 {
		summary.AvgKpi = round2(total / float64(counted))
	}
	return summary, nil
}

// Performers names the best and worst department by mean KPI within the
// caller's visibility.
func (s *Service) Performers(ctx context.Context, scope Scope) (*Performers, error) {
	records, err := s.fetch(ctx, kpiPersonalSheet, "failed to load department performers")
	if err != nil {
		return nil, err
	}

	records = VisibleRecords(records, scope, false)

	entries := Rank(records, func(rec sheets.Record) GroupKey {
		dept := strings.TrimSpace(rec.Department())
		if dept == "" {
			dept = "Unknown"
		}
		return GroupKey{Subject: dept}
	}, scoreField, s.policy)

	result := &Performers{TopDepartment: "-", UnderDepartment: "-"}
	if len(entries) > 0 {
		result.TopDepartment = entries[0].Subject
		result.UnderDepartment = entries[len(entries)-1].Subject
	}
	return result, nil
}

func (s *Service) fetch(ctx context.Context, sheetName, message string) ([]sheets.Record, error) {
	records, err := s.repo.Records(ctx, sheetName)
	if err != nil {
		s.logger.Error("sheet fetch failed", "sheet", sheetName, "error", err)
		return nil, internal.NewUpstreamError(message, err)
	}
	return records, nil
}

func (s *Service) mean(rows []sheets.Record, field string) float64 {
	var total float64
	var count int
	for _, rec := range rows {
		n, numeric := rec.NumOK(field)
		if !numeric && s.policy == ExcludeMissing {
			continue
		}
		total += n
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func round2(n float64) float64 {
	return math.Round(n*100) / 100
}
