package kpi

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SummaryPDF renders a department scorecard as a one-page PDF for
// offline distribution.
func SummaryPDF(summary *DeptSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Department KPI Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Department: %s", summary.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	rows := []struct {
		label string
		value float64
	}{
		{"Team KPI", summary.AvgKpi},
		{"Quality Objective Achievement", summary.AchSasaranMutu},
		{"Project Achievement", summary.AchProject},
		{"Supervisor Score", summary.NilaiPimpinan},
		{"Attendance / Discipline", summary.Kehadiran},
	}
	for _, row := range rows {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.2f", row.label, row.value))
		pdf.Ln(7)
	}

	pdf.Ln(3)
	pdf.Cell(0, 8, fmt.Sprintf("Composite: %.2f%%", summary.Persentase))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Head Score: %.2f", summary.NilaiKpiHead))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Grade: %s (%s, %s)",
		summary.Grade.Grade, summary.Grade.Label, summary.Grade.PercentRange))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render summary PDF: %w", err)
	}
	return buf.Bytes(), nil
}
