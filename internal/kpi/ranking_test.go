package kpi

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/mazta/kpi-dashboard/internal/sheets"
)

func byDepartment(rec sheets.Record) GroupKey {
	return GroupKey{Subject: rec.Department()}
}

var _ = ginkgo.Describe("Rank", func() {
	ginkgo.It("should order groups by descending mean with positional ranks", func() {
		records := []sheets.Record{
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "80"},
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "90"},
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "70"},
			{sheets.HeaderDepartment: "HRD", "Nilai KPI": "95"},
			{sheets.HeaderDepartment: "IT", "Nilai KPI": "60"},
		}

		entries := Rank(records, byDepartment, "Nilai KPI", CountMissingAsZero)

		gomega.Expect(entries).To(gomega.HaveLen(3))
		gomega.Expect(entries[0].Subject).To(gomega.Equal("HRD"))
		gomega.Expect(entries[1].Subject).To(gomega.Equal("Finance"))
		gomega.Expect(entries[1].AverageScore).To(gomega.Equal(80.0))
		gomega.Expect(entries[1].SampleCount).To(gomega.Equal(3))
		gomega.Expect(entries[2].Subject).To(gomega.Equal("IT"))

		for i, entry := range entries {
			gomega.Expect(entry.Rank).To(gomega.Equal(i + 1))
		}
	})

	ginkgo.It("should give tied means distinct consecutive ranks in first-seen order", func() {
		records := []sheets.Record{
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "80"},
			{sheets.HeaderDepartment: "HRD", "Nilai KPI": "80"},
		}

		entries := Rank(records, byDepartment, "Nilai KPI", CountMissingAsZero)

		gomega.Expect(entries[0].Subject).To(gomega.Equal("Finance"))
		gomega.Expect(entries[0].Rank).To(gomega.Equal(1))
		gomega.Expect(entries[1].Subject).To(gomega.Equal("HRD"))
		gomega.Expect(entries[1].Rank).To(gomega.Equal(2))
	})

	ginkgo.It("should fold blank scores in as zero by default", func() {
		records := []sheets.Record{
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "80"},
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": ""},
		}

		entries := Rank(records, byDepartment, "Nilai KPI", CountMissingAsZero)

		gomega.Expect(entries[0].AverageScore).To(gomega.Equal(40.0))
		gomega.Expect(entries[0].SampleCount).To(gomega.Equal(2))
	})

	ginkgo.It("should drop blank scores under the exclude policy", func() {
		records := []sheets.Record{
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "80"},
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": ""},
		}

		entries := Rank(records, byDepartment, "Nilai KPI", ExcludeMissing)

		gomega.Expect(entries[0].AverageScore).To(gomega.Equal(80.0))
		gomega.Expect(entries[0].SampleCount).To(gomega.Equal(1))
	})

	ginkgo.It("should parse comma decimals and percent signs in scores", func() {
		records := []sheets.Record{
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "85,5"},
			{sheets.HeaderDepartment: "Finance", "Nilai KPI": "90%"},
		}

		entries := Rank(records, byDepartment, "Nilai KPI", CountMissingAsZero)

		gomega.Expect(entries[0].AverageScore).To(gomega.Equal(87.75))
	})
})
