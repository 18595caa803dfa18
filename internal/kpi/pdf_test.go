package kpi

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("SummaryPDF", func() {
	ginkgo.It("should render a non-empty PDF document", func() {
		summary := &DeptSummary{
			Department:     "Finance",
			AvgKpi:         80,
			AchSasaranMutu: 90,
			AchProject:     100,
			NilaiPimpinan:  85,
			Kehadiran:      95,
			Persentase:     90,
			NilaiKpiHead:   3.6,
			Grade:          GradeFor(3.6),
		}

		data, err := SummaryPDF(summary)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(len(data)).To(gomega.BeNumerically(">", 100))
		gomega.Expect(string(data[:5])).To(gomega.Equal("%PDF-"))
	})
})
