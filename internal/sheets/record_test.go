package sheets

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestSheets(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Sheets Module Suite")
}

var _ = ginkgo.Describe("ParseTable", func() {
	ginkgo.It("should normalize header aliases to canonical names", func() {
		records := ParseTable([][]string{
			{"Divisi", "Personil", "Bulan", "Nilai KPI"},
			{"Finance", "Andi", "Januari", "85"},
		})

		gomega.Expect(records).To(gomega.HaveLen(1))
		gomega.Expect(records[0].Department()).To(gomega.Equal("Finance"))
		gomega.Expect(records[0].Personal()).To(gomega.Equal("Andi"))
		gomega.Expect(records[0].Month()).To(gomega.Equal("Januari"))
		gomega.Expect(records[0].Field("Nilai KPI")).To(gomega.Equal("85"))
	})

	ginkgo.It("should pad rows shorter than the header", func() {
		records := ParseTable([][]string{
			{"Departemen", "Personal", "Nilai KPI"},
			{"HRD"},
		})

		gomega.Expect(records).To(gomega.HaveLen(1))
		gomega.Expect(records[0].Department()).To(gomega.Equal("HRD"))
		gomega.Expect(records[0].Field("Nilai KPI")).To(gomega.Equal(""))
	})

	ginkgo.It("should return nil for an empty table", func() {
		gomega.Expect(ParseTable(nil)).To(gomega.BeNil())
	})

	ginkgo.It("should skip blank header columns", func() {
		records := ParseTable([][]string{
			{"Department", "", "Nilai KPI"},
			{"IT", "stray", "90"},
		})

		gomega.Expect(records[0]).ToNot(gomega.HaveKey(""))
		gomega.Expect(records[0].Num("Nilai KPI")).To(gomega.Equal(90.0))
	})
})

var _ = ginkgo.Describe("Record numeric parsing", func() {
	ginkgo.It("should accept a comma decimal separator", func() {
		rec := Record{"Nilai KPI": "85,5"}
		n, ok := rec.NumOK("Nilai KPI")
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(n).To(gomega.Equal(85.5))
	})

	ginkgo.It("should strip a percent sign", func() {
		rec := Record{"Ach Project": "91%"}
		gomega.Expect(rec.Num("Ach Project")).To(gomega.Equal(91.0))
	})

	ginkgo.It("should report blank cells as non-numeric zeros", func() {
		rec := Record{"Nilai KPI": "  "}
		n, ok := rec.NumOK("Nilai KPI")
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(n).To(gomega.BeZero())
	})

	ginkgo.It("should report garbage cells as non-numeric zeros", func() {
		rec := Record{"Nilai KPI": "n/a"}
		n, ok := rec.NumOK("Nilai KPI")
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(n).To(gomega.BeZero())
	})
})

var _ = ginkgo.Describe("EqualFold", func() {
	ginkgo.It("should trim and case-fold both sides", func() {
		gomega.Expect(EqualFold("  Finance ", "finance")).To(gomega.BeTrue())
		gomega.Expect(EqualFold("Finance", "HRD")).To(gomega.BeFalse())
	})
})
