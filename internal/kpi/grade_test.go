package kpi

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("GradeFor", func() {
	ginkgo.It("should grade exactly 4.5 as A", func() {
		grade := GradeFor(4.5)
		gomega.Expect(grade.Grade).To(gomega.Equal("A"))
		gomega.Expect(grade.Label).To(gomega.Equal("Sangat Baik"))
		gomega.Expect(grade.Color).To(gomega.Equal("#10b981"))
		gomega.Expect(grade.BgColor).To(gomega.Equal("#d1fae5"))
		gomega.Expect(grade.PercentRange).To(gomega.Equal("91% - 100%"))
	})

	ginkgo.It("should grade just below 4.5 as B", func() {
		gomega.Expect(GradeFor(4.4999).Grade).To(gomega.Equal("B"))
	})

	ginkgo.It("should walk the ladder at each threshold", func() {
		gomega.Expect(GradeFor(5).Grade).To(gomega.Equal("A"))
		gomega.Expect(GradeFor(3.5).Grade).To(gomega.Equal("B"))
		gomega.Expect(GradeFor(3.49).Grade).To(gomega.Equal("C"))
		gomega.Expect(GradeFor(2.5).Grade).To(gomega.Equal("C"))
		gomega.Expect(GradeFor(1.5).Grade).To(gomega.Equal("D"))
		gomega.Expect(GradeFor(1.49).Grade).To(gomega.Equal("E"))
	})

	ginkgo.It("should grade zero as E with its display metadata", func() {
		grade := GradeFor(0)
		gomega.Expect(grade.Grade).To(gomega.Equal("E"))
		gomega.Expect(grade.Label).To(gomega.Equal("Sangat Kurang"))
		gomega.Expect(grade.PercentRange).To(gomega.Equal("<60%"))
		gomega.Expect(grade.Color).To(gomega.Equal("#991b1b"))
	})
})

var _ = ginkgo.Describe("HeadScore", func() {
	ginkgo.It("should pin 100% and above to 5", func() {
		gomega.Expect(HeadScore(100)).To(gomega.Equal(5.0))
		gomega.Expect(HeadScore(120)).To(gomega.Equal(5.0))
	})

	ginkgo.It("should rescale everything below 100% onto 0-4", func() {
		gomega.Expect(HeadScore(99)).To(gomega.BeNumerically("~", 3.96, 1e-9))
		gomega.Expect(HeadScore(50)).To(gomega.Equal(2.0))
		gomega.Expect(HeadScore(0)).To(gomega.BeZero())
	})
})
