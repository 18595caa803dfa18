package kpi

// Grade is one of five ordinal performance tiers. Everything beyond the
// letter is display metadata. The percentage ranges are defined
// independently of the score thresholds in the source material and are
// carried verbatim, not derived.
type Grade struct {
	Grade        string `json:"grade"`
	Label        string `json:"label"`
	Percentage   int    `json:"percentage"`
	PercentRange string `json:"percentageRange"`
	Color        string `json:"color"`
	BgColor      string `json:"bgColor"`
}

// GradeFor maps a 0-5 composite score onto the grade ladder.
func GradeFor(score float64) Grade {
	switch {
	case score >= 4.5:
		return Grade{
			Grade:        "A",
			Label:        "Sangat Baik",
			Percentage:   100,
			PercentRange: "91% - 100%",
			Color:        "#10b981",
			BgColor:      "#d1fae5",
		}
	case score >= 3.5:
		return Grade{
			Grade:        "B",
			Label:        "Baik",
			Percentage:   90,
			PercentRange: "81% - 90%",
			Color:        "#3b82f6",
			BgColor:      "#dbeafe",
		}
	case score >= 2.5:
		return Grade{
			Grade:        "C",
			Label:        "Cukup",
			Percentage:   80,
			PercentRange: "71% - 80%",
			Color:        "#f59e0b",
			BgColor:      "#fef3c7",
		}
	case score >= 1.5:
		return Grade{
			Grade:        "D",
			Label:        "Kurang",
			Percentage:   70,
			PercentRange: "61% - 70%",
			Color:        "#ef4444",
			BgColor:      "#fee2e2",
		}
	default:
		return Grade{
			Grade:        "E",
			Label:        "Sangat Kurang",
			Percentage:   60,
			PercentRange: "<60%",
			Color:        "#991b1b",
			BgColor:      "#fecaca",
		}
	}
}

// HeadScore rescales a composite percentage onto the 0-5 scale.
// Exactly 100% (or more) pins the score to 5; anything below maps to
// percentage/100*4, so 99.999% yields just under 4. The discontinuity
// at the 100% boundary is intentional and load-bearing for grading.
func HeadScore(percentage float64) float64 {
	if percentage >= 100 {
		return 5
	}
	return percentage / 100 * 4
}
