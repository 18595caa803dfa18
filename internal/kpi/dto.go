package kpi

// DeptRankingResult carries the ranking plus the caller's identity so
// the client can highlight their own department.
type DeptRankingResult struct {
	Rankings    []RankingEntry `json:"rankings"`
	CurrentUser CurrentUser    `json:"currentUser"`
}

type CurrentUser struct {
	Role       string `json:"role"`
	Department string `json:"department"`
	Name       string `json:"name"`
}

// DeptSummary is the weighted department scorecard: five component
// means, their composite percentage, the rescaled head score, and the
// grade derived from it.
type DeptSummary struct {
	Department     string  `json:"department"`
	AvgKpi         float64 `json:"avgKpi"`
	AchSasaranMutu float64 `json:"achSasaranMutu"`
	AchProject     float64 `json:"achProject"`
	NilaiPimpinan  float64 `json:"nilaiPimpinan"`
	Kehadiran      float64 `json:"kehadiran"`
	NilaiKpiHead   float64 `json:"nilaiKpiHead"`
	Persentase     float64 `json:"persentase"`
	SampleCount    int     `json:"sampleCount"`
	Grade          Grade   `json:"grade"`
}

type Summary struct {
	TotalEmployees int     `json:"totalEmployees"`
	AvgKpi         float64 `json:"avgKpi"`
	Count90Up      int     `json:"count90Up"`
	CountUnder70   int     `json:"countUnder70"`
}

type Performers struct {
	TopDepartment   string `json:"topDepartment"`
	UnderDepartment string `json:"underDepartment"`
}
