package kpi

import (
	"sort"

	"github.com/mazta/kpi-dashboard/internal/sheets"
)

// MeanPolicy controls how blank or non-numeric score cells enter a mean.
type MeanPolicy int

const (
	// CountMissingAsZero folds missing scores in as 0, inflating the
	// denominator. This matches the spreadsheet dashboard the numbers
	// are reconciled against, so it stays the default.
	CountMissingAsZero MeanPolicy = iota
	// ExcludeMissing drops missing scores from both sides of the mean.
	ExcludeMissing
)

// GroupKey identifies one ranked group. Department disambiguates
// same-name employees across departments; it is empty for
// department-level grouping.
type GroupKey struct {
	Subject    string
	Department string
}

// RankingEntry is one row of a ranking, recomputed from raw records on
// every request.
type RankingEntry struct {
	Subject      string  `json:"subject"`
	Department   string  `json:"department,omitempty"`
	AverageScore float64 `json:"averageScore"`
	Rank         int     `json:"rank"`
	SampleCount  int     `json:"sampleCount"`
}

// Rank groups records, averages the score field per group, and orders
// the groups by descending mean. Ranks are positional starting at 1;
// equal means keep their first-seen group order and receive distinct
// consecutive ranks.
func Rank(records []sheets.Record, keyFn func(sheets.Record) GroupKey, scoreField string, policy MeanPolicy) []RankingEntry {
	type group struct {
		key   GroupKey
		total float64
		count int
	}

	var order []string
	groups := make(map[string]*group)

	for _, rec := range records {
		key := keyFn(rec)
		id := key.Subject + "\x00" + key.Department

		g, ok := groups[id]
		if !ok {
			g = &group{key: key}
			groups[id] = g
			order = append(order, id)
		}

		score, numeric := rec.NumOK(scoreField)
		if !numeric && policy == ExcludeMissing {
			continue
		}
		g.total += score
		g.count++
	}

	entries := make([]RankingEntry, 0, len(order))
	for _, id := range order {
		g := groups[id]
		avg := 0.0
		if g.count > 0 {
			avg = g.total / float64(g.count)
		}
		entries = append(entries, RankingEntry{
			Subject:      g.key.Subject,
			Department:   g.key.Department,
			AverageScore: avg,
			SampleCount:  g.count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageScore > entries[j].AverageScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
