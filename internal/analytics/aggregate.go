// internal/analytics/aggregate.go

// Package analytics computes display aggregates over evaluation records:
// per-month averages, the evaluator cross-tabulation, comment pages and
// radar-chart vectors. Everything here is a pure function over the full
// record set so the same code serves handlers and tests.
package analytics

import (
	"math"
	"sort"

	"office-portal/internal/models"
)

// Record is one evaluation row as seen by the aggregation functions.
type Record struct {
	Evaluator string
	Month     string // "YYYY-MM"
	Scores    map[string]int
	Total     int
	Comment   string
}

// DistinctMonths returns the unique months across records, most recent first.
// Descending lexicographic order is correct because the format is zero-padded
// "YYYY-MM".
func DistinctMonths(records []Record) []string {
	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Month]; !ok {
			seen[r.Month] = struct{}{}
			months = append(months, r.Month)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// MonthAt resolves a month selector index (0 = most recent) to a month.
func MonthAt(records []Record, index int) (string, bool) {
	months := DistinctMonths(records)
	if index < 0 || index >= len(months) {
		return "", false
	}
	return months[index], true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// PercentAverage returns (mean(total) / max possible total) x 100 rounded to
// one decimal. An empty record set yields 0.0, never NaN.
func PercentAverage(records []Record) float64 {
	if len(records) == 0 {
		return 0.0
	}
	sum := 0
	for _, r := range records {
		sum += r.Total
	}
	mean := float64(sum) / float64(len(records))
	return round1(mean / float64(models.MaxTotalScore) * 100)
}

// MonthSummary holds the aggregates for one month.
type MonthSummary struct {
	Month          string             `json:"month"`
	Submissions    int                `json:"submissions"`
	ItemAverages   map[string]float64 `json:"itemAverages"`
	AveragePercent float64            `json:"averagePercent"`
}

// MonthlyReport groups records by month, most recent first, and computes
// per-item averages and the 100-point-scaled total average for each month.
func MonthlyReport(records []Record) []MonthSummary {
	months := DistinctMonths(records)
	out := make([]MonthSummary, 0, len(months))
	for _, m := range months {
		monthRecs := filterMonth(records, m)
		out = append(out, MonthSummary{
			Month:          m,
			Submissions:    len(monthRecs),
			ItemAverages:   itemAverages(monthRecs),
			AveragePercent: PercentAverage(monthRecs),
		})
	}
	return out
}

func filterMonth(records []Record, month string) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out
}

func itemAverages(records []Record) map[string]float64 {
	avgs := make(map[string]float64, len(models.ScoreItems))
	if len(records) == 0 {
		for _, item := range models.ScoreItems {
			avgs[item] = 0.0
		}
		return avgs
	}
	n := float64(len(records))
	for _, item := range models.ScoreItems {
		sum := 0
		for _, r := range records {
			sum += r.Scores[item]
		}
		avgs[item] = round1(float64(sum) / n)
	}
	return avgs
}
