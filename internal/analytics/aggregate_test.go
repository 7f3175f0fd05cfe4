// internal/analytics/aggregate_test.go
package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"office-portal/internal/models"
)

func perfectScores() map[string]int {
	scores := make(map[string]int, len(models.ScoreItems))
	for _, item := range models.ScoreItems {
		scores[item] = models.ItemMax(item)
	}
	return scores
}

func uniformScores(v int) map[string]int {
	scores := make(map[string]int, len(models.ScoreItems))
	for _, item := range models.ScoreItems {
		scores[item] = v
	}
	return scores
}

func sumScores(scores map[string]int) int {
	total := 0
	for _, v := range scores {
		total += v
	}
	return total
}

func TestDistinctMonths_SortedDescending(t *testing.T) {
	records := []Record{
		{Evaluator: "A", Month: "2025-08"},
		{Evaluator: "B", Month: "2025-10"},
		{Evaluator: "C", Month: "2025-09"},
		{Evaluator: "D", Month: "2025-10"},
	}

	assert.Equal(t, []string{"2025-10", "2025-09", "2025-08"}, DistinctMonths(records))
}

func TestMonthAt_OutOfRange(t *testing.T) {
	records := []Record{{Evaluator: "A", Month: "2025-08"}}

	_, ok := MonthAt(records, 1)
	assert.False(t, ok)

	_, ok = MonthAt(records, -1)
	assert.False(t, ok)

	month, ok := MonthAt(records, 0)
	assert.True(t, ok)
	assert.Equal(t, "2025-08", month)
}

func TestPercentAverage_PerfectScoreIsExactly100(t *testing.T) {
	scores := perfectScores()
	records := []Record{{
		Evaluator: "Sato",
		Month:     "2025-10",
		Scores:    scores,
		Total:     sumScores(scores),
	}}

	assert.Equal(t, 55, records[0].Total)
	assert.Equal(t, 100.0, PercentAverage(records))
}

func TestPercentAverage_EmptySetIsZeroNotNaN(t *testing.T) {
	assert.Equal(t, 0.0, PercentAverage(nil))
	assert.Equal(t, 0.0, PercentAverage([]Record{}))
}

func TestPercentAverage_RoundsToOneDecimal(t *testing.T) {
	// totals 40 and 41: mean 40.5, 40.5/55*100 = 73.636... -> 73.6
	records := []Record{
		{Evaluator: "A", Month: "2025-10", Total: 40},
		{Evaluator: "B", Month: "2025-10", Total: 41},
	}

	assert.Equal(t, 73.6, PercentAverage(records))
}

func TestMonthlyReport_GroupsByMonthDescending(t *testing.T) {
	records := []Record{
		{Evaluator: "A", Month: "2025-09", Scores: uniformScores(3), Total: 30},
		{Evaluator: "B", Month: "2025-10", Scores: uniformScores(4), Total: 40},
		{Evaluator: "C", Month: "2025-09", Scores: uniformScores(5), Total: 50},
	}

	report := MonthlyReport(records)

	assert.Len(t, report, 2)
	assert.Equal(t, "2025-10", report[0].Month)
	assert.Equal(t, 1, report[0].Submissions)
	assert.Equal(t, "2025-09", report[1].Month)
	assert.Equal(t, 2, report[1].Submissions)
	assert.Equal(t, 4.0, report[1].ItemAverages[models.ItemAccuracy])
	// (30+50)/2 = 40, 40/55*100 = 72.727... -> 72.7
	assert.Equal(t, 72.7, report[1].AveragePercent)
}

func TestMonthlyReport_Empty(t *testing.T) {
	assert.Empty(t, MonthlyReport(nil))
}

func TestRadar_PotentialHalvedToCommonScale(t *testing.T) {
	scores := perfectScores()
	records := []Record{{
		Evaluator: "Sato",
		Month:     "2025-10",
		Scores:    scores,
		Total:     sumScores(scores),
	}}

	rv := Radar(records, 0)

	assert.Equal(t, "2025-10", rv.Month)
	assert.Equal(t, 5.0, rv.ThisMonth[models.ItemPotential])
	assert.Equal(t, 5.0, rv.ThisMonth[models.ItemAccuracy])
	assert.Equal(t, 5.0, rv.Cumulative[models.ItemPotential])
}

func TestRadar_CumulativeSpansAllMonths(t *testing.T) {
	records := []Record{
		{Evaluator: "A", Month: "2025-10", Scores: uniformScores(4), Total: 40},
		{Evaluator: "B", Month: "2025-09", Scores: uniformScores(2), Total: 20},
	}

	rv := Radar(records, 0)

	assert.Equal(t, 4.0, rv.ThisMonth[models.ItemAccuracy])
	assert.Equal(t, 3.0, rv.Cumulative[models.ItemAccuracy])
	// potential averages 3 across both, halved to 1.5
	assert.Equal(t, 1.5, rv.Cumulative[models.ItemPotential])
}

func TestComments_SkipsEmptyAndPaginates(t *testing.T) {
	records := []Record{
		{Evaluator: "A", Month: "2025-10", Comment: "solid work"},
		{Evaluator: "B", Month: "2025-10", Comment: ""},
		{Evaluator: "C", Month: "2025-10", Comment: "needs follow-up"},
		{Evaluator: "D", Month: "2025-10", Comment: "great quarter"},
		{Evaluator: "E", Month: "2025-09", Comment: "old comment"},
	}

	page := Comments(records, 0, 1, 2)

	assert.Equal(t, "2025-10", page.Month)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Comments, 2)

	page2 := Comments(records, 0, 2, 2)
	assert.Len(t, page2.Comments, 1)

	page3 := Comments(records, 0, 3, 2)
	assert.Empty(t, page3.Comments)
}

func TestComments_NoMonths(t *testing.T) {
	page := Comments(nil, 0, 1, 10)
	assert.Empty(t, page.Comments)
	assert.Equal(t, 0, page.Total)
}
