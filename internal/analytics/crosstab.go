// internal/analytics/crosstab.go
package analytics

import "office-portal/internal/models"

// CrossTabRow is one evaluator's line in the cross-tabulation. Rows for
// evaluators who did not submit that month carry Submitted=false and empty
// cells; the rendering layer shows the "no data" marker for them and they are
// excluded from the trailing average row.
type CrossTabRow struct {
	Evaluator string         `json:"evaluator"`
	Submitted bool           `json:"submitted"`
	Scores    map[string]int `json:"scores,omitempty"`
	Total     int            `json:"total,omitempty"`
}

// CrossTab is the evaluator x item table for one selected month.
type CrossTab struct {
	Month        string             `json:"month"`
	Items        []string           `json:"items"`
	Rows         []CrossTabRow      `json:"rows"`
	ItemAverages map[string]float64 `json:"itemAverages"`
	TotalAverage float64            `json:"totalAverage"`
	Submitted    int                `json:"submitted"`
}

// BuildCrossTab cross-tabulates every potential evaluator against every score
// item for the month selected by monthIndex (0 = most recent). The row count
// always equals len(evaluators); averages divide by the number of submitters,
// not by the number of potential evaluators.
func BuildCrossTab(records []Record, evaluators []models.User, monthIndex int) CrossTab {
	ct := CrossTab{
		Items:        models.ScoreItems,
		Rows:         make([]CrossTabRow, 0, len(evaluators)),
		ItemAverages: make(map[string]float64, len(models.ScoreItems)),
	}

	month, ok := MonthAt(records, monthIndex)
	ct.Month = month

	// Latest submission wins when an evaluator submitted twice in a month.
	byEvaluator := make(map[string]Record)
	if ok {
		for _, r := range filterMonth(records, month) {
			byEvaluator[r.Evaluator] = r
		}
	}

	submitted := make([]Record, 0, len(evaluators))
	for _, ev := range evaluators {
		rec, found := byEvaluator[ev.Name]
		if !found {
			ct.Rows = append(ct.Rows, CrossTabRow{Evaluator: ev.Name})
			continue
		}
		ct.Rows = append(ct.Rows, CrossTabRow{
			Evaluator: ev.Name,
			Submitted: true,
			Scores:    rec.Scores,
			Total:     rec.Total,
		})
		submitted = append(submitted, rec)
	}

	ct.Submitted = len(submitted)
	ct.ItemAverages = itemAverages(submitted)
	if len(submitted) > 0 {
		sum := 0
		for _, r := range submitted {
			sum += r.Total
		}
		ct.TotalAverage = round1(float64(sum) / float64(len(submitted)))
	}
	return ct
}
