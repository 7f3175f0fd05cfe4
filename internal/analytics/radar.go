// internal/analytics/radar.go
package analytics

import "office-portal/internal/models"

// RadarVectors holds chart-ready item averages for the selected month and for
// the full record set. The 1-10 "potential" item is halved so every axis
// shares the 0-5 range.
type RadarVectors struct {
	Month      string             `json:"month"`
	Items      []string           `json:"items"`
	ThisMonth  map[string]float64 `json:"thisMonth"`
	Cumulative map[string]float64 `json:"cumulative"`
}

// Radar computes the "this month" vs "cumulative" vectors for the month
// selected by monthIndex.
func Radar(records []Record, monthIndex int) RadarVectors {
	rv := RadarVectors{Items: models.ScoreItems}

	month, ok := MonthAt(records, monthIndex)
	rv.Month = month

	var monthRecs []Record
	if ok {
		monthRecs = filterMonth(records, month)
	}
	rv.ThisMonth = scaleForRadar(itemAverages(monthRecs))
	rv.Cumulative = scaleForRadar(itemAverages(records))
	return rv
}

func scaleForRadar(avgs map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(avgs))
	for item, v := range avgs {
		if item == models.ItemPotential {
			out[item] = round1(v / 2)
			continue
		}
		out[item] = v
	}
	return out
}
