package aggregator

import (
	"strconv"
	"strings"

	"passenger-satisfaction-go/internal/mathutil"
	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/types"
)

// Aggregate summarizes predicted rows. Each row must carry the Prediction
// column; anything other than "Satisfied" counts as not satisfied.
func Aggregate(rows []types.RawRecord) types.BatchInsights {
	ins := types.BatchInsights{
		TotalRecords: len(rows),
		Demographics: map[string]map[string]float64{},
	}
	for _, r := range rows {
		if satisfied(r) {
			ins.SatisfiedCount++
		}
	}
	ins.SatisfactionRatePercent = mathutil.Round(mathutil.Percent(ins.SatisfiedCount, ins.TotalRecords), 1)

	top, bottom, found := ratingExtremes(rows)
	if found {
		ins.TopFactor = top
		ins.BottomFactor = bottom
	}

	for _, dim := range schema.SegmentFields {
		ins.Demographics[dim] = segmentRates(rows, dim)
	}
	return ins
}

func satisfied(r types.RawRecord) bool {
	return r[schema.ColPrediction] == string(types.LabelSatisfied)
}

// ratingExtremes averages every rating field that has at least one numeric
// value. Ties resolve to the earlier field in schema.RatingFields.
func ratingExtremes(rows []types.RawRecord) (top, bottom types.RatedFactor, found bool) {
	var minField, maxField string
	var minAvg, maxAvg float64
	for _, f := range schema.RatingFields {
		avg, ok := mean(rows, f)
		if !ok {
			continue
		}
		if !found || avg < minAvg {
			minField, minAvg = f, avg
		}
		if !found || avg > maxAvg {
			maxField, maxAvg = f, avg
		}
		found = true
	}
	if !found {
		return top, bottom, false
	}
	top = types.RatedFactor{Name: schema.DisplayName(maxField), AvgRating: mathutil.Round(maxAvg, 1)}
	bottom = types.RatedFactor{Name: schema.DisplayName(minField), AvgRating: mathutil.Round(minAvg, 1)}
	return top, bottom, true
}

// mean skips blank and non-numeric cells.
func mean(rows []types.RawRecord, field string) (float64, bool) {
	var sum float64
	var n int
	for _, r := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(r[field]), 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// segmentRates groups rows by the raw value of dim. Blank values are not grouped.
func segmentRates(rows []types.RawRecord, dim string) map[string]float64 {
	total := map[string]int{}
	happy := map[string]int{}
	for _, r := range rows {
		seg := r[dim]
		if strings.TrimSpace(seg) == "" {
			continue
		}
		total[seg]++
		if satisfied(r) {
			happy[seg]++
		}
	}
	rates := make(map[string]float64, len(total))
	for seg, n := range total {
		rates[seg] = mathutil.Round(mathutil.Percent(happy[seg], n), 1)
	}
	return rates
}
