// Package factors explains a single prediction by listing the service
// aspects and delays that most likely pushed it either way.
package factors

import (
	"sort"
	"strconv"
	"strings"

	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/types"
)

const (
	maxFactors    = 3
	longDelayMin  = 30.0
	shortDelayMin = 15.0
	lowRatingTag  = " (Low Rating)"
	highRatingTag = " (High Rating)"
)

type delayRule struct {
	field string
	long  string
	short string
}

var delayRules = []delayRule{
	{schema.FieldDepDelay, "Departure Delay (Long)", "Short Departure Delay"},
	{schema.FieldArrDelay, "Arrival Delay (Long)", "Short Arrival Delay"},
}

type rating struct {
	field string
	value float64
}

// AnalyzeSingle ranks the record's rating fields and applies the delay
// heuristics. The three lowest ratings come first in the negative list and
// the three highest (in ascending order) in the positive list; delay factors
// are appended after them and both lists are then cut to three entries, so a
// delay factor can be dropped when all rating slots are taken.
// Rating fields that are absent or not numeric are ignored.
func AnalyzeSingle(raw types.RawRecord) types.FactorReport {
	var ratings []rating
	for _, f := range schema.RatingFields {
		if v, ok := number(raw, f); ok {
			ratings = append(ratings, rating{field: f, value: v})
		}
	}
	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].value < ratings[j].value })

	negative := []string{}
	positive := []string{}
	for _, r := range ratings[:min(maxFactors, len(ratings))] {
		negative = append(negative, schema.DisplayName(r.field)+lowRatingTag)
	}
	for _, r := range ratings[max(0, len(ratings)-maxFactors):] {
		positive = append(positive, schema.DisplayName(r.field)+highRatingTag)
	}

	for _, rule := range delayRules {
		v, ok := number(raw, rule.field)
		if !ok {
			continue
		}
		switch {
		case v > longDelayMin:
			negative = append(negative, rule.long)
		case v < shortDelayMin:
			positive = append(positive, rule.short)
		}
	}

	return types.FactorReport{
		PositiveFactors: positive[:min(maxFactors, len(positive))],
		NegativeFactors: negative[:min(maxFactors, len(negative))],
	}
}

func number(raw types.RawRecord, field string) (float64, bool) {
	s, ok := raw[field]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
