package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/types"
)

func TestAnalyzeSingle_DelayFactorsWithFewRatings(t *testing.T) {
	raw := types.RawRecord{
		"Inflight wifi service":      "1",
		"Food and drink":             "5",
		"Departure Delay in Minutes": "45",
		"Arrival Delay in Minutes":   "5",
	}
	got := AnalyzeSingle(raw)
	assert.Equal(t, []string{
		"Inflight Wifi Service (Low Rating)",
		"Food And Drink (Low Rating)",
		"Departure Delay (Long)",
	}, got.NegativeFactors)
	assert.Equal(t, []string{
		"Inflight Wifi Service (High Rating)",
		"Food And Drink (High Rating)",
		"Short Arrival Delay",
	}, got.PositiveFactors)
}

func TestAnalyzeSingle_FullRecordTruncatesDelays(t *testing.T) {
	raw := types.RawRecord{
		"Departure Delay in Minutes": "45",
		"Arrival Delay in Minutes":   "5",
	}
	for _, f := range schema.RatingFields {
		raw[f] = "3"
	}
	raw["Inflight wifi service"] = "1"
	raw["Inflight entertainment"] = "2"
	raw["Food and drink"] = "5"
	raw["Cleanliness"] = "4"

	got := AnalyzeSingle(raw)
	assert.Equal(t, []string{
		"Inflight Wifi Service (Low Rating)",
		"Inflight Entertainment (Low Rating)",
		"Departure/Arrival Time Convenient (Low Rating)",
	}, got.NegativeFactors, "ties keep field order, delay factor is cut")
	assert.Equal(t, []string{
		"Inflight Service (High Rating)",
		"Cleanliness (High Rating)",
		"Food And Drink (High Rating)",
	}, got.PositiveFactors, "highest three in ascending order")
}

func TestAnalyzeSingle_MidRangeDelayAddsNothing(t *testing.T) {
	raw := types.RawRecord{
		"Seat comfort":               "4",
		"Departure Delay in Minutes": "15",
		"Arrival Delay in Minutes":   "30",
	}
	got := AnalyzeSingle(raw)
	assert.Equal(t, []string{"Seat Comfort (Low Rating)"}, got.NegativeFactors)
	assert.Equal(t, []string{"Seat Comfort (High Rating)"}, got.PositiveFactors)
}

func TestAnalyzeSingle_Empty(t *testing.T) {
	got := AnalyzeSingle(types.RawRecord{})
	assert.Empty(t, got.NegativeFactors)
	assert.Empty(t, got.PositiveFactors)
	assert.NotNil(t, got.NegativeFactors)
}

func TestAnalyzeSingle_NeverMoreThanThree(t *testing.T) {
	for _, dep := range []string{"0", "20", "90"} {
		for _, arr := range []string{"0", "20", "90"} {
			raw := types.RawRecord{
				"Departure Delay in Minutes": dep,
				"Arrival Delay in Minutes":   arr,
			}
			for i, f := range schema.RatingFields {
				raw[f] = []string{"1", "5", "3"}[i%3]
			}
			got := AnalyzeSingle(raw)
			assert.LessOrEqual(t, len(got.PositiveFactors), 3)
			assert.LessOrEqual(t, len(got.NegativeFactors), 3)
		}
	}
}
