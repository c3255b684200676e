// Package scaler standardizes continuous feature columns.
//
// Statistics are fitted on the rows of the current call only: one row for
// an interactive prediction, the whole sheet for a batch. Results are
// therefore not comparable across calls, and a single row always scales its
// continuous columns to 0. The training-time statistics are not available
// to this service, so that boundary is kept as is.
package scaler

import (
	"fmt"
	"math"

	"passenger-satisfaction-go/internal/types"
)

// Stat is the fitted transform of one column.
type Stat struct {
	Field  string
	Index  int
	Mean   float64
	StdDev float64 // population standard deviation
}

// Scale is the divisor used by Transform. A zero deviation is replaced by 1,
// so constant columns map to 0 instead of NaN.
func (s Stat) Scale() float64 {
	if s.StdDev == 0 {
		return 1
	}
	return s.StdDev
}

// Fit computes mean and population standard deviation of each field over rows.
// layout names the column at each vector position.
func Fit(rows []types.FeatureVector, layout, fields []string) ([]Stat, error) {
	stats := make([]Stat, 0, len(fields))
	for _, f := range fields {
		idx := indexOf(layout, f)
		if idx < 0 {
			return nil, fmt.Errorf("scaler: field %q not in layout", f)
		}
		st := Stat{Field: f, Index: idx}
		if len(rows) > 0 {
			var sum float64
			for _, r := range rows {
				sum += r[idx]
			}
			st.Mean = sum / float64(len(rows))
			var sq float64
			for _, r := range rows {
				d := r[idx] - st.Mean
				sq += d * d
			}
			st.StdDev = math.Sqrt(sq / float64(len(rows)))
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// Transform returns standardized copies of rows; the input is not modified.
func Transform(rows []types.FeatureVector, stats []Stat) []types.FeatureVector {
	out := make([]types.FeatureVector, len(rows))
	for i, r := range rows {
		v := make(types.FeatureVector, len(r))
		copy(v, r)
		for _, st := range stats {
			v[st.Index] = (v[st.Index] - st.Mean) / st.Scale()
		}
		out[i] = v
	}
	return out
}

// Standardize fits on rows and transforms them in one step.
func Standardize(rows []types.FeatureVector, layout, fields []string) ([]types.FeatureVector, error) {
	stats, err := Fit(rows, layout, fields)
	if err != nil {
		return nil, err
	}
	return Transform(rows, stats), nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
