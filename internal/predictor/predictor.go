// Package predictor is the boundary to the trained satisfaction classifier.
package predictor

import (
	"context"
	"fmt"
	"math"

	"passenger-satisfaction-go/internal/mathutil"
	"passenger-satisfaction-go/internal/types"
)

// Outcome is the classifier output for one row: the predicted class (0 or 1)
// and the class probabilities (p0, p1), which sum to 1.
type Outcome struct {
	Class         int        `json:"class"`
	Probabilities [2]float64 `json:"probabilities"`
}

// Predictor scores feature rows. Implementations must return exactly one
// outcome per row, in input order.
type Predictor interface {
	Predict(ctx context.Context, rows []types.FeatureVector) ([]Outcome, error)
	Name() string
}

// Result converts an outcome into percentages rounded to 2 decimals.
func (o Outcome) Result() types.PredictionResult {
	return types.PredictionResult{
		Label:                      types.LabelFromClass(o.Class),
		SatisfactionProbability:    mathutil.Round(o.Probabilities[1]*100, 2),
		DissatisfactionProbability: mathutil.Round(o.Probabilities[0]*100, 2),
	}
}

const probabilityTolerance = 1e-6

// Validate checks an adapter response against the rows it was asked for.
func Validate(rows int, out []Outcome) error {
	if len(out) != rows {
		return fmt.Errorf("expected %d outcomes, got %d", rows, len(out))
	}
	for i, o := range out {
		if o.Class != 0 && o.Class != 1 {
			return fmt.Errorf("row %d: class %d is not 0 or 1", i+1, o.Class)
		}
		p0, p1 := o.Probabilities[0], o.Probabilities[1]
		if p0 < 0 || p1 < 0 || math.Abs(p0+p1-1) > probabilityTolerance {
			return fmt.Errorf("row %d: probabilities %v do not sum to 1", i+1, o.Probabilities)
		}
	}
	return nil
}
