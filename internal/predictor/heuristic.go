package predictor

import (
	"context"
	"math"

	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/types"
)

// Heuristic is an offline stand-in for the model server, used for demos and
// tests when no PREDICTOR_URL is configured. It scores the average service
// rating, boarding and travel context with a fixed logistic curve.
type Heuristic struct {
	idx map[string]int
}

func NewHeuristic() *Heuristic {
	idx := make(map[string]int, len(schema.FeatureOrder))
	for i, f := range schema.FeatureOrder {
		idx[f] = i
	}
	return &Heuristic{idx: idx}
}

func (h *Heuristic) Name() string { return "heuristic" }

type weight struct {
	field string
	w     float64
}

var heuristicWeights = []weight{
	{"Online boarding", 0.8},
	{"Inflight wifi service", 0.5},
	{schema.FieldTravelType, -1.2},
	{schema.FieldCustomerType, -0.8},
	{schema.FieldClassEco, -0.7},
	{schema.FieldClassEcoPlus, -0.5},
	{schema.FieldArrDelay, -0.2},
}

func (h *Heuristic) Predict(ctx context.Context, rows []types.FeatureVector) ([]Outcome, error) {
	out := make([]Outcome, len(rows))
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var sum float64
		for _, f := range schema.RatingFields {
			sum += r[h.idx[f]]
		}
		z := 1.5 * (sum/float64(len(schema.RatingFields)) - 3.2)
		for _, hw := range heuristicWeights {
			v := r[h.idx[hw.field]]
			if schema.IsRating(hw.field) {
				v -= 3
			}
			z += hw.w * v
		}
		p1 := 1 / (1 + math.Exp(-z))
		class := 0
		if p1 >= 0.5 {
			class = 1
		}
		out[i] = Outcome{Class: class, Probabilities: [2]float64{1 - p1, p1}}
	}
	return out, nil
}
