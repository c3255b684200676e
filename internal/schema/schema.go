// Package schema holds the fixed input contract and feature layout the
// satisfaction model was trained on. Everything here is read-only.
package schema

const (
	FieldGender       = "Gender"
	FieldCustomerType = "Customer Type"
	FieldAge          = "Age"
	FieldTravelType   = "Type of Travel"
	FieldClass        = "Class"
	FieldDistance     = "Flight Distance"
	FieldDepDelay     = "Departure Delay in Minutes"
	FieldArrDelay     = "Arrival Delay in Minutes"

	FieldClassEco     = "Class_Eco"
	FieldClassEcoPlus = "Class_Eco Plus"
)

// RatingFields are the 14 service-quality scores on a 1-5 scale.
var RatingFields = []string{
	"Inflight wifi service",
	"Departure/Arrival time convenient",
	"Ease of Online booking",
	"Gate location",
	"Food and drink",
	"Online boarding",
	"Seat comfort",
	"Inflight entertainment",
	"On-board service",
	"Leg room service",
	"Baggage handling",
	"Checkin service",
	"Inflight service",
	"Cleanliness",
}

// FeatureOrder is the column layout the predictor expects. Order matters.
var FeatureOrder = func() []string {
	out := []string{FieldGender, FieldCustomerType, FieldAge, FieldTravelType, FieldDistance}
	out = append(out, RatingFields...)
	return append(out, FieldDepDelay, FieldArrDelay, FieldClassEco, FieldClassEcoPlus)
}()

// ContinuousFields are standardized before prediction.
var ContinuousFields = []string{FieldAge, FieldDistance, FieldDepDelay, FieldArrDelay}

// CategoricalMap encodes the label-valued fields.
var CategoricalMap = map[string]map[string]float64{
	FieldGender:       {"Male": 1, "Female": 0},
	FieldCustomerType: {"Loyal Customer": 0, "disloyal Customer": 1},
	FieldTravelType:   {"Business travel": 0, "Personal Travel": 1},
}

// CategoricalFields lists the CategoricalMap keys in a stable order.
var CategoricalFields = []string{FieldGender, FieldCustomerType, FieldTravelType}

// NumericFields are the raw fields that must parse as floats: every
// FeatureOrder entry except the categorical codes and the class indicators.
var NumericFields = func() []string {
	out := []string{FieldAge, FieldDistance}
	out = append(out, RatingFields...)
	return append(out, FieldDepDelay, FieldArrDelay)
}()

// RequiredColumns are the 22 raw fields a submission must carry.
var RequiredColumns = func() []string {
	out := []string{FieldGender, FieldCustomerType, FieldAge, FieldTravelType, FieldClass, FieldDistance}
	out = append(out, RatingFields...)
	return append(out, FieldDepDelay, FieldArrDelay)
}()

// SegmentFields are the demographic dimensions used in batch insights.
var SegmentFields = []string{FieldGender, FieldCustomerType, FieldClass, FieldTravelType}

// IsNumeric reports whether field is parsed as a float.
func IsNumeric(field string) bool {
	for _, f := range NumericFields {
		if f == field {
			return true
		}
	}
	return false
}

// IsRating reports whether field is one of RatingFields.
func IsRating(field string) bool {
	for _, f := range RatingFields {
		if f == field {
			return true
		}
	}
	return false
}

// Columns appended to a batch sheet after prediction.
const (
	ColPrediction      = "Prediction"
	ColSatisfaction    = "Satisfaction Probability"
	ColDissatisfaction = "Dissatisfaction Probability"
)
