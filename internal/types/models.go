package types

// RawRecord is one passenger survey response keyed by field name. Values are
// kept as text exactly as they arrived (form fields, spreadsheet cells).
type RawRecord map[string]string

// Clone returns a shallow copy so callers can annotate without touching the input.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a batch of records with the column order of the source sheet.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    []RawRecord `json:"rows"`
}

// HasColumn reports whether name is one of the table headers.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// FeatureVector is the model input, ordered like schema.FeatureOrder.
type FeatureVector []float64

type Label string

const (
	LabelSatisfied    Label = "Satisfied"
	LabelNotSatisfied Label = "Neutral or Dissatisfied"
)

// LabelFromClass maps the classifier's 0/1 output to a label.
func LabelFromClass(class int) Label {
	if class == 1 {
		return LabelSatisfied
	}
	return LabelNotSatisfied
}

type PredictionResult struct {
	Label                      Label   `json:"prediction"`
	SatisfactionProbability    float64 `json:"satisfaction_probability"`
	DissatisfactionProbability float64 `json:"dissatisfaction_probability"`
}

type FactorReport struct {
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

type RatedFactor struct {
	Name      string  `json:"name"`
	AvgRating float64 `json:"rating"`
}

type BatchInsights struct {
	TotalRecords            int                           `json:"total_records"`
	SatisfiedCount          int                           `json:"satisfied_count"`
	SatisfactionRatePercent float64                       `json:"satisfaction_rate"`
	TopFactor               RatedFactor                   `json:"top_factor"`
	BottomFactor            RatedFactor                   `json:"bottom_factor"`
	Demographics            map[string]map[string]float64 `json:"demographics"`
}
