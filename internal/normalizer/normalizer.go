// Package normalizer turns raw survey records into model-ready feature
// vectors laid out like schema.FeatureOrder.
package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"passenger-satisfaction-go/internal/apperrors"
	"passenger-satisfaction-go/internal/scaler"
	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/types"
)

// Policy decides what happens to a categorical label outside schema.CategoricalMap.
type Policy int

const (
	// PolicyStrict rejects the record with an UnknownCategoryError.
	PolicyStrict Policy = iota
	// PolicyLenient encodes the label as 0 and logs a warning.
	PolicyLenient
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	}
	return PolicyStrict, fmt.Errorf("unknown category policy %q", s)
}

func (p Policy) String() string {
	if p == PolicyLenient {
		return "lenient"
	}
	return "strict"
}

type Normalizer struct {
	policy Policy
	log    *logrus.Entry
}

func New(policy Policy, log *logrus.Entry) *Normalizer {
	return &Normalizer{policy: policy, log: log}
}

// Normalize encodes and standardizes a single record. The second return is a
// copy of raw with the Class indicator fields added, before scaling.
func (n *Normalizer) Normalize(raw types.RawRecord) (types.FeatureVector, types.RawRecord, error) {
	vec, annotated, err := n.encode(raw, 0)
	if err != nil {
		return nil, nil, err
	}
	scaled, err := scaler.Standardize([]types.FeatureVector{vec}, schema.FeatureOrder, schema.ContinuousFields)
	if err != nil {
		return nil, nil, err
	}
	return scaled[0], annotated, nil
}

// NoDataRows is the upload error reason for a sheet with a header only.
const NoDataRows = "Uploaded file has no data rows"

// NormalizeBatch validates the table's columns, encodes every row and fits
// the scaler once over the whole table. Column validation runs before the
// empty-table check.
func (n *Normalizer) NormalizeBatch(table types.Table) ([]types.FeatureVector, []types.RawRecord, error) {
	if err := ValidateColumns(table); err != nil {
		return nil, nil, err
	}
	if len(table.Rows) == 0 {
		return nil, nil, &apperrors.UploadError{Reason: NoDataRows}
	}
	vecs := make([]types.FeatureVector, 0, len(table.Rows))
	originals := make([]types.RawRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		vec, annotated, err := n.encode(row, i+1)
		if err != nil {
			return nil, nil, err
		}
		vecs = append(vecs, vec)
		originals = append(originals, annotated)
	}
	scaled, err := scaler.Standardize(vecs, schema.FeatureOrder, schema.ContinuousFields)
	if err != nil {
		return nil, nil, err
	}
	n.log.WithFields(logrus.Fields{"rows": len(scaled), "policy": n.policy.String()}).Debug("batch normalized")
	return scaled, originals, nil
}

// ValidateColumns reports every required column missing from the table.
func ValidateColumns(table types.Table) error {
	var missing []string
	for _, c := range schema.RequiredColumns {
		if !table.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &apperrors.SchemaValidationError{Missing: missing}
	}
	return nil
}

// encode maps raw to an unscaled vector. row is the 1-based batch row used in
// error messages, 0 for single records.
func (n *Normalizer) encode(raw types.RawRecord, row int) (types.FeatureVector, types.RawRecord, error) {
	annotated := raw.Clone()
	class := schema.ParseClass(strings.TrimSpace(raw[schema.FieldClass]))
	eco, ecoPlus := class.Indicators()
	annotated[schema.FieldClassEco] = strconv.FormatFloat(eco, 'f', -1, 64)
	annotated[schema.FieldClassEcoPlus] = strconv.FormatFloat(ecoPlus, 'f', -1, 64)

	vec := make(types.FeatureVector, len(schema.FeatureOrder))
	var missing []string
	if _, ok := raw[schema.FieldClass]; !ok {
		missing = append(missing, schema.FieldClass)
	}
	for i, field := range schema.FeatureOrder {
		switch field {
		case schema.FieldClassEco:
			vec[i] = eco
			continue
		case schema.FieldClassEcoPlus:
			vec[i] = ecoPlus
			continue
		}
		value, ok := raw[field]
		if !ok {
			missing = append(missing, field)
			continue
		}
		if codes, categorical := schema.CategoricalMap[field]; categorical {
			code, err := n.category(field, value, codes, row)
			if err != nil {
				return nil, nil, err
			}
			vec[i] = code
			continue
		}
		f, ok := parseFloat(value)
		if !ok {
			return nil, nil, &apperrors.InvalidFieldFormatError{Field: field, Value: value, Row: row}
		}
		vec[i] = f
	}
	if len(missing) > 0 {
		n.log.WithFields(logrus.Fields{"row": row, "missing": missing}).Warn("feature columns missing, filled with 0")
	}
	return vec, annotated, nil
}

func (n *Normalizer) category(field, value string, codes map[string]float64, row int) (float64, error) {
	if code, ok := codes[strings.TrimSpace(value)]; ok {
		return code, nil
	}
	if n.policy == PolicyLenient {
		n.log.WithFields(logrus.Fields{"row": row, "field": field, "value": value}).Warn("unknown category, encoded as 0")
		return 0, nil
	}
	return 0, &apperrors.UnknownCategoryError{Field: field, Value: value, Row: row}
}

// ParseNumeric converts the numeric fields of a submitted form, failing on the
// first absent or non-numeric one. Other fields are copied unchanged.
func ParseNumeric(form map[string]string) (types.RawRecord, error) {
	out := make(types.RawRecord, len(form))
	for k, v := range form {
		out[k] = v
	}
	for _, field := range schema.NumericFields {
		value, present := form[field]
		f, ok := parseFloat(value)
		if !present || !ok {
			return nil, &apperrors.InvalidFieldFormatError{Field: field, Value: value}
		}
		out[field] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return out, nil
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
