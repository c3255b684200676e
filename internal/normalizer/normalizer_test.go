package normalizer

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passenger-satisfaction-go/internal/apperrors"
	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/types"
)

func newTestNormalizer(policy Policy) (*Normalizer, *logtest.Hook) {
	l, hook := logtest.NewNullLogger()
	return New(policy, logrus.NewEntry(l)), hook
}

func sampleRecord() types.RawRecord {
	r := types.RawRecord{
		"Gender":                     "Male",
		"Customer Type":              "Loyal Customer",
		"Age":                        "35",
		"Type of Travel":             "Business travel",
		"Class":                      "Eco",
		"Flight Distance":            "1200",
		"Departure Delay in Minutes": "45",
		"Arrival Delay in Minutes":   "5",
	}
	for i, f := range schema.RatingFields {
		r[f] = []string{"1", "2", "3", "4", "5"}[i%5]
	}
	return r
}

func indexOf(field string) int {
	for i, f := range schema.FeatureOrder {
		if f == field {
			return i
		}
	}
	return -1
}

func TestNormalize_VectorLayout(t *testing.T) {
	n, hook := newTestNormalizer(PolicyStrict)
	vec, annotated, err := n.Normalize(sampleRecord())
	require.NoError(t, err)
	require.Len(t, vec, 23)

	assert.Equal(t, 1.0, vec[indexOf("Gender")])
	assert.Equal(t, 0.0, vec[indexOf("Customer Type")])
	assert.Equal(t, 0.0, vec[indexOf("Type of Travel")])
	assert.Equal(t, 1.0, vec[indexOf("Inflight wifi service")])
	assert.Equal(t, 5.0, vec[indexOf("Food and drink")])
	assert.Equal(t, 1.0, vec[indexOf("Class_Eco")])
	assert.Equal(t, 0.0, vec[indexOf("Class_Eco Plus")])
	// single-row standardization collapses continuous columns to 0
	for _, f := range schema.ContinuousFields {
		assert.Equal(t, 0.0, vec[indexOf(f)], f)
	}
	for _, v := range vec {
		assert.False(t, math.IsNaN(v))
	}

	assert.Equal(t, "Eco", annotated["Class"])
	assert.Equal(t, "1", annotated["Class_Eco"])
	assert.Equal(t, "0", annotated["Class_Eco Plus"])
	assert.Equal(t, "35", annotated["Age"], "annotated copy is pre-scaling")
	assert.Empty(t, hook.AllEntries())
}

func TestNormalize_CategoricalEncoding(t *testing.T) {
	tests := []struct {
		field string
		label string
		want  float64
	}{
		{"Gender", "Male", 1},
		{"Gender", "Female", 0},
		{"Customer Type", "Loyal Customer", 0},
		{"Customer Type", "disloyal Customer", 1},
		{"Type of Travel", "Business travel", 0},
		{"Type of Travel", "Personal Travel", 1},
	}
	n, _ := newTestNormalizer(PolicyStrict)
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r := sampleRecord()
			r[tt.field] = tt.label
			vec, _, err := n.Normalize(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, vec[indexOf(tt.field)])
		})
	}
}

func TestNormalize_ClassOneHot(t *testing.T) {
	tests := []struct {
		class   string
		eco     float64
		ecoPlus float64
	}{
		{"Eco", 1, 0},
		{"Eco Plus", 0, 1},
		{"Business", 0, 0},
		{"Premium", 0, 0},
	}
	n, _ := newTestNormalizer(PolicyStrict)
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			r := sampleRecord()
			r["Class"] = tt.class
			vec, _, err := n.Normalize(r)
			require.NoError(t, err)
			assert.Equal(t, tt.eco, vec[indexOf("Class_Eco")])
			assert.Equal(t, tt.ecoPlus, vec[indexOf("Class_Eco Plus")])
		})
	}
}

func TestNormalize_UnknownCategory(t *testing.T) {
	r := sampleRecord()
	r["Gender"] = "Other"

	strict, _ := newTestNormalizer(PolicyStrict)
	_, _, err := strict.Normalize(r)
	var catErr *apperrors.UnknownCategoryError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, "Gender", catErr.Field)
	assert.Equal(t, "Other", catErr.Value)

	lenient, hook := newTestNormalizer(PolicyLenient)
	vec, _, err := lenient.Normalize(r)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vec[indexOf("Gender")])
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "Gender", hook.LastEntry().Data["field"])
}

func TestNormalize_KeepsCallerFields(t *testing.T) {
	l, hook := logtest.NewNullLogger()
	n := New(PolicyLenient, logrus.NewEntry(l).WithField("component", "normalizer.test"))
	r := sampleRecord()
	r["Gender"] = "Other"
	_, _, err := n.Normalize(r)
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "normalizer.test", hook.LastEntry().Data["component"])
}

func TestNormalize_InvalidNumber(t *testing.T) {
	r := sampleRecord()
	r["Seat comfort"] = "great"
	n, _ := newTestNormalizer(PolicyStrict)
	_, _, err := n.Normalize(r)
	var fmtErr *apperrors.InvalidFieldFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, "Seat comfort", fmtErr.Field)
	assert.Equal(t, 0, fmtErr.Row)
}

func TestNormalize_MissingColumnFilledWithZero(t *testing.T) {
	r := sampleRecord()
	delete(r, "Cleanliness")
	n, hook := newTestNormalizer(PolicyStrict)
	vec, _, err := n.Normalize(r)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vec[indexOf("Cleanliness")])
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, []string{"Cleanliness"}, hook.LastEntry().Data["missing"])
}

func TestNormalize_Idempotent(t *testing.T) {
	n, _ := newTestNormalizer(PolicyStrict)
	r := sampleRecord()
	a, _, err := n.Normalize(r)
	require.NoError(t, err)
	b, _, err := n.Normalize(r)
	require.NoError(t, err)
	for i := range a {
		assert.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]))
	}
	_, hasEco := r["Class_Eco"]
	assert.False(t, hasEco, "input record must not be mutated")
}

func batchTable(rows ...types.RawRecord) types.Table {
	return types.Table{Columns: append([]string{}, schema.RequiredColumns...), Rows: rows}
}

func TestNormalizeBatch(t *testing.T) {
	a, b := sampleRecord(), sampleRecord()
	a["Age"], b["Age"] = "20", "40"
	a["Class"], b["Class"] = "Business", "Eco Plus"

	n, _ := newTestNormalizer(PolicyStrict)
	vecs, originals, err := n.NormalizeBatch(batchTable(a, b))
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	require.Len(t, originals, 2)

	age := indexOf("Age")
	assert.InDelta(t, -1, vecs[0][age], 1e-12)
	assert.InDelta(t, 1, vecs[1][age], 1e-12)
	// equal delays across rows standardize to 0
	assert.Equal(t, 0.0, vecs[0][indexOf("Departure Delay in Minutes")])
	assert.Equal(t, 0.0, vecs[1][indexOf("Class_Eco")])
	assert.Equal(t, 1.0, vecs[1][indexOf("Class_Eco Plus")])
	assert.Equal(t, "0", originals[0]["Class_Eco"])
}

func TestNormalizeBatch_MissingClassColumn(t *testing.T) {
	r := sampleRecord()
	r["Gender"] = "not a gender" // would fail encoding if rows were touched
	table := batchTable(r)
	table.Columns = without(table.Columns, "Class")

	n, _ := newTestNormalizer(PolicyStrict)
	_, _, err := n.NormalizeBatch(table)
	var schemaErr *apperrors.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Class"}, schemaErr.Missing)
}

func TestNormalizeBatch_HeaderOnly(t *testing.T) {
	n, _ := newTestNormalizer(PolicyStrict)

	table := batchTable()
	table.Columns = without(table.Columns, "Class")
	_, _, err := n.NormalizeBatch(table)
	var schemaErr *apperrors.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr, "column check runs before the empty check")
	assert.Equal(t, []string{"Class"}, schemaErr.Missing)

	_, _, err = n.NormalizeBatch(batchTable())
	var upErr *apperrors.UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, NoDataRows, upErr.Reason)
}

func TestNormalizeBatch_ReportsAllMissingColumns(t *testing.T) {
	table := batchTable()
	table.Columns = without(without(table.Columns, "Age"), "Cleanliness")
	err := ValidateColumns(table)
	var schemaErr *apperrors.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Age", "Cleanliness"}, schemaErr.Missing)
}

func TestNormalizeBatch_RowInError(t *testing.T) {
	bad := sampleRecord()
	bad["Age"] = ""
	n, _ := newTestNormalizer(PolicyStrict)
	_, _, err := n.NormalizeBatch(batchTable(sampleRecord(), bad))
	var fmtErr *apperrors.InvalidFieldFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, 2, fmtErr.Row)
	assert.Equal(t, "Age", fmtErr.Field)
}

func TestParseNumeric(t *testing.T) {
	form := map[string]string{}
	for k, v := range sampleRecord() {
		form[k] = v
	}
	form["Age"] = " 35.0 "
	rec, err := ParseNumeric(form)
	require.NoError(t, err)
	assert.Equal(t, "35", rec["Age"])
	assert.Equal(t, "Male", rec["Gender"])

	delete(form, "Flight Distance")
	_, err = ParseNumeric(form)
	var fmtErr *apperrors.InvalidFieldFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, "Flight Distance", fmtErr.Field)

	form["Flight Distance"] = "NaN"
	_, err = ParseNumeric(form)
	assert.ErrorAs(t, err, &fmtErr)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)
	p, err = ParsePolicy("Lenient")
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, p)
	_, err = ParsePolicy("loose")
	assert.Error(t, err)
}

func without(cols []string, name string) []string {
	var out []string
	for _, c := range cols {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}
