package processor

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"passenger-satisfaction-go/internal/aggregator"
	"passenger-satisfaction-go/internal/apperrors"
	"passenger-satisfaction-go/internal/dataset"
	"passenger-satisfaction-go/internal/factors"
	"passenger-satisfaction-go/internal/metrics"
	"passenger-satisfaction-go/internal/normalizer"
	"passenger-satisfaction-go/internal/predictor"
	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/store"
	"passenger-satisfaction-go/internal/types"
)

const sampleSize = 5

// Only OOXML workbooks can be read; legacy .xls is rejected here.
var allowedExtensions = []string{".xlsx"}

// SingleResult is returned by /predict
type SingleResult struct {
	types.PredictionResult
	types.FactorReport
	Input types.RawRecord `json:"input_data"`
}

// BatchResult is returned by /predict_batch
type BatchResult struct {
	ResultID string `json:"result_id"`
	types.BatchInsights
	Columns       []string          `json:"columns"`
	SampleResults []types.RawRecord `json:"sample_results"`
	DurationMs    int64             `json:"duration_ms"`
}

// Service runs the prediction flows. Every dependency is injected; the
// service itself keeps no per-request state.
type Service struct {
	norm      *normalizer.Normalizer
	predictor predictor.Predictor
	results   store.Store
	ttl       time.Duration
	log       *logrus.Entry
	newID     func() string
}

func New(norm *normalizer.Normalizer, p predictor.Predictor, results store.Store, ttl time.Duration, log *logrus.Entry) *Service {
	return &Service{
		norm:      norm,
		predictor: p,
		results:   results,
		ttl:       ttl,
		log:       log,
		newID:     func() string { return uuid.New().String() },
	}
}

// PredictSingle scores one submitted form. Numeric fields arrive as text
// and are parsed first.
func (s *Service) PredictSingle(ctx context.Context, form map[string]string) (res SingleResult, err error) {
	start := time.Now()
	defer func() { observe(metrics.ModeSingle, start, err) }()

	record, err := normalizer.ParseNumeric(form)
	if err != nil {
		return SingleResult{}, err
	}
	vec, _, err := s.norm.Normalize(record)
	if err != nil {
		return SingleResult{}, err
	}
	out, err := s.predict(ctx, []types.FeatureVector{vec})
	if err != nil {
		return SingleResult{}, err
	}

	res = SingleResult{
		PredictionResult: out[0].Result(),
		FactorReport:     factors.AnalyzeSingle(record),
		Input:            record,
	}
	metrics.PredictionsTotal.WithLabelValues(metrics.ModeSingle, string(res.Label)).Inc()
	s.log.WithFields(logrus.Fields{
		"prediction":   res.Label,
		"satisfaction": res.SatisfactionProbability,
	}).Info("single prediction complete")
	return res, nil
}

// CheckUpload validates the uploaded file name.
func CheckUpload(filename string) error {
	if filename == "" {
		return &apperrors.UploadError{Reason: "No file selected"}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowedExtensions {
		if ext == a {
			return nil
		}
	}
	return &apperrors.UploadError{Reason: "Only Excel files are allowed"}
}

// PredictBatch scores every row of an uploaded workbook, stores the
// annotated workbook for download and returns the insights. Nothing is
// stored when any step fails.
func (s *Service) PredictBatch(ctx context.Context, filename string, file io.Reader) (res BatchResult, err error) {
	start := time.Now()
	defer func() { observe(metrics.ModeBatch, start, err) }()
	log := s.log.WithField("filename", filename)

	if err := CheckUpload(filename); err != nil {
		return BatchResult{}, err
	}
	table, err := dataset.Read(file)
	if err != nil {
		return BatchResult{}, &apperrors.UploadError{Reason: "Could not read Excel file: " + err.Error()}
	}
	log.WithFields(logrus.Fields{"rows": len(table.Rows), "columns": len(table.Columns)}).Info("workbook loaded")
	metrics.BatchRows.Observe(float64(len(table.Rows)))

	vecs, _, err := s.norm.NormalizeBatch(table)
	if err != nil {
		return BatchResult{}, err
	}
	out, err := s.predict(ctx, vecs)
	if err != nil {
		return BatchResult{}, err
	}

	annotated := Annotate(table, out)
	insights := aggregator.Aggregate(annotated.Rows)
	data, err := dataset.Encode(annotated)
	if err != nil {
		return BatchResult{}, err
	}
	id := s.newID()
	if err := s.results.Save(ctx, id, data, s.ttl); err != nil {
		return BatchResult{}, err
	}

	for _, r := range annotated.Rows {
		metrics.PredictionsTotal.WithLabelValues(metrics.ModeBatch, r[schema.ColPrediction]).Inc()
	}
	res = BatchResult{
		ResultID:      id,
		BatchInsights: insights,
		Columns:       annotated.Columns,
		SampleResults: annotated.Rows[:min(sampleSize, len(annotated.Rows))],
		DurationMs:    time.Since(start).Milliseconds(),
	}
	log.WithFields(logrus.Fields{
		"result_id":         id,
		"total":             insights.TotalRecords,
		"satisfaction_rate": insights.SatisfactionRatePercent,
		"duration_ms":       res.DurationMs,
	}).Info("batch prediction complete")
	return res, nil
}

// Download returns a stored result workbook.
func (s *Service) Download(ctx context.Context, id string) (io.Reader, error) {
	if id == "" {
		return nil, apperrors.ErrResultNotFound
	}
	data, err := s.results.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// Annotate appends the prediction columns to a copy of table. Existing
// columns with the same names are overwritten in place.
func Annotate(table types.Table, out []predictor.Outcome) types.Table {
	cols := append([]string{}, table.Columns...)
	for _, c := range []string{schema.ColPrediction, schema.ColSatisfaction, schema.ColDissatisfaction} {
		if !table.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	rows := make([]types.RawRecord, len(table.Rows))
	for i, r := range table.Rows {
		res := out[i].Result()
		row := r.Clone()
		row[schema.ColPrediction] = string(res.Label)
		row[schema.ColSatisfaction] = strconv.FormatFloat(res.SatisfactionProbability, 'f', -1, 64)
		row[schema.ColDissatisfaction] = strconv.FormatFloat(res.DissatisfactionProbability, 'f', -1, 64)
		rows[i] = row
	}
	return types.Table{Columns: cols, Rows: rows}
}

func (s *Service) predict(ctx context.Context, vecs []types.FeatureVector) ([]predictor.Outcome, error) {
	out, err := s.predictor.Predict(ctx, vecs)
	if err == nil {
		err = predictor.Validate(len(vecs), out)
	}
	if err != nil {
		s.log.WithError(err).WithField("predictor", s.predictor.Name()).Error("prediction failed")
		return nil, &apperrors.PredictorError{Err: err}
	}
	return out, nil
}

func observe(mode string, start time.Time, err error) {
	metrics.PredictionDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionFailures.WithLabelValues(mode, string(apperrors.CodeOf(err))).Inc()
	}
}
