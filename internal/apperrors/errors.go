// Package apperrors defines the failures the prediction pipeline reports to
// callers, each with a stable code.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeSchemaValidation   Code = "SCHEMA_VALIDATION"
	CodeInvalidFieldFormat Code = "INVALID_FIELD_FORMAT"
	CodeUnknownCategory    Code = "UNKNOWN_CATEGORY"
	CodeUpload             Code = "EMPTY_OR_WRONG_TYPE_UPLOAD"
	CodeResultNotFound     Code = "RESULT_NOT_FOUND"
	CodePredictor          Code = "PREDICTOR_FAILED"
	CodeInternal           Code = "INTERNAL"
)

// ErrResultNotFound is returned when a batch result id is unknown or expired.
var ErrResultNotFound = errors.New("No batch results found. Please process a file first.")

// SchemaValidationError lists every required column absent from a batch.
type SchemaValidationError struct {
	Missing []string
}

func (e *SchemaValidationError) Error() string {
	return "Missing required columns: " + strings.Join(e.Missing, ", ")
}

// InvalidFieldFormatError is a numeric field holding a non-numeric value.
type InvalidFieldFormatError struct {
	Field string
	Value string
	Row   int // 1-based data row for batch input, 0 for single records
}

func (e *InvalidFieldFormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: field %q: invalid number %q", e.Row, e.Field, e.Value)
	}
	return fmt.Sprintf("field %q: invalid number %q", e.Field, e.Value)
}

// UnknownCategoryError is a categorical value outside the known mapping.
type UnknownCategoryError struct {
	Field string
	Value string
	Row   int
}

func (e *UnknownCategoryError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: field %q: unknown category %q", e.Row, e.Field, e.Value)
	}
	return fmt.Sprintf("field %q: unknown category %q", e.Field, e.Value)
}

// UploadError covers a missing file, an empty filename or a wrong extension.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string { return e.Reason }

// PredictorError wraps a failure of the external model.
type PredictorError struct {
	Err error
}

func (e *PredictorError) Error() string { return "predictor: " + e.Err.Error() }

func (e *PredictorError) Unwrap() error { return e.Err }

// CodeOf resolves the code of the first known error in err's chain.
func CodeOf(err error) Code {
	var (
		schemaErr   *SchemaValidationError
		formatErr   *InvalidFieldFormatError
		categoryErr *UnknownCategoryError
		uploadErr   *UploadError
		predErr     *PredictorError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &schemaErr):
		return CodeSchemaValidation
	case errors.As(err, &formatErr):
		return CodeInvalidFieldFormat
	case errors.As(err, &categoryErr):
		return CodeUnknownCategory
	case errors.As(err, &uploadErr):
		return CodeUpload
	case errors.Is(err, ErrResultNotFound):
		return CodeResultNotFound
	case errors.As(err, &predErr):
		return CodePredictor
	default:
		return CodeInternal
	}
}

// IsClientError reports whether err was caused by the submitted input.
func IsClientError(err error) bool {
	switch CodeOf(err) {
	case CodeSchemaValidation, CodeInvalidFieldFormat, CodeUnknownCategory, CodeUpload, CodeResultNotFound:
		return true
	}
	return false
}
