package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"passenger-satisfaction-go/internal/apperrors"
	"passenger-satisfaction-go/internal/dataset"
	"passenger-satisfaction-go/internal/logger"
	"passenger-satisfaction-go/internal/processor"
)

// ErrorResponse is the body of every failed request. Input echoes the
// submitted single-record form so a client can redisplay it.
type ErrorResponse struct {
	Error string            `json:"error"`
	Code  apperrors.Code    `json:"code"`
	Input map[string]string `json:"input,omitempty"`
}

// maxFormBytes caps the /predict body.
const maxFormBytes = 64 << 10

type Handler struct {
	svc       *processor.Service
	log       *logger.Logger
	maxUpload int64
}

func NewHandler(svc *processor.Service, log *logger.Logger, maxUpload int64) *Handler {
	return &Handler{svc: svc, log: log, maxUpload: maxUpload}
}

// Routes registers every endpoint on a new mux wrapped with request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /predict", h.predict)
	mux.HandleFunc("POST /predict_batch", h.predictBatch)
	mux.HandleFunc("GET /download_results", h.download)
	return h.withRequestLog(mux)
}

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	reqLog := requestLog(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	form, err := readForm(r)
	if err != nil {
		reqLog.WithError(err).Warn("unreadable form")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Could not read form: " + err.Error(),
			Code:  apperrors.CodeInvalidFieldFormat,
		})
		return
	}
	res, err := h.svc.PredictSingle(r.Context(), form)
	if err != nil {
		h.fail(w, reqLog, err, form)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) predictBatch(w http.ResponseWriter, r *http.Request) {
	reqLog := requestLog(r)
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		reason := "No file uploaded"
		if errors.As(err, &tooLarge) {
			reason = fmt.Sprintf("File exceeds the %d MB upload limit", h.maxUpload>>20)
		}
		h.fail(w, reqLog, &apperrors.UploadError{Reason: reason}, nil)
		return
	}
	defer file.Close()

	res, err := h.svc.PredictBatch(r.Context(), header.Filename, file)
	if err != nil {
		h.fail(w, reqLog.WithField("filename", header.Filename), err, nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	reqLog := requestLog(r)
	rd, err := h.svc.Download(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		h.fail(w, reqLog, err, nil)
		return
	}
	w.Header().Set("Content-Type", dataset.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dataset.ResultFilename))
	if _, err := io.Copy(w, rd); err != nil {
		reqLog.WithError(err).Error("failed to write download")
	}
}

func (h *Handler) fail(w http.ResponseWriter, reqLog *logrus.Entry, err error, input map[string]string) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsClientError(err):
		status = http.StatusBadRequest
		reqLog.WithField("code", apperrors.CodeOf(err)).WithField("error", err.Error()).Warn("request rejected")
	case apperrors.CodeOf(err) == apperrors.CodePredictor:
		status = http.StatusBadGateway
		reqLog.WithField("error", err.Error()).Error("predictor unavailable")
	default:
		reqLog.WithField("error", err.Error()).Error("request failed")
	}
	writeError(w, status, err, input)
}

// readForm accepts a JSON object or a url-encoded/multipart form. JSON
// numbers are rendered as text like form values.
func readForm(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSONForm(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return nil, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}
	form := make(map[string]string, len(r.Form))
	for k, v := range r.Form {
		if len(v) > 0 {
			form[k] = v[0]
		}
	}
	return form, nil
}

func readJSONForm(r *http.Request) (map[string]string, error) {
	var body map[string]interface{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	form := make(map[string]string, len(body))
	for k, v := range body {
		switch t := v.(type) {
		case string:
			form[k] = t
		case json.Number:
			form[k] = t.String()
		case bool:
			form[k] = strconv.FormatBool(t)
		case nil:
		default:
			return nil, fmt.Errorf("field %q: unsupported value", k)
		}
	}
	return form, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, input map[string]string) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: apperrors.CodeOf(err), Input: input})
}

type ctxKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := logger.RequestID(r)
		entry := h.log.WithRequest(r, reqID)
		w.Header().Set(logger.RequestIDHeader, reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(withEntry(r.Context(), entry)))
		entry.WithFields(logrus.Fields{
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	})
}
