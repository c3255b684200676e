package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"passenger-satisfaction-go/internal/schema"
	"passenger-satisfaction-go/internal/types"
)

type predictRequest struct {
	FeatureNames []string              `json:"feature_names"`
	Features     []types.FeatureVector `json:"features"`
}

type predictResponse struct {
	Labels        []int        `json:"labels"`
	Probabilities [][2]float64 `json:"probabilities"`
}

// HTTPClient calls a model server at <baseURL>/predict. Transport errors and
// 5xx answers are retried with exponential backoff; 4xx answers are not.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetry   time.Duration
	log        *logrus.Entry
}

func NewHTTPClient(baseURL string, timeout time.Duration, log *logrus.Entry) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetry:   timeout,
		log:        log,
	}
}

func (c *HTTPClient) Name() string { return "http" }

func (c *HTTPClient) Predict(ctx context.Context, rows []types.FeatureVector) ([]Outcome, error) {
	body, err := json.Marshal(predictRequest{FeatureNames: schema.FeatureOrder, Features: rows})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var parsed predictResponse
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.WithError(err).WithField("attempt", attempt).Warn("model server unreachable")
			return err
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		switch {
		case resp.StatusCode >= 500:
			c.log.WithFields(logrus.Fields{"attempt": attempt, "status": resp.StatusCode}).Warn("model server error")
			return fmt.Errorf("server error %d: %s", resp.StatusCode, string(raw))
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("rejected %d: %s", resp.StatusCode, string(raw)))
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("json decode error: %v body=%s", err, string(raw)))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxRetry
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	if len(parsed.Labels) != len(parsed.Probabilities) {
		return nil, fmt.Errorf("got %d labels and %d probability pairs", len(parsed.Labels), len(parsed.Probabilities))
	}
	out := make([]Outcome, len(parsed.Labels))
	for i := range parsed.Labels {
		out[i] = Outcome{Class: parsed.Labels[i], Probabilities: parsed.Probabilities[i]}
	}
	if err := Validate(len(rows), out); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"rows": len(rows), "attempts": attempt}).Debug("prediction received")
	return out, nil
}
