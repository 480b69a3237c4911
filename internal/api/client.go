// Package api provides the HTTP client for the remote SMS prediction service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/smsguard/internal/common"
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/google/uuid"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

const (
	healthPath       = "/api/health"
	predictPath      = "/api/predict"
	predictBatchPath = "/api/predict/batch"

	maxResponseBytes = 4 << 20
	requestIDHeader  = "X-Request-ID"
)

// Config holds the client settings.
type Config struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	BaseURL    string
	// Timeout bounds each call. Zero leaves calls bounded only by their context.
	Timeout time.Duration
}

// Client talks to the prediction service. It never retries or caches:
// every call is a single round trip whose outcome goes back to the caller.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewClient creates a client for the service at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL %q: %v", common.ErrInvalidConfig, base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be an absolute http(s) URL", common.ErrInvalidConfig, base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(base, "/"),
	}, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckHealth asks the service whether it is up and has a model loaded.
func (c *Client) CheckHealth(ctx context.Context) (model.Health, error) {
	status, body, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return model.Health{}, err
	}
	if !isSuccess(status) {
		return model.Health{}, &RemoteError{Status: status, Message: MsgHealthFailed}
	}

	var health model.Health
	if err := json.Unmarshal(body, &health); err != nil {
		return model.Health{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := health.Validate(); err != nil {
		return model.Health{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return health, nil
}

// Predict classifies a single SMS text.
func (c *Client) Predict(ctx context.Context, text string) (model.Prediction, error) {
	status, body, err := c.do(ctx, http.MethodPost, predictPath, model.PredictionRequest{Text: text})
	if err != nil {
		return model.Prediction{}, err
	}
	if !isSuccess(status) {
		return model.Prediction{}, &RemoteError{Status: status, Message: detailMessage(body, MsgPredictionFailed)}
	}

	var prediction model.Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := prediction.Validate(); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return prediction, nil
}

// PredictBatch classifies up to model.MaxBatchSize texts in one call.
// Predictions come back in the order of texts.
func (c *Client) PredictBatch(ctx context.Context, texts []string) (model.BatchPrediction, error) {
	if len(texts) == 0 {
		return model.BatchPrediction{}, ErrEmptyBatch
	}
	if len(texts) > model.MaxBatchSize {
		return model.BatchPrediction{}, fmt.Errorf("%w: %d texts, limit is %d", ErrBatchTooLarge, len(texts), model.MaxBatchSize)
	}

	status, body, err := c.do(ctx, http.MethodPost, predictBatchPath, model.BatchPredictionRequest{Texts: texts})
	if err != nil {
		return model.BatchPrediction{}, err
	}
	if !isSuccess(status) {
		return model.BatchPrediction{}, &RemoteError{Status: status, Message: detailMessage(body, MsgBatchFailed)}
	}

	var batch model.BatchPrediction
	if err := json.Unmarshal(body, &batch); err != nil {
		return model.BatchPrediction{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := batch.Validate(); err != nil {
		return model.BatchPrediction{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(batch.Predictions) != len(texts) {
		return model.BatchPrediction{}, fmt.Errorf("%w: sent %d texts, got %d predictions",
			ErrMalformedResponse, len(texts), len(batch.Predictions))
	}

	return batch, nil
}

// do performs one round trip and returns the status and body.
// Only failures below HTTP are returned as errors.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("prediction service unreachable",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err)
		return 0, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	c.logger.Debug("prediction service call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID)

	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
