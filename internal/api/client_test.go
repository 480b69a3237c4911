package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Veraticus/smsguard/internal/common"
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fraudResponse = `{
	"text": "Selamat! Anda memenangkan hadiah 100jt.",
	"label": 1,
	"label_name": "Fraud/Penipuan",
	"confidence": 0.87,
	"probabilities": {"Normal": 0.05, "Fraud/Penipuan": 0.87, "Promo": 0.08}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "default when empty", baseURL: "", want: DefaultBaseURL},
		{name: "trailing slash trimmed", baseURL: "https://sms.example.com/", want: "https://sms.example.com"},
		{name: "path prefix kept", baseURL: "http://gateway:8080/detector", want: "http://gateway:8080/detector"},
		{name: "relative URL", baseURL: "/api", wantErr: true},
		{name: "unsupported scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "unparseable", baseURL: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(Config{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.BaseURL())
		})
	}
}

func TestClient_CheckHealth(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantLoaded bool
		wantRemote bool
		wantErr    error
	}{
		{
			name:       "model loaded",
			status:     http.StatusOK,
			body:       `{"status":"healthy","model_loaded":true,"version":"1.0.0"}`,
			wantLoaded: true,
		},
		{
			name:   "model not loaded",
			status: http.StatusOK,
			body:   `{"status":"healthy","model_loaded":false,"version":"1.0.0"}`,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"detail":"boom"}`,
			wantRemote: true,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "missing status",
			status:  http.StatusOK,
			body:    `{"model_loaded":true}`,
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/health", r.URL.Path)
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			health, err := client.CheckHealth(context.Background())
			switch {
			case tt.wantRemote:
				remote, ok := AsRemoteError(err)
				require.True(t, ok, "expected RemoteError, got %v", err)
				assert.Equal(t, tt.status, remote.Status)
				assert.Equal(t, "Health check failed", remote.Message)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantLoaded, health.ModelLoaded)
				assert.Equal(t, "1.0.0", health.Version)
			}
		})
	}
}

func TestClient_Predict(t *testing.T) {
	var received model.PredictionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fraudResponse)
	})

	prediction, err := client.Predict(context.Background(), "Selamat! Anda memenangkan hadiah 100jt.")
	require.NoError(t, err)

	assert.Equal(t, "Selamat! Anda memenangkan hadiah 100jt.", received.Text)
	assert.Equal(t, model.Prediction{
		Text:       "Selamat! Anda memenangkan hadiah 100jt.",
		Label:      model.LabelFraud,
		LabelName:  "Fraud/Penipuan",
		Confidence: 0.87,
		Probabilities: model.Probabilities{
			Normal: 0.05,
			Fraud:  0.87,
			Promo:  0.08,
		},
	}, prediction)
}

func TestClient_PredictErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		status      int
	}{
		{
			name:        "detail string",
			status:      http.StatusInternalServerError,
			body:        `{"detail":"model unavailable"}`,
			wantMessage: "model unavailable",
		},
		{
			name:        "unparseable body",
			status:      http.StatusServiceUnavailable,
			body:        `upstream connect error`,
			wantMessage: "Prediction failed",
		},
		{
			name:        "empty body",
			status:      http.StatusBadGateway,
			wantMessage: "Prediction failed",
		},
		{
			name:        "validation detail list",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":[{"loc":["body","text"],"msg":"field required"}]}`,
			wantMessage: "Prediction failed",
		},
		{
			name:        "blank detail",
			status:      http.StatusBadRequest,
			body:        `{"detail":"  "}`,
			wantMessage: "Prediction failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Predict(context.Background(), "hello")
			remote, ok := AsRemoteError(err)
			require.True(t, ok, "expected RemoteError, got %v", err)
			assert.Equal(t, tt.status, remote.Status)
			assert.Equal(t, tt.wantMessage, remote.Message)
		})
	}
}

func TestClient_PredictMalformedSuccess(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `ok`},
		{name: "unknown label", body: `{"text":"x","label":5,"label_name":"Spam","confidence":0.9,"probabilities":{"Normal":0.05,"Fraud/Penipuan":0.05,"Promo":0.9}}`},
		{name: "missing category", body: `{"text":"x","label":0,"label_name":"Normal","confidence":0.9,"probabilities":{"Normal":0.9,"Promo":0.1}}`},
		{name: "missing fields", body: `{"label":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Predict(context.Background(), "x")
			assert.ErrorIs(t, err, ErrMalformedResponse)
			_, isRemote := AsRemoteError(err)
			assert.False(t, isRemote)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: baseURL})
	require.NoError(t, err)

	_, err = client.CheckHealth(context.Background())
	assert.ErrorIs(t, err, ErrTransport)

	_, err = client.Predict(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_Canceled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = io.WriteString(w, fraudResponse)
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Predict(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_PredictBatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict/batch", r.URL.Path)

		var req model.BatchPredictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		predictions := make([]json.RawMessage, 0, len(req.Texts))
		for _, text := range req.Texts {
			textJSON, _ := json.Marshal(text)
			predictions = append(predictions, json.RawMessage(strings.Replace(
				`{"text":TEXT,"label":2,"label_name":"Promo","confidence":0.7,"probabilities":{"Normal":0.1,"Fraud/Penipuan":0.2,"Promo":0.7}}`,
				"TEXT", string(textJSON), 1)))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": predictions,
			"total":       len(predictions),
		})
	})

	batch, err := client.PredictBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, batch.Predictions, 3)
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, "b", batch.Predictions[1].Text)
	assert.Equal(t, model.LabelPromo, batch.Predictions[2].Label)
}

func TestClient_PredictBatchLimits(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.PredictBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = client.PredictBatch(context.Background(), make([]string, model.MaxBatchSize+1))
	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Zero(t, calls)

	_, err = client.PredictBatch(context.Background(), []string{"a"})
	remote, ok := AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, "Batch prediction failed", remote.Message)
	assert.Equal(t, 1, calls)
}

func TestClient_PredictBatchCountMismatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"predictions":[`+fraudResponse+`],"total":1}`)
	})

	_, err := client.PredictBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
