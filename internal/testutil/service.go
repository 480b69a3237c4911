// Package testutil provides a fake prediction service for tests.
// It speaks the same HTTP contract as the real service so tests can
// exercise the API client end to end.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Veraticus/smsguard/internal/api"
	"github.com/Veraticus/smsguard/internal/model"
)

// FraudPredictionJSON is the canonical fraud response body.
const FraudPredictionJSON = `{
	"text": "Selamat! Anda memenangkan hadiah 100jt.",
	"label": 1,
	"label_name": "Fraud/Penipuan",
	"confidence": 0.87,
	"probabilities": {"Normal": 0.05, "Fraud/Penipuan": 0.87, "Promo": 0.08}
}`

// HealthJSON returns a health body with the given model state.
func HealthJSON(modelLoaded bool) string {
	return fmt.Sprintf(`{"status":"healthy","model_loaded":%t,"version":"1.0.0"}`, modelLoaded)
}

// Response is a canned status and raw body.
type Response struct {
	Body   string
	Status int
}

// BatchFunc answers a batch request.
type BatchFunc func(texts []string) Response

// Service is a fake prediction service backed by httptest.
type Service struct {
	server       *httptest.Server
	batch        BatchFunc
	health       Response
	predict      Response
	texts        []string
	healthCalls  atomic.Int32
	predictCalls atomic.Int32
	batchCalls   atomic.Int32
	mu           sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHealth sets the /api/health response.
func WithHealth(status int, body string) ServiceOption {
	return func(s *Service) {
		s.health = Response{Status: status, Body: body}
	}
}

// WithModelLoaded answers health with 200 and the given model state.
func WithModelLoaded(loaded bool) ServiceOption {
	return WithHealth(http.StatusOK, HealthJSON(loaded))
}

// WithPredict sets the /api/predict response.
func WithPredict(status int, body string) ServiceOption {
	return func(s *Service) {
		s.predict = Response{Status: status, Body: body}
	}
}

// WithBatch sets the /api/predict/batch handler.
func WithBatch(fn BatchFunc) ServiceOption {
	return func(s *Service) {
		s.batch = fn
	}
}

// NewService starts a fake service that is online with the fraud prediction
// unless options say otherwise. It is closed when the test ends.
func NewService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()

	s := &Service{
		health:  Response{Status: http.StatusOK, Body: HealthJSON(true)},
		predict: Response{Status: http.StatusOK, Body: FraudPredictionJSON},
		batch:   EchoBatch(model.LabelNormal),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		s.healthCalls.Add(1)
		write(w, s.health)
	})
	mux.HandleFunc("POST /api/predict", func(w http.ResponseWriter, r *http.Request) {
		s.predictCalls.Add(1)
		var req model.PredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			write(w, Response{Status: http.StatusUnprocessableEntity, Body: `{"detail":"invalid request body"}`})
			return
		}
		s.record(req.Text)
		write(w, s.predict)
	})
	mux.HandleFunc("POST /api/predict/batch", func(w http.ResponseWriter, r *http.Request) {
		s.batchCalls.Add(1)
		var req model.BatchPredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			write(w, Response{Status: http.StatusUnprocessableEntity, Body: `{"detail":"invalid request body"}`})
			return
		}
		s.record(req.Texts...)
		write(w, s.batch(req.Texts))
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)

	return s
}

// URL returns the service base URL.
func (s *Service) URL() string {
	return s.server.URL
}

// Client returns an API client pointed at the service.
func (s *Service) Client(t *testing.T) *api.Client {
	t.Helper()
	client, err := api.NewClient(api.Config{BaseURL: s.server.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// HealthCalls returns how many health requests arrived.
func (s *Service) HealthCalls() int {
	return int(s.healthCalls.Load())
}

// PredictCalls returns how many single predictions were requested.
func (s *Service) PredictCalls() int {
	return int(s.predictCalls.Load())
}

// BatchCalls returns how many batch requests arrived.
func (s *Service) BatchCalls() int {
	return int(s.batchCalls.Load())
}

// Texts returns every text the service received, in arrival order.
func (s *Service) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *Service) record(texts ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, texts...)
}

// EchoBatch answers every text with a certain prediction of label, echoing the text.
func EchoBatch(label model.Label) BatchFunc {
	return func(texts []string) Response {
		preds := make([]model.Prediction, 0, len(texts))
		for _, text := range texts {
			p := model.Prediction{
				Text:       text,
				Label:      label,
				LabelName:  label.Name(),
				Confidence: 1,
			}
			switch label {
			case model.LabelFraud:
				p.Probabilities.Fraud = 1
			case model.LabelPromo:
				p.Probabilities.Promo = 1
			default:
				p.Probabilities.Normal = 1
			}
			preds = append(preds, p)
		}

		body, err := json.Marshal(model.BatchPrediction{Predictions: preds, Total: len(preds)})
		if err != nil {
			return Response{Status: http.StatusInternalServerError, Body: fmt.Sprintf(`{"detail":%q}`, err.Error())}
		}
		return Response{Status: http.StatusOK, Body: string(body)}
	}
}

func write(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write([]byte(resp.Body))
}
