// Package model defines the wire types and label taxonomy shared with the prediction service.
package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxTextLength caps the SMS text accepted from the user, in characters.
	MaxTextLength = 1000
	// MaxBatchSize is the largest number of texts the service accepts per batch call.
	MaxBatchSize = 100

	confidenceTolerance = 1e-6
)

var validate = validator.New()

// PredictionRequest is the body of a single prediction call.
type PredictionRequest struct {
	Text string `json:"text"`
}

// BatchPredictionRequest is the body of a batch prediction call.
type BatchPredictionRequest struct {
	Texts []string `json:"texts"`
}

// Prediction is the service's answer for a single SMS.
type Prediction struct {
	Text          string        `json:"text" validate:"required"`
	LabelName     string        `json:"label_name" validate:"required"`
	Probabilities Probabilities `json:"probabilities"`
	Confidence    float64       `json:"confidence" validate:"gte=0,lte=1"`
	Label         Label         `json:"label"`
}

// Validate checks the prediction against the label taxonomy.
// Confidence must match the probability of the winning label.
func (p Prediction) Validate() error {
	if !p.Label.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownLabel, int(p.Label))
	}

	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	if p.LabelName != p.Label.Name() {
		return fmt.Errorf("%w: label %d is %q, got name %q",
			ErrInvalidPrediction, int(p.Label), p.Label.Name(), p.LabelName)
	}

	if diff := math.Abs(p.Confidence - p.Probabilities.Of(p.Label)); diff > confidenceTolerance {
		return fmt.Errorf("%w: confidence %.4f does not match %s probability %.4f",
			ErrInvalidPrediction, p.Confidence, p.Label, p.Probabilities.Of(p.Label))
	}

	return nil
}

// BatchPrediction is the service's answer for a batch call.
type BatchPrediction struct {
	Predictions []Prediction `json:"predictions"`
	Total       int          `json:"total"`
}

// Validate checks every prediction and the reported total.
func (b BatchPrediction) Validate() error {
	if b.Total != len(b.Predictions) {
		return fmt.Errorf("%w: total %d but %d predictions", ErrInvalidPrediction, b.Total, len(b.Predictions))
	}
	for i, p := range b.Predictions {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("prediction %d: %w", i, err)
		}
	}
	return nil
}

// Probabilities holds the probability mass per label.
// The service sends them keyed by label name; exactly the known names are accepted.
type Probabilities struct {
	Normal float64 `validate:"gte=0,lte=1"`
	Fraud  float64 `validate:"gte=0,lte=1"`
	Promo  float64 `validate:"gte=0,lte=1"`
}

// LabelProbability pairs a label with its probability.
type LabelProbability struct {
	Label       Label
	Probability float64
}

// Of returns the probability for l, or 0 for unknown labels.
func (p Probabilities) Of(l Label) float64 {
	switch l {
	case LabelNormal:
		return p.Normal
	case LabelFraud:
		return p.Fraud
	case LabelPromo:
		return p.Promo
	default:
		return 0
	}
}

// Sum returns the total probability mass.
func (p Probabilities) Sum() float64 {
	return p.Normal + p.Fraud + p.Promo
}

// Ordered returns the probabilities in label order.
func (p Probabilities) Ordered() []LabelProbability {
	out := make([]LabelProbability, 0, len(labelTable))
	for _, l := range Labels() {
		out = append(out, LabelProbability{Label: l, Probability: p.Of(l)})
	}
	return out
}

func (p *Probabilities) set(l Label, v float64) {
	switch l {
	case LabelNormal:
		p.Normal = v
	case LabelFraud:
		p.Fraud = v
	case LabelPromo:
		p.Promo = v
	}
}

// MarshalJSON encodes the probabilities keyed by label name.
func (p Probabilities) MarshalJSON() ([]byte, error) {
	raw := make(map[string]float64, len(labelTable))
	for _, lp := range p.Ordered() {
		raw[lp.Label.Name()] = lp.Probability
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes probabilities keyed by label name.
func (p *Probabilities) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProbabilities, err)
	}

	if len(raw) != len(labelTable) {
		return fmt.Errorf("%w: expected %d categories, got %d", ErrInvalidProbabilities, len(labelTable), len(raw))
	}

	var out Probabilities
	for name, v := range raw {
		l, err := ParseLabelName(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProbabilities, err)
		}
		out.set(l, v)
	}

	*p = out
	return nil
}

// Health is the service's liveness and readiness report.
type Health struct {
	Status      string `json:"status" validate:"required"`
	Version     string `json:"version"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Validate checks the health report has the fields callers depend on.
func (h Health) Validate() error {
	if err := validate.Struct(h); err != nil {
		return fmt.Errorf("invalid health response: %w", err)
	}
	return nil
}
