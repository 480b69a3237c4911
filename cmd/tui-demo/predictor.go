package main

import (
	"context"
	"strings"
	"time"

	"github.com/Veraticus/smsguard/internal/api"
	"github.com/Veraticus/smsguard/internal/model"
)

const demoLatency = 600 * time.Millisecond

// demoPredictor knows the answers for the built-in samples and nothing else.
type demoPredictor struct {
	answers map[string]model.Prediction
	latency time.Duration
}

func newDemoPredictor() *demoPredictor {
	answers := make(map[string]model.Prediction)
	for _, s := range model.Samples() {
		answers[s.Text] = cannedPrediction(s)
	}
	return &demoPredictor{answers: answers, latency: demoLatency}
}

func (d *demoPredictor) CheckHealth(ctx context.Context) (model.Health, error) {
	if err := d.wait(ctx); err != nil {
		return model.Health{}, err
	}
	return model.Health{Status: "healthy", ModelLoaded: true, Version: "demo"}, nil
}

func (d *demoPredictor) Predict(ctx context.Context, text string) (model.Prediction, error) {
	if err := d.wait(ctx); err != nil {
		return model.Prediction{}, err
	}

	p, ok := d.answers[strings.TrimSpace(text)]
	if !ok {
		return model.Prediction{}, &api.RemoteError{
			Status:  422,
			Message: "Demo mode only knows the built-in samples (F1-F3)",
		}
	}
	return p, nil
}

func (d *demoPredictor) wait(ctx context.Context) error {
	if d.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cannedPrediction(s model.Sample) model.Prediction {
	const winner, rest = 0.9, 0.05

	p := model.Prediction{
		Text:       s.Text,
		Label:      s.Kind,
		LabelName:  s.Kind.Name(),
		Confidence: winner,
		Probabilities: model.Probabilities{
			Normal: rest,
			Fraud:  rest,
			Promo:  rest,
		},
	}
	switch s.Kind {
	case model.LabelFraud:
		p.Probabilities.Fraud = winner
	case model.LabelPromo:
		p.Probabilities.Promo = winner
	default:
		p.Probabilities.Normal = winner
	}
	return p
}
