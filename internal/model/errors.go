package model

import "errors"

// Validation errors for data received from the prediction service.
var (
	ErrUnknownLabel         = errors.New("unknown label")
	ErrInvalidPrediction    = errors.New("invalid prediction")
	ErrInvalidProbabilities = errors.New("invalid probabilities")
)
