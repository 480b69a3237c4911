package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Fallback messages used when the service gives no usable detail.
const (
	MsgHealthFailed     = "Health check failed"
	MsgPredictionFailed = "Prediction failed"
	MsgBatchFailed      = "Batch prediction failed"
)

var (
	// ErrTransport wraps failures below HTTP: DNS, refused connections, resets.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse is returned when a 2xx body does not match the contract.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEmptyBatch is returned for a batch call without texts.
	ErrEmptyBatch = errors.New("batch is empty")
	// ErrBatchTooLarge is returned for a batch call above the service limit.
	ErrBatchTooLarge = errors.New("batch too large")
)

// RemoteError is a non-2xx answer from the prediction service.
type RemoteError struct {
	Message string
	Status  int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// AsRemoteError extracts a RemoteError from err's chain.
func AsRemoteError(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}

// detailMessage pulls a string "detail" field out of an error body.
func detailMessage(body []byte, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}

	// Validation errors carry a list here, not a string.
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return fallback
	}
	if strings.TrimSpace(detail) == "" {
		return fallback
	}
	return detail
}
