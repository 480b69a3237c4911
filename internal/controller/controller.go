// Package controller implements the interaction state machine for a single
// prediction session: health check on start, one request in flight at a time,
// and conversion of every failure into a user-facing message.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Veraticus/smsguard/internal/api"
	"github.com/Veraticus/smsguard/internal/model"
)

// Messages shown to the user when the service gives nothing better.
const (
	MsgUnreachable = "Could not reach prediction service"
	MsgMalformed   = "Invalid response from prediction service"
	MsgCanceled    = "Prediction canceled"
	MsgTimeout     = "Prediction timed out"
	MsgUnexpected  = "Something went wrong"
)

// Predictor is the part of the API client the controller uses.
type Predictor interface {
	CheckHealth(ctx context.Context) (model.Health, error)
	Predict(ctx context.Context, text string) (model.Prediction, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for request outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithText seeds the input text.
func WithText(text string) Option {
	return func(c *Controller) {
		c.state.Text = capText(text)
	}
}

// Controller owns the state of one session. It is safe for concurrent use.
type Controller struct {
	predictor Predictor
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	state     State
	initOnce  sync.Once
	mu        sync.Mutex
	closed    bool
}

// New creates a controller. Canceling ctx or calling Close aborts in-flight calls.
func New(ctx context.Context, predictor Predictor, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(ctx)
	c := &Controller{
		predictor: predictor,
		logger:    slog.Default(),
		ctx:       ctx,
		cancel:    cancel,
		state: State{
			APIStatus: StatusChecking,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Init runs the health check. Only the first call talks to the service;
// later calls return the current status.
func (c *Controller) Init(ctx context.Context) APIStatus {
	c.initOnce.Do(func() {
		callCtx, release := c.callContext(ctx)
		defer release()

		status := StatusOffline
		health, err := c.predictor.CheckHealth(callCtx)
		switch {
		case err != nil:
			c.logger.Warn("health check failed", "error", err)
		default:
			status = StatusFromHealth(health)
			c.logger.Debug("health check complete",
				"status", health.Status,
				"model_loaded", health.ModelLoaded,
				"version", health.Version)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.closed {
			c.state.APIStatus = status
		}
	})

	return c.Snapshot().APIStatus
}

// SetText replaces the input text. Any visible result or error stays until the next submit.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Text = capText(text)
}

// SelectSample loads a canned text and clears the result and error.
func (c *Controller) SelectSample(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Text = capText(text)
	c.state.Result = nil
	c.state.Error = ""
}

// Submit runs a full prediction round trip for the current text.
// It returns false without doing anything when the submit guard rejects it.
func (c *Controller) Submit(ctx context.Context) bool {
	sub, ok := c.Begin()
	if !ok {
		return false
	}
	sub.Execute(ctx)
	return true
}

// Begin applies the submit guard and, when it passes, moves the controller into
// the loading state. The returned Submission performs the network call.
func (c *Controller) Begin() (*Submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.state.CanSubmit() {
		return nil, false
	}

	c.state.Loading = true
	c.state.Error = ""
	c.state.Result = nil

	return &Submission{c: c, text: c.state.Text}, true
}

// Close aborts any in-flight call. A response arriving afterwards is dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

// Submission is a prediction request that has passed the submit guard.
type Submission struct {
	c    *Controller
	text string
	once sync.Once
}

// Text returns the text being classified.
func (s *Submission) Text() string {
	return s.text
}

// Execute performs the call and stores its outcome. Only the first call has any effect.
func (s *Submission) Execute(ctx context.Context) {
	s.once.Do(func() {
		c := s.c
		callCtx, release := c.callContext(ctx)
		defer release()

		prediction, err := c.predictor.Predict(callCtx, s.text)
		c.finish(prediction, err)
	})
}

func (c *Controller) finish(prediction model.Prediction, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug("dropping prediction outcome after close")
		return
	}

	c.state.Loading = false
	if err != nil {
		c.state.Result = nil
		c.state.Error = errorMessage(err)
		c.logger.Warn("prediction failed", "error", err)
		return
	}

	c.state.Result = &prediction
	c.state.Error = ""
	c.logger.Debug("prediction received",
		"label", prediction.LabelName,
		"confidence", prediction.Confidence)
}

// callContext derives a context that ends when either ctx or the controller ends.
func (c *Controller) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.ctx, cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}

func errorMessage(err error) string {
	if remote, ok := api.AsRemoteError(err); ok {
		return remote.Message
	}

	switch {
	case errors.Is(err, context.Canceled):
		return MsgCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.Is(err, api.ErrMalformedResponse):
		return MsgMalformed
	case errors.Is(err, api.ErrTransport):
		return MsgUnreachable
	default:
		return MsgUnexpected
	}
}

func capText(text string) string {
	runes := []rune(text)
	if len(runes) <= model.MaxTextLength {
		return text
	}
	return string(runes[:model.MaxTextLength])
}
