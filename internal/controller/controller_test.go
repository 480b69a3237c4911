package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/smsguard/internal/api"
	"github.com/Veraticus/smsguard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePredictor implements Predictor for testing.
type fakePredictor struct {
	healthErr    error
	predictErr   error
	block        chan struct{}
	prediction   model.Prediction
	health       model.Health
	healthCalls  atomic.Int32
	predictCalls atomic.Int32
	mu           sync.Mutex
	texts        []string
}

func (f *fakePredictor) CheckHealth(_ context.Context) (model.Health, error) {
	f.healthCalls.Add(1)
	if f.healthErr != nil {
		return model.Health{}, f.healthErr
	}
	return f.health, nil
}

func (f *fakePredictor) Predict(ctx context.Context, text string) (model.Prediction, error) {
	f.predictCalls.Add(1)
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return model.Prediction{}, ctx.Err()
		}
	}
	if f.predictErr != nil {
		return model.Prediction{}, f.predictErr
	}
	return f.prediction, nil
}

func onlinePredictor() *fakePredictor {
	return &fakePredictor{
		health:     model.Health{Status: "healthy", ModelLoaded: true, Version: "1.0.0"},
		prediction: fraudPrediction(),
	}
}

func fraudPrediction() model.Prediction {
	return model.Prediction{
		Text:       "Selamat! Anda memenangkan hadiah 100jt.",
		Label:      model.LabelFraud,
		LabelName:  "Fraud/Penipuan",
		Confidence: 0.87,
		Probabilities: model.Probabilities{
			Normal: 0.05,
			Fraud:  0.87,
			Promo:  0.08,
		},
	}
}

func newOnline(t *testing.T, p *fakePredictor) *Controller {
	t.Helper()
	c := New(context.Background(), p)
	t.Cleanup(c.Close)
	require.Equal(t, StatusOnline, c.Init(context.Background()))
	return c
}

func TestController_InitialState(t *testing.T) {
	c := New(context.Background(), onlinePredictor())
	defer c.Close()

	state := c.Snapshot()
	assert.Equal(t, StatusChecking, state.APIStatus)
	assert.False(t, state.Loading)
	assert.Nil(t, state.Result)
	assert.Empty(t, state.Error)
	assert.Empty(t, state.Text)
	assert.Equal(t, PanelEmpty, state.Panel())
}

func TestController_Init(t *testing.T) {
	tests := []struct {
		predictor *fakePredictor
		name      string
		want      APIStatus
	}{
		{
			name:      "model loaded",
			predictor: &fakePredictor{health: model.Health{Status: "healthy", ModelLoaded: true}},
			want:      StatusOnline,
		},
		{
			name:      "model not loaded",
			predictor: &fakePredictor{health: model.Health{Status: "healthy", ModelLoaded: false}},
			want:      StatusOffline,
		},
		{
			name:      "network error",
			predictor: &fakePredictor{healthErr: fmt.Errorf("%w: connection refused", api.ErrTransport)},
			want:      StatusOffline,
		},
		{
			name:      "remote error",
			predictor: &fakePredictor{healthErr: &api.RemoteError{Status: 500, Message: api.MsgHealthFailed}},
			want:      StatusOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(context.Background(), tt.predictor)
			defer c.Close()

			assert.Equal(t, tt.want, c.Init(context.Background()))
			assert.Equal(t, tt.want, c.Snapshot().APIStatus)
		})
	}
}

func TestController_InitRunsOnce(t *testing.T) {
	p := onlinePredictor()
	c := New(context.Background(), p)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Init(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), p.healthCalls.Load())
	assert.Equal(t, StatusOnline, c.Snapshot().APIStatus)
}

func TestController_SubmitEmptyTextIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			p := onlinePredictor()
			c := newOnline(t, p)
			c.SetText(text)
			before := c.Snapshot()

			assert.False(t, c.Submit(context.Background()))
			assert.Zero(t, p.predictCalls.Load())
			assert.Equal(t, before, c.Snapshot())
		})
	}
}

func TestController_SubmitOfflineIsNoop(t *testing.T) {
	p := onlinePredictor()
	p.health.ModelLoaded = false

	c := New(context.Background(), p)
	defer c.Close()
	require.Equal(t, StatusOffline, c.Init(context.Background()))

	c.SetText("Selamat! Anda memenangkan hadiah 100jt.")
	assert.False(t, c.Snapshot().CanSubmit())
	assert.False(t, c.Submit(context.Background()))
	assert.Zero(t, p.predictCalls.Load())
}

func TestController_SubmitWhileChecking(t *testing.T) {
	p := onlinePredictor()
	c := New(context.Background(), p)
	defer c.Close()

	c.SetText("hello")
	assert.True(t, c.Submit(context.Background()))
	assert.Equal(t, int32(1), p.predictCalls.Load())
}

func TestController_SubmitSuccess(t *testing.T) {
	p := onlinePredictor()
	c := newOnline(t, p)

	c.SetText("Selamat! Anda memenangkan hadiah 100jt.")
	require.True(t, c.Submit(context.Background()))

	state := c.Snapshot()
	require.NotNil(t, state.Result)
	assert.Equal(t, fraudPrediction(), *state.Result)
	assert.Empty(t, state.Error)
	assert.False(t, state.Loading)
	assert.Equal(t, PanelResult, state.Panel())
	assert.Equal(t, []string{"Selamat! Anda memenangkan hadiah 100jt."}, p.texts)
}

func TestController_SubmitErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{
			name: "remote detail",
			err:  &api.RemoteError{Status: 500, Message: "model unavailable"},
			want: "model unavailable",
		},
		{
			name: "remote fallback",
			err:  &api.RemoteError{Status: 503, Message: api.MsgPredictionFailed},
			want: "Prediction failed",
		},
		{
			name: "transport",
			err:  fmt.Errorf("%w: dial tcp: connection refused", api.ErrTransport),
			want: MsgUnreachable,
		},
		{
			name: "malformed",
			err:  fmt.Errorf("%w: unknown label", api.ErrMalformedResponse),
			want: MsgMalformed,
		},
		{
			name: "deadline",
			err:  fmt.Errorf("%w: %w", api.ErrTransport, context.DeadlineExceeded),
			want: MsgTimeout,
		},
		{
			name: "unexpected",
			err:  errors.New("boom"),
			want: MsgUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := onlinePredictor()
			p.predictErr = tt.err
			c := newOnline(t, p)

			c.SetText("hello")
			require.True(t, c.Submit(context.Background()))

			state := c.Snapshot()
			assert.Equal(t, tt.want, state.Error)
			assert.Nil(t, state.Result)
			assert.False(t, state.Loading)
			assert.Equal(t, PanelError, state.Panel())
		})
	}
}

func TestController_SubmitClearsPreviousOutcome(t *testing.T) {
	p := onlinePredictor()
	p.predictErr = &api.RemoteError{Status: 500, Message: "model unavailable"}
	c := newOnline(t, p)

	c.SetText("hello")
	require.True(t, c.Submit(context.Background()))
	require.Equal(t, "model unavailable", c.Snapshot().Error)

	p.block = make(chan struct{})
	p.predictErr = nil

	sub, ok := c.Begin()
	require.True(t, ok)

	state := c.Snapshot()
	assert.True(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Nil(t, state.Result)
	assert.Equal(t, PanelLoading, state.Panel())

	close(p.block)
	sub.Execute(context.Background())
	assert.Equal(t, PanelResult, c.Snapshot().Panel())
}

func TestController_SingleRequestInFlight(t *testing.T) {
	p := onlinePredictor()
	p.block = make(chan struct{})
	c := newOnline(t, p)
	c.SetText("hello")

	done := make(chan bool)
	go func() {
		done <- c.Submit(context.Background())
	}()

	require.Eventually(t, func() bool {
		return p.predictCalls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	assert.True(t, c.Snapshot().Loading)
	assert.False(t, c.Submit(context.Background()))
	_, ok := c.Begin()
	assert.False(t, ok)

	close(p.block)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), p.predictCalls.Load())
	assert.False(t, c.Snapshot().Loading)
}

func TestController_ExecuteOnce(t *testing.T) {
	p := onlinePredictor()
	c := newOnline(t, p)
	c.SetText("hello")

	sub, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, "hello", sub.Text())

	sub.Execute(context.Background())
	sub.Execute(context.Background())
	assert.Equal(t, int32(1), p.predictCalls.Load())
}

func TestController_SelectSample(t *testing.T) {
	p := onlinePredictor()
	c := newOnline(t, p)

	c.SetText("hello")
	require.True(t, c.Submit(context.Background()))
	require.NotNil(t, c.Snapshot().Result)

	sample := model.Samples()[2]
	c.SelectSample(sample.Text)

	state := c.Snapshot()
	assert.Equal(t, sample.Text, state.Text)
	assert.Nil(t, state.Result)
	assert.Empty(t, state.Error)
	assert.Equal(t, int32(1), p.predictCalls.Load())

	p.predictErr = &api.RemoteError{Status: 500, Message: "model unavailable"}
	require.True(t, c.Submit(context.Background()))
	require.NotEmpty(t, c.Snapshot().Error)

	c.SelectSample(model.Samples()[0].Text)
	assert.Empty(t, c.Snapshot().Error)
	assert.Equal(t, int32(2), p.predictCalls.Load())
}

func TestController_SetTextKeepsStaleOutcome(t *testing.T) {
	p := onlinePredictor()
	c := newOnline(t, p)

	c.SetText("hello")
	require.True(t, c.Submit(context.Background()))

	c.SetText("something else entirely")
	state := c.Snapshot()
	assert.Equal(t, "something else entirely", state.Text)
	require.NotNil(t, state.Result)
	assert.Equal(t, PanelResult, state.Panel())
}

func TestController_SetTextCapsLength(t *testing.T) {
	c := New(context.Background(), onlinePredictor())
	defer c.Close()

	c.SetText(strings.Repeat("é", model.MaxTextLength+25))
	assert.Len(t, []rune(c.Snapshot().Text), model.MaxTextLength)

	c.SelectSample(strings.Repeat("a", model.MaxTextLength+1))
	assert.Len(t, c.Snapshot().Text, model.MaxTextLength)
}

func TestController_CloseDropsLateResponse(t *testing.T) {
	p := onlinePredictor()
	p.block = make(chan struct{})
	c := New(context.Background(), p)
	require.Equal(t, StatusOnline, c.Init(context.Background()))
	c.SetText("hello")

	sub, ok := c.Begin()
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sub.Execute(context.Background())
	}()

	require.Eventually(t, func() bool {
		return p.predictCalls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	c.Close()
	<-done

	state := c.Snapshot()
	assert.Nil(t, state.Result)
	assert.Empty(t, state.Error)

	_, ok = c.Begin()
	assert.False(t, ok)
}

func TestController_CallerCancel(t *testing.T) {
	p := onlinePredictor()
	p.block = make(chan struct{})
	c := newOnline(t, p)
	c.SetText("hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.True(t, c.Submit(ctx))
	state := c.Snapshot()
	assert.Equal(t, MsgCanceled, state.Error)
	assert.False(t, state.Loading)
}

func TestController_SnapshotIsCopy(t *testing.T) {
	c := newOnline(t, onlinePredictor())
	c.SetText("hello")
	require.True(t, c.Submit(context.Background()))

	snap := c.Snapshot()
	snap.Result.Confidence = 0.1
	assert.InDelta(t, 0.87, c.Snapshot().Result.Confidence, 1e-9)
}

func TestController_WithText(t *testing.T) {
	c := New(context.Background(), onlinePredictor(), WithText("preset"))
	defer c.Close()
	assert.Equal(t, "preset", c.Snapshot().Text)
}
