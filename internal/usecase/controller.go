package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// ControllerDeps wires driven adapters into a controller.
type ControllerDeps struct {
	Predictor ports.Predictor
	Metrics   ports.Metrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// View is an immutable snapshot of the controller state.
type View struct {
	Text    string                   `json:"text"`
	Status  domain.RequestStatus     `json:"status"`
	Loading bool                     `json:"loading"`
	Result  *domain.PredictionResult `json:"result"`
	Percent string                   `json:"percent,omitempty"`
	Error   string                   `json:"error"`
}

// Controller owns the input text, the last result or error, and the request status.
// At most one of result and error is set at any time.
type Controller struct {
	predictor ports.Predictor
	metrics   ports.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	text       string
	status     domain.RequestStatus
	result     *domain.PredictionResult
	errMessage string
	touchedAt  time.Time
}

// NewController constructs an idle controller.
func NewController(deps ControllerDeps) *Controller {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		predictor: deps.Predictor,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		now:       now,
		status:    domain.StatusIdle,
		touchedAt: now(),
	}
}

// Submit validates the text and, if long enough, classifies it.
// Failures end up in the view; Submit never returns an error.
// A submit while a request is in flight is ignored.
func (c *Controller) Submit(ctx context.Context, text string) View {
	c.mu.Lock()
	if c.status == domain.StatusLoading {
		view := c.viewLocked()
		c.mu.Unlock()
		c.debug("submit ignored, request in flight")
		return view
	}

	c.text = text
	c.result = nil
	c.errMessage = ""
	c.touchedAt = c.now()

	if err := domain.ValidateText(text); err != nil {
		c.errMessage = domain.DisplayMessage(err)
		view := c.viewLocked()
		c.mu.Unlock()
		c.observe(ports.OutcomeValidationError, "", 0)
		c.debug("submit rejected", "error", err)
		return view
	}

	c.status = domain.StatusLoading
	c.mu.Unlock()

	started := c.now()
	result, err := c.predict(ctx, text)
	elapsed := c.now().Sub(started)

	c.mu.Lock()
	c.status = domain.StatusDone
	c.touchedAt = c.now()
	if err != nil {
		c.errMessage = domain.DisplayMessage(err)
	} else {
		c.result = &result
	}
	view := c.viewLocked()
	c.mu.Unlock()

	if err != nil {
		c.observe(ports.OutcomeServiceError, "", elapsed)
		c.warn("prediction failed", "error", err, "elapsed", elapsed)
	} else {
		c.observe(ports.OutcomeSuccess, result.Label, elapsed)
		c.debug("prediction done", "label", result.Label, "probability", result.Probability, "elapsed", elapsed)
	}

	return view
}

// Reset clears text, result and error, and returns to idle.
func (c *Controller) Reset() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = ""
	c.result = nil
	c.errMessage = ""
	c.status = domain.StatusIdle
	c.touchedAt = c.now()
	return c.viewLocked()
}

// LoadSample replaces the input with the sample article.
func (c *Controller) LoadSample() View {
	return c.SetText(domain.SampleText)
}

// SetText overwrites the input without validating or submitting it.
func (c *Controller) SetText(text string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
	c.touchedAt = c.now()
	return c.viewLocked()
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Loading reports whether a prediction is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == domain.StatusLoading
}

// Touch marks the controller as used without changing its state.
func (c *Controller) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchedAt = c.now()
}

// IdleSince returns when the controller was last used.
func (c *Controller) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touchedAt
}

func (c *Controller) predict(ctx context.Context, text string) (domain.PredictionResult, error) {
	if c.predictor == nil {
		return domain.PredictionResult{}, &domain.ServiceError{
			Message: domain.FallbackMessage,
			Err:     errors.New("predictor is not configured"),
		}
	}
	return c.predictor.Predict(ctx, text)
}

func (c *Controller) viewLocked() View {
	view := View{
		Text:    c.text,
		Status:  c.status,
		Loading: c.status == domain.StatusLoading,
		Error:   c.errMessage,
	}
	if c.result != nil {
		result := *c.result
		view.Result = &result
		view.Percent = result.Percent()
	}
	return view
}

func (c *Controller) observe(outcome ports.Outcome, label domain.Label, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveSubmission(outcome, label, elapsed)
	}
}

func (c *Controller) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Controller) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
