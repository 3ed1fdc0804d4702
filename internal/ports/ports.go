package ports

import (
	"context"
	"time"

	"FakeNewsDetector/internal/domain"
)

// Predictor classifies a single text through the external service.
type Predictor interface {
	Predict(ctx context.Context, text string) (domain.PredictionResult, error)
}

// Outcome names how a submission ended, for metrics and logs.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeValidationError Outcome = "validation_error"
	OutcomeServiceError    Outcome = "service_error"
)

// Metrics records submission outcomes; label is empty unless Outcome is success.
type Metrics interface {
	ObserveSubmission(outcome Outcome, label domain.Label, elapsed time.Duration)
}

// Scheduler controls when background jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// SessionSweeper evicts sessions that have been idle too long as of now.
type SessionSweeper interface {
	Sweep(now time.Time) int
}
