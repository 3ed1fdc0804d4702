package domain

import "errors"

const (
	// ValidationMessage is shown when the submitted text is too short.
	ValidationMessage = "Please enter a longer news article or paragraph (≥10 characters)."
	// FallbackMessage is shown when the service gives no usable reason.
	FallbackMessage = "Prediction failed"
	// TimeoutMessage is shown when the service does not answer in time.
	TimeoutMessage = "Prediction timed out"
)

// ErrInvalidResponse marks a 2xx answer whose payload cannot be trusted.
var ErrInvalidResponse = errors.New("invalid prediction response")

// ValidationError is a local rejection that never reaches the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServiceError describes a failed round trip to the classification service.
// Message is safe to display; Err keeps the underlying cause for logs.
type ServiceError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// DisplayMessage maps any error to the single string the UI shows.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}

	var sErr *ServiceError
	if errors.As(err, &sErr) {
		return sErr.Error()
	}

	return FallbackMessage
}
