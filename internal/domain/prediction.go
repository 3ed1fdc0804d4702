package domain

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// MinTextLength is the minimum trimmed length accepted for classification.
const MinTextLength = 10

// SampleText is the example article offered by the "Paste sample" action.
const SampleText = "President announces a new initiative to boost the economy and create jobs across regions."

// Label is the binary classifier verdict.
type Label string

const (
	LabelReal Label = "REAL"
	LabelFake Label = "FAKE"
)

// Valid reports whether the label is one of the two known verdicts.
func (l Label) Valid() bool {
	return l == LabelReal || l == LabelFake
}

// PredictionResult is a successful answer of the classification service.
type PredictionResult struct {
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
}

// Percent renders the probability with one decimal, e.g. 0.87 -> "87.0%".
func (r PredictionResult) Percent() string {
	return fmt.Sprintf("%.1f%%", r.Probability*100)
}

// Validate rejects payloads with an unknown label or an out-of-range probability.
func (r PredictionResult) Validate() error {
	if !r.Label.Valid() {
		return fmt.Errorf("%w: unexpected label %q", ErrInvalidResponse, r.Label)
	}
	if math.IsNaN(r.Probability) || r.Probability < 0 || r.Probability > 1 {
		return fmt.Errorf("%w: probability %v outside [0,1]", ErrInvalidResponse, r.Probability)
	}
	return nil
}

// RequestStatus tracks where a controller is in its submit cycle.
type RequestStatus string

const (
	StatusIdle    RequestStatus = "idle"
	StatusLoading RequestStatus = "loading"
	StatusDone    RequestStatus = "done"
)

// ValidateText returns a ValidationError when the trimmed text is too short.
func ValidateText(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		return &ValidationError{Message: ValidationMessage}
	}
	return nil
}
