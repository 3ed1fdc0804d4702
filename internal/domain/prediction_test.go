package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictionResultPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "87.0%", PredictionResult{Label: LabelFake, Probability: 0.87}.Percent())
	assert.Equal(t, "100.0%", PredictionResult{Label: LabelReal, Probability: 1}.Percent())
	assert.Equal(t, "51.2%", PredictionResult{Label: LabelReal, Probability: 0.5123}.Percent())
}

func TestPredictionResultValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  PredictionResult
		wantErr bool
	}{
		{"fake", PredictionResult{Label: LabelFake, Probability: 0.87}, false},
		{"real lower bound", PredictionResult{Label: LabelReal, Probability: 0}, false},
		{"lowercase label", PredictionResult{Label: "fake", Probability: 0.5}, true},
		{"empty label", PredictionResult{Probability: 0.5}, true},
		{"above one", PredictionResult{Label: LabelReal, Probability: 1.01}, true},
		{"negative", PredictionResult{Label: LabelReal, Probability: -0.1}, true},
		{"nan", PredictionResult{Label: LabelReal, Probability: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	assert.Error(t, ValidateText("Hi"))
	assert.Error(t, ValidateText("   short    "))
	assert.Error(t, ValidateText("ééééééééé"))
	assert.NoError(t, ValidateText("ten chars!"))
	assert.NoError(t, ValidateText("  " + SampleText + "\n"))

	err := ValidateText("Hi")
	assert.Equal(t, ValidationMessage, DisplayMessage(err))
}

func TestDisplayMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", DisplayMessage(nil))
	assert.Equal(t, "model unavailable", DisplayMessage(&ServiceError{Status: 500, Message: "model unavailable"}))
	assert.Equal(t, FallbackMessage, DisplayMessage(&ServiceError{Status: 502}))
	assert.Equal(t, FallbackMessage, DisplayMessage(errors.New("boom")))

	wrapped := fmt.Errorf("predict: %w", &ServiceError{Message: TimeoutMessage})
	assert.Equal(t, TimeoutMessage, DisplayMessage(wrapped))
}
