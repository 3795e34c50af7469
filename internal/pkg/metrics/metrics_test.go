package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"pointsdraw/internal/models"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "insufficient_balance", Result(models.ErrInsufficientBalance))
	assert.Equal(t, "unauthorized", Result(models.ErrUnauthorized))
	assert.Equal(t, "no_randomness", Result(fmt.Errorf("claim: %w", models.ErrNoRandomnessAvailable)))
	assert.Equal(t, "duplicate_job", Result(models.ErrJobIDAlreadyPresent))
	assert.Equal(t, "error", Result(errors.New("boom")))
}
