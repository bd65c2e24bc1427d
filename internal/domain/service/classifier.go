package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
)

// ErrMalformedResponse indicates a success status with a body that does not match ClassifyResult
var ErrMalformedResponse = errors.New("malformed classification response")

// ServiceError is returned when the moderation service answers with a non-success status
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("moderation service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("moderation service returned status %d: %s", e.StatusCode, e.Detail)
}

// Classifier sends text to the moderation service
type Classifier interface {
	// Classify returns a validated result, a *ServiceError, an error wrapping
	// ErrMalformedResponse, or a transport error. It must honour ctx cancellation.
	Classify(ctx context.Context, text string) (*entity.ClassifyResult, error)
}

// HealthChecker probes the moderation service
type HealthChecker interface {
	Health(ctx context.Context) error
}
