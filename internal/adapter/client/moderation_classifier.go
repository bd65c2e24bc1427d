package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
)

var (
	errMissingRouted    = errors.New("missing routed")
	errMissingReasoning = errors.New("missing reasoning")
	errMissingScore     = errors.New("missing confidence")
)

// ModerationClassifier adapts ModerationClient to the Classifier interface
type ModerationClassifier struct {
	client *ModerationClient
}

// NewModerationClassifier creates a new ModerationClassifier
func NewModerationClassifier(client *ModerationClient) *ModerationClassifier {
	return &ModerationClassifier{client: client}
}

// Classify classifies a single text and validates the response shape
func (c *ModerationClassifier) Classify(ctx context.Context, text string) (*entity.ClassifyResult, error) {
	resp, err := c.client.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	result, err := toClassifyResult(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}

	return result, nil
}

// Health reports whether the moderation service answers its health probe
func (c *ModerationClassifier) Health(ctx context.Context) error {
	resp, err := c.client.Health(ctx)
	if err != nil {
		return err
	}
	if !strings.EqualFold(resp.Status, "ok") {
		return fmt.Errorf("moderation service reported status %q", resp.Status)
	}
	return nil
}

func toClassifyResult(resp *ClassifyResponse) (*entity.ClassifyResult, error) {
	if resp.Routed == nil {
		return nil, errMissingRouted
	}
	if resp.Reasoning == nil {
		return nil, errMissingReasoning
	}

	result := &entity.ClassifyResult{
		Routed:    *resp.Routed,
		Reasoning: *resp.Reasoning,
	}

	if result.Routed {
		if resp.Confidence == nil {
			return nil, errMissingScore
		}
		result.Confidence = *resp.Confidence
	}
	if resp.ClassificationType != nil {
		result.ClassificationType = entity.ClassificationType(*resp.ClassificationType)
	}
	if resp.Classification != nil {
		result.Classification = *resp.Classification
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}
