package entity

import (
	"errors"
	"math"
)

// ClassificationType identifies the downstream classifier a routed text was sent to
type ClassificationType string

const (
	ClassificationTypeHate ClassificationType = "classify_hate"
	ClassificationTypeSpam ClassificationType = "classify_spam"
)

// Labels emitted by the downstream classifiers
const (
	LabelHate    = "hate"
	LabelNotHate = "nothate"
	LabelSpam    = "LABEL_1"
	LabelNotSpam = "LABEL_0"
)

// Errors returned by ClassifyResult.Validate
var (
	ErrMissingClassification    = errors.New("routed result is missing classification fields")
	ErrUnexpectedClassification = errors.New("unrouted result carries classification fields")
	ErrInvalidConfidence        = errors.New("confidence is not a finite number")
)

// ClassifyResult is the verdict payload returned by the moderation service.
// Classification fields are set if and only if Routed is true.
type ClassifyResult struct {
	Routed             bool               `json:"routed"`
	Reasoning          string             `json:"reasoning"`
	ClassificationType ClassificationType `json:"classification_type,omitempty"`
	Classification     string             `json:"classification,omitempty"`
	Confidence         float64            `json:"confidence,omitempty"`
}

// Validate checks the routed/classification field invariant
func (r *ClassifyResult) Validate() error {
	hasFields := r.ClassificationType != "" || r.Classification != ""
	if r.Routed {
		if r.ClassificationType == "" || r.Classification == "" {
			return ErrMissingClassification
		}
		if math.IsNaN(r.Confidence) || math.IsInf(r.Confidence, 0) {
			return ErrInvalidConfidence
		}
		return nil
	}
	if hasFields {
		return ErrUnexpectedClassification
	}
	return nil
}
