package service

import (
	"math"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
)

// Verdict labels
const (
	LabelNotRouted    = "Not routed to classifier."
	LabelFlaggedHate  = "Flagged: hate speech"
	LabelNotHate      = "Not flagged: not hate speech"
	LabelFlaggedSpam  = "Flagged: spam"
	LabelNotSpam      = "Not flagged: not spam"
	labelUnrecognized = "Unrecognized classifier: "
)

// Interpret maps a classification result to the verdict shown to the user.
// It is pure: equal inputs always yield equal verdicts.
func Interpret(result entity.ClassifyResult) entity.Verdict {
	if !result.Routed {
		return entity.Verdict{
			Kind:  entity.VerdictKindNotRouted,
			Label: LabelNotRouted,
		}
	}

	v := entity.Verdict{
		Kind:              entity.VerdictKindRouted,
		ConfidencePercent: confidencePercent(result.Confidence),
		HasConfidence:     true,
	}

	switch result.ClassificationType {
	case entity.ClassificationTypeHate:
		v.Flagged = result.Classification == entity.LabelHate
		v.Label = LabelNotHate
		if v.Flagged {
			v.Label = LabelFlaggedHate
		}
	case entity.ClassificationTypeSpam:
		v.Flagged = result.Classification == entity.LabelSpam
		v.Label = LabelNotSpam
		if v.Flagged {
			v.Label = LabelFlaggedSpam
		}
	default:
		// Unknown classifiers are never flagged.
		v.Kind = entity.VerdictKindUnknown
		v.Label = labelUnrecognized + string(result.ClassificationType)
	}

	return v
}

// confidencePercent scales a [0,1] score to a percentage rounded to one decimal
func confidencePercent(confidence float64) float64 {
	return math.Round(confidence*1000) / 10
}
