package entity

import (
	"time"
)

// Phase is the lifecycle stage of a submission
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSettled Phase = "settled"
)

// DispositionKind tags the Disposition union
type DispositionKind string

const (
	DispositionSuccess  DispositionKind = "success"
	DispositionTimedOut DispositionKind = "timed_out"
	DispositionFailed   DispositionKind = "failed"
)

// FailureKind narrows a failed disposition for diagnostics
type FailureKind string

const (
	FailureTransport        FailureKind = "transport_failure"
	FailureApplication      FailureKind = "application_error"
	FailureMalformedPayload FailureKind = "malformed_response"
)

// Messages surfaced when the service supplies none
const (
	MessageRequestFailed = "Request failed"
	MessageTimedOut      = "The moderation service did not respond in time. Please try again."
	MessageMalformed     = "The moderation service returned an unexpected response"
)

// Disposition is the terminal outcome of one submission.
// Result is set only for DispositionSuccess; Message and Failure only for DispositionFailed.
type Disposition struct {
	Kind    DispositionKind `json:"kind"`
	Result  *ClassifyResult `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
	Failure FailureKind     `json:"failure,omitempty"`
}

// Success builds a successful disposition
func Success(result *ClassifyResult) Disposition {
	return Disposition{Kind: DispositionSuccess, Result: result}
}

// TimedOut builds a timed-out disposition
func TimedOut() Disposition {
	return Disposition{Kind: DispositionTimedOut, Message: MessageTimedOut}
}

// Failed builds a failed disposition, falling back to a generic message
func Failed(kind FailureKind, message string) Disposition {
	if message == "" {
		message = MessageRequestFailed
	}
	return Disposition{Kind: DispositionFailed, Message: message, Failure: kind}
}

// IsSuccess reports whether the disposition carries a classification result
func (d Disposition) IsSuccess() bool {
	return d.Kind == DispositionSuccess && d.Result != nil
}

// SubmissionState is the observable state of the most recent submission
type SubmissionState struct {
	ID        uint64       `json:"id"`
	Phase     Phase        `json:"phase"`
	Text      string       `json:"text,omitempty"`
	StartedAt time.Time    `json:"started_at,omitempty"`
	SettledAt time.Time    `json:"settled_at,omitempty"`
	Outcome   *Disposition `json:"outcome,omitempty"`
}

// Elapsed returns how long the submission was (or has been) pending
func (s SubmissionState) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.Phase == PhaseSettled {
		return s.SettledAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}
