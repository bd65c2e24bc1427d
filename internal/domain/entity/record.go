package entity

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionRecord is the persisted history entry for a settled submission
type SubmissionRecord struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SubmissionID       uint64    `json:"submission_id" gorm:"not null;index"`
	Content            string    `json:"content" gorm:"type:varchar(500);not null"`
	Disposition        string    `json:"disposition" gorm:"type:varchar(20);not null;index"`
	Failure            string    `json:"failure,omitempty" gorm:"type:varchar(30)"`
	Message            string    `json:"message,omitempty" gorm:"type:text"`
	Routed             bool      `json:"routed" gorm:"default:false"`
	Reasoning          string    `json:"reasoning,omitempty" gorm:"type:text"`
	ClassificationType string    `json:"classification_type,omitempty" gorm:"type:varchar(50)"`
	Classification     string    `json:"classification,omitempty" gorm:"type:varchar(50)"`
	Confidence         float64   `json:"confidence" gorm:"type:decimal(5,4)"`
	Flagged            bool      `json:"flagged" gorm:"default:false"`
	VerdictLabel       string    `json:"verdict_label,omitempty" gorm:"type:varchar(100)"`
	LatencyMs          int64     `json:"latency_ms" gorm:"default:0"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (SubmissionRecord) TableName() string {
	return "inputs"
}

// Column widths of the inputs table
const (
	maxContentLength        = 500
	maxClassificationLength = 50
	maxVerdictLabelLength   = 100
)

// truncateRunes cuts s to at most n characters
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// NewSubmissionRecord builds a history entry from a settled state and its verdict.
// verdict may be nil when the disposition is not a success.
func NewSubmissionRecord(state SubmissionState, verdict *Verdict) *SubmissionRecord {
	rec := &SubmissionRecord{
		ID:           uuid.New(),
		SubmissionID: state.ID,
		Content:      truncateRunes(state.Text, maxContentLength),
		LatencyMs:    state.Elapsed(state.SettledAt).Milliseconds(),
	}

	if state.Outcome == nil {
		return rec
	}

	rec.Disposition = string(state.Outcome.Kind)
	rec.Failure = string(state.Outcome.Failure)
	rec.Message = state.Outcome.Message

	if r := state.Outcome.Result; r != nil {
		rec.Routed = r.Routed
		rec.Reasoning = r.Reasoning
		rec.ClassificationType = truncateRunes(string(r.ClassificationType), maxClassificationLength)
		rec.Classification = truncateRunes(r.Classification, maxClassificationLength)
		rec.Confidence = r.Confidence
	}
	if verdict != nil {
		rec.Flagged = verdict.Flagged
		rec.VerdictLabel = truncateRunes(verdict.Label, maxVerdictLabelLength)
	}

	return rec
}
