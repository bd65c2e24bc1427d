package entity

// VerdictKind distinguishes how a verdict should be rendered
type VerdictKind string

const (
	VerdictKindRouted    VerdictKind = "routed"
	VerdictKindNotRouted VerdictKind = "not_routed"
	VerdictKindUnknown   VerdictKind = "unknown"
)

// Verdict is the human-facing interpretation of a ClassifyResult
type Verdict struct {
	Kind              VerdictKind `json:"kind"`
	Flagged           bool        `json:"flagged"`
	Label             string      `json:"label"`
	ConfidencePercent float64     `json:"confidence_percent"`
	HasConfidence     bool        `json:"has_confidence"`
}
