// Package kafka publishes evaluation lifecycle events.
package kafka

import "time"

// Topic names.
const (
	TopicSubmissionEvaluated = "talentscreen.submission.evaluated"
	TopicIntegrityFlagged    = "talentscreen.integrity.flagged"
)

// SubmissionEvaluatedEvent is emitted after every completed evaluation run.
type SubmissionEvaluatedEvent struct {
	SubmissionID string    `json:"submission_id"`
	AssessmentID string    `json:"assessment_id"`
	Percentage   float64   `json:"percentage"`
	Percentile   int       `json:"percentile"`
	Status       string    `json:"status"`
	RemoteGraded bool      `json:"remote_graded"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}

// IntegrityFlaggedEvent is emitted when a submission is classified as a
// likely bot or carries plagiarism flags.
type IntegrityFlaggedEvent struct {
	SubmissionID     string    `json:"submission_id"`
	AssessmentID     string    `json:"assessment_id"`
	RiskScore        int       `json:"risk_score"`
	IsBot            bool      `json:"is_bot"`
	FlagCount        int       `json:"flag_count"`
	PlagiarismFlags  int       `json:"plagiarism_flags"`
	AssessedAt       time.Time `json:"assessed_at"`
}
