package assessment

import (
	"context"
	"time"
)

// Assessment groups an ordered question bank with the screening settings
// that apply to every submission against it.
type Assessment struct {
	ID        string    `json:"id"`
	JobTitle  string    `json:"job_title"`
	CreatedAt time.Time `json:"created_at"`

	// PassingPercentage, when set, drives the evaluated -> shortlisted /
	// rejected transition after scoring.  When nil a scored submission
	// stays at evaluated.
	PassingPercentage *float64 `json:"passing_percentage,omitempty"`
}

// Repository is the read-only question bank provider.  Implemented by the
// postgres infrastructure layer; the evaluation core only reads.
type Repository interface {
	// GetByID returns the assessment or ErrCodeAssessmentNotFound.
	GetByID(ctx context.Context, id string) (*Assessment, error)

	// ListQuestions returns the ordered question bank for an assessment.
	ListQuestions(ctx context.Context, assessmentID string) ([]Question, error)
}
