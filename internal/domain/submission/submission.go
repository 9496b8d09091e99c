// Package submission defines the candidate-submission aggregate, the
// derived evaluation result types, and the persistence contract the
// evaluation pipeline writes through.  Submissions are created by the
// candidate-facing layer; the evaluation core only annotates them with
// scores, flags, and status transitions.
package submission

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/turtacn/TalentScreen/pkg/errors"
)

// Status is the submission lifecycle state.
type Status string

const (
	StatusPending     Status = "pending"
	StatusEvaluated   Status = "evaluated"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
)

// validTransitions encodes the lifecycle pending -> evaluated ->
// {shortlisted | rejected}.  Re-evaluation may move a decided submission
// back to evaluated since recomputation overwrites the score wholesale.
var validTransitions = map[Status][]Status{
	StatusPending:     {StatusEvaluated},
	StatusEvaluated:   {StatusShortlisted, StatusRejected, StatusEvaluated},
	StatusShortlisted: {StatusEvaluated, StatusRejected},
	StatusRejected:    {StatusEvaluated, StatusShortlisted},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Candidate is the identity attached to a submission.
type Candidate struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	UserID string `json:"user_id,omitempty"`
}

// NormalizedEmail returns the lower-cased trimmed email used for
// duplicate-identity comparisons.
func (c Candidate) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// TestResult is one pre-executed coding test-case outcome supplied by the
// candidate-facing layer.  The core never runs code.
type TestResult struct {
	Passed bool   `json:"passed"`
	Output string `json:"output,omitempty"`
}

// Answer is the response to a single question.  The populated response
// field depends on the question type: SelectedOption for MCQ, Text for
// subjective, Code (plus optional ExecutionResults) for coding.
type Answer struct {
	QuestionID string `json:"question_id"`

	SelectedOption   *int         `json:"selected_option,omitempty"`
	Text             string       `json:"text,omitempty"`
	Code             string       `json:"code,omitempty"`
	ExecutionResults []TestResult `json:"execution_results,omitempty"`

	TimeSpentSeconds int `json:"time_spent_seconds"`
}

// AntiCheat is the telemetry collected by the candidate-facing layer.
// It arrives already aggregated; the core only reads it.
type AntiCheat struct {
	TabSwitches       int            `json:"tab_switches"`
	CopyPasteDetected bool           `json:"copy_paste_detected"`
	QuestionTimes     map[string]int `json:"question_times,omitempty"`
}

// Submission aggregates a candidate's answers for one assessment together
// with the evaluation annotations written by the pipeline.
type Submission struct {
	ID           string            `json:"id"`
	AssessmentID string            `json:"assessment_id"`
	Candidate    Candidate         `json:"candidate"`
	Answers      map[string]Answer `json:"answers"`
	AntiCheat    AntiCheat         `json:"anti_cheat"`
	StartedAt    time.Time         `json:"started_at"`
	SubmittedAt  time.Time         `json:"submitted_at"`
	Status       Status            `json:"status"`

	// Evaluation annotations.  Overwritten wholesale on every run, never
	// patched incrementally.
	Score            *ScoreRecord        `json:"score,omitempty"`
	SimilarityChecks []SimilarityResult  `json:"similarity_checks,omitempty"`
	RiskReport       *BotRiskReport      `json:"risk_report,omitempty"`
	Benchmark        *BenchmarkComparison `json:"benchmark,omitempty"`
}

// AnswerFor returns the answer for a question, reporting presence
// explicitly so missing answers stay a domain outcome, not an error.
func (s *Submission) AnswerFor(questionID string) (Answer, bool) {
	a, ok := s.Answers[questionID]
	return a, ok
}

// CompletionTime is the wall-clock duration between start and submit.
// Zero when either timestamp is missing.
func (s *Submission) CompletionTime() time.Duration {
	if s.StartedAt.IsZero() || s.SubmittedAt.IsZero() || s.SubmittedAt.Before(s.StartedAt) {
		return 0
	}
	return s.SubmittedAt.Sub(s.StartedAt)
}

// Transition validates and applies a status change.
func (s *Submission) Transition(next Status) error {
	if !s.Status.CanTransition(next) {
		return apperrors.Newf(apperrors.ErrCodeInvalidStatusChange,
			"cannot transition submission %s from %s to %s", s.ID, s.Status, next)
	}
	s.Status = next
	return nil
}

// Repository is the submission store contract.  Reads supply the
// submission and its cohort snapshot; writes persist evaluation results
// with idempotent overwrite semantics.
type Repository interface {
	// GetByID returns the submission or ErrCodeSubmissionNotFound.
	GetByID(ctx context.Context, id string) (*Submission, error)

	// ListByAssessment returns the full cohort for an assessment,
	// including the current submission, with any persisted score records.
	ListByAssessment(ctx context.Context, assessmentID string) ([]*Submission, error)

	// SaveScore overwrites the score record for a submission.
	SaveScore(ctx context.Context, submissionID string, record *ScoreRecord) error

	// SaveSimilarityResults overwrites the plagiarism annotations.
	SaveSimilarityResults(ctx context.Context, submissionID string, results []SimilarityResult) error

	// SaveRiskReport overwrites the bot-risk annotation.
	SaveRiskReport(ctx context.Context, submissionID string, report *BotRiskReport) error

	// SaveBenchmark overwrites the benchmark annotation.
	SaveBenchmark(ctx context.Context, submissionID string, cmp *BenchmarkComparison) error

	// UpdateStatus persists a status transition.
	UpdateStatus(ctx context.Context, submissionID string, status Status) error
}
