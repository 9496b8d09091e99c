package submission

import (
	"time"

	"github.com/turtacn/TalentScreen/internal/domain/assessment"
)

// ─────────────────────────────────────────────────────────────────────────────
// ScoreRecord: output of the scoring engine
// ─────────────────────────────────────────────────────────────────────────────

// SectionScore is the per-question-type breakdown of a score record.
// Count holds the number of correct answers for MCQ sections and the number
// of evaluated answers for subjective/coding sections.
type SectionScore struct {
	Score float64 `json:"score"`
	Total float64 `json:"total"`
	Count int     `json:"count"`

	// TestsPassed / TestsTotal accumulate pre-executed test-case counts.
	// Populated for the coding section only.
	TestsPassed int `json:"tests_passed,omitempty"`
	TestsTotal  int `json:"tests_total,omitempty"`
}

// SkillScore is the rollup of every question tagged with one skill.
type SkillScore struct {
	Score      float64 `json:"score"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// AnswerFeedback carries the per-question score and human-readable note.
type AnswerFeedback struct {
	QuestionID string  `json:"question_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Feedback   string  `json:"feedback,omitempty"`
}

// ScoreRecord is the derived score for one submission.  It is recomputed
// wholesale on every evaluation and is a pure function of the submission
// and the question bank.
type ScoreRecord struct {
	SubmissionID  string                                      `json:"submission_id"`
	TotalScore    float64                                     `json:"total_score"`
	TotalPossible float64                                     `json:"total_possible"`
	Percentage    float64                                     `json:"percentage"`
	Sections      map[assessment.QuestionType]SectionScore    `json:"sections"`
	Skills        map[string]SkillScore                       `json:"skills"`
	Feedback      []AnswerFeedback                            `json:"feedback,omitempty"`
	RemoteGraded  bool                                        `json:"remote_graded"`
	EvaluatedAt   time.Time                                   `json:"evaluated_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// SimilarityResult: output of the plagiarism detector
// ─────────────────────────────────────────────────────────────────────────────

// PeerMatch identifies one cohort peer ranked by similarity.
type PeerMatch struct {
	SubmissionID   string  `json:"submission_id"`
	CandidateName  string  `json:"candidate_name"`
	CandidateEmail string  `json:"candidate_email"`
	Similarity     float64 `json:"similarity"`
}

// SimilarityResult is the per-(submission, question) plagiarism verdict.
// SimilarityScore is the highest peer similarity on a 0-100 scale.
type SimilarityResult struct {
	SubmissionID    string      `json:"submission_id"`
	QuestionID      string      `json:"question_id"`
	SimilarityScore float64     `json:"similarity_score"`
	Flagged         bool        `json:"flagged"`
	TopMatches      []PeerMatch `json:"top_matches,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// BotRiskReport: output of the integrity heuristics
// ─────────────────────────────────────────────────────────────────────────────

// Severity grades an integrity flag.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FlagType names the detector that raised a flag.
type FlagType string

const (
	FlagRepeatedApplication FlagType = "repeated_application"
	FlagSuspiciousTiming    FlagType = "suspicious_timing"
	FlagGuessPattern        FlagType = "guess_pattern"
	FlagIdenticalResponses  FlagType = "identical_responses"
)

// RiskFlag is one suspicion signal with its evidence.
type RiskFlag struct {
	Type        FlagType `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Evidence    string   `json:"evidence,omitempty"`
}

// BotRiskReport aggregates all integrity flags for a submission.
type BotRiskReport struct {
	SubmissionID string     `json:"submission_id"`
	Flags        []RiskFlag `json:"flags"`
	RiskScore    int        `json:"risk_score"`
	IsBot        bool       `json:"is_bot"`
	Confidence   int        `json:"confidence"`
	AssessedAt   time.Time  `json:"assessed_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// BenchmarkComparison: output of the benchmark ranker
// ─────────────────────────────────────────────────────────────────────────────

// SkillStatus is the candidate's standing on one skill versus the cohort.
type SkillStatus string

const (
	SkillAboveAverage SkillStatus = "above_average"
	SkillAverage      SkillStatus = "average"
	SkillBelowAverage SkillStatus = "below_average"
)

// OverallStatus is the candidate's overall standing versus the cohort.
type OverallStatus string

const (
	OverallTopPerformer OverallStatus = "top_performer"
	OverallAboveAverage OverallStatus = "above_average"
	OverallAverage      OverallStatus = "average"
	OverallBelowAverage OverallStatus = "below_average"
)

// CohortStats are the distribution statistics of the scored cohort.
type CohortStats struct {
	Average      float64 `json:"average"`
	Median       float64 `json:"median"`
	Top10Percent float64 `json:"top_10_percent"`
	Top25Percent float64 `json:"top_25_percent"`
}

// SkillComparison compares one candidate skill against the cohort.
type SkillComparison struct {
	Skill               string      `json:"skill"`
	CandidatePercentage float64     `json:"candidate_percentage"`
	CohortAverage       float64     `json:"cohort_average"`
	Percentile          int         `json:"percentile"`
	Status              SkillStatus `json:"status"`
}

// BenchmarkComparison ranks a submission against its scored cohort.
type BenchmarkComparison struct {
	SubmissionID        string            `json:"submission_id"`
	CandidateScore      float64           `json:"candidate_score"`
	CandidatePercentage float64           `json:"candidate_percentage"`
	CohortSize          int               `json:"cohort_size"`
	Cohort              CohortStats       `json:"cohort"`
	Percentile          int               `json:"percentile"`
	Skills              []SkillComparison `json:"skills,omitempty"`
	OverallStatus       OverallStatus     `json:"overall_status"`
	Recommendations     []string          `json:"recommendations,omitempty"`
	ComparedAt          time.Time         `json:"compared_at"`
}
