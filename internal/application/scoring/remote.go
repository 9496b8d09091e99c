package scoring

import (
	"context"
	"time"

	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
)

// RemoteGrader is the optional richer grader boundary.  It is advisory:
// callers must treat any error or malformed result as a signal to fall
// back to heuristic scoring, never as a pipeline failure.
type RemoteGrader interface {
	Grade(ctx context.Context, req *GradeRequest) (*GradeResult, error)
}

// GradeRequest carries everything the remote grader needs.
type GradeRequest struct {
	JobTitle      string                       `json:"job_title"`
	CandidateName string                       `json:"candidate_name"`
	Questions     []assessment.Question        `json:"questions"`
	Answers       map[string]submission.Answer `json:"answers"`
}

// SkillAnalysis is the per-skill portion of a remote grading response.
type SkillAnalysis struct {
	Skill      string  `json:"skill"`
	Score      float64 `json:"score"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// EvaluatedAnswer is the per-question portion of a remote grading response.
type EvaluatedAnswer struct {
	QuestionID string  `json:"question_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Feedback   string  `json:"feedback,omitempty"`
}

// GradeResult is the remote grader's verdict.  When accepted it supersedes
// the heuristic scores for all questions and sections wholesale.
type GradeResult struct {
	TotalScore    float64           `json:"total_score"`
	TotalPossible float64           `json:"total_possible"`
	Percentage    float64           `json:"percentage"`
	SkillAnalysis []SkillAnalysis   `json:"skill_analysis"`
	Answers       []EvaluatedAnswer `json:"evaluated_answers"`

	// Sections is optional; when absent the section breakdown is rebuilt
	// from the evaluated answers by toRecord.
	Sections map[assessment.QuestionType]submission.SectionScore `json:"sections,omitempty"`
}

// wellFormed rejects payloads the downstream consumers cannot trust:
// non-positive possible totals, scores outside [0, possible], or an empty
// answer list.
func (r *GradeResult) wellFormed() bool {
	if r == nil {
		return false
	}
	if r.TotalPossible <= 0 {
		return false
	}
	if r.TotalScore < 0 || r.TotalScore > r.TotalPossible {
		return false
	}
	if len(r.Answers) == 0 {
		return false
	}
	for _, a := range r.Answers {
		if a.QuestionID == "" || a.Score < 0 || a.MaxScore <= 0 || a.Score > a.MaxScore {
			return false
		}
	}
	return true
}

// toRecord converts an accepted remote result into the score record shape
// downstream consumers read, so swapping the grader in never changes them.
func (r *GradeResult) toRecord(submissionID string) *submission.ScoreRecord {
	rec := &submission.ScoreRecord{
		SubmissionID:  submissionID,
		TotalScore:    r.TotalScore,
		TotalPossible: r.TotalPossible,
		Percentage:    r.Percentage,
		Sections:      r.Sections,
		Skills:        make(map[string]submission.SkillScore, len(r.SkillAnalysis)),
		RemoteGraded:  true,
		EvaluatedAt:   time.Now().UTC(),
	}
	if rec.Percentage == 0 && r.TotalScore > 0 {
		rec.Percentage = roundedPercentage(r.TotalScore, r.TotalPossible)
	}
	if rec.Sections == nil {
		rec.Sections = map[assessment.QuestionType]submission.SectionScore{}
	}

	for _, s := range r.SkillAnalysis {
		pct := s.Percentage
		if pct == 0 && s.Total > 0 {
			pct = roundedPercentage(s.Score, s.Total)
		}
		rec.Skills[s.Skill] = submission.SkillScore{Score: s.Score, Total: s.Total, Percentage: pct}
	}
	for _, a := range r.Answers {
		rec.Feedback = append(rec.Feedback, submission.AnswerFeedback{
			QuestionID: a.QuestionID,
			Score:      a.Score,
			MaxScore:   a.MaxScore,
			Feedback:   a.Feedback,
		})
	}
	return rec
}
