// Package scoring turns a submission's raw answers and the assessment's
// question bank into a per-question, per-section, per-skill score record.
// The heuristic path is the system's guaranteed terminal computation: a
// configured remote grader is attempted first, but any failure degrades
// transparently to the heuristic result; scoring never returns an error.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
)

// Subjective length tiers.  The top tier is deliberately capped below 100%:
// answer length is a crude proxy, never a perfect-knowledge signal.
const (
	subjectiveMinLength  = 10
	subjectiveShortLimit = 50
	subjectiveMidLimit   = 150

	subjectiveShortCredit = 0.30
	subjectiveMidCredit   = 0.60
	subjectiveLongCredit  = 0.80
)

// Coding fallbacks for answers without execution results.
const (
	codingMinLength           = 20
	codingParticipationCredit = 0.30
)

const feedbackNoAnswer = "No answer provided"

// Engine computes score records.  Implementations are pure: the record is
// a function of the submission and question bank alone, with no state
// carried between evaluations.
type Engine interface {
	// Evaluate scores one submission against its question bank.  It never
	// fails; when the remote grader is unavailable or returns a malformed
	// payload the deterministic heuristic path supplies the result.  The
	// assessment supplies grading context for the remote path and may be
	// nil.
	Evaluate(ctx context.Context, asmt *assessment.Assessment, sub *submission.Submission, questions []assessment.Question) *submission.ScoreRecord
}

// Deps holds the engine's injected dependencies.
type Deps struct {
	// Grader is the optional richer remote grader; nil disables the
	// remote path entirely.
	Grader RemoteGrader

	Logger logging.Logger
}

type engine struct {
	grader RemoteGrader
	logger logging.Logger
}

// NewEngine creates a scoring Engine.
func NewEngine(deps Deps) Engine {
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &engine{
		grader: deps.Grader,
		logger: log.Named("scoring"),
	}
}

func (e *engine) Evaluate(ctx context.Context, asmt *assessment.Assessment, sub *submission.Submission, questions []assessment.Question) *submission.ScoreRecord {
	if rec := e.tryRemote(ctx, asmt, sub, questions); rec != nil {
		return rec
	}
	return e.evaluateHeuristic(sub, questions)
}

// tryRemote attempts the remote grader and returns nil whenever the
// heuristic path must take over.  This is the named fallback seam: a nil
// return here is an expected domain outcome, never an error.
func (e *engine) tryRemote(ctx context.Context, asmt *assessment.Assessment, sub *submission.Submission, questions []assessment.Question) *submission.ScoreRecord {
	if e.grader == nil {
		return nil
	}

	jobTitle := ""
	if asmt != nil {
		jobTitle = asmt.JobTitle
	}
	result, err := e.grader.Grade(ctx, &GradeRequest{
		JobTitle:      jobTitle,
		CandidateName: sub.Candidate.Name,
		Questions:     questions,
		Answers:       sub.Answers,
	})
	if err != nil {
		e.logger.Warn("remote grader failed, falling back to heuristic scoring",
			logging.String("submission_id", sub.ID), logging.Err(err))
		return nil
	}
	if !result.wellFormed() {
		e.logger.Warn("remote grader returned malformed payload, falling back to heuristic scoring",
			logging.String("submission_id", sub.ID))
		return nil
	}

	rec := result.toRecord(sub.ID)
	e.logger.Info("submission scored by remote grader",
		logging.String("submission_id", sub.ID),
		logging.Float64("percentage", rec.Percentage))
	return rec
}

// evaluateHeuristic is the deterministic scoring path.
func (e *engine) evaluateHeuristic(sub *submission.Submission, questions []assessment.Question) *submission.ScoreRecord {
	rec := &submission.ScoreRecord{
		SubmissionID: sub.ID,
		Sections: map[assessment.QuestionType]submission.SectionScore{
			assessment.TypeMCQ:        {},
			assessment.TypeSubjective: {},
			assessment.TypeCoding:     {},
		},
		Skills:      make(map[string]submission.SkillScore),
		EvaluatedAt: time.Now().UTC(),
	}

	for i := range questions {
		q := &questions[i]

		section := rec.Sections[q.Type]
		section.Total += q.Marks
		rec.TotalPossible += q.Marks

		var (
			score    float64
			feedback string
		)

		answer, answered := sub.AnswerFor(q.ID)
		if !answered {
			feedback = feedbackNoAnswer
		} else {
			switch q.Type {
			case assessment.TypeMCQ:
				score, feedback = scoreMCQ(q, answer)
				if score > 0 {
					section.Count++
				}
			case assessment.TypeSubjective:
				score, feedback = scoreSubjective(q, answer)
				section.Count++
			case assessment.TypeCoding:
				var passed, total int
				score, passed, total, feedback = scoreCoding(q, answer)
				section.Count++
				section.TestsPassed += passed
				section.TestsTotal += total
			}
		}

		section.Score += score
		rec.Sections[q.Type] = section
		rec.TotalScore += score

		for _, tag := range q.SkillTags {
			skill := rec.Skills[tag]
			skill.Score += score
			skill.Total += q.Marks
			rec.Skills[tag] = skill
		}

		rec.Feedback = append(rec.Feedback, submission.AnswerFeedback{
			QuestionID: q.ID,
			Score:      score,
			MaxScore:   q.Marks,
			Feedback:   feedback,
		})
	}

	rec.Percentage = roundedPercentage(rec.TotalScore, rec.TotalPossible)
	for tag, skill := range rec.Skills {
		skill.Percentage = roundedPercentage(skill.Score, skill.Total)
		rec.Skills[tag] = skill
	}

	e.logger.Info("submission scored heuristically",
		logging.String("submission_id", sub.ID),
		logging.Float64("total_score", rec.TotalScore),
		logging.Float64("percentage", rec.Percentage))
	return rec
}

// scoreMCQ awards full marks on an exact option match and zero otherwise.
// A nil selection is an incorrect answer, not an error.
func scoreMCQ(q *assessment.Question, answer submission.Answer) (float64, string) {
	if q.MCQ == nil || answer.SelectedOption == nil {
		return 0, "Incorrect"
	}
	if *answer.SelectedOption == q.MCQ.CorrectOption {
		return q.Marks, "Correct"
	}
	return 0, "Incorrect"
}

// scoreSubjective applies the length-tiered fallback scoring.
func scoreSubjective(q *assessment.Question, answer submission.Answer) (float64, string) {
	length := len(strings.TrimSpace(answer.Text))
	switch {
	case length < subjectiveMinLength:
		return 0, "Answer too short to evaluate"
	case length < subjectiveShortLimit:
		return math.Round(q.Marks * subjectiveShortCredit), "Brief answer; partial credit"
	case length < subjectiveMidLimit:
		return math.Round(q.Marks * subjectiveMidCredit), "Adequate answer"
	default:
		return math.Round(q.Marks * subjectiveLongCredit), "Detailed answer"
	}
}

// scoreCoding scores by the pre-executed pass ratio when results are
// present, otherwise awards participation credit for non-trivial code.
func scoreCoding(q *assessment.Question, answer submission.Answer) (score float64, passed, total int, feedback string) {
	code := strings.TrimSpace(answer.Code)
	if len(code) < codingMinLength {
		return 0, 0, 0, "No meaningful code submitted"
	}

	if len(answer.ExecutionResults) == 0 {
		return math.Round(q.Marks * codingParticipationCredit), 0, 0,
			"Code submitted but not executed; participation credit awarded"
	}

	total = len(answer.ExecutionResults)
	for _, r := range answer.ExecutionResults {
		if r.Passed {
			passed++
		}
	}
	score = math.Round(q.Marks * float64(passed) / float64(total))
	feedback = formatTestFeedback(passed, total)
	return score, passed, total, feedback
}

func formatTestFeedback(passed, total int) string {
	switch {
	case passed == total:
		return "All test cases passed"
	case passed == 0:
		return "No test cases passed"
	default:
		return fmt.Sprintf("%d of %d test cases passed", passed, total)
	}
}

// roundedPercentage computes round(100*score/total), guarding the empty
// bank (total is zero) as zero.
func roundedPercentage(score, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(score / total * 100)
}
