package integrity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/TalentScreen/internal/config"
	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
)

func testIntegrityConfig() config.IntegrityConfig {
	return config.IntegrityConfig{
		DuplicateEmailMedium:    config.DefaultDuplicateEmailMedium,
		DuplicateEmailHigh:      config.DefaultDuplicateEmailHigh,
		FastCompletionQuestions: config.DefaultFastCompletionQuestions,
		FastCompletionWindow:    config.DefaultFastCompletionWindow,
		RapidAnswerFraction:     config.DefaultRapidAnswerFraction,
		RapidAnswerRatio:        config.DefaultRapidAnswerRatio,
		MinMCQForPattern:        config.DefaultMinMCQForPattern,
		SkewedOptionRatio:       config.DefaultSkewedOptionRatio,
		AlternatingRatio:        config.DefaultAlternatingRatio,
		CollisionMinPeers:       config.DefaultCollisionMinPeers,
		CollisionMinQuestions:   config.DefaultCollisionMinQuestions,
		WeightHigh:              config.DefaultWeightHigh,
		WeightMedium:            config.DefaultWeightMedium,
		WeightLow:               config.DefaultWeightLow,
		BotRiskThreshold:        config.DefaultBotRiskThreshold,
		ConfidencePerFlag:       config.DefaultConfidencePerFlag,
	}
}

func newTestHeuristics() Heuristics {
	return NewHeuristics(Deps{Config: testIntegrityConfig()})
}

func mcqBank(n int) []assessment.Question {
	questions := make([]assessment.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, assessment.Question{
			ID:    fmt.Sprintf("q%d", i+1),
			Type:  assessment.TypeMCQ,
			Marks: 1,
			MCQ:   &assessment.MCQContent{Options: []string{"a", "b", "c", "d"}, CorrectOption: 0},
		})
	}
	return questions
}

func mcqAnswers(selections []int) map[string]submission.Answer {
	answers := make(map[string]submission.Answer, len(selections))
	for i, sel := range selections {
		opt := sel
		id := fmt.Sprintf("q%d", i+1)
		answers[id] = submission.Answer{QuestionID: id, SelectedOption: &opt}
	}
	return answers
}

func baseSubmission(id string) *submission.Submission {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &submission.Submission{
		ID:           id,
		AssessmentID: "asmt-1",
		Candidate:    submission.Candidate{Name: "Candidate " + id, Email: id + "@example.com"},
		Answers:      map[string]submission.Answer{},
		StartedAt:    started,
		SubmittedAt:  started.Add(30 * time.Minute),
	}
}

func flagsOfType(report *submission.BotRiskReport, ft submission.FlagType) []submission.RiskFlag {
	var out []submission.RiskFlag
	for _, f := range report.Flags {
		if f.Type == ft {
			out = append(out, f)
		}
	}
	return out
}

func TestAssess_FastCompletionRaisesHighTimingFlag(t *testing.T) {
	t.Parallel()

	// 15 questions answered in 3 minutes.
	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2})
	sub.SubmittedAt = sub.StartedAt.Add(3 * time.Minute)

	report := newTestHeuristics().Assess(context.Background(), sub, nil, mcqBank(15))

	timing := flagsOfType(report, submission.FlagSuspiciousTiming)
	require.NotEmpty(t, timing)
	assert.Equal(t, submission.SeverityHigh, timing[0].Severity)
	assert.GreaterOrEqual(t, report.RiskScore, 30)
	assert.True(t, report.IsBot)
}

func TestAssess_NormalPaceNoTimingFlag(t *testing.T) {
	t.Parallel()

	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{0, 1, 2, 3, 0, 1, 2, 3, 0, 1})
	sub.SubmittedAt = sub.StartedAt.Add(40 * time.Minute)

	report := newTestHeuristics().Assess(context.Background(), sub, nil, mcqBank(10))
	assert.Empty(t, flagsOfType(report, submission.FlagSuspiciousTiming))
}

func TestAssess_RapidAnswerClusterRaisesMediumFlag(t *testing.T) {
	t.Parallel()

	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{0, 1, 2})
	// Two long answers pull the mean up; four answers sit far below it.
	sub.AntiCheat.QuestionTimes = map[string]int{
		"q1": 300, "q2": 300, "q3": 2, "q4": 3, "q5": 2, "q6": 3,
	}

	report := newTestHeuristics().Assess(context.Background(), sub, nil, mcqBank(3))

	timing := flagsOfType(report, submission.FlagSuspiciousTiming)
	require.Len(t, timing, 1)
	assert.Equal(t, submission.SeverityMedium, timing[0].Severity)
}

func TestAssess_RepeatedApplicationSeverities(t *testing.T) {
	t.Parallel()

	h := newTestHeuristics()
	sub := baseSubmission("sub-a")
	sub.Candidate.Email = "Dup@Example.com"

	dup := func(id string) *submission.Submission {
		peer := baseSubmission(id)
		peer.Candidate.Email = "dup@example.com"
		return peer
	}

	one := h.Assess(context.Background(), sub, []*submission.Submission{dup("p1")}, nil)
	flags := flagsOfType(one, submission.FlagRepeatedApplication)
	require.Len(t, flags, 1)
	assert.Equal(t, submission.SeverityMedium, flags[0].Severity)

	three := h.Assess(context.Background(), sub,
		[]*submission.Submission{dup("p1"), dup("p2"), dup("p3")}, nil)
	flags = flagsOfType(three, submission.FlagRepeatedApplication)
	require.Len(t, flags, 1)
	assert.Equal(t, submission.SeverityHigh, flags[0].Severity)
	assert.True(t, three.IsBot)
}

func TestAssess_RepeatedApplicationIgnoresSelfAndOtherAssessments(t *testing.T) {
	t.Parallel()

	sub := baseSubmission("sub-a")
	self := baseSubmission("sub-a")
	foreign := baseSubmission("sub-b")
	foreign.AssessmentID = "asmt-2"
	foreign.Candidate.Email = sub.Candidate.Email

	report := newTestHeuristics().Assess(context.Background(), sub,
		[]*submission.Submission{self, foreign}, nil)
	assert.Empty(t, flagsOfType(report, submission.FlagRepeatedApplication))
}

func TestAssess_SkewedOptionDistribution(t *testing.T) {
	t.Parallel()

	// 7 of 8 selections on option 2.
	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{2, 2, 2, 2, 2, 2, 2, 0})

	report := newTestHeuristics().Assess(context.Background(), sub, nil, mcqBank(8))

	flags := flagsOfType(report, submission.FlagGuessPattern)
	require.Len(t, flags, 1)
	assert.Equal(t, submission.SeverityMedium, flags[0].Severity)
}

func TestAssess_AlternatingPattern(t *testing.T) {
	t.Parallel()

	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{0, 1, 0, 1, 0, 1, 0, 1})

	report := newTestHeuristics().Assess(context.Background(), sub, nil, mcqBank(8))

	flags := flagsOfType(report, submission.FlagGuessPattern)
	require.Len(t, flags, 1)
	assert.Equal(t, submission.SeverityLow, flags[0].Severity)
}

func TestAssess_GuessPatternNeedsMinimumMCQs(t *testing.T) {
	t.Parallel()

	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{2, 2, 2, 2})

	report := newTestHeuristics().Assess(context.Background(), sub, nil, mcqBank(4))
	assert.Empty(t, flagsOfType(report, submission.FlagGuessPattern))
}

func TestAssess_CrossCandidateCollision(t *testing.T) {
	t.Parallel()

	// Candidate and 5 peers select identical options on 3 questions.
	selections := []int{1, 2, 3}
	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers(selections)

	cohort := make([]*submission.Submission, 0, 5)
	for i := 0; i < 5; i++ {
		peer := baseSubmission(fmt.Sprintf("peer-%d", i))
		peer.Answers = mcqAnswers(selections)
		cohort = append(cohort, peer)
	}

	report := newTestHeuristics().Assess(context.Background(), sub, cohort, mcqBank(3))

	flags := flagsOfType(report, submission.FlagIdenticalResponses)
	require.Len(t, flags, 1)
	assert.Equal(t, submission.SeverityHigh, flags[0].Severity)
	assert.True(t, report.IsBot)
}

func TestAssess_CollisionBelowQuestionThresholdIgnored(t *testing.T) {
	t.Parallel()

	// Only 2 colliding questions, threshold is 3.
	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{1, 2})

	cohort := make([]*submission.Submission, 0, 5)
	for i := 0; i < 5; i++ {
		peer := baseSubmission(fmt.Sprintf("peer-%d", i))
		peer.Answers = mcqAnswers([]int{1, 2})
		cohort = append(cohort, peer)
	}

	report := newTestHeuristics().Assess(context.Background(), sub, cohort, mcqBank(2))
	assert.Empty(t, flagsOfType(report, submission.FlagIdenticalResponses))
}

func TestAssess_CleanSubmissionZeroRisk(t *testing.T) {
	t.Parallel()

	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{0, 2, 1, 3, 2})

	report := newTestHeuristics().Assess(context.Background(), sub, nil, mcqBank(5))
	assert.Empty(t, report.Flags)
	assert.Zero(t, report.RiskScore)
	assert.False(t, report.IsBot)
	assert.Zero(t, report.Confidence)
}

func TestAssess_AggregationCapsAndConfidence(t *testing.T) {
	t.Parallel()

	// Trip every detector at once: fast completion, rapid answers, skew,
	// collisions, and a triple-duplicate email.
	sub := baseSubmission("sub-a")
	sub.Candidate.Email = "dup@example.com"
	sub.Answers = mcqAnswers([]int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2})
	sub.SubmittedAt = sub.StartedAt.Add(2 * time.Minute)
	sub.AntiCheat.QuestionTimes = map[string]int{
		"q1": 100, "q2": 100, "q3": 1, "q4": 1, "q5": 1, "q6": 1, "q7": 1,
	}

	cohort := make([]*submission.Submission, 0, 5)
	for i := 0; i < 5; i++ {
		peer := baseSubmission(fmt.Sprintf("peer-%d", i))
		peer.Candidate.Email = "dup@example.com"
		peer.Answers = mcqAnswers([]int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2})
		cohort = append(cohort, peer)
	}

	report := newTestHeuristics().Assess(context.Background(), sub, cohort, mcqBank(12))
	assert.Equal(t, 100, report.RiskScore)
	assert.Equal(t, 100, report.Confidence)
	assert.True(t, report.IsBot)
}

func TestAssess_Idempotent(t *testing.T) {
	t.Parallel()

	sub := baseSubmission("sub-a")
	sub.Answers = mcqAnswers([]int{0, 1, 0, 1, 0, 1, 0})
	sub.SubmittedAt = sub.StartedAt.Add(2 * time.Minute)
	sub.Answers["q8"] = submission.Answer{QuestionID: "q8", Text: "short"}
	sub.Answers["q9"] = submission.Answer{QuestionID: "q9", Text: "short"}
	sub.Answers["q10"] = submission.Answer{QuestionID: "q10", Text: "short"}

	h := newTestHeuristics()
	first := h.Assess(context.Background(), sub, nil, mcqBank(7))
	second := h.Assess(context.Background(), sub, nil, mcqBank(7))

	assert.Equal(t, first.Flags, second.Flags)
	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.IsBot, second.IsBot)
	assert.Equal(t, first.Confidence, second.Confidence)
}
