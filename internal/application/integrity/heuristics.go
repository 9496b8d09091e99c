// Package integrity implements rule-based bot and fraud detection over a
// submission and its cohort.  Each detector inspects one independent signal
// and emits zero or more flags; the aggregate risk score is a pure function
// of the submission, the question bank, and the cohort snapshot.
package integrity

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/TalentScreen/internal/config"
	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
)

// Heuristics assesses a submission for automated or fraudulent behavior.
type Heuristics interface {
	// Assess runs every signal detector and combines the resulting flags
	// into a BotRiskReport.  Re-running on an unchanged submission and
	// cohort yields an identical report apart from the assessment time.
	Assess(ctx context.Context, sub *submission.Submission, cohort []*submission.Submission, questions []assessment.Question) *submission.BotRiskReport
}

// Deps holds the heuristics' injected dependencies.
type Deps struct {
	Config config.IntegrityConfig
	Logger logging.Logger
}

type heuristics struct {
	cfg    config.IntegrityConfig
	logger logging.Logger
}

// NewHeuristics creates the integrity Heuristics.
func NewHeuristics(deps Deps) Heuristics {
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &heuristics{cfg: deps.Config, logger: log.Named("integrity")}
}

func (h *heuristics) Assess(ctx context.Context, sub *submission.Submission, cohort []*submission.Submission, questions []assessment.Question) *submission.BotRiskReport {
	peers := samePeers(sub, cohort)

	var flags []submission.RiskFlag
	flags = append(flags, h.detectRepeatedApplication(sub, peers)...)
	flags = append(flags, h.detectSuspiciousTiming(sub)...)
	flags = append(flags, h.detectGuessPattern(sub, questions)...)
	flags = append(flags, h.detectIdenticalResponses(sub, peers, questions)...)

	report := &submission.BotRiskReport{
		SubmissionID: sub.ID,
		Flags:        flags,
		AssessedAt:   time.Now().UTC(),
	}

	anyHigh := false
	for _, f := range flags {
		report.RiskScore += h.severityWeight(f.Severity)
		if f.Severity == submission.SeverityHigh {
			anyHigh = true
		}
	}
	if report.RiskScore > 100 {
		report.RiskScore = 100
	}
	report.IsBot = report.RiskScore >= h.cfg.BotRiskThreshold || anyHigh
	report.Confidence = report.RiskScore + h.cfg.ConfidencePerFlag*len(flags)
	if report.Confidence > 100 {
		report.Confidence = 100
	}

	if report.IsBot {
		h.logger.Warn("submission classified as likely bot",
			logging.String("submission_id", sub.ID),
			logging.Int("risk_score", report.RiskScore),
			logging.Int("flags", len(flags)))
	}
	return report
}

func (h *heuristics) severityWeight(s submission.Severity) int {
	switch s {
	case submission.SeverityHigh:
		return h.cfg.WeightHigh
	case submission.SeverityMedium:
		return h.cfg.WeightMedium
	default:
		return h.cfg.WeightLow
	}
}

// detectRepeatedApplication counts cohort peers sharing the candidate's
// normalized email.
func (h *heuristics) detectRepeatedApplication(sub *submission.Submission, peers []*submission.Submission) []submission.RiskFlag {
	email := sub.Candidate.NormalizedEmail()
	if email == "" {
		return nil
	}

	prior := 0
	for _, peer := range peers {
		if peer.Candidate.NormalizedEmail() == email {
			prior++
		}
	}
	if prior < h.cfg.DuplicateEmailMedium {
		return nil
	}

	severity := submission.SeverityMedium
	if prior >= h.cfg.DuplicateEmailHigh {
		severity = submission.SeverityHigh
	}
	return []submission.RiskFlag{{
		Type:        submission.FlagRepeatedApplication,
		Severity:    severity,
		Description: "candidate email appears on multiple submissions for this assessment",
		Evidence:    fmt.Sprintf("%d prior submission(s) from %s", prior, email),
	}}
}

// detectSuspiciousTiming flags implausibly fast overall completion and a
// cluster of implausibly fast individual answers.
func (h *heuristics) detectSuspiciousTiming(sub *submission.Submission) []submission.RiskFlag {
	var flags []submission.RiskFlag

	answered := len(sub.Answers)
	total := sub.CompletionTime()
	if total > 0 && answered >= h.cfg.FastCompletionQuestions && total < h.cfg.FastCompletionWindow {
		flags = append(flags, submission.RiskFlag{
			Type:        submission.FlagSuspiciousTiming,
			Severity:    submission.SeverityHigh,
			Description: "assessment completed implausibly fast",
			Evidence:    fmt.Sprintf("%d questions answered in %s", answered, total.Round(time.Second)),
		})
	}

	times := sub.AntiCheat.QuestionTimes
	if len(times) > 1 {
		sum := 0
		for _, t := range times {
			sum += t
		}
		mean := float64(sum) / float64(len(times))
		if mean > 0 {
			rapid := 0
			for _, t := range times {
				if float64(t) < h.cfg.RapidAnswerFraction*mean {
					rapid++
				}
			}
			if float64(rapid)/float64(len(times)) > h.cfg.RapidAnswerRatio {
				flags = append(flags, submission.RiskFlag{
					Type:        submission.FlagSuspiciousTiming,
					Severity:    submission.SeverityMedium,
					Description: "majority of answers given far faster than the candidate's own pace",
					Evidence:    fmt.Sprintf("%d of %d answers below %.0f%% of mean time", rapid, len(times), h.cfg.RapidAnswerFraction*100),
				})
			}
		}
	}
	return flags
}

// detectGuessPattern inspects the distribution of selected MCQ options.
func (h *heuristics) detectGuessPattern(sub *submission.Submission, questions []assessment.Question) []submission.RiskFlag {
	selections := mcqSelections(sub, questions)
	if len(selections) < h.cfg.MinMCQForPattern {
		return nil
	}

	var flags []submission.RiskFlag

	counts := map[int]int{}
	for _, opt := range selections {
		counts[opt]++
	}
	for opt, n := range counts {
		if float64(n) > h.cfg.SkewedOptionRatio*float64(len(selections)) {
			flags = append(flags, submission.RiskFlag{
				Type:        submission.FlagGuessPattern,
				Severity:    submission.SeverityMedium,
				Description: "skewed option distribution across multiple-choice answers",
				Evidence:    fmt.Sprintf("option %d selected %d of %d times", opt, n, len(selections)),
			})
			break
		}
	}

	alternating := 0
	for i := 1; i < len(selections); i++ {
		diff := selections[i] - selections[i-1]
		if diff == 1 || diff == -1 {
			alternating++
		}
	}
	if pairs := len(selections) - 1; pairs > 0 && float64(alternating)/float64(pairs) >= h.cfg.AlternatingRatio {
		flags = append(flags, submission.RiskFlag{
			Type:        submission.FlagGuessPattern,
			Severity:    submission.SeverityLow,
			Description: "alternating option pattern across multiple-choice answers",
			Evidence:    fmt.Sprintf("%d of %d consecutive pairs alternate by one index", alternating, pairs),
		})
	}
	return flags
}

// detectIdenticalResponses looks for cross-candidate MCQ collisions: many
// peers selecting the exact same option on several questions.
func (h *heuristics) detectIdenticalResponses(sub *submission.Submission, peers []*submission.Submission, questions []assessment.Question) []submission.RiskFlag {
	collisions := 0
	for _, q := range questions {
		if q.Type != assessment.TypeMCQ {
			continue
		}
		ans, ok := sub.AnswerFor(q.ID)
		if !ok || ans.SelectedOption == nil {
			continue
		}

		matching := 0
		for _, peer := range peers {
			pa, ok := peer.AnswerFor(q.ID)
			if ok && pa.SelectedOption != nil && *pa.SelectedOption == *ans.SelectedOption {
				matching++
			}
		}
		if matching >= h.cfg.CollisionMinPeers {
			collisions++
		}
	}
	if collisions < h.cfg.CollisionMinQuestions {
		return nil
	}
	return []submission.RiskFlag{{
		Type:        submission.FlagIdenticalResponses,
		Severity:    submission.SeverityHigh,
		Description: "answers collide with a large group of cohort peers",
		Evidence:    fmt.Sprintf("%d questions matched by %d or more peers", collisions, h.cfg.CollisionMinPeers),
	}}
}

// mcqSelections returns the candidate's selected option indices in question
// bank order, MCQ questions only.
func mcqSelections(sub *submission.Submission, questions []assessment.Question) []int {
	selections := make([]int, 0, len(questions))
	for _, q := range questions {
		if q.Type != assessment.TypeMCQ {
			continue
		}
		if a, ok := sub.AnswerFor(q.ID); ok && a.SelectedOption != nil {
			selections = append(selections, *a.SelectedOption)
		}
	}
	return selections
}

// samePeers filters the cohort to same-assessment submissions excluding the
// candidate's own.
func samePeers(sub *submission.Submission, cohort []*submission.Submission) []*submission.Submission {
	peers := make([]*submission.Submission, 0, len(cohort))
	for _, peer := range cohort {
		if peer == nil || peer.ID == sub.ID || peer.AssessmentID != sub.AssessmentID {
			continue
		}
		peers = append(peers, peer)
	}
	return peers
}
