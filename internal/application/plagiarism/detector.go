// Package plagiarism implements pairwise text and code similarity of a
// submission against its cohort.  Comparison is restricted to peers of the
// same assessment and question, never the submission itself, and every
// similarity number is a pure function of the compared contents.
package plagiarism

import (
	"context"
	"sort"
	"strings"

	"github.com/turtacn/TalentScreen/internal/config"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
)

// Blend weights.  Text similarity favours word overlap; code similarity
// splits evenly between token overlap and normalized character similarity.
const (
	textWordWeight  = 0.60
	textCharWeight  = 0.40
	codeTokenWeight = 0.50
	codeCharWeight  = 0.50
)

// Detector compares one submission's answers against the cohort.
type Detector interface {
	// CompareText scores a free-text answer against all cohort peers for
	// the same question.  Content below the configured minimum length is
	// skipped outright and yields an unflagged zero result.
	CompareText(ctx context.Context, sub *submission.Submission, questionID string, cohort []*submission.Submission) *submission.SimilarityResult

	// CompareCode is CompareText for code answers, with normalization
	// that ignores comments, whitespace, quote style, and literals.
	CompareCode(ctx context.Context, sub *submission.Submission, questionID string, cohort []*submission.Submission) *submission.SimilarityResult
}

// Deps holds the detector's injected dependencies.
type Deps struct {
	Config config.SimilarityConfig
	Logger logging.Logger
}

type detector struct {
	cfg    config.SimilarityConfig
	logger logging.Logger
}

// NewDetector creates a similarity Detector.
func NewDetector(deps Deps) Detector {
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &detector{cfg: deps.Config, logger: log.Named("plagiarism")}
}

func (d *detector) CompareText(ctx context.Context, sub *submission.Submission, questionID string, cohort []*submission.Submission) *submission.SimilarityResult {
	content := func(s *submission.Submission) string {
		if a, ok := s.AnswerFor(questionID); ok {
			return strings.TrimSpace(a.Text)
		}
		return ""
	}
	return d.compare(ctx, sub, questionID, cohort, comparison{
		content:   content,
		minLength: d.cfg.MinTextLength,
		threshold: d.cfg.TextThreshold,
		similarity: func(a, b string) float64 {
			wordSim := jaccard(wordSet(a), wordSet(b))
			charSim := charSimilarity(strings.ToLower(a), strings.ToLower(b))
			return textWordWeight*wordSim + textCharWeight*charSim
		},
	})
}

func (d *detector) CompareCode(ctx context.Context, sub *submission.Submission, questionID string, cohort []*submission.Submission) *submission.SimilarityResult {
	content := func(s *submission.Submission) string {
		if a, ok := s.AnswerFor(questionID); ok {
			return strings.TrimSpace(a.Code)
		}
		return ""
	}
	return d.compare(ctx, sub, questionID, cohort, comparison{
		content:   content,
		minLength: d.cfg.MinCodeLength,
		threshold: d.cfg.CodeThreshold,
		normalize: normalizeCode,
		similarity: func(a, b string) float64 {
			tokenSim := jaccard(tokenSet(a), tokenSet(b))
			charSim := charSimilarity(a, b)
			return codeTokenWeight*tokenSim + codeCharWeight*charSim
		},
	})
}

// comparison parameterises the shared cohort walk for text and code.
// similarity receives normalized content when normalize is set.
type comparison struct {
	content    func(*submission.Submission) string
	normalize  func(string) string
	similarity func(a, b string) float64
	minLength  int
	threshold  float64
}

func (d *detector) compare(ctx context.Context, sub *submission.Submission, questionID string, cohort []*submission.Submission, cmp comparison) *submission.SimilarityResult {
	result := &submission.SimilarityResult{
		SubmissionID: sub.ID,
		QuestionID:   questionID,
	}

	own := cmp.content(sub)
	if len(own) < cmp.minLength {
		return result
	}
	if cmp.normalize != nil {
		own = cmp.normalize(own)
	}
	ownHash := contentHash(own)

	peers := d.eligiblePeers(sub, cohort)

	var matches []submission.PeerMatch
	for _, peer := range peers {
		if ctx.Err() != nil {
			break
		}

		peerContent := cmp.content(peer)
		if len(peerContent) < cmp.minLength {
			continue
		}
		if cmp.normalize != nil {
			peerContent = cmp.normalize(peerContent)
		}

		// Exact duplicates short-circuit the quadratic blend.
		var similarity float64
		if contentHash(peerContent) == ownHash {
			similarity = 100
		} else {
			similarity = cmp.similarity(own, peerContent)
		}
		if similarity <= 0 {
			continue
		}

		matches = append(matches, submission.PeerMatch{
			SubmissionID:   peer.ID,
			CandidateName:  peer.Candidate.Name,
			CandidateEmail: peer.Candidate.Email,
			Similarity:     similarity,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	maxMatches := d.cfg.MaxMatches
	if maxMatches <= 0 {
		maxMatches = config.DefaultMaxMatches
	}
	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}

	result.TopMatches = matches
	if len(matches) > 0 {
		result.SimilarityScore = matches[0].Similarity
		result.Flagged = result.SimilarityScore >= cmp.threshold
	}

	if result.Flagged {
		d.logger.Info("similarity flag raised",
			logging.String("submission_id", sub.ID),
			logging.String("question_id", questionID),
			logging.Float64("similarity", result.SimilarityScore))
	}
	return result
}

// eligiblePeers filters the cohort to same-assessment peers excluding the
// submission itself, bounded to the most recent MaxCohort submissions when
// the bound is configured.
func (d *detector) eligiblePeers(sub *submission.Submission, cohort []*submission.Submission) []*submission.Submission {
	peers := make([]*submission.Submission, 0, len(cohort))
	for _, peer := range cohort {
		if peer == nil || peer.ID == sub.ID || peer.AssessmentID != sub.AssessmentID {
			continue
		}
		peers = append(peers, peer)
	}

	if d.cfg.MaxCohort > 0 && len(peers) > d.cfg.MaxCohort {
		sort.SliceStable(peers, func(i, j int) bool {
			return peers[i].SubmittedAt.After(peers[j].SubmittedAt)
		})
		peers = peers[:d.cfg.MaxCohort]
	}
	return peers
}
