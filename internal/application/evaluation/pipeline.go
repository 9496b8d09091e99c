// Package evaluation orchestrates the full post-submission pipeline:
// scoring first, similarity and integrity in parallel, benchmark last.
package evaluation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/TalentScreen/internal/application/benchmark"
	"github.com/turtacn/TalentScreen/internal/application/integrity"
	"github.com/turtacn/TalentScreen/internal/application/plagiarism"
	"github.com/turtacn/TalentScreen/internal/application/scoring"
	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	redisinfra "github.com/turtacn/TalentScreen/internal/infrastructure/database/redis"
	"github.com/turtacn/TalentScreen/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

// Result carries every artifact of one evaluation run.
type Result struct {
	SubmissionID string                          `json:"submission_id"`
	Score        *submission.ScoreRecord         `json:"score"`
	Similarity   []submission.SimilarityResult   `json:"similarity,omitempty"`
	Risk         *submission.BotRiskReport       `json:"risk"`
	Benchmark    *submission.BenchmarkComparison `json:"benchmark"`
	Status       submission.Status               `json:"status"`
}

// Service runs evaluations and serves their persisted results.
type Service interface {
	// EvaluateSubmission runs the full pipeline for one finalized
	// submission.  At most one evaluation per submission runs at a time;
	// a concurrent run yields ErrCodeEvaluationInFlight.
	EvaluateSubmission(ctx context.Context, submissionID string) (*Result, error)

	// GetReport returns the submission with all persisted evaluation
	// annotations.
	GetReport(ctx context.Context, submissionID string) (*submission.Submission, error)
}

// EventPublisher is the event boundary.  Failures are advisory; the
// pipeline logs and continues.
type EventPublisher interface {
	PublishSubmissionEvaluated(ctx context.Context, event *kafka.SubmissionEvaluatedEvent) error
	PublishIntegrityFlagged(ctx context.Context, event *kafka.IntegrityFlaggedEvent) error
}

// Deps holds the pipeline's injected dependencies.  Locks is required;
// Cache, Events, and Metrics are optional.
type Deps struct {
	Submissions submission.Repository
	Assessments assessment.Repository

	Scoring    scoring.Engine
	Plagiarism plagiarism.Detector
	Integrity  integrity.Heuristics
	Benchmark  benchmark.Ranker

	Locks   redisinfra.LockFactory
	Cache   redisinfra.Cache
	Events  EventPublisher
	Metrics *prometheus.Metrics
	Logger  logging.Logger

	LockTTL     time.Duration
	SnapshotTTL time.Duration
}

type service struct {
	deps   Deps
	logger logging.Logger
}

// NewService creates the evaluation Service.
func NewService(deps Deps) Service {
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	if deps.LockTTL == 0 {
		deps.LockTTL = 2 * time.Minute
	}
	if deps.SnapshotTTL == 0 {
		deps.SnapshotTTL = 5 * time.Minute
	}
	return &service{deps: deps, logger: log.Named("evaluation")}
}

func (s *service) GetReport(ctx context.Context, submissionID string) (*submission.Submission, error) {
	return s.deps.Submissions.GetByID(ctx, submissionID)
}

func (s *service) EvaluateSubmission(ctx context.Context, submissionID string) (*Result, error) {
	result, err := s.evaluate(ctx, submissionID)
	if s.deps.Metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.deps.Metrics.EvaluationsTotal.WithLabelValues(outcome).Inc()
	}
	return result, err
}

func (s *service) evaluate(ctx context.Context, submissionID string) (*Result, error) {
	unlock, err := s.acquireLock(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sub, err := s.deps.Submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	asmt, err := s.deps.Assessments.GetByID(ctx, sub.AssessmentID)
	if err != nil {
		return nil, err
	}
	questions, err := s.deps.Assessments.ListQuestions(ctx, sub.AssessmentID)
	if err != nil {
		return nil, err
	}

	// One consistent cohort snapshot for the entire run.
	cohort, err := s.loadCohort(ctx, sub.AssessmentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCohortFetchFailed, "cohort snapshot fetch failed")
	}

	// Stage 1: scoring.  Heuristic scoring cannot fail; only persistence
	// can.
	start := time.Now()
	record := s.deps.Scoring.Evaluate(ctx, asmt, sub, questions)
	s.observeStage("scoring", start)
	if err := s.deps.Submissions.SaveScore(ctx, submissionID, record); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeScorePersistFailed, "score persist failed")
	}
	sub.Score = record

	// Stage 2: similarity and integrity are order-free and run in
	// parallel over the same snapshot.
	var (
		similarity []submission.SimilarityResult
		risk       *submission.BotRiskReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		similarity = s.runSimilarity(gctx, sub, questions, cohort)
		s.observeStage("similarity", start)
		return s.deps.Submissions.SaveSimilarityResults(gctx, submissionID, similarity)
	})
	g.Go(func() error {
		start := time.Now()
		risk = s.deps.Integrity.Assess(gctx, sub, cohort, questions)
		s.observeStage("integrity", start)
		return s.deps.Submissions.SaveRiskReport(gctx, submissionID, risk)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sub.SimilarityChecks = similarity
	sub.RiskReport = risk

	// Stage 3: benchmark consumes the cohort's already-computed scores.
	start = time.Now()
	cmp := s.deps.Benchmark.Compare(ctx, sub, cohortScores(sub, cohort, record))
	s.observeStage("benchmark", start)
	if err := s.deps.Submissions.SaveBenchmark(ctx, submissionID, cmp); err != nil {
		return nil, err
	}
	sub.Benchmark = cmp

	status, err := s.transitionStatus(ctx, sub, asmt, record)
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx, sub.AssessmentID)
	s.recordOutcomeMetrics(similarity, risk)
	s.publishEvents(ctx, sub, record, cmp, risk, similarity, status)

	s.logger.Info("evaluation completed",
		logging.String("submission_id", submissionID),
		logging.Float64("percentage", record.Percentage),
		logging.Int("percentile", cmp.Percentile),
		logging.String("status", string(status)),
		logging.Bool("is_bot", risk.IsBot))

	return &Result{
		SubmissionID: submissionID,
		Score:        record,
		Similarity:   similarity,
		Risk:         risk,
		Benchmark:    cmp,
		Status:       status,
	}, nil
}

// acquireLock enforces at-most-one evaluation in flight per submission.
// When the lock backend itself fails the run proceeds unlocked; losing
// strictness beats refusing to evaluate.
func (s *service) acquireLock(ctx context.Context, submissionID string) (func(), error) {
	if s.deps.Locks == nil {
		return func() {}, nil
	}

	mutex := s.deps.Locks.NewMutex("evaluate:"+submissionID, s.deps.LockTTL)
	ok, err := mutex.TryLock(ctx)
	if err != nil {
		s.logger.Warn("evaluation lock unavailable, proceeding unlocked",
			logging.String("submission_id", submissionID), logging.Err(err))
		return func() {}, nil
	}
	if !ok {
		return nil, errors.Newf(errors.ErrCodeEvaluationInFlight,
			"evaluation already in flight for submission %s", submissionID)
	}
	return func() {
		if err := mutex.Unlock(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("evaluation lock release failed",
				logging.String("submission_id", submissionID), logging.Err(err))
		}
	}, nil
}

// loadCohort fetches the assessment's submissions, going through the
// snapshot cache when one is wired.
func (s *service) loadCohort(ctx context.Context, assessmentID string) ([]*submission.Submission, error) {
	if s.deps.Cache == nil {
		return s.deps.Submissions.ListByAssessment(ctx, assessmentID)
	}

	var cohort []*submission.Submission
	err := s.deps.Cache.GetOrSet(ctx, snapshotKey(assessmentID), &cohort, s.deps.SnapshotTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.deps.Submissions.ListByAssessment(ctx, assessmentID)
		})
	if err != nil {
		return nil, err
	}
	return cohort, nil
}

func (s *service) invalidateSnapshot(ctx context.Context, assessmentID string) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Delete(ctx, snapshotKey(assessmentID)); err != nil {
		s.logger.Warn("cohort snapshot invalidation failed",
			logging.String("assessment_id", assessmentID), logging.Err(err))
	}
}

func snapshotKey(assessmentID string) string {
	return fmt.Sprintf("cohort:%s", assessmentID)
}

// runSimilarity compares every subjective and coding answer against the
// cohort.  MCQs carry no comparable free content.
func (s *service) runSimilarity(ctx context.Context, sub *submission.Submission, questions []assessment.Question, cohort []*submission.Submission) []submission.SimilarityResult {
	var results []submission.SimilarityResult
	for _, q := range questions {
		var res *submission.SimilarityResult
		switch q.Type {
		case assessment.TypeSubjective:
			res = s.deps.Plagiarism.CompareText(ctx, sub, q.ID, cohort)
		case assessment.TypeCoding:
			res = s.deps.Plagiarism.CompareCode(ctx, sub, q.ID, cohort)
		default:
			continue
		}
		results = append(results, *res)
	}
	return results
}

// cohortScores assembles the scored cohort for benchmarking, substituting
// the just-computed record for any stale own score in the snapshot.
func cohortScores(sub *submission.Submission, cohort []*submission.Submission, record *submission.ScoreRecord) []*submission.ScoreRecord {
	scores := make([]*submission.ScoreRecord, 0, len(cohort)+1)
	scores = append(scores, record)
	for _, peer := range cohort {
		if peer == nil || peer.ID == sub.ID || peer.Score == nil {
			continue
		}
		scores = append(scores, peer.Score)
	}
	return scores
}

// transitionStatus moves the submission to evaluated, then applies the
// passing-percentage decision when the assessment carries one.
func (s *service) transitionStatus(ctx context.Context, sub *submission.Submission, asmt *assessment.Assessment, record *submission.ScoreRecord) (submission.Status, error) {
	if err := sub.Transition(submission.StatusEvaluated); err != nil {
		return "", err
	}
	if asmt.PassingPercentage != nil {
		next := submission.StatusRejected
		if record.Percentage >= *asmt.PassingPercentage {
			next = submission.StatusShortlisted
		}
		if err := sub.Transition(next); err != nil {
			return "", err
		}
	}
	if err := s.deps.Submissions.UpdateStatus(ctx, sub.ID, sub.Status); err != nil {
		return "", err
	}
	return sub.Status, nil
}

func (s *service) recordOutcomeMetrics(similarity []submission.SimilarityResult, risk *submission.BotRiskReport) {
	if s.deps.Metrics == nil {
		return
	}
	for _, res := range similarity {
		if res.Flagged {
			s.deps.Metrics.PlagiarismFlags.Inc()
		}
	}
	if risk.IsBot {
		s.deps.Metrics.BotClassifications.Inc()
	}
}

// publishEvents emits the lifecycle events.  Publication failures never
// fail an otherwise completed evaluation.
func (s *service) publishEvents(ctx context.Context, sub *submission.Submission, record *submission.ScoreRecord, cmp *submission.BenchmarkComparison, risk *submission.BotRiskReport, similarity []submission.SimilarityResult, status submission.Status) {
	if s.deps.Events == nil {
		return
	}

	evaluated := &kafka.SubmissionEvaluatedEvent{
		SubmissionID: sub.ID,
		AssessmentID: sub.AssessmentID,
		Percentage:   record.Percentage,
		Percentile:   cmp.Percentile,
		Status:       string(status),
		RemoteGraded: record.RemoteGraded,
		EvaluatedAt:  record.EvaluatedAt,
	}
	if err := s.deps.Events.PublishSubmissionEvaluated(ctx, evaluated); err != nil {
		s.logger.Warn("submission.evaluated publish failed",
			logging.String("submission_id", sub.ID), logging.Err(err))
	}

	plagiarismFlags := 0
	for _, res := range similarity {
		if res.Flagged {
			plagiarismFlags++
		}
	}
	if !risk.IsBot && plagiarismFlags == 0 {
		return
	}
	flagged := &kafka.IntegrityFlaggedEvent{
		SubmissionID:    sub.ID,
		AssessmentID:    sub.AssessmentID,
		RiskScore:       risk.RiskScore,
		IsBot:           risk.IsBot,
		FlagCount:       len(risk.Flags),
		PlagiarismFlags: plagiarismFlags,
		AssessedAt:      risk.AssessedAt,
	}
	if err := s.deps.Events.PublishIntegrityFlagged(ctx, flagged); err != nil {
		s.logger.Warn("integrity.flagged publish failed",
			logging.String("submission_id", sub.ID), logging.Err(err))
	}
}

func (s *service) observeStage(stage string, start time.Time) {
	if s.deps.Metrics == nil {
		return
	}
	s.deps.Metrics.ObserveStage(stage, start)
}
