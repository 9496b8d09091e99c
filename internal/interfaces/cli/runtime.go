package cli

import (
	"context"

	"github.com/turtacn/TalentScreen/internal/application/benchmark"
	"github.com/turtacn/TalentScreen/internal/application/evaluation"
	"github.com/turtacn/TalentScreen/internal/application/integrity"
	"github.com/turtacn/TalentScreen/internal/application/plagiarism"
	"github.com/turtacn/TalentScreen/internal/application/scoring"
	"github.com/turtacn/TalentScreen/internal/config"
	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/database/postgres"
	"github.com/turtacn/TalentScreen/internal/infrastructure/database/postgres/repositories"
	redisinfra "github.com/turtacn/TalentScreen/internal/infrastructure/database/redis"
	"github.com/turtacn/TalentScreen/internal/infrastructure/grader"
	"github.com/turtacn/TalentScreen/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/prometheus"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Runtime aggregates every wired component of a running TalentScreen node.
// Redis and Kafka are optional at runtime: when unreachable or disabled the
// pipeline degrades to unlocked, uncached, event-less operation.
type Runtime struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *prometheus.Metrics

	Pool        *pgxpool.Pool
	Redis       *redisinfra.Client
	Producer    *kafka.Producer
	Submissions submission.Repository
	Assessments assessment.Repository
	Evaluation  evaluation.Service
}

// NewRuntime connects the infrastructure and wires the evaluation service.
// Postgres is the only hard dependency.
func NewRuntime(ctx context.Context, cfg *config.Config, log logging.Logger) (*Runtime, error) {
	pool, err := postgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	subRepo := repositories.NewSubmissionRepository(pool, log)
	asmtRepo := repositories.NewAssessmentRepository(pool, log)

	rt := &Runtime{
		Config:      cfg,
		Logger:      log,
		Metrics:     prometheus.NewMetrics(),
		Pool:        pool,
		Submissions: subRepo,
		Assessments: asmtRepo,
	}

	deps := evaluation.Deps{
		Submissions: subRepo,
		Assessments: asmtRepo,
		Plagiarism:  plagiarism.NewDetector(plagiarism.Deps{Config: cfg.Evaluation.Similarity, Logger: log}),
		Integrity:   integrity.NewHeuristics(integrity.Deps{Config: cfg.Evaluation.Integrity, Logger: log}),
		Benchmark:   benchmark.NewRanker(benchmark.Deps{Logger: log}),
		Metrics:     rt.Metrics,
		Logger:      log,
		LockTTL:     cfg.Redis.LockTTL,
		SnapshotTTL: cfg.Redis.SnapshotTTL,
	}

	scoringDeps := scoring.Deps{Logger: log}
	if cfg.Grader.Enabled {
		scoringDeps.Grader = grader.NewClient(cfg.Grader, rt.Metrics, log)
	}
	deps.Scoring = scoring.NewEngine(scoringDeps)

	if redisClient, err := redisinfra.NewClient(ctx, cfg.Redis, log); err != nil {
		log.Warn("redis unavailable, running without lock and snapshot cache", logging.Err(err))
	} else {
		rt.Redis = redisClient
		deps.Locks = redisinfra.NewLockFactory(redisClient, log)
		deps.Cache = redisinfra.NewCache(redisClient, log)
	}

	if cfg.Kafka.Enabled {
		rt.Producer = kafka.NewProducer(cfg.Kafka, log)
		deps.Events = rt.Producer
	}

	rt.Evaluation = evaluation.NewService(deps)
	return rt, nil
}

// Close releases every held connection.  Safe to call once.
func (r *Runtime) Close() {
	if r.Producer != nil {
		if err := r.Producer.Close(); err != nil {
			r.Logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			r.Logger.Warn("redis close failed", logging.Err(err))
		}
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
}
