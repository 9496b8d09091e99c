package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

// SubmissionRepository implements submission.Repository.  Evaluation
// annotations live in JSONB columns and are overwritten wholesale, matching
// the re-evaluation semantics of the pipeline.
type SubmissionRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewSubmissionRepository constructs a ready-to-use SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool, log logging.Logger) *SubmissionRepository {
	return &SubmissionRepository{pool: pool, logger: log.Named("submission_repo")}
}

var _ submission.Repository = (*SubmissionRepository)(nil)

const submissionColumns = `
	id, assessment_id, candidate_name, candidate_email, candidate_user_id,
	answers, anti_cheat, started_at, submitted_at, status,
	score, similarity_checks, risk_report, benchmark`

// GetByID returns the submission or ErrCodeSubmissionNotFound.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE id = $1`, id)

	sub, err := scanSubmission(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Newf(errors.ErrCodeSubmissionNotFound, "submission %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ListByAssessment returns the full cohort including the current
// submission, most recent first.
func (r *SubmissionRepository) ListByAssessment(ctx context.Context, assessmentID string) ([]*submission.Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE assessment_id = $1
		ORDER BY submitted_at DESC`, assessmentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "cohort query failed")
	}
	defer rows.Close()

	var cohort []*submission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		cohort = append(cohort, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "cohort rowset failed")
	}
	return cohort, nil
}

// Save inserts or replaces a submission's intake fields.  Evaluation
// annotations are written only through their dedicated Save methods.
func (r *SubmissionRepository) Save(ctx context.Context, sub *submission.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "answers encode failed")
	}
	antiCheat, err := json.Marshal(sub.AntiCheat)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "anti-cheat encode failed")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO submissions (
			id, assessment_id, candidate_name, candidate_email, candidate_user_id,
			answers, anti_cheat, started_at, submitted_at, status, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			answers = EXCLUDED.answers,
			anti_cheat = EXCLUDED.anti_cheat,
			started_at = EXCLUDED.started_at,
			submitted_at = EXCLUDED.submitted_at,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		sub.ID, sub.AssessmentID, sub.Candidate.Name, sub.Candidate.Email, sub.Candidate.UserID,
		answers, antiCheat, sub.StartedAt, sub.SubmittedAt, sub.Status, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "submission upsert failed")
	}
	return nil
}

// SaveScore overwrites the score record.
func (r *SubmissionRepository) SaveScore(ctx context.Context, submissionID string, record *submission.ScoreRecord) error {
	return r.saveAnnotation(ctx, submissionID, "score", record)
}

// SaveSimilarityResults overwrites the plagiarism annotations.
func (r *SubmissionRepository) SaveSimilarityResults(ctx context.Context, submissionID string, results []submission.SimilarityResult) error {
	return r.saveAnnotation(ctx, submissionID, "similarity_checks", results)
}

// SaveRiskReport overwrites the bot-risk annotation.
func (r *SubmissionRepository) SaveRiskReport(ctx context.Context, submissionID string, report *submission.BotRiskReport) error {
	return r.saveAnnotation(ctx, submissionID, "risk_report", report)
}

// SaveBenchmark overwrites the benchmark annotation.
func (r *SubmissionRepository) SaveBenchmark(ctx context.Context, submissionID string, cmp *submission.BenchmarkComparison) error {
	return r.saveAnnotation(ctx, submissionID, "benchmark", cmp)
}

// UpdateStatus persists a status transition.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, submissionID string, status submission.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE submissions SET status = $2, updated_at = $3 WHERE id = $1`,
		submissionID, status, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "status update failed")
	}
	if tag.RowsAffected() == 0 {
		return errors.Newf(errors.ErrCodeSubmissionNotFound, "submission %s not found", submissionID)
	}
	return nil
}

// column is always one of the fixed annotation names above, never caller
// input, so string concatenation is safe here.
func (r *SubmissionRepository) saveAnnotation(ctx context.Context, submissionID, column string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeSerialization, "%s encode failed", column)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE submissions SET `+column+` = $2, updated_at = $3 WHERE id = $1`,
		submissionID, raw, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeDatabaseError, "%s update failed", column)
	}
	if tag.RowsAffected() == 0 {
		return errors.Newf(errors.ErrCodeSubmissionNotFound, "submission %s not found", submissionID)
	}
	r.logger.Debug("annotation saved",
		logging.String("submission_id", submissionID),
		logging.String("column", column))
	return nil
}

func scanSubmission(row pgx.Row) (*submission.Submission, error) {
	var (
		sub        submission.Submission
		answers    []byte
		antiCheat  []byte
		score      []byte
		similarity []byte
		risk       []byte
		benchmark  []byte
	)
	err := row.Scan(
		&sub.ID, &sub.AssessmentID, &sub.Candidate.Name, &sub.Candidate.Email, &sub.Candidate.UserID,
		&answers, &antiCheat, &sub.StartedAt, &sub.SubmittedAt, &sub.Status,
		&score, &similarity, &risk, &benchmark,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "submission scan failed")
	}

	if err := json.Unmarshal(answers, &sub.Answers); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "answers decode failed")
	}
	if err := json.Unmarshal(antiCheat, &sub.AntiCheat); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "anti-cheat decode failed")
	}
	if err := decodeAnnotation(score, &sub.Score, "score"); err != nil {
		return nil, err
	}
	if err := decodeAnnotation(similarity, &sub.SimilarityChecks, "similarity_checks"); err != nil {
		return nil, err
	}
	if err := decodeAnnotation(risk, &sub.RiskReport, "risk_report"); err != nil {
		return nil, err
	}
	if err := decodeAnnotation(benchmark, &sub.Benchmark, "benchmark"); err != nil {
		return nil, err
	}
	return &sub, nil
}

func decodeAnnotation(raw []byte, target interface{}, name string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.Wrapf(err, errors.ErrCodeSerialization, "%s decode failed", name)
	}
	return nil
}
