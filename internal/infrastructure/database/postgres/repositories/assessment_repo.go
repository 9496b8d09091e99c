// Package repositories holds the PostgreSQL implementations of the domain
// repository contracts.  Every method takes a context and uses
// parameterised queries exclusively.
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

// AssessmentRepository implements assessment.Repository.
type AssessmentRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAssessmentRepository constructs a ready-to-use AssessmentRepository.
func NewAssessmentRepository(pool *pgxpool.Pool, log logging.Logger) *AssessmentRepository {
	return &AssessmentRepository{pool: pool, logger: log.Named("assessment_repo")}
}

var _ assessment.Repository = (*AssessmentRepository)(nil)

// GetByID returns the assessment or ErrCodeAssessmentNotFound.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*assessment.Assessment, error) {
	var a assessment.Assessment
	err := r.pool.QueryRow(ctx, `
		SELECT id, job_title, passing_percentage, created_at
		FROM assessments
		WHERE id = $1`, id,
	).Scan(&a.ID, &a.JobTitle, &a.PassingPercentage, &a.CreatedAt)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Newf(errors.ErrCodeAssessmentNotFound, "assessment %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "assessment query failed")
	}
	return &a, nil
}

// questionContent is the JSONB column shape holding the per-type variant.
type questionContent struct {
	MCQ        *assessment.MCQContent        `json:"mcq,omitempty"`
	Subjective *assessment.SubjectiveContent `json:"subjective,omitempty"`
	Coding     *assessment.CodingContent     `json:"coding,omitempty"`
}

// ListQuestions returns the assessment's question bank in position order.
func (r *AssessmentRepository) ListQuestions(ctx context.Context, assessmentID string) ([]assessment.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, text, difficulty, skill_tags, marks, content
		FROM questions
		WHERE assessment_id = $1
		ORDER BY position`, assessmentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "question query failed")
	}
	defer rows.Close()

	var questions []assessment.Question
	for rows.Next() {
		var (
			q       assessment.Question
			rawBody []byte
		)
		if err := rows.Scan(&q.ID, &q.Type, &q.Text, &q.Difficulty, &q.SkillTags, &q.Marks, &rawBody); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "question scan failed")
		}
		var content questionContent
		if err := json.Unmarshal(rawBody, &content); err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeSerialization, "question %s content decode failed", q.ID)
		}
		q.MCQ = content.MCQ
		q.Subjective = content.Subjective
		q.Coding = content.Coding
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "question rowset failed")
	}
	return questions, nil
}

// SaveQuestion inserts or replaces one question at a position.
func (r *AssessmentRepository) SaveQuestion(ctx context.Context, assessmentID string, position int, q *assessment.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	content, err := json.Marshal(questionContent{MCQ: q.MCQ, Subjective: q.Subjective, Coding: q.Coding})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "question content encode failed")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO questions (id, assessment_id, position, type, text, difficulty, skill_tags, marks, content)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			type = EXCLUDED.type,
			text = EXCLUDED.text,
			difficulty = EXCLUDED.difficulty,
			skill_tags = EXCLUDED.skill_tags,
			marks = EXCLUDED.marks,
			content = EXCLUDED.content`,
		q.ID, assessmentID, position, q.Type, q.Text, q.Difficulty, q.SkillTags, q.Marks, content)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "question upsert failed")
	}
	r.logger.Debug("question saved",
		logging.String("assessment_id", assessmentID),
		logging.String("question_id", q.ID))
	return nil
}

// SaveAssessment inserts or replaces one assessment.
func (r *AssessmentRepository) SaveAssessment(ctx context.Context, a *assessment.Assessment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assessments (id, job_title, passing_percentage, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET
			job_title = EXCLUDED.job_title,
			passing_percentage = EXCLUDED.passing_percentage`,
		a.ID, a.JobTitle, a.PassingPercentage, a.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "assessment upsert failed")
	}
	return nil
}
