// Package assessment defines the question-bank side of the evaluation
// domain: assessments, questions, and the typed per-question content
// variants.  Questions are owned by the assessment and are never mutated by
// the evaluation core.
package assessment

import (
	"strings"

	apperrors "github.com/turtacn/TalentScreen/pkg/errors"
)

// QuestionType discriminates the content variant carried by a Question.
type QuestionType string

const (
	TypeMCQ        QuestionType = "mcq"
	TypeSubjective QuestionType = "subjective"
	TypeCoding     QuestionType = "coding"
)

// AllQuestionTypes returns the canonical ordered list of question types.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{TypeMCQ, TypeSubjective, TypeCoding}
}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMCQ, TypeSubjective, TypeCoding:
		return true
	}
	return false
}

// MCQContent is the content variant for multiple-choice questions.
type MCQContent struct {
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// SubjectiveContent is the content variant for free-text questions.  No
// field is required; Guidelines is advisory grading context forwarded to
// the remote grader when one is configured.
type SubjectiveContent struct {
	Guidelines string `json:"guidelines,omitempty"`
}

// TestCase is a single weighted coding test case.  The evaluation core
// never executes code; pass/fail results arrive pre-computed on the answer.
type TestCase struct {
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expected_output"`
	Weight         float64 `json:"weight"`
}

// CodingContent is the content variant for coding questions.
type CodingContent struct {
	Language  string     `json:"language,omitempty"`
	Starter   string     `json:"starter,omitempty"`
	TestCases []TestCase `json:"test_cases"`
}

// Question is an immutable question definition.  Exactly one of the
// content pointers matching Type is populated; the others are nil.
type Question struct {
	ID         string       `json:"id"`
	Type       QuestionType `json:"type"`
	Text       string       `json:"text"`
	Difficulty string       `json:"difficulty,omitempty"`
	SkillTags  []string     `json:"skill_tags,omitempty"`
	Marks      float64      `json:"marks"`

	MCQ        *MCQContent        `json:"mcq,omitempty"`
	Subjective *SubjectiveContent `json:"subjective,omitempty"`
	Coding     *CodingContent     `json:"coding,omitempty"`
}

// Validate checks structural consistency: known type, positive marks, and a
// content variant matching the declared type.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return apperrors.New(apperrors.ErrCodeValidation, "question id must not be empty")
	}
	if !q.Type.Valid() {
		return apperrors.Newf(apperrors.ErrCodeUnknownQuestionType, "unknown question type %q", q.Type)
	}
	if q.Marks <= 0 {
		return apperrors.Newf(apperrors.ErrCodeValidation, "question %s: marks must be positive", q.ID)
	}
	switch q.Type {
	case TypeMCQ:
		if q.MCQ == nil {
			return apperrors.Newf(apperrors.ErrCodeValidation, "question %s: mcq content missing", q.ID)
		}
		if len(q.MCQ.Options) < 2 {
			return apperrors.Newf(apperrors.ErrCodeValidation, "question %s: mcq needs at least two options", q.ID)
		}
		if q.MCQ.CorrectOption < 0 || q.MCQ.CorrectOption >= len(q.MCQ.Options) {
			return apperrors.Newf(apperrors.ErrCodeValidation, "question %s: correct option out of range", q.ID)
		}
	case TypeCoding:
		if q.Coding == nil {
			return apperrors.Newf(apperrors.ErrCodeValidation, "question %s: coding content missing", q.ID)
		}
	}
	return nil
}
