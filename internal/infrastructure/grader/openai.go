// Package grader implements the remote grading boundary against any
// OpenAI-compatible chat completion endpoint.
package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/turtacn/TalentScreen/internal/application/scoring"
	"github.com/turtacn/TalentScreen/internal/config"
	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

const systemPrompt = `You are an assessment grader for the role of %q.
Grade every answer on its own merits against the question and the marks
available. Respond with a single JSON object of this exact shape:
{"total_score": number, "total_possible": number, "percentage": number,
 "skill_analysis": [{"skill": string, "score": number, "total": number, "percentage": number}],
 "evaluated_answers": [{"question_id": string, "score": number, "max_score": number, "feedback": string}]}
Score every question listed, award 0 for missing answers, and never exceed
a question's marks.`

// Client grades subjective and coding answers through a chat model.
// Every failure mode maps to an error; the scoring engine treats any
// error as a fall-back signal.
type Client struct {
	api     *openai.Client
	cfg     config.GraderConfig
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewClient creates a grading client.  A custom BaseURL points the client
// at self-hosted OpenAI-compatible servers.  Metrics may be nil.
func NewClient(cfg config.GraderConfig, metrics *prometheus.Metrics, log logging.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		cfg:     cfg,
		metrics: metrics,
		logger:  log.Named("grader"),
	}
}

// Grade implements scoring.RemoteGrader.
func (c *Client) Grade(ctx context.Context, req *scoring.GradeRequest) (result *scoring.GradeResult, err error) {
	if c.metrics != nil {
		defer func() {
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			c.metrics.GraderRequests.WithLabelValues(outcome).Inc()
		}()
	}
	return c.grade(ctx, req)
}

func (c *Client) grade(ctx context.Context, req *scoring.GradeRequest) (*scoring.GradeResult, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, req.JobTitle)},
			{Role: openai.ChatMessageRoleUser, Content: renderPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRemoteGraderFailed, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.ErrCodeRemoteGraderFailed, "chat completion returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	var result scoring.GradeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Debug("unparseable grading response", logging.String("raw", raw))
		return nil, errors.Wrap(err, errors.ErrCodeRemoteGraderFailed, "grading response decode failed")
	}
	return &result, nil
}

// renderPrompt lays the questions and the candidate's answers out as plain
// text, one block per question.
func renderPrompt(req *scoring.GradeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate: %s\n\n", req.CandidateName)

	for _, q := range req.Questions {
		fmt.Fprintf(&b, "Question %s (%s, %.0f marks", q.ID, q.Type, q.Marks)
		if len(q.SkillTags) > 0 {
			fmt.Fprintf(&b, ", skills: %s", strings.Join(q.SkillTags, ", "))
		}
		fmt.Fprintf(&b, "):\n%s\n", q.Text)

		ans, ok := req.Answers[q.ID]
		if !ok {
			b.WriteString("Answer: (none)\n\n")
			continue
		}
		switch q.Type {
		case assessment.TypeMCQ:
			if ans.SelectedOption != nil && q.MCQ != nil && *ans.SelectedOption >= 0 && *ans.SelectedOption < len(q.MCQ.Options) {
				fmt.Fprintf(&b, "Answer: option %d (%s)\n\n", *ans.SelectedOption, q.MCQ.Options[*ans.SelectedOption])
			} else {
				b.WriteString("Answer: (none)\n\n")
			}
		case assessment.TypeCoding:
			fmt.Fprintf(&b, "Answer:\n```\n%s\n```\n", ans.Code)
			passed, total := 0, len(ans.ExecutionResults)
			for _, r := range ans.ExecutionResults {
				if r.Passed {
					passed++
				}
			}
			if total > 0 {
				fmt.Fprintf(&b, "Pre-executed tests: %d/%d passed\n", passed, total)
			}
			b.WriteString("\n")
		default:
			fmt.Fprintf(&b, "Answer: %s\n\n", ans.Text)
		}
	}
	return b.String()
}
