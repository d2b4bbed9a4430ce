package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/resumeprep/internal/assessment"
	"github.com/yoockh/resumeprep/internal/providers/llm"
)

const referencePrompt = `As the interviewer, write a complete, professional reference answer to the question below.
Plain text only: no markdown, no special symbols. Use natural spoken language, give concrete technical detail,
show understanding of the difficulties and their solutions, and keep the logic clear.

Question: %s`

const evaluationPrompt = `As the interviewer, grade the candidate's answer against the reference answer.
Grades: A excellent, B good, C fair, D insufficient.
Dimensions:
- technical depth: command of technical detail
- expression ability: clear, fluent, accurate
- project understanding: goals, architecture and key points described correctly
- problem-solving ability: analysis and a workable approach
Return only this JSON, nothing else:
{
  "technical depth": {"grade": "A", "rationale": "..."},
  "expression ability": {"grade": "B", "rationale": "..."},
  "project understanding": {"grade": "A", "rationale": "..."},
  "problem-solving ability": {"grade": "B", "rationale": "..."},
  "overall": {"grade": "A", "rationale": "..."}
}

Question:
%s

Candidate answer:
%s

Reference answer:
%s`

// LLMGrader grades each item with one model call, generating a reference
// answer first when the question has none.
type LLMGrader struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewLLMGrader(p llm.Provider, log *logrus.Logger) *LLMGrader {
	if log == nil {
		log = logrus.New()
	}
	return &LLMGrader{llm: p, log: log}
}

func (g *LLMGrader) Name() string { return "llm" }

func (g *LLMGrader) Grade(ctx context.Context, req Request) (assessment.Payload, error) {
	var p assessment.Payload
	for _, it := range req.Projects {
		b, err := g.gradeItem(ctx, req.SessionID, it)
		if err != nil {
			return assessment.Payload{}, err
		}
		p.ProjectQA = append(p.ProjectQA, b)
	}
	if req.Advantages != nil {
		b, err := g.gradeItem(ctx, req.SessionID, *req.Advantages)
		if err != nil {
			return assessment.Payload{}, err
		}
		p.Advantages = &b
	}
	if req.Code != nil {
		b, err := g.gradeItem(ctx, req.SessionID, *req.Code)
		if err != nil {
			return assessment.Payload{}, err
		}
		p.Code = &b
	}
	return p, nil
}

func (g *LLMGrader) gradeItem(ctx context.Context, sessionID string, it Item) (assessment.Block, error) {
	b := assessment.Block{
		ProjectName:     it.ProjectName,
		Question:        it.Question,
		UserAnswer:      it.Answer,
		ReferenceAnswer: strings.TrimSpace(it.ReferenceAnswer),
	}

	if b.ReferenceAnswer == "" {
		ref, err := g.llm.Generate(ctx, fmt.Sprintf(referencePrompt, it.Question))
		if err != nil {
			return assessment.Block{}, fmt.Errorf("reference answer for %s: %w", it.QuestionID, err)
		}
		b.ReferenceAnswer = strings.TrimSpace(ref)
	}

	reply, err := g.llm.Generate(ctx, fmt.Sprintf(evaluationPrompt, it.Question, it.Answer, b.ReferenceAnswer))
	if err != nil {
		return assessment.Block{}, fmt.Errorf("grade %s: %w", it.QuestionID, err)
	}

	var ev assessment.Evaluation
	if err := json.Unmarshal([]byte(llm.ExtractJSON(reply)), &ev); err != nil {
		g.log.WithFields(logrus.Fields{
			"session_id":  sessionID,
			"question_id": it.QuestionID,
		}).WithError(err).Warn("grader reply unparsable, leaving block ungraded")
		return b, nil
	}
	b.Evaluation = ev
	return b, nil
}
