package grader

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yoockh/resumeprep/internal/assessment"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/logger"
)

func sampleQuestions() []interview.Question {
	return interview.QuestionSet{
		Projects: []interview.ProjectQuestion{
			{ProjectName: "crawler", Question: "How did you schedule crawls?", Answer: "a cron table", FollowUps: []string{"What about retries?"}},
			{ProjectName: "cache", Question: "Why redis?"},
		},
		Advantages: &interview.AdvantageQuestion{Question: "Explain goroutines"},
		Code:       []string{"Reverse a list", "three pointers"},
	}.Questions()
}

func TestBuildRequestGroupsByPrefixAndFoldsFollowUps(t *testing.T) {
	answers := []interview.Answer{
		{QuestionID: "project_0", Answer: "cron"},
		{QuestionID: "project_0-f1", Answer: "backoff", IsFollowUp: true, ParentQuestionID: "project_0"},
		{QuestionID: "project_1", Answer: "speed"},
		{QuestionID: "advantage_1", Answer: "M:N"},
		{QuestionID: "code_1", Answer: "loop"},
		{QuestionID: "bonus_1", Answer: "ignored"},
	}

	req := BuildRequest("s1", sampleQuestions(), answers)
	require.Equal(t, "s1", req.SessionID)
	require.Equal(t, 4, req.Len())

	require.Len(t, req.Projects, 2)
	p0 := req.Projects[0]
	require.Equal(t, "crawler", p0.ProjectName)
	require.Equal(t, "How did you schedule crawls?\nFollow-up: What about retries?", p0.Question)
	require.Equal(t, "cron\nFollow-up answer: backoff", p0.Answer)
	require.Equal(t, "a cron table", p0.ReferenceAnswer)

	require.Equal(t, "M:N", req.Advantages.Answer)
	require.Equal(t, "three pointers", req.Code.ReferenceAnswer)
}

func TestBuildRequestUnknownIDsAndDuplicates(t *testing.T) {
	answers := []interview.Answer{
		{QuestionID: "project_9", Answer: "first"},
		{QuestionID: "project_9", Answer: "second"},
	}
	req := BuildRequest("s1", sampleQuestions(), answers)
	require.Len(t, req.Projects, 1)
	require.Equal(t, "project_9", req.Projects[0].Question)
	require.Equal(t, "first", req.Projects[0].Answer)
	require.Nil(t, req.Advantages)
	require.Nil(t, req.Code)
}

type scriptedLLM struct {
	replies []string
	err     error
	prompts []string
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *scriptedLLM) GenerateFromDocument(ctx context.Context, _ string, _ []byte, prompt string) (string, error) {
	return s.Generate(ctx, prompt)
}

func (s *scriptedLLM) Close() error { return nil }

func TestLLMGraderGeneratesMissingReference(t *testing.T) {
	f := &scriptedLLM{replies: []string{
		"cron jobs with jitter",
		"```json\n{\"technical depth\": {\"grade\": \"A\", \"rationale\": \"deep\"}, \"overall\": {\"grade\": \"B\", \"rationale\": \"ok\"}}\n```",
	}}
	g := NewLLMGrader(f, logger.Discard())

	p, err := g.Grade(context.Background(), Request{Projects: []Item{{QuestionID: "project_0", Question: "Q", Answer: "A"}}})
	require.NoError(t, err)
	require.Len(t, f.prompts, 2)
	require.Len(t, p.ProjectQA, 1)
	require.Equal(t, "cron jobs with jitter", p.ProjectQA[0].ReferenceAnswer)
	require.Equal(t, assessment.TechnicalDepth, p.ProjectQA[0].Evaluation[0].Category)
	require.Equal(t, "llm", g.Name())
}

func TestLLMGraderUnparsableVerdictLeavesBlockUngraded(t *testing.T) {
	f := &scriptedLLM{replies: []string{"I think the answer was good."}}
	g := NewLLMGrader(f, logger.Discard())

	p, err := g.Grade(context.Background(), Request{Code: &Item{QuestionID: "code_1", Question: "Q", Answer: "A", ReferenceAnswer: "R"}})
	require.NoError(t, err)
	require.Len(t, f.prompts, 1)
	require.NotNil(t, p.Code)
	require.False(t, p.Code.HasEvaluation())

	r := assessment.Aggregate(p)
	require.Equal(t, []string{assessment.NoDataStrength}, r.Strengths)
}

func TestLLMGraderProviderError(t *testing.T) {
	boom := errors.New("vertex down")
	g := NewLLMGrader(&scriptedLLM{err: boom}, logger.Discard())
	_, err := g.Grade(context.Background(), Request{Advantages: &Item{QuestionID: "advantage_1", Question: "Q"}})
	require.ErrorIs(t, err, boom)
}

func TestRemoteGrader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&req) != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.SessionID == "broken" {
			_, _ = w.Write([]byte(`{"error": "model quota exceeded"}`))
			return
		}
		if req.SessionID == "down" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"project_qa": [{"question": "Q", "user_answer": "A", "evaluation": {"技术深度": {"评分": "A", "理由": "ok"}}}]}`))
	}))
	defer srv.Close()

	g := NewRemoteGrader(srv.URL, time.Second)

	p, err := g.Grade(context.Background(), Request{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, p.ProjectQA, 1)
	require.Equal(t, 90, assessment.Aggregate(p).CategoryScores[assessment.TechnicalDepth])

	for _, id := range []string{"broken", "down"} {
		_, err = g.Grade(context.Background(), Request{SessionID: id})
		require.ErrorIs(t, err, assessment.ErrGraderFailure, id)
	}
	require.True(t, strings.HasPrefix(g.Name(), "remote"))
}
