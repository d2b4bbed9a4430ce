package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yoockh/resumeprep/internal/assessment"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/logger"
	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/providers/grader"
	"github.com/yoockh/resumeprep/internal/services"
)

type stubGrader struct {
	payload assessment.Payload
	err     error
	got     []grader.Request
}

func (g *stubGrader) Name() string { return "stub" }

func (g *stubGrader) Grade(_ context.Context, req grader.Request) (assessment.Payload, error) {
	g.got = append(g.got, req)
	return g.payload, g.err
}

type recordingRuns struct {
	mu     sync.Mutex
	events []string
	score  int
	cause  error
}

func (r *recordingRuns) add(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordingRuns) Queue(context.Context, string, int, int) (*models.EvaluationRun, error) {
	r.add("queue")
	return &models.EvaluationRun{}, nil
}

func (r *recordingRuns) AttachStream(context.Context, string, int, string) error { return nil }

func (r *recordingRuns) MarkProcessing(_ context.Context, _ string, _ int, graderName string) error {
	r.add("processing:" + graderName)
	return nil
}

func (r *recordingRuns) MarkDone(_ context.Context, _ string, _ int, score int, _ time.Duration) error {
	r.score = score
	r.add("done")
	return nil
}

func (r *recordingRuns) MarkFailed(_ context.Context, _ string, _ int, cause error, _ time.Duration) error {
	r.cause = cause
	r.add("failed")
	return nil
}

func (r *recordingRuns) ListBySession(context.Context, string, int64) ([]models.EvaluationRun, error) {
	return nil, nil
}

type memReports struct {
	saved map[string]assessment.Report
	err   error
}

func (m *memReports) Save(_ context.Context, id string, _ int, _ string, r assessment.Report) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = map[string]assessment.Report{}
	}
	m.saved[id] = r
	return nil
}

func (m *memReports) Get(context.Context, string) (*assessment.View, error) { return nil, nil }
func (m *memReports) PDF(context.Context, string) ([]byte, error)           { return nil, nil }
func (m *memReports) Aggregate(p assessment.Payload) assessment.View {
	return assessment.Aggregate(p).ToView()
}

type memConversations struct {
	saved map[string][]interview.ConversationEntry
	err   error
}

func (m *memConversations) SaveTranscript(_ context.Context, id string, entries []interview.ConversationEntry) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = map[string][]interview.ConversationEntry{}
	}
	m.saved[id] = entries
	return nil
}

func (m *memConversations) ListBySession(_ context.Context, id string, _ int) ([]interview.ConversationEntry, error) {
	return m.saved[id], nil
}

type capturePublisher struct{ events []services.StatusEvent }

func (c *capturePublisher) Publish(_ context.Context, ev services.StatusEvent) error {
	c.events = append(c.events, ev)
	return nil
}

type captureListener struct {
	done   []int
	failed []int
}

func (c *captureListener) EvaluationDone(_ context.Context, _ string, attempt int) {
	c.done = append(c.done, attempt)
}

func (c *captureListener) EvaluationFailed(_ context.Context, _ string, attempt int, _ error) {
	c.failed = append(c.failed, attempt)
}

type workerFixture struct {
	pool     *EvaluationWorkerPool
	grader   *stubGrader
	runs     *recordingRuns
	reports  *memReports
	convos   *memConversations
	pub      *capturePublisher
	listener *captureListener
}

func newWorkerFixture() *workerFixture {
	f := &workerFixture{
		grader:   &stubGrader{},
		runs:     &recordingRuns{},
		reports:  &memReports{},
		convos:   &memConversations{},
		pub:      &capturePublisher{},
		listener: &captureListener{},
	}
	f.pool = &EvaluationWorkerPool{
		Grader:        f.grader,
		Runs:          f.runs,
		Reports:       f.reports,
		Conversations: f.convos,
		Publisher:     f.pub,
		Listener:      f.listener,
		Logger:        logger.Discard(),
	}
	return f
}

func sampleJob() services.EvaluationJob {
	return services.EvaluationJob{
		SessionID: "s1",
		Attempt:   2,
		Request: grader.Request{
			SessionID: "s1",
			Projects:  []grader.Item{{QuestionID: "project_0", Question: "Q", Answer: "A"}},
		},
		Transcript: []interview.ConversationEntry{{Type: interview.EntryPrimary, QuestionID: "project_0", Question: "Q", Resolved: true, Answer: "A"}},
	}
}

func statuses(events []services.StatusEvent) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Status)
	}
	return out
}

func TestProcessGradesAndStores(t *testing.T) {
	f := newWorkerFixture()
	f.grader.payload = assessment.Payload{ProjectQA: []assessment.Block{{
		Question:   "Q",
		UserAnswer: "A",
		Evaluation: assessment.Evaluation{{Name: "technical depth", Category: assessment.TechnicalDepth, DimensionResult: assessment.DimensionResult{Grade: assessment.GradeA}}},
	}}}

	f.pool.process(context.Background(), sampleJob())

	require.Len(t, f.grader.got, 1)
	require.Equal(t, "project_0", f.grader.got[0].Projects[0].QuestionID)
	require.Equal(t, []string{"processing:stub", "done"}, f.runs.events)

	r, ok := f.reports.saved["s1"]
	require.True(t, ok)
	require.Equal(t, 90, r.CategoryScores[assessment.TechnicalDepth])
	require.Equal(t, r.OverallScore, f.runs.score)

	require.Len(t, f.convos.saved["s1"], 1)
	require.Equal(t, []string{models.RunProcessing, models.SessionEvaluated}, statuses(f.pub.events))
	require.Equal(t, r.OverallScore, f.pub.events[1].OverallScore)
	require.Equal(t, []int{2}, f.listener.done)
	require.Empty(t, f.listener.failed)
}

func TestProcessGraderFailure(t *testing.T) {
	f := newWorkerFixture()
	f.grader.err = assessment.ErrGraderFailure

	f.pool.process(context.Background(), sampleJob())

	require.Equal(t, []string{"processing:stub", "failed"}, f.runs.events)
	require.ErrorIs(t, f.runs.cause, assessment.ErrGraderFailure)
	require.Empty(t, f.reports.saved)
	require.Empty(t, f.convos.saved)
	require.Equal(t, []string{models.RunProcessing, models.SessionEvaluationFailed}, statuses(f.pub.events))
	require.Equal(t, []int{2}, f.listener.failed)
}

func TestProcessReportWriteFailure(t *testing.T) {
	f := newWorkerFixture()
	f.reports.err = errors.New("db down")

	f.pool.process(context.Background(), sampleJob())

	require.Equal(t, []string{"processing:stub", "failed"}, f.runs.events)
	require.Equal(t, []int{2}, f.listener.failed)
}

func TestProcessTranscriptFailureIsNotFatal(t *testing.T) {
	f := newWorkerFixture()
	f.convos.err = errors.New("db down")

	f.pool.process(context.Background(), sampleJob())

	// no graded blocks still produce the neutral report
	require.Equal(t, assessment.NeutralScore, f.reports.saved["s1"].OverallScore)
	require.Equal(t, []string{"processing:stub", "done"}, f.runs.events)
	require.Equal(t, []int{2}, f.listener.done)
}

func TestStartRequiresDependencies(t *testing.T) {
	require.Error(t, (&EvaluationWorkerPool{}).Start(context.Background()))
}
