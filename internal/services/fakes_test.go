package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/providers/questiongen"
	mongorepo "github.com/yoockh/resumeprep/internal/repositories/mongo"
	"github.com/yoockh/resumeprep/internal/utils"
)

type fakeSessionRepo struct {
	mu      sync.Mutex
	created []*models.InterviewSession
	ends    map[string]mongorepo.SessionEnd
	status  map[string]string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{ends: map[string]mongorepo.SessionEnd{}, status: map[string]string{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, s)
	r.status[s.SessionID] = s.Status
	return nil
}

func (r *fakeSessionRepo) End(_ context.Context, id string, end mongorepo.SessionEnd) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ends[id] = end
	r.status[id] = end.Status
	return nil
}

func (r *fakeSessionRepo) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[id] = status
	return nil
}

func (r *fakeSessionRepo) statusOf(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status[id]
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs []*models.EvaluationRun
}

func (r *fakeRunRepo) Insert(_ context.Context, run *models.EvaluationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepo) find(id string, attempt int) *models.EvaluationRun {
	for _, run := range r.runs {
		if run.SessionID == id && run.Attempt == attempt {
			return run
		}
	}
	return nil
}

func (r *fakeRunRepo) SetStreamID(_ context.Context, id string, attempt int, streamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run := r.find(id, attempt); run != nil {
		run.StreamID = streamID
	}
	return nil
}

func (r *fakeRunRepo) UpdateStatus(_ context.Context, id string, attempt int, u mongorepo.RunUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run := r.find(id, attempt)
	if run == nil {
		return utils.ErrNotFound
	}
	run.Status = u.Status
	if u.Error != "" {
		run.Error = u.Error
	}
	if u.OverallScore > 0 {
		run.OverallScore = u.OverallScore
	}
	return nil
}

func (r *fakeRunRepo) ListBySession(_ context.Context, id string, _ int64) ([]models.EvaluationRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EvaluationRun
	for _, run := range r.runs {
		if run.SessionID == id {
			out = append(out, *run)
		}
	}
	return out, nil
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []EvaluationJob
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job EvaluationJob) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return "", q.err
	}
	q.jobs = append(q.jobs, job)
	return "1-" + job.SessionID, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []StatusEvent
}

func (p *fakePublisher) Publish(_ context.Context, ev StatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) statuses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Status)
	}
	return out
}

type fakeSTT struct {
	text string
	lang string
	err  error
}

func (f *fakeSTT) Transcribe(_ context.Context, _ []byte, language string) (string, float64, error) {
	f.lang = language
	return f.text, 0.9, f.err
}

func (f *fakeSTT) Close() error { return nil }

type fakeResumeRepo struct {
	rows map[string]*models.ResumeFile
}

func (r *fakeResumeRepo) Insert(_ context.Context, f *models.ResumeFile) error {
	if r.rows == nil {
		r.rows = map[string]*models.ResumeFile{}
	}
	r.rows[f.ID] = f
	return nil
}

type fakeProfileRepo struct {
	rows map[string]*models.ResumeProfile
}

func (r *fakeProfileRepo) GetByResumeID(_ context.Context, id string) (*models.ResumeProfile, error) {
	if p, ok := r.rows[id]; ok {
		return p, nil
	}
	return nil, utils.ErrNotFound
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *models.ResumeProfile) error {
	if r.rows == nil {
		r.rows = map[string]*models.ResumeProfile{}
	}
	r.rows[p.ResumeID] = p
	return nil
}

type fakeUploader struct {
	objects map[string][]byte
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, name, _ string, r io.Reader, _ int64) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[name] = b
	return "mem://bucket/" + name, nil
}

func (u *fakeUploader) Close() error { return nil }

type fakeGenerator struct {
	profile questiongen.Profile
	set     interview.QuestionSet
	err     error
	mime    string
}

func (g *fakeGenerator) ExtractProfile(_ context.Context, mime string, _ []byte) (questiongen.Profile, error) {
	g.mime = mime
	return g.profile, g.err
}

func (g *fakeGenerator) Generate(context.Context, questiongen.Profile) (interview.QuestionSet, error) {
	return g.set, g.err
}

type fakeReportRepo struct {
	rows map[string]*models.AssessmentReport
}

func (r *fakeReportRepo) Upsert(_ context.Context, rep *models.AssessmentReport) error {
	if r.rows == nil {
		r.rows = map[string]*models.AssessmentReport{}
	}
	r.rows[rep.SessionID] = rep
	return nil
}

func (r *fakeReportRepo) GetBySessionID(_ context.Context, id string) (*models.AssessmentReport, error) {
	if rep, ok := r.rows[id]; ok {
		return rep, nil
	}
	return nil, utils.ErrNotFound
}

type fakeConversationRepo struct {
	rows map[string][]models.ConversationLog
}

func (r *fakeConversationRepo) ReplaceForSession(_ context.Context, id string, rows []models.ConversationLog) error {
	if r.rows == nil {
		r.rows = map[string][]models.ConversationLog{}
	}
	r.rows[id] = rows
	return nil
}

func (r *fakeConversationRepo) ListBySession(_ context.Context, id string, _ int) ([]models.ConversationLog, error) {
	return r.rows[id], nil
}

var errBoom = errors.New("boom")
