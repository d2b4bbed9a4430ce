package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/providers/grader"
	"github.com/yoockh/resumeprep/internal/providers/stt"
	mongorepo "github.com/yoockh/resumeprep/internal/repositories/mongo"
	"github.com/yoockh/resumeprep/internal/utils"
)

// Where the questions of a session came from.
const (
	SourceRequest = "request"
	SourceResume  = "resume"
	SourceDemo    = "demo"
)

type StartInput struct {
	ResumeID  string                 `json:"resume_id,omitempty"`
	Questions *interview.QuestionSet `json:"questions,omitempty"`
	Metadata  models.SessionMetadata `json:"metadata"`
}

// Snapshot is the externally visible state of a live interview.
type Snapshot struct {
	SessionID       string               `json:"session_id"`
	Status          string               `json:"status"`
	Questions       []interview.Question `json:"questions"`
	CurrentIndex    int                  `json:"currentIndex"`
	OnFollowUp      bool                 `json:"onFollowUp"`
	CurrentQuestion *interview.Question  `json:"currentQuestion,omitempty"`
	FollowUp        *interview.FollowUp  `json:"followUp,omitempty"`
	Draft           string               `json:"draft"`
	Answered        int                  `json:"answered"`
	Total           int                  `json:"total"`
	Progress        int                  `json:"progress"`
	Complete        bool                 `json:"complete"`
	TimedOut        bool                 `json:"timedOut,omitempty"`
	Attempt         int                  `json:"attempt,omitempty"`
	StartedAt       time.Time            `json:"startedAt"`
	Deadline        time.Time            `json:"deadline"`
}

type StartResult struct {
	Snapshot
	Token          string    `json:"token"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
}

type SubmitResult struct {
	Transition string `json:"transition"`
	Transcript string `json:"transcript,omitempty"`
	Snapshot
}

// EvaluationListener is told how an enqueued evaluation ended.
type EvaluationListener interface {
	EvaluationDone(ctx context.Context, sessionID string, attempt int)
	EvaluationFailed(ctx context.Context, sessionID string, attempt int, cause error)
}

type InterviewService interface {
	EvaluationListener

	Start(ctx context.Context, in StartInput) (*StartResult, error)
	Snapshot(ctx context.Context, sessionID string) (*Snapshot, error)
	SetDraft(ctx context.Context, sessionID, text string) (*Snapshot, error)
	Submit(ctx context.Context, sessionID, text string) (*SubmitResult, error)
	SubmitAudio(ctx context.Context, sessionID string, audio []byte, language string) (*SubmitResult, error)
	History(ctx context.Context, sessionID string) ([]interview.ConversationEntry, error)
	RetryEvaluation(ctx context.Context, sessionID string) (*Snapshot, error)
	Discard(ctx context.Context, sessionID string) error

	// Sweep finishes sessions past the time limit and evicts idle ones. It
	// returns how many sessions it touched.
	Sweep(ctx context.Context) int
	// Run sweeps on every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration)
}

type InterviewOptions struct {
	TimeLimit      time.Duration
	IdleTTL        time.Duration
	SpeechLanguage string
	Demo           *interview.QuestionSet
}

type InterviewDeps struct {
	Sessions      mongorepo.SessionRepository
	Runs          EvaluationRunService
	Queue         EvaluationQueue
	Publisher     StatusPublisher
	Tokens        *TokenIssuer
	Resumes       ResumeService
	Conversations ConversationService
	STT           stt.Provider
	Logger        *logrus.Logger
}

type controller struct {
	mu sync.Mutex

	id       string
	session  *interview.Session
	status   string
	attempt  int
	answers  []interview.Answer
	pending  bool // completion emitted, evaluation not yet dispatched
	timedOut bool

	startedAt time.Time
	lastSeen  time.Time
}

type interviewService struct {
	InterviewDeps
	opts InterviewOptions
	now  func() time.Time

	mu          sync.RWMutex
	controllers map[string]*controller
}

func NewInterviewService(deps InterviewDeps, opts InterviewOptions) InterviewService {
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = 2 * time.Hour
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 6 * time.Hour
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	return &interviewService{
		InterviewDeps: deps,
		opts:          opts,
		now:           time.Now,
		controllers:   map[string]*controller{},
	}
}

func (s *interviewService) Start(ctx context.Context, in StartInput) (*StartResult, error) {
	const op = "InterviewService.Start"

	set, source, err := s.questionSource(ctx, in)
	if err != nil {
		return nil, err
	}
	questions := set.Questions()
	if len(questions) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "the question set has no questions", nil)
	}

	now := s.now().UTC()
	c := &controller{
		id:        uuid.NewString(),
		status:    models.SessionActive,
		startedAt: now,
		lastSeen:  now,
	}
	c.session = interview.NewSession(questions, interview.WithOnComplete(func(answers []interview.Answer) {
		c.answers = answers
		c.pending = true
	}))

	rec := &models.InterviewSession{
		SessionID:     c.id,
		ResumeID:      in.ResumeID,
		Source:        source,
		Status:        models.SessionActive,
		Metadata:      in.Metadata,
		QuestionCount: len(questions),
		CreatedAt:     now,
	}
	if err := s.Sessions.Create(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	token, exp, err := s.Tokens.Issue(c.id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.controllers[c.id] = c
	s.mu.Unlock()

	s.Logger.WithFields(logrus.Fields{
		"session_id": c.id,
		"source":     source,
		"questions":  len(questions),
	}).Info("interview started")

	return &StartResult{Snapshot: s.snapshotLocked(c), Token: token, TokenExpiresAt: exp}, nil
}

func (s *interviewService) questionSource(ctx context.Context, in StartInput) (interview.QuestionSet, string, error) {
	const op = "InterviewService.Start"

	switch {
	case in.Questions != nil:
		return *in.Questions, SourceRequest, nil
	case strings.TrimSpace(in.ResumeID) != "":
		if s.Resumes == nil {
			return interview.QuestionSet{}, "", utils.E(utils.CodeUnavailable, op, "resume questions are not available", nil)
		}
		set, err := s.Resumes.Questions(ctx, strings.TrimSpace(in.ResumeID))
		if err != nil {
			return interview.QuestionSet{}, "", err
		}
		return *set, SourceResume, nil
	case s.opts.Demo != nil:
		return *s.opts.Demo, SourceDemo, nil
	default:
		return interview.QuestionSet{}, "", utils.E(utils.CodeInvalidArgument, op, "questions or resume_id is required", nil)
	}
}

func (s *interviewService) Snapshot(_ context.Context, sessionID string) (*Snapshot, error) {
	const op = "InterviewService.Snapshot"

	c, err := s.get(op, sessionID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := s.snapshotLocked(c)
	return &snap, nil
}

func (s *interviewService) SetDraft(_ context.Context, sessionID, text string) (*Snapshot, error) {
	const op = "InterviewService.SetDraft"

	c, err := s.get(op, sessionID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := acceptingAnswers(op, c); err != nil {
		return nil, err
	}
	c.session.SetDraft(text)
	c.lastSeen = s.now().UTC()

	snap := s.snapshotLocked(c)
	return &snap, nil
}

func (s *interviewService) Submit(ctx context.Context, sessionID, text string) (*SubmitResult, error) {
	const op = "InterviewService.Submit"

	c, err := s.get(op, sessionID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return s.submitLocked(ctx, op, c, text)
}

func (s *interviewService) SubmitAudio(ctx context.Context, sessionID string, audio []byte, language string) (*SubmitResult, error) {
	const op = "InterviewService.SubmitAudio"

	if len(audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio is required", nil)
	}
	if s.STT == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "speech recognition is not configured", nil)
	}

	c, err := s.get(op, sessionID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if err := acceptingAnswers(op, c); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	text, conf, err := s.STT.Transcribe(ctx, audio, stt.NormalizeLanguage(language, s.opts.SpeechLanguage))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "speech recognition failed", err)
	}
	s.Logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"confidence": conf,
		"chars":      len(text),
	}).Debug("audio answer transcribed")

	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := s.submitLocked(ctx, op, c, text)
	if err != nil {
		return nil, err
	}
	res.Transcript = text
	return res, nil
}

func (s *interviewService) submitLocked(ctx context.Context, op string, c *controller, text string) (*SubmitResult, error) {
	if err := acceptingAnswers(op, c); err != nil {
		return nil, err
	}

	t := c.session.Submit(text)
	if t != interview.Ignored {
		c.lastSeen = s.now().UTC()
	}
	if c.pending {
		s.dispatchLocked(ctx, c)
	}

	return &SubmitResult{Transition: t.String(), Snapshot: s.snapshotLocked(c)}, nil
}

func (s *interviewService) History(ctx context.Context, sessionID string) ([]interview.ConversationEntry, error) {
	const op = "InterviewService.History"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	s.mu.RLock()
	c, ok := s.controllers[sessionID]
	s.mu.RUnlock()
	if ok {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := []interview.ConversationEntry{}
		for e := range c.session.History() {
			out = append(out, e)
		}
		return out, nil
	}

	if s.Conversations == nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", nil)
	}
	out, err := s.Conversations.ListBySession(ctx, sessionID, 0)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", nil)
	}
	return out, nil
}

func (s *interviewService) RetryEvaluation(ctx context.Context, sessionID string) (*Snapshot, error) {
	const op = "InterviewService.RetryEvaluation"

	c, err := s.get(op, sessionID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case models.SessionEvaluationFailed:
	case models.SessionAwaiting:
		return nil, utils.E(utils.CodeConflict, op, "evaluation is already in progress", nil)
	case models.SessionEvaluated:
		return nil, utils.E(utils.CodeFailedPrecond, op, "the interview has already been evaluated", nil)
	default:
		return nil, utils.E(utils.CodeFailedPrecond, op, "the interview is not finished yet", nil)
	}

	c.pending = true
	c.lastSeen = s.now().UTC()
	s.dispatchLocked(ctx, c)

	snap := s.snapshotLocked(c)
	return &snap, nil
}

func (s *interviewService) Discard(ctx context.Context, sessionID string) error {
	const op = "InterviewService.Discard"

	s.mu.Lock()
	c, ok := s.controllers[sessionID]
	delete(s.controllers, sessionID)
	s.mu.Unlock()
	if !ok {
		return utils.E(utils.CodeNotFound, op, "session not found or expired", nil)
	}

	c.mu.Lock()
	status := c.status
	c.mu.Unlock()

	if status == models.SessionActive {
		if err := s.Sessions.SetStatus(ctx, sessionID, models.SessionDiscarded); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to discard session", err)
		}
		s.publish(ctx, StatusEvent{SessionID: sessionID, Status: models.SessionDiscarded, Message: "interview discarded"})
	}
	return nil
}

// dispatchLocked enqueues the evaluation of a completed session. A failure
// leaves the session in evaluation_failed; answers are never rolled back.
func (s *interviewService) dispatchLocked(ctx context.Context, c *controller) {
	c.pending = false
	c.attempt++
	first := c.attempt == 1

	log := s.Logger.WithFields(logrus.Fields{
		"session_id": c.id,
		"attempt":    c.attempt,
		"answers":    len(c.answers),
	})

	questions := c.session.Questions()
	job := EvaluationJob{
		SessionID:  c.id,
		Attempt:    c.attempt,
		Request:    grader.BuildRequest(c.id, questions, c.answers),
		Transcript: interview.BuildHistory(questions, c.answers),
		EnqueuedAt: s.now().UTC(),
	}

	fail := func(err error) {
		log.WithError(err).Error("evaluation dispatch failed")
		c.status = models.SessionEvaluationFailed
		s.recordStatus(ctx, c, first)
		s.publish(ctx, StatusEvent{SessionID: c.id, Status: c.status, Attempt: c.attempt, Message: "evaluation could not be started, please retry"})
	}

	if _, err := s.Runs.Queue(ctx, c.id, c.attempt, len(c.answers)); err != nil {
		fail(err)
		return
	}
	streamID, err := s.Queue.Enqueue(ctx, job)
	if err != nil {
		_ = s.Runs.MarkFailed(ctx, c.id, c.attempt, err, 0)
		fail(err)
		return
	}
	_ = s.Runs.AttachStream(ctx, c.id, c.attempt, streamID)

	c.status = models.SessionAwaiting
	s.recordStatus(ctx, c, first)
	s.publish(ctx, StatusEvent{SessionID: c.id, Status: c.status, Attempt: c.attempt, Message: "interview submitted for evaluation"})
	log.WithField("stream_id", streamID).Info("evaluation enqueued")
}

// recordStatus writes the session end on the first dispatch and a plain
// status change afterwards.
func (s *interviewService) recordStatus(ctx context.Context, c *controller, first bool) {
	var err error
	if first {
		now := s.now().UTC()
		err = s.Sessions.End(ctx, c.id, mongorepo.SessionEnd{
			Status:          c.status,
			EndedAt:         now,
			DurationSeconds: int64(now.Sub(c.startedAt).Seconds()),
			AnsweredCount:   len(c.answers),
			TimedOut:        c.timedOut,
		})
	} else {
		err = s.Sessions.SetStatus(ctx, c.id, c.status)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("session_id", c.id).Warn("session status write failed")
	}
}

func (s *interviewService) EvaluationDone(ctx context.Context, sessionID string, attempt int) {
	s.evaluationEnded(ctx, sessionID, attempt, models.SessionEvaluated)
}

func (s *interviewService) EvaluationFailed(ctx context.Context, sessionID string, attempt int, cause error) {
	s.Logger.WithError(cause).WithFields(logrus.Fields{
		"session_id": sessionID,
		"attempt":    attempt,
	}).Warn("evaluation failed")
	s.evaluationEnded(ctx, sessionID, attempt, models.SessionEvaluationFailed)
}

func (s *interviewService) evaluationEnded(ctx context.Context, sessionID string, attempt int, status string) {
	s.mu.RLock()
	c, ok := s.controllers[sessionID]
	s.mu.RUnlock()
	if ok {
		c.mu.Lock()
		stale := attempt != c.attempt
		if !stale {
			c.status = status
		}
		c.mu.Unlock()
		if stale {
			return
		}
	}
	if err := s.Sessions.SetStatus(ctx, sessionID, status); err != nil {
		s.Logger.WithError(err).WithField("session_id", sessionID).Warn("session status write failed")
	}
}

func (s *interviewService) Sweep(ctx context.Context) int {
	now := s.now().UTC()

	s.mu.RLock()
	all := make([]*controller, 0, len(s.controllers))
	for _, c := range s.controllers {
		all = append(all, c)
	}
	s.mu.RUnlock()

	touched := 0
	for _, c := range all {
		c.mu.Lock()
		switch {
		case c.status == models.SessionActive && now.Sub(c.startedAt) >= s.opts.TimeLimit:
			c.timedOut = true
			c.session.SubmitDraft()
			c.session.Finish()
			if c.pending {
				s.dispatchLocked(ctx, c)
			}
			s.Logger.WithField("session_id", c.id).Info("interview time limit reached")
			touched++
		case c.status != models.SessionAwaiting && now.Sub(c.lastSeen) >= s.opts.IdleTTL:
			s.mu.Lock()
			delete(s.controllers, c.id)
			s.mu.Unlock()
			if c.status == models.SessionActive {
				_ = s.Sessions.SetStatus(ctx, c.id, models.SessionDiscarded)
			}
			touched++
		}
		c.mu.Unlock()
	}
	return touched
}

func (s *interviewService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(ctx); n > 0 {
				s.Logger.WithField("sessions", n).Debug("interview sweep")
			}
		}
	}
}

func (s *interviewService) get(op, sessionID string) (*controller, error) {
	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	s.mu.RLock()
	c, ok := s.controllers[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "session not found or expired", nil)
	}
	return c, nil
}

func acceptingAnswers(op string, c *controller) error {
	switch c.status {
	case models.SessionActive:
		return nil
	case models.SessionAwaiting:
		return utils.E(utils.CodeConflict, op, "answers are being evaluated", nil)
	default:
		return utils.E(utils.CodeFailedPrecond, op, "the interview is already finished", nil)
	}
}

func (s *interviewService) snapshotLocked(c *controller) Snapshot {
	snap := Snapshot{
		SessionID:    c.id,
		Status:       c.status,
		Questions:    c.session.Questions(),
		CurrentIndex: c.session.Index(),
		OnFollowUp:   c.session.OnFollowUp(),
		Draft:        c.session.Draft(),
		Answered:     len(c.session.Answers()),
		Total:        c.session.Total(),
		Progress:     c.session.ProgressPercent(),
		Complete:     c.session.IsComplete(),
		TimedOut:     c.timedOut,
		Attempt:      c.attempt,
		StartedAt:    c.startedAt,
		Deadline:     c.startedAt.Add(s.opts.TimeLimit),
	}
	if !snap.Complete {
		if q, ok := c.session.Current(); ok {
			snap.CurrentQuestion = &q
		}
		if f, ok := c.session.ActiveFollowUp(); ok {
			snap.FollowUp = &f
		}
	}
	return snap
}

func (s *interviewService) publish(ctx context.Context, ev StatusEvent) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		s.Logger.WithError(err).WithField("session_id", ev.SessionID).Warn("status publish failed")
	}
}
