package services

import (
	"context"
	"time"

	"github.com/yoockh/resumeprep/internal/models"
	mongorepo "github.com/yoockh/resumeprep/internal/repositories/mongo"
	"github.com/yoockh/resumeprep/internal/utils"
)

type EvaluationRunService interface {
	Queue(ctx context.Context, sessionID string, attempt, answerCount int) (*models.EvaluationRun, error)
	AttachStream(ctx context.Context, sessionID string, attempt int, streamID string) error
	MarkProcessing(ctx context.Context, sessionID string, attempt int, graderName string) error
	MarkDone(ctx context.Context, sessionID string, attempt, overallScore int, elapsed time.Duration) error
	MarkFailed(ctx context.Context, sessionID string, attempt int, cause error, elapsed time.Duration) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.EvaluationRun, error)
}

type evaluationRunService struct {
	runs mongorepo.EvaluationRunRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewEvaluationRunService(runs mongorepo.EvaluationRunRepository, ttl time.Duration) EvaluationRunService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &evaluationRunService{runs: runs, ttl: ttl, now: time.Now}
}

func (s *evaluationRunService) Queue(ctx context.Context, sessionID string, attempt, answerCount int) (*models.EvaluationRun, error) {
	const op = "EvaluationRunService.Queue"

	if sessionID == "" || attempt <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required and attempt must be > 0", nil)
	}

	now := s.now().UTC()
	run := &models.EvaluationRun{
		SessionID:   sessionID,
		Attempt:     attempt,
		Status:      models.RunPending,
		AnswerCount: answerCount,
		QueuedAt:    now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record evaluation run", err)
	}
	return run, nil
}

func (s *evaluationRunService) AttachStream(ctx context.Context, sessionID string, attempt int, streamID string) error {
	const op = "EvaluationRunService.AttachStream"

	if err := s.runs.SetStreamID(ctx, sessionID, attempt, streamID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to set stream id", err)
	}
	return nil
}

func (s *evaluationRunService) MarkProcessing(ctx context.Context, sessionID string, attempt int, graderName string) error {
	const op = "EvaluationRunService.MarkProcessing"

	err := s.runs.UpdateStatus(ctx, sessionID, attempt, mongorepo.RunUpdate{
		Status: models.RunProcessing,
		Grader: graderName,
	})
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update run", err)
	}
	return nil
}

func (s *evaluationRunService) MarkDone(ctx context.Context, sessionID string, attempt, overallScore int, elapsed time.Duration) error {
	const op = "EvaluationRunService.MarkDone"

	finished := s.now().UTC()
	err := s.runs.UpdateStatus(ctx, sessionID, attempt, mongorepo.RunUpdate{
		Status:           models.RunDone,
		OverallScore:     overallScore,
		ProcessingTimeMS: elapsed.Milliseconds(),
		FinishedAt:       &finished,
	})
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update run", err)
	}
	return nil
}

func (s *evaluationRunService) MarkFailed(ctx context.Context, sessionID string, attempt int, cause error, elapsed time.Duration) error {
	const op = "EvaluationRunService.MarkFailed"

	msg := "evaluation failed"
	if cause != nil {
		msg = cause.Error()
	}
	finished := s.now().UTC()
	err := s.runs.UpdateStatus(ctx, sessionID, attempt, mongorepo.RunUpdate{
		Status:           models.RunFailed,
		Error:            msg,
		ProcessingTimeMS: elapsed.Milliseconds(),
		FinishedAt:       &finished,
	})
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update run", err)
	}
	return nil
}

func (s *evaluationRunService) ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.EvaluationRun, error) {
	const op = "EvaluationRunService.ListBySession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	out, err := s.runs.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list evaluation runs", err)
	}
	return out, nil
}
