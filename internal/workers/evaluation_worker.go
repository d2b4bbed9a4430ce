package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/resumeprep/internal/assessment"
	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/providers/grader"
	"github.com/yoockh/resumeprep/internal/services"
)

// EvaluationWorkerPool grades finished interviews taken from a redis stream.
type EvaluationWorkerPool struct {
	Redis      *redis.Client
	NumWorkers int

	Grader        grader.Grader
	Runs          services.EvaluationRunService
	Reports       services.ReportService
	Conversations services.ConversationService
	Publisher     services.StatusPublisher
	Listener      services.EvaluationListener

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *EvaluationWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Grader == nil || p.Runs == nil || p.Reports == nil {
		return errors.New("EvaluationWorkerPool missing dependency: Redis/Grader/Runs/Reports must be set")
	}
	p.defaults()

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *EvaluationWorkerPool) defaults() {
	if p.Stream == "" {
		p.Stream = "evaluation:stream"
	}
	if p.Group == "" {
		p.Group = "evaluation-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
}

func (p *EvaluationWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("stream read failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *EvaluationWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	job, err := services.DecodeJob(msg.Values)
	if err != nil {
		p.Logger.WithError(err).WithField("redis_id", msg.ID).Error("dropping malformed evaluation job")
		return
	}
	p.process(ctx, job)
}

// process grades one job end to end. Failures are recorded on the run and
// reported to the listener; the job is never retried here.
func (p *EvaluationWorkerPool) process(ctx context.Context, job services.EvaluationJob) {
	log := p.Logger.WithFields(logrus.Fields{
		"session_id": job.SessionID,
		"attempt":    job.Attempt,
		"grader":     p.Grader.Name(),
	})
	start := time.Now()

	fail := func(stage string, err error) {
		log.WithError(err).WithField("stage", stage).Error("evaluation failed")
		_ = p.Runs.MarkFailed(ctx, job.SessionID, job.Attempt, err, time.Since(start))
		p.publish(ctx, services.StatusEvent{
			SessionID: job.SessionID,
			Status:    models.SessionEvaluationFailed,
			Attempt:   job.Attempt,
			Message:   "evaluation failed, please retry",
		})
		if p.Listener != nil {
			p.Listener.EvaluationFailed(ctx, job.SessionID, job.Attempt, err)
		}
	}

	if err := p.Runs.MarkProcessing(ctx, job.SessionID, job.Attempt, p.Grader.Name()); err != nil {
		log.WithError(err).Warn("run status write failed")
	}
	p.publish(ctx, services.StatusEvent{
		SessionID: job.SessionID,
		Status:    models.RunProcessing,
		Attempt:   job.Attempt,
		Message:   "grading answers",
	})

	payload, err := p.Grader.Grade(ctx, job.Request)
	if err != nil {
		fail("grade", err)
		return
	}

	report := assessment.Aggregate(payload)
	if err := p.Reports.Save(ctx, job.SessionID, job.Attempt, p.Grader.Name(), report); err != nil {
		fail("save_report", err)
		return
	}

	if p.Conversations != nil {
		if err := p.Conversations.SaveTranscript(ctx, job.SessionID, job.Transcript); err != nil {
			// the report is already stored; a missing transcript is not fatal
			log.WithError(err).Warn("transcript write failed")
		}
	}

	elapsed := time.Since(start)
	if err := p.Runs.MarkDone(ctx, job.SessionID, job.Attempt, report.OverallScore, elapsed); err != nil {
		log.WithError(err).Warn("run status write failed")
	}
	p.publish(ctx, services.StatusEvent{
		SessionID:    job.SessionID,
		Status:       models.SessionEvaluated,
		Attempt:      job.Attempt,
		OverallScore: report.OverallScore,
		Message:      "report ready",
	})
	if p.Listener != nil {
		p.Listener.EvaluationDone(ctx, job.SessionID, job.Attempt)
	}

	log.WithFields(logrus.Fields{
		"overall_score":      report.OverallScore,
		"processing_time_ms": elapsed.Milliseconds(),
	}).Info("evaluation done")
}

func (p *EvaluationWorkerPool) publish(ctx context.Context, ev services.StatusEvent) {
	if p.Publisher == nil {
		return
	}
	if err := p.Publisher.Publish(ctx, ev); err != nil {
		p.Logger.WithError(err).WithField("session_id", ev.SessionID).Warn("status publish failed")
	}
}
