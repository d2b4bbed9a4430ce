package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/providers/grader"
)

// EvaluationJob is everything a worker needs to grade one finished interview.
type EvaluationJob struct {
	SessionID  string                        `json:"session_id"`
	Attempt    int                           `json:"attempt"`
	Request    grader.Request                `json:"request"`
	Transcript []interview.ConversationEntry `json:"transcript"`
	EnqueuedAt time.Time                     `json:"enqueued_at"`
}

type EvaluationQueue interface {
	// Enqueue returns the stream entry id.
	Enqueue(ctx context.Context, job EvaluationJob) (string, error)
}

type RedisEvaluationQueue struct {
	rdb    *redis.Client
	stream string
}

func NewRedisEvaluationQueue(rdb *redis.Client, stream string) *RedisEvaluationQueue {
	if stream == "" {
		stream = "evaluation:stream"
	}
	return &RedisEvaluationQueue{rdb: rdb, stream: stream}
}

func (q *RedisEvaluationQueue) Enqueue(ctx context.Context, job EvaluationJob) (string, error) {
	values, err := EncodeJob(job)
	if err != nil {
		return "", err
	}
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: values,
	}).Result()
}

// EncodeJob flattens a job into stream fields.
func EncodeJob(job EvaluationJob) (map[string]any, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"session_id": job.SessionID,
		"attempt":    strconv.Itoa(job.Attempt),
		"payload":    string(payload),
	}, nil
}

// DecodeJob reads a job back from stream fields.
func DecodeJob(values map[string]any) (EvaluationJob, error) {
	raw, _ := values["payload"].(string)
	if raw == "" {
		return EvaluationJob{}, errors.New("evaluation job: missing payload")
	}
	var job EvaluationJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return EvaluationJob{}, fmt.Errorf("evaluation job: %w", err)
	}
	if job.SessionID == "" {
		return EvaluationJob{}, errors.New("evaluation job: missing session_id")
	}
	return job, nil
}
