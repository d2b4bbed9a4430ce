package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RunPending    = "pending"
	RunProcessing = "processing"
	RunDone       = "done"
	RunFailed     = "failed"
)

// EvaluationRun tracks one grading attempt for a finished interview.
type EvaluationRun struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Attempt   int                `bson:"attempt" json:"attempt"`
	StreamID  string             `bson:"stream_id,omitempty" json:"stream_id,omitempty"`

	Status string `bson:"status" json:"status"` // pending|processing|done|failed
	Grader string `bson:"grader,omitempty" json:"grader,omitempty"`
	Error  string `bson:"error,omitempty" json:"error,omitempty"`

	AnswerCount  int `bson:"answer_count" json:"answer_count"`
	OverallScore int `bson:"overall_score,omitempty" json:"overall_score,omitempty"`

	ProcessingTimeMS int64      `bson:"processing_time_ms,omitempty" json:"processing_time_ms,omitempty"`
	QueuedAt         time.Time  `bson:"queued_at" json:"queued_at"`
	FinishedAt       *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
