package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lifecycle of a stored interview session.
const (
	SessionActive           = "active"
	SessionAwaiting         = "awaiting_evaluation"
	SessionEvaluated        = "evaluated"
	SessionEvaluationFailed = "evaluation_failed"
	SessionDiscarded        = "discarded"
)

type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	ResumeID  string             `bson:"resume_id,omitempty" json:"resume_id,omitempty"`

	Source   string          `bson:"source" json:"source"` // request|resume|demo
	Status   string          `bson:"status" json:"status"`
	Metadata SessionMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`

	QuestionCount int  `bson:"question_count" json:"question_count"`
	AnsweredCount int  `bson:"answered_count" json:"answered_count"`
	TimedOut      bool `bson:"timed_out,omitempty" json:"timed_out,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`

	DurationSeconds int64 `bson:"duration_seconds" json:"duration_seconds"`
}

type SessionMetadata struct {
	CandidateName string `bson:"candidate_name,omitempty" json:"candidate_name,omitempty"`
	Position      string `bson:"position,omitempty" json:"position,omitempty"`
	CompanyName   string `bson:"company_name,omitempty" json:"company_name,omitempty"`
}
