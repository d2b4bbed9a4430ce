package mongo

import (
	"context"
	"time"

	"github.com/yoockh/resumeprep/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionEnd is what gets recorded once the candidate stops answering.
type SessionEnd struct {
	Status          string
	EndedAt         time.Time
	DurationSeconds int64
	AnsweredCount   int
	TimedOut        bool
}

type SessionRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	End(ctx context.Context, sessionID string, end SessionEnd) error
	SetStatus(ctx context.Context, sessionID, status string) error
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection("interview_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *sessionRepo) End(ctx context.Context, sessionID string, end SessionEnd) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"status":           end.Status,
			"ended_at":         end.EndedAt.UTC(),
			"duration_seconds": end.DurationSeconds,
			"answered_count":   end.AnsweredCount,
			"timed_out":        end.TimedOut,
		}},
	)
	return err
}

func (r *sessionRepo) SetStatus(ctx context.Context, sessionID, status string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}
