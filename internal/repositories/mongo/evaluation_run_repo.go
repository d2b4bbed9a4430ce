package mongo

import (
	"context"
	"time"

	"github.com/yoockh/resumeprep/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EvaluationRunRepository interface {
	Insert(ctx context.Context, run *models.EvaluationRun) error
	SetStreamID(ctx context.Context, sessionID string, attempt int, streamID string) error
	UpdateStatus(ctx context.Context, sessionID string, attempt int, fields RunUpdate) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.EvaluationRun, error)
}

// RunUpdate carries the fields changed on a status transition. Zero values
// are left untouched except Status.
type RunUpdate struct {
	Status           string
	Grader           string
	Error            string
	OverallScore     int
	ProcessingTimeMS int64
	FinishedAt       *time.Time
}

type evaluationRunRepo struct {
	col *mongo.Collection
}

func NewEvaluationRunRepo(db *mongo.Database) EvaluationRunRepository {
	return &evaluationRunRepo{col: db.Collection("evaluation_runs")}
}

func (r *evaluationRunRepo) Insert(ctx context.Context, run *models.EvaluationRun) error {
	if run.QueuedAt.IsZero() {
		run.QueuedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, run)
	return err
}

func (r *evaluationRunRepo) SetStreamID(ctx context.Context, sessionID string, attempt int, streamID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "attempt": attempt},
		bson.M{"$set": bson.M{"stream_id": streamID}},
	)
	return err
}

func (r *evaluationRunRepo) UpdateStatus(ctx context.Context, sessionID string, attempt int, u RunUpdate) error {
	set := bson.M{"status": u.Status}
	if u.Grader != "" {
		set["grader"] = u.Grader
	}
	if u.Error != "" {
		set["error"] = u.Error
	}
	if u.OverallScore > 0 {
		set["overall_score"] = u.OverallScore
	}
	if u.ProcessingTimeMS > 0 {
		set["processing_time_ms"] = u.ProcessingTimeMS
	}
	if u.FinishedAt != nil {
		set["finished_at"] = u.FinishedAt.UTC()
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "attempt": attempt},
		bson.M{"$set": set},
	)
	return err
}

func (r *evaluationRunRepo) ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.EvaluationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	cur, err := r.col.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().
			SetSort(bson.D{{Key: "attempt", Value: 1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EvaluationRun
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
