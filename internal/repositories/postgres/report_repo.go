package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository interface {
	Upsert(ctx context.Context, r *models.AssessmentReport) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.AssessmentReport, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

// Upsert keeps one report per session; a later attempt replaces it.
func (r *reportRepo) Upsert(ctx context.Context, rep *models.AssessmentReport) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"attempt", "grader", "overall_score", "category_scores", "strengths", "improvements", "suggestion", "detailed", "created_at"}),
		}).
		Create(rep).Error
}

func (r *reportRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.AssessmentReport, error) {
	var row models.AssessmentReport
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}
