package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByResumeID(ctx context.Context, resumeID string) (*models.ResumeProfile, error)
	Upsert(ctx context.Context, p *models.ResumeProfile) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByResumeID(ctx context.Context, resumeID string) (*models.ResumeProfile, error) {
	var p models.ResumeProfile
	err := r.db.WithContext(ctx).
		Where("resume_id = ?", resumeID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *profileRepo) Upsert(ctx context.Context, p *models.ResumeProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resume_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "summary", "skills", "advantages", "education", "projects", "work_experience", "updated_at"}),
		}).
		Create(p).Error
}
