package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/yoockh/resumeprep/internal/models"
	"github.com/yoockh/resumeprep/internal/providers/questiongen"
	pgrepo "github.com/yoockh/resumeprep/internal/repositories/postgres"
	"github.com/yoockh/resumeprep/internal/utils"
	"gorm.io/datatypes"
)

type ProfileService interface {
	Get(ctx context.Context, resumeID string) (*questiongen.Profile, error)
	Upsert(ctx context.Context, resumeID string, p questiongen.Profile) error
}

type profileService struct {
	profiles pgrepo.ProfileRepository
}

func NewProfileService(profiles pgrepo.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, resumeID string) (*questiongen.Profile, error) {
	const op = "ProfileService.Get"

	if resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}

	row, err := s.profiles.GetByResumeID(ctx, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}

	p := fromProfileRow(row)
	return &p, nil
}

func (s *profileService) Upsert(ctx context.Context, resumeID string, p questiongen.Profile) error {
	const op = "ProfileService.Upsert"

	if resumeID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}

	row, err := toProfileRow(resumeID, p)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to encode profile", err)
	}
	if err := s.profiles.Upsert(ctx, row); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to upsert profile", err)
	}
	return nil
}

func toProfileRow(resumeID string, p questiongen.Profile) (*models.ResumeProfile, error) {
	education, err := json.Marshal(nonNil(p.Education))
	if err != nil {
		return nil, err
	}
	projects, err := json.Marshal(nonNil(p.Projects))
	if err != nil {
		return nil, err
	}
	work, err := json.Marshal(nonNil(p.WorkExperience))
	if err != nil {
		return nil, err
	}
	return &models.ResumeProfile{
		ResumeID:       resumeID,
		FullName:       p.FullName,
		Summary:        p.Summary,
		Skills:         pq.StringArray(nonNil(p.Skills)),
		Advantages:     pq.StringArray(nonNil(p.Advantages)),
		Education:      datatypes.JSON(education),
		Projects:       datatypes.JSON(projects),
		WorkExperience: datatypes.JSON(work),
		UpdatedAt:      time.Now().UTC(),
	}, nil
}

func fromProfileRow(row *models.ResumeProfile) questiongen.Profile {
	p := questiongen.Profile{
		FullName:   row.FullName,
		Summary:    row.Summary,
		Skills:     []string(row.Skills),
		Advantages: []string(row.Advantages),
	}
	// rows written by toProfileRow always hold valid JSON
	_ = json.Unmarshal(row.Education, &p.Education)
	_ = json.Unmarshal(row.Projects, &p.Projects)
	_ = json.Unmarshal(row.WorkExperience, &p.WorkExperience)
	return p
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
