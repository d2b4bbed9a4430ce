package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ResumeProfile is the structured content extracted from an uploaded resume.
type ResumeProfile struct {
	ResumeID string `gorm:"column:resume_id;type:uuid;primaryKey" json:"resume_id"`
	FullName string `gorm:"column:full_name;type:text" json:"full_name"`
	Summary  string `gorm:"column:summary;type:text" json:"summary"`

	Skills     pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	Advantages pq.StringArray `gorm:"column:advantages;type:text[]" json:"advantages"`

	// JSONB, shapes follow the extractor output
	Education      datatypes.JSON `gorm:"column:education;type:jsonb" json:"education"`
	Projects       datatypes.JSON `gorm:"column:projects;type:jsonb" json:"projects"`
	WorkExperience datatypes.JSON `gorm:"column:work_experience;type:jsonb" json:"work_experience"`

	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (ResumeProfile) TableName() string { return "resume_profiles" }
