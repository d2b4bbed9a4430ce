package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type AssessmentReport struct {
	SessionID string `gorm:"column:session_id;type:uuid;primaryKey" json:"session_id"`
	Attempt   int    `gorm:"column:attempt;type:integer" json:"attempt"`
	Grader    string `gorm:"column:grader;type:text" json:"grader"`

	OverallScore   int            `gorm:"column:overall_score;type:integer" json:"overall_score"`
	CategoryScores datatypes.JSON `gorm:"column:category_scores;type:jsonb" json:"category_scores"`
	Strengths      pq.StringArray `gorm:"column:strengths;type:text[]" json:"strengths"`
	Improvements   pq.StringArray `gorm:"column:improvements;type:text[]" json:"improvements"`
	Suggestion     string         `gorm:"column:suggestion;type:text" json:"suggestion"`
	// json, not jsonb: evaluation dimensions are ordered object keys.
	Detailed       datatypes.JSON `gorm:"column:detailed;type:json" json:"detailed"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (AssessmentReport) TableName() string { return "assessment_reports" }
