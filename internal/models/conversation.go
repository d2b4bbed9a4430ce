package models

import (
	"time"

	"gorm.io/datatypes"
)

// ConversationLog is one exchange of a finished interview transcript.
type ConversationLog struct {
	ID         string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID  string         `gorm:"column:session_id;type:uuid;index:idx_conv_session_seq,priority:1" json:"session_id"`
	Seq        int            `gorm:"column:seq;type:integer;index:idx_conv_session_seq,priority:2" json:"seq"`
	Type       string         `gorm:"column:type;type:text" json:"type"` // "primary" | "followup"
	QuestionID string         `gorm:"column:question_id;type:text" json:"question_id"`
	ParentID   string         `gorm:"column:parent_id;type:text" json:"parent_id,omitempty"`
	Question   string         `gorm:"column:question;type:text" json:"question"`
	Answer     string         `gorm:"column:answer;type:text" json:"answer"`
	Timestamp  time.Time      `gorm:"column:timestamp;type:timestamptz" json:"timestamp"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
}

func (ConversationLog) TableName() string { return "conversation_logs" }
