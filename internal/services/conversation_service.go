package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/resumeprep/internal/interview"
	"github.com/yoockh/resumeprep/internal/models"
	pgrepo "github.com/yoockh/resumeprep/internal/repositories/postgres"
	"github.com/yoockh/resumeprep/internal/utils"
	"gorm.io/datatypes"
)

type ConversationService interface {
	// SaveTranscript replaces the stored transcript of a session.
	SaveTranscript(ctx context.Context, sessionID string, entries []interview.ConversationEntry) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]interview.ConversationEntry, error)
}

type conversationService struct {
	convos pgrepo.ConversationRepo
	now    func() time.Time
}

func NewConversationService(convos pgrepo.ConversationRepo) ConversationService {
	return &conversationService{convos: convos, now: time.Now}
}

type entryMetadata struct {
	Category string `json:"category,omitempty"`
	Resolved bool   `json:"resolved"`
}

func (s *conversationService) SaveTranscript(ctx context.Context, sessionID string, entries []interview.ConversationEntry) error {
	const op = "ConversationService.SaveTranscript"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	ts := s.now().UTC()
	rows := make([]models.ConversationLog, 0, len(entries))
	for i, e := range entries {
		cat, _ := interview.CategoryForID(e.QuestionID)
		md, err := json.Marshal(entryMetadata{Category: cat, Resolved: e.Resolved})
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to encode metadata", err)
		}
		rows = append(rows, models.ConversationLog{
			ID:         uuid.NewString(),
			SessionID:  sessionID,
			Seq:        i + 1,
			Type:       string(e.Type),
			QuestionID: e.QuestionID,
			ParentID:   e.ParentID,
			Question:   e.Question,
			Answer:     e.Answer,
			Timestamp:  ts,
			Metadata:   datatypes.JSON(md),
		})
	}

	if err := s.convos.ReplaceForSession(ctx, sessionID, rows); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store transcript", err)
	}
	return nil
}

func (s *conversationService) ListBySession(ctx context.Context, sessionID string, limit int) ([]interview.ConversationEntry, error) {
	const op = "ConversationService.ListBySession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	rows, err := s.convos.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}

	out := make([]interview.ConversationEntry, 0, len(rows))
	for _, r := range rows {
		var md entryMetadata
		_ = json.Unmarshal(r.Metadata, &md)
		out = append(out, interview.ConversationEntry{
			Type:       interview.EntryType(r.Type),
			QuestionID: r.QuestionID,
			Question:   r.Question,
			Resolved:   md.Resolved,
			Answer:     r.Answer,
			ParentID:   r.ParentID,
		})
	}
	return out, nil
}
