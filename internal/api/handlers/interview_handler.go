package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/services"
	"github.com/yoockh/resumeprep/internal/utils"
)

// MaxAudioBytes caps a single spoken answer.
const MaxAudioBytes = 10 << 20

type InterviewHandler struct {
	svc  services.InterviewService
	runs services.EvaluationRunService
}

func NewInterviewHandler(svc services.InterviewService, runs services.EvaluationRunService) *InterviewHandler {
	return &InterviewHandler{svc: svc, runs: runs}
}

type DraftRequest struct {
	Text string `json:"text"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

// Start begins an interview. An empty body starts the demo question bank.
func (h *InterviewHandler) Start(c *gin.Context) {
	var req services.StartInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
			return
		}
	}

	res, err := h.svc.Start(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (h *InterviewHandler) Draft(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Draft", "invalid request body", err))
		return
	}

	snap, err := h.svc.SetDraft(c.Request.Context(), sessionID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (h *InterviewHandler) Answer(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Answer", "invalid request body", err))
		return
	}

	res, err := h.svc.Submit(c.Request.Context(), sessionID, req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *InterviewHandler) AudioAnswer(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("audio")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.AudioAnswer", "missing multipart field 'audio'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > MaxAudioBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.AudioAnswer", "audio must be between 1 byte and 10MB", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "InterviewHandler.AudioAnswer", "failed to open upload", err))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, MaxAudioBytes))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.AudioAnswer", "failed to read upload", err))
		return
	}

	res, err := h.svc.SubmitAudio(c.Request.Context(), sessionID, audio, c.PostForm("language"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *InterviewHandler) History(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	entries, err := h.svc.History(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":    sessionID,
		"conversations": entries,
	})
}

func (h *InterviewHandler) RetryEvaluation(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	snap, err := h.svc.RetryEvaluation(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, snap)
}

func (h *InterviewHandler) Evaluations(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	runs, err := h.runs.ListBySession(c.Request.Context(), sessionID, int64(queryLimit(c, 20, 100)))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":  sessionID,
		"evaluations": runs,
	})
}

func (h *InterviewHandler) Discard(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	if err := h.svc.Discard(c.Request.Context(), sessionID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
