package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/assessment"
	"github.com/yoockh/resumeprep/internal/services"
	"github.com/yoockh/resumeprep/internal/utils"
)

// maxPayloadBytes caps the body of an aggregate request.
const maxPayloadBytes = 4 << 20

type ReportHandler struct {
	svc services.ReportService
}

func NewReportHandler(svc services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) Get(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	v, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *ReportHandler) PDF(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	out, err := h.svc.PDF(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="interview-report-`+sessionID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

// Aggregate turns a raw grading payload into a report view without storing it.
func (h *ReportHandler) Aggregate(c *gin.Context) {
	const op = "ReportHandler.Aggregate"

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read body", err))
		return
	}
	if len(body) > maxPayloadBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "payload too large", nil))
		return
	}

	p, err := assessment.DecodePayload(body)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "payload is not an evaluation", err))
		return
	}

	c.JSON(http.StatusOK, h.svc.Aggregate(p))
}
