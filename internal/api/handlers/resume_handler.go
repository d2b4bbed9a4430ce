package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/services"
	"github.com/yoockh/resumeprep/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "missing multipart field 'file'", err))
		return
	}
	if fh.Size > services.MaxResumeBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ResumeHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	res, err := h.svc.Upload(c.Request.Context(), services.UploadInput{
		FileName: fh.Filename,
		Size:     fh.Size,
		Reader:   file,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ResumeHandler) Questions(c *gin.Context) {
	resumeID := c.Param("resume_id")
	set, err := h.svc.Questions(c.Request.Context(), resumeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resume_id": resumeID,
		"questions": set,
		"flattened": set.Questions(),
	})
}
