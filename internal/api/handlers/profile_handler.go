package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/services"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get returns the structured profile extracted from an uploaded resume.
func (h *ProfileHandler) Get(c *gin.Context) {
	resumeID := c.Param("resume_id")
	p, err := h.svc.Get(c.Request.Context(), resumeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resume_id": resumeID,
		"resume":    p,
	})
}
