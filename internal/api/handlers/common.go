package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// writeError maps err to its HTTP status. Messages of internal failures are
// replaced by a generic one.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(utils.HTTPStatus(err), APIError{
		Code:    utils.CodeOf(err),
		Message: utils.PublicMessage(err),
	})
}

// requireSessionID returns the :session_id path param, which SessionAuth has
// already matched against the bearer token.
func requireSessionID(c *gin.Context) (string, bool) {
	id := c.Param("session_id")
	if id == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "Handler", "missing session_id", nil))
		return "", false
	}
	return id, true
}

func queryLimit(c *gin.Context, def, max int) int {
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= max {
			return n
		}
	}
	return def
}
