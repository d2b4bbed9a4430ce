package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// TokenParser resolves a session token to the session id it was issued for.
type TokenParser interface {
	Parse(raw string) (string, error)
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(utils.HTTPStatus(err), apiError{
		Code:    utils.CodeOf(err),
		Message: utils.PublicMessage(err),
	})
}

// SessionAuth reads the session token from the Authorization header, or the
// "token" query parameter for browsers opening a websocket, and stores the
// session id under "session_id".
func SessionAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
		if raw == "" {
			raw = strings.TrimSpace(c.Query("token"))
		}
		if raw == "" {
			abort(c, utils.E(utils.CodeUnauthorized, "SessionAuth", "missing bearer token", nil))
			return
		}

		sessionID, err := tokens.Parse(raw)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}
