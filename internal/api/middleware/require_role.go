package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/utils"
)

// RequireSessionScope rejects requests whose :session_id differs from the
// session the token was issued for.
func RequireSessionScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("session_id")
		tokenSession, _ := v.(string)
		if !ok || tokenSession == "" {
			abort(c, utils.E(utils.CodeUnauthorized, "RequireSessionScope", "unauthorized", nil))
			return
		}

		if param := c.Param("session_id"); param != "" && param != tokenSession {
			abort(c, utils.E(utils.CodeForbidden, "RequireSessionScope", "token does not grant access to this session", nil))
			return
		}

		c.Next()
	}
}
