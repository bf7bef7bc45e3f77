package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"articonnect-backend/internal/session"
	resp "articonnect-backend/internal/transport/http/response"
)

// gin context 键
const (
	KeySessionID = "sessionId"
	KeyUserID    = "userId"
	KeyRole      = "role"
)

// RequireSession 会话 cookie 鉴权；requireRole 非空时再卡角色
func RequireSession(store *session.Store, cookieName, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			resp.AbortErr(c, http.StatusUnauthorized, "not logged in")
			return
		}
		d, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			resp.AbortErr(c, http.StatusInternalServerError, "")
			return
		}
		if d == nil {
			resp.AbortErr(c, http.StatusUnauthorized, "not logged in")
			return
		}
		if requireRole != "" && d.Role != requireRole {
			resp.AbortErr(c, http.StatusForbidden, "")
			return
		}
		c.Set(KeySessionID, sid)
		c.Set(KeyUserID, d.UserID)
		c.Set(KeyRole, d.Role)
		c.Next()
	}
}
