package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"articonnect-backend/internal/core/auth"
	"articonnect-backend/internal/domain"
	"articonnect-backend/internal/transport/http/handler"
	mdw "articonnect-backend/internal/transport/http/middleware"
)

// NewAdminEngine 后台端，独立端口，统一要求 admin 角色
func NewAdminEngine(l *zap.Logger, adminH *handler.AdminHandler, jwter *auth.JWTer) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		// 后台请求没有需要打码的查询参数，用现成的 ginzap
		ginzap.Ginzap(l, time.RFC3339, false),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.POST("/auth/token", adminH.IssueToken)

	sec := admin.Group("")
	sec.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	reg := NewRegistry()
	reg.Register(adminH)
	reg.MountAllAdmin(sec)

	return r
}
