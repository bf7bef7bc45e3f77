package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"articonnect-backend/internal/core/auth"
	"articonnect-backend/internal/domain"
	resp "articonnect-backend/internal/transport/http/response"
	"articonnect-backend/pkg/utils"
)

// AdminHandler 后台接口：JWT 鉴权，与公共 API 的会话体系分离
type AdminHandler struct {
	users   domain.UserRepository
	catalog domain.CatalogRepository
	jwter   *auth.JWTer
	log     *zap.Logger
}

func NewAdminHandler(users domain.UserRepository, catalog domain.CatalogRepository, jwter *auth.JWTer, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, catalog: catalog, jwter: jwter, log: log}
}

// IssueToken 公开路由：admin 账号换访问令牌
func (h *AdminHandler) IssueToken(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		h.log.Error("admin token: lookup failed", zap.Error(err))
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	// 非 admin 与密码错误同响应，不暴露账号存在性
	if u == nil || u.Role != domain.RoleAdmin || !utils.CheckPassword(in.Password, u.MotDePasseHash) {
		resp.Err(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	tok, err := h.jwter.Issue(u.ID, u.Role)
	if err != nil {
		h.log.Error("admin token: issue failed", zap.Uint("user_id", u.ID), zap.Error(err))
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	resp.OK(c, gin.H{"token": tok})
}

// MountAdmin 挂载受保护的后台路由
func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	g.GET("/users", h.listUsers)
	g.POST("/users/:id/ban", h.banUser)
	g.POST("/products/:id/deactivate", h.deactivateProduct)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	var in struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"`
	}
	if err := c.ShouldBindQuery(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	users, total, err := h.users.List(c.Request.Context(), in.Q, in.Offset, in.Limit)
	if err != nil {
		h.log.Error("admin: list users failed", zap.Error(err))
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	resp.OK(c, gin.H{"total": total, "items": users})
}

func (h *AdminHandler) banUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.users.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			resp.Err(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error("admin: ban user failed", zap.Uint("id", id), zap.Error(err))
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	resp.OK(c, gin.H{"id": id})
}

func (h *AdminHandler) deactivateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	hit, err := h.catalog.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.log.Error("admin: deactivate product failed", zap.Uint("id", id), zap.Error(err))
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	if !hit {
		resp.Err(c, http.StatusNotFound, "product not found")
		return
	}
	resp.OK(c, gin.H{"id": id})
}
