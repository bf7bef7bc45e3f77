package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"articonnect-backend/internal/core/config"
	"articonnect-backend/internal/domain"
	"articonnect-backend/internal/service"
	resp "articonnect-backend/internal/transport/http/response"
)

type AuthHandler struct {
	svc    *service.AuthService
	cookie config.Session
}

func NewAuthHandler(svc *service.AuthService, cookie config.Session) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/check_session", h.checkSession)
}

type registerIn struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	Nom           string `json:"nom" binding:"required"`
	Prenom        string `json:"prenom"`
	Role          string `json:"role"`
	NomEntreprise string `json:"nomEntreprise"`
	Bio           string `json:"bio"`
	PhotoURL      string `json:"photoUrl"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Email:         in.Email,
		Password:      in.Password,
		Nom:           in.Nom,
		Prenom:        in.Prenom,
		Role:          in.Role,
		NomEntreprise: in.NomEntreprise,
		Bio:           in.Bio,
		PhotoURL:      in.PhotoURL,
	})
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	// 注册不建会话，hash 由 json:"-" 挡住
	resp.Created(c, gin.H{"message": "registration successful", "user": u})
}

type loginIn struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, err.Error())
		return
	}
	u, sid, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	h.setSessionCookie(c, sid)
	resp.OK(c, gin.H{"message": "login successful", "user": u})
}

func (h *AuthHandler) logout(c *gin.Context) {
	sid, _ := c.Cookie(h.cookie.CookieName)
	h.svc.Logout(c.Request.Context(), sid)
	h.clearSessionCookie(c)
	resp.OK(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) checkSession(c *gin.Context) {
	sid, _ := c.Cookie(h.cookie.CookieName)
	u, err := h.svc.CheckSession(c.Request.Context(), sid)
	if err != nil {
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	if u == nil {
		resp.OK(c, gin.H{"isLoggedIn": false, "user": nil})
		return
	}
	resp.OK(c, gin.H{"isLoggedIn": true, "user": u})
}

func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		resp.Err(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		resp.Err(c, http.StatusConflict, "email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		resp.Err(c, http.StatusUnauthorized, "invalid credentials")
	default:
		// 细节只进日志
		resp.Err(c, http.StatusInternalServerError, "")
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sid string) {
	c.SetCookie(h.cookie.CookieName, sid, h.cookie.TTLMin*60, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
}
