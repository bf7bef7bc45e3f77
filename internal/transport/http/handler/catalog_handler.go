package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"articonnect-backend/internal/domain"
	"articonnect-backend/internal/service"
	"articonnect-backend/internal/session"
	mdw "articonnect-backend/internal/transport/http/middleware"
	resp "articonnect-backend/internal/transport/http/response"
)

type CatalogHandler struct {
	svc        *service.CatalogService
	sessions   *session.Store
	cookieName string
}

func NewCatalogHandler(svc *service.CatalogService, sessions *session.Store, cookieName string) *CatalogHandler {
	return &CatalogHandler{svc: svc, sessions: sessions, cookieName: cookieName}
}

func (h *CatalogHandler) MountAPI(g *gin.RouterGroup) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
	g.GET("/categories", h.categories)

	// 商品管理：仅 artisan 本人
	art := g.Group("")
	art.Use(mdw.RequireSession(h.sessions, h.cookieName, domain.RoleArtisan))
	art.POST("/products", h.create)
	art.PUT("/products/:id", h.update)
	art.DELETE("/products/:id", h.deactivate)
	art.GET("/artisan/products", h.mine)
}

func (h *CatalogHandler) list(c *gin.Context) {
	items, err := h.svc.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	resp.OK(c, items)
}

func (h *CatalogHandler) detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.svc.GetProductDetail(c.Request.Context(), id)
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	resp.OK(c, d)
}

func (h *CatalogHandler) categories(c *gin.Context) {
	cs, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	resp.OK(c, cs)
}

type productIn struct {
	Titre       string  `json:"titre" binding:"required"`
	Prix        float64 `json:"prix"`
	PhotoURL    *string `json:"photoPrincipaleUrl"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	IDCategorie *uint   `json:"idCategorie"`
}

func (in *productIn) input() service.ProductInput {
	return service.ProductInput{
		Titre:       in.Titre,
		Prix:        in.Prix,
		PhotoURL:    in.PhotoURL,
		Description: in.Description,
		Stock:       in.Stock,
		CategoryID:  in.IDCategorie,
	}
}

func (h *CatalogHandler) create(c *gin.Context) {
	var in productIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), c.GetUint(mdw.KeyUserID), in.input())
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	resp.Created(c, p)
}

func (h *CatalogHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in productIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), c.GetUint(mdw.KeyUserID), id, in.input())
	if err != nil {
		h.writeCatalogError(c, err)
		return
	}
	resp.OK(c, p)
}

func (h *CatalogHandler) deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateProduct(c.Request.Context(), c.GetUint(mdw.KeyUserID), id); err != nil {
		h.writeCatalogError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id})
}

func (h *CatalogHandler) mine(c *gin.Context) {
	ps, err := h.svc.ListMyProducts(c.Request.Context(), c.GetUint(mdw.KeyUserID))
	if err != nil {
		resp.Err(c, http.StatusInternalServerError, "")
		return
	}
	resp.OK(c, ps)
}

func (h *CatalogHandler) writeCatalogError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		resp.Err(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		resp.Err(c, http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrForbidden):
		resp.Err(c, http.StatusForbidden, "")
	default:
		resp.Err(c, http.StatusInternalServerError, "")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resp.Err(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
