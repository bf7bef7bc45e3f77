package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"articonnect-backend/internal/core/auth"
	"articonnect-backend/internal/domain"
	"articonnect-backend/internal/repo"
	"articonnect-backend/internal/transport/http/handler"
	"articonnect-backend/pkg/utils"
)

func newAdminEngine(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Utilisateur{}, &domain.Artisan{}, &domain.Categorie{}, &domain.Produit{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	adminH := handler.NewAdminHandler(repo.NewUserRepo(db), repo.NewCatalogRepo(db), jwter, zap.NewNop())
	return NewAdminEngine(zap.NewNop(), adminH, jwter), db
}

func seedAdminUsers(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	users := repo.NewUserRepo(db)
	for _, u := range []*domain.Utilisateur{
		{Nom: "Root", Email: "admin@x.com", MotDePasseHash: utils.HashPassword("adminpw"), Role: domain.RoleAdmin},
		{Nom: "Dupont", Prenom: "Sophie", Email: "sophie@x.com", MotDePasseHash: utils.HashPassword("pw"), Role: domain.RoleArtisan},
	} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
}

func TestAdmin_TokenAndUserManagement(t *testing.T) {
	r, db := newAdminEngine(t, "adminapi")
	seedAdminUsers(t, db)

	// 无令牌 → 401
	w := doJSON(t, r, http.MethodGet, "/admin/v1/users", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}

	// 非 admin 账号换不到令牌
	w = doJSON(t, r, http.MethodPost, "/admin/v1/auth/token",
		gin.H{"email": "sophie@x.com", "password": "pw"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("artisan token: %d", w.Code)
	}

	// admin 换令牌
	w = doJSON(t, r, http.MethodPost, "/admin/v1/auth/token",
		gin.H{"email": "admin@x.com", "password": "adminpw"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin token: %d %s", w.Code, w.Body.String())
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tok); err != nil || tok.Token == "" {
		t.Fatalf("token payload: %s", w.Body.String())
	}

	// 用户列表
	req := httptest.NewRequest(http.MethodGet, "/admin/v1/users?q=sophie", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: %d %s", rec.Code, rec.Body.String())
	}
	var list struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || list.Total != 1 {
		t.Fatalf("list payload: %s", rec.Body.String())
	}

	// 封禁（软删）：第一次 200，第二次 404
	var sophie domain.Utilisateur
	if err := db.First(&sophie, "email = ?", "sophie@x.com").Error; err != nil {
		t.Fatalf("find sophie: %v", err)
	}
	banPath := "/admin/v1/users/" + itoa(sophie.ID) + "/ban"
	for i, want := range []int{http.StatusOK, http.StatusNotFound} {
		req = httptest.NewRequest(http.MethodPost, banPath, nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("ban attempt %d: got %d want %d", i, rec.Code, want)
		}
	}
}
