package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"articonnect-backend/internal/core/config"
	"articonnect-backend/internal/domain"
	"articonnect-backend/internal/repo"
	"articonnect-backend/internal/service"
	"articonnect-backend/internal/session"
	"articonnect-backend/internal/transport/http/handler"
)

const testCookie = "articonnect_session"

func newTestEngine(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
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

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := session.NewStore(client, time.Hour)
	users := repo.NewUserRepo(db)
	catalog := repo.NewCatalogRepo(db)
	log := zap.NewNop()

	authSvc := service.NewAuthService(users, sessions, log)
	catSvc := service.NewCatalogService(catalog, users, nil, log)

	sess := config.Session{CookieName: testCookie, TTLMin: 60}
	authH := handler.NewAuthHandler(authSvc, sess)
	catH := handler.NewCatalogHandler(catSvc, sessions, testCookie)

	return NewAPIEngine(log, authH, catH), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestAPI_RegisterLoginFlow(t *testing.T) {
	r, _ := newTestEngine(t, "apiauth")

	// 注册 → 201
	w := doJSON(t, r, http.MethodPost, "/api/register",
		gin.H{"email": "a@x.com", "password": "pw123", "nom": "Ana"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("mot_de_passe")) || bytes.Contains(w.Body.Bytes(), []byte("Hash")) {
		t.Fatalf("response leaks password material: %s", w.Body.String())
	}

	// 字段缺失 → 400
	w = doJSON(t, r, http.MethodPost, "/api/register", gin.H{"email": "b@x.com"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: %d", w.Code)
	}

	// 同邮箱 → 409，即使其他字段不同
	w = doJSON(t, r, http.MethodPost, "/api/register",
		gin.H{"email": "a@x.com", "password": "other", "nom": "Bob"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email: %d %s", w.Code, w.Body.String())
	}

	// 登录 → 200 + cookie + user.id
	w = doJSON(t, r, http.MethodPost, "/api/login",
		gin.H{"email": "a@x.com", "password": "pw123"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	ck := sessionCookie(t, w)
	var loginOut struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginOut); err != nil || loginOut.User.ID == 0 {
		t.Fatalf("login payload: %s err=%v", w.Body.String(), err)
	}

	// 密码错误与未知邮箱 → 同样的 401
	w = doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "a@x.com", "password": "wrong"}, nil)
	w2 := doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "ghost@x.com", "password": "pw"}, nil)
	if w.Code != http.StatusUnauthorized || w2.Code != http.StatusUnauthorized {
		t.Fatalf("auth errors: %d / %d", w.Code, w2.Code)
	}
	if w.Body.String() != w2.Body.String() {
		t.Fatalf("enumeration leak: %s vs %s", w.Body.String(), w2.Body.String())
	}

	// check_session → 已登录
	w = doJSON(t, r, http.MethodGet, "/api/check_session", nil, ck)
	var check struct {
		IsLoggedIn bool `json:"isLoggedIn"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &check); err != nil || !check.IsLoggedIn {
		t.Fatalf("check_session: %s", w.Body.String())
	}

	// 登出 → 200，随后 check_session 未登录
	w = doJSON(t, r, http.MethodPost, "/api/logout", nil, ck)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/check_session", nil, ck)
	if err := json.Unmarshal(w.Body.Bytes(), &check); err != nil || check.IsLoggedIn {
		t.Fatalf("after logout: %s", w.Body.String())
	}

	// 没带 cookie 的登出也 200
	w = doJSON(t, r, http.MethodPost, "/api/logout", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout without session: %d", w.Code)
	}
}

func TestAPI_Products(t *testing.T) {
	r, db := newTestEngine(t, "apicat")

	// artisan 注册 + 登录
	w := doJSON(t, r, http.MethodPost, "/api/register",
		gin.H{"email": "sophie@x.com", "password": "pw", "nom": "Dupont", "prenom": "Sophie",
			"role": "artisan", "nomEntreprise": "Atelier Dupont"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register artisan: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "sophie@x.com", "password": "pw"}, nil)
	ck := sessionCookie(t, w)

	// 未登录不能建商品
	w = doJSON(t, r, http.MethodPost, "/api/products", gin.H{"titre": "Table", "prix": 620}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("create without session: %d", w.Code)
	}

	// 登录后创建 → 201
	w = doJSON(t, r, http.MethodPost, "/api/products",
		gin.H{"titre": "Table basse en chêne", "prix": 620.0, "stock": 3}, ck)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == 0 {
		t.Fatalf("created payload: %s", w.Body.String())
	}

	// 列表
	w = doJSON(t, r, http.MethodGet, "/api/products", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("list payload: %s", w.Body.String())
	}
	if list[0]["imageUrl"] != service.PlaceholderImage {
		t.Fatalf("placeholder image: %v", list[0]["imageUrl"])
	}

	// 未知分类 → 空数组
	w = doJSON(t, r, http.MethodGet, "/api/products?category=Poterie", nil, nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("unknown category: %d %s", w.Code, w.Body.String())
	}

	// 详情 / 404 / 400
	w = doJSON(t, r, http.MethodGet, "/api/products/999999", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing product: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/products/abc", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", w.Code)
	}

	// 下架后对外 404，行还在
	w = doJSON(t, r, http.MethodDelete, "/api/products/"+itoa(created.ID), nil, ck)
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/products/"+itoa(created.ID), nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("inactive product visible: %d", w.Code)
	}
	var count int64
	if err := db.Model(&domain.Produit{}).Where("id = ?", created.ID).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("product row deleted: count=%d err=%v", count, err)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
