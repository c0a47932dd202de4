package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/middleware"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

func newAuthRouter(t *testing.T, password string) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	cfg := testConfig()
	cfg.AdminPasswordHash = string(hash)

	st := store.NewMemory()
	h := NewAuthHandler(cfg, services.NewActivityLogger(st))

	router := gin.New()
	router.POST("/api/v1/auth/login", h.Login)
	protected := router.Group("", middleware.AuthMiddleware(cfg), middleware.RoleMiddleware("admin"))
	protected.GET("/api/v1/auth/me", h.GetMe)
	return router, cfg
}

func TestLoginIssuesToken(t *testing.T) {
	router, cfg := newAuthRouter(t, "hunter2hunter2")

	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "SANZ.THE.NANNY@gmail.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data models.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatal("no token in response")
	}
	if resp.Data.Email != cfg.AdminEmail {
		t.Errorf("email = %q", resp.Data.Email)
	}

	// The token opens the protected surface.
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Data.Token)
	rec := newRecorder(router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newAuthRouter(t, "hunter2hunter2")

	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "sanz.the.nanny@gmail.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "intruder@example.com",
		"password": "hunter2hunter2",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong email: status = %d, want 401", w.Code)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	router, _ := newAuthRouter(t, "hunter2hunter2")

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := newRecorder(router, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = newRecorder(router, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}
}
