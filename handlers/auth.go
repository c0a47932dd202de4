package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/middleware"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
)

type AuthHandler struct {
	config   *config.Config
	activity *services.ActivityLogger
}

func NewAuthHandler(cfg *config.Config, activity *services.ActivityLogger) *AuthHandler {
	return &AuthHandler{
		config:   cfg,
		activity: activity,
	}
}

// Login checks the single configured admin account and issues a 24-hour
// token. A missing password hash disables login entirely rather than
// falling back to any default credential.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Email and password are required",
		})
		return
	}

	if h.config.AdminPasswordHash == "" {
		log.Printf("[Auth] login rejected: admin password hash not configured")
		c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Error:   "Invalid email or password",
		})
		return
	}

	if !strings.EqualFold(req.Email, h.config.AdminEmail) ||
		bcrypt.CompareHashAndPassword([]byte(h.config.AdminPasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Error:   "Invalid email or password",
		})
		return
	}

	token, err := h.generateToken()
	if err != nil {
		log.Printf("[Auth] token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to generate token",
		})
		return
	}

	h.activity.Log("admin_login", "Admin signed in", "auth", h.config.AdminEmail)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token: token,
			Email: h.config.AdminEmail,
			Name:  h.config.AdminName,
		},
	})
}

// GetMe echoes the identity carried by the verified token.
func (h *AuthHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data: gin.H{
			"email": c.GetString("email"),
			"name":  c.GetString("name"),
			"role":  c.GetString("role"),
		},
	})
}

func (h *AuthHandler) generateToken() (string, error) {
	claims := middleware.Claims{
		Email: h.config.AdminEmail,
		Name:  h.config.AdminName,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
