package config

import (
	"os"
	"strings"
)

type Config struct {
	FirebaseDatabaseURL     string
	FirebaseCredentialsFile string
	JWTSecret               string
	AdminEmail              string
	AdminPasswordHash       string
	AdminName               string
	NotifyEmail             string
	EmailJSServiceID        string
	EmailJSTemplateID       string
	EmailJSPublicKey        string
	EmailJSPrivateKey       string
	EmailJSURL              string
	Port                    string
	Environment             string
	AllowedOrigins          []string
}

func NewConfig() *Config {
	allowedOriginsStr := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := []string{"http://localhost:3000"}
	if allowedOriginsStr != "" {
		allowedOrigins = strings.Split(allowedOriginsStr, ",")
	}

	return &Config{
		FirebaseDatabaseURL:     os.Getenv("FIREBASE_DATABASE_URL"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		AdminEmail:              getEnvOrDefault("ADMIN_EMAIL", "sanz.the.nanny@gmail.com"),
		AdminPasswordHash:       os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminName:               getEnvOrDefault("ADMIN_NAME", "Sanz"),
		NotifyEmail:             getEnvOrDefault("NOTIFY_EMAIL", "sanz.the.nanny@gmail.com"),
		EmailJSServiceID:        os.Getenv("EMAILJS_SERVICE_ID"),
		EmailJSTemplateID:       os.Getenv("EMAILJS_TEMPLATE_ID"),
		EmailJSPublicKey:        os.Getenv("EMAILJS_PUBLIC_KEY"),
		EmailJSPrivateKey:       os.Getenv("EMAILJS_PRIVATE_KEY"),
		EmailJSURL:              getEnvOrDefault("EMAILJS_URL", "https://api.emailjs.com/api/v1.0/email/send"),
		Port:                    getEnvOrDefault("PORT", "8080"),
		Environment:             getEnvOrDefault("ENVIRONMENT", "development"),
		AllowedOrigins:          allowedOrigins,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
