package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPSecure     bool // Implicit TLS (SMTPS); otherwise STARTTLS when the relay offers it
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string // Envelope sender, must be an address the relay trusts
	SMTPTimeoutSec int
	// Contact form
	ContactEmailTo       string
	ContactSubjectPrefix string
	// Branding for the notification email layout
	BrandName     string
	BrandTagline  string
	BrandLocation string
	SiteURL       string
	// HTTP surface
	AllowedOrigins []string
	SwaggerEnabled bool
}

func LoadConfig() (*Config, error) {
	// Load .env file (only useful locally, ignored when the file is absent)
	_ = godotenv.Load()

	ginMode := getEnv("GIN_MODE", "debug")
	smtpPort := getEnv("SMTP_PORT", "465")
	username := getEnv("SMTP_USERNAME", "")

	cfg := &Config{
		Port:     getEnv("PORT", "3000"),
		GinMode:  ginMode,
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       smtpPort,
		SMTPSecure:     getEnvBool("SMTP_SECURE", smtpPort == "465"),
		SMTPUsername:   username,
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", username), // Relays usually only accept the login address
		SMTPTimeoutSec: getEnvInt("SMTP_TIMEOUT_SECONDS", 30),
		// Contact form
		ContactEmailTo:       getEnv("CONTACT_EMAIL_TO", ""),
		ContactSubjectPrefix: getEnv("CONTACT_SUBJECT_PREFIX", "Contact Inquiry: "),
		// Branding
		BrandName:     getEnv("BRAND_NAME", "AURELIX"),
		BrandTagline:  getEnv("BRAND_TAGLINE", "NUTRA LAB · QUALITY & WELLNESS"),
		BrandLocation: getEnv("BRAND_LOCATION", "Aurelix Nutra Lab | Ahmedabad, Gujarat, India"),
		SiteURL:       strings.TrimRight(getEnv("SITE_URL", "https://aurelixnutralab.com"), "/"),
		// HTTP surface
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "https://aurelixnutralab.com"}),
		SwaggerEnabled: getEnvBool("SWAGGER_ENABLED", ginMode != "release"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Missing credentials are not fatal: /health keeps answering and the
	// contact endpoint reports a delivery failure.
	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		log.Println("WARNING: SMTP_USERNAME/SMTP_PASSWORD missing. Contact emails cannot be sent.")
	}
	if cfg.ContactEmailTo == "" {
		log.Println("WARNING: CONTACT_EMAIL_TO not configured. Contact emails cannot be sent.")
	}

	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if port, err := strconv.Atoi(c.SMTPPort); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid SMTP_PORT %q", c.SMTPPort)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE %q", c.GinMode)
	}
	if c.SMTPTimeoutSec <= 0 {
		return fmt.Errorf("SMTP_TIMEOUT_SECONDS must be positive, got %d", c.SMTPTimeoutSec)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
