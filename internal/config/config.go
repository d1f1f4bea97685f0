package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	CORS   CORSConfig
	Repair RepairConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	Environment    string        `mapstructure:"environment"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	ShutdownPeriod time.Duration `mapstructure:"shutdown_period"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RepairConfig holds the defaults the repair engine fills in.
type RepairConfig struct {
	InvoiceDueDays     int    `mapstructure:"invoice_due_days"`
	QuotationValidDays int    `mapstructure:"quotation_valid_days"`
	Currency           string `mapstructure:"currency"`
	Locale             string `mapstructure:"locale"`
	Unit               string `mapstructure:"unit"`
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// Load reads configuration from environment variables with the DRAFTDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DRAFTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_bytes", 2<<20)
	v.SetDefault("server.shutdown_period", "10s")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Repair defaults
	v.SetDefault("repair.invoice_due_days", 7)
	v.SetDefault("repair.quotation_valid_days", 15)
	v.SetDefault("repair.currency", "INR")
	v.SetDefault("repair.locale", "en-IN")
	v.SetDefault("repair.unit", "pcs")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "DRAFTDESK_SERVER_PORT",
		"server.read_timeout":         "DRAFTDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "DRAFTDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":          "DRAFTDESK_SERVER_ENVIRONMENT",
		"server.max_body_bytes":       "DRAFTDESK_SERVER_MAX_BODY_BYTES",
		"server.shutdown_period":      "DRAFTDESK_SERVER_SHUTDOWN_PERIOD",
		"log.level":                   "DRAFTDESK_LOG_LEVEL",
		"log.format":                  "DRAFTDESK_LOG_FORMAT",
		"cors.allowed_origins":        "DRAFTDESK_CORS_ALLOWED_ORIGINS",
		"repair.invoice_due_days":     "DRAFTDESK_REPAIR_INVOICE_DUE_DAYS",
		"repair.quotation_valid_days": "DRAFTDESK_REPAIR_QUOTATION_VALID_DAYS",
		"repair.currency":             "DRAFTDESK_REPAIR_CURRENCY",
		"repair.locale":               "DRAFTDESK_REPAIR_LOCALE",
		"repair.unit":                 "DRAFTDESK_REPAIR_UNIT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DRAFTDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DRAFTDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		Environment:    v.GetString("server.environment"),
		MaxBodyBytes:   v.GetInt64("server.max_body_bytes"),
		ShutdownPeriod: v.GetDuration("server.shutdown_period"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Repair = RepairConfig{
		InvoiceDueDays:     v.GetInt("repair.invoice_due_days"),
		QuotationValidDays: v.GetInt("repair.quotation_valid_days"),
		Currency:           strings.ToUpper(strings.TrimSpace(v.GetString("repair.currency"))),
		Locale:             strings.TrimSpace(v.GetString("repair.locale")),
		Unit:               strings.TrimSpace(v.GetString("repair.unit")),
	}

	return cfg, nil
}
