package infra

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds the service's own runtime configuration, parsed from
// environment variables. The orchestration configuration document itself is
// loaded separately from CONFIG_PATH.
type Settings struct {
	// Configuration document
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config/development.toml"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3200"`

	// Audit database (optional; empty disables load auditing)
	DatabaseURL string `env:"DATABASE_URL"`

	// Admin auth
	JWTSecret        string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	AdminTokenExpiry string `env:"ADMIN_TOKEN_EXPIRY" envDefault:"8h"`

	// Kafka reload signalling
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	ReloadTopic  string `env:"RELOAD_TOPIC" envDefault:"config.reloads"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadSettings parses environment variables into a Settings struct.
func LoadSettings() (*Settings, error) {
	s := &Settings{}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Validate checks for insecure configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (s *Settings) Validate() error {
	if s.AllowInsecureDefaults {
		return nil
	}
	if s.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(s.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(s.JWTSecret))
	}
	return nil
}

// AuditEnabled reports whether load auditing is configured.
func (s *Settings) AuditEnabled() bool {
	return s.DatabaseURL != ""
}
