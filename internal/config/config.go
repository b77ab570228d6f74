package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
// LLM_API_KEY no es obligatoria: sin ella cada auditoria usa el reporte de respaldo.
type Config struct {
	HTTPPort             string        `env:"HTTP_PORT" envDefault:"8080"`
	LLMProvider          string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMAPIKey            string        `env:"LLM_API_KEY"`
	LLMBaseURL           string        `env:"LLM_BASE_URL"`
	LLMModel             string        `env:"LLM_MODEL"`
	AnalyzingMinDuration time.Duration `env:"ANALYZING_MIN_DURATION" envDefault:"3s"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SMTPHost             string        `env:"SMTP_HOST"`
	SMTPPort             int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser             string        `env:"SMTP_USER"`
	SMTPPass             string        `env:"SMTP_PASS"`
	SMTPFrom             string        `env:"SMTP_FROM"`
	SMTPFromName         string        `env:"SMTP_FROM_NAME" envDefault:"GrowthMind"`
	SMTPUseTLS           bool          `env:"SMTP_USE_TLS" envDefault:"false"`
	LeadNotifyTo         string        `env:"LEAD_NOTIFY_TO"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
