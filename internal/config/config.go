package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config concentra a configuração da aplicação.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Alerts   AlertsConfig
	LogLevel string
}

// ServerConfig agrupa as opções do servidor HTTP.
type ServerConfig struct {
	Port string
}

// DatabaseConfig agrupa as opções de acesso ao Postgres.
// DSN vazio liga o modo in-memory (dev/testes).
type DatabaseConfig struct {
	DSN string
}

// SessionConfig controla a emissão de sessões.
type SessionConfig struct {
	TTLDays int
}

// AlertsConfig controla o job diário de alertas (sanidade + reprodução).
type AlertsConfig struct {
	Enabled      bool
	CronSchedule string
	HorizonDays  int
}

// Load lê as variáveis de ambiente (opcionalmente de um arquivo .env)
// e materializa um Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// .env ausente é aceitável quando a configuração vem do ambiente.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			DSN: os.Getenv("DB_DSN"),
		},
		Session: SessionConfig{
			TTLDays: getenvInt("SESSION_TTL_DAYS", 30),
		},
		Alerts: AlertsConfig{
			Enabled:      getenvBool("ALERTS_ENABLED", false),
			CronSchedule: getenvWithDefault("ALERTS_CRON_SCHEDULE", "0 6 * * *"),
			HorizonDays:  getenvInt("ALERTS_HORIZON_DAYS", 30),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate garante que os campos obrigatórios estão preenchidos.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("PORT must be provided")
	}
	if c.Session.TTLDays <= 0 {
		return errors.New("SESSION_TTL_DAYS must be positive")
	}
	if c.Alerts.Enabled && c.Alerts.CronSchedule == "" {
		return errors.New("ALERTS_CRON_SCHEDULE must be provided when alerts are enabled")
	}
	if c.Alerts.HorizonDays <= 0 {
		return errors.New("ALERTS_HORIZON_DAYS must be positive")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
