package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver string
	DBDSN    string

	ServerPort    string
	SessionSecret string
	SessionMaxAge int
	SecureCookies bool
	CORSOrigins   []string

	// пусто: заголовкам X-Forwarded-For не доверяем
	TrustedProxies []string

	LogMode string

	// при пустом REDIS_URL ограничение попыток входа выключено
	RedisURL         string
	LoginMaxAttempts int
	LoginWindow      time.Duration

	TracingEnabled bool
	OTLPEndpoint   string
	OTLPInsecure   bool

	AdminUsername string
	AdminPassword string
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:         getenv("DB_DRIVER", "postgres"),
		DBDSN:            os.Getenv("DB_DSN"),
		ServerPort:       getenv("SERVER_PORT", "8080"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SessionMaxAge:    getenvInt("SESSION_MAX_AGE_SECONDS", 86400),
		SecureCookies:    getenvBool("SESSION_SECURE"),
		CORSOrigins:      splitList(os.Getenv("CORS_ORIGINS")),
		TrustedProxies:   splitList(os.Getenv("TRUSTED_PROXIES")),
		LogMode:          getenv("LOG_MODE", "dev"),
		RedisURL:         os.Getenv("REDIS_URL"),
		LoginMaxAttempts: getenvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginWindow:      time.Duration(getenvInt("LOGIN_WINDOW_SECONDS", 900)) * time.Second,
		TracingEnabled:   getenvBool("OTEL_ENABLED"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:     getenvBool("OTEL_EXPORTER_OTLP_INSECURE"),
		AdminUsername:    getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []string
	if c.DBDSN == "" {
		errs = append(errs, "DB_DSN is not set")
	}
	if c.SessionSecret == "" {
		errs = append(errs, "SESSION_SECRET is not set")
	} else if len(c.SessionSecret) < 32 {
		errs = append(errs, "SESSION_SECRET must be at least 32 bytes")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Sprintf("TRUSTED_PROXIES entry %q is not an IP or CIDR", p))
			}
		}
	}
	if c.LoginMaxAttempts <= 0 {
		errs = append(errs, "LOGIN_MAX_ATTEMPTS must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
