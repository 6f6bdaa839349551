package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/satriastudio/studio-be/internal/fieldcodec"
)

// AppName identifies this service in logs and token issuers.
const AppName = "studio-be"

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const minJWTSecretLen = 32

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port               string
	DatabaseURL        string
	StorageDriver      string
	JWTSecret          string
	JWTIssuer          string
	JWTTTL             time.Duration
	EncryptionKey      []byte
	CORSOrigins        []string
	BcryptCost         int
	OrderRatePerMinute int
	LoginRatePerMinute int
}

// Load reads configuration from the environment. Missing or malformed secrets
// are errors: there are no built-in fallback keys.
func Load() (Config, error) {
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from an arbitrary key lookup.
func FromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:               fallback(getenv("PORT"), "8080"),
		DatabaseURL:        strings.TrimSpace(getenv("DATABASE_URL")),
		StorageDriver:      strings.ToLower(fallback(getenv("STORAGE_DRIVER"), DriverPostgres)),
		JWTSecret:          strings.TrimSpace(getenv("JWT_SECRET")),
		JWTIssuer:          fallback(getenv("JWT_ISSUER"), AppName),
		JWTTTL:             time.Duration(positiveInt(getenv("JWT_TTL_MINUTES"), 24*60)) * time.Minute,
		CORSOrigins:        parseCSV(fallback(getenv("CORS_ALLOWED_ORIGINS"), "*")),
		BcryptCost:         positiveInt(getenv("BCRYPT_COST"), bcrypt.DefaultCost),
		OrderRatePerMinute: positiveInt(getenv("ORDER_RATE_PER_MINUTE"), 5),
		LoginRatePerMinute: positiveInt(getenv("LOGIN_RATE_PER_MINUTE"), 10),
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretLen {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}

	rawKey := strings.TrimSpace(getenv("ENCRYPTION_KEY"))
	if rawKey == "" {
		return Config{}, errors.New("ENCRYPTION_KEY is required")
	}
	key, err := fieldcodec.KeyFromString(rawKey)
	if err != nil {
		return Config{}, fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}
	cfg.EncryptionKey = key

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(value string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
