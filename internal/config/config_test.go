package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	validSecret = "0123456789abcdef0123456789abcdef"
	validHexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

func lookup(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://studio@localhost:5432/studio",
		"JWT_SECRET":     validSecret,
		"ENCRYPTION_KEY": validHexKey,
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookup(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, AppName, cfg.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.OrderRatePerMinute)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Len(t, cfg.EncryptionKey, 32)
	assert.Equal(t, byte(0x1f), cfg.EncryptionKey[31])
}

func TestFromLookupOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9000"
	env["STORAGE_DRIVER"] = "Memory"
	env["DATABASE_URL"] = ""
	env["JWT_TTL_MINUTES"] = "30"
	env["CORS_ALLOWED_ORIGINS"] = "https://studio.example, ,https://admin.example"
	env["ENCRYPTION_KEY"] = strings.Repeat("k", 32)
	env["BCRYPT_COST"] = "11"

	cfg, err := FromLookup(lookup(env))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://studio.example", "https://admin.example"}, cfg.CORSOrigins)
	assert.Equal(t, []byte(strings.Repeat("k", 32)), cfg.EncryptionKey)
	assert.Equal(t, 11, cfg.BcryptCost)
}

func TestFromLookupFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{name: "missing secret", mutate: func(e map[string]string) { delete(e, "JWT_SECRET") }, wantErr: "JWT_SECRET is required"},
		{name: "short secret", mutate: func(e map[string]string) { e["JWT_SECRET"] = "short" }, wantErr: "at least 32 bytes"},
		{name: "missing key", mutate: func(e map[string]string) { delete(e, "ENCRYPTION_KEY") }, wantErr: "ENCRYPTION_KEY is required"},
		{name: "truncated key", mutate: func(e map[string]string) { e["ENCRYPTION_KEY"] = strings.Repeat("a", 34) }, wantErr: "ENCRYPTION_KEY"},
		{name: "missing database url", mutate: func(e map[string]string) { delete(e, "DATABASE_URL") }, wantErr: "DATABASE_URL is required"},
		{name: "unknown driver", mutate: func(e map[string]string) { e["STORAGE_DRIVER"] = "sqlite" }, wantErr: "unknown STORAGE_DRIVER"},
		{name: "bcrypt cost too high", mutate: func(e map[string]string) { e["BCRYPT_COST"] = "99" }, wantErr: "BCRYPT_COST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)
			_, err := FromLookup(lookup(env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
