package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"CORS_ORIGINS", "BOOKING_TTL", "SESSION_TTL", "LAYOUT_CACHE_TTL",
	"EXPIRY_INTERVAL", "LOG_LEVEL", "LOG_FORMAT", "CURRENCY_SYMBOL",
}

// isolate unsets every setting and runs the test from an empty directory so
// no stray .env is picked up.
func isolate(t *testing.T) string {
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

// chdir changes the working directory for the rest of the test and restores
// it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, defaultPort, cfg.Port)
	require.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	require.Equal(t, defaultBookingTTL, cfg.BookingTTL)
	require.Equal(t, defaultSessionTTL, cfg.SessionTTL)
	require.Equal(t, defaultLayoutCacheTTL, cfg.LayoutCacheTTL)
	require.Equal(t, "₹", cfg.CurrencySymbol)
	require.Contains(t, cfg.Warnings, "PORT not set, using default 8080")
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("BOOKING_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("CURRENCY_SYMBOL", "$")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 5*time.Minute, cfg.BookingTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, "$", cfg.CurrencySymbol)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"BOOKING_TTL": "soon",
		"SESSION_TTL": "-1m",
		"REDIS_DB":    "two",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	dir := isolate(t)
	t.Setenv("PORT", "7000")

	content := "PORT=7100\nLOG_FORMAT=console\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Port)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, filepath.Join(dir, ".env"), cfg.EnvFile)
}

func TestParseCSV(t *testing.T) {
	require.Nil(t, ParseCSV(""))
	require.Equal(t, []string{"a", "b"}, ParseCSV(" a ,, b "))
}
