package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":             "www.example:9000",
		"database_dsn":                   "postgres://hr",
		"log_level":                      "warn",
		"secret_key":                     "my_secret_key",
		"token_issuer":                   "iss",
		"token_audience":                 "aud",
		"access_token_validity_duration": "1m",
		"check_in_start":                 "06:45",
		"check_in_end":                   "08:15",
		"attendance_window_days":         14,
		"daily_hours":                    0,
		"time_zone":                      "UTC",
		"allowed_origins":                []string{"https://hr.example"},
		"trusted_proxies":                []string{"172.16.0.1"},
		"signature_dir":                  "/data/sig",
		"signature_max_bytes":            1024,
		"s3_root_user":                   "user",
		"s3_root_password":               "password",
		"s3_bucket":                      "bucket",
		"s3_region":                      "region",
		"s3_base_endpoint":               "base_endpoint",
		"redis_addr":                     "redis:6379",
		"redis_password":                 "pw",
		"login_max_attempts":             3,
		"login_attempt_window":           60000000000,
		"shutdown_timeout":               "3s",
		"admin_user_name":                "root",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://hr", cfg.DatabaseDSN)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, "iss", cfg.TokenIssuer)
		assert.Equal(t, "aud", cfg.TokenAudience)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, timex.MustTimeOfDay("06:45"), cfg.CheckInStart)
		assert.Equal(t, timex.MustTimeOfDay("08:15"), cfg.CheckInEnd)
		assert.Equal(t, 14, cfg.AttendanceWindowDays)
		assert.Equal(t, 0, cfg.DailyHours, "explicit zero overrides the default")
		assert.Equal(t, "UTC", cfg.TimeZone)
		assert.Equal(t, []string{"https://hr.example"}, cfg.AllowedOrigins)
		assert.Equal(t, []string{"172.16.0.1"}, cfg.TrustedProxies)
		assert.Equal(t, "/data/sig", cfg.SignatureDir)
		assert.Equal(t, int64(1024), cfg.SignatureMaxBytes)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "pw", cfg.RedisPassword)
		assert.Equal(t, 3, cfg.LoginMaxAttempts)
		assert.Equal(t, time.Minute, cfg.LoginAttemptWindow)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "root", cfg.AdminUserName)
	})

	t.Run("short alias -c", func(t *testing.T) {
		path := writeTempJSON(t, dir, "short.json", map[string]any{"secret_key": "short"})
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "short", cfg.SecretKey)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP, "absent keys keep their value")
		assert.Equal(t, 8, cfg.DailyHours)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg
		parseJson(cfg)

		assert.Equal(t, want, *cfg)
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("invalid time of day → panics", func(t *testing.T) {
		bad := writeTempJSON(t, dir, "badtime.json", map[string]any{"check_in_start": "25:00"})
		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
