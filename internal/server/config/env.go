package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/flagx"
	"github.com/dmitrijs2005/hrkeeper/internal/timex"
	"github.com/joho/godotenv"
)

// loadDotenv reads the file given via -env, or ./.env when present. Variables
// already set in the process environment win over the file.
func loadDotenv() {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays HRK_* environment variables onto config. Malformed
// values panic, like malformed flags do.
func parseEnv(config *Config) {
	loadDotenv()

	envString(&config.EndpointAddrHTTP, "HRK_HTTP_ADDR")
	envString(&config.DatabaseDSN, "HRK_DATABASE_DSN")
	envString(&config.LogLevel, "HRK_LOG_LEVEL")

	envString(&config.SecretKey, "HRK_JWT_SECRET")
	envString(&config.TokenIssuer, "HRK_JWT_ISSUER")
	envString(&config.TokenAudience, "HRK_JWT_AUDIENCE")
	envDuration(&config.AccessTokenValidityDuration, "HRK_JWT_TTL")

	envTimeOfDay(&config.CheckInStart, "HRK_CHECKIN_START")
	envTimeOfDay(&config.CheckInEnd, "HRK_CHECKIN_END")
	envInt(&config.AttendanceWindowDays, "HRK_ATTENDANCE_WINDOW_DAYS")
	envInt(&config.DailyHours, "HRK_DAILY_HOURS")
	envString(&config.TimeZone, "HRK_TIMEZONE")

	envList(&config.AllowedOrigins, "HRK_CORS_ORIGINS")
	envList(&config.TrustedProxies, "HRK_TRUSTED_PROXIES")

	envString(&config.SignatureDir, "HRK_SIGNATURE_DIR")
	envInt64(&config.SignatureMaxBytes, "HRK_SIGNATURE_MAX_BYTES")

	envString(&config.S3RootUser, "HRK_S3_ROOT_USER")
	envString(&config.S3RootPassword, "HRK_S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "HRK_S3_BUCKET")
	envString(&config.S3Region, "HRK_S3_REGION")
	envString(&config.S3BaseEndpoint, "HRK_S3_BASE_ENDPOINT")

	envString(&config.RedisAddr, "HRK_REDIS_ADDR")
	envString(&config.RedisPassword, "HRK_REDIS_PASSWORD")
	envInt(&config.LoginMaxAttempts, "HRK_LOGIN_MAX_ATTEMPTS")
	envDuration(&config.LoginAttemptWindow, "HRK_LOGIN_ATTEMPT_WINDOW")

	envString(&config.AdminUserName, "HRK_ADMIN_USERNAME")
	envString(&config.AdminPassword, "HRK_ADMIN_PASSWORD")

	envDuration(&config.ShutdownTimeout, "HRK_SHUTDOWN_TIMEOUT")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			panic(key + ": " + err.Error())
		}
		*dst = n
	}
}

func envInt64(dst *int64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			panic(key + ": " + err.Error())
		}
		*dst = n
	}
}

func envDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			panic(key + ": " + err.Error())
		}
		*dst = d
	}
}

func envTimeOfDay(dst *timex.TimeOfDay, key string) {
	if v, ok := os.LookupEnv(key); ok {
		t, err := timex.ParseTimeOfDay(strings.TrimSpace(v))
		if err != nil {
			panic(key + ": " + err.Error())
		}
		*dst = t
	}
}

func envList(dst *[]string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = splitList(v)
	}
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
