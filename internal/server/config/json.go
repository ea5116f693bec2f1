package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hrkeeper/internal/flagx"
	"github.com/dmitrijs2005/hrkeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "15m" and integer nanoseconds are accepted; times of day are "HH:MM".
// Pointer fields distinguish "absent" from an explicit zero.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`
	LogLevel         string `json:"log_level"`

	SecretKey                   string          `json:"secret_key"`
	TokenIssuer                 string          `json:"token_issuer"`
	TokenAudience               string          `json:"token_audience"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`

	CheckInStart         *timex.TimeOfDay `json:"check_in_start"`
	CheckInEnd           *timex.TimeOfDay `json:"check_in_end"`
	AttendanceWindowDays *int             `json:"attendance_window_days"`
	DailyHours           *int             `json:"daily_hours"`
	TimeZone             string           `json:"time_zone"`

	AllowedOrigins []string `json:"allowed_origins"`
	TrustedProxies []string `json:"trusted_proxies"`

	SignatureDir      string `json:"signature_dir"`
	SignatureMaxBytes *int64 `json:"signature_max_bytes"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	RedisAddr          string          `json:"redis_addr"`
	RedisPassword      string          `json:"redis_password"`
	LoginMaxAttempts   *int            `json:"login_max_attempts"`
	LoginAttemptWindow *timex.Duration `json:"login_attempt_window"`

	AdminUserName string `json:"admin_user_name"`
	AdminPassword string `json:"admin_password"`

	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the JSON file named by -c/-config, if any, and overlays
// every field present in it onto config. Unreadable files or invalid JSON
// panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.SecretKey, c.SecretKey)
	setString(&config.TokenIssuer, c.TokenIssuer)
	setString(&config.TokenAudience, c.TokenAudience)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}

	if c.CheckInStart != nil {
		config.CheckInStart = *c.CheckInStart
	}
	if c.CheckInEnd != nil {
		config.CheckInEnd = *c.CheckInEnd
	}
	if c.AttendanceWindowDays != nil {
		config.AttendanceWindowDays = *c.AttendanceWindowDays
	}
	if c.DailyHours != nil {
		config.DailyHours = *c.DailyHours
	}
	setString(&config.TimeZone, c.TimeZone)

	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.TrustedProxies != nil {
		config.TrustedProxies = c.TrustedProxies
	}

	setString(&config.SignatureDir, c.SignatureDir)
	if c.SignatureMaxBytes != nil {
		config.SignatureMaxBytes = *c.SignatureMaxBytes
	}

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.LoginMaxAttempts != nil {
		config.LoginMaxAttempts = *c.LoginMaxAttempts
	}
	if c.LoginAttemptWindow != nil {
		config.LoginAttemptWindow = c.LoginAttemptWindow.Duration
	}

	setString(&config.AdminUserName, c.AdminUserName)
	setString(&config.AdminPassword, c.AdminPassword)

	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
