package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-l", "debug", "-s", "secret", "-t", "15",
			"-cs", "08:00", "-ce", "10:30", "-wd", "5", "-dh", "6", "-z", "UTC",
			"-o", "http://a.example,http://b.example", "-k", "/srv/sig",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-r", "redis:6379",
		}, expected: &Config{
			EndpointAddrHTTP:            "127.0.0.1:9090",
			DatabaseDSN:                 "db",
			LogLevel:                    "debug",
			SecretKey:                   "secret",
			AccessTokenValidityDuration: 15 * time.Minute,
			CheckInStart:                timex.MustTimeOfDay("08:00"),
			CheckInEnd:                  timex.MustTimeOfDay("10:30"),
			AttendanceWindowDays:        5,
			DailyHours:                  6,
			TimeZone:                    "UTC",
			AllowedOrigins:              []string{"http://a.example", "http://b.example"},
			SignatureDir:                "/srv/sig",
			S3RootUser:                  "user",
			S3RootPassword:              "password",
			S3Bucket:                    "bucket",
			S3Region:                    "us-west-1",
			S3BaseEndpoint:              "http://endpoint",
			RedisAddr:                   "redis:6379",
		}},
		{name: "foreign flags are ignored", args: []string{"cmd", "-c", "conf.json", "-env", ".env", "-x", "1"},
			expected: &Config{}},
		{name: "bad time of day", args: []string{"cmd", "-cs", "7.30"}, expectPanic: true},
		{name: "bad int", args: []string{"cmd", "-wd", "seven"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsUnsetValues(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-a", ":9000"}

	var c Config
	c.LoadDefaults()
	c.AccessTokenValidityDuration = 90 * time.Second

	parseFlags(&c)

	assert.Equal(t, ":9000", c.EndpointAddrHTTP)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration, "unset -t must not truncate the duration")
	assert.Equal(t, timex.MustTimeOfDay("07:30"), c.CheckInStart)
	assert.Equal(t, []string{"http://localhost:4200"}, c.AllowedOrigins)
}
