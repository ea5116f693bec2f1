package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/flagx"
	"github.com/dmitrijs2005/hrkeeper/internal/timex"
)

var allowedFlags = []string{
	"-a", "-d", "-l", "-s", "-t", "-cs", "-ce", "-wd", "-dh", "-z", "-o",
	"-k", "-u", "-p", "-b", "-g", "-e", "-r",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-l string   log level (debug, info, warn, error)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-cs string  check-in window start, HH:MM
//	-ce string  check-in window end, HH:MM
//	-wd int     attendance window, days
//	-dh int     hours credited per attended day
//	-z string   time zone for the check-in window and day boundary (IANA name or "Local")
//	-o string   comma-separated CORS origins
//	-k string   local signature storage root
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name (enables S3 signature storage)
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-r string   Redis address (enables login throttling)
//
// os.Args is first filtered down to these flags with flagx.FilterArgs, so
// bootstrap flags such as -c and -env do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], allowedFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	checkInStart := fs.String("cs", config.CheckInStart.String(), "check-in window start (HH:MM)")
	checkInEnd := fs.String("ce", config.CheckInEnd.String(), "check-in window end (HH:MM)")
	fs.IntVar(&config.AttendanceWindowDays, "wd", config.AttendanceWindowDays, "attendance window (in days)")
	fs.IntVar(&config.DailyHours, "dh", config.DailyHours, "hours per attended day")
	fs.StringVar(&config.TimeZone, "z", config.TimeZone, "time zone")

	origins := fs.String("o", "", "comma-separated allowed CORS origins")

	fs.StringVar(&config.SignatureDir, "k", config.SignatureDir, "signature storage root")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["t"] {
		config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	}

	var err error
	if set["cs"] {
		if config.CheckInStart, err = timex.ParseTimeOfDay(*checkInStart); err != nil {
			panic(err)
		}
	}
	if set["ce"] {
		if config.CheckInEnd, err = timex.ParseTimeOfDay(*checkInEnd); err != nil {
			panic(err)
		}
	}
	if set["o"] {
		config.AllowedOrigins = splitList(*origins)
	}
}
