// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/hrkeeper/internal/logging"
	"github.com/dmitrijs2005/hrkeeper/internal/server/attendance"
	"github.com/dmitrijs2005/hrkeeper/internal/server/auth"
	"github.com/dmitrijs2005/hrkeeper/internal/server/config"
	"github.com/dmitrijs2005/hrkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hrkeeper/internal/server/services"
	"github.com/dmitrijs2005/hrkeeper/internal/server/storage"
	"github.com/dmitrijs2005/hrkeeper/internal/server/throttle"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	httpSrv *httpapi.Server
}

// NewApp opens the database, applies migrations, creates the bootstrap
// Admin and builds the HTTP server. Resources opened before a failure are
// closed.
func NewApp(ctx context.Context, c *config.Config) (app *App, err error) {
	logger := logging.NewJSONLogger(c.LogLevel)
	app = &App{config: c, logger: logger}
	defer func() {
		if err != nil {
			app.close(ctx)
			app = nil
		}
	}()

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	app.db, err = sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := app.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(app.db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, publicDir, err := app.signatureStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("signature storage error: %w", err)
	}

	rules, err := attendance.NewRules(c)
	if err != nil {
		return nil, err
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.TokenIssuer, c.TokenAudience, c.AccessTokenValidityDuration)

	us := services.NewUserService(app.db, rm, issuer, app.limiter(), logger)
	es := services.NewEmployeeService(app.db, rm, store, c.SignatureMaxBytes, logger)
	as := services.NewAttendanceService(app.db, rm, rules, logger)

	if err := us.EnsureAdmin(ctx, c.AdminUserName, c.AdminPassword); err != nil {
		return nil, err
	}

	app.httpSrv = httpapi.NewServer(c, logger, httpapi.Deps{
		Users:      us,
		Employees:  es,
		Attendance: as,
		Issuer:     issuer,
		DB:         app.db,
		Location:   loc,
		PublicDir:  publicDir,
	})

	return app, nil
}

// signatureStore picks S3 when a bucket is configured and local disk
// otherwise. publicDir is empty for S3.
func (app *App) signatureStore(ctx context.Context) (store storage.SignatureStore, publicDir string, err error) {
	c := app.config
	if c.S3Bucket != "" {
		s3, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, "", err
		}
		app.logger.Info(ctx, "Signatures stored in S3", "bucket", c.S3Bucket)
		return s3, "", nil
	}

	local, err := storage.NewLocalStore(c.SignatureDir)
	if err != nil {
		return nil, "", err
	}
	app.logger.Info(ctx, "Signatures stored on disk", "dir", local.Root())
	return local, local.PublicDir(), nil
}

func (app *App) limiter() throttle.Limiter {
	c := app.config
	if c.RedisAddr == "" {
		return throttle.Nop{}
	}
	app.redis = redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
	})
	return throttle.NewRedisLimiter(app.redis, c.LoginMaxAttempts, c.LoginAttemptWindow)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpSrv.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server error", logging.Err(err))
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", logging.Err(err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "db close error", logging.Err(err))
		}
	}
}
