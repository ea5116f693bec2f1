// Package httpapi is the JSON-over-HTTP surface of hrkeeper, built on gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/logging"
	"github.com/dmitrijs2005/hrkeeper/internal/server/auth"
	"github.com/dmitrijs2005/hrkeeper/internal/server/config"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	"github.com/dmitrijs2005/hrkeeper/internal/server/services"
	"github.com/dmitrijs2005/hrkeeper/internal/server/storage"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Login(ctx context.Context, userName, password, clientIP string) (*services.LoginResult, error)
	Register(ctx context.Context, in services.EmployeeInput) (string, error)
}

type EmployeeService interface {
	List(ctx context.Context, q services.ListQuery) (models.Page[models.User], error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, in services.EmployeeInput) (*models.User, error)
	Update(ctx context.Context, id string, in services.EmployeeUpdate) error
	Delete(ctx context.Context, id string) error
	UploadSignature(ctx context.Context, id string, f *services.SignatureFile) (string, error)
	Signature(ctx context.Context, id string) (string, error)
}

type AttendanceService interface {
	CheckIn(ctx context.Context, employeeID string) (*models.Attendance, error)
	Daily(ctx context.Context, date time.Time) ([]models.AttendanceView, error)
	History(ctx context.Context, employeeID string) ([]models.AttendanceView, error)
	WeeklySummary(ctx context.Context, employeeID string, weekStart time.Time) (*models.WeeklySummary, error)
	WeeklySummaryAll(ctx context.Context, weekStart time.Time) ([]models.WeeklySummary, error)
	HoursLastWeek(ctx context.Context, employeeID string) (int, error)
}

// Pinger reports database liveness; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer calls into.
type Deps struct {
	Users      UserService
	Employees  EmployeeService
	Attendance AttendanceService
	Issuer     *auth.Issuer
	DB         Pinger
	// Location is the zone date parameters are interpreted in.
	Location *time.Location
	// PublicDir, when set, is served at /signatures.
	PublicDir string
}

type Server struct {
	address         string
	origins         []string
	trustedProxies  []string
	shutdownTimeout time.Duration
	deps            Deps
	now             func() time.Time
	logger          logging.Logger
	engine          *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, d Deps) *Server {
	if d.Location == nil {
		d.Location = time.Local
	}
	registerValidators()

	s := &Server{
		address:         cfg.EndpointAddrHTTP,
		origins:         cfg.AllowedOrigins,
		trustedProxies:  cfg.TrustedProxies,
		shutdownTimeout: cfg.ShutdownTimeout,
		deps:            d,
		now:             time.Now,
		logger:          l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 4 << 20
	// ClientIP keys the login throttle; only listed proxies may set it.
	if err := r.SetTrustedProxies(s.trustedProxies); err != nil {
		s.logger.Error(context.Background(), "invalid trusted proxies, trusting none", logging.Err(err))
	}
	r.Use(s.recovery(), s.requestLogger(), cors(s.origins))

	r.GET("/healthz", s.health)
	if s.deps.PublicDir != "" {
		r.Static("/"+storage.SignaturePrefix, s.deps.PublicDir)
	}

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)

	authed := api.Group("", authenticate(s.deps.Issuer))

	att := authed.Group("/attendance")
	att.POST("/check-in", requireRole(common.RoleEmployee), s.checkIn)
	att.GET("/history", requireRole(common.RoleEmployee), s.history)
	att.GET("/daily", requireRole(common.RoleAdmin), s.daily)
	att.GET("/weekly", s.weekly)
	att.GET("/attendanceperweek/:id", requireRole(common.RoleAdmin), s.hoursPerWeek)

	emp := authed.Group("/employees")
	emp.GET("/signature", s.signature)
	emp.POST("/:id/signature", s.uploadSignature)

	admin := emp.Group("", requireRole(common.RoleAdmin))
	admin.GET("", s.listEmployees)
	admin.POST("", s.createEmployee)
	admin.GET("/:id", s.getEmployee)
	admin.PUT("/:id", s.updateEmployee)
	admin.DELETE("/:id", s.deleteEmployee)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}

func (s *Server) health(c *gin.Context) {
	if s.deps.DB != nil {
		if err := s.deps.DB.PingContext(c.Request.Context()); err != nil {
			s.logger.Error(c.Request.Context(), "health check failed", logging.Err(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
