// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the bootstrap Admin.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/logging"
	"github.com/dmitrijs2005/hrkeeper/internal/server/auth"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hrkeeper/internal/server/throttle"
)

// LoginResult is the authenticated user together with a fresh access token.
type LoginResult struct {
	User  *models.User
	Token string
}

// UserService provides authentication-related operations:
// - Register: create Employee accounts
// - Login: verify credentials and mint tokens
// - EnsureAdmin: create the configured Admin account on startup
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	limiter     throttle.Limiter
	logger      logging.Logger
}

// NewUserService constructs a UserService. A nil limiter disables throttling.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer,
	limiter throttle.Limiter, logger logging.Logger) *UserService {
	if limiter == nil {
		limiter = throttle.Nop{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		limiter:     limiter,
		logger:      logger.With("module", "user_service"),
	}
}

// Login verifies credentials. The user name is matched as Register stores
// it, without surrounding blanks. Unknown users and wrong passwords both yield
// common.ErrorUnauthorized after a bcrypt comparison of similar cost.
// Once the limiter trips, common.ErrTooManyAttempts is returned instead.
func (s *UserService) Login(ctx context.Context, userName, password, clientIP string) (*LoginResult, error) {
	userName = strings.TrimSpace(userName)
	key := throttle.Key(userName, clientIP)

	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "login throttle unavailable", logging.Err(err))
	}
	if !allowed {
		return nil, common.ErrTooManyAttempts
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnCompare(password)
			s.recordFailure(ctx, key)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", logging.Err(err))
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.recordFailure(ctx, key)
		return nil, common.ErrorUnauthorized
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn(ctx, "login throttle reset failed", logging.Err(err))
	}

	token, err := s.issuer.GenerateToken(user.ID, user.UserName, user.Role)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Register creates an Employee account and returns an access token for it.
func (s *UserService) Register(ctx context.Context, in EmployeeInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	user, err := newEmployee(in)
	if err != nil {
		return "", common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if common.IsConflict(err) {
			return "", err
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.issuer.GenerateToken(u.ID, u.UserName, u.Role)
	if err != nil {
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return token, nil
}

// EnsureAdmin creates an Admin account named userName unless the name is
// already taken. Empty credentials are a no-op.
func (s *UserService) EnsureAdmin(ctx context.Context, userName, password string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return nil
	}

	repo := s.repomanager.Users(s.db)
	_, err := repo.GetUserByLogin(ctx, userName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error looking up admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{
		UserName:     userName,
		PasswordHash: hash,
		Role:         common.RoleAdmin,
		Age:          MinAge,
	})
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	s.logger.Info(ctx, "admin account created", "user_id", u.ID, "user_name", userName)
	return nil
}

func (s *UserService) recordFailure(ctx context.Context, key string) {
	if err := s.limiter.Fail(ctx, key); err != nil {
		s.logger.Warn(ctx, "login throttle update failed", logging.Err(err))
	}
}
