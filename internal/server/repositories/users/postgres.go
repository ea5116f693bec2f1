package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/dbx"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	"github.com/google/uuid"
)

// Unique index names from the users migration.
const (
	usernameConstraint   = "users_username_key"
	nationalIDConstraint = "users_national_id_key"
)

const userColumns = `id, username, password_hash, role, first_name, last_name,
		phone_number, COALESCE(national_id, ''), age, electronic_signature`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user, assigning a new id when user.ID is empty. Duplicate
// usernames and national ids yield common.ErrUsernameTaken and
// common.ErrNationalIDTaken.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, password_hash, role, first_name, last_name,
		 phone_number, national_id, age, electronic_signature)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.UserName, user.PasswordHash, string(user.Role), user.FirstName, user.LastName,
		user.PhoneNumber, nullIfEmpty(user.NationalID), user.Age, user.Signature)

	if err != nil {
		return nil, MapUniqueViolation(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE username = $1
		 `
	return r.getOne(ctx, query, userName)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

// UpdateSignature replaces the stored signature key; nil clears it.
func (r *PostgresRepository) UpdateSignature(ctx context.Context, id string, key *string) error {
	query :=
		`UPDATE users SET electronic_signature = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var role string

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.UserName, &user.PasswordHash, &role, &user.FirstName, &user.LastName,
		&user.PhoneNumber, &user.NationalID, &user.Age, &user.Signature)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Role = common.Role(role)
	return user, nil
}

// MapUniqueViolation turns a unique violation on the users table into the
// matching conflict error and wraps anything else as a db error.
func MapUniqueViolation(err error) error {
	if constraint, ok := dbx.UniqueViolation(err); ok {
		switch constraint {
		case usernameConstraint:
			return common.ErrUsernameTaken
		case nationalIDConstraint:
			return common.ErrNationalIDTaken
		}
	}
	return fmt.Errorf("db error: %w", err)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
