package users

import (
	"context"

	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
)

// Repository is the credential store: login identities with their role.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateSignature(ctx context.Context, id string, key *string) error
}
