// Package employees is the directory view of Employee-role users, backed by
// gorm over the shared *sql.DB.
package employees

import (
	"context"

	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
)

// ListQuery selects one slice of the directory. SortBy is one of username,
// firstname, lastname or age (case-insensitive); anything else sorts by first
// name ascending.
type ListQuery struct {
	Search    string
	SortBy    string
	Ascending bool
	Offset    int
	Limit     int
}

type Repository interface {
	List(ctx context.Context, q ListQuery) ([]models.User, int64, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}
