package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/users"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"username":  "LOWER(username)",
	"firstname": "LOWER(first_name)",
	"lastname":  "LOWER(last_name)",
	"age":       "age",
}

const searchClause = "first_name ILIKE ? OR last_name ILIKE ? OR national_id ILIKE ? OR phone_number ILIKE ? OR username ILIKE ?"

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) employees(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", string(common.RoleEmployee))
}

// List returns one page of employees and the total number of matches.
func (r *GormRepository) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	query := r.employees(ctx)
	if s := strings.TrimSpace(q.Search); s != "" {
		p := "%" + escapeLike(s) + "%"
		query = query.Where(searchClause, p, p, p, p, p)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	list := []models.User{}
	err := query.Order(orderBy(q.SortBy, q.Ascending)).Offset(q.Offset).Limit(q.Limit).Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return list, total, nil
}

func (r *GormRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.employees(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

// Update applies column -> value pairs to one employee.
func (r *GormRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.employees(ctx).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return users.MapUniqueViolation(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes the employee; the ledger cascades.
func (r *GormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, string(common.RoleEmployee)).
		Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func orderBy(sortBy string, ascending bool) string {
	col, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		return "LOWER(first_name) ASC, id"
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	return col + " " + dir + ", id"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
