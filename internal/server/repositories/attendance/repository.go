// Package attendance is the append-only check-in ledger.
package attendance

import (
	"context"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
)

// Repository stores check-ins. Dates are calendar days: only the year, month
// and day of the passed time.Time are used. Timestamps are absolute instants.
type Repository interface {
	HasCheckedIn(ctx context.Context, employeeID string, day time.Time) (bool, error)
	Create(ctx context.Context, a *models.Attendance) (*models.Attendance, error)
	ListByDate(ctx context.Context, day time.Time) ([]models.AttendanceView, error)
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]models.AttendanceView, error)
	CountByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (int, error)
	CountByEmployeeInDays(ctx context.Context, employeeID string, fromDay, toDay time.Time) (int, error)
	CountPerEmployeeInDays(ctx context.Context, fromDay, toDay time.Time) ([]models.EmployeeCount, error)
}
