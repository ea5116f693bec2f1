package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/dbx"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
)

const viewColumns = `a.id, a.employee_id, a.check_in_time, u.first_name, u.last_name,
		u.phone_number, COALESCE(u.national_id, ''), u.age, u.electronic_signature`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// dateArg renders the calendar day of t. Passing a string keeps the session
// time zone out of the DATE comparison.
func dateArg(t time.Time) string {
	return t.Format(time.DateOnly)
}

func (r *PostgresRepository) HasCheckedIn(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM attendance
		 WHERE employee_id = $1 AND check_in_date = $2::date)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, employeeID, dateArg(day)).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Create appends a record. A second record for the same employee and day
// violates the unique index and yields common.ErrAlreadyCheckedIn.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Attendance) (*models.Attendance, error) {
	query :=
		`INSERT INTO attendance (employee_id, check_in_time, check_in_date)
		 VALUES ($1, $2, $3::date)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, a.EmployeeID, a.CheckInTime, dateArg(a.CheckInDate)).Scan(&a.ID)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return nil, common.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) ListByDate(ctx context.Context, day time.Time) ([]models.AttendanceView, error) {
	query := `SELECT ` + viewColumns + `
		 FROM attendance a JOIN users u ON u.id = a.employee_id
		 WHERE a.check_in_date = $1::date
		 ORDER BY a.check_in_time
		 `
	return r.list(ctx, query, dateArg(day))
}

// ListByEmployeeBetween returns the employee's records with from <= check-in
// time <= to, most recent first.
func (r *PostgresRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]models.AttendanceView, error) {
	query := `SELECT ` + viewColumns + `
		 FROM attendance a JOIN users u ON u.id = a.employee_id
		 WHERE a.employee_id = $1 AND a.check_in_time >= $2 AND a.check_in_time <= $3
		 ORDER BY a.check_in_time DESC
		 `
	return r.list(ctx, query, employeeID, from, to)
}

// CountByEmployeeBetween counts records with from <= check-in time <= to.
func (r *PostgresRepository) CountByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	query :=
		`SELECT COUNT(*) FROM attendance
		 WHERE employee_id = $1 AND check_in_time >= $2 AND check_in_time <= $3
		 `
	return r.count(ctx, query, employeeID, from, to)
}

// CountByEmployeeInDays counts records with fromDay <= check-in date < toDay.
func (r *PostgresRepository) CountByEmployeeInDays(ctx context.Context, employeeID string, fromDay, toDay time.Time) (int, error) {
	query :=
		`SELECT COUNT(*) FROM attendance
		 WHERE employee_id = $1 AND check_in_date >= $2::date AND check_in_date < $3::date
		 `
	return r.count(ctx, query, employeeID, dateArg(fromDay), dateArg(toDay))
}

// CountPerEmployeeInDays returns one row per Employee-role user, including
// those with no records in [fromDay, toDay).
func (r *PostgresRepository) CountPerEmployeeInDays(ctx context.Context, fromDay, toDay time.Time) ([]models.EmployeeCount, error) {
	query :=
		`SELECT u.id, u.first_name, u.last_name, COUNT(a.id)
		 FROM users u
		 LEFT JOIN attendance a ON a.employee_id = u.id
		   AND a.check_in_date >= $1::date AND a.check_in_date < $2::date
		 WHERE u.role = $3
		 GROUP BY u.id, u.first_name, u.last_name
		 ORDER BY u.first_name, u.last_name
		 `

	rows, err := r.db.QueryContext(ctx, query, dateArg(fromDay), dateArg(toDay), string(common.RoleEmployee))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.EmployeeCount{}
	for rows.Next() {
		var c models.EmployeeCount
		if err := rows.Scan(&c.EmployeeID, &c.FirstName, &c.LastName, &c.Days); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.AttendanceView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.AttendanceView{}
	for rows.Next() {
		var v models.AttendanceView
		var sig sql.NullString
		if err := rows.Scan(&v.ID, &v.EmployeeID, &v.CheckInTime, &v.FirstName, &v.LastName,
			&v.PhoneNumber, &v.NationalID, &v.Age, &sig); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if sig.Valid {
			v.Signature = &sig.String
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
