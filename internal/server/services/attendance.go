package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/dmitrijs2005/hrkeeper/internal/dbx"
	"github.com/dmitrijs2005/hrkeeper/internal/logging"
	"github.com/dmitrijs2005/hrkeeper/internal/server/attendance"
	"github.com/dmitrijs2005/hrkeeper/internal/server/models"
	"github.com/dmitrijs2005/hrkeeper/internal/server/repositories/repomanager"
)

// AttendanceService applies attendance.Rules to the check-in ledger.
type AttendanceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	rules       attendance.Rules
	now         func() time.Time
	logger      logging.Logger
}

func NewAttendanceService(db *sql.DB, m repomanager.RepositoryManager, rules attendance.Rules,
	logger logging.Logger) *AttendanceService {
	return &AttendanceService{
		db:          db,
		repomanager: m,
		rules:       rules,
		now:         time.Now,
		logger:      logger.With("module", "attendance_service"),
	}
}

// Rules exposes the policy, e.g. for parsing dates in the configured zone.
func (s *AttendanceService) Rules() attendance.Rules {
	return s.rules
}

// CheckIn records today's attendance for the employee. It fails with
// common.ErrOutsideWindow outside the daily window and with
// common.ErrAlreadyCheckedIn on a second check-in the same day.
func (s *AttendanceService) CheckIn(ctx context.Context, employeeID string) (*models.Attendance, error) {
	now := s.now()
	if !s.rules.InWindow(now) {
		return nil, common.ErrOutsideWindow
	}

	rec := &models.Attendance{
		EmployeeID:  employeeID,
		CheckInTime: now,
		CheckInDate: s.rules.Day(now),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Attendance(tx)

		exists, err := repo.HasCheckedIn(ctx, employeeID, rec.CheckInDate)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrAlreadyCheckedIn
		}

		_, err = repo.Create(ctx, rec)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "check-in accepted", "employee_id", employeeID, "day", rec.CheckInDate.Format(time.DateOnly))
	return rec, nil
}

// Daily lists every check-in on date's calendar day.
func (s *AttendanceService) Daily(ctx context.Context, date time.Time) ([]models.AttendanceView, error) {
	list, err := s.repomanager.Attendance(s.db).ListByDate(ctx, s.rules.Day(date))
	if err != nil {
		return nil, fmt.Errorf("error listing daily attendance: %w", err)
	}
	return list, nil
}

// History lists the employee's check-ins in the trailing window, newest first.
func (s *AttendanceService) History(ctx context.Context, employeeID string) ([]models.AttendanceView, error) {
	from, to := s.rules.Trailing(s.now())
	list, err := s.repomanager.Attendance(s.db).ListByEmployeeBetween(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance history: %w", err)
	}
	return list, nil
}

// WeeklySummary counts the employee's attended days in the window starting on
// weekStart. No records give a zero summary.
func (s *AttendanceService) WeeklySummary(ctx context.Context, employeeID string, weekStart time.Time) (*models.WeeklySummary, error) {
	if !validID(employeeID) {
		return nil, common.ErrorNotFound
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	start, end := s.rules.Week(weekStart)
	days, err := s.repomanager.Attendance(s.db).CountByEmployeeInDays(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error counting attendance: %w", err)
	}

	return &models.WeeklySummary{
		EmployeeID:   u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		WeekStart:    start,
		WeekEnd:      end,
		DaysAttended: days,
		TotalHours:   s.rules.Hours(days),
	}, nil
}

// WeeklySummaryAll returns one summary per employee, each with that
// employee's own count.
func (s *AttendanceService) WeeklySummaryAll(ctx context.Context, weekStart time.Time) ([]models.WeeklySummary, error) {
	start, end := s.rules.Week(weekStart)
	counts, err := s.repomanager.Attendance(s.db).CountPerEmployeeInDays(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error counting attendance: %w", err)
	}

	result := make([]models.WeeklySummary, 0, len(counts))
	for _, c := range counts {
		result = append(result, models.WeeklySummary{
			EmployeeID:   c.EmployeeID,
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			WeekStart:    start,
			WeekEnd:      end,
			DaysAttended: c.Days,
			TotalHours:   s.rules.Hours(c.Days),
		})
	}
	return result, nil
}

// HoursLastWeek credits the employee's check-ins in the trailing window.
func (s *AttendanceService) HoursLastWeek(ctx context.Context, employeeID string) (int, error) {
	if !validID(employeeID) {
		return 0, common.ErrorNotFound
	}
	from, to := s.rules.Trailing(s.now())
	days, err := s.repomanager.Attendance(s.db).CountByEmployeeBetween(ctx, employeeID, from, to)
	if err != nil {
		return 0, fmt.Errorf("error counting attendance: %w", err)
	}
	return s.rules.Hours(days), nil
}
