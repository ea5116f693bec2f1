package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) checkIn(c *gin.Context) {
	claims := claimsFrom(c)
	rec, err := s.deps.Attendance.CheckIn(c.Request.Context(), claims.UserID())
	if err != nil {
		s.fail(c, err)
		return
	}
	message(c, http.StatusOK, fmt.Sprintf("Check-in successful at %s", rec.CheckInTime.In(s.deps.Location).Format("15:04")))
}

func (s *Server) history(c *gin.Context) {
	list, err := s.deps.Attendance.History(c.Request.Context(), claimsFrom(c).UserID())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// daily lists check-ins for ?date=, today when absent.
func (s *Server) daily(c *gin.Context) {
	date := s.now()
	if v := c.Query("date"); v != "" {
		d, err := s.parseDate(v)
		if err != nil {
			s.fail(c, err)
			return
		}
		date = d
	}

	list, err := s.deps.Attendance.Daily(c.Request.Context(), date)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// weekly returns every employee's summary to an Admin and the caller's own
// summary to anyone else.
func (s *Server) weekly(c *gin.Context) {
	v := c.Query("weekStart")
	if v == "" {
		s.fail(c, fmt.Errorf("%w: weekStart is required", common.ErrorValidation))
		return
	}
	weekStart, err := s.parseDate(v)
	if err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	claims := claimsFrom(c)
	if claims.Role == common.RoleAdmin {
		list, err := s.deps.Attendance.WeeklySummaryAll(ctx, weekStart)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	sum, err := s.deps.Attendance.WeeklySummary(ctx, claims.UserID(), weekStart)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) hoursPerWeek(c *gin.Context) {
	hours, err := s.deps.Attendance.HoursLastWeek(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

// parseDate accepts YYYY-MM-DD in the configured zone or an RFC 3339
// timestamp.
func (s *Server) parseDate(v string) (time.Time, error) {
	if d, err := time.ParseInLocation(time.DateOnly, v, s.deps.Location); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a date (YYYY-MM-DD)", common.ErrorValidation, v)
}
