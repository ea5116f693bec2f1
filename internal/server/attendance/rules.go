// Package attendance holds the check-in policy: the daily window, the
// calendar-day boundary and the day/hour arithmetic behind summaries.
package attendance

import (
	"time"

	"github.com/dmitrijs2005/hrkeeper/internal/server/config"
	"github.com/dmitrijs2005/hrkeeper/internal/timex"
)

// Rules is immutable once built.
type Rules struct {
	start      timex.TimeOfDay
	end        timex.TimeOfDay
	windowDays int
	dailyHours int
	loc        *time.Location
}

// NewRules builds Rules from server config. cfg must have passed Validate.
func NewRules(cfg *config.Config) (Rules, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Rules{}, err
	}
	return Rules{
		start:      cfg.CheckInStart,
		end:        cfg.CheckInEnd,
		windowDays: cfg.AttendanceWindowDays,
		dailyHours: cfg.DailyHours,
		loc:        loc,
	}, nil
}

func (r Rules) Location() *time.Location { return r.loc }
func (r Rules) WindowDays() int          { return r.windowDays }
func (r Rules) DailyHours() int          { return r.dailyHours }

// InWindow reports whether the wall-clock time of now, in the configured
// zone, falls within [start, end]. Both bounds are inclusive.
func (r Rules) InWindow(now time.Time) bool {
	tod := timex.Of(now.In(r.loc))
	return tod >= r.start && tod <= r.end
}

// Day returns midnight of now's calendar date in the configured zone.
func (r Rules) Day(now time.Time) time.Time {
	y, m, d := now.In(r.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.loc)
}

// Week returns the half-open day range [start, start+windowDays) beginning
// on weekStart's calendar date.
func (r Rules) Week(weekStart time.Time) (time.Time, time.Time) {
	start := r.Day(weekStart)
	return start, start.AddDate(0, 0, r.windowDays)
}

// Trailing returns [now-windowDays, now].
func (r Rules) Trailing(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -r.windowDays), now
}

// Hours credits a fixed number of hours per attended day.
func (r Rules) Hours(days int) int {
	return days * r.dailyHours
}
