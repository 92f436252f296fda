// Package biztime provides business-timezone date boundary helpers for the
// analytics aggregators. All storage and transport is UTC; the business
// timezone is only used to decide where a "day", "week" or "month" starts.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when no business timezone is configured.
const DefaultTimezone = "UTC"

var (
	bizLocation *time.Location
	bizOnce     sync.Once
	initErr     error
)

// Init sets the business timezone. Call once at startup.
func Init(tz string) error {
	bizOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit panics when the timezone cannot be loaded.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone, auto-initializing to the default.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: auto-init failed: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00:00 of t's business day, converted to UTC.
func StartOfDayUTC(t time.Time) time.Time {
	bt := t.In(Location())
	return time.Date(bt.Year(), bt.Month(), bt.Day(), 0, 0, 0, 0, Location()).UTC()
}

// StartOfMonthUTC returns the first instant of t's business month in UTC.
func StartOfMonthUTC(t time.Time) time.Time {
	bt := t.In(Location())
	return time.Date(bt.Year(), bt.Month(), 1, 0, 0, 0, 0, Location()).UTC()
}

// DayKey formats t as a business-day bucket key (YYYY-MM-DD).
func DayKey(t time.Time) string {
	return t.In(Location()).Format("2006-01-02")
}

// WeekKey formats t as a business ISO-week bucket key (YYYY-Www).
func WeekKey(t time.Time) string {
	year, week := t.In(Location()).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// HourOfDay returns t's hour in the business timezone.
func HourOfDay(t time.Time) int {
	return t.In(Location()).Hour()
}
