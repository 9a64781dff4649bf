// Package report holds the aggregation shapes returned by the backend's
// report endpoints and the date-range presets used to query them. The view
// layer renders these objects as-is; the only computation done client-side is
// ratio formatting for display.
package report

import (
	"time"

	"github.com/dootask/assetsctl/internal/domain"
)

// Period is a named date-range preset.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodThisWeek  Period = "this_week"
	PeriodLastWeek  Period = "last_week"
	PeriodThisMonth Period = "this_month"
	PeriodLastMonth Period = "last_month"
	PeriodThisYear  Period = "this_year"
)

// Range is a half-open [From, To) interval.
type Range struct {
	From time.Time
	To   time.Time
}

// startOfDay truncates t to midnight in its location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday midnight at or before t.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := int(day.Weekday()-time.Monday+7) % 7
	return day.AddDate(0, 0, -offset)
}

// Resolve maps a preset to a concrete range relative to now. Weeks start on
// Monday.
func Resolve(p Period, now time.Time) (Range, error) {
	day := startOfDay(now)
	switch p {
	case PeriodToday:
		return Range{From: day, To: day.AddDate(0, 0, 1)}, nil
	case PeriodYesterday:
		return Range{From: day.AddDate(0, 0, -1), To: day}, nil
	case PeriodThisWeek:
		week := startOfWeek(now)
		return Range{From: week, To: week.AddDate(0, 0, 7)}, nil
	case PeriodLastWeek:
		week := startOfWeek(now)
		return Range{From: week.AddDate(0, 0, -7), To: week}, nil
	case PeriodThisMonth:
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{From: month, To: month.AddDate(0, 1, 0)}, nil
	case PeriodLastMonth:
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{From: month.AddDate(0, -1, 0), To: month}, nil
	case PeriodThisYear:
		year := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Range{From: year, To: year.AddDate(1, 0, 0)}, nil
	default:
		return Range{}, domain.ErrInvalidPeriod
	}
}

// Percent returns part/whole as a percentage, 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
