package domain

import (
	"time"

	"github.com/beautycort/booking-core/pkg/types"
)

// DaySchedule represents the declared working hours for one weekday
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// WeeklyHours represents a provider's declared weekly working schedule
type WeeklyHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForDate returns the working hours declared for the weekday of the given date
func (w WeeklyHours) ForDate(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// Blackout is a dated interval during which the provider takes no bookings
// regardless of the weekly schedule
type Blackout struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    *string
}

// ProviderSchedule is the declared schedule data for one provider:
// weekly working hours plus dated blackout intervals.
// Read-only to this service; owned by the provider directory
type ProviderSchedule struct {
	ProviderID int64
	Hours      WeeklyHours
	Blackouts  []Blackout
	UpdatedAt  time.Time
}

// Within returns true if the interval is fully contained in the working hours
// for its date and does not intersect any blackout interval.
// Pure function: no clock, no I/O
func (s ProviderSchedule) Within(interval TimeInterval) bool {
	day := s.Hours.ForDate(interval.Date)
	if !day.IsOpen || day.OpenTime.IsZero() || day.CloseTime.IsZero() {
		return false
	}
	if !interval.ContainedIn(day.OpenTime, day.CloseTime) {
		return false
	}

	for _, blackout := range s.Blackouts {
		if !SameDay(blackout.Date, interval.Date) {
			continue
		}
		// Пересечение с blackout проверяется как полуоткрытый интервал
		if interval.Start.IsBefore(blackout.EndTime) && blackout.StartTime.IsBefore(interval.End) {
			return false
		}
	}

	return true
}
