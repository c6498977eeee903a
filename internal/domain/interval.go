package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/beautycort/booking-core/pkg/types"
)

// ErrInvalidInterval возвращается при попытке создать интервал с start >= end
var ErrInvalidInterval = errors.New("domain: interval start must be before end")

// TimeInterval is a half-open [start, end) time range on a specific calendar
// date for a specific provider, in minute-granularity provider-local
// wall-clock time. Immutable value type
type TimeInterval struct {
	ProviderID int64
	Date       time.Time
	Start      types.TimeString
	End        types.TimeString
}

// NewTimeInterval constructs a validated interval.
// The date is truncated to a calendar day
func NewTimeInterval(providerID int64, date time.Time, start, end types.TimeString) (TimeInterval, error) {
	if err := start.Validate(); err != nil {
		return TimeInterval{}, err
	}
	if err := end.Validate(); err != nil {
		return TimeInterval{}, err
	}
	if !start.IsBefore(end) {
		return TimeInterval{}, fmt.Errorf("%w: %s >= %s", ErrInvalidInterval, start, end)
	}
	return TimeInterval{
		ProviderID: providerID,
		Date:       DateOnly(date),
		Start:      start,
		End:        end,
	}, nil
}

// DurationMinutes returns the interval length in minutes
func (i TimeInterval) DurationMinutes() int {
	return i.End.Minutes() - i.Start.Minutes()
}

// Overlaps returns true if both intervals belong to the same provider and
// date and their half-open ranges intersect. Back-to-back intervals
// (one ending exactly where the other starts) do not overlap
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	if i.ProviderID != other.ProviderID {
		return false
	}
	if !SameDay(i.Date, other.Date) {
		return false
	}
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

// ContainedIn returns true if the interval lies fully inside the outer range
func (i TimeInterval) ContainedIn(open, close types.TimeString) bool {
	return !i.Start.IsBefore(open) && !i.End.IsAfter(close)
}

// String returns a human-readable representation for logs
func (i TimeInterval) String() string {
	return fmt.Sprintf("provider=%d %s %s-%s", i.ProviderID, i.Date.Format(DateFormat), i.Start, i.End)
}

// DateOnly обнуляет время, оставляя только календарную дату
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay проверяет, что две даты относятся к одному и тому же дню
func SameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}
