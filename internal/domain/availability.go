package domain

// AvailabilityIndex is a point-in-time view of one provider/date: the
// declared schedule plus the intervals of all non-terminal bookings.
// It is derived state - always built from rows read inside the enclosing
// reservation transaction, never cached across transactions
type AvailabilityIndex struct {
	schedule ProviderSchedule
	booked   []TimeInterval
}

// NewAvailabilityIndex builds the index from the provider schedule and the
// bookings read for the target date. Terminal bookings do not occupy slots
// and are skipped; bookings whose interval cannot be derived are skipped too
func NewAvailabilityIndex(schedule ProviderSchedule, bookings []*Booking) *AvailabilityIndex {
	booked := make([]TimeInterval, 0, len(bookings))
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		interval, err := booking.Interval()
		if err != nil {
			continue
		}
		booked = append(booked, interval)
	}
	return &AvailabilityIndex{schedule: schedule, booked: booked}
}

// IsFree returns true if the interval lies within working hours, avoids all
// blackouts, and overlaps no non-terminal booking
func (a *AvailabilityIndex) IsFree(interval TimeInterval) bool {
	if !a.schedule.Within(interval) {
		return false
	}
	return a.countOverlapping(interval) == 0
}

// IsFreeExcept behaves like IsFree but ignores the booking with the given ID.
// Used by reschedule: the booking's own current interval must not block its
// new interval
func (a *AvailabilityIndex) IsFreeExcept(interval TimeInterval, bookings []*Booking, excludeID int64) bool {
	if !a.schedule.Within(interval) {
		return false
	}
	for _, booking := range bookings {
		if booking.ID == excludeID || !booking.IsActive() {
			continue
		}
		other, err := booking.Interval()
		if err != nil {
			continue
		}
		if interval.Overlaps(other) {
			return false
		}
	}
	return true
}

func (a *AvailabilityIndex) countOverlapping(interval TimeInterval) int {
	count := 0
	for _, other := range a.booked {
		if interval.Overlaps(other) {
			count++
		}
	}
	return count
}
