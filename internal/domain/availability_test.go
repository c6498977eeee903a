package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/beautycort/booking-core/pkg/types"
)

// 2026-03-10 — вторник
var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func openSchedule() ProviderSchedule {
	day := DaySchedule{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"}
	return ProviderSchedule{
		ProviderID: 2,
		Hours: WeeklyHours{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
	}
}

func activeBooking(id int64, start string, durationMinutes int) *Booking {
	return &Booking{
		ID:              id,
		ProviderID:      2,
		BookingDate:     testDate,
		StartTime:       types.TimeString(start),
		DurationMinutes: durationMinutes,
		Status:          StatusConfirmed,
	}
}

func TestProviderSchedule_Within(t *testing.T) {
	sched := openSchedule()

	t.Run("inside working hours", func(t *testing.T) {
		assert.True(t, sched.Within(mustInterval(t, 2, testDate, "10:00", "11:00")))
	})

	t.Run("exactly the working day", func(t *testing.T) {
		assert.True(t, sched.Within(mustInterval(t, 2, testDate, "09:00", "18:00")))
	})

	t.Run("starts before opening", func(t *testing.T) {
		assert.False(t, sched.Within(mustInterval(t, 2, testDate, "08:30", "09:30")))
	})

	t.Run("ends after closing", func(t *testing.T) {
		assert.False(t, sched.Within(mustInterval(t, 2, testDate, "17:30", "18:30")))
	})

	t.Run("closed day", func(t *testing.T) {
		sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
		assert.False(t, sched.Within(mustInterval(t, 2, sunday, "10:00", "11:00")))
	})

	t.Run("blackout blocks intersecting interval", func(t *testing.T) {
		withBlackout := openSchedule()
		withBlackout.Blackouts = []Blackout{
			{Date: testDate, StartTime: "12:00", EndTime: "13:00"},
		}

		assert.False(t, withBlackout.Within(mustInterval(t, 2, testDate, "12:30", "13:30")))
		assert.False(t, withBlackout.Within(mustInterval(t, 2, testDate, "11:30", "12:30")))
		// Стык с blackout не считается пересечением
		assert.True(t, withBlackout.Within(mustInterval(t, 2, testDate, "11:00", "12:00")))
		assert.True(t, withBlackout.Within(mustInterval(t, 2, testDate, "13:00", "14:00")))
	})

	t.Run("blackout on another date is ignored", func(t *testing.T) {
		withBlackout := openSchedule()
		withBlackout.Blackouts = []Blackout{
			{Date: testDate.AddDate(0, 0, 1), StartTime: "10:00", EndTime: "18:00"},
		}
		assert.True(t, withBlackout.Within(mustInterval(t, 2, testDate, "10:00", "11:00")))
	})
}

func TestAvailabilityIndex_IsFree(t *testing.T) {
	sched := openSchedule()

	t.Run("empty day is free", func(t *testing.T) {
		index := NewAvailabilityIndex(sched, nil)
		assert.True(t, index.IsFree(mustInterval(t, 2, testDate, "10:00", "11:00")))
	})

	t.Run("overlapping active booking blocks slot", func(t *testing.T) {
		index := NewAvailabilityIndex(sched, []*Booking{activeBooking(1, "10:00", 60)})
		assert.False(t, index.IsFree(mustInterval(t, 2, testDate, "10:30", "11:30")))
	})

	t.Run("back-to-back slot is free", func(t *testing.T) {
		index := NewAvailabilityIndex(sched, []*Booking{activeBooking(1, "10:00", 60)})
		assert.True(t, index.IsFree(mustInterval(t, 2, testDate, "11:00", "12:00")))
		assert.True(t, index.IsFree(mustInterval(t, 2, testDate, "09:00", "10:00")))
	})

	t.Run("terminal bookings do not occupy slots", func(t *testing.T) {
		cancelled := activeBooking(1, "10:00", 60)
		cancelled.Status = StatusCancelled
		completed := activeBooking(2, "14:00", 60)
		completed.Status = StatusCompleted

		index := NewAvailabilityIndex(sched, []*Booking{cancelled, completed})
		assert.True(t, index.IsFree(mustInterval(t, 2, testDate, "10:00", "11:00")))
		assert.True(t, index.IsFree(mustInterval(t, 2, testDate, "14:00", "15:00")))
	})

	t.Run("outside working hours is never free", func(t *testing.T) {
		index := NewAvailabilityIndex(sched, nil)
		assert.False(t, index.IsFree(mustInterval(t, 2, testDate, "18:00", "19:00")))
	})
}

func TestAvailabilityIndex_IsFreeExcept(t *testing.T) {
	sched := openSchedule()
	own := activeBooking(42, "10:00", 60)
	other := activeBooking(7, "14:00", 60)
	dayBookings := []*Booking{own, other}
	index := NewAvailabilityIndex(sched, dayBookings)

	// Собственный интервал не блокирует перенос
	assert.True(t, index.IsFreeExcept(mustInterval(t, 2, testDate, "10:30", "11:30"), dayBookings, 42))

	// Чужой интервал блокирует
	assert.False(t, index.IsFreeExcept(mustInterval(t, 2, testDate, "13:30", "14:30"), dayBookings, 42))

	// Рабочие часы проверяются и при переносе
	assert.False(t, index.IsFreeExcept(mustInterval(t, 2, testDate, "08:00", "09:00"), dayBookings, 42))
}
