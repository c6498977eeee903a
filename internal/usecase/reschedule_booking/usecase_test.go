package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautycort/booking-core/internal/domain"
	storage "github.com/beautycort/booking-core/internal/infra/storage/booking"
	"github.com/beautycort/booking-core/pkg/types"
)

// --- Фейки ---

type fakeBookingRepo struct {
	booking     *domain.Booking
	getErr      error
	dayBookings []*domain.Booking
	updateErr   error

	updatedID    int64
	updatedDate  time.Time
	updatedStart types.TimeString
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	return f.dayBookings, nil
}

func (f *fakeBookingRepo) UpdateInterval(_ context.Context, id int64, date time.Time, startTime types.TimeString) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updatedDate = date
	f.updatedStart = startTime
	return nil
}

type fakeScheduleRepo struct {
	schedule *domain.ProviderSchedule
	err      error
}

func (f *fakeScheduleRepo) GetForDate(_ context.Context, _ int64, _ time.Time) (*domain.ProviderSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct{ now time.Time }

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Окружение ---

// 2026-03-12 — четверг
var (
	testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	newDate = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
)

func openSchedule() *domain.ProviderSchedule {
	day := domain.DaySchedule{IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"}
	return &domain.ProviderSchedule{
		ProviderID: 2,
		Hours: domain.WeeklyHours{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
	}
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              42,
		CustomerID:      1,
		ProviderID:      2,
		ServiceID:       3,
		BookingDate:     time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}
}

type env struct {
	bookingRepo  *fakeBookingRepo
	scheduleRepo *fakeScheduleRepo
}

func newEnv() *env {
	return &env{
		bookingRepo:  &fakeBookingRepo{booking: pendingBooking()},
		scheduleRepo: &fakeScheduleRepo{schedule: openSchedule()},
	}
}

func (e *env) useCase() *UseCase {
	return &UseCase{
		bookingRepo:  e.bookingRepo,
		scheduleRepo: e.scheduleRepo,
		txManager:    &fakeTxManager{},
		timeProvider: &fakeTimeProvider{now: testNow},
		logger:       nopLogger{},
	}
}

func validRequest() *Request {
	return &Request{
		BookingID:    42,
		ActorID:      1,
		NewDate:      newDate,
		NewStartTime: "14:00",
	}
}

// --- Тесты ---

func TestExecute_Success(t *testing.T) {
	e := newEnv()

	resp, err := e.useCase().Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, newDate, resp.BookingDate)
	assert.Equal(t, "14:00", resp.StartTime.String())
	assert.Equal(t, "pending", resp.Status)

	assert.Equal(t, int64(42), e.bookingRepo.updatedID)
	assert.Equal(t, newDate, e.bookingRepo.updatedDate)
	assert.Equal(t, types.TimeString("14:00"), e.bookingRepo.updatedStart)
}

func TestExecute_ProviderMayReschedule(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.ActorID = 2 // провайдер

	_, err := e.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_OwnIntervalDoesNotBlock(t *testing.T) {
	e := newEnv()
	// Переносим в пределах того же дня: собственный интервал не мешает
	own := pendingBooking()
	own.BookingDate = newDate
	e.bookingRepo.booking = own
	e.bookingRepo.dayBookings = []*domain.Booking{own}

	req := validRequest()
	req.NewStartTime = "10:30" // пересекается с собственным 10:00-11:00

	_, err := e.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestExecute_ConflictLeavesIntervalUnchanged(t *testing.T) {
	e := newEnv()
	other := pendingBooking()
	other.ID = 7
	other.BookingDate = newDate
	other.StartTime = "14:00"
	e.bookingRepo.dayBookings = []*domain.Booking{other}

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	// UpdateInterval не вызывался - интервал исходного бронирования нетронут
	assert.Zero(t, e.bookingRepo.updatedID)
}

func TestExecute_IntervalLockedAfterConfirmation(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled} {
		e := newEnv()
		e.bookingRepo.booking.Status = status

		_, err := e.useCase().Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrIntervalLocked)
		assert.Zero(t, e.bookingRepo.updatedID)
	}
}

func TestExecute_StaleStatusMapsToIntervalLocked(t *testing.T) {
	e := newEnv()
	e.bookingRepo.updateErr = storage.ErrStaleStatus

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrIntervalLocked)
}

func TestExecute_AccessDenied(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.ActorID = 99

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_BookingNotFound(t *testing.T) {
	e := newEnv()
	e.bookingRepo.getErr = storage.ErrBookingNotFound

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_NewDateInPast(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.NewDate = testNow.AddDate(0, 0, -1)

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ProviderClosedOnNewDate(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.NewDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) // воскресенье

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProviderClosed)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.NewStartTime = "17:30" // 60 минут, закрытие в 18:00

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "zero booking", mutate: func(r *Request) { r.BookingID = 0 }},
		{name: "zero actor", mutate: func(r *Request) { r.ActorID = 0 }},
		{name: "zero date", mutate: func(r *Request) { r.NewDate = time.Time{} }},
		{name: "empty start time", mutate: func(r *Request) { r.NewStartTime = "" }},
		{name: "bad start time", mutate: func(r *Request) { r.NewStartTime = "99:99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			req := validRequest()
			tt.mutate(req)

			_, err := e.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
