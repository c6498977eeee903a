package reserve_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/internal/integrations/customerdirectory"
	"github.com/beautycort/booking-core/internal/integrations/providerdirectory"
	"github.com/beautycort/booking-core/pkg/types"
)

// --- Фейки ---

type fakeBookingRepo struct {
	dayBookings []*domain.Booking
	created     *domain.Booking
	createErr   error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *booking
	created.ID = 100
	created.CreatedAt = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	return f.dayBookings, nil
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

type fakeProviderClient struct {
	provider    *providerdirectory.Provider
	providerErr error
	service     *providerdirectory.Service
	serviceErr  error
}

func (f *fakeProviderClient) GetProvider(_ context.Context, _ int64) (*providerdirectory.Provider, error) {
	if f.providerErr != nil {
		return nil, f.providerErr
	}
	return f.provider, nil
}

func (f *fakeProviderClient) GetService(_ context.Context, _, _ int64) (*providerdirectory.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

type fakeCustomerClient struct {
	customer *customerdirectory.Customer
	err      error
}

func (f *fakeCustomerClient) GetCustomerWithGracefulDegradation(_ context.Context, _ int64) (*customerdirectory.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.customer, nil
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

// 2026-03-10 — вторник
var (
	testNow  = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
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

func activeBooking(id int64, start types.TimeString, durationMinutes int) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		ProviderID:      2,
		BookingDate:     testDate,
		StartTime:       start,
		DurationMinutes: durationMinutes,
		Status:          domain.StatusConfirmed,
	}
}

type env struct {
	bookingRepo    *fakeBookingRepo
	scheduleRepo   *fakeScheduleRepo
	providerClient *fakeProviderClient
	customerClient *fakeCustomerClient
}

func newEnv() *env {
	return &env{
		bookingRepo:  &fakeBookingRepo{},
		scheduleRepo: &fakeScheduleRepo{schedule: openSchedule()},
		providerClient: &fakeProviderClient{
			provider: &providerdirectory.Provider{ID: 2, Name: "Glow Studio", Active: true},
			service:  &providerdirectory.Service{ID: 3, ProviderID: 2, Name: "Manicure", DurationMinutes: 60, Active: true},
		},
		customerClient: &fakeCustomerClient{
			customer: &customerdirectory.Customer{ID: 1, Name: "Lina", Phone: "+962790000001"},
		},
	}
}

func (e *env) useCase() *UseCase {
	return &UseCase{
		bookingRepo:    e.bookingRepo,
		scheduleRepo:   e.scheduleRepo,
		providerClient: e.providerClient,
		customerClient: e.customerClient,
		txManager:      &fakeTxManager{},
		timeProvider:   &fakeTimeProvider{now: testNow},
		logger:         nopLogger{},
	}
}

func validRequest() *Request {
	return &Request{
		CustomerID:    1,
		ProviderID:    2,
		ServiceID:     3,
		Date:          testDate,
		StartTime:     "10:00",
		TotalAmount:   2500,
		PaymentMethod: domain.PaymentCash,
	}
}

// --- Тесты ---

func TestExecute_Success(t *testing.T) {
	e := newEnv()

	resp, err := e.useCase().Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Manicure", resp.ServiceName)
	assert.Equal(t, "Lina", resp.CustomerName)
	assert.Equal(t, "+962790000001", resp.CustomerPhone)
	assert.Equal(t, int64(2500), resp.TotalAmount)
}

func TestExecute_AutoConfirm(t *testing.T) {
	e := newEnv()
	e.providerClient.provider.AutoConfirm = true

	resp, err := e.useCase().Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestExecute_SlotConflict(t *testing.T) {
	e := newEnv()
	e.bookingRepo.dayBookings = []*domain.Booking{activeBooking(7, "10:00", 60)}

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, e.bookingRepo.created)
}

func TestExecute_PartialOverlapConflict(t *testing.T) {
	e := newEnv()
	e.bookingRepo.dayBookings = []*domain.Booking{activeBooking(7, "10:30", 60)}

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_BackToBackSucceeds(t *testing.T) {
	e := newEnv()
	// Существующее бронирование 09:00-10:00, запрос на 10:00-11:00
	e.bookingRepo.dayBookings = []*domain.Booking{activeBooking(7, "09:00", 60)}

	resp, err := e.useCase().Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "10:00", resp.StartTime.String())
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	e := newEnv()
	cancelled := activeBooking(7, "10:00", 60)
	cancelled.Status = domain.StatusCancelled
	e.bookingRepo.dayBookings = []*domain.Booking{cancelled}

	_, err := e.useCase().Execute(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.StartTime = "17:30" // услуга 60 минут, закрытие в 18:00

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_ProviderClosedOnDate(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.Date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) // воскресенье

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrProviderClosed)
}

func TestExecute_BlackoutBlocksSlot(t *testing.T) {
	e := newEnv()
	e.scheduleRepo.schedule.Blackouts = []domain.Blackout{
		{Date: testDate, StartTime: "10:00", EndTime: "12:00"},
	}

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_DateInPast(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_ProviderNotFound(t *testing.T) {
	e := newEnv()
	e.providerClient.providerErr = providerdirectory.ErrProviderNotFound

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_ProviderInactive(t *testing.T) {
	e := newEnv()
	e.providerClient.provider.Active = false

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrProviderInactive)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	e := newEnv()
	e.providerClient.serviceErr = providerdirectory.ErrServiceNotFound

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveServiceTreatedAsNotFound(t *testing.T) {
	e := newEnv()
	e.providerClient.service.Active = false

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	e := newEnv()
	e.customerClient.err = customerdirectory.ErrCustomerNotFound

	_, err := e.useCase().Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_CustomerDirectoryDegraded(t *testing.T) {
	e := newEnv()
	e.customerClient.err = customerdirectory.ErrServiceDegraded

	// Недоступный каталог клиентов не блокирует бронирование
	resp, err := e.useCase().Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.CustomerName)
	assert.Empty(t, resp.CustomerPhone)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "zero customer", mutate: func(r *Request) { r.CustomerID = 0 }},
		{name: "negative provider", mutate: func(r *Request) { r.ProviderID = -1 }},
		{name: "zero service", mutate: func(r *Request) { r.ServiceID = 0 }},
		{name: "zero date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "empty start time", mutate: func(r *Request) { r.StartTime = "" }},
		{name: "bad start time", mutate: func(r *Request) { r.StartTime = "25:99" }},
		{name: "negative amount", mutate: func(r *Request) { r.TotalAmount = -1 }},
		{name: "unknown payment method", mutate: func(r *Request) { r.PaymentMethod = "crypto" }},
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

func TestExecute_IntervalCrossesMidnight(t *testing.T) {
	e := newEnv()
	e.providerClient.service.DurationMinutes = 120
	req := validRequest()
	req.StartTime = "23:00"

	_, err := e.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
