package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautycort/booking-core/internal/domain"
	storage "github.com/beautycort/booking-core/internal/infra/storage/booking"
	"github.com/beautycort/booking-core/internal/service/bookings/models"
	"github.com/beautycort/booking-core/pkg/ptr"
	"github.com/beautycort/booking-core/pkg/types"
)

// --- Фейки ---

type fakeBookingRepo struct {
	byID       *domain.Booking
	getErr     error
	list       []*domain.Booking
	listErr    error
	lastFilter domain.ProviderBookingsFilter
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byID, nil
}

func (f *fakeBookingRepo) GetByCustomerID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeBookingRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

type fakeTimeProvider struct{ now time.Time }

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Окружение ---

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func booking(id int64, status domain.BookingStatus, date time.Time, start string, amount int64) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		CustomerID:      1,
		ProviderID:      2,
		ServiceID:       3,
		BookingDate:     date,
		StartTime:       types.TimeString(start),
		DurationMinutes: 60,
		TotalAmount:     amount,
		Status:          status,
	}
}

func newService(repo *fakeBookingRepo) *Service {
	return &Service{
		bookingRepo:  repo,
		timeProvider: &fakeTimeProvider{now: testNow},
		logger:       nopLogger{},
	}
}

// --- Тесты ---

func TestGetByID(t *testing.T) {
	t.Run("customer sees own booking", func(t *testing.T) {
		repo := &fakeBookingRepo{byID: booking(42, domain.StatusPending, day(2026, 3, 12), "10:00", 2500)}
		svc := newService(repo)

		resp, err := svc.GetByID(context.Background(), 42, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "2026-03-12", resp.BookingDate)
	})

	t.Run("provider sees own booking", func(t *testing.T) {
		repo := &fakeBookingRepo{byID: booking(42, domain.StatusPending, day(2026, 3, 12), "10:00", 2500)}
		svc := newService(repo)

		_, err := svc.GetByID(context.Background(), 42, 2)
		require.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		repo := &fakeBookingRepo{byID: booking(42, domain.StatusPending, day(2026, 3, 12), "10:00", 2500)}
		svc := newService(repo)

		_, err := svc.GetByID(context.Background(), 42, 99)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakeBookingRepo{getErr: storage.ErrBookingNotFound}
		svc := newService(repo)

		_, err := svc.GetByID(context.Background(), 42, 1)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetProviderStats(t *testing.T) {
	repo := &fakeBookingRepo{list: []*domain.Booking{
		booking(1, domain.StatusConfirmed, day(2026, 3, 10), "10:00", 50),  // сегодня
		booking(2, domain.StatusConfirmed, day(2026, 3, 14), "10:00", 70),  // в пределах недели
		booking(3, domain.StatusCompleted, day(2026, 3, 1), "10:00", 40),   // в окне выручки
		booking(4, domain.StatusCompleted, day(2026, 2, 20), "10:00", 60),  // в окне выручки
		booking(5, domain.StatusCompleted, day(2026, 1, 15), "10:00", 999), // вне окна
		booking(6, domain.StatusCancelled, day(2026, 3, 9), "10:00", 25),
	}}
	svc := newService(repo)

	stats, err := svc.GetProviderStats(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 2, stats.Confirmed)
	assert.Equal(t, 3, stats.Completed)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 1, stats.TodayCount)
	assert.Equal(t, 2, stats.WeekCount)
	assert.Equal(t, int64(100), stats.MonthRevenue)

	// Статистика всегда считается по полной истории, включая терминальные
	assert.True(t, repo.lastFilter.IncludeInactive)
}

func TestGetProviderStats_EmptyHistory(t *testing.T) {
	svc := newService(&fakeBookingRepo{})

	stats, err := svc.GetProviderStats(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, int64(0), stats.MonthRevenue)
}

func TestGetUpcomingBookings(t *testing.T) {
	// Репозиторий отдаёт день сначала новыми - сервис пересортировывает
	repo := &fakeBookingRepo{list: []*domain.Booking{
		booking(3, domain.StatusConfirmed, day(2026, 3, 10), "15:00", 50),
		booking(2, domain.StatusPending, day(2026, 3, 10), "12:00", 50),
		booking(1, domain.StatusConfirmed, day(2026, 3, 10), "09:00", 50), // уже началось
	}}
	svc := newService(repo)

	// asOf 12:00 - бронирование на 09:00 отсекается, 12:00 остаётся
	result, err := svc.GetUpcomingBookings(context.Background(), 2, testNow)
	require.NoError(t, err)

	require.Len(t, result.Bookings, 2)
	assert.Equal(t, int64(2), result.Bookings[0].ID)
	assert.Equal(t, int64(3), result.Bookings[1].ID)

	// Запрашивается только сегодняшний день без терминальных статусов
	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Equal(t, day(2026, 3, 10), *repo.lastFilter.StartDate)
	assert.False(t, repo.lastFilter.IncludeInactive)
}

func TestGetProviderBookings_FreeTextFilter(t *testing.T) {
	lina := booking(1, domain.StatusConfirmed, day(2026, 3, 10), "10:00", 50)
	lina.CustomerName = "Lina Haddad"
	lina.CustomerPhone = "+962790000001"
	lina.ServiceName = "Manicure"

	sara := booking(2, domain.StatusConfirmed, day(2026, 3, 10), "12:00", 50)
	sara.CustomerName = "Sara Odeh"
	sara.CustomerPhone = "+962790000002"
	sara.ServiceName = "Hair Styling"

	repo := &fakeBookingRepo{list: []*domain.Booking{lina, sara}}
	svc := newService(repo)

	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{name: "by customer name case-insensitive", query: "lina", wantIDs: []int64{1}},
		{name: "by phone fragment", query: "0002", wantIDs: []int64{2}},
		{name: "by service name", query: "hair", wantIDs: []int64{2}},
		{name: "no match", query: "pedicure", wantIDs: []int64{}},
		{name: "blank query returns all", query: "   ", wantIDs: []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
				ProviderID: 2,
				FreeText:   ptr.Ptr(tt.query),
			})
			require.NoError(t, err)

			gotIDs := make([]int64, 0, len(result.Bookings))
			for _, b := range result.Bookings {
				gotIDs = append(gotIDs, b.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestGetProviderBookings_InvalidStatus(t *testing.T) {
	svc := newService(&fakeBookingRepo{})

	_, err := svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		ProviderID: 2,
		Status:     ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerBookings(t *testing.T) {
	repo := &fakeBookingRepo{list: []*domain.Booking{
		booking(1, domain.StatusCompleted, day(2026, 2, 10), "10:00", 50),
		booking(2, domain.StatusPending, day(2026, 3, 12), "10:00", 50),
	}}
	svc := newService(repo)

	result, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{CustomerID: 1})
	require.NoError(t, err)
	assert.Len(t, result.Bookings, 2)
}

func TestGetCustomerBookings_InvalidStatus(t *testing.T) {
	svc := newService(&fakeBookingRepo{})

	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 1,
		Status:     ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
