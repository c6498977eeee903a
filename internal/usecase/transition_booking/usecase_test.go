package transition_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautycort/booking-core/internal/domain"
	storage "github.com/beautycort/booking-core/internal/infra/storage/booking"
	"github.com/beautycort/booking-core/internal/integrations/notifier"
	"github.com/beautycort/booking-core/pkg/ptr"
)

// --- Фейки ---

type fakeBookingRepo struct {
	booking *domain.Booking
	getErr  error

	updatedFrom domain.BookingStatus
	updatedTo   domain.BookingStatus
	cancelledID int64
	reason      string
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, from, to domain.BookingStatus) error {
	f.updatedFrom = from
	f.updatedTo = to
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, from domain.BookingStatus, reason string) error {
	f.cancelledID = id
	f.updatedFrom = from
	f.reason = reason
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifier.StatusChangedEvent
	done   chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 1)}
}

func (f *fakeNotifier) BookingStatusChanged(_ context.Context, event notifier.StatusChangedEvent) error {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeNotifier) waitForEvent(t *testing.T) notifier.StatusChangedEvent {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("notification was not dispatched")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.events, 1)
	return f.events[0]
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

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              42,
		CustomerID:      1,
		ProviderID:      2,
		ServiceID:       3,
		BookingDate:     time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}
}

func newUseCase(repo *fakeBookingRepo, n NotifierClient) *UseCase {
	return &UseCase{
		bookingRepo:  repo,
		notifier:     n,
		txManager:    &fakeTxManager{},
		timeProvider: &fakeTimeProvider{now: testNow},
		logger:       nopLogger{},
	}
}

// --- Тесты ---

func TestExecute_Confirm(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	n := newFakeNotifier()
	uc := newUseCase(repo, n)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      2, // провайдер
		TargetStatus: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, domain.StatusPending, repo.updatedFrom)
	assert.Equal(t, domain.StatusConfirmed, repo.updatedTo)

	event := n.waitForEvent(t)
	assert.Equal(t, int64(42), event.BookingID)
	assert.Equal(t, "confirmed", event.Status)
}

func TestExecute_Complete(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	repo := &fakeBookingRepo{booking: booking}
	uc := newUseCase(repo, newFakeNotifier())

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      2,
		TargetStatus: domain.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestExecute_CancelByCustomer(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	n := newFakeNotifier()
	uc := newUseCase(repo, n)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      1, // клиент
		TargetStatus: domain.StatusCancelled,
		Reason:       ptr.Ptr("не смогу прийти"),
	})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "не смогу прийти", *resp.CancellationReason)
	assert.Equal(t, int64(42), repo.cancelledID)
	assert.Equal(t, "не смогу прийти", repo.reason)

	event := n.waitForEvent(t)
	assert.Equal(t, "cancelled", event.Status)
	require.NotNil(t, event.Reason)
	assert.Equal(t, "не смогу прийти", *event.Reason)
}

func TestExecute_CancelByProvider(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	repo := &fakeBookingRepo{booking: booking}
	uc := newUseCase(repo, newFakeNotifier())

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      2,
		TargetStatus: domain.StatusCancelled,
		Reason:       ptr.Ptr("мастер заболел"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestExecute_CancelWithoutReason(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      1,
		TargetStatus: domain.StatusCancelled,
	})
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestExecute_CancelWithBlankReason(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      1,
		TargetStatus: domain.StatusCancelled,
		Reason:       ptr.Ptr("   "),
	})
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Zero(t, repo.cancelledID)
}

func TestExecute_ConfirmByCustomerDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      1, // клиент не может подтверждать
		TargetStatus: domain.StatusConfirmed,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_CompleteByCustomerAfterEnd(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.BookingDate = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // интервал закончился вчера
	repo := &fakeBookingRepo{booking: booking}
	uc := newUseCase(repo, newFakeNotifier())

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      1, // клиент
		TargetStatus: domain.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestExecute_CompleteByCustomerBeforeEndDenied(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed // интервал ещё впереди
	repo := &fakeBookingRepo{booking: booking}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      1,
		TargetStatus: domain.StatusCompleted,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_CancelByStrangerDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      99,
		TargetStatus: domain.StatusCancelled,
		Reason:       ptr.Ptr("причина"),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.BookingStatus
		target domain.BookingStatus
	}{
		{name: "pending to completed", from: domain.StatusPending, target: domain.StatusCompleted},
		{name: "completed to confirmed", from: domain.StatusCompleted, target: domain.StatusConfirmed},
		{name: "cancelled to confirmed", from: domain.StatusCancelled, target: domain.StatusConfirmed},
		{name: "completed to completed", from: domain.StatusCompleted, target: domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := pendingBooking()
			booking.Status = tt.from
			repo := &fakeBookingRepo{booking: booking}
			uc := newUseCase(repo, newFakeNotifier())

			_, err := uc.Execute(context.Background(), &Request{
				BookingID:    42,
				ActorID:      2,
				TargetStatus: tt.target,
			})
			assert.ErrorIs(t, err, ErrIllegalTransition)
		})
	}
}

func TestExecute_CancelTerminalBooking(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled} {
		booking := pendingBooking()
		booking.Status = status
		repo := &fakeBookingRepo{booking: booking}
		uc := newUseCase(repo, newFakeNotifier())

		_, err := uc.Execute(context.Background(), &Request{
			BookingID:    42,
			ActorID:      1,
			TargetStatus: domain.StatusCancelled,
			Reason:       ptr.Ptr("поздно"),
		})
		assert.ErrorIs(t, err, ErrIllegalTransition)
	}
}

func TestExecute_TargetPendingRejected(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      2,
		TargetStatus: domain.StatusPending,
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestExecute_UnknownTargetStatus(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      2,
		TargetStatus: "archived",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_BookingNotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: storage.ErrBookingNotFound}
	uc := newUseCase(repo, newFakeNotifier())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    42,
		ActorID:      2,
		TargetStatus: domain.StatusConfirmed,
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
