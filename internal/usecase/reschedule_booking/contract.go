package reschedule_booking

import (
	"context"
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateInterval(ctx context.Context, id int64, date time.Time, startTime types.TimeString) error
}

// ScheduleRepository интерфейс репозитория расписаний провайдеров
type ScheduleRepository interface {
	GetForDate(ctx context.Context, providerID int64, date time.Time) (*domain.ProviderSchedule, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
