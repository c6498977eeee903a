package reserve_booking

import (
	"context"
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/internal/integrations/customerdirectory"
	"github.com/beautycort/booking-core/internal/integrations/providerdirectory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний провайдеров
type ScheduleRepository interface {
	GetForDate(ctx context.Context, providerID int64, date time.Time) (*domain.ProviderSchedule, error)
}

// ProviderDirectoryClient интерфейс клиента каталога провайдеров
type ProviderDirectoryClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerdirectory.Provider, error)
	GetService(ctx context.Context, providerID, serviceID int64) (*providerdirectory.Service, error)
}

// CustomerDirectoryClient интерфейс клиента каталога клиентов
type CustomerDirectoryClient interface {
	GetCustomerWithGracefulDegradation(ctx context.Context, customerID int64) (*customerdirectory.Customer, error)
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
