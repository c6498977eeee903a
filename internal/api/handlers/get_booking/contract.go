package get_booking

import (
	"context"

	"github.com/beautycort/booking-core/internal/service/bookings/models"
)

// BookingService read-side доступ к бронированию
// actorID - аутентифицированный пользователь; сервис пропускает только
// клиента и провайдера самой записи
type BookingService interface {
	GetByID(ctx context.Context, id int64, actorID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
