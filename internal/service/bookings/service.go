package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/beautycort/booking-core/internal/domain"
	bookingRepo "github.com/beautycort/booking-core/internal/infra/storage/booking"
	"github.com/beautycort/booking-core/internal/service/bookings/models"
	"github.com/beautycort/booking-core/pkg/ptr"
)

// Service read-side сервис бронирований: списки, статистика, ближайшие записи
// Никогда не мутирует состояние - мутации проходят только через usecases
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepository BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepository,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только свои бронирования: как клиент или как провайдер
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d", id, actorID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.CustomerID != actorID && booking.ProviderID != actorID {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	result, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(result), nil
}

// GetProviderBookings получает бронирования провайдера с фильтрацией по периоду,
// статусу и свободному тексту
// Свободнотекстовый фильтр применяется к уже выбранным строкам по имени и
// телефону клиента и названию услуги - это удобство отображения, не граница
// безопасности
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: fetching bookings for provider=%d", req.ProviderID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	result, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	if req.FreeText != nil && strings.TrimSpace(*req.FreeText) != "" {
		result = filterFreeText(result, *req.FreeText)
	}

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%d", len(result), req.ProviderID)
	return models.FromDomainBookingList(result), nil
}

// GetProviderStats возвращает статистику провайдера для дашборда
// monthRevenue суммирует totalAmount только по completed бронированиям
// за скользящие 30 дней
func (s *Service) GetProviderStats(ctx context.Context, providerID int64) (*models.ProviderStatsResponse, error) {
	s.logger.Info("GetProviderStats: computing stats for provider=%d", providerID)

	all, err := s.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID:      providerID,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("GetProviderStats: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProviderStats - repository error: %v", ErrInternal, err)
	}

	return computeStats(all, s.timeProvider.Now()), nil
}

// GetUpcomingBookings возвращает сегодняшние бронирования провайдера,
// начинающиеся не раньше asOf, в порядке возрастания времени начала
// Только активные статусы (pending, confirmed)
func (s *Service) GetUpcomingBookings(ctx context.Context, providerID int64, asOf time.Time) (*models.BookingListResponse, error) {
	s.logger.Info("GetUpcomingBookings: provider=%d asOf=%s", providerID, asOf.Format(time.RFC3339))

	today := domain.DateOnly(asOf)
	dayBookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID:      providerID,
		StartDate:       ptr.Ptr(today),
		EndDate:         ptr.Ptr(today),
		IncludeInactive: false,
	})
	if err != nil {
		s.logger.Error("GetUpcomingBookings: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetUpcomingBookings - repository error: %v", ErrInternal, err)
	}

	asOfMinutes := asOf.Hour()*60 + asOf.Minute()
	upcoming := make([]*domain.Booking, 0, len(dayBookings))
	for _, booking := range dayBookings {
		if booking.StartTime.Minutes() >= asOfMinutes {
			upcoming = append(upcoming, booking)
		}
	}

	// Репозиторий отдаёт историю сначала новыми; ближайшие записи
	// показываются по возрастанию времени начала
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.IsBefore(upcoming[j].StartTime)
	})

	return models.FromDomainBookingList(upcoming), nil
}

// filterFreeText фильтрует бронирования по подстроке (без учёта регистра)
// в имени клиента, телефоне и названии услуги
func filterFreeText(list []*domain.Booking, query string) []*domain.Booking {
	needle := strings.ToLower(strings.TrimSpace(query))

	filtered := make([]*domain.Booking, 0, len(list))
	for _, booking := range list {
		if strings.Contains(strings.ToLower(booking.CustomerName), needle) ||
			strings.Contains(strings.ToLower(booking.CustomerPhone), needle) ||
			strings.Contains(strings.ToLower(booking.ServiceName), needle) {
			filtered = append(filtered, booking)
		}
	}
	return filtered
}

// computeStats агрегирует статистику по всем бронированиям провайдера
func computeStats(all []*domain.Booking, now time.Time) *models.ProviderStatsResponse {
	stats := &models.ProviderStatsResponse{}

	today := domain.DateOnly(now)
	weekEnd := today.AddDate(0, 0, 7)
	revenueFrom := today.AddDate(0, 0, -domain.StatsRevenueWindowDays)

	for _, booking := range all {
		stats.Total++

		switch booking.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusConfirmed:
			stats.Confirmed++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusCancelled:
			stats.Cancelled++
		}

		date := domain.DateOnly(booking.BookingDate)

		// Сегодняшняя и недельная загрузка считаются по активным бронированиям
		if booking.IsActive() {
			if date.Equal(today) {
				stats.TodayCount++
			}
			if !date.Before(today) && date.Before(weekEnd) {
				stats.WeekCount++
			}
		}

		// Выручка: только completed за скользящие 30 дней
		if booking.Status == domain.StatusCompleted && !date.Before(revenueFrom) && !date.After(today) {
			stats.MonthRevenue += booking.TotalAmount
		}
	}

	return stats
}
