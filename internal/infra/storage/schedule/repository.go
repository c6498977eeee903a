package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/beautycort/booking-core/internal/domain"
	"github.com/beautycort/booking-core/pkg/dbmetrics"
	"github.com/beautycort/booking-core/pkg/psqlbuilder"
	"github.com/beautycort/booking-core/pkg/types"
)

// Repository read-only репозиторий объявленного расписания провайдеров
// Данные принадлежат сервису каталога провайдеров и синхронизируются им;
// этот сервис их только читает
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetForDate возвращает расписание провайдера: недельные рабочие часы
// плюс blackout-интервалы на указанную дату.
// Читается внутри той же транзакции, что и занятые интервалы, чтобы проверка
// доступности видела согласованное состояние
func (r *Repository) GetForDate(ctx context.Context, providerID int64, date time.Time) (*domain.ProviderSchedule, error) {
	hours, updatedAt, err := r.getWeeklyHours(ctx, providerID)
	if err != nil {
		return nil, err
	}

	blackouts, err := r.getBlackouts(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	return &domain.ProviderSchedule{
		ProviderID: providerID,
		Hours:      *hours,
		Blackouts:  blackouts,
		UpdatedAt:  updatedAt,
	}, nil
}

func (r *Repository) getWeeklyHours(ctx context.Context, providerID int64) (*domain.WeeklyHours, time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"is_open",
		"open_time",
		"close_time",
		"updated_at",
	).
		From("provider_working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: getWeeklyHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: getWeeklyHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var hours domain.WeeklyHours
	var updatedAt time.Time
	found := false

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule
		var openTime, closeTime types.TimeString
		var rowUpdatedAt sql.NullTime

		if err := rows.Scan(&weekday, &day.IsOpen, &openTime, &closeTime, &rowUpdatedAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: getWeeklyHours - scan row: %v", ErrScanRow, err)
		}

		day.OpenTime = openTime
		day.CloseTime = closeTime
		found = true
		if rowUpdatedAt.Valid && rowUpdatedAt.Time.After(updatedAt) {
			updatedAt = rowUpdatedAt.Time
		}

		// weekday хранится по time.Weekday: 0 = Sunday
		switch time.Weekday(weekday) {
		case time.Monday:
			hours.Monday = day
		case time.Tuesday:
			hours.Tuesday = day
		case time.Wednesday:
			hours.Wednesday = day
		case time.Thursday:
			hours.Thursday = day
		case time.Friday:
			hours.Friday = day
		case time.Saturday:
			hours.Saturday = day
		case time.Sunday:
			hours.Sunday = day
		}
	}

	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: getWeeklyHours - rows error: %v", ErrScanRow, err)
	}

	if !found {
		return nil, time.Time{}, ErrScheduleNotFound
	}

	return &hours, updatedAt, nil
}

func (r *Repository) getBlackouts(ctx context.Context, providerID int64, date time.Time) ([]domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"blackout_date",
		"start_time",
		"end_time",
		"reason",
	).
		From("schedule_blackouts").
		Where(squirrel.Eq{
			"provider_id":   providerID,
			"blackout_date": domain.DateOnly(date),
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getBlackouts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBlackouts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]domain.Blackout, 0)
	for rows.Next() {
		var blackout domain.Blackout
		if err := rows.Scan(&blackout.Date, &blackout.StartTime, &blackout.EndTime, &blackout.Reason); err != nil {
			return nil, fmt.Errorf("%w: getBlackouts - scan row: %v", ErrScanRow, err)
		}
		blackouts = append(blackouts, blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBlackouts - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}
