package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	StatsRevenueWindowDays      = 30 // trailing window for monthly revenue
)

// ActiveStatuses список статусов, занимающих слот в индексе доступности
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses список терминальных статусов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}
