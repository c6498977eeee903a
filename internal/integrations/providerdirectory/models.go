package providerdirectory

// Provider профиль провайдера из каталога
type Provider struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	AutoConfirm bool   `json:"autoConfirm"` // новые бронирования сразу подтверждаются
	Active      bool   `json:"active"`
}

// Service услуга провайдера из каталога
type Service struct {
	ID              int64  `json:"id"`
	ProviderID      int64  `json:"providerId"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           *int64 `json:"price,omitempty"` // minor units
	Active          bool   `json:"active"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
