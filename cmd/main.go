package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/beautycort/booking-core/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/beautycort/booking-core/internal/api/handlers/create_booking"
	getBookingHandler "github.com/beautycort/booking-core/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/beautycort/booking-core/internal/api/handlers/get_customer_bookings"
	getProviderBookingsHandler "github.com/beautycort/booking-core/internal/api/handlers/get_provider_bookings"
	getProviderStatsHandler "github.com/beautycort/booking-core/internal/api/handlers/get_provider_stats"
	getUpcomingBookingsHandler "github.com/beautycort/booking-core/internal/api/handlers/get_upcoming_bookings"
	rescheduleBookingHandler "github.com/beautycort/booking-core/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/beautycort/booking-core/internal/api/handlers/update_booking_status"
	"github.com/beautycort/booking-core/internal/api/middleware"
	"github.com/beautycort/booking-core/internal/config"
	bookingRepo "github.com/beautycort/booking-core/internal/infra/storage/booking"
	scheduleRepo "github.com/beautycort/booking-core/internal/infra/storage/schedule"
	customerDirectoryClient "github.com/beautycort/booking-core/internal/integrations/customerdirectory"
	notifierClient "github.com/beautycort/booking-core/internal/integrations/notifier"
	providerDirectoryClient "github.com/beautycort/booking-core/internal/integrations/providerdirectory"
	bookingsService "github.com/beautycort/booking-core/internal/service/bookings"
	rescheduleBookingUC "github.com/beautycort/booking-core/internal/usecase/reschedule_booking"
	reserveBookingUC "github.com/beautycort/booking-core/internal/usecase/reserve_booking"
	transitionBookingUC "github.com/beautycort/booking-core/internal/usecase/transition_booking"
	"github.com/beautycort/booking-core/pkg/dbmetrics"
	"github.com/beautycort/booking-core/pkg/logger"
	"github.com/beautycort/booking-core/pkg/metrics"
	"github.com/beautycort/booking-core/pkg/simpletxmanager"
	"github.com/beautycort/booking-core/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-core...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	providerClient := providerDirectoryClient.NewClient(
		cfg.ProviderDirectory.URL,
		time.Duration(cfg.ProviderDirectory.Timeout)*time.Second,
		log,
	)
	customerClient := customerDirectoryClient.NewClient(
		cfg.CustomerDirectory.URL,
		time.Duration(cfg.CustomerDirectory.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifications.URL,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProviderDirectory=%s, CustomerDirectory=%s, Notifications=%s)",
		cfg.ProviderDirectory.URL, cfg.CustomerDirectory.URL, cfg.Notifications.URL)

	// Инициализируем репозитории и транзакционный менеджер (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Инициализируем use cases
	reserveBookingUseCase := reserveBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		providerClient,
		customerClient,
		txMgr,
		metricsCollector,
		log,
	)
	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		notifier,
		txMgr,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(reserveBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(transitionBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(transitionBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	getProviderStats := getProviderStatsHandler.NewHandler(bookingSvc, log)
	getUpcomingBookings := getUpcomingBookingsHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Сквозной request ID для трассировки
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Все ручки требуют X-User-ID header
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Переход статуса (confirmed, completed)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Отмена бронирования (с обязательной причиной)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос pending-бронирования на новый интервал
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// --- Кабинет провайдера ---
	// Ближайшие записи на сегодня (регистрируется раньше общего списка,
	// чтобы /upcoming не матчился как {bookingId})
	protected.HandleFunc("/providers/{providerId}/bookings/upcoming", getUpcomingBookings.Handle).Methods(http.MethodGet)

	// Список бронирований провайдера с фильтрами
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// Статистика провайдера
	protected.HandleFunc("/providers/{providerId}/stats", getProviderStats.Handle).Methods(http.MethodGet)

	// --- Кабинет клиента ---
	// История бронирований клиента
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
