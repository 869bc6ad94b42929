package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_availability"
	getSlotsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_slots"
	healthHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/health"
	listAppointmentsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/list_appointments"
	updateAppointmentHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_appointment"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ConsultationService/internal/infra/storage/migrations"
	consultantServiceClient "github.com/m04kA/SMC-ConsultationService/internal/integrations/consultantservice"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/events"
	feedbackServiceClient "github.com/m04kA/SMC-ConsultationService/internal/integrations/feedbackservice"
	appointmentsService "github.com/m04kA/SMC-ConsultationService/internal/service/appointments"
	createAppointmentUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_availability"
	updateAppointmentUC "github.com/m04kA/SMC-ConsultationService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
	"github.com/m04kA/SMC-ConsultationService/pkg/validation"
)

// appointmentStore хранилище записей: PostgreSQL или память
type appointmentStore interface {
	createAppointmentUC.AppointmentRepository
	updateAppointmentUC.AppointmentRepository
	getAvailabilityUC.AppointmentRepository
	appointmentsService.AppointmentRepository
}

// txManager менеджер транзакций для use cases и сервиса
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// eventPublisher публикация событий в Kafka или заглушка
type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	Close() error
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-ConsultationService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		store     appointmentStore
		txMgr     txManager
		dbPinger  healthHandler.Pinger
		closeDBFn = func() {}
	)

	switch strings.ToLower(cfg.Database.Driver) {
	case config.DriverMemory:
		store = appointmentRepo.NewMemoryRepository()
		txMgr = txmanager.NewLockingManager()
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		closeDBFn = func() { _ = db.Close() }

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

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(db); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database migrations applied")
		}

		var wrappedDB *dbmetrics.DB
		if cfg.Metrics.Enabled {
			wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
		} else {
			wrappedDB = dbmetrics.Wrap(db, nil)
		}

		store = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		dbPinger = wrappedDB
	}
	defer closeDBFn()

	// Инициализируем интеграционных клиентов
	consultantClient := consultantServiceClient.NewClient(
		cfg.ConsultantService.URL,
		time.Duration(cfg.ConsultantService.Timeout)*time.Second,
		log,
	)
	feedbackClient := feedbackServiceClient.NewClient(
		cfg.FeedbackService.URL,
		time.Duration(cfg.FeedbackService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ConsultantService=%s timeout=%ds, FeedbackService=%s timeout=%ds)",
		cfg.ConsultantService.URL, cfg.ConsultantService.Timeout, cfg.FeedbackService.URL, cfg.FeedbackService.Timeout)

	// События для слоя уведомлений
	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		log.Info("Appointment events enabled (brokers=%s, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	horizon := domain.NewHorizon(cfg.Scheduling.QuickHorizonDays, cfg.Scheduling.ExtendedHorizonDays)
	validator := validation.New()

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		store,
		feedbackClient,
		txMgr,
		cfg.Scheduling.DefaultPageSize,
		cfg.Scheduling.MaxPageSize,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		store,
		consultantClient,
		horizon,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store,
		consultantClient,
		txMgr,
		publisher,
		metricsCollector,
		horizon,
		log,
	)

	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		store,
		txMgr,
		validator,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getSlots := getSlotsHandler.NewHandler(log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, validator, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, validator, log)
	health := healthHandler.NewHandler(dbPinger, log)

	// Ограничение частоты создания записей
	var createAppointmentRoute http.Handler = http.HandlerFunc(createAppointment.Handle)
	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s (fail_open=%t): %v",
				cfg.RateLimit.RedisAddr, cfg.RateLimit.FailOpen, err)
		}
		cancel()

		limiter := middleware.NewRateLimiter(
			rdb,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			"consultation:create",
			cfg.RateLimit.FailOpen,
			log,
		)
		createAppointmentRoute = limiter.Middleware(createAppointmentRoute)
		log.Info("Rate limit on POST /appointments: %d per %ds", cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог слотов дня
	api.HandleFunc("/slots", getSlots.Handle).Methods(http.MethodGet)

	// Доступность консультанта на горизонте бронирования
	api.HandleFunc("/consultants/{consultantId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret, log))

	// Создание записи
	protected.Handle("/appointments", createAppointmentRoute).Methods(http.MethodPost)

	// Списки записей клиента или консультанта
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Карточка записи
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Смена статуса и ссылки на встречу
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPut)

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
	close(stopMetricsCh)

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
