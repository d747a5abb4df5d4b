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

	cancelAlertHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/cancel_alert"
	cancelBookingHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/cancel_booking"
	claimAlertHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/claim_alert"
	confirmAlertHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/confirm_alert"
	createAlertHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/create_alert"
	createBookingHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/create_booking"
	createLeaveHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/create_leave"
	deleteBookingHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/delete_booking"
	getAlertHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/get_alert"
	getAvailableAlertsHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/get_available_alerts"
	getAvailableStaffHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/get_available_staff"
	getBookingHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/get_booking"
	getStaffBookingsHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/get_staff_bookings"
	getStaffLeaveHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/get_staff_leave"
	rejectAlertHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/reject_alert"
	reviewLeaveHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/review_leave"
	updateBookingHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/update_booking"
	withdrawLeaveHandler "github.com/m04kA/SMC-StaffingService/internal/api/handlers/withdraw_leave"
	"github.com/m04kA/SMC-StaffingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffingService/internal/config"
	auditRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/booking"
	alertRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/bookingalert"
	leaveRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/leave"
	svcRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/svc"
	userRepo "github.com/m04kA/SMC-StaffingService/internal/infra/storage/user"
	hraccessClient "github.com/m04kA/SMC-StaffingService/internal/integrations/hraccess"
	notifierClient "github.com/m04kA/SMC-StaffingService/internal/integrations/notifier"
	alertsService "github.com/m04kA/SMC-StaffingService/internal/service/alerts"
	bookingsService "github.com/m04kA/SMC-StaffingService/internal/service/bookings"
	leaveService "github.com/m04kA/SMC-StaffingService/internal/service/leave"
	confirmAlertUC "github.com/m04kA/SMC-StaffingService/internal/usecase/confirm_alert"
	createAlertUC "github.com/m04kA/SMC-StaffingService/internal/usecase/create_alert"
	createBookingUC "github.com/m04kA/SMC-StaffingService/internal/usecase/create_booking"
	getAvailableStaffUC "github.com/m04kA/SMC-StaffingService/internal/usecase/get_available_staff"
	"github.com/m04kA/SMC-StaffingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffingService/pkg/logger"
	"github.com/m04kA/SMC-StaffingService/pkg/metrics"
	"github.com/m04kA/SMC-StaffingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-StaffingService/pkg/txmanager"
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

	log.Info("Starting SMC-StaffingService...")
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
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	hrClient := hraccessClient.NewClient(
		cfg.HRAccess.URL,
		time.Duration(cfg.HRAccess.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Notifier=%s timeout=%ds, HRAccess=%s timeout=%ds)",
		cfg.Notifier.URL, cfg.Notifier.Timeout, cfg.HRAccess.URL, cfg.HRAccess.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		alertRepository   *alertRepo.Repository
		leaveRepository   *leaveRepo.Repository
		userRepository    *userRepo.Repository
		serviceRepository *svcRepo.Repository
		auditRepository   *auditRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		alertRepository = alertRepo.NewRepository(wrappedDB)
		leaveRepository = leaveRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		serviceRepository = svcRepo.NewRepository(wrappedDB)
		auditRepository = auditRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		alertRepository = alertRepo.NewRepository(db)
		leaveRepository = leaveRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		serviceRepository = svcRepo.NewRepository(db)
		auditRepository = auditRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userRepository,
		auditRepository,
		notifier,
		txMgr,
		log,
	)
	alertSvc := alertsService.NewService(
		alertRepository,
		bookingRepository,
		leaveRepository,
		userRepository,
		auditRepository,
		notifier,
		txMgr,
		log,
	)
	leaveSvc := leaveService.NewService(
		leaveRepository,
		userRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		userRepository,
		serviceRepository,
		auditRepository,
		notifier,
		hrClient,
		txMgr,
		log,
	)
	getAvailableStaffUseCase := getAvailableStaffUC.NewUseCase(
		bookingRepository,
		leaveRepository,
		userRepository,
		log,
	)
	createAlertUseCase := createAlertUC.NewUseCase(
		alertRepository,
		userRepository,
		serviceRepository,
		auditRepository,
		notifier,
		log,
	)
	confirmAlertUseCase := confirmAlertUC.NewUseCase(
		alertRepository,
		bookingRepository,
		userRepository,
		serviceRepository,
		auditRepository,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableStaff := getAvailableStaffHandler.NewHandler(getAvailableStaffUseCase, log)

	createAlert := createAlertHandler.NewHandler(createAlertUseCase, log)
	getAlert := getAlertHandler.NewHandler(alertSvc, log)
	getAvailableAlerts := getAvailableAlertsHandler.NewHandler(alertSvc, log)
	claimAlert := claimAlertHandler.NewHandler(alertSvc, log)
	confirmAlert := confirmAlertHandler.NewHandler(confirmAlertUseCase, log)
	rejectAlert := rejectAlertHandler.NewHandler(alertSvc, log)
	cancelAlert := cancelAlertHandler.NewHandler(alertSvc, log)

	createLeave := createLeaveHandler.NewHandler(leaveSvc, log)
	getStaffLeave := getStaffLeaveHandler.NewHandler(leaveSvc, log)
	reviewLeave := reviewLeaveHandler.NewHandler(leaveSvc, log)
	withdrawLeave := withdrawLeaveHandler.NewHandler(leaveSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

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

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// --- Персонал ---
	protected.HandleFunc("/staff/available", getAvailableStaff.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/bookings", getStaffBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/leave-requests", getStaffLeave.Handle).Methods(http.MethodGet)

	// --- Алерты открытых смен ---
	protected.HandleFunc("/alerts", createAlert.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/alerts/available", getAvailableAlerts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/alerts/{alertId}", getAlert.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/alerts/{alertId}/claim", claimAlert.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/alerts/{alertId}/confirm", confirmAlert.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/alerts/{alertId}/reject", rejectAlert.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/alerts/{alertId}/cancel", cancelAlert.Handle).Methods(http.MethodPatch)

	// --- Заявки на отпуск ---
	protected.HandleFunc("/leave-requests", createLeave.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/leave-requests/{leaveId}/review", reviewLeave.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/leave-requests/{leaveId}", withdrawLeave.Handle).Methods(http.MethodDelete)

	// Фоновый обход зависших claim: напоминаем менеджерам про алерты,
	// которые ждут подтверждения дольше TTL
	reconcilerCtx, stopReconciler := context.WithCancel(context.Background())
	defer stopReconciler()

	if cfg.Reconciler.Enabled {
		interval := time.Duration(cfg.Reconciler.IntervalSeconds) * time.Second
		ttl := time.Duration(cfg.Reconciler.ClaimTTLHours) * time.Hour

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-reconcilerCtx.Done():
					return
				case <-ticker.C:
					count, err := alertSvc.SweepStuckClaims(reconcilerCtx, time.Now().Add(-ttl))
					if err != nil {
						log.Error("Stuck claim sweep failed: %v", err)
						continue
					}
					if count > 0 {
						log.Info("Stuck claim sweep: %d alerts awaiting confirmation longer than %s", count, ttl)
					}
				}
			}
		}()
		log.Info("Stuck claim reconciler started (interval=%s, ttl=%s)", interval, ttl)
	}

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

	// Останавливаем фоновые задачи и сбор метрик connection pool
	stopReconciler()
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
