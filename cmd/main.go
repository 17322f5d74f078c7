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

	approveBookingHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/create_booking"
	createStockMovementHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/create_stock_movement"
	createWalkinIncomeHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/create_walkin_income"
	getBookingHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/get_booking"
	getBranchBookingsHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/get_branch_bookings"
	getCustomerBookingsHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/get_customer_bookings"
	getPartHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/get_part"
	markNoShowHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/mark_no_show"
	markNotServedHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/mark_not_served"
	rejectBookingHandler "github.com/m04kA/SMC-ServiceCenter/internal/api/handlers/reject_booking"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceCenter/internal/config"
	bookingRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/customer"
	employeeRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/employee"
	ledgerRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/ledger"
	partRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/part"
	slotlockRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/slotlock"
	auditlogClient "github.com/m04kA/SMC-ServiceCenter/internal/integrations/auditlog"
	identityClient "github.com/m04kA/SMC-ServiceCenter/internal/integrations/identity"
	notifierClient "github.com/m04kA/SMC-ServiceCenter/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-ServiceCenter/internal/service/bookings"
	ledgerService "github.com/m04kA/SMC-ServiceCenter/internal/service/ledger"
	slotlockService "github.com/m04kA/SMC-ServiceCenter/internal/service/slotlock"
	completeBookingUC "github.com/m04kA/SMC-ServiceCenter/internal/usecase/complete_booking"
	createBookingUC "github.com/m04kA/SMC-ServiceCenter/internal/usecase/create_booking"
	createStockMovementUC "github.com/m04kA/SMC-ServiceCenter/internal/usecase/create_stock_movement"
	"github.com/m04kA/SMC-ServiceCenter/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceCenter/pkg/logger"
	"github.com/m04kA/SMC-ServiceCenter/pkg/metrics"
	"github.com/m04kA/SMC-ServiceCenter/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ServiceCenter/pkg/txmanager"
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

	log.Info("Starting SMC-ServiceCenter...")
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
	identity := identityClient.NewClient(
		cfg.Identity.URL,
		time.Duration(cfg.Identity.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	auditlog := auditlogClient.NewClient(
		cfg.AuditLog.URL,
		time.Duration(cfg.AuditLog.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Identity=%s, Notifier=%s, AuditLog=%s)",
		cfg.Identity.URL, cfg.Notifier.URL, cfg.AuditLog.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		slotlockRepository *slotlockRepo.Repository
		ledgerRepository   *ledgerRepo.Repository
		partRepository     *partRepo.Repository
		catalogRepository  *catalogRepo.Repository
		customerRepository *customerRepo.Repository
		employeeRepository *employeeRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		slotlockRepository = slotlockRepo.NewRepository(wrappedDB)
		ledgerRepository = ledgerRepo.NewRepository(wrappedDB)
		partRepository = partRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		employeeRepository = employeeRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		slotlockRepository = slotlockRepo.NewRepository(db)
		ledgerRepository = ledgerRepo.NewRepository(db)
		partRepository = partRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		employeeRepository = employeeRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotLockManager := slotlockService.NewManager(
		slotlockRepository,
		bookingRepository,
		txMgr,
		cfg.SlotLock.TTLMinutes,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		customerRepository,
		txMgr,
		auditlog,
		notifier,
		log,
	)
	ledgerSvc := ledgerService.NewService(
		ledgerRepository,
		auditlog,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		customerRepository,
		slotLockManager,
		txMgr,
		notifier,
		auditlog,
		log,
	)
	completeBookingUseCase := completeBookingUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		employeeRepository,
		customerRepository,
		txMgr,
		notifier,
		auditlog,
		log,
	)
	createStockMovementUseCase := createStockMovementUC.NewUseCase(
		partRepository,
		txMgr,
		auditlog,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getBranchBookings := getBranchBookingsHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	rejectBooking := rejectBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(completeBookingUseCase, log)
	markNoShow := markNoShowHandler.NewHandler(bookingSvc, log)
	markNotServed := markNotServedHandler.NewHandler(bookingSvc, log)
	createStockMovement := createStockMovementHandler.NewHandler(createStockMovementUseCase, log)
	getPart := getPartHandler.NewHandler(partRepository, log)
	createWalkinIncome := createWalkinIncomeHandler.NewHandler(ledgerSvc, log)

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

	// Все маршруты требуют Bearer токен, проверяемый через identity-сервис
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(identity, log))

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reject", rejectBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/no-show", markNoShow.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/not-served", markNotServed.Handle).Methods(http.MethodPost)

	// --- История бронирований ---
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/branches/{branchId}/bookings", getBranchBookings.Handle).Methods(http.MethodGet)

	// --- Склад ---
	protected.HandleFunc("/parts/{partId}", getPart.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/parts/{partId}/movements", createStockMovement.Handle).Methods(http.MethodPost)

	// --- Финансовые проводки ---
	protected.HandleFunc("/transactions", createWalkinIncome.Handle).Methods(http.MethodPost)

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
