package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/cache"
	"billing-backend/internal/config"
	"billing-backend/internal/database"
	"billing-backend/internal/db"
	"billing-backend/internal/extraction"
	"billing-backend/internal/handlers"
	"billing-backend/internal/health"
	h "billing-backend/internal/http"
	"billing-backend/internal/logger"
	"billing-backend/internal/middleware"
	"billing-backend/internal/repositories"
	"billing-backend/internal/services"
	"billing-backend/internal/storage"
	"billing-backend/internal/timeutil"
	"billing-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrateOnly := flag.Bool("migrate", false, "Run database migrations and exit")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log config: %v\n", err)
		os.Exit(1)
	}
	if err := timeutil.SetLocation(cfg.Billing.Timezone); err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Billing.Timezone).Msg("Invalid billing timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Database unavailable")
	}
	defer pool.Close()

	log.Info().Msg("Running database migrations...")
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.NewMigrator(pool, migrations.Files).RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	if *migrateOnly {
		return
	}

	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn().Err(err).Msg("[Redis] Cache unavailable, serving lists from Postgres")
	} else {
		log.Info().Msg("[Redis] Cache connected successfully")
		defer cache.Close()
	}

	var files services.ObjectStore
	if cfg.StorageEnabled() {
		s3Store, err := storage.NewS3Store(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure object storage")
		}
		files = s3Store
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("[Storage] Using S3 bucket")
	} else {
		files = storage.NewMemoryStore()
		log.Warn().Msg("[Storage] S3_BUCKET not set, uploads are kept in memory only")
	}

	var extractor services.Extractor
	if cfg.ExtractionEnabled() {
		docAI, err := extraction.NewDocumentAIExtractor(ctx, extraction.Config{
			ProjectID:       cfg.DocumentAI.ProjectID,
			Location:        cfg.DocumentAI.Location,
			ProcessorID:     cfg.DocumentAI.ProcessorID,
			CredentialsFile: cfg.DocumentAI.CredentialsFile,
		})
		if err != nil {
			log.Error().Err(err).Msg("[DocumentAI] Extraction disabled")
		} else {
			defer docAI.Close()
			extractor = docAI
		}
	}

	invoiceRepo := repositories.NewInvoiceRepository(pool)
	contractRepo := repositories.NewContractRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	systemSettingRepo := repositories.NewSystemSettingRepository(pool)

	var prefsBackend billing.PreferencesBackend = repositories.NewPreferenceRepository(pool)
	if client := cache.GetClient(); client != nil {
		prefsBackend = cache.NewPreferences(client)
	}
	prefsStore := billing.NewViewPreferencesStore(prefsBackend)

	invoiceService := services.NewInvoiceService(invoiceRepo, cfg.Server.PublicURL, cfg.Billing.DefaultCurrency)
	invoiceService.ListTTL = cfg.Redis.ListTTL
	contractService := services.NewContractService(contractRepo, files, cfg.Server.PublicURL, cfg.Billing.DefaultCurrency)
	contractService.ListTTL = cfg.Redis.ListTTL
	expenseService := services.NewExpenseService(expenseRepo, files, extractor, cfg.Billing.DefaultCurrency)
	expenseService.ListTTL = cfg.Redis.ListTTL
	userService := services.NewUserService(userRepo)
	preferenceService := services.NewPreferenceService(prefsStore, userRepo)
	supportChatService := services.NewSupportChatService(systemSettingRepo)
	reportService := services.NewReportService(invoiceService, contractService, expenseService, cfg.Billing.CompanyName)

	metricsCollector := services.NewMetricsCollector(invoiceRepo, contractRepo, time.Minute)
	metricsCollector.Start()
	defer metricsCollector.Stop()

	healthChecker := health.NewHealthChecker(pool, cache.IsHealthy)

	router := h.NewRouter(
		handlers.NewInvoiceHandler(invoiceService, reportService, preferenceService),
		handlers.NewContractHandler(contractService, reportService, preferenceService),
		handlers.NewExpenseHandler(expenseService, reportService, preferenceService),
		handlers.NewUserHandler(userService, preferenceService),
		handlers.NewSupportChatHandler(supportChatService),
		handlers.NewHealthHandler(healthChecker),
		logger.WithComponent("http"),
	)
	handler := middleware.NewCORS(cfg)(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.RequestTimeout,
		WriteTimeout:      cfg.Server.RequestTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Billing server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
