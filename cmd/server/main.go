package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/campaign-hub/campaign-hub/internal/api/http"
	appAllocator "github.com/campaign-hub/campaign-hub/internal/application/allocator"
	appFlow "github.com/campaign-hub/campaign-hub/internal/application/flow"
	appParticipation "github.com/campaign-hub/campaign-hub/internal/application/participation"
	"github.com/campaign-hub/campaign-hub/internal/config"
	domainFlow "github.com/campaign-hub/campaign-hub/internal/domain/flow"
	"github.com/campaign-hub/campaign-hub/internal/infrastructure/blobstore"
	"github.com/campaign-hub/campaign-hub/internal/infrastructure/postgres"
	"github.com/campaign-hub/campaign-hub/internal/infrastructure/twilio"
	"github.com/campaign-hub/campaign-hub/internal/migrations"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	definition := domainFlow.NewDefinition()
	if err := definition.Validate(); err != nil {
		log.Fatalf("flow definition error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, migrations.FS); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	participantRepo := postgres.NewParticipantRepository(pool)
	participationRepo := postgres.NewParticipationRepository(pool)
	codeRepo := postgres.NewCodeRepository(pool)
	counterRepo := postgres.NewCounterRepository(pool)
	allocatorStore := postgres.NewAllocatorStore(pool)
	codeClaimer := postgres.NewCodeClaimer(pool)

	// infrastructure
	messenger := twilio.NewMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioMessagingServiceSID, cfg.TwilioBaseURL, logger)
	mediaStore := blobstore.New(cfg.MediaBucketURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, logger)

	// services
	allocatorSvc := appAllocator.NewService(allocatorStore, cfg.Location, logger)
	participationSvc := appParticipation.NewService(participationRepo, codeClaimer, logger)
	flowManager := appFlow.NewManager(
		definition,
		participantRepo,
		participationRepo,
		codeRepo,
		allocatorSvc,
		messenger,
		mediaStore,
		appFlow.Config{
			MaxUploadAttempts:   cfg.MaxUploadAttempts,
			MaxDailySubmissions: cfg.MaxDailySubmissions,
			Location:            cfg.Location,
		},
		logger,
	)

	apiServer := httpapi.NewServer(flowManager, participationSvc, participantRepo, codeRepo, counterRepo, cfg.Location, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
