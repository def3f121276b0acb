package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/community-portal/internal/api/http"
	"github.com/spec-kit/community-portal/internal/api/http/handlers"
	"github.com/spec-kit/community-portal/internal/auth"
	"github.com/spec-kit/community-portal/internal/config"
	"github.com/spec-kit/community-portal/internal/events"
	"github.com/spec-kit/community-portal/internal/observability"
	"github.com/spec-kit/community-portal/internal/persistence"
	"github.com/spec-kit/community-portal/internal/repository"
	"github.com/spec-kit/community-portal/internal/service"
	"github.com/spec-kit/community-portal/internal/status"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	replyRepo := repository.NewTicketReplyRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	newsRepo := repository.NewNewsRepository(pool)
	guidelineRepo := repository.NewGuidelineRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	characterRepo := repository.NewCharacterRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	events.RegisterAuditLog(dispatcher, logger)

	sessions := auth.NewSessionStore(redis.Client)
	var discordProvider auth.IdentityProvider
	if provider := auth.NewDiscordProvider(cfg.Discord); provider.Configured() {
		discordProvider = provider
	} else {
		logger.Warn("discord oauth not configured; discord login disabled")
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Sessions:          sessions,
		Discord:           discordProvider,
		Logger:            logger,
	})
	if err := authService.EnsureSeedAdmin(ctx, cfg.Seed); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		ReplyRepo:  replyRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: applicationRepo,
		Dispatcher:      dispatcher,
	})
	newsService := service.NewNewsService(newsRepo)
	guidelineService := service.NewGuidelineService(guidelineRepo)
	staffService := service.NewStaffService(staffRepo, userRepo)
	mediaService := service.NewMediaService(mediaRepo)
	characterService := service.NewCharacterService(characterRepo)
	settingsService := service.NewSettingsService(settingsRepo)

	hub := status.NewHub(logger)
	var poller *status.Poller
	if cfg.Status.Enabled && cfg.Status.URL != "" {
		fetcher := status.NewHTTPFetcher(cfg.Status.URL, cfg.Status.Timeout())
		cache := status.NewRedisCache(redis.Client)
		poller = status.NewPoller(cfg.Status, fetcher, cache, hub, logger)
		if err := poller.Start(ctx); err != nil {
			logger.Fatal("failed to start status poller", zap.Error(err))
		}
		defer poller.Stop()
	} else {
		logger.Warn("status polling disabled")
		poller = status.NewPoller(cfg.Status, status.NewHTTPFetcher("", cfg.Status.Timeout()), status.NewRedisCache(nil), hub, logger)
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis, metrics, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Applications:   handlers.NewApplicationsHandler(applicationService),
		News:           handlers.NewNewsHandler(newsService),
		Guidelines:     handlers.NewGuidelinesHandler(guidelineService),
		Staff:          handlers.NewStaffHandler(staffService),
		Media:          handlers.NewMediaHandler(mediaService),
		Characters:     handlers.NewCharactersHandler(characterService),
		Settings:       handlers.NewSettingsHandler(settingsService),
		Status:         handlers.NewStatusHandler(poller, hub),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
