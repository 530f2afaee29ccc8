package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var store cache.Store = cache.NopStore{}
	if cfg.Cache.Enabled {
		store = cache.NewRedisStore(redis.Client)
	}

	var failures auth.FailureCounter = auth.NewMemoryFailureCounter()
	if cfg.Auth.LockoutBackend == "redis" {
		failures = auth.NewRedisFailureCounter(redis.Client, cfg.Auth.LockoutWindow)
	}

	pool := pg.Pool
	roleRepo := repository.NewRoleRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	priorityRepo := repository.NewPriorityRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)

	tokenManager := auth.NewTokenManager(cfg.Auth)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	mailer := mail.NewDispatcher(mail.NewRestyClient(cfg.Mail), cfg.Mail, logger)
	dispatcher := events.NewInMemoryDispatcher()

	if err := service.NewSeeder(roleRepo, userRepo, hasher, cfg.Seed, logger).Run(ctx); err != nil {
		logger.Fatal("failed to seed roles", zap.Error(err))
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		TokenRepo:      tokenRepo,
		TokenManager:   tokenManager,
		Hasher:         hasher,
		FailureCounter: failures,
		Mailer:         mailer,
		Cache:          store,
		Logger:         logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo: userRepo,
		RoleRepo: roleRepo,
		Hasher:   hasher,
		Verifier: authService,
		Cache:    store,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		PriorityRepo: priorityRepo,
		Dispatcher:   dispatcher,
		Cache:        store,
		CacheTTL:     cfg.Cache.TTL,
		Logger:       logger,
	})
	roleService := service.NewRoleService(roleRepo, store, cfg.Cache.TTL, logger)
	categoryService := service.NewCategoryService(categoryRepo, store, cfg.Cache.TTL, logger)
	priorityService := service.NewPriorityService(priorityRepo, store, cfg.Cache.TTL, logger)

	historyService := service.NewHistoryService(historyRepo, ticketRepo, logger)

	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, mailer, logger, cfg.Mail), historyService, dispatcher)

	scheduler, err := worker.NewScheduler(logger)
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}
	if err := worker.ScheduleTokenPurge(scheduler, authService, cfg.Auth.TokenPurgeInterval, logger); err != nil {
		logger.Fatal("failed to schedule token purge", zap.Error(err))
	}
	scheduler.Start()

	metrics := observability.NewMetrics()
	v := validator.New()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Prefix: cfg.App.APIPrefix,
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService, v),
		Users:          handlers.NewUsersHandler(userService, v),
		Roles:          handlers.NewRolesHandler(roleService, v),
		Categories:     handlers.NewCategoriesHandler(categoryService, v),
		Priorities:     handlers.NewPrioritiesHandler(priorityService, v),
		Tickets:        handlers.NewTicketsHandler(ticketService, historyService, v),
		AuthMiddleware: auth.NewAuthMiddleware(tokenManager, userRepo),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if err := scheduler.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
