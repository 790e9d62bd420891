package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/mintickets/helpdesk/internal/api/http"
	"github.com/mintickets/helpdesk/internal/api/http/handlers"
	"github.com/mintickets/helpdesk/internal/auth"
	"github.com/mintickets/helpdesk/internal/config"
	"github.com/mintickets/helpdesk/internal/directory"
	"github.com/mintickets/helpdesk/internal/events"
	"github.com/mintickets/helpdesk/internal/mail"
	"github.com/mintickets/helpdesk/internal/observability"
	"github.com/mintickets/helpdesk/internal/persistence"
	"github.com/mintickets/helpdesk/internal/repository"
	"github.com/mintickets/helpdesk/internal/service"
	"github.com/mintickets/helpdesk/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	terceroRepo := repository.NewTerceroRepository(pool)

	store := service.NewAttachmentStore(attachmentRepo, cfg.Storage, logger)
	dispatcher := events.NewInMemoryDispatcher()

	var dir directory.Directory = directory.NewClient(cfg.LDAP, logger)
	dir = directory.NewCachedDirectory(dir, redis.Client, cfg.Redis.DirectoryCacheTTL(), logger)

	sender := mail.NewSMTPSender(cfg.Mail)
	notificationService := service.NewNotificationService(dispatcher, sender, logger, cfg.Mail, cfg.Frontend)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		Users:     userRepo,
		Directory: dir,
		Tokens:    tokens,
		AuthCfg:   cfg.Auth,
		Logger:    logger,
	})
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		AttachmentRepo: attachmentRepo,
		Store:          store,
		Dispatcher:     dispatcher,
		Location:       cfg.App.Location(),
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		Topics:   topicRepo,
		Statuses: statusRepo,
		Terceros: terceroRepo,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Storage.MaxAttachmentBytes) * 2,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Users:          handlers.NewUsersHandler(authService),
		Directory:      handlers.NewDirectoryHandler(dir, authService),
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
