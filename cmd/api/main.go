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

	httptransport "github.com/spec-kit/blog-platform/internal/api/http"
	"github.com/spec-kit/blog-platform/internal/api/http/handlers"
	"github.com/spec-kit/blog-platform/internal/auth"
	"github.com/spec-kit/blog-platform/internal/config"
	"github.com/spec-kit/blog-platform/internal/events"
	"github.com/spec-kit/blog-platform/internal/mail"
	"github.com/spec-kit/blog-platform/internal/observability"
	"github.com/spec-kit/blog-platform/internal/persistence"
	"github.com/spec-kit/blog-platform/internal/repository"
	"github.com/spec-kit/blog-platform/internal/service"
	"github.com/spec-kit/blog-platform/internal/worker"
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
	postRepo := repository.NewPostRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	var mailer mail.Sender
	if mg, err := mail.NewMailgunSender(cfg.Mail, logger); err == nil {
		mailer = mg
	} else {
		logger.Warn("mailgun not configured; reset links will be logged", zap.Error(err))
		mailer = &mail.LogSender{Logger: logger}
	}

	dispatcher := events.NewInMemoryDispatcher()
	limiter := persistence.NewRateLimiter(redis, "auth", 10, 15*time.Minute)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Limiter:    limiter,
		Logger:     logger,
	})
	postService := service.NewPostService(postRepo, categoryRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, postRepo, dispatcher)
	categoryService := service.NewCategoryService(categoryRepo)
	userService := service.NewUserService(userRepo, postService)
	adminService := service.NewAdminService(userRepo, postRepo, commentRepo, dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:       handlers.NewAuthHandler(authService, cfg.App.Production()),
		Posts:      handlers.NewPostsHandler(postService),
		Comments:   handlers.NewCommentsHandler(commentService),
		Categories: handlers.NewCategoriesHandler(categoryService),
		Profile:    handlers.NewProfileHandler(userService),
		Admin:      handlers.NewAdminHandler(adminService),
		Session:    sessionMiddleware,
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
