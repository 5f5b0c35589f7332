package socialhub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/social-hub/internal/cache"
	"github.com/magabrotheeeer/social-hub/internal/config"
	"github.com/magabrotheeeer/social-hub/internal/http/handlers/health"
	"github.com/magabrotheeeer/social-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/social-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/social-hub/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/social-hub/internal/lib/sl"
	"github.com/magabrotheeeer/social-hub/internal/migrations"
	adminservice "github.com/magabrotheeeer/social-hub/internal/services/admin"
	authservice "github.com/magabrotheeeer/social-hub/internal/services/auth"
	eventservice "github.com/magabrotheeeer/social-hub/internal/services/event"
	userservice "github.com/magabrotheeeer/social-hub/internal/services/user"
	"github.com/magabrotheeeer/social-hub/internal/storage/repository"
)

const limiterCleanupInterval = time.Minute

// App — HTTP-сервер платформы со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	cache   *cache.Cache
	limiter *middlewarectx.LimiterStore
	amqp    *amqp.Connection
}

// New подключает хранилища, применяет миграции и собирает маршруты.
// RabbitMQ необязателен: без адреса брокера решения по заявкам не рассылаются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.socialhub.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		publisher adminservice.Publisher
		conn      *amqp.Connection
	)
	if cfg.RabbitMQURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			_ = db.Close()
			_ = cacheRedis.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			_ = db.Close()
			_ = cacheRedis.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, organizer decisions will not be sent")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	services := Services{
		Auth:   authservice.NewAuthService(db, jwtMaker),
		Users:  userservice.NewUserService(db, logger),
		Events: eventservice.NewEventService(db, cacheRedis, cfg.EventTTL, logger),
		Admin:  adminservice.NewAdminService(db, publisher, logger),
	}

	limiter := middlewarectx.NewLimiterStore(cfg.RateLimit)
	limiter.StartCleanup(limiterCleanupInterval)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, limiter, map[string]health.Pinger{
		"postgres": db,
		"redis":    cacheRedis,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		db:      db,
		cache:   cacheRedis,
		limiter: limiter,
		amqp:    conn,
	}, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	a.limiter.Stop()
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis client", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
