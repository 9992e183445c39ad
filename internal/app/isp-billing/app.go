// Package ispbilling собирает приложение абонентского учёта: хранилище,
// миграции, кеш, публикацию событий и HTTP-сервер с graceful shutdown.
package ispbilling

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/isp-billing/internal/cache"
	"github.com/magabrotheeeer/isp-billing/internal/config"
	"github.com/magabrotheeeer/isp-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/isp-billing/internal/migrations"
	contractservice "github.com/magabrotheeeer/isp-billing/internal/services/contract"
	customerservice "github.com/magabrotheeeer/isp-billing/internal/services/customer"
	invoiceservice "github.com/magabrotheeeer/isp-billing/internal/services/invoice"
	paymentservice "github.com/magabrotheeeer/isp-billing/internal/services/payment"
	subscriptionservice "github.com/magabrotheeeer/isp-billing/internal/services/subscription"
	"github.com/magabrotheeeer/isp-billing/internal/storage/repository"
)

// App хранит собранные зависимости приложения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitCh *amqp.Channel
	rabbit   *amqp.Connection
}

// New собирает приложение из конфигурации: открывает базу, прогоняет
// миграции, подключает Redis и RabbitMQ и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString, cfg.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitConnection.AddressRabbit, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, cfg.RabbitConnection.Exchange)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(rabbitCh, cfg.RabbitConnection.Exchange)

	customerService := customerservice.New(db, cacheRedis, logger)
	subscriptionService := subscriptionservice.New(db, cacheRedis, logger)
	contractService := contractservice.New(db, logger)
	invoiceService := invoiceservice.New(db, logger)
	paymentService := paymentservice.New(db, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db,
		customerService, subscriptionService, contractService, invoiceService, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitCh: rabbitCh,
		rabbit:   rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.rabbitCh.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbitmq channel", slog.Any("err", cerr))
		}
		if cerr := a.rabbit.Close(); cerr != nil {
			a.logger.Warn("failed to close rabbitmq connection", slog.Any("err", cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Warn("failed to close database", slog.Any("err", cerr))
		}
		return err
	}
}
