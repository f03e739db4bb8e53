package accountdirectory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/account-directory/internal/cache"
	"github.com/magabrotheeeer/account-directory/internal/config"
	healthhandler "github.com/magabrotheeeer/account-directory/internal/http/handlers/health"
	"github.com/magabrotheeeer/account-directory/internal/lib/sl"
	"github.com/magabrotheeeer/account-directory/internal/migrations"
	"github.com/magabrotheeeer/account-directory/internal/rabbitmq"
	"github.com/magabrotheeeer/account-directory/internal/services/directory"
	"github.com/magabrotheeeer/account-directory/internal/storage/inmemory"
	"github.com/magabrotheeeer/account-directory/internal/storage/postgresql"
)

const shutdownTimeout = 15 * time.Second

// App — собранный сервис: HTTP API, опциональный gRPC health и внешние зависимости.
type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	grpcAddr   string
	health     *health.Server
	logger     *slog.Logger
	closers    []io.Closer
}

// New создаёт хранилище, кеш, публикатор событий и маршруты по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.accountdirectory.New"

	a := &App{logger: logger}

	var (
		store  directory.Store
		pinger healthhandler.Pinger
	)
	switch cfg.Driver {
	case config.DriverMemory:
		store = inmemory.New()
	default:
		db, err := postgresql.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, db)
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = db
		pinger = db
	}

	var dirCache directory.Cache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, cacheRedis)
		dirCache = cacheRedis
	}

	var publisher directory.Publisher
	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.ConnectRetries, cfg.RetryDelay)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, conn)
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, ch)
		publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
	}

	dir := directory.New(store, dirCache, publisher, cfg.CacheTTL, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteDeps{
		Directory:    dir,
		Pinger:       pinger,
		Registry:     registry,
		Limiter:      rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		RequireToken: cfg.RequireToken,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.GRPCHealthAddress != "" {
		a.grpcAddr = cfg.GRPCHealthAddress
		a.grpcServer = grpc.NewServer()
		a.health = health.NewServer()
		grpc_health_v1.RegisterHealthServer(a.grpcServer, a.health)
	}

	return a, nil
}

// Run запускает серверы и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", a.grpcAddr)
		if err != nil {
			a.close()
			return fmt.Errorf("app.accountdirectory.Run: %w", err)
		}
		a.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		go func() {
			a.logger.Info("gRPC health server starting on", slog.String("address", a.grpcAddr))
			if err := a.grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}
	return errors.Join(runErr, a.shutdown())
}

func (a *App) shutdown() error {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down HTTP server gracefully")
	if a.health != nil {
		a.health.Shutdown()
	}
	err := a.server.Shutdown(timeoutCtx)
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}
	a.close()
	return err
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
