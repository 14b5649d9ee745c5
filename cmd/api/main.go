package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/ecommerce-api/internal/config"
	"github.com/jcmexdev/ecommerce-api/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-api/internal/pkg/health"
	"github.com/jcmexdev/ecommerce-api/internal/pkg/orderlog/sqlite"
	"github.com/jcmexdev/ecommerce-api/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/ports"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/core/services"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/adapters/events"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/adapters/ledger"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/adapters/memory"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/adapters/token"
	"github.com/jcmexdev/ecommerce-api/internal/storefront/infra/httpx"
)

// @title Storefront API
// @version 1.0
// @description Login, product catalog and idempotent order placement.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("storefront api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		telemetry.InitLogger("info")
		return err
	}
	logger := telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("initialise tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	policy, err := services.ParseKeyPolicy(cfg.IdempotencyPolicy)
	if err != nil {
		return err
	}

	tokens, err := token.NewJWTService(cfg.JWTSecret, token.WithTTL(cfg.TokenTTL))
	if err != nil {
		return err
	}

	probes := health.NewServer(logger)

	var idempotency ports.IdempotencyLedger = memory.NewLedger()
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, "storefront")
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		probes.AddProbe("redis", redisCache.Ping)
		idempotency = ledger.NewRedisLedger(redisCache)
	}

	orderOpts := []services.OrderOption{
		services.WithKeyPolicy(policy),
		services.WithLogger(logger),
	}

	if cfg.OrderJournalPath != "" {
		journal, err := sqlite.Open(cfg.OrderJournalPath)
		if err != nil {
			return err
		}
		defer journal.Close()
		orderOpts = append(orderOpts, services.WithJournal(journal))
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		orderOpts = append(orderOpts, services.WithPublisher(publisher))
	} else {
		orderOpts = append(orderOpts, services.WithPublisher(events.NewLogPublisher(logger)))
	}

	handler := httpx.NewHandler(
		services.NewAuthService(memory.NewUserStore(memory.SeedUsers()), tokens),
		services.NewCatalogService(memory.NewCatalogStore()),
		services.NewOrderService(idempotency, memory.NewOrderStore(), orderOpts...),
		logger,
	)
	router := httpx.NewRouter(handler, httpx.RouterConfig{
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           otelhttp.NewHandler(router, "storefront-api"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("storefront api running",
			"addr", srv.Addr,
			"idempotency_policy", policy.String(),
			"redis", cfg.RedisAddr != "",
			"journal", cfg.OrderJournalPath != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.GRPCHealthAddr, err)
		}
		g.Go(func() error {
			slog.Info("grpc health server running", "addr", cfg.GRPCHealthAddr)
			return probes.Serve(gctx, lis)
		})
	}

	return g.Wait()
}
