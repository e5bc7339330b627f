package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	httpAdapter "github.com/lorrc/ticket-sync/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-sync/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-sync/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-sync/internal/adapters/secondary/api"
	"github.com/lorrc/ticket-sync/internal/adapters/secondary/events"
	"github.com/lorrc/ticket-sync/internal/adapters/secondary/storage"
	"github.com/lorrc/ticket-sync/internal/auth"
	"github.com/lorrc/ticket-sync/internal/config"
	"github.com/lorrc/ticket-sync/internal/core/ports"
	"github.com/lorrc/ticket-sync/internal/core/services"
	"github.com/lorrc/ticket-sync/internal/infrastructure/clock"
	"github.com/lorrc/ticket-sync/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stdout,
		File: logging.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Session & Remote Ticket API
	session := auth.NewSession(cfg.Session.File, cfg.Session.Token, logger)

	client, err := api.NewClient(cfg.Remote.BaseURL, cfg.Remote.RequestTimeout, session, logger)
	if err != nil {
		logger.Error("failed to create ticket API client", "error", err)
		os.Exit(1)
	}

	if cfg.Remote.StartupWait > 0 {
		if err := waitForRemote(ctx, client, cfg.Remote.StartupWait, logger); err != nil {
			logger.Warn("ticket API not reachable yet, continuing", "error", err)
		}
	}

	// 4. Interaction Storage
	var store ports.InteractionStore
	if cfg.Storage.ProfileDir != "" {
		fileStore, err := storage.NewFileStore(cfg.Storage.ProfileDir)
		if err != nil {
			logger.Warn("profile directory unavailable, keeping interactions in memory",
				"dir", cfg.Storage.ProfileDir,
				"error", err,
			)
			store = storage.NewMemoryStore()
		} else {
			store = fileStore
		}
	} else {
		store = storage.NewMemoryStore()
	}

	// 5. Real-time Components
	clk := clock.Real()
	bus := events.NewBus()
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// 6. Dependency Injection (Wiring the Hexagon)
	poller := services.NewTicketSyncPoller(client, bus, clk, services.PollerConfig{
		Interval:       cfg.Sync.Interval,
		RequestTimeout: cfg.Remote.RequestTimeout,
		ClearOnError:   cfg.Sync.ClearOnError,
		TriggerRate:    cfg.Sync.TriggerRPS,
		TriggerBurst:   cfg.Sync.TriggerBurst,
	}, logger)

	tracker := services.NewInteractionTracker(store, session, clk, logger)

	searchIndex, err := services.NewSearchIndex(cfg.Search.CacheSize)
	if err != nil {
		logger.Error("failed to create search index", "error", err)
		os.Exit(1)
	}

	dashboards := services.NewDashboardService(poller, tracker, session, clk, cfg.Sync.Interval)
	history := services.NewHistoryService(poller, tracker, searchIndex, services.NewSearchTracker(tracker, cfg.Search.Debounce))
	actions := services.NewTicketActionService(client, poller, tracker, logger)
	liveFeed := services.NewLiveFeed(dashboards, hub, logger)
	poller.OnSync(liveFeed.OnSync)

	// 7. Rate Limiters
	var generalRateLimiter, actionRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Stop()

		actionRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.ActionRPS,
			BurstSize:         cfg.RateLimit.ActionBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
		defer actionRateLimiter.Stop()
	}

	// 8. Handlers (Primary Adapters)
	errorHandler := httpAdapter.NewErrorHandler(logger)
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Identity:       session,
		GeneralLimiter: generalRateLimiter,
		ActionLimiter:  actionRateLimiter,
		Health:         httpAdapter.NewHealthHandler(client, poller, cfg.App.Version),
		Me:             httpAdapter.NewMeHandler(session, logger),
		Dashboards:     httpAdapter.NewDashboardHandler(dashboards, logger),
		Admin:          httpAdapter.NewAdminHandler(actions, errorHandler, logger),
		History:        httpAdapter.NewHistoryHandler(history, errorHandler, logger),
		Interactions:   httpAdapter.NewInteractionHandler(tracker, errorHandler, logger),
		Window:         httpAdapter.NewWindowHandler(bus, errorHandler, logger),
		WebSocket: httpAdapter.NewWebSocketHandler(hub, liveFeed, bus, httpAdapter.WebSocketConfig{
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			KeepAlive: websocket.KeepAlive{
				PingPeriod: cfg.WebSocket.PingInterval,
				PongWait:   cfg.WebSocket.PongWait,
			},
			IsDevelopment: cfg.IsDevelopment(),
		}, logger),
	})

	// 9. Start Sync and Server with Graceful Shutdown
	poller.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		exitCode = 1
	}

	// Stop polling first so no new results are applied during shutdown
	poller.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		exitCode = 1
	}

	poller.Wait()
	logger.Info("server shutdown complete")

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// waitForRemote pings the ticket API with exponential backoff until it
// answers or maxWait elapses.
func waitForRemote(ctx context.Context, remote httpAdapter.HealthChecker, maxWait time.Duration, logger *slog.Logger) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = maxWait

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		err := remote.Ping(pingCtx)
		if err != nil {
			logger.Debug("ticket API not ready", "attempt", attempt, "error", err)
		}
		return err
	}, backoff.WithContext(policy, ctx))
}
