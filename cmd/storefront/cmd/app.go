package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/api"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/history"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/adapter/outbound/state"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/config"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/port/outbound"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/service"
	"github.com/FernandoJacobo/ecommerce-sub001/internal/telemetry"
)

// app holds the wired-up client for one command invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *service.SessionService
	cart    *service.CartService
	history outbound.HistoryStore

	shutdownTracing func(context.Context) error
}

// newApp loads configuration and constructs the stores and adapters.
// Stores are singletons for the process lifetime; commands operate on them
// and Close tears everything down.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := os.MkdirAll(cfg.State.Dir, 0700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	shutdownTracing, err := telemetry.SetupTracing(cfg.Telemetry.TracesEnabled, logger)
	if err != nil {
		return nil, err
	}

	tokens := state.NewFileTokenStore(cfg.TokenPath(), logger)

	var historyStore outbound.HistoryStore
	if cfg.History.Enabled {
		historyStore, err = history.NewSQLiteStore(cfg.History.Path, cfg.History.MaxEntries)
		if err != nil {
			// History is a convenience; a broken local database must not
			// take the client down.
			logger.Warn("history store unavailable", "error", err)
			historyStore = nil
		}
	}

	a := &app{
		cfg:             cfg,
		logger:          logger,
		history:         historyStore,
		shutdownTracing: shutdownTracing,
	}

	metrics := api.NewMetrics(prometheus.NewRegistry())
	transport := api.NewTransport(tokens,
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
		api.WithMetrics(metrics),
		api.WithSessionExpiredHook(func() {
			if a.session != nil {
				a.session.Invalidate()
			}
		}),
	)
	client := api.NewClient(transport)

	notifier := &consoleNotifier{out: os.Stdout, errOut: os.Stderr}
	a.session = service.NewSessionService(client, tokens, notifier, historyStore, logger)
	a.cart = service.NewCartService(client, a.session, notifier, historyStore, metrics, logger)

	// Cart lifecycle follows authentication: fetched when a session
	// appears, dropped when it goes away.
	a.session.SetAuthChangeListener(func(authenticated bool) {
		if authenticated {
			_ = a.cart.Refresh(context.Background())
		} else {
			a.cart.Reset()
		}
	})

	return a, nil
}

// Close flushes telemetry and releases the history store.
func (a *app) Close(ctx context.Context) {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("failed to close history store", "error", err)
		}
	}
	if err := a.shutdownTracing(ctx); err != nil {
		a.logger.Warn("failed to shut down tracing", "error", err)
	}
}

// consoleNotifier prints transient notifications to the terminal.
type consoleNotifier struct {
	out    io.Writer
	errOut io.Writer
}

func (n *consoleNotifier) Success(msg string) {
	fmt.Fprintln(n.out, msg)
}

func (n *consoleNotifier) Error(msg string) {
	fmt.Fprintln(n.errOut, "error: "+msg)
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
