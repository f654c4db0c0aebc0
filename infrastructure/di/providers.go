package di

import (
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mirror-client/application/alerts"
	"mirror-client/application/events"
	"mirror-client/application/framework"
	"mirror-client/application/quiz"
	"mirror-client/application/selection"
	"mirror-client/infrastructure/api"
	"mirror-client/infrastructure/cache"
	"mirror-client/infrastructure/config"
	"mirror-client/infrastructure/session"
	"mirror-client/interfaces/term"
	"mirror-client/pkg/observability"
)

// ProvideLogLevel creates the atomic log level, adjustable at runtime
// by the config watcher.
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	return zap.NewAtomicLevelAt(level)
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	// The terminal owns stdout; logs go to stderr.
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}

// ProvideMetrics creates the process metrics registry
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics()
}

// ProvideSessionStore creates the file-backed session store. A failure
// yields a nil store, which degrades the identity to its sentinel.
func ProvideSessionStore(cfg *config.Config, logger *zap.Logger) session.Store {
	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		logger.Warn("Session store unavailable", zap.Error(err))
		return nil
	}
	return store
}

// ProvideIdentity creates the session identity
func ProvideIdentity(store session.Store, logger *zap.Logger) *session.Identity {
	return session.NewIdentity(store, logger)
}

// ProvideHTTPClient creates the shared HTTP client. No timeout: a hung
// backend call hangs its UI affordance rather than failing early.
func ProvideHTTPClient() *http.Client {
	return &http.Client{}
}

// ProvideGateway creates the API gateway client
func ProvideGateway(cfg *config.Config, httpClient *http.Client, identity *session.Identity, metrics *observability.Metrics, logger *zap.Logger) *api.Client {
	return api.NewClient(cfg.APIBaseURL, httpClient, identity, metrics, logger)
}

// ProvideGraphCache creates the single-slot graph cache
func ProvideGraphCache(gateway *api.Client, logger *zap.Logger) *cache.GraphCache {
	return cache.NewGraphCache(gateway, logger)
}

// ProvideBus creates the UI event bus
func ProvideBus(logger *zap.Logger) *events.Bus {
	return events.NewBus(64, logger)
}

// ProvideAggregator creates the consistency result aggregator
func ProvideAggregator() *alerts.Aggregator {
	return alerts.NewAggregator()
}

// ProvideQuizMachine creates the quiz flow state machine
func ProvideQuizMachine(cfg *config.Config, gateway *api.Client, aggregator *alerts.Aggregator, bus *events.Bus, metrics *observability.Metrics, logger *zap.Logger) *quiz.Machine {
	return quiz.NewMachine(gateway, aggregator, bus, metrics, cfg.FlashDelay, logger)
}

// ProvideSelectionController creates the selection and detail controller
func ProvideSelectionController(gateway *api.Client, graphCache *cache.GraphCache, logger *zap.Logger) *selection.Controller {
	return selection.NewController(gateway, graphCache, logger)
}

// ProvideFrameworkController creates the framework selection controller
func ProvideFrameworkController(gateway *api.Client, machine *quiz.Machine, bus *events.Bus, logger *zap.Logger) *framework.Controller {
	return framework.NewController(gateway, machine, bus, logger)
}

// ProvideGraphView creates the terminal graph view
func ProvideGraphView() *term.GraphView {
	return term.NewGraphView()
}

// ProvideApp wires the interactive terminal app on stdin/stdout
func ProvideApp(
	bus *events.Bus,
	gateway *api.Client,
	graphCache *cache.GraphCache,
	machine *quiz.Machine,
	aggregator *alerts.Aggregator,
	sel *selection.Controller,
	frameworks *framework.Controller,
	view *term.GraphView,
	logger *zap.Logger,
) *term.App {
	return term.NewApp(bus, gateway, graphCache, machine, aggregator, sel, frameworks, view, os.Stdin, os.Stdout, logger)
}
