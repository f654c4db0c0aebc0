package di

import (
	"go.uber.org/zap"

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

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	LogLevel   zap.AtomicLevel
	Metrics    *observability.Metrics
	Identity   *session.Identity
	Gateway    *api.Client
	GraphCache *cache.GraphCache
	Bus        *events.Bus
	Aggregator *alerts.Aggregator
	Quiz       *quiz.Machine
	Selection  *selection.Controller
	Frameworks *framework.Controller
	View       *term.GraphView
	App        *term.App
}
