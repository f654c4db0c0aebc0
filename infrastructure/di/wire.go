//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"mirror-client/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideMetrics,
	ProvideSessionStore,
	ProvideIdentity,
	ProvideHTTPClient,
	ProvideGateway,
	ProvideGraphCache,
	ProvideBus,
	ProvideAggregator,
	ProvideQuizMachine,
	ProvideSelectionController,
	ProvideFrameworkController,
	ProvideGraphView,
	ProvideApp,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
