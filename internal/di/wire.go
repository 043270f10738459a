//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"ForecastAI/internal/domain/repository"
	"ForecastAI/internal/handler/ws"
	"ForecastAI/pkg/config"
	"ForecastAI/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Storage
		ProvideCache,
		ProvideSessionStore,

		// Services
		ProvideAdvisor,
		ProvideRateLimiter,
		ProvideHub,
		wire.Bind(new(repository.EventPublisher), new(*ws.Hub)),

		// Use cases
		ProvideForecaster,
		ProvideDashboard,

		// Transport
		ProvideHTTPHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
