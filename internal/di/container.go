// Package di provides dependency injection configuration for the FluentView client.
package di

import (
	"github.com/jonboulle/clockwork"
	"github.com/samber/do/v2"

	"github.com/fluentview/fluentview-client/internal/api"
	"github.com/fluentview/fluentview-client/internal/config"
	"github.com/fluentview/fluentview-client/internal/di/providers"
	"github.com/fluentview/fluentview-client/internal/logger"
	"github.com/fluentview/fluentview-client/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// The config is supplied by the caller, which owns flag parsing.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideClock)

	// Storage and transport
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideAPIClient)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideProgressService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvidePlayerService)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[clockwork.Clock](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*api.Client](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ProgressService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.PlayerService](injector)

	return nil
}
