package providers

import (
	"github.com/jonboulle/clockwork"
	"github.com/samber/do/v2"

	"github.com/fluentview/fluentview-client/internal/api"
	"github.com/fluentview/fluentview-client/internal/config"
	"github.com/fluentview/fluentview-client/internal/logger"
	"github.com/fluentview/fluentview-client/internal/service"
)

// ProvideAPIClient provides the backend HTTP client.
func ProvideAPIClient(i do.Injector) (*api.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return api.New(cfg.API, log.Logger), nil
}

// ProvideAuthService provides the login flow service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*api.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, client, log.Logger), nil
}

// ProvideProgressService provides the watch-time progress service.
func ProvideProgressService(i do.Injector) (*service.ProgressService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*api.Client](i)
	clock := do.MustInvoke[clockwork.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProgressService(storeHandle.Store, client, clock, log.Logger), nil
}

// ProvideCatalogService provides the cached catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*api.Client](i)
	clock := do.MustInvoke[clockwork.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, client, clock, cfg.Catalog, log.Logger), nil
}

// ProvidePlayerService provides the watch session tracker.
func ProvidePlayerService(i do.Injector) (*service.PlayerService, error) {
	client := do.MustInvoke[*api.Client](i)
	progress := do.MustInvoke[*service.ProgressService](i)
	clock := do.MustInvoke[clockwork.Clock](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlayerService(client, progress, clock, log.Logger), nil
}
