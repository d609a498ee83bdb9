// Package providers contains dependency injection providers for the FluentView client.
package providers

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/samber/do/v2"

	"github.com/fluentview/fluentview-client/internal/config"
	"github.com/fluentview/fluentview-client/internal/logger"
)

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("starting FluentView client",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_dir", cfg.Storage.DataDir,
		"api_base_url", cfg.API.BaseURL,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}

// ProvideClock provides the wall clock. Tests swap in a fake.
func ProvideClock(i do.Injector) (clockwork.Clock, error) {
	return clockwork.NewRealClock(), nil
}
