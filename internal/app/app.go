// Package app wires the service together with go.uber.org/fx.
package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/voyagen/tvguide/internal/config"
)

// CreateApp returns the fx options for the whole service.
func CreateApp(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.StopTimeout(cfg.ShutdownTimeout+5*time.Second),

		LoggerModule,
		DatabaseModule,
		NotifyModule,
		ServiceModule,
		ServerModule,
	)
}
