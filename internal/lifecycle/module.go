package lifecycle

import (
	"go.uber.org/fx"

	"github.com/leiter/marketday/internal/config"
)

// Module builds the order lifecycle machine from the configured schedule.
var Module = fx.Provide(func(cfg *config.Config) *Machine {
	return NewMachine(cfg.Schedule())
})
