package rediscache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/leiter/marketday/internal/config"
	"github.com/leiter/marketday/internal/usecase"
)

// Module wires the Redis draft mirror. Without a configured Redis address the
// mirror is absent and drafts live in the repository only.
var Module = fx.Options(
	fx.Provide(newMirror),
)

type mirrorParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newMirror(p mirrorParams) usecase.DraftMirror {
	if p.Config.RedisAddress == "" {
		return nil
	}

	mirror := New(p.Config.RedisAddress, p.Config.DraftTTL, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return mirror.Close()
		},
	})
	return mirror
}
