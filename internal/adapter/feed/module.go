package feed

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/leiter/marketday/internal/config"
	"github.com/leiter/marketday/internal/domain/repository"
)

// Module wires the Kafka change feed as the backend event source.
var Module = fx.Options(
	fx.Provide(newKafka),
	fx.Provide(func(k *Kafka) repository.FeedSource { return k }),
)

type feedParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newKafka(p feedParams) *Kafka {
	return NewKafka(p.Config.KafkaBrokers, p.Config.KafkaGroup, p.Config.TopicPrefix, p.Logger)
}
