package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

// Kafka implements repository.FeedSource on top of one Kafka topic per
// collection. Each subscription owns its reader; cancelling the context closes
// the reader and the event channel, and nothing is delivered afterwards.
type Kafka struct {
	brokers []string
	group   string
	prefix  string
	logger  *slog.Logger
}

// NewKafka constructs the Kafka change feed source.
func NewKafka(brokers []string, group, prefix string, logger *slog.Logger) *Kafka {
	return &Kafka{brokers: brokers, group: group, prefix: prefix, logger: logger}
}

// ArticleEvents subscribes to the seller's catalog feed.
func (k *Kafka) ArticleEvents(ctx context.Context, sellerID string) (<-chan reconcile.Event[model.Article], error) {
	return consume(ctx, k, Topic(k.prefix, CollectionArticles, sellerID), CollectionArticles, DecodeArticle)
}

// OrderEvents subscribes to the seller's order feed.
func (k *Kafka) OrderEvents(ctx context.Context, sellerID string) (<-chan reconcile.Event[model.Order], error) {
	return consume(ctx, k, Topic(k.prefix, CollectionOrders, sellerID), CollectionOrders, DecodeOrder)
}

// BasketItemEvents subscribes to the buyer's basket feed.
func (k *Kafka) BasketItemEvents(ctx context.Context, buyerID string) (<-chan reconcile.Event[model.OrderedProduct], error) {
	return consume(ctx, k, Topic(k.prefix, CollectionBasketItems, buyerID), CollectionBasketItems, DecodeBasketItem)
}

func consume[T any](ctx context.Context, k *Kafka, topic, collection string, decode func(Envelope) (reconcile.Event[T], error)) (<-chan reconcile.Event[T], error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  k.group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	out := make(chan reconcile.Event[T])
	go func() {
		defer close(out)
		defer reader.Close()

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				// Terminal stream failure: the channel closes and the
				// consumer decides whether to resubscribe.
				streamErr := &domainErrors.StreamError{Collection: collection, Err: err}
				k.logger.Error("change feed terminated", slog.String("topic", topic), slog.String("error", streamErr.Error()))
				return
			}

			var env Envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				k.logger.Warn("malformed feed envelope", slog.String("topic", topic), slog.String("error", err.Error()))
				continue
			}
			ev, err := decode(env)
			if err != nil {
				k.logger.Warn("undecodable feed event", slog.String("topic", topic), slog.String("event_id", env.EventID), slog.String("error", err.Error()))
				continue
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
