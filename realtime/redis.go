package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultChannel = "donefast:changes"

// RedisBroker relays events through a Redis channel so every instance's hub
// sees writes made by any other instance.
type RedisBroker struct {
	client  *redis.Client
	channel string
	hub     *Hub
	log     *zap.Logger
}

func NewRedisBroker(client *redis.Client, hub *Hub, log *zap.Logger) *RedisBroker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBroker{client: client, channel: DefaultChannel, hub: hub, log: log}
}

// Publish sends ev to Redis. Delivery to the local hub happens when the
// message comes back through Run; if Redis rejects it the event is delivered
// locally so this instance still sees its own writes.
func (b *RedisBroker) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		b.log.Error("encode realtime event", zap.Error(err))
		return
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.log.Warn("redis publish failed, delivering locally", zap.Error(err))
		b.hub.Publish(ctx, ev)
	}
}

// Run forwards channel messages into the hub until ctx is cancelled.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("discarding malformed realtime event", zap.Error(err))
				continue
			}
			b.hub.Publish(ctx, ev)
		}
	}
}
