package events

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

type RedisBroker struct {
	Client *goredis.Client
}

func NewRedisBroker(client *goredis.Client) *RedisBroker {
	return &RedisBroker{Client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, event Event) error {
	if b == nil || b.Client == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.Client.Publish(ctx, channel, data).Err()
}

// Subscribe uses pattern subscriptions so one connection covers every
// per-user and per-audience channel.
func (b *RedisBroker) Subscribe(ctx context.Context, patterns []string, handler func(channel string, payload []byte)) error {
	if b == nil || b.Client == nil {
		return nil
	}
	pubsub := b.Client.PSubscribe(ctx, patterns...)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler(msg.Channel, []byte(msg.Payload))
			}
		}
	}()

	return nil
}
