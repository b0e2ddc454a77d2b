package websocket

import (
	"context"

	"adopte-server/pkg/events"
)

// RedisBridge relays pub/sub payloads into the hub so notifications
// published by any API instance reach clients connected to this one.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

// Run starts the relay and returns immediately; delivery runs in a
// background goroutine until the context is cancelled. The channel list
// takes patterns (user:*, audience:*).
func (b *RedisBridge) Run(ctx context.Context, channels []string) error {
	return b.subscriber.Subscribe(ctx, channels, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
