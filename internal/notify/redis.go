package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const eventsChannel = "scheduler.events"

// RedisBridge relays change events between server processes over a Redis
// pub/sub channel, so SSE clients of every process see invalidations no
// matter which process handled the write. Events carry an origin tag to
// keep a process from re-consuming its own publishes.
type RedisBridge struct {
	rdb    *redis.Client
	hub    *Hub
	origin string
}

func NewRedisBridge(rdb *redis.Client, hub *Hub) *RedisBridge {
	return &RedisBridge{
		rdb:    rdb,
		hub:    hub,
		origin: uuid.NewString(),
	}
}

func (b *RedisBridge) Start(ctx context.Context) {
	b.hub.AddRelay(func(ev Event) {
		ev.Origin = b.origin
		payload, err := json.Marshal(ev)
		if err != nil {
			return
		}
		if err := b.rdb.Publish(ctx, eventsChannel, payload).Err(); err != nil {
			log.Println("notify: redis publish failed:", err)
		}
	})

	pubsub := b.rdb.Subscribe(ctx, eventsChannel)
	go func() {
		defer pubsub.Close()
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			if ev.Origin == b.origin {
				continue
			}
			b.hub.Deliver(ev)
		}
	}()
}
