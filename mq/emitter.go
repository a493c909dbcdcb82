package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel carrying catalog change events.
const Channel = "tour-events"

// Index describes one change to a catalog entity.
type Index struct {
	Event      string    `json:"event"`
	EntityType string    `json:"entity_type"`
	Method     string    `json:"method"`
	EntityId   string    `json:"entity_id"`
	ItemId     string    `json:"item_id,omitempty"`
	ItemType   string    `json:"item_type,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher emits events over Redis pub/sub.
type Publisher struct {
	conn *redis.Client
}

func NewPublisher(conn *redis.Client) *Publisher {
	return &Publisher{conn: conn}
}

// Emit publishes content under eventName. Failures are logged, never returned:
// a lost notification must not fail the write that caused it.
func (p *Publisher) Emit(ctx context.Context, eventName string, content Index) {
	if p == nil || p.conn == nil {
		return
	}
	content.Event = eventName
	if content.At.IsZero() {
		content.At = time.Now()
	}

	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.conn.Publish(ctx, Channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", eventName, err)
		return
	}
	log.Printf("[Emit] %s %s/%s", eventName, content.EntityType, content.EntityId)
}

// Subscribe delivers every event on Channel to fn until ctx is done.
func Subscribe(ctx context.Context, conn *redis.Client, fn func(Index)) error {
	sub := conn.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel, err)
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
			var event Index
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[Subscribe] Failed to parse event: %v", err)
				continue
			}
			fn(event)
		}
	}
}
