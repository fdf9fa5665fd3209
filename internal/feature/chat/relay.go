// Package chat implements a minimal real-time chat relay: stateless
// pub/sub pairing of two users over a Redis channel. Messages are not
// stored; a participant only receives what is published while they are
// subscribed.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRelayUnavailable is returned when no Redis client is configured.
var ErrRelayUnavailable = errors.New("chat relay is unavailable")

// Message is a single chat message relayed between a user pair.
type Message struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

// Relay publishes and subscribes chat messages on per-pair Redis
// channels.
type Relay struct {
	rdb       *redis.Client
	namespace string
}

// NewRelay creates a Relay. If namespace is empty, it uses "chat".
func NewRelay(rdb *redis.Client, namespace string) *Relay {
	if namespace == "" {
		namespace = "chat"
	}
	return &Relay{rdb: rdb, namespace: namespace}
}

// RoomID returns the canonical room identity for a user pair: the two
// usernames ordered lexicographically, so both participants address the
// same room regardless of who opens it.
func RoomID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + " " + b
}

// channel returns the Redis channel name for a user pair.
func (r *Relay) channel(a, b string) string {
	return fmt.Sprintf("%s:%s", r.namespace, RoomID(a, b))
}

// Publish sends a message to the pair's channel. Delivery is fire and
// forget: without a subscriber the message is dropped.
func (r *Relay) Publish(ctx context.Context, msg Message) error {
	if r.rdb == nil {
		return ErrRelayUnavailable
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := r.rdb.Publish(ctx, r.channel(msg.From, msg.To), data).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe opens the pair's channel and returns a stream of incoming
// messages plus a close function. The stream ends when the context is
// cancelled or the close function is called.
func (r *Relay) Subscribe(ctx context.Context, a, b string) (<-chan Message, func(), error) {
	if r.rdb == nil {
		return nil, nil, ErrRelayUnavailable
	}

	sub := r.rdb.Subscribe(ctx, r.channel(a, b))
	// Confirm the subscription before handing out the stream.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-sub.Channel():
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					// Drop unreadable payloads; the relay carries no history
					// to repair from.
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	closeFn := func() { _ = sub.Close() }
	return out, closeFn, nil
}
