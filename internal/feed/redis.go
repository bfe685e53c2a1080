package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tasklists/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// ChannelPrefix namespaces feed channels in Redis.
const ChannelPrefix = "tasklists:"

// RedisBroker shares events between instances. Publish goes to Redis only;
// every instance, the sender included, receives it back through a pattern
// subscription and hands it to its local subscribers.
type RedisBroker struct {
	rdb   *redis.Client
	psub  *redis.PubSub
	local *LocalBroker
	done  chan struct{}
}

var _ Broker = (*RedisBroker)(nil)

func NewRedisBroker(ctx context.Context, rdb *redis.Client) (*RedisBroker, error) {
	psub := rdb.PSubscribe(ctx, ChannelPrefix+"*")
	// wait for the subscription to be confirmed so no early publish is lost
	if _, err := psub.Receive(ctx); err != nil {
		_ = psub.Close()
		return nil, fmt.Errorf("feed: psubscribe: %w", err)
	}

	b := &RedisBroker{
		rdb:   rdb,
		psub:  psub,
		local: NewLocalBroker(),
		done:  make(chan struct{}),
	}
	go b.run()
	return b, nil
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, ChannelPrefix+ev.Topic, payload).Err(); err != nil {
		// still notify this instance
		b.local.deliver(ev)
		return fmt.Errorf("feed: publish %s: %w", ev.Topic, err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(topic string) *Subscription {
	return b.local.Subscribe(topic)
}

// Close stops the pattern subscription. Open subscriptions stay valid but
// receive nothing further.
func (b *RedisBroker) Close() error {
	err := b.psub.Close()
	<-b.done
	return err
}

func (b *RedisBroker) run() {
	defer close(b.done)
	for msg := range b.psub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logger.Warn("feed: bad payload", "channel", msg.Channel, "error", err)
			continue
		}
		if ev.Topic == "" {
			ev.Topic = strings.TrimPrefix(msg.Channel, ChannelPrefix)
		}
		b.local.deliver(ev)
	}
}
