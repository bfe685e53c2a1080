// Package feed carries change notifications for lists and profiles.
//
// An event only says that a topic changed. Subscribers re-read the store
// when they see one, so bursts are coalesced: a subscriber holds at most one
// pending event.
package feed

import (
	"context"
	"sync"
	"time"
)

const (
	KindChanged = "changed"
	KindDeleted = "deleted"
)

// Event is published after a list or profile was written.
type Event struct {
	Topic string `json:"topic"`
	Kind  string `json:"kind"`
	At    int64  `json:"at"` // epoch ms
}

func NewEvent(topic, kind string) Event {
	return Event{Topic: topic, Kind: kind, At: time.Now().UnixMilli()}
}

func ListTopic(listID string) string { return "list:" + listID }

func ProfileTopic(uid string) string { return "profile:" + uid }

type Broker interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(topic string) *Subscription
}

// Subscription receives events for one topic on C until Close is called.
type Subscription struct {
	C     <-chan Event
	ch    chan Event
	topic string
	b     *LocalBroker
	once  sync.Once
}

func (s *Subscription) Topic() string { return s.topic }

// Close detaches the subscription and closes C. It is safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() { s.b.remove(s) })
}

// LocalBroker fans events out to subscribers in this process.
type LocalBroker struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

var _ Broker = (*LocalBroker)(nil)

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[*Subscription]struct{})}
}

func (b *LocalBroker) Publish(_ context.Context, ev Event) error {
	b.deliver(ev)
	return nil
}

func (b *LocalBroker) Subscribe(topic string) *Subscription {
	ch := make(chan Event, 1)
	s := &Subscription{C: ch, ch: ch, topic: topic, b: b}

	b.mu.Lock()
	set, ok := b.subs[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[topic] = set
	}
	set[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Subscribers returns the number of open subscriptions on topic.
func (b *LocalBroker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *LocalBroker) deliver(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs[ev.Topic] {
		select {
		case s.ch <- ev:
		default:
			// one pending event already tells the subscriber to re-read
		}
	}
}

func (b *LocalBroker) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[s.topic]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(b.subs, s.topic)
		}
	}
	close(s.ch)
}
