package feed

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, s *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-s.C:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func assertQuiet(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case ev, ok := <-s.C:
		if ok {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalBroker_DeliversToTopicOnly(t *testing.T) {
	b := NewLocalBroker()
	a := b.Subscribe(ListTopic("a"))
	other := b.Subscribe(ListTopic("b"))
	defer a.Close()
	defer other.Close()

	require.NoError(t, b.Publish(context.Background(), NewEvent(ListTopic("a"), KindChanged)))

	ev := recv(t, a)
	assert.Equal(t, "list:a", ev.Topic)
	assert.Equal(t, KindChanged, ev.Kind)
	assertQuiet(t, other)
}

func TestLocalBroker_CoalescesBursts(t *testing.T) {
	b := NewLocalBroker()
	s := b.Subscribe(ProfileTopic("u1"))
	defer s.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Publish(context.Background(), NewEvent(ProfileTopic("u1"), KindChanged)))
	}

	recv(t, s)
	assertQuiet(t, s)
}

func TestLocalBroker_FanOut(t *testing.T) {
	b := NewLocalBroker()
	s1 := b.Subscribe(ListTopic("x"))
	s2 := b.Subscribe(ListTopic("x"))
	defer s1.Close()
	defer s2.Close()
	assert.Equal(t, 2, b.Subscribers(ListTopic("x")))

	require.NoError(t, b.Publish(context.Background(), NewEvent(ListTopic("x"), KindDeleted)))
	assert.Equal(t, KindDeleted, recv(t, s1).Kind)
	assert.Equal(t, KindDeleted, recv(t, s2).Kind)
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	b := NewLocalBroker()
	s := b.Subscribe(ListTopic("x"))
	s.Close()
	s.Close()

	require.NoError(t, b.Publish(context.Background(), NewEvent(ListTopic("x"), KindChanged)))
	_, ok := <-s.C
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers(ListTopic("x")))
}

// Runs only if REDIS_ADDR is set.
func TestRedisBroker_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := NewRedisBroker(ctx, rdb)
	require.NoError(t, err)
	defer b.Close()

	topic := ListTopic("redis-test-" + strconv.FormatInt(time.Now().UnixNano(), 10))
	s := b.Subscribe(topic)
	defer s.Close()

	require.NoError(t, b.Publish(ctx, NewEvent(topic, KindChanged)))
	ev := recv(t, s)
	assert.Equal(t, topic, ev.Topic)
}
