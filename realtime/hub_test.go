package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_FiltersByTableAndType(t *testing.T) {
	hub := NewHub(nil)

	deletes, cancelDeletes := hub.Subscribe("cart_items", Delete)
	defer cancelDeletes()
	all, cancelAll := hub.Subscribe("*")
	defer cancelAll()

	ctx := context.Background()
	hub.Publish(ctx, NewEvent("cart_items", Insert, "a", map[string]int{"quantity": 1}))
	hub.Publish(ctx, NewEvent("feedback", Delete, "f1", nil))
	hub.Publish(ctx, NewEvent("cart_items", Delete, "a", nil))

	ev := receive(t, deletes)
	assert.Equal(t, Delete, ev.Type)
	assert.Equal(t, "cart_items", ev.Table)
	assert.Empty(t, ev.Record)

	assert.Equal(t, Insert, receive(t, all).Type)
	assert.Equal(t, "feedback", receive(t, all).Table)
	assert.Equal(t, "a", receive(t, all).ID)

	select {
	case ev := <-deletes:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := NewHub(nil)
	ch, cancel := hub.Subscribe("cart_items")
	assert.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	_, cancel := hub.Subscribe("cart_items")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish(context.Background(), NewEvent("cart_items", Update, "x", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestRedisBroker_RelaysToHub(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	hub := NewHub(nil)
	broker := NewRedisBroker(client, hub, nil)

	ch, cancel := hub.Subscribe("cart_items")
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() { _ = broker.Run(ctx) }()

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, DefaultChannel).Result()
		return err == nil && n[DefaultChannel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	broker.Publish(ctx, NewEvent("cart_items", Update, "row-1", map[string]string{"status": "proses"}))

	ev := receive(t, ch)
	assert.Equal(t, "row-1", ev.ID)
	assert.JSONEq(t, `{"status":"proses"}`, string(ev.Record))
}

func TestRedisBroker_FallsBackLocally(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hub := NewHub(nil)
	broker := NewRedisBroker(client, hub, nil)

	ch, cancel := hub.Subscribe("feedback")
	defer cancel()

	mr.Close()
	broker.Publish(context.Background(), NewEvent("feedback", Insert, "f1", nil))

	assert.Equal(t, "f1", receive(t, ch).ID)
}
