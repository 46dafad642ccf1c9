package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHubFansOutToAllSubscribers(t *testing.T) {
	hub := NewOrderHub(4)
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)

	ev := OrderEvent{Timestamp: time.Now(), Pair: "BTC_USDT", Side: "bid", Filled: true}
	hub.Publish(ev)

	for _, ch := range []chan OrderEvent{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, "BTC_USDT", got.Pair)
			assert.True(t, got.Filled)
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestOrderHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewOrderHub(1)
	slow := hub.Subscribe()
	defer hub.Unsubscribe(slow)

	hub.Publish(OrderEvent{Pair: "first"})
	hub.Publish(OrderEvent{Pair: "second"}) // buffer full, dropped

	got := <-slow
	assert.Equal(t, "first", got.Pair)
	select {
	case unexpected := <-slow:
		t.Fatalf("expected drop, got %v", unexpected)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewOrderHub(1)
	ch := hub.Subscribe()

	hub.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)

	// publishing after unsubscribe must not panic
	hub.Publish(OrderEvent{Pair: "BTC_USDT"})

	// double unsubscribe is a no-op
	hub.Unsubscribe(ch)
}
