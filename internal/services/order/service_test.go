package order

import (
	"context"
	"errors"
	"testing"

	"github.com/adshao/go-binance/v2/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/events"
)

type fakePlacer struct {
	result domain.OrderResult
	err    error
	calls  int
	last   domain.OrderRequest
}

func (f *fakePlacer) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	f.calls++
	f.last = req
	return f.result, f.err
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(message string) {
	f.messages = append(f.messages, message)
}

func TestPlacePublishesFillEvent(t *testing.T) {
	placer := &fakePlacer{result: domain.OrderResult{ClientOrderID: "tp-abc", Filled: true}}
	hub := events.NewOrderHub(4)
	notifier := &fakeNotifier{}
	s := New(placer, hub, notifier, zap.NewNop())

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	req := domain.OrderRequest{
		Pair: domain.Pair{Base: "BTC", Quote: "USDT"},
		Side: domain.SideBid,
		Type: domain.OrderTypeLimit,
	}
	result, err := s.Place(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Filled)

	require.Equal(t, 1, placer.calls)
	assert.NotEmpty(t, placer.last.ClientOrderID, "missing client order id must be generated")

	select {
	case ev := <-sub:
		assert.Equal(t, "BTC_USDT", ev.Pair)
		assert.Equal(t, "bid", ev.Side)
		assert.True(t, ev.Filled)
	default:
		t.Fatal("expected an order event on the hub")
	}

	require.NotEmpty(t, notifier.messages)
	assert.Contains(t, notifier.messages[len(notifier.messages)-1], "order accepted")
}

func TestPlaceKeepsCallerClientOrderID(t *testing.T) {
	placer := &fakePlacer{}
	s := New(placer, nil, nil, zap.NewNop())

	req := domain.OrderRequest{
		Pair:          domain.Pair{Base: "BTC", Quote: "USDT"},
		Side:          domain.SideAsk,
		Type:          domain.OrderTypeMarket,
		ClientOrderID: "caller-id-1",
	}
	_, err := s.Place(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "caller-id-1", placer.last.ClientOrderID)
}

func TestPlaceDoesNotRetryOrdinaryErrors(t *testing.T) {
	placer := &fakePlacer{err: errors.New("insufficient balance")}
	notifier := &fakeNotifier{}
	s := New(placer, nil, notifier, zap.NewNop())

	_, err := s.Place(context.Background(), domain.OrderRequest{
		Pair: domain.Pair{Base: "BTC", Quote: "USDT"},
		Side: domain.SideBid,
		Type: domain.OrderTypeMarket,
	})

	require.Error(t, err)
	assert.Equal(t, 1, placer.calls, "non-rate-limit errors must not be retried")
	require.NotEmpty(t, notifier.messages)
	assert.Contains(t, notifier.messages[0], "order rejected")
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "binance too many requests code", err: &common.APIError{Code: -1003, Message: "Too much request weight used"}, expected: true},
		{name: "binance too many orders code", err: &common.APIError{Code: -1015, Message: "Too many new orders"}, expected: true},
		{name: "binance unrelated code", err: &common.APIError{Code: -2010, Message: "Account has insufficient balance"}, expected: false},
		{name: "rate limit text", err: errors.New("Rate limit exceeded for endpoint"), expected: true},
		{name: "too many requests text", err: errors.New("HTTP error: Too Many Requests"), expected: true},
		{name: "http 429", err: errors.New("unexpected status 429"), expected: true},
		{name: "plain failure", err: errors.New("connection reset"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRateLimited(tt.err))
		})
	}
}
