// Package exchange adapts the per-platform SDK clients to the small
// request/response surface the terminal consumes: connectivity probe,
// balance query, order placement, klines and transfer operations.
package exchange

import (
	"context"
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"github.com/cosmicb0y/tradepanel/internal/clients"
	"github.com/cosmicb0y/tradepanel/internal/domain"
)

// ErrUnsupported is returned for operations the selected platform does not expose.
var ErrUnsupported = errors.New("operation not supported on this platform")

// WithdrawRequest describes an on-chain withdrawal.
type WithdrawRequest struct {
	Currency string
	Address  string
	Amount   string
	Network  string
}

// Gateway is the exchange collaborator surface. Probe and query failures are
// reported through the error return; implementations never panic on API errors.
type Gateway interface {
	// Ping verifies connectivity and returns observed round-trip latency.
	Ping(ctx context.Context) (latencyMs int64, err error)
	// Balances returns every asset with a non-zero total plus assets the
	// exchange reports anyway.
	Balances(ctx context.Context) ([]domain.BalanceEntry, error)
	// PlaceOrder submits a validated order request.
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)
	// Klines fetches OHLCV candles for the market panel.
	Klines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error)
	// DepositAddress returns the deposit address for a currency.
	DepositAddress(ctx context.Context, currency string) (string, error)
	// Withdraw requests an on-chain withdrawal and returns its id.
	Withdraw(ctx context.Context, req WithdrawRequest) (string, error)
}

// New dispatches to the platform-specific gateway based on the client type.
// This is the single point of truth for platform dispatch.
func New(client any) (Gateway, error) {
	switch c := client.(type) {
	case *binance.Client:
		return &binanceGateway{client: c}, nil
	case *bybit.Client:
		return &bybitGateway{client: c}, nil
	case *clients.HyperliquidClient:
		return newHyperliquidGateway(c)
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}
