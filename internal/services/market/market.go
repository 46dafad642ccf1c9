// Package market backs the market data panel: recent candles plus a small
// indicator summary computed with the cinar/indicator library.
package market

import (
	"context"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

const (
	emaShortPeriod = 20
	emaLongPeriod  = 50
	rsiPeriod      = 14
)

// KlineProvider fetches OHLCV candles.
type KlineProvider interface {
	Klines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error)
}

// Summary is one market-panel row.
type Summary struct {
	Pair      domain.Pair
	LastPrice decimal.Decimal
	EMA20     decimal.Decimal
	EMA50     decimal.Decimal
	RSI14     decimal.Decimal
}

// Panel computes market summaries for display.
type Panel struct {
	provider KlineProvider
	interval string
}

// NewPanel creates a market panel backend over the given kline provider.
func NewPanel(provider KlineProvider, interval string) *Panel {
	if interval == "" {
		interval = "5m"
	}
	return &Panel{provider: provider, interval: interval}
}

// Summarize fetches recent candles and computes the indicator summary.
func (p *Panel) Summarize(ctx context.Context, pair domain.Pair) (Summary, error) {
	limit := emaLongPeriod * 2
	candles, err := p.provider.Klines(ctx, pair, p.interval, limit)
	if err != nil {
		return Summary{}, errors.Wrap(err, "failed to fetch candles")
	}
	if len(candles) < emaLongPeriod {
		return Summary{}, errors.Errorf("not enough candles: need %d, got %d", emaLongPeriod, len(candles))
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i], _ = c.Close.Float64()
	}

	ema20 := lastOf(helper.ChanToSlice(trend.NewEmaWithPeriod[float64](emaShortPeriod).Compute(helper.SliceToChan(closes))))
	ema50 := lastOf(helper.ChanToSlice(trend.NewEmaWithPeriod[float64](emaLongPeriod).Compute(helper.SliceToChan(closes))))
	rsi := lastOf(helper.ChanToSlice(momentum.NewRsiWithPeriod[float64](rsiPeriod).Compute(helper.SliceToChan(closes))))

	return Summary{
		Pair:      pair,
		LastPrice: candles[len(candles)-1].Close,
		EMA20:     decimal.NewFromFloat(ema20),
		EMA50:     decimal.NewFromFloat(ema50),
		RSI14:     decimal.NewFromFloat(rsi),
	}, nil
}

func lastOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
