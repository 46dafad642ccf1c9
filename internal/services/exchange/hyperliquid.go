package exchange

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/cosmicb0y/tradepanel/internal/clients"
	"github.com/cosmicb0y/tradepanel/internal/domain"
)

const hyperliquidSlippage = 0.005 // limit-IOC emulation of market orders

type hyperliquidGateway struct {
	ex          *hyperliquid.Exchange
	info        *hyperliquid.Info
	accountAddr string
}

func newHyperliquidGateway(client *clients.HyperliquidClient) (*hyperliquidGateway, error) {
	if client == nil || client.Exchange() == nil {
		return nil, errors.New("hyperliquid client is not initialized")
	}
	return &hyperliquidGateway{
		ex:          client.Exchange(),
		info:        client.Exchange().Info(),
		accountAddr: client.AccountAddress(),
	}, nil
}

func (g *hyperliquidGateway) Ping(ctx context.Context) (int64, error) {
	start := time.Now()
	if _, err := g.info.AllMids(ctx); err != nil {
		return 0, errors.Wrap(err, "hyperliquid probe failed")
	}
	return time.Since(start).Milliseconds(), nil
}

func (g *hyperliquidGateway) Balances(ctx context.Context) ([]domain.BalanceEntry, error) {
	st, err := g.info.SpotUserState(ctx, g.accountAddr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get hyperliquid spot user state")
	}

	entries := make([]domain.BalanceEntry, 0, len(st.Balances))
	for _, b := range st.Balances {
		if isZeroAmount(b.Total) {
			continue
		}
		total, err := decimal.NewFromString(b.Total)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse balance for %s", b.Coin)
		}
		hold := decimal.Zero
		if b.Hold != "" {
			if hold, err = decimal.NewFromString(b.Hold); err != nil {
				return nil, errors.Wrapf(err, "failed to parse hold for %s", b.Coin)
			}
		}
		entries = append(entries, domain.BalanceEntry{
			Currency:  strings.ToUpper(b.Coin),
			Available: total.Sub(hold).String(),
			Locked:    hold.String(),
		})
	}
	return entries, nil
}

func (g *hyperliquidGateway) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	coin := req.Pair.Base
	isBuy := req.Side == domain.SideBid
	cloid := cloidFromID(req.ClientOrderID)

	var (
		price     float64
		size      float64
		orderType hyperliquid.OrderType
	)

	switch req.Type {
	case domain.OrderTypeLimit:
		price, _ = req.Price.Float64()
		size, _ = req.Volume.Round(8).Float64()
		orderType = hyperliquid.OrderType{Limit: &hyperliquid.LimitOrderType{Tif: hyperliquid.TifGtc}}
	case domain.OrderTypePrice, domain.OrderTypeMarket:
		px, err := g.ex.SlippagePrice(ctx, coin, isBuy, hyperliquidSlippage, nil)
		if err != nil {
			return domain.OrderResult{}, errors.Wrap(err, "slippage price")
		}
		price = px
		if req.Type == domain.OrderTypePrice {
			// quote-sized market buy: convert quote amount to base size
			quote, _ := req.Price.Float64()
			size = quote / px
		} else {
			size, _ = req.Volume.Round(8).Float64()
		}
		orderType = hyperliquid.OrderType{Limit: &hyperliquid.LimitOrderType{Tif: hyperliquid.TifIoc}}
	default:
		return domain.OrderResult{}, errors.Errorf("unknown order type %q", req.Type)
	}

	_, err := g.ex.Order(ctx, hyperliquid.CreateOrderRequest{
		Coin:          coin,
		IsBuy:         isBuy,
		Price:         price,
		Size:          size,
		ClientOrderID: &cloid,
		OrderType:     orderType,
	}, nil)
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "failed to create hyperliquid order")
	}

	return domain.OrderResult{
		ClientOrderID: req.ClientOrderID,
		PlacedAt:      time.Now(),
	}, nil
}

func (g *hyperliquidGateway) Klines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}
	dur, err := intervalDuration(interval)
	if err != nil {
		return nil, err
	}

	endMs := time.Now().UnixMilli()
	startMs := endMs - (int64(limit)+2)*dur.Milliseconds()

	candles, err := g.info.CandlesSnapshot(ctx, strings.ToUpper(pair.Base), interval, startMs, endMs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch hyperliquid candles")
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}

	out := make([]domain.MarketCandle, 0, len(candles))
	for i, c := range candles {
		candle, err := candleFromStrings(c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "bad candle at index %d", i)
		}
		candle.OpenTime = time.UnixMilli(c.TimeOpen)
		candle.CloseTime = time.UnixMilli(c.TimeClose)
		out = append(out, candle)
	}
	return out, nil
}

func (g *hyperliquidGateway) DepositAddress(ctx context.Context, currency string) (string, error) {
	// deposits go to the account's own address on Arbitrum
	if strings.EqualFold(currency, "USDC") {
		return g.accountAddr, nil
	}
	return "", ErrUnsupported
}

func (g *hyperliquidGateway) Withdraw(ctx context.Context, req WithdrawRequest) (string, error) {
	return "", ErrUnsupported
}

// intervalDuration parses 1m/1h/1d style intervals; "1d" is not a valid
// time.ParseDuration input, hence the manual unit handling.
func intervalDuration(interval string) (time.Duration, error) {
	if len(interval) < 2 {
		return 0, errors.Errorf("invalid interval %q", interval)
	}
	n, err := strconv.ParseInt(interval[:len(interval)-1], 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid interval %q", interval)
	}
	switch interval[len(interval)-1] {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default:
		return 0, errors.Errorf("unsupported interval unit in %q", interval)
	}
}

// cloidFromID converts a free-form client ID into a valid cloid (0x + 32 hex chars).
func cloidFromID(id string) string {
	s := strings.TrimSpace(id)
	if s == "" {
		s = time.Now().Format(time.RFC3339Nano)
	}
	sum := sha256.Sum256([]byte(s))
	return "0x" + hex.EncodeToString(sum[:16])
}
