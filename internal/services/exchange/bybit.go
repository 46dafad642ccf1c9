package exchange

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

// probeSymbol is a liquid market used for the public connectivity probe.
const probeSymbol = "BTCUSDT"

type bybitGateway struct {
	client *bybit.Client
}

func (g *bybitGateway) Ping(ctx context.Context) (int64, error) {
	symbol := bybit.SymbolV5(probeSymbol)
	start := time.Now()
	result, err := g.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   &symbol,
	})
	if err != nil {
		return 0, errors.Wrap(err, "bybit probe failed")
	}
	if result == nil || len(result.Result.Spot.List) == 0 {
		return 0, errors.New("bybit probe returned no data")
	}
	return time.Since(start).Milliseconds(), nil
}

func (g *bybitGateway) Balances(ctx context.Context) ([]domain.BalanceEntry, error) {
	res, err := g.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5("UNIFIED"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bybit wallet balance")
	}
	if len(res.Result.List) == 0 {
		return nil, nil
	}

	coins := res.Result.List[0].Coin
	entries := make([]domain.BalanceEntry, 0, len(coins))
	for _, coin := range coins {
		if isZeroAmount(coin.WalletBalance) {
			continue
		}
		locked := coin.Locked
		if locked == "" {
			locked = "0"
		}
		entries = append(entries, domain.BalanceEntry{
			Currency:  string(coin.Coin),
			Available: coin.WalletBalance,
			Locked:    locked,
		})
	}
	return entries, nil
}

func (g *bybitGateway) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	param := bybit.V5CreateOrderParam{
		Category:    bybit.CategoryV5Spot,
		Symbol:      bybit.SymbolV5(req.Pair.Symbol()),
		Side:        bybitSide(req.Side),
		OrderLinkID: &req.ClientOrderID,
	}

	switch req.Type {
	case domain.OrderTypeLimit:
		price := req.Price.String()
		param.OrderType = bybit.OrderTypeLimit
		param.Qty = req.Volume.String()
		param.Price = &price
	case domain.OrderTypePrice:
		// spot market buys are sized in quote currency on bybit
		param.OrderType = bybit.OrderTypeMarket
		param.Qty = req.Price.String()
	case domain.OrderTypeMarket:
		param.OrderType = bybit.OrderTypeMarket
		param.Qty = req.Volume.String()
	default:
		return domain.OrderResult{}, errors.Errorf("unknown order type %q", req.Type)
	}

	res, err := g.client.V5().Order().CreateOrder(param)
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "failed to create bybit order")
	}

	return domain.OrderResult{
		OrderID:       res.Result.OrderID,
		ClientOrderID: res.Result.OrderLinkID,
		PlacedAt:      time.Now(),
	}, nil
}

func (g *bybitGateway) Klines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}
	bybitInterval, err := convertIntervalToBybit(interval)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid interval: %s", interval)
	}

	result, err := g.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(pair.Symbol()),
		Interval: bybit.Interval(bybitInterval),
		Limit:    &limit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from bybit for %s", pair.String())
	}

	list := result.Result.List
	candles := make([]domain.MarketCandle, 0, len(list))
	// bybit returns newest first
	for i := len(list) - 1; i >= 0; i-- {
		k := list[i]
		candle, err := candleFromStrings(k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "bad kline at index %d", i)
		}
		ms, err := strconv.ParseInt(k.StartTime, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start time at index %d", i)
		}
		candle.OpenTime = time.Unix(0, ms*int64(time.Millisecond))
		candle.CloseTime = candle.OpenTime
		candles = append(candles, candle)
	}
	return candles, nil
}

func (g *bybitGateway) DepositAddress(ctx context.Context, currency string) (string, error) {
	return "", ErrUnsupported
}

func (g *bybitGateway) Withdraw(ctx context.Context, req WithdrawRequest) (string, error) {
	return "", ErrUnsupported
}

func bybitSide(side domain.Side) bybit.Side {
	if side == domain.SideBid {
		return bybit.SideBuy
	}
	return bybit.SideSell
}

// convertIntervalToBybit maps 1m/5m/1h style intervals onto bybit interval codes.
func convertIntervalToBybit(interval string) (string, error) {
	switch {
	case strings.HasSuffix(interval, "m"):
		minutes := strings.TrimSuffix(interval, "m")
		if _, err := strconv.Atoi(minutes); err != nil {
			return "", fmt.Errorf("unsupported interval %q", interval)
		}
		return minutes, nil
	case strings.HasSuffix(interval, "h"):
		hours, err := strconv.Atoi(strings.TrimSuffix(interval, "h"))
		if err != nil {
			return "", fmt.Errorf("unsupported interval %q", interval)
		}
		return strconv.Itoa(hours * 60), nil
	case interval == "1d":
		return "D", nil
	case interval == "1w":
		return "W", nil
	default:
		return "", fmt.Errorf("unsupported interval %q", interval)
	}
}
