package exchange

import (
	"context"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

type binanceGateway struct {
	client *binance.Client
}

func (g *binanceGateway) Ping(ctx context.Context) (int64, error) {
	start := time.Now()
	if err := g.client.NewPingService().Do(ctx); err != nil {
		return 0, errors.Wrap(err, "binance ping failed")
	}
	return time.Since(start).Milliseconds(), nil
}

func (g *binanceGateway) Balances(ctx context.Context) ([]domain.BalanceEntry, error) {
	account, err := g.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account balances")
	}

	entries := make([]domain.BalanceEntry, 0, len(account.Balances))
	for _, b := range account.Balances {
		if isZeroAmount(b.Free) && isZeroAmount(b.Locked) {
			continue
		}
		entries = append(entries, domain.BalanceEntry{
			Currency:  b.Asset,
			Available: b.Free,
			Locked:    b.Locked,
		})
	}
	return entries, nil
}

func (g *binanceGateway) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	svc := g.client.NewCreateOrderService().
		Symbol(req.Pair.Symbol()).
		Side(binanceSide(req.Side)).
		NewClientOrderID(req.ClientOrderID)

	switch req.Type {
	case domain.OrderTypeLimit:
		svc = svc.Type(binance.OrderTypeLimit).
			TimeInForce(binance.TimeInForceTypeGTC).
			Quantity(req.Volume.String()).
			Price(req.Price.String())
	case domain.OrderTypePrice:
		// market buy sized by quote amount
		svc = svc.Type(binance.OrderTypeMarket).
			QuoteOrderQty(req.Price.String())
	case domain.OrderTypeMarket:
		svc = svc.Type(binance.OrderTypeMarket).
			Quantity(req.Volume.String())
	default:
		return domain.OrderResult{}, errors.Errorf("unknown order type %q", req.Type)
	}

	resp, err := svc.Do(ctx)
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "failed to create binance order")
	}

	executed, err := decimal.NewFromString(resp.ExecutedQuantity)
	if err != nil {
		executed = decimal.Zero
	}

	return domain.OrderResult{
		OrderID:       strconv.FormatInt(resp.OrderID, 10),
		ClientOrderID: resp.ClientOrderID,
		Filled:        resp.Status == binance.OrderStatusTypeFilled,
		ExecutedQty:   executed,
		PlacedAt:      time.Unix(0, resp.TransactTime*int64(time.Millisecond)),
	}, nil
}

func (g *binanceGateway) Klines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	klines, err := g.client.NewKlinesService().
		Symbol(pair.Symbol()).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines for %s", pair.String())
	}

	candles := make([]domain.MarketCandle, 0, len(klines))
	for i, k := range klines {
		candle, err := candleFromStrings(k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "bad kline at index %d", i)
		}
		candle.OpenTime = time.Unix(0, k.OpenTime*int64(time.Millisecond))
		candle.CloseTime = time.Unix(0, k.CloseTime*int64(time.Millisecond))
		candles = append(candles, candle)
	}
	return candles, nil
}

func (g *binanceGateway) DepositAddress(ctx context.Context, currency string) (string, error) {
	resp, err := g.client.NewGetDepositAddressService().Coin(currency).Do(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get binance deposit address")
	}
	return resp.Address, nil
}

func (g *binanceGateway) Withdraw(ctx context.Context, req WithdrawRequest) (string, error) {
	svc := g.client.NewCreateWithdrawService().
		Coin(req.Currency).
		Address(req.Address).
		Amount(req.Amount)
	if req.Network != "" {
		svc = svc.Network(req.Network)
	}
	resp, err := svc.Do(ctx)
	if err != nil {
		return "", errors.Wrap(err, "binance withdraw failed")
	}
	return resp.ID, nil
}

func binanceSide(side domain.Side) binance.SideType {
	if side == domain.SideBid {
		return binance.SideTypeBuy
	}
	return binance.SideTypeSell
}

func candleFromStrings(open, high, low, close, volume string) (domain.MarketCandle, error) {
	var candle domain.MarketCandle
	var err error
	if candle.Open, err = decimal.NewFromString(open); err != nil {
		return candle, errors.Wrap(err, "parse open")
	}
	if candle.High, err = decimal.NewFromString(high); err != nil {
		return candle, errors.Wrap(err, "parse high")
	}
	if candle.Low, err = decimal.NewFromString(low); err != nil {
		return candle, errors.Wrap(err, "parse low")
	}
	if candle.Close, err = decimal.NewFromString(close); err != nil {
		return candle, errors.Wrap(err, "parse close")
	}
	if candle.Volume, err = decimal.NewFromString(volume); err != nil {
		return candle, errors.Wrap(err, "parse volume")
	}
	return candle, nil
}

func isZeroAmount(s string) bool {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return d.IsZero()
}
