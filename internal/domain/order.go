package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the order side in exchange terms: bid buys, ask sells.
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// OrderType selects the order shape.
// Limit orders carry volume and price. Price orders are market buys sized
// by quote amount. Market orders are market sells sized by base volume.
type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypePrice  OrderType = "price"
	OrderTypeMarket OrderType = "market"
)

// OrderRequest is a fully validated order ready for submission.
type OrderRequest struct {
	Pair          Pair
	Side          Side
	Type          OrderType
	Volume        decimal.Decimal // base amount; zero for price orders
	Price         decimal.Decimal // limit price or quote amount; zero for market orders
	ClientOrderID string
}

// OrderResult is the exchange acknowledgement of a placed order.
type OrderResult struct {
	OrderID       string
	ClientOrderID string
	Filled        bool
	ExecutedQty   decimal.Decimal
	PlacedAt      time.Time
}

// MarketCandle is one OHLCV kline.
type MarketCandle struct {
	OpenTime  time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	CloseTime time.Time
}
