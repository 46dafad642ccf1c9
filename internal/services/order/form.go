package order

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

// Form is raw order-entry input: numeric fields arrive as strings exactly
// as typed and are validated here before anything reaches the exchange.
type Form struct {
	Pair   domain.Pair
	Side   domain.Side
	Type   domain.OrderType
	Volume string // base amount; required for limit and market
	Price  string // limit price, or quote amount for price orders
}

// BuildRequest validates the form and constructs the order request.
//   - limit needs positive volume and price
//   - price (market buy by quote amount) needs positive price only
//   - market (market sell by base volume) needs positive volume only
func BuildRequest(form Form) (domain.OrderRequest, error) {
	if form.Side != domain.SideBid && form.Side != domain.SideAsk {
		return domain.OrderRequest{}, errors.Errorf("invalid side %q", form.Side)
	}

	req := domain.OrderRequest{
		Pair:          form.Pair,
		Side:          form.Side,
		Type:          form.Type,
		ClientOrderID: NewClientOrderID(),
	}

	var err error
	switch form.Type {
	case domain.OrderTypeLimit:
		if req.Volume, err = parsePositive(form.Volume, "volume"); err != nil {
			return domain.OrderRequest{}, err
		}
		if req.Price, err = parsePositive(form.Price, "price"); err != nil {
			return domain.OrderRequest{}, err
		}
	case domain.OrderTypePrice:
		if req.Price, err = parsePositive(form.Price, "price"); err != nil {
			return domain.OrderRequest{}, err
		}
	case domain.OrderTypeMarket:
		if req.Volume, err = parsePositive(form.Volume, "volume"); err != nil {
			return domain.OrderRequest{}, err
		}
	default:
		return domain.OrderRequest{}, errors.Errorf("invalid order type %q", form.Type)
	}

	return req, nil
}

// MaxVolume returns the largest base volume the balance allows: for bids
// the available quote divided by price, for asks the available base.
// A zero price yields zero for bids.
func MaxVolume(snapshot domain.BalanceSnapshot, pair domain.Pair, side domain.Side, price decimal.Decimal) decimal.Decimal {
	if side == domain.SideAsk {
		return availableOf(snapshot, pair.Base)
	}
	if price.IsZero() {
		return decimal.Zero
	}
	return availableOf(snapshot, pair.Quote).DivRound(price, 8)
}

// PercentVolume sizes an order as a percentage of max, floored to the
// exchange volume step so the result is always submittable.
func PercentVolume(max decimal.Decimal, percent decimal.Decimal, step int32) (decimal.Decimal, error) {
	hundred := decimal.NewFromInt(100)
	if percent.LessThanOrEqual(decimal.Zero) || percent.GreaterThan(hundred) {
		return decimal.Zero, errors.Errorf("percent must be in (0, 100], got %s", percent)
	}
	return max.Mul(percent).Div(hundred).RoundFloor(step), nil
}

func parsePositive(s, field string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid %s %q", field, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.Errorf("%s must be positive, got %s", field, s)
	}
	return d, nil
}

func availableOf(snapshot domain.BalanceSnapshot, currency string) decimal.Decimal {
	for _, e := range snapshot.Entries {
		if strings.EqualFold(e.Currency, currency) {
			d, err := decimal.NewFromString(e.Available)
			if err != nil {
				return decimal.Zero
			}
			return d
		}
	}
	return decimal.Zero
}
