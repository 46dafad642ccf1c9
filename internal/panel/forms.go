package panel

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/services/exchange"
	"github.com/cosmicb0y/tradepanel/internal/services/order"
)

// OrderForm collects order-entry input interactively and validates it into
// an order request. Numeric fields are validated as they are typed.
func OrderForm(pair domain.Pair, snapshot domain.BalanceSnapshot) (domain.OrderRequest, error) {
	var (
		side    string
		ordType string
		volume  string
		price   string
		percent string
	)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Side").
				Options(
					huh.NewOption("Buy (bid)", string(domain.SideBid)),
					huh.NewOption("Sell (ask)", string(domain.SideAsk)),
				).
				Value(&side),
			huh.NewSelect[string]().
				Title("Order Type").
				Options(
					huh.NewOption("Limit", string(domain.OrderTypeLimit)),
					huh.NewOption("Market buy by quote amount", string(domain.OrderTypePrice)),
					huh.NewOption("Market sell by volume", string(domain.OrderTypeMarket)),
				).
				Value(&ordType),
		),
	).Run()
	if err != nil {
		return domain.OrderRequest{}, err
	}

	fields := []huh.Field{}
	needsVolume := ordType != string(domain.OrderTypePrice)
	needsPrice := ordType != string(domain.OrderTypeMarket)

	if needsPrice {
		title := "Price"
		if ordType == string(domain.OrderTypePrice) {
			title = "Quote amount to spend"
		}
		fields = append(fields, huh.NewInput().
			Title(title).
			Value(&price).
			Validate(validateDecimal))
	}
	if needsVolume {
		fields = append(fields, huh.NewInput().
			Title("Volume").
			Description("Base amount; leave empty to size by percent of balance").
			Value(&volume),
			huh.NewInput().
				Title("Percent of balance").
				Description("Used only when volume is empty (e.g. 25)").
				Value(&percent))
	}

	if len(fields) > 0 {
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return domain.OrderRequest{}, err
		}
	}

	// percentage-based sizing when no explicit volume was given
	if needsVolume && strings.TrimSpace(volume) == "" && strings.TrimSpace(percent) != "" {
		pct, err := decimal.NewFromString(strings.TrimSpace(percent))
		if err != nil {
			return domain.OrderRequest{}, err
		}
		priceDec := decimal.Zero
		if needsPrice {
			if priceDec, err = decimal.NewFromString(strings.TrimSpace(price)); err != nil {
				return domain.OrderRequest{}, err
			}
		}
		max := order.MaxVolume(snapshot, pair, domain.Side(side), priceDec)
		sized, err := order.PercentVolume(max, pct, 4)
		if err != nil {
			return domain.OrderRequest{}, err
		}
		volume = sized.String()
	}

	return order.BuildRequest(order.Form{
		Pair:   pair,
		Side:   domain.Side(side),
		Type:   domain.OrderType(ordType),
		Volume: volume,
		Price:  price,
	})
}

// WithdrawForm collects withdrawal input.
func WithdrawForm() (exchange.WithdrawRequest, error) {
	var req exchange.WithdrawRequest

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Currency").
				Validate(notEmpty).
				Value(&req.Currency),
			huh.NewInput().
				Title("Destination Address").
				Validate(notEmpty).
				Value(&req.Address),
			huh.NewInput().
				Title("Amount").
				Validate(validateDecimal).
				Value(&req.Amount),
			huh.NewInput().
				Title("Network").
				Description("Optional, e.g. ETH, TRX").
				Value(&req.Network),
		),
	).Run()
	if err != nil {
		return exchange.WithdrawRequest{}, err
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	return req, nil
}

func validateDecimal(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errInvalidNumber
	}
	if !d.IsPositive() {
		return errInvalidNumber
	}
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

var (
	errInvalidNumber = validationError("must be a positive number")
	errRequired      = validationError("required")
)

type validationError string

func (e validationError) Error() string { return string(e) }
