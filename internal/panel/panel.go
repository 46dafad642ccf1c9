// Package panel renders the terminal panels and interactive forms. It is
// a thin presentation layer: everything it shows comes from the core's
// read surfaces, and every action maps onto one core operation.
package panel

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/services/market"
)

var (
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"})
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: "#626262"})
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Toast prints short user-facing notifications, the order flow's toast sink.
type Toast struct{}

func (Toast) Notify(message string) {
	fmt.Println(dimStyle.Render("• " + message))
}

// RenderConnection renders the connection status panel.
func RenderConnection(platform domain.Platform, state domain.ConnectionState) string {
	var line string
	switch state.Status {
	case domain.StatusConnected:
		line = greenStyle.Render(fmt.Sprintf("● connected (%dms)", state.LatencyMs))
	case domain.StatusConnecting:
		line = dimStyle.Render("◌ connecting...")
	default:
		line = redStyle.Render("○ disconnected")
		if state.LastError != "" {
			line += dimStyle.Render(" — " + state.LastError)
		}
		if state.RetryAttempt > 0 {
			line += dimStyle.Render(fmt.Sprintf(" (attempt %d)", state.RetryAttempt))
		}
	}
	return boxStyle.Render(titleStyle.Render(platform.String()) + "  " + line)
}

// RenderBalances renders the balance panel with per-asset deltas against
// the previous snapshot.
func RenderBalances(snapshot domain.BalanceSnapshot) string {
	if len(snapshot.Entries) == 0 {
		body := dimStyle.Render("no balances")
		if snapshot.Err != "" {
			body = redStyle.Render("error: " + snapshot.Err)
		}
		return boxStyle.Render(titleStyle.Render("balances") + "\n" + body)
	}

	body := titleStyle.Render("balances")
	if snapshot.Err != "" {
		body += "  " + redStyle.Render("(stale: "+snapshot.Err+")")
	}
	for _, e := range snapshot.Entries {
		line := fmt.Sprintf("\n%-8s %16s", e.Currency, e.Available)
		if !isZero(e.Locked) {
			line += dimStyle.Render(fmt.Sprintf("  locked %s", e.Locked))
		}
		if delta := snapshot.Delta(e.Currency); !delta.IsZero() {
			if delta.IsPositive() {
				line += greenStyle.Render("  +" + delta.String())
			} else {
				line += redStyle.Render("  " + delta.String())
			}
		}
		body += line
	}
	return boxStyle.Render(body)
}

// RenderMarket renders one market summary row.
func RenderMarket(s market.Summary) string {
	body := fmt.Sprintf("%s  last %s  ema20 %s  ema50 %s  rsi %s",
		titleStyle.Render(s.Pair.String()),
		s.LastPrice.String(),
		s.EMA20.StringFixed(2),
		s.EMA50.StringFixed(2),
		s.RSI14.StringFixed(1))
	return boxStyle.Render(body)
}

func isZero(s string) bool {
	d, err := decimal.NewFromString(s)
	return err == nil && d.IsZero()
}
