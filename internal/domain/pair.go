package domain

import (
	"fmt"
	"strings"
)

// Pair represents a trading pair such as BTC_USDT.
type Pair struct {
	Base  string
	Quote string
}

// ParsePair parses a BASE_QUOTE string.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, fmt.Errorf("invalid pair %q, want BASE_QUOTE", s)
	}
	return Pair{Base: strings.ToUpper(parts[0]), Quote: strings.ToUpper(parts[1])}, nil
}

func (p Pair) String() string {
	return p.Base + "_" + p.Quote
}

// Symbol returns the concatenated exchange symbol (BTCUSDT).
func (p Pair) Symbol() string {
	return p.Base + p.Quote
}
