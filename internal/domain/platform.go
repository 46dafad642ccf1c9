package domain

import "fmt"

// Platform identifies an exchange backend.
type Platform string

const (
	PlatformBinance     Platform = "binance"
	PlatformBybit       Platform = "bybit"
	PlatformHyperliquid Platform = "hyperliquid"
)

// Platforms lists every supported exchange.
var Platforms = []Platform{PlatformBinance, PlatformBybit, PlatformHyperliquid}

// ParsePlatform validates a platform name.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q", s)
}

func (p Platform) String() string {
	return string(p)
}
