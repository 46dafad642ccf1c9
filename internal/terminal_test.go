package internal

import (
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cosmicb0y/tradepanel/config"
	"github.com/cosmicb0y/tradepanel/internal/domain"
)

func testConfig(t *testing.T, platform domain.Platform) config.Config {
	t.Helper()
	return config.Config{
		Platform:      platform,
		Pair:          domain.Pair{Base: "BTC", Quote: "USDT"},
		ProbeInterval: time.Minute,
		BackoffBase:   time.Second,
		WebAddr:       ":0",
		WALDir:        t.TempDir(),
	}
}

func TestNewTerminal(t *testing.T) {
	tests := []struct {
		name        string
		platform    domain.Platform
		client      any
		expectError bool
	}{
		{
			name:     "binance",
			platform: domain.PlatformBinance,
			client:   &binance.Client{},
		},
		{
			name:     "bybit",
			platform: domain.PlatformBybit,
			client:   &bybit.Client{},
		},
		{
			name:        "unsupported client",
			platform:    domain.PlatformBinance,
			client:      struct{}{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terminal, err := NewTerminal(testConfig(t, tt.platform), tt.client, nil, zap.NewNop())
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, terminal)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, terminal)
			defer terminal.Close()

			assert.Equal(t, domain.StatusDisconnected, terminal.Monitor.State().Status)
			assert.False(t, terminal.Balances.IsLoading())
		})
	}
}
