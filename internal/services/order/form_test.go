package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

var btcUsdt = domain.Pair{Base: "BTC", Quote: "USDT"}

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name        string
		form        Form
		expectError string
		checkVolume string
		checkPrice  string
	}{
		{
			name:        "valid limit order",
			form:        Form{Pair: btcUsdt, Side: domain.SideBid, Type: domain.OrderTypeLimit, Volume: "0.5", Price: "30000"},
			checkVolume: "0.5",
			checkPrice:  "30000",
		},
		{
			name:        "limit without price",
			form:        Form{Pair: btcUsdt, Side: domain.SideBid, Type: domain.OrderTypeLimit, Volume: "0.5"},
			expectError: "price is required",
		},
		{
			name:        "limit without volume",
			form:        Form{Pair: btcUsdt, Side: domain.SideBid, Type: domain.OrderTypeLimit, Price: "30000"},
			expectError: "volume is required",
		},
		{
			name:       "price order needs only quote amount",
			form:       Form{Pair: btcUsdt, Side: domain.SideBid, Type: domain.OrderTypePrice, Price: "1000"},
			checkPrice: "1000",
		},
		{
			name:        "price order ignores missing volume but rejects missing price",
			form:        Form{Pair: btcUsdt, Side: domain.SideBid, Type: domain.OrderTypePrice, Volume: "1"},
			expectError: "price is required",
		},
		{
			name:        "market order needs only volume",
			form:        Form{Pair: btcUsdt, Side: domain.SideAsk, Type: domain.OrderTypeMarket, Volume: "0.25"},
			checkVolume: "0.25",
		},
		{
			name:        "market order rejects missing volume",
			form:        Form{Pair: btcUsdt, Side: domain.SideAsk, Type: domain.OrderTypeMarket, Price: "30000"},
			expectError: "volume is required",
		},
		{
			name:        "zero volume rejected",
			form:        Form{Pair: btcUsdt, Side: domain.SideAsk, Type: domain.OrderTypeMarket, Volume: "0"},
			expectError: "must be positive",
		},
		{
			name:        "negative price rejected",
			form:        Form{Pair: btcUsdt, Side: domain.SideBid, Type: domain.OrderTypePrice, Price: "-5"},
			expectError: "must be positive",
		},
		{
			name:        "junk volume rejected",
			form:        Form{Pair: btcUsdt, Side: domain.SideAsk, Type: domain.OrderTypeMarket, Volume: "abc"},
			expectError: "invalid volume",
		},
		{
			name:        "invalid side",
			form:        Form{Pair: btcUsdt, Side: "long", Type: domain.OrderTypeLimit, Volume: "1", Price: "1"},
			expectError: "invalid side",
		},
		{
			name:        "invalid order type",
			form:        Form{Pair: btcUsdt, Side: domain.SideBid, Type: "stop", Volume: "1", Price: "1"},
			expectError: "invalid order type",
		},
		{
			name:        "whitespace padded input parses",
			form:        Form{Pair: btcUsdt, Side: domain.SideAsk, Type: domain.OrderTypeMarket, Volume: " 0.1 "},
			checkVolume: "0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.form)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.form.Side, req.Side)
			assert.Equal(t, tt.form.Type, req.Type)
			assert.NotEmpty(t, req.ClientOrderID)
			if tt.checkVolume != "" {
				assert.True(t, req.Volume.Equal(decimal.RequireFromString(tt.checkVolume)),
					"volume %s != %s", req.Volume, tt.checkVolume)
			}
			if tt.checkPrice != "" {
				assert.True(t, req.Price.Equal(decimal.RequireFromString(tt.checkPrice)),
					"price %s != %s", req.Price, tt.checkPrice)
			}
		})
	}
}

func TestMaxVolume(t *testing.T) {
	snapshot := domain.BalanceSnapshot{Entries: []domain.BalanceEntry{
		{Currency: "BTC", Available: "0.75", Locked: "0.25"},
		{Currency: "USDT", Available: "3000", Locked: "0"},
	}}

	t.Run("ask uses available base", func(t *testing.T) {
		max := MaxVolume(snapshot, btcUsdt, domain.SideAsk, decimal.NewFromInt(30000))
		assert.True(t, max.Equal(decimal.RequireFromString("0.75")), "got %s", max)
	})

	t.Run("bid divides available quote by price", func(t *testing.T) {
		max := MaxVolume(snapshot, btcUsdt, domain.SideBid, decimal.NewFromInt(30000))
		assert.True(t, max.Equal(decimal.RequireFromString("0.1")), "got %s", max)
	})

	t.Run("bid with zero price yields zero", func(t *testing.T) {
		max := MaxVolume(snapshot, btcUsdt, domain.SideBid, decimal.Zero)
		assert.True(t, max.IsZero())
	})

	t.Run("missing currency yields zero", func(t *testing.T) {
		max := MaxVolume(snapshot, domain.Pair{Base: "ETH", Quote: "EUR"}, domain.SideAsk, decimal.Zero)
		assert.True(t, max.IsZero())
	})
}

func TestPercentVolume(t *testing.T) {
	max := decimal.RequireFromString("0.7531")

	t.Run("half floored to step", func(t *testing.T) {
		got, err := PercentVolume(max, decimal.NewFromInt(50), 4)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("0.3765")), "got %s", got)
	})

	t.Run("full amount", func(t *testing.T) {
		got, err := PercentVolume(max, decimal.NewFromInt(100), 4)
		require.NoError(t, err)
		assert.True(t, got.Equal(max), "got %s", got)
	})

	t.Run("zero percent rejected", func(t *testing.T) {
		_, err := PercentVolume(max, decimal.Zero, 4)
		require.Error(t, err)
	})

	t.Run("over 100 rejected", func(t *testing.T) {
		_, err := PercentVolume(max, decimal.NewFromInt(101), 4)
		require.Error(t, err)
	})
}
