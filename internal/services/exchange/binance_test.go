package exchange

import (
	"testing"

	binance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

func TestCandleFromStrings(t *testing.T) {
	candle, err := candleFromStrings("100.5", "101", "99.9", "100.7", "12.34")
	require.NoError(t, err)
	assert.Equal(t, "100.5", candle.Open.String())
	assert.Equal(t, "101", candle.High.String())
	assert.Equal(t, "99.9", candle.Low.String())
	assert.Equal(t, "100.7", candle.Close.String())
	assert.Equal(t, "12.34", candle.Volume.String())

	_, err = candleFromStrings("abc", "1", "1", "1", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse open")

	_, err = candleFromStrings("1", "1", "1", "1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse volume")
}

func TestIsZeroAmount(t *testing.T) {
	assert.True(t, isZeroAmount("0"))
	assert.True(t, isZeroAmount("0.00000000"))
	assert.False(t, isZeroAmount("0.00000001"))
	assert.False(t, isZeroAmount("1"))
	assert.False(t, isZeroAmount("not a number"))
}

func TestBinanceSide(t *testing.T) {
	assert.Equal(t, binance.SideTypeBuy, binanceSide(domain.SideBid))
	assert.Equal(t, binance.SideTypeSell, binanceSide(domain.SideAsk))
}
