package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

func writeYaml(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetYaml(t *testing.T) {
	path := writeYaml(t, `
platform: bybit
pair: ETH_USDT
probe_interval: 10s
backoff_base: 500ms
backoff_max: 1m
web_addr: ":9000"
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformBybit, cfg.Platform)
	assert.Equal(t, domain.Pair{Base: "ETH", Quote: "USDT"}, cfg.Pair)
	assert.Equal(t, 10*time.Second, cfg.ProbeInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.BackoffBase)
	assert.Equal(t, time.Minute, cfg.BackoffMax)
	assert.Equal(t, ":9000", cfg.WebAddr)
}

func TestGetYamlAppliesDefaults(t *testing.T) {
	path := writeYaml(t, `
platform: binance
pair: BTC_USDT
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ProbeInterval)
	assert.Equal(t, time.Second, cfg.BackoffBase)
	assert.Zero(t, cfg.BackoffMax, "backoff stays uncapped unless configured")
	assert.Equal(t, "5m", cfg.MarketInterval)
	assert.Equal(t, ":8808", cfg.WebAddr)
	assert.Equal(t, "./wal/balance", cfg.WALDir)
}

func TestGetYamlRejectsBadPlatform(t *testing.T) {
	path := writeYaml(t, `
platform: kraken
pair: BTC_USDT
`)

	_, err := getYaml(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform")
}

func TestGetYamlRejectsBadPair(t *testing.T) {
	path := writeYaml(t, `
platform: binance
pair: BTCUSDT
`)

	_, err := getYaml(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pair")
}

func TestGetYamlMissingFile(t *testing.T) {
	_, err := getYaml(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
