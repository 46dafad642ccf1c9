package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cosmicb0y/tradepanel/internal/domain"
)

const (
	defaultProbeInterval  = 30 * time.Second
	defaultBackoffBase    = time.Second
	defaultMarketInterval = "5m"
	defaultWebAddr        = ":8808"
	defaultWALDir         = "./wal/balance"
)

// Config is the resolved terminal configuration.
type Config struct {
	Platform       domain.Platform
	Pair           domain.Pair
	ProbeInterval  time.Duration // fixed-interval reconnect probe while running
	BackoffBase    time.Duration // first retry delay after a failed probe
	BackoffMax     time.Duration // zero keeps the backoff uncapped
	MarketInterval string        // kline interval for the market panel
	WebAddr        string
	WALDir         string
	TLSDomains     []string
	TLSCacheDir    string
}

// ConfigTmp mirrors the yaml layout before validation.
type ConfigTmp struct {
	Platform       string        `yaml:"platform"`
	Pair           string        `yaml:"pair"`
	ProbeInterval  time.Duration `yaml:"probe_interval,omitempty"`
	BackoffBase    time.Duration `yaml:"backoff_base,omitempty"`
	BackoffMax     time.Duration `yaml:"backoff_max,omitempty"`
	MarketInterval string        `yaml:"market_interval,omitempty"`
	WebAddr        string        `yaml:"web_addr,omitempty"`
	WALDir         string        `yaml:"wal_dir,omitempty"`
	TLSDomains     []string      `yaml:"tls_domains,omitempty"`
	TLSCacheDir    string        `yaml:"tls_cache_dir,omitempty"`
}

// Get resolves configuration from --config yaml or CLI flags.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platformFlag := flag.String("platform", "binance", "exchange platform: binance, bybit or hyperliquid")
	pairFlag := flag.String("pair", "BTC_USDT", "trade pair, example: BTC_USDT")
	probeInterval := flag.Duration("probeinterval", defaultProbeInterval, "connectivity probe interval")
	webAddr := flag.String("webaddr", defaultWebAddr, "status web server listen address")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	platform, err := domain.ParsePlatform(*platformFlag)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --platform provided: %w", err)
	}
	pair, err := domain.ParsePair(*pairFlag)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --pair provided, --pair=%s", *pairFlag)
	}

	return withDefaults(Config{
		Platform:      platform,
		Pair:          pair,
		ProbeInterval: *probeInterval,
		WebAddr:       *webAddr,
	}), nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	platform, err := domain.ParsePlatform(tmp.Platform)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'platform' param in yaml config: %w", err)
	}
	pair, err := domain.ParsePair(tmp.Pair)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'pair' param in yaml config: %s, error: %w", tmp.Pair, err)
	}

	return withDefaults(Config{
		Platform:       platform,
		Pair:           pair,
		ProbeInterval:  tmp.ProbeInterval,
		BackoffBase:    tmp.BackoffBase,
		BackoffMax:     tmp.BackoffMax,
		MarketInterval: tmp.MarketInterval,
		WebAddr:        tmp.WebAddr,
		WALDir:         tmp.WALDir,
		TLSDomains:     tmp.TLSDomains,
		TLSCacheDir:    tmp.TLSCacheDir,
	}), nil
}

func withDefaults(c Config) Config {
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = defaultProbeInterval
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.MarketInterval == "" {
		c.MarketInterval = defaultMarketInterval
	}
	if c.WebAddr == "" {
		c.WebAddr = defaultWebAddr
	}
	if c.WALDir == "" {
		c.WALDir = defaultWALDir
	}
	return c
}
