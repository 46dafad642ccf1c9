package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cosmicb0y/tradepanel/config"
	"github.com/cosmicb0y/tradepanel/internal/events"
	"github.com/cosmicb0y/tradepanel/internal/services/balance"
	"github.com/cosmicb0y/tradepanel/internal/services/connmonitor"
	"github.com/cosmicb0y/tradepanel/internal/services/exchange"
	"github.com/cosmicb0y/tradepanel/internal/services/market"
	"github.com/cosmicb0y/tradepanel/internal/services/order"
	"github.com/cosmicb0y/tradepanel/internal/storage/balancesnapshots"
	"github.com/cosmicb0y/tradepanel/internal/web"
)

// Terminal wires the trading terminal core for one exchange selection.
// Switching exchanges means closing this instance and building a new one,
// which resets connection and balance state.
type Terminal struct {
	Monitor  *connmonitor.Monitor
	Balances *balance.Coordinator
	Orders   *order.Service
	Market   *market.Panel
	Hub      *events.OrderHub
	Gateway  exchange.Gateway

	cfg    config.Config
	logger *zap.Logger
	store  *balancesnapshots.WALStore
	web    *web.Server
}

// NewTerminal builds the terminal around the platform client.
func NewTerminal(cfg config.Config, client any, notifier order.Notifier, logger *zap.Logger) (*Terminal, error) {
	gateway, err := exchange.New(client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create exchange gateway")
	}

	store, err := balancesnapshots.NewWALStore(cfg.WALDir, cfg.Platform)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open balance snapshot store")
	}

	t := &Terminal{
		Gateway: gateway,
		Hub:     events.NewOrderHub(64),
		Market:  market.NewPanel(gateway, cfg.MarketInterval),
		cfg:     cfg,
		logger:  logger,
		store:   store,
	}

	t.Balances = balance.New(gateway, logger.Named("balance"),
		balance.WithSnapshotSink(store))

	t.Monitor = connmonitor.New(cfg.Platform, gateway, connmonitor.NewTimerScheduler(), logger.Named("connmonitor"),
		connmonitor.WithBaseDelay(cfg.BackoffBase),
		connmonitor.WithMaxDelay(cfg.BackoffMax),
		connmonitor.WithOnConnected(func() {
			go t.Balances.Refresh(context.Background())
		}))

	t.Orders = order.New(gateway, t.Hub, notifier, logger.Named("order"))

	t.web = &web.Server{
		Addr:        cfg.WebAddr,
		Monitor:     t.Monitor,
		Store:       store,
		TLSDomains:  cfg.TLSDomains,
		TLSCacheDir: cfg.TLSCacheDir,
	}

	return t, nil
}

// Run drives the terminal until ctx is cancelled: it probes connectivity on
// a fixed interval, refreshes balances when an order fills and serves the
// status web endpoints. The order event subscription is released on return
// no matter how the loop exits.
func (t *Terminal) Run(ctx context.Context) error {
	orderEvents := t.Hub.Subscribe()
	defer t.Hub.Unsubscribe(orderEvents)

	webErr := make(chan error, 1)
	go func() {
		webErr <- t.web.Start(ctx)
	}()

	t.logger.Info("terminal started",
		zap.String("platform", t.cfg.Platform.String()),
		zap.String("pair", t.cfg.Pair.String()),
		zap.Duration("probe_interval", t.cfg.ProbeInterval))

	t.Monitor.CheckConnection(ctx)

	ticker := time.NewTicker(t.cfg.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("context done, stopping terminal")
			return ctx.Err()
		case err := <-webErr:
			if err != nil {
				return errors.Wrap(err, "web server failed")
			}
		case <-ticker.C:
			t.Monitor.CheckConnection(ctx)
		case ev := <-orderEvents:
			if ev.Filled {
				t.Balances.Refresh(ctx)
			}
		}
	}
}

// Close tears the terminal down: the pending retry timer is cancelled and
// the snapshot store is flushed.
func (t *Terminal) Close() {
	t.Monitor.Close()
	if err := t.store.Close(); err != nil {
		t.logger.Error("failed to close snapshot store", zap.Error(err))
	}
}
