// Package balance fetches account balances and guarantees serialized,
// coalesced refreshes: at most one query is in flight, and any refresh
// requested while one is outstanding folds into a single follow-up run.
package balance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/metrics"
)

// Querier fetches the current account balances from the exchange.
type Querier interface {
	Balances(ctx context.Context) ([]domain.BalanceEntry, error)
}

// SnapshotSink receives every successful snapshot, e.g. the WAL history
// store. Sink failures are logged and do not fail the refresh.
type SnapshotSink interface {
	Save(snapshot domain.BalanceSnapshot) error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSnapshotSink attaches a sink for successful snapshots.
func WithSnapshotSink(sink SnapshotSink) Option {
	return func(c *Coordinator) {
		c.sink = sink
	}
}

// WithOnUpdate registers a callback fired after every completed fetch,
// successful or not. It runs outside the coordinator's lock.
func WithOnUpdate(fn func(domain.BalanceSnapshot)) Option {
	return func(c *Coordinator) {
		c.onUpdate = fn
	}
}

// Coordinator is the balance refresh state machine: idle or loading, with
// a pendingRefresh flag that can only be set while loading and is always
// consumed or discarded on the loading to idle transition.
type Coordinator struct {
	querier  Querier
	logger   *zap.Logger
	sink     SnapshotSink
	onUpdate func(domain.BalanceSnapshot)

	mu             sync.Mutex
	entries        []domain.BalanceEntry
	prevEntries    []domain.BalanceEntry
	fetchedAt      time.Time
	lastErr        string
	loading        bool
	pendingRefresh bool
}

// New creates a coordinator with an empty snapshot.
func New(querier Querier, logger *zap.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		querier: querier,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsLoading reports whether a fetch is currently outstanding.
func (c *Coordinator) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Snapshot returns a copy of the current balance snapshot.
func (c *Coordinator) Snapshot() domain.BalanceSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.BalanceSnapshot{
		Entries:         append([]domain.BalanceEntry(nil), c.entries...),
		PreviousEntries: append([]domain.BalanceEntry(nil), c.prevEntries...),
		FetchedAt:       c.fetchedAt,
		Err:             c.lastErr,
	}
}

// Refresh runs one fetch cycle. If a fetch is already in flight the call
// marks a pending refresh and returns immediately; when the in-flight
// fetch completes, exactly one follow-up cycle runs no matter how many
// refreshes were requested meanwhile. Failures keep the last-known-good
// entries and are absorbed into the snapshot's error field.
func (c *Coordinator) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.loading {
		c.pendingRefresh = true
		c.mu.Unlock()
		metrics.BalanceRefreshTotal.WithLabelValues("coalesced").Inc()
		c.logger.Debug("balance refresh coalesced into in-flight fetch")
		return
	}
	c.loading = true
	c.lastErr = ""
	c.mu.Unlock()

	entries, err := c.query(ctx)

	c.mu.Lock()
	if err != nil {
		c.lastErr = err.Error()
	} else {
		c.prevEntries = c.entries
		c.entries = entries
		c.fetchedAt = time.Now()
	}
	c.loading = false
	rerun := c.pendingRefresh
	c.pendingRefresh = false
	snapshot := domain.BalanceSnapshot{
		Entries:         append([]domain.BalanceEntry(nil), c.entries...),
		PreviousEntries: append([]domain.BalanceEntry(nil), c.prevEntries...),
		FetchedAt:       c.fetchedAt,
		Err:             c.lastErr,
	}
	c.mu.Unlock()

	if err != nil {
		metrics.BalanceRefreshTotal.WithLabelValues("failure").Inc()
		c.logger.Error("balance fetch failed, keeping last known snapshot", zap.Error(err))
	} else {
		metrics.BalanceRefreshTotal.WithLabelValues("success").Inc()
		c.logger.Info("balance updated", zap.Int("assets", len(entries)))
		if c.sink != nil {
			if sinkErr := c.sink.Save(snapshot); sinkErr != nil {
				c.logger.Error("failed to persist balance snapshot", zap.Error(sinkErr))
			}
		}
	}

	if c.onUpdate != nil {
		c.onUpdate(snapshot)
	}

	if rerun {
		c.Refresh(ctx)
	}
}

// Reset drops all balance data, e.g. when the selected exchange changes.
// An in-flight fetch still completes but its result lands on the cleared
// state like any other fetch.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.prevEntries = nil
	c.fetchedAt = time.Time{}
	c.lastErr = ""
}

// query calls the querier and normalizes a panic into a plain failure.
func (c *Coordinator) query(ctx context.Context) (entries []domain.BalanceEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = fmt.Errorf("balance query failed: %v", r)
		}
	}()
	return c.querier.Balances(ctx)
}
