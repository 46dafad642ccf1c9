// Package connmonitor owns connectivity state for the selected exchange.
// It probes the exchange, retries failures with exponential backoff and
// never surfaces a probe failure as fatal: the only ways out of the retry
// cycle are a successful probe or Close.
package connmonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/metrics"
)

const defaultBaseDelay = time.Second

// maxBackoffShift guards duration overflow after very long failure streaks.
const maxBackoffShift = 32

// Prober performs a single connectivity check against the exchange.
type Prober interface {
	Ping(ctx context.Context) (latencyMs int64, err error)
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithBaseDelay overrides the first retry delay (default 1s).
func WithBaseDelay(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.baseDelay = d
		}
	}
}

// WithMaxDelay caps the retry delay. Zero keeps the backoff uncapped.
func WithMaxDelay(d time.Duration) Option {
	return func(m *Monitor) {
		m.maxDelay = d
	}
}

// WithOnConnected registers a callback fired when the monitor regains the
// connected state after having been disconnected. It runs outside the
// monitor's lock.
func WithOnConnected(fn func()) Option {
	return func(m *Monitor) {
		m.onConnected = fn
	}
}

// Monitor is the connection state machine. One instance exists per exchange
// selection; switching exchanges means tearing this one down and building a
// fresh one, which resets the state to disconnected with zero attempts.
type Monitor struct {
	platform    domain.Platform
	prober      Prober
	scheduler   Scheduler
	logger      *zap.Logger
	baseDelay   time.Duration
	maxDelay    time.Duration
	onConnected func()

	mu           sync.Mutex
	state        domain.ConnectionState
	cancelRetry  func()
	wasConnected bool
	closed       bool
}

// New creates a monitor in the disconnected state. No probe runs until
// CheckConnection is called.
func New(platform domain.Platform, prober Prober, scheduler Scheduler, logger *zap.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		platform:  platform,
		prober:    prober,
		scheduler: scheduler,
		logger:    logger.With(zap.String("platform", platform.String())),
		baseDelay: defaultBaseDelay,
		state:     domain.ConnectionState{Status: domain.StatusDisconnected},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a copy of the current connection state.
func (m *Monitor) State() domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CheckConnection runs one probe cycle. It is safe to call at any time,
// including while a retry timer is pending: the pending timer is cancelled
// and superseded, so timers never double-fire. Failures are absorbed into
// state and retried; nothing is returned to the caller.
func (m *Monitor) CheckConnection(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.cancelRetry != nil {
		m.cancelRetry()
		m.cancelRetry = nil
	}
	m.state.Status = domain.StatusConnecting
	m.state.LastError = ""
	m.mu.Unlock()

	m.logger.Info("checking connection")

	latencyMs, err := m.probe(ctx)
	if err != nil {
		m.handleFailure(err)
		return
	}
	m.handleSuccess(latencyMs)
}

// probe calls the prober and normalizes a panic into a plain failure so
// callers never need a second failure-handling path.
func (m *Monitor) probe(ctx context.Context) (latencyMs int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("connection check failed: %v", r)
		}
	}()
	return m.prober.Ping(ctx)
}

func (m *Monitor) handleSuccess(latencyMs int64) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state = domain.ConnectionState{
		Status:    domain.StatusConnected,
		LatencyMs: latencyMs,
	}
	justConnected := !m.wasConnected
	m.wasConnected = true
	m.mu.Unlock()

	metrics.ProbeTotal.WithLabelValues("success").Inc()
	metrics.ProbeLatencyMs.Observe(float64(latencyMs))
	m.logger.Info("connected", zap.Int64("latency_ms", latencyMs))

	if justConnected && m.onConnected != nil {
		m.onConnected()
	}
}

func (m *Monitor) handleFailure(probeErr error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state.Status = domain.StatusDisconnected
	m.state.LastError = probeErr.Error()
	m.state.LatencyMs = 0
	m.state.RetryAttempt++
	m.wasConnected = false
	attempt := m.state.RetryAttempt

	delay := m.retryDelay(attempt)
	m.cancelRetry = m.scheduler.ScheduleAfter(delay, func() {
		m.CheckConnection(context.Background())
	})
	m.mu.Unlock()

	metrics.ProbeTotal.WithLabelValues("failure").Inc()
	m.logger.Error("connection check failed",
		zap.Error(probeErr),
		zap.Int("attempt", attempt),
		zap.Duration("retry_in", delay))
}

// retryDelay returns base * 2^(attempt-1), optionally capped by maxDelay.
func (m *Monitor) retryDelay(attempt int) time.Duration {
	shift := attempt - 1
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	delay := m.baseDelay << uint(shift)
	if m.maxDelay > 0 && delay > m.maxDelay {
		delay = m.maxDelay
	}
	return delay
}

// Close cancels any pending retry timer and stops the monitor. Probe
// results that land after Close leave the state untouched.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.cancelRetry != nil {
		m.cancelRetry()
		m.cancelRetry = nil
	}
}
