// Package order turns validated order-entry input into exchange requests
// and submits them, retrying rate-limited submissions with user-facing
// progress messages.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/events"
	"github.com/cosmicb0y/tradepanel/internal/metrics"
	"github.com/cosmicb0y/tradepanel/pkg/retrier"
)

// Notifier is the toast sink: short user-facing messages about the order flow.
type Notifier interface {
	Notify(message string)
}

// Placer submits orders to the exchange.
type Placer interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error)
}

// Service owns the order submission flow.
type Service struct {
	placer   Placer
	hub      *events.OrderHub
	notifier Notifier
	logger   *zap.Logger
	retrier  *retrier.Retrier
}

// New creates an order service. The retrier only re-submits rate-limited
// requests; any other exchange error surfaces after the first attempt.
func New(placer Placer, hub *events.OrderHub, notifier Notifier, logger *zap.Logger) *Service {
	s := &Service{
		placer:   placer,
		hub:      hub,
		notifier: notifier,
		logger:   logger,
	}
	s.retrier = retrier.New(
		retrier.WithMaxRetries(3),
		retrier.WithRetryIf(IsRateLimited),
		retrier.WithOnRetry(func(attempt int, wait time.Duration, err error) {
			metrics.OrderTotal.WithLabelValues("retried").Inc()
			s.notify(fmt.Sprintf("rate limited by exchange, retrying in %s (attempt %d)", wait.Round(time.Millisecond), attempt))
			s.logger.Warn("order submission rate limited",
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", wait),
				zap.Error(err))
		}),
	)
	return s
}

// Place submits the request, retrying on rate limits. On success an order
// event is published so balance refresh and UI panels pick up the fill.
func (s *Service) Place(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	if req.ClientOrderID == "" {
		req.ClientOrderID = NewClientOrderID()
	}

	result, err := retrier.DoWithData(s.retrier, ctx, func(ctx context.Context) (domain.OrderResult, error) {
		return s.placer.PlaceOrder(ctx, req)
	})
	if err != nil {
		metrics.OrderTotal.WithLabelValues("failure").Inc()
		s.notify(fmt.Sprintf("order rejected: %v", err))
		s.logger.Error("order placement failed",
			zap.String("pair", req.Pair.String()),
			zap.String("side", string(req.Side)),
			zap.String("type", string(req.Type)),
			zap.Error(err))
		return domain.OrderResult{}, errors.Wrap(err, "order placement failed")
	}

	metrics.OrderTotal.WithLabelValues("success").Inc()
	s.notify(fmt.Sprintf("order accepted: %s %s %s", req.Side, req.Type, req.Pair.String()))
	s.logger.Info("order placed",
		zap.String("pair", req.Pair.String()),
		zap.String("side", string(req.Side)),
		zap.String("type", string(req.Type)),
		zap.String("client_order_id", result.ClientOrderID),
		zap.Bool("filled", result.Filled))

	if s.hub != nil {
		s.hub.Publish(events.OrderEvent{
			Timestamp:     time.Now(),
			Pair:          req.Pair.String(),
			Side:          string(req.Side),
			Type:          string(req.Type),
			ClientOrderID: result.ClientOrderID,
			Filled:        result.Filled,
		})
	}
	return result, nil
}

func (s *Service) notify(msg string) {
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
}

// NewClientOrderID returns a fresh client order id.
func NewClientOrderID() string {
	return "tp-" + uuid.NewString()
}

// IsRateLimited reports whether the error looks like an exchange rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		// -1003 TOO_MANY_REQUESTS, -1015 TOO_MANY_ORDERS
		return apiErr.Code == -1003 || apiErr.Code == -1015
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "429")
}
