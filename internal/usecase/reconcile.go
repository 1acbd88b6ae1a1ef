package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/metrics"
)

// Outcome describes what a payment notification did to its order.
type Outcome string

const (
	OutcomeApplied       Outcome = "applied"
	OutcomeDuplicate     Outcome = "duplicate"
	OutcomeRejected      Outcome = "rejected"
	OutcomeIgnored       Outcome = "ignored"
	OutcomeOrderNotFound Outcome = "order_not_found"
)

// WebhookReconciler applies gateway payment states to orders.
type WebhookReconciler struct {
	tx      repository.Transactor
	orders  repository.OrderRepository
	gateway PaymentGateway
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewWebhookReconciler constructs WebhookReconciler.
func NewWebhookReconciler(tx repository.Transactor, orders repository.OrderRepository, gateway PaymentGateway, logger *slog.Logger, recorder *metrics.Recorder) *WebhookReconciler {
	return &WebhookReconciler{
		tx:      tx,
		orders:  orders,
		gateway: gateway,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// HandleNotification fetches the payment referenced by n and applies it.
// A gateway failure is returned wrapped in ErrUpstreamUnavailable so the
// caller can ask the sender to redeliver.
func (r *WebhookReconciler) HandleNotification(ctx context.Context, n model.Notification) (Outcome, error) {
	if !n.IsPayment() {
		r.record(OutcomeIgnored, slog.String("type", n.Type))
		return OutcomeIgnored, nil
	}

	payment, err := r.gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		r.metrics.WebhookEvent("retry")
		r.logger.Warn("payment lookup failed",
			slog.String("payment_id", n.PaymentID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: %w", domainErrors.ErrUpstreamUnavailable, err)
	}

	return r.ApplyPayment(ctx, *payment)
}

// ApplyPayment moves the referenced order to the status implied by payment.
// The status read, the stock adjustment and the status write share one
// transaction with the order row locked.
func (r *WebhookReconciler) ApplyPayment(ctx context.Context, payment model.Payment) (Outcome, error) {
	target, ok := payment.Status.OrderStatus()
	if !ok {
		r.record(OutcomeIgnored, slog.String("payment_id", payment.ID), slog.String("status", string(payment.Status)))
		return OutcomeIgnored, nil
	}
	orderID, ok := payment.OrderID()
	if !ok {
		r.record(OutcomeIgnored, slog.String("payment_id", payment.ID), slog.String("external_reference", payment.ExternalReference))
		return OutcomeIgnored, nil
	}

	var (
		outcome Outcome
		current model.OrderStatus
		levels  []model.StockLevel
	)
	err := r.tx.WithinTransaction(ctx, func(tx repository.Tx) error {
		var err error
		current, err = tx.LockOrderStatus(ctx, orderID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			outcome = OutcomeOrderNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		switch {
		case current == target:
			outcome = OutcomeDuplicate
			return nil
		case !current.CanTransitionTo(target):
			outcome = OutcomeRejected
			return nil
		}

		levels, err = tx.AdjustStock(ctx, orderID, model.StockEffectOf(current, target))
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		if err := tx.ApplyStatus(ctx, orderID, target, payment.ID); err != nil {
			return fmt.Errorf("apply status: %w", err)
		}
		outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		r.metrics.WebhookEvent("failed")
		r.logger.Error("payment reconciliation failed",
			slog.Int64("order_id", orderID),
			slog.String("payment_id", payment.ID),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	r.reportOversold(orderID, levels)
	r.record(outcome,
		slog.Int64("order_id", orderID),
		slog.String("payment_id", payment.ID),
		slog.String("from", string(current)),
		slog.String("to", string(target)),
	)
	return outcome, nil
}

// PendingOrders returns up to limit ids, greater than afterID, of orders
// still pending after minAge.
func (r *WebhookReconciler) PendingOrders(ctx context.Context, minAge time.Duration, afterID int64, limit int) ([]int64, error) {
	return r.orders.ListPendingBefore(ctx, r.now().Add(-minAge), afterID, limit)
}

// ReconcileOrder looks up the payments of an order and applies them oldest first.
func (r *WebhookReconciler) ReconcileOrder(ctx context.Context, orderID int64) error {
	payments, err := r.gateway.SearchPayments(ctx, strconv.FormatInt(orderID, 10))
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrUpstreamUnavailable, err)
	}
	for _, payment := range payments {
		if _, err := r.ApplyPayment(ctx, payment); err != nil {
			return err
		}
	}
	return nil
}

func (r *WebhookReconciler) reportOversold(orderID int64, levels []model.StockLevel) {
	var oversold int
	for _, level := range levels {
		if level.Stock < 0 {
			oversold++
			r.logger.Warn("stock oversold",
				slog.Int64("order_id", orderID),
				slog.Int64("product_id", level.ProductID),
				slog.Int("stock", level.Stock),
			)
		}
	}
	r.metrics.StockOversold(oversold)
}

func (r *WebhookReconciler) record(outcome Outcome, attrs ...any) {
	r.metrics.WebhookEvent(string(outcome))
	r.logger.Info("payment event", append([]any{slog.String("outcome", string(outcome))}, attrs...)...)
}
