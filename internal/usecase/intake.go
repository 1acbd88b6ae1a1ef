package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
	"github.com/polkiloo/storefront/internal/metrics"
)

const webhookPath = "/api/webhooks/mp"

// IntakeSettings holds the validated URLs and currency used for payment requests.
type IntakeSettings struct {
	PublicBaseURL string
	ReturnOrigin  string
	Currency      string
}

// OrderIntake turns carts into pending orders with a payment link.
type OrderIntake struct {
	tx              repository.Transactor
	gateway         PaymentGateway
	currency        string
	notificationURL string
	returnOrigin    *url.URL
	logger          *slog.Logger
	metrics         *metrics.Recorder
}

// NewOrderIntake constructs OrderIntake.
func NewOrderIntake(tx repository.Transactor, gateway PaymentGateway, settings IntakeSettings, logger *slog.Logger, recorder *metrics.Recorder) (*OrderIntake, error) {
	base, err := url.Parse(settings.PublicBaseURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid public base url %q", settings.PublicBaseURL)
	}

	u := &OrderIntake{
		tx:              tx,
		gateway:         gateway,
		currency:        settings.Currency,
		notificationURL: base.JoinPath(webhookPath).String(),
		logger:          logger,
		metrics:         recorder,
	}
	if settings.ReturnOrigin != "" {
		origin, err := url.Parse(settings.ReturnOrigin)
		if err != nil || origin.Scheme != "https" || origin.Host == "" {
			return nil, fmt.Errorf("invalid return origin %q", settings.ReturnOrigin)
		}
		u.returnOrigin = origin
	}
	return u, nil
}

// PlaceOrder validates the submission and creates the order, its line items
// and the payment request in one transaction. Stock is only checked here;
// it is consumed when the payment is confirmed.
func (u *OrderIntake) PlaceOrder(ctx context.Context, submission model.CartSubmission) (*model.PlacedOrder, error) {
	cart, err := NormalizeCart(submission)
	if err != nil {
		u.metrics.IntakeFailed(intakeFailureReason(err))
		return nil, err
	}

	var placed *model.PlacedOrder
	err = u.tx.WithinTransaction(ctx, func(tx repository.Tx) error {
		customerID, err := tx.UpsertCustomer(ctx, cart.Customer)
		if err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}

		products, err := tx.ProductsByID(ctx, cart.ProductIDs())
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		items, err := priceCart(cart, products)
		if err != nil {
			return err
		}
		total := model.OrderTotal(items)

		orderID, err := tx.InsertOrder(ctx, customerID, total)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := tx.InsertOrderItems(ctx, orderID, items); err != nil {
			return err
		}

		pref, err := u.gateway.CreatePreference(ctx, u.preferenceRequest(orderID, items))
		if err != nil {
			return fmt.Errorf("%w: %w", domainErrors.ErrUpstreamUnavailable, err)
		}
		if pref == nil || pref.ID == "" || pref.PaymentURL() == "" {
			return fmt.Errorf("%w: preference without id or checkout url", domainErrors.ErrUpstreamUnavailable)
		}

		if err := tx.AttachPreference(ctx, orderID, pref.ID); err != nil {
			return err
		}

		placed = &model.PlacedOrder{OrderID: orderID, Total: total, PaymentURL: pref.PaymentURL()}
		return nil
	})
	if err != nil {
		reason := intakeFailureReason(err)
		u.metrics.IntakeFailed(reason)
		u.logger.Warn("order intake rolled back",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	u.metrics.OrderCreated()
	u.logger.Info("order placed",
		slog.Int64("order_id", placed.OrderID),
		slog.String("total", placed.Total.String()),
	)
	return placed, nil
}

// priceCart captures the current unit price of every cart line and checks
// availability line by line.
func priceCart(cart model.Cart, products map[int64]model.Product) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, ok := products[line.ProductID]
		if !ok || !product.Active {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, domainErrors.ErrProductUnavailable)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, domainErrors.ErrOutOfStock)
		}
		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
	}
	return items, nil
}

func (u *OrderIntake) preferenceRequest(orderID int64, items []model.OrderItem) model.PreferenceRequest {
	ref := strconv.FormatInt(orderID, 10)
	req := model.PreferenceRequest{
		ExternalReference: ref,
		NotificationURL:   u.notificationURL,
	}
	for _, item := range items {
		req.Items = append(req.Items, model.PreferenceItem{
			Title:      item.ProductName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			CurrencyID: u.currency,
		})
	}
	if u.returnOrigin != nil {
		req.ReturnURLs = &model.ReturnURLs{
			Success: u.returnURL("exito.html", ref),
			Failure: u.returnURL("fallo.html", ref),
			Pending: u.returnURL("pendiente.html", ref),
		}
	}
	return req
}

func (u *OrderIntake) returnURL(page, orderRef string) string {
	target := u.returnOrigin.JoinPath(page)
	target.RawQuery = url.Values{"pedido": []string{orderRef}}.Encode()
	return target.String()
}

func intakeFailureReason(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domainErrors.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, domainErrors.ErrProductUnavailable):
		return "product_unavailable"
	case errors.Is(err, domainErrors.ErrUpstreamUnavailable):
		return "gateway_error"
	default:
		return "internal_error"
	}
}
