package app

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	testhelpers "github.com/polkiloo/storefront/internal/test"
	"github.com/polkiloo/storefront/internal/usecase"
	"github.com/polkiloo/storefront/internal/worker"
)

func newFacade(t *testing.T, gateway *testhelpers.GatewayStub, health HealthChecker) (*StoreFacade, *testhelpers.MemoryLedger, *testhelpers.ProductRepositoryStub) {
	t.Helper()
	ledger := testhelpers.NewMemoryLedger(model.Product{ID: 1, Name: "Cookie", Price: decimal.NewFromInt(100), Stock: 5, Active: true})
	intake, err := usecase.NewOrderIntake(ledger, gateway, usecase.IntakeSettings{PublicBaseURL: "https://api.example.com", Currency: "ARS"}, discardLogger(), nil)
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	products := &testhelpers.ProductRepositoryStub{}
	facade := NewStoreFacade(
		intake,
		usecase.NewWebhookReconciler(ledger, ledger, gateway, discardLogger(), nil),
		usecase.NewOrderQuery(ledger),
		usecase.NewProductCatalog(products),
		health,
	)
	return facade, ledger, products
}

func TestStoreFacadeOrderFlow(t *testing.T) {
	gateway := &testhelpers.GatewayStub{}
	facade, ledger, _ := newFacade(t, gateway, nil)
	ctx := context.Background()

	placed, err := facade.PlaceOrder(ctx, model.CartSubmission{
		Customer: model.CustomerInput{Name: "Ana", Email: "a@x.com"},
		Items:    []model.CartItemInput{{ProductID: 1, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if !placed.Total.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected total %s", placed.Total)
	}

	gateway.GetPaymentFn = func(_ context.Context, id string) (*model.Payment, error) {
		return testhelpers.ApprovedPayment(id, placed.OrderID), nil
	}
	if err := facade.HandlePaymentNotification(ctx, model.Notification{Type: "payment", PaymentID: "77"}); err != nil {
		t.Fatalf("notification: %v", err)
	}
	if stock := ledger.Product(1).Stock; stock != 3 {
		t.Fatalf("expected stock 3, got %d", stock)
	}

	details, err := facade.Order(ctx, placed.OrderID)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if details.Order.Status != model.OrderStatusPaid || len(details.Items) != 1 {
		t.Fatalf("unexpected details %+v", details)
	}

	pending, err := facade.PendingOrders(ctx, -time.Hour, 0, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending orders, got %v", pending)
	}
	if err := facade.ReconcileOrder(ctx, placed.OrderID); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
}

func TestStoreFacadeOrderNotFound(t *testing.T) {
	facade, _, _ := newFacade(t, &testhelpers.GatewayStub{}, nil)
	if _, err := facade.Order(context.Background(), 10); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreFacadeCatalog(t *testing.T) {
	facade, _, products := newFacade(t, &testhelpers.GatewayStub{}, nil)
	ctx := context.Background()

	products.ListActiveFn = func(context.Context) ([]model.Product, error) {
		return []model.Product{{ID: 1}}, nil
	}
	list, err := facade.Products(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected products %v %v", list, err)
	}

	created, err := facade.CreateProduct(ctx, model.ProductDraft{Name: "Cookie", Stock: 1})
	if err != nil || created.Name != "Cookie" {
		t.Fatalf("unexpected created product %+v %v", created, err)
	}

	if _, err := facade.UpdateProduct(ctx, 5, model.ProductPatch{}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStoreFacadeHealthCheck(t *testing.T) {
	facade, _, _ := newFacade(t, &testhelpers.GatewayStub{}, nil)
	if err := facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected healthy without checker, got %v", err)
	}

	down := errors.New("db down")
	facade, _, _ = newFacade(t, &testhelpers.GatewayStub{}, testhelpers.HealthFacadeStub{Err: down})
	if err := facade.HealthCheck(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestPaymentSweeperRecoversOrdersPastAbandonedBacklog(t *testing.T) {
	gateway := &testhelpers.GatewayStub{}
	facade, ledger, _ := newFacade(t, gateway, nil)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		placed, err := facade.PlaceOrder(ctx, model.CartSubmission{
			Customer: model.CustomerInput{Name: "Ana", Phone: "11 5555 0000"},
			Items:    []model.CartItemInput{{ProductID: 1, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("place order: %v", err)
		}
		ids = append(ids, placed.OrderID)
	}
	paidID := ids[2]
	gateway.SearchPaymentsFn = func(_ context.Context, ref string) ([]model.Payment, error) {
		if ref != strconv.FormatInt(paidID, 10) {
			return nil, nil
		}
		return []model.Payment{*testhelpers.ApprovedPayment("900", paidID)}, nil
	}

	sweeper := worker.NewPaymentSweeper(facade, 5*time.Millisecond, -time.Hour, 2, 1, discardLogger())
	sweeper.Start(ctx)
	defer sweeper.Stop()

	deadline := time.Now().Add(time.Second)
	for {
		if order, ok := ledger.Order(paidID); ok && order.Status == model.OrderStatusPaid {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("order %d was not recovered by the sweeper", paidID)
		}
		time.Sleep(5 * time.Millisecond)
	}
	for _, id := range ids[:2] {
		if order, _ := ledger.Order(id); order.Status != model.OrderStatusPending {
			t.Fatalf("expected order %d to stay pending, got %s", id, order.Status)
		}
	}
}
