package dto

import (
	"encoding/json"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CartRequest is the body of POST /api/pedidos.
type CartRequest struct {
	Customer CustomerRequest   `json:"customer"`
	Items    []CartItemRequest `json:"items"`
}

// CustomerRequest describes the buyer.
type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CartItemRequest is one requested product line.
type CartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Submission converts the request into the domain payload.
func (r CartRequest) Submission() model.CartSubmission {
	items := make([]model.CartItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, model.CartItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return model.CartSubmission{
		Customer: model.CustomerInput{
			Name:    r.Customer.Name,
			Email:   r.Customer.Email,
			Phone:   r.Customer.Phone,
			Address: r.Customer.Address,
		},
		Items: items,
	}
}

// PlacedOrderResponse is returned after a successful intake.
type PlacedOrderResponse struct {
	OrderID    int64       `json:"order_id"`
	Total      json.Number `json:"total"`
	PaymentURL string      `json:"payment_url"`
}

// OrderResponse describes an order.
type OrderResponse struct {
	ID           int64       `json:"id"`
	CustomerID   int64       `json:"customer_id"`
	Status       string      `json:"status"`
	Total        json.Number `json:"total"`
	PreferenceID string      `json:"mp_preference_id,omitempty"`
	PaymentID    string      `json:"mp_payment_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	PaidAt       *time.Time  `json:"paid_at,omitempty"`
	CancelledAt  *time.Time  `json:"cancelled_at,omitempty"`
	RefundedAt   *time.Time  `json:"refunded_at,omitempty"`
	ChargebackAt *time.Time  `json:"chargeback_at,omitempty"`
}

// OrderItemResponse describes a line item.
type OrderItemResponse struct {
	ID          int64       `json:"id"`
	ProductID   int64       `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
}

// OrderDetailsResponse is the body of GET /api/pedidos/:id.
type OrderDetailsResponse struct {
	Order OrderResponse       `json:"order"`
	Items []OrderItemResponse `json:"items"`
}

// NewOrderDetailsResponse maps domain details to the response body.
func NewOrderDetailsResponse(details model.OrderDetails) OrderDetailsResponse {
	o := details.Order
	resp := OrderDetailsResponse{
		Order: OrderResponse{
			ID:           o.ID,
			CustomerID:   o.CustomerID,
			Status:       string(o.Status),
			Total:        Money(o.Total),
			PreferenceID: o.PreferenceID,
			PaymentID:    o.PaymentID,
			CreatedAt:    o.CreatedAt,
			PaidAt:       o.PaidAt,
			CancelledAt:  o.CancelledAt,
			RefundedAt:   o.RefundedAt,
			ChargebackAt: o.ChargebackAt,
		},
		Items: make([]OrderItemResponse, 0, len(details.Items)),
	}
	for _, item := range details.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   Money(item.UnitPrice),
		})
	}
	return resp
}
