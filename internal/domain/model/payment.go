package model

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the status reported by the payment gateway.
type PaymentStatus string

const (
	PaymentStatusApproved    PaymentStatus = "approved"
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusInProcess   PaymentStatus = "in_process"
	PaymentStatusRejected    PaymentStatus = "rejected"
	PaymentStatusCancelled   PaymentStatus = "cancelled"
	PaymentStatusRefunded    PaymentStatus = "refunded"
	PaymentStatusChargedBack PaymentStatus = "charged_back"
)

var paymentToOrderStatus = map[PaymentStatus]OrderStatus{
	PaymentStatusApproved:    OrderStatusPaid,
	PaymentStatusRejected:    OrderStatusRejected,
	PaymentStatusCancelled:   OrderStatusCancelled,
	PaymentStatusRefunded:    OrderStatusRefunded,
	PaymentStatusChargedBack: OrderStatusChargeback,
}

// OrderStatus maps the gateway status to the order status it implies.
// The second result is false for statuses that do not move an order.
func (s PaymentStatus) OrderStatus() (OrderStatus, bool) {
	status, ok := paymentToOrderStatus[s]
	return status, ok
}

// Payment is a gateway payment snapshot.
type Payment struct {
	ID                string
	Status            PaymentStatus
	ExternalReference string
}

// OrderID parses the external reference as an order id.
func (p Payment) OrderID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(p.ExternalReference), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// PreferenceItem is one entry of a payment request.
type PreferenceItem struct {
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
	CurrencyID string
}

// ReturnURLs are the browser destinations after checkout.
type ReturnURLs struct {
	Success string
	Failure string
	Pending string
}

// PreferenceRequest describes a payment request for one order.
type PreferenceRequest struct {
	Items             []PreferenceItem
	ExternalReference string
	NotificationURL   string
	ReturnURLs        *ReturnURLs
}

// Preference is a payment request accepted by the gateway.
type Preference struct {
	ID                 string
	CheckoutURL        string
	SandboxCheckoutURL string
}

// PaymentURL returns the live checkout URL, falling back to the sandbox one.
func (p Preference) PaymentURL() string {
	if p.CheckoutURL != "" {
		return p.CheckoutURL
	}
	return p.SandboxCheckoutURL
}

// Notification is an asynchronous gateway event.
type Notification struct {
	Type      string
	PaymentID string
}

// IsPayment reports whether the notification refers to a payment.
func (n Notification) IsPayment() bool {
	return n.Type != "" && n.PaymentID != "" && strings.Contains(n.Type, "payment")
}
