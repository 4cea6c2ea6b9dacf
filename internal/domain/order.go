package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
}

// EmptyStatusCounts returns a zero count for every order status.
func EmptyStatusCounts() map[OrderStatus]int {
	return map[OrderStatus]int{
		OrderPending:    0,
		OrderProcessing: 0,
		OrderShipped:    0,
		OrderDelivered:  0,
		OrderCancelled:  0,
	}
}

// ParseOrderStatus validates a status name.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return st, true
	}
	return "", false
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderType string

const (
	OrderTypeOnline   OrderType = "online"
	OrderTypeReseller OrderType = "reseller"
	OrderTypeOffline  OrderType = "offline"
)

// OrderTypeFor maps the placing viewer's role to an order type.
func OrderTypeFor(role Role) OrderType {
	if role == RoleReseller {
		return OrderTypeReseller
	}
	return OrderTypeOnline
}

var paymentLabels = map[string]string{
	"upi":        "UPI",
	"card":       "Credit/Debit Card",
	"netbanking": "Net Banking",
	"wallet":     "Wallet",
	"cod":        "Cash on Delivery",
}

// PaymentMethodLabel returns the display label stored on orders. Unknown ids fall back to UPI.
func PaymentMethodLabel(id string) string {
	if label, ok := paymentLabels[strings.ToLower(strings.TrimSpace(id))]; ok {
		return label
	}
	return paymentLabels["upi"]
}

// OrderItem is a cart line frozen at placement time.
type OrderItem struct {
	Product       ProductSnapshot `json:"product"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	Customization *Customization  `json:"customization,omitempty"`
}

// Order is immutable after creation apart from Status and UpdatedAt.
type Order struct {
	ID                string          `json:"id"`
	CustomerID        string          `json:"customerId"`
	OwnerKey          string          `json:"-"`
	CustomerName      string          `json:"customerName"`
	CustomerEmail     string          `json:"customerEmail"`
	CustomerPhone     string          `json:"customerPhone"`
	Items             []OrderItem     `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Shipping          decimal.Decimal `json:"shipping"`
	Tax               decimal.Decimal `json:"tax"`
	Total             decimal.Decimal `json:"total"`
	Status            OrderStatus     `json:"status"`
	PaymentMethod     string          `json:"paymentMethod"`
	ShippingAddress   Address         `json:"shippingAddress"`
	OrderType         OrderType       `json:"orderType"`
	HasCustomizations bool            `json:"hasCustomizations"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// VisibleTo reports whether v may see the buyer's contact details.
func (o *Order) VisibleTo(v Viewer) bool {
	if v.Role == RoleAdmin {
		return true
	}
	if key := v.OwnerKey(); key != "" && key == o.OwnerKey {
		return true
	}
	return !v.IsGuest() && v.ID == o.CustomerID
}

// Redacted returns a copy without contact details. Items, totals and status stay readable
// and the address keeps only city and state.
func (o Order) Redacted() Order {
	o.CustomerName = ""
	o.CustomerEmail = ""
	o.CustomerPhone = ""
	o.ShippingAddress = Address{City: o.ShippingAddress.City, State: o.ShippingAddress.State}
	return o
}

// OrderStats summarises orders for the admin dashboard.
type OrderStats struct {
	TotalOrders       int                 `json:"totalOrders"`
	TotalRevenue      decimal.Decimal     `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal     `json:"averageOrderValue"`
	ByStatus          map[OrderStatus]int `json:"byStatus"`
}
