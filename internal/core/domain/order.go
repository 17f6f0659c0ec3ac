package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// OrderStatuses returns the enumeration in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus accepts the exact enumeration values, surrounding
// whitespace aside.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.TrimSpace(s))
	if !status.Valid() {
		return "", NewValidationError(
			"status", "must be one of pending, confirmed, shipped, delivered, cancelled",
		)
	}
	return status, nil
}

type (
	Order struct {
		ID                string
		CustomerName      string
		Phone             string
		Address           string
		Items             []OrderItem
		Total             decimal.Decimal
		PaymentScreenshot string
		Status            OrderStatus
		Notes             string
		IdempotencyKey    string
		CreatedAt         time.Time
		UpdatedAt         time.Time
	}

	OrderItem struct {
		ProductID string
		Name      string
		NameAr    string
		Price     decimal.Decimal
		Quantity  int
		Size      string
		Image     string
	}
)

// An OrderDraft is the shopper's submission before it becomes an [Order].
type OrderDraft struct {
	CustomerName      string
	Phone             string
	Address           string
	Items             []OrderItem
	Total             decimal.Decimal
	PaymentScreenshot string
	Notes             string
	IdempotencyKey    string
}

// Normalize trims the free-text contact fields.
func (d *OrderDraft) Normalize() {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.PaymentScreenshot = strings.TrimSpace(d.PaymentScreenshot)
	d.Notes = strings.TrimSpace(d.Notes)
	d.IdempotencyKey = strings.TrimSpace(d.IdempotencyKey)
}

// Validate reports the first invalid field as a [ValidationError].
func (d OrderDraft) Validate() error {
	switch {
	case d.CustomerName == "":
		return NewValidationError("customerName", "is required")
	case d.Phone == "":
		return NewValidationError("phone", "is required")
	case d.Address == "":
		return NewValidationError("address", "is required")
	case len(d.Items) == 0:
		return NewValidationError("items", "must contain at least one item")
	case d.Total.IsNegative():
		return NewValidationError("total", "must not be negative")
	case d.PaymentScreenshot == "":
		return NewValidationError("paymentScreenshot", "is required")
	}

	for _, item := range d.Items {
		if item.Quantity < 1 {
			return NewValidationError("items.quantity", "must be at least 1")
		}
		if item.Price.IsNegative() {
			return NewValidationError("items.price", "must not be negative")
		}
	}
	return nil
}

// ItemsTotal sums price times quantity over the items.
func (d OrderDraft) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// OrderFilter narrows order listings. Zero value matches everything.
type OrderFilter struct {
	Status OrderStatus
}

// OrderStats is the admin dashboard summary.
type OrderStats struct {
	Total     int
	Pending   int
	Delivered int
	Revenue   decimal.Decimal
}

// OrderChange is applied by an admin. Nil fields are left untouched.
type OrderChange struct {
	Status *OrderStatus
	Notes  *string
}

func (c OrderChange) Empty() bool {
	return c.Status == nil && c.Notes == nil
}

// OrderStatusChanged is emitted after an admin status update is stored.
type OrderStatusChanged struct {
	OrderID        string
	PreviousStatus OrderStatus
	Status         OrderStatus
	ChangedAt      time.Time
}
