package order

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrAccessDenied   = errors.New("access denied")
	ErrInvalidStatus  = errors.New("invalid order status transition")
	ErrUnknownStatus  = errors.New("unknown order status")
	ErrOrderCancelled = errors.New("order is already cancelled")
	ErrOrderDelivered = errors.New("order is already delivered")
)

// validTransitions defines allowed state transitions. Cancellation is only
// possible before the order ships.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {}, // terminal state
	StatusCancelled: {}, // terminal state
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s Status) bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo checks if the order can move to the target status.
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[o.OrderStatus]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition.
func (o *Order) transitionError(target Status) error {
	switch {
	case o.OrderStatus == StatusCancelled:
		return ErrOrderCancelled
	case o.OrderStatus == StatusDelivered:
		return ErrOrderDelivered
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.OrderStatus, target)
	}
}

// OrderItem is an immutable snapshot of a cart line at order time. Name,
// image and price are captured from the cart, not re-fetched from the live
// product.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}

// StatusChange is one entry in an order's append-only audit trail.
type StatusChange struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	UserID            string          `json:"user_id"`
	Items             []OrderItem     `json:"items"`
	TotalAmount       float64         `json:"total_amount"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	OrderStatus       Status          `json:"order_status"`
	StatusHistory     []StatusChange  `json:"status_history"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	AdminNotes        string          `json:"admin_notes,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ListOptions filters the admin order listing.
type ListOptions struct {
	Status     Status
	Search     string
	DateFilter string // "today", "yesterday" or "week"
	Page       int
	Limit      int
}

// Store is the persistence surface for orders.
type Store interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context, opts ListOptions) ([]Order, int, error)
	ListSince(ctx context.Context, since time.Time) ([]Order, error)
	ListRecent(ctx context.Context, limit int) ([]Order, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	TotalRevenue(ctx context.Context) (float64, error)
}
