package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/product"
	"github.com/google/uuid"
)

// CartAccess is the slice of the cart service the materializer needs.
type CartAccess interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) (*cart.Cart, error)
}

// Inventory is the slice of the product service the order lifecycle needs.
type Inventory interface {
	Get(ctx context.Context, id string) (*product.Product, error)
	DecrementStock(ctx context.Context, id string, qty int) error
}

// EventPublisher publishes order events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Service struct {
	store     Store
	carts     CartAccess
	inventory Inventory
	publisher EventPublisher // nil disables event publication
}

func NewService(store Store, carts CartAccess, inventory Inventory, publisher EventPublisher) *Service {
	return &Service{
		store:     store,
		carts:     carts,
		inventory: inventory,
		publisher: publisher,
	}
}

// newOrderNumber generates a human-readable unique order number.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// Create materializes the user's cart into an immutable order. Stock is
// re-checked per line but NOT decremented; inventory only moves once the
// payment is confirmed.
func (s *Service) Create(ctx context.Context, userID string, address ShippingAddress, paymentMethod string) (*Order, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil || len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Re-check stock for every line before touching anything; the whole
	// operation aborts on the first failure.
	for _, item := range c.Items {
		p, err := s.inventory.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Stock < item.Quantity {
			return nil, &cart.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   item.Quantity,
				Available:   p.Stock,
			}
		}
	}

	now := time.Now()
	items := make([]OrderItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
	}

	o := &Order{
		ID:              uuid.New().String(),
		OrderNumber:     newOrderNumber(now),
		UserID:          userID,
		Items:           items,
		TotalAmount:     c.TotalAmount,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   PaymentPending,
		OrderStatus:     StatusPending,
		StatusHistory: []StatusChange{
			{Status: StatusPending, Timestamp: now, Note: "Order placed"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, o); err != nil {
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("[Order] Failed to clear cart for user %s after order %s: %v", userID, o.ID, err)
	}

	s.publish(ctx, EventOrderCreated, o.ID, OrderCreated{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       o.Items,
		Total:       o.TotalAmount,
		PlacedAt:    now,
	})

	return o, nil
}

// Get returns an order, enforcing that only the owner or an admin may see it.
func (s *Service) Get(ctx context.Context, orderID, requesterID string, isAdmin bool) (*Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != requesterID && !isAdmin {
		return nil, ErrAccessDenied
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.store.ListByUser(ctx, userID)
}

// GetByID returns an order without an ownership check; admin-only callers.
func (s *Service) GetByID(ctx context.Context, orderID string) (*Order, error) {
	return s.store.GetByID(ctx, orderID)
}

func (s *Service) ListAll(ctx context.Context, opts ListOptions) ([]Order, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	return s.store.ListAll(ctx, opts)
}

// UpdateStatus moves an order through its lifecycle and appends an audit
// trail entry. Transitions are forward-only.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, target Status, note string) (*Order, error) {
	if !IsValidStatus(target) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}

	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.CanTransitionTo(target) {
		return nil, o.transitionError(target)
	}

	now := time.Now()
	if note == "" {
		note = fmt.Sprintf("Status changed to %s", target)
	}

	from := o.OrderStatus
	o.StatusHistory = append(o.StatusHistory, StatusChange{Status: target, Timestamp: now, Note: note})
	o.OrderStatus = target
	o.UpdatedAt = now

	if err := s.store.Update(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, EventStatusChanged, o.ID, StatusChanged{
		OrderID:   o.ID,
		UserID:    o.UserID,
		From:      from,
		To:        target,
		Note:      note,
		ChangedAt: now,
	})

	return o, nil
}

// UpdateAdminFields sets tracking number, admin notes and estimated
// delivery. Nil pointers leave the current value untouched.
func (s *Service) UpdateAdminFields(ctx context.Context, orderID string, adminNotes, trackingNumber *string, estimatedDelivery *time.Time) (*Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if adminNotes != nil {
		o.AdminNotes = *adminNotes
	}
	if trackingNumber != nil {
		o.TrackingNumber = *trackingNumber
	}
	if estimatedDelivery != nil {
		o.EstimatedDelivery = estimatedDelivery
	}
	o.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkPaymentCompleted records a confirmed payment: payment status moves to
// completed, the order is confirmed, and only now is stock decremented.
// Decrement failures are logged and never roll the order back. The call is
// idempotent so the confirm endpoint and the gateway webhook cannot
// double-decrement.
func (s *Service) MarkPaymentCompleted(ctx context.Context, orderID string) error {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.PaymentStatus == PaymentCompleted {
		return nil
	}

	now := time.Now()
	o.PaymentStatus = PaymentCompleted
	if o.CanTransitionTo(StatusConfirmed) {
		o.StatusHistory = append(o.StatusHistory, StatusChange{
			Status:    StatusConfirmed,
			Timestamp: now,
			Note:      "Payment completed",
		})
		o.OrderStatus = StatusConfirmed
	}
	o.UpdatedAt = now

	if err := s.store.Update(ctx, o); err != nil {
		return err
	}

	for _, item := range o.Items {
		if err := s.inventory.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("[Order] Failed to decrement stock for product %s on order %s: %v",
				item.ProductID, o.ID, err)
		}
	}

	s.publish(ctx, EventPaymentCompleted, o.ID, OrderPaid{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       o.Items,
		Total:       o.TotalAmount,
		PaidAt:      now,
	})

	return nil
}

// MarkPaymentFailed records a rejected payment attempt.
func (s *Service) MarkPaymentFailed(ctx context.Context, orderID string) error {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.PaymentStatus == PaymentCompleted {
		return nil
	}
	o.PaymentStatus = PaymentFailed
	o.UpdatedAt = time.Now()
	return s.store.Update(ctx, o)
}

// publish sends an order event to the broker. Publication is best-effort:
// the order write has already committed, so a broker outage only costs the
// downstream notification.
func (s *Service) publish(ctx context.Context, eventType, orderID string, payload any) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Order] Failed to marshal %s event for order %s: %v", eventType, orderID, err)
		return
	}
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		OrderID:   orderID,
		Data:      data,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, orderID, event); err != nil {
		log.Printf("[Order] Failed to publish %s event for order %s: %v", eventType, orderID, err)
	}
}
