package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/email"
)

// Handler consumes order events and turns them into customer mail. Lookup or
// send failures are logged and swallowed; a lost mail must never wedge the
// consumer group.
type Handler struct {
	emailService *email.Service
	users        user.Store
}

func NewHandler(emailSvc *email.Service, users user.Store) *Handler {
	return &Handler{
		emailService: emailSvc,
		users:        users,
	}
}

// HandleEvent processes one event from Kafka.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.Type {
	case order.EventOrderCreated:
		return h.handleOrderCreated(ctx, event)
	case order.EventPaymentCompleted:
		return h.handlePaymentCompleted(ctx, event)
	}
	return nil
}

func (h *Handler) handleOrderCreated(ctx context.Context, event order.Event) error {
	var e order.OrderCreated
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderCreated event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderCreated for order %s, user %s", e.OrderID, e.UserID)

	u, err := h.users.GetByID(ctx, e.UserID)
	if err != nil {
		log.Printf("[Notifier] User %s not found for order %s: %v", e.UserID, e.OrderID, err)
		return nil
	}

	items := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		items[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err := h.emailService.SendOrderConfirmation(u.Email, e.OrderNumber, e.Total, items); err != nil {
		log.Printf("[Notifier] Failed to send confirmation to %s: %v", u.Email, err)
		return nil
	}

	log.Printf("[Notifier] Order confirmation sent to %s for order %s", u.Email, e.OrderNumber)
	return nil
}

func (h *Handler) handlePaymentCompleted(ctx context.Context, event order.Event) error {
	var e order.OrderPaid
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPaid event: %v", err)
		return err
	}

	u, err := h.users.GetByID(ctx, e.UserID)
	if err != nil {
		log.Printf("[Notifier] User %s not found for order %s: %v", e.UserID, e.OrderID, err)
		return nil
	}

	if err := h.emailService.SendPaymentReceipt(u.Email, e.OrderNumber, e.Total); err != nil {
		log.Printf("[Notifier] Failed to send receipt to %s: %v", u.Email, err)
		return nil
	}

	log.Printf("[Notifier] Payment receipt sent to %s for order %s", u.Email, e.OrderNumber)
	return nil
}
