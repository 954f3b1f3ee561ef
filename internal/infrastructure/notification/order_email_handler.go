package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Ensure OrderEmailHandler implements EventHandler
var _ shared.EventHandler = (*OrderEmailHandler)(nil)

// OrderEmailHandler sends confirmation and shipment email when order
// lifecycle events are published. Failures are logged, never propagated:
// a lost email must not fail the checkout that triggered it.
type OrderEmailHandler struct {
	mailer   Mailer
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewOrderEmailHandler creates a new OrderEmailHandler
func NewOrderEmailHandler(mailer Mailer, userRepo identity.UserRepository, logger *zap.Logger) *OrderEmailHandler {
	return &OrderEmailHandler{
		mailer:   mailer,
		userRepo: userRepo,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderEmailHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderShipped,
	}
}

// Handle sends the email that corresponds to the event type
func (h *OrderEmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.send(ctx, e.UserID, e.OrderNumber,
			fmt.Sprintf("Order %s confirmed", e.OrderNumber),
			h.placedBody(e))
	case *order.OrderShippedEvent:
		h.send(ctx, e.UserID, e.OrderNumber,
			fmt.Sprintf("Order %s is on its way", e.OrderNumber),
			shippedBody{orderNumber: e.OrderNumber})
	}
	return nil
}

type emailBody interface {
	html(displayName string) string
	text(displayName string) string
}

func (h *OrderEmailHandler) send(ctx context.Context, userID uuid.UUID, orderNumber, subject string, body emailBody) {
	user, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		h.logger.Warn("skipping order email, user lookup failed",
			zap.String("order_number", orderNumber),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return
	}

	name := user.DisplayName
	if name == "" {
		name = user.Username
	}

	if err := h.mailer.Send(ctx, user.Email, subject, body.html(name), body.text(name)); err != nil {
		h.logger.Warn("order email delivery failed",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
	}
}

func (h *OrderEmailHandler) placedBody(e *order.OrderPlacedEvent) emailBody {
	return placedBodyData{
		orderNumber: e.OrderNumber,
		total:       e.Total.StringFixed(2),
		itemCount:   e.ItemCount,
	}
}

type placedBodyData struct {
	orderNumber string
	total       string
	itemCount   int
}

func (b placedBodyData) html(name string) string {
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Thank you for your order. Order <strong>%s</strong> has been placed.</p>
<ul>
<li>Items: %d</li>
<li>Total: %s</li>
</ul>
<p>We will email you again when it ships.</p>
</body></html>`, name, b.orderNumber, b.itemCount, b.total)
}

func (b placedBodyData) text(name string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nThank you for your order. Order %s has been placed.\n\nItems: %d\nTotal: %s\n\nWe will email you again when it ships.\n",
		name, b.orderNumber, b.itemCount, b.total)
}

type shippedBody struct {
	orderNumber string
}

func (b shippedBody) html(name string) string {
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Order <strong>%s</strong> has shipped and is on its way.</p>
</body></html>`, name, b.orderNumber)
}

func (b shippedBody) text(name string) string {
	return fmt.Sprintf("Hi %s,\n\nOrder %s has shipped and is on its way.\n", name, b.orderNumber)
}
