// Package notify fans an order summary out to the shop operator and email.
// Delivery is best effort: failures are logged and never affect the order.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kiranalabs/kiranabot/pkg/logging"
)

// OperatorMessenger delivers a text message to the operator chat.
type OperatorMessenger interface {
	SendToOperator(ctx context.Context, text string) error
}

// OrderLine is one line of a confirmed order as shown to the operator.
type OrderLine struct {
	Product   string `json:"product"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// Order is the notification payload built at the confirmation transition.
type Order struct {
	OrderSeq    int64       `json:"order_seq"`
	CustomerID  int64       `json:"customer_id"`
	DisplayName string      `json:"display_name"`
	Lines       []OrderLine `json:"lines"`
	Total       int64       `json:"total"`
	PlacedAt    time.Time   `json:"placed_at"`
}

// Service handles notifying the operator channel and the order mailbox.
type Service struct {
	operator  OperatorMessenger
	email     EmailSender
	recipient string
	logger    *logging.Logger

	// OnFailure, when set, is invoked with the channel name ("operator" or
	// "email") for each delivery failure. Used for metrics.
	OnFailure func(channel string)
}

// NewService creates a notification service. Either collaborator may be nil,
// which disables that channel.
func NewService(operator OperatorMessenger, email EmailSender, recipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		operator:  operator,
		email:     email,
		recipient: recipient,
		logger:    logger,
	}
}

// OrderPlaced notifies the operator and the order mailbox about a committed
// order. Failures are logged and swallowed; the order is already durable.
func (s *Service) OrderPlaced(ctx context.Context, order Order) {
	if s.operator != nil {
		if err := s.operator.SendToOperator(ctx, s.operatorText(order)); err != nil {
			s.logger.Error("notify: operator message failed", "error", err, "order_seq", order.OrderSeq)
			s.fail("operator")
		} else {
			s.logger.Info("notify: operator notified", "order_seq", order.OrderSeq)
		}
	}

	if s.email != nil && s.recipient != "" {
		msg := EmailMessage{
			To:      s.recipient,
			Subject: fmt.Sprintf("New Order #%d from %s", order.OrderSeq, order.DisplayName),
			Body:    s.operatorText(order),
			HTML:    s.emailHTML(order),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: order email failed", "error", err, "order_seq", order.OrderSeq)
			s.fail("email")
		} else {
			s.logger.Info("notify: order email sent", "order_seq", order.OrderSeq, "to", s.recipient)
		}
	}
}

func (s *Service) fail(channel string) {
	if s.OnFailure != nil {
		s.OnFailure(channel)
	}
}

func (s *Service) operatorText(order Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 NEW ORDER RECEIVED!\n\n")
	fmt.Fprintf(&b, "🆔 Order ID: %d\n", order.OrderSeq)
	fmt.Fprintf(&b, "👤 Customer: %s (ID: %d)\n", order.DisplayName, order.CustomerID)
	fmt.Fprintf(&b, "📦 Products:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "  • %s\n    ₹%d × %d = ₹%d\n", line.Product, line.UnitPrice, line.Quantity, line.LineTotal)
	}
	fmt.Fprintf(&b, "💰 TOTAL: ₹%d\n", order.Total)
	fmt.Fprintf(&b, "📅 Date: %s", order.PlacedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}

func (s *Service) emailHTML(order Order) string {
	var items strings.Builder
	for _, line := range order.Lines {
		fmt.Fprintf(&items, "<li>%s (₹%d × %d) = ₹%d</li>", line.Product, line.UnitPrice, line.Quantity, line.LineTotal)
	}
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
  <h2 style="color: #4CAF50;">🔔 New Order Received!</h2>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px;">
    <p><strong>📋 Order ID:</strong> #%d</p>
    <p><strong>👤 Customer:</strong> %s (ID: %d)</p>
    <h3>📦 Products Ordered:</h3>
    <ul>%s</ul>
    <h3 style="color: #4CAF50;">💰 Order Total: ₹%d</h3>
    <p><strong>📅 Order Date:</strong> %s</p>
  </div>
  <p style="margin-top: 20px; color: #666;">This is an automated notification from your Telegram order bot.</p>
</body>
</html>`, order.OrderSeq, order.DisplayName, order.CustomerID, items.String(), order.Total, order.PlacedAt.Format("2006-01-02 15:04:05"))
}
