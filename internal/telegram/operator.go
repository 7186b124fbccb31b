package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kiranalabs/kiranabot/pkg/logging"
)

// OperatorNotifier delivers order summaries to the shop owner's chat. It
// implements notify.OperatorMessenger.
type OperatorNotifier struct {
	sender Sender
	chatID int64
	logger *logging.Logger
}

// NewOperatorNotifier creates a notifier targeting the operator chat id.
func NewOperatorNotifier(sender Sender, chatID int64, logger *logging.Logger) *OperatorNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &OperatorNotifier{sender: sender, chatID: chatID, logger: logger}
}

// SendToOperator sends one text message to the operator chat.
func (n *OperatorNotifier) SendToOperator(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("telegram: operator send failed: %w", err)
	}
	return nil
}
