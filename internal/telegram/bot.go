// Package telegram adapts the conversation engine to the Telegram Bot API:
// long-polled updates in, text messages with reply keyboards out.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kiranalabs/kiranabot/internal/engine"
	"github.com/kiranalabs/kiranabot/pkg/logging"
)

// Sender is the subset of tgbotapi.BotAPI used for outbound messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Sink receives inbound events; in production it is the engine dispatcher.
type Sink interface {
	Enqueue(ctx context.Context, in engine.Inbound) error
}

// Bot runs the Telegram long-poll loop and forwards text messages to the sink.
type Bot struct {
	api           *tgbotapi.BotAPI
	sink          Sink
	logger        *logging.Logger
	updateTimeout int
}

// New authenticates against the Bot API and returns the transport.
func New(token string, sink Sink, updateTimeout int, logger *logging.Logger) (*Bot, error) {
	if logger == nil {
		logger = logging.Default()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: bot auth failed: %w", err)
	}
	if updateTimeout <= 0 {
		updateTimeout = 30
	}
	logger.Info("telegram bot authorized", "username", api.Self.UserName)
	return &Bot{
		api:           api,
		sink:          sink,
		logger:        logger,
		updateTimeout: updateTimeout,
	}, nil
}

// API exposes the underlying client for collaborators (operator notifier,
// reply delivery).
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// Run long-polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.updateTimeout
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}
	in := engine.Inbound{
		UserID:      msg.Chat.ID,
		DisplayName: displayName(msg.From),
		Text:        msg.Text,
	}
	if err := b.sink.Enqueue(ctx, in); err != nil {
		b.logger.Error("failed to enqueue update", "error", err, "user_id", in.UserID)
	}
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return user.FirstName
}

// Deliver sends the engine's replies to the user, rendering quick-reply
// keyboards. It is the dispatcher's DeliverFunc.
func (b *Bot) Deliver(_ context.Context, userID int64, replies []engine.Reply) {
	DeliverWith(b.api, b.logger, userID, replies)
}

// DeliverWith sends replies through any Sender. Split out for tests.
func DeliverWith(sender Sender, logger *logging.Logger, userID int64, replies []engine.Reply) {
	for _, r := range replies {
		msg := tgbotapi.NewMessage(userID, r.Text)
		if markup, ok := replyKeyboard(r.Keyboard); ok {
			msg.ReplyMarkup = markup
		}
		if _, err := sender.Send(msg); err != nil {
			logger.Error("failed to send reply", "error", err, "user_id", userID)
		}
	}
}

// replyKeyboard converts the engine's declarative option grid into a Telegram
// reply keyboard.
func replyKeyboard(rows [][]string) (tgbotapi.ReplyKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.ReplyKeyboardMarkup{}, false
	}
	keyboard := make([][]tgbotapi.KeyboardButton, len(rows))
	for i, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, len(row))
		for j, label := range row {
			buttons[j] = tgbotapi.NewKeyboardButton(label)
		}
		keyboard[i] = buttons
	}
	markup := tgbotapi.NewReplyKeyboard(keyboard...)
	markup.ResizeKeyboard = true
	return markup, true
}
