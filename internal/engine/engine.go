package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kiranalabs/kiranabot/internal/catalog"
	"github.com/kiranalabs/kiranabot/internal/customers"
	"github.com/kiranalabs/kiranabot/internal/faq"
	"github.com/kiranalabs/kiranabot/internal/notify"
	"github.com/kiranalabs/kiranabot/internal/observability/metrics"
	"github.com/kiranalabs/kiranabot/internal/orders"
	"github.com/kiranalabs/kiranabot/internal/session"
	"github.com/kiranalabs/kiranabot/pkg/logging"
)

const notifyTimeout = 15 * time.Second

// Config wires the engine's collaborators.
type Config struct {
	Catalog       *catalog.Catalog
	FAQ           *faq.Matcher
	Sessions      session.Store
	Orders        orders.Store
	Customers     customers.Directory
	Notifier      *notify.Service
	Metrics       *metrics.BotMetrics
	Logger        *logging.Logger
	SupportEmail  string
	ContactNumber string
}

// Engine is the conversation state machine over per-user sessions.
type Engine struct {
	catalog       *catalog.Catalog
	faqs          *faq.Matcher
	sessions      session.Store
	orders        orders.Store
	customers     customers.Directory
	notifier      *notify.Service
	metrics       *metrics.BotMetrics
	logger        *logging.Logger
	supportEmail  string
	contactNumber string

	// submitMu serializes order submissions so concurrent confirmations
	// cannot be handed the same sequence id.
	submitMu sync.Mutex

	now func() time.Time
}

// New creates an engine. Catalog, FAQ, Sessions and Orders are required.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Engine{
		catalog:       cfg.Catalog,
		faqs:          cfg.FAQ,
		sessions:      cfg.Sessions,
		orders:        cfg.Orders,
		customers:     cfg.Customers,
		notifier:      cfg.Notifier,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		supportEmail:  cfg.SupportEmail,
		contactNumber: cfg.ContactNumber,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// HandleMessage applies one inbound event to the user's session and returns
// the prompts to send back. Validation problems never surface as errors; they
// come back as re-prompts. A returned error means session storage itself
// failed.
func (e *Engine) HandleMessage(ctx context.Context, in Inbound) ([]Reply, error) {
	started := e.now()

	// /help answers without touching conversation state.
	if strings.TrimSpace(in.Text) == CmdHelp {
		e.metrics.ObserveInbound("ok")
		return []Reply{reply(helpText(e.supportEmail, e.contactNumber), backOnlyKeyboard())}, nil
	}

	sess, err := e.sessions.Get(ctx, in.UserID)
	if err != nil {
		e.metrics.ObserveInbound("error")
		return nil, fmt.Errorf("engine: session load failed: %w", err)
	}
	if sess == nil {
		sess = session.New(in.UserID, in.DisplayName)
	}
	if in.DisplayName != "" {
		sess.DisplayName = in.DisplayName
	}
	stateBefore := sess.State

	input := stepInput{text: in.Text}
	if sess.State == session.StateIdle && strings.TrimSpace(in.Text) == BtnPlaceOrder {
		input.knownCustomer = e.isKnownCustomer(ctx, in.UserID)
	}

	out := step(sess, e.catalog, e.faqs, e.supportEmail, input)
	for _, product := range out.skippedProducts {
		e.logger.Warn("cart line no longer in catalog, excluded", "user_id", in.UserID, "product", product)
	}

	replies := out.replies
	switch out.effect {
	case effectSaveCustomer:
		replies = e.saveCustomer(ctx, sess, replies)
	case effectSubmitOrder:
		replies = e.submitOrder(ctx, sess)
	}

	if err := e.persistSession(ctx, sess); err != nil {
		e.metrics.ObserveInbound("error")
		return nil, err
	}

	e.metrics.ObserveInbound("ok")
	e.metrics.ObserveHandleLatency(string(stateBefore), e.now().Sub(started).Seconds())
	return replies, nil
}

func (e *Engine) isKnownCustomer(ctx context.Context, userID int64) bool {
	if e.customers == nil {
		return true
	}
	_, err := e.customers.Find(ctx, userID)
	if errors.Is(err, customers.ErrNotFound) {
		return false
	}
	if err != nil {
		// On directory trouble, skip intake rather than block ordering.
		e.logger.Error("customer lookup failed, skipping intake", "error", err, "user_id", userID)
		return true
	}
	return true
}

// saveCustomer upserts the intake answers. On failure the user is re-asked
// for the address so the flow can be retried.
func (e *Engine) saveCustomer(ctx context.Context, sess *session.Session, replies []Reply) []Reply {
	if e.customers == nil {
		return replies
	}
	profile := &customers.Profile{
		CustomerID: sess.UserID,
		Name:       sess.Name,
		Phone:      sess.Phone,
		Address:    sess.Address,
	}
	if err := e.customers.Upsert(ctx, profile); err != nil {
		e.logger.Error("customer save failed", "error", err, "user_id", sess.UserID)
		sess.State = session.StateAwaitingAddress
		return []Reply{reply("❌ Sorry, we couldn't save your details. Please send your delivery address again:", backOnlyKeyboard())}
	}
	e.logger.Info("customer profile saved", "user_id", sess.UserID)
	return replies
}

// submitOrder runs the confirmation transition: resolve cart lines against
// the catalog, fetch one sequence id, append every line, then notify. On any
// append failure the cart is left intact so the user can retry.
func (e *Engine) submitOrder(ctx context.Context, sess *session.Session) []Reply {
	placedAt := e.now()

	var lines []notify.OrderLine
	var total int64
	for _, cartLine := range sess.Cart {
		price, err := e.catalog.Price(cartLine.Product)
		if err != nil {
			e.logger.Warn("skipping cart line not in catalog", "user_id", sess.UserID, "product", cartLine.Product)
			continue
		}
		lineTotal := price * int64(cartLine.Quantity)
		total += lineTotal
		lines = append(lines, notify.OrderLine{
			Product:   cartLine.Product,
			UnitPrice: price,
			Quantity:  cartLine.Quantity,
			LineTotal: lineTotal,
		})
	}
	if len(lines) == 0 {
		sess.Cart = nil
		sess.State = session.StateAwaitingAddMore
		return []Reply{reply(emptyCartText(), emptyCartKeyboard())}
	}

	e.submitMu.Lock()
	orderSeq, err := e.orders.NextOrderID(ctx)
	if err == nil {
		for _, line := range lines {
			rec := orders.Record{
				OrderSeq:    orderSeq,
				CustomerID:  sess.UserID,
				DisplayName: sess.DisplayName,
				Product:     line.Product,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				LineTotal:   line.LineTotal,
				CreatedAt:   placedAt,
			}
			if err = e.orders.Append(ctx, rec); err != nil {
				break
			}
		}
	}
	e.submitMu.Unlock()

	if err != nil {
		e.logger.Error("order submission failed", "error", err, "user_id", sess.UserID, "order_seq", orderSeq)
		e.metrics.ObserveOrder("failed", total)
		// Cart stays intact; the user can confirm again.
		return []Reply{reply("❌ Sorry, there was an error processing your order. Please try again or contact support.", confirmKeyboard())}
	}

	order := notify.Order{
		OrderSeq:    orderSeq,
		CustomerID:  sess.UserID,
		DisplayName: sess.DisplayName,
		Lines:       lines,
		Total:       total,
		PlacedAt:    placedAt,
	}

	e.logger.Info("order committed", "order_seq", orderSeq, "user_id", sess.UserID, "lines", len(lines), "total", total)
	e.metrics.ObserveOrder("committed", total)
	sess.Reset()

	if e.notifier != nil {
		// Best effort, off the conversation path. The order is committed
		// regardless of what happens here.
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			e.notifier.OrderPlaced(nctx, order)
		}()
	}

	return []Reply{reply(confirmationText(order), mainMenuKeyboard())}
}

// persistSession writes the session back, deleting it once it is idle again
// (terminal transitions and cancels discard all conversation state).
func (e *Engine) persistSession(ctx context.Context, sess *session.Session) error {
	if sess.State == session.StateIdle {
		if err := e.sessions.Delete(ctx, sess.UserID); err != nil {
			return fmt.Errorf("engine: session delete failed: %w", err)
		}
		return nil
	}
	if err := e.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("engine: session save failed: %w", err)
	}
	return nil
}
