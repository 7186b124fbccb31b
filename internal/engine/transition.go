package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kiranalabs/kiranabot/internal/catalog"
	"github.com/kiranalabs/kiranabot/internal/faq"
	"github.com/kiranalabs/kiranabot/internal/session"
)

// effectKind names the side effect a transition defers to the engine. The
// transition function itself performs no I/O so it can be tested in isolation.
type effectKind int

const (
	effectNone effectKind = iota
	// effectSaveCustomer upserts the intake answers as a customer profile.
	effectSaveCustomer
	// effectSubmitOrder runs the confirmation transition: sequence id, ledger
	// appends, notifications. The session is left untouched until the engine
	// knows the appends succeeded.
	effectSubmitOrder
)

type stepInput struct {
	text string
	// knownCustomer gates the intake flow on the "place order" event. The
	// engine resolves it against the customer directory beforehand.
	knownCustomer bool
}

type outcome struct {
	replies []Reply
	effect  effectKind
	// skippedProducts are cart lines excluded from a rendered summary because
	// the catalog no longer carries them. The engine logs these.
	skippedProducts []string
}

func reply(text string, keyboard [][]string) Reply {
	return Reply{Text: text, Keyboard: keyboard}
}

// step applies one inbound text event to the session and returns the prompts
// plus any deferred effect. It mutates sess (state, cart, intake fields) but
// never touches a store.
func step(sess *session.Session, cat *catalog.Catalog, faqs *faq.Matcher, supportEmail string, in stepInput) outcome {
	text := strings.TrimSpace(in.text)

	// Cancel and menu events clear the whole session from any state.
	if text == BtnBackToMenu || text == CmdCancel {
		sess.Reset()
		return outcome{replies: []Reply{reply("🏠 Back to Main Menu\n\nWhat would you like to do?", mainMenuKeyboard())}}
	}
	if text == CmdStart {
		sess.Reset()
		return outcome{replies: []Reply{reply(welcomeText(sess.DisplayName), mainMenuKeyboard())}}
	}

	switch sess.State {
	case session.StateIdle:
		return stepIdle(sess, cat, faqs, supportEmail, in)
	case session.StateAwaitingName:
		sess.Name = text
		sess.State = session.StateAwaitingPhone
		return outcome{replies: []Reply{reply(fmt.Sprintf("Thank you, %s! 📝\n\nPlease provide your phone number:", text), backOnlyKeyboard())}}
	case session.StateAwaitingPhone:
		sess.Phone = text
		sess.State = session.StateAwaitingAddress
		return outcome{replies: []Reply{reply("📱 Phone saved!\n\n📍 Your delivery address?", backOnlyKeyboard())}}
	case session.StateAwaitingAddress:
		sess.Address = text
		sess.State = session.StateAwaitingProduct
		return outcome{
			effect:  effectSaveCustomer,
			replies: []Reply{reply("✅ All details saved!\n\n🛒 Now select items to order:", productKeyboard(cat))},
		}
	case session.StateAwaitingProduct:
		return stepProduct(sess, cat, text)
	case session.StateAwaitingQuantity:
		return stepQuantity(sess, cat, text)
	case session.StateAwaitingAddMore:
		return stepAddMore(sess, cat, text)
	case session.StateAwaitingConfirm:
		return stepConfirm(sess, cat, text)
	default:
		sess.Reset()
		return outcome{replies: []Reply{reply("🏠 Back to Main Menu\n\nWhat would you like to do?", mainMenuKeyboard())}}
	}
}

func stepIdle(sess *session.Session, cat *catalog.Catalog, faqs *faq.Matcher, supportEmail string, in stepInput) outcome {
	switch strings.TrimSpace(in.text) {
	case BtnPlaceOrder:
		sess.Reset()
		if in.knownCustomer {
			sess.State = session.StateAwaitingProduct
			return outcome{replies: []Reply{
				reply(fmt.Sprintf("👋 Welcome back, %s!\n\n🛒 Select items you want to order:", sess.DisplayName), nil),
				reply("Our products:", productKeyboard(cat)),
			}}
		}
		sess.State = session.StateAwaitingName
		return outcome{replies: []Reply{reply("👋 Welcome! Before your first order we need a few details.\n\n📝 What's your name?", backOnlyKeyboard())}}
	case BtnAskQuestion:
		return outcome{replies: []Reply{reply(askQuestionText(), backOnlyKeyboard())}}
	default:
		if answer, ok := faqs.Match(in.text); ok {
			return outcome{replies: []Reply{reply("💡 "+answer, backOnlyKeyboard())}}
		}
		fallback := fmt.Sprintf("🤔 I'm not sure about that. Please contact us at %s\n\nOr type /start to place an order or ask a different question.", supportEmail)
		return outcome{replies: []Reply{reply(fallback, backOnlyKeyboard())}}
	}
}

func stepProduct(sess *session.Session, cat *catalog.Catalog, text string) outcome {
	if text == BtnViewCart {
		return reviewCart(sess, cat)
	}
	price, err := cat.Price(text)
	if err != nil {
		return outcome{replies: []Reply{reply("⚠️ Please select a valid item:", productKeyboard(cat))}}
	}
	sess.PendingProduct = text
	sess.State = session.StateAwaitingQuantity
	return outcome{replies: []Reply{reply(fmt.Sprintf("✅ %s\n💰 Price: ₹%d\n\nHow many?", text, price), backOnlyKeyboard())}}
}

func stepQuantity(sess *session.Session, cat *catalog.Catalog, text string) outcome {
	qty, err := strconv.Atoi(text)
	if err != nil {
		return outcome{replies: []Reply{reply("❌ Please enter a valid number for quantity:", backOnlyKeyboard())}}
	}
	if qty <= 0 {
		return outcome{replies: []Reply{reply("❌ Please enter a valid positive number for quantity:", backOnlyKeyboard())}}
	}
	product := sess.PendingProduct
	sess.AddLine(product, qty)
	sess.PendingProduct = ""
	sess.State = session.StateAwaitingAddMore
	text = fmt.Sprintf("✅ Added %d x %s to cart!\n\n🛒 Total items in cart: %d\n\nWhat would you like to do next?",
		qty, product, len(sess.Cart))
	return outcome{replies: []Reply{reply(text, addMoreKeyboard())}}
}

func stepAddMore(sess *session.Session, cat *catalog.Catalog, text string) outcome {
	switch text {
	case BtnAddMore, BtnAddItems:
		sess.State = session.StateAwaitingProduct
		return outcome{replies: []Reply{reply(productListText(sess), productKeyboard(cat))}}
	case BtnViewCart, BtnCheckout:
		return reviewCart(sess, cat)
	default:
		return outcome{replies: []Reply{reply("What would you like to do next?", addMoreKeyboard())}}
	}
}

func stepConfirm(sess *session.Session, cat *catalog.Catalog, text string) outcome {
	switch text {
	case BtnConfirm:
		if len(sess.Cart) == 0 {
			sess.State = session.StateAwaitingAddMore
			return outcome{replies: []Reply{reply(emptyCartText(), emptyCartKeyboard())}}
		}
		return outcome{effect: effectSubmitOrder}
	case BtnClearCart:
		sess.Cart = nil
		sess.State = session.StateAwaitingAddMore
		return outcome{replies: []Reply{reply("🗑️ Cart cleared!\n\nWould you like to add some items?", emptyCartKeyboard())}}
	case BtnAddMore:
		sess.State = session.StateAwaitingProduct
		return outcome{replies: []Reply{reply(productListText(sess), productKeyboard(cat))}}
	default:
		return reviewCart(sess, cat)
	}
}

// reviewCart renders the cart and moves to confirmation, short-circuiting to
// the add-more prompt when the cart is empty.
func reviewCart(sess *session.Session, cat *catalog.Catalog) outcome {
	if len(sess.Cart) == 0 {
		sess.State = session.StateAwaitingAddMore
		return outcome{replies: []Reply{reply(emptyCartText(), emptyCartKeyboard())}}
	}
	text, _, skipped := cartSummary(sess, cat)
	sess.State = session.StateAwaitingConfirm
	return outcome{
		replies:         []Reply{reply(text, confirmKeyboard())},
		skippedProducts: skipped,
	}
}
