package engine

import (
	"fmt"
	"strings"

	"github.com/kiranalabs/kiranabot/internal/catalog"
	"github.com/kiranalabs/kiranabot/internal/notify"
	"github.com/kiranalabs/kiranabot/internal/session"
)

func mainMenuKeyboard() [][]string {
	return [][]string{{BtnPlaceOrder}, {BtnAskQuestion}}
}

func backOnlyKeyboard() [][]string {
	return [][]string{{BtnBackToMenu}}
}

// productKeyboard lays the catalog out two items per row, with the cart and
// menu controls on the last row.
func productKeyboard(cat *catalog.Catalog) [][]string {
	names := cat.Names()
	rows := make([][]string, 0, len(names)/2+2)
	for i := 0; i < len(names); i += 2 {
		end := i + 2
		if end > len(names) {
			end = len(names)
		}
		rows = append(rows, names[i:end])
	}
	return append(rows, []string{BtnViewCart, BtnBackToMenu})
}

func addMoreKeyboard() [][]string {
	return [][]string{{BtnAddMore}, {BtnCheckout}, {BtnViewCart}, {BtnBackToMenu}}
}

func emptyCartKeyboard() [][]string {
	return [][]string{{BtnAddItems}, {BtnBackToMenu}}
}

func confirmKeyboard() [][]string {
	return [][]string{{BtnConfirm}, {BtnAddMore}, {BtnClearCart}, {BtnBackToMenu}}
}

func welcomeText(displayName string) string {
	return fmt.Sprintf(
		"👋 Hello %s! Welcome to our store!\n\n"+
			"I'm here to help you with:\n"+
			"• 📦 Placing orders\n"+
			"• ❓ Answering your questions\n\n"+
			"What would you like to do?", displayName)
}

func helpText(supportEmail, contactNumber string) string {
	return fmt.Sprintf(
		"🤖 Bot Commands:\n\n"+
			"/start - Start the bot and see options\n"+
			"/cancel - Cancel current order\n"+
			"/help - Show this help message\n\n"+
			"Features:\n"+
			"• Place orders from grocery list\n"+
			"• Get answers to common questions\n"+
			"• Receive order confirmations\n\n"+
			"Need help? Contact %s or call %s", supportEmail, contactNumber)
}

func askQuestionText() string {
	return "❓ Sure! What would you like to know?\n\n" +
		"You can ask about:\n" +
		"• Delivery time\n" +
		"• Return policy\n" +
		"• Payment methods\n" +
		"• Shipping cost\n" +
		"• Contact information\n" +
		"• Working hours"
}

func productListText(sess *session.Session) string {
	if len(sess.Cart) == 0 {
		return "🛒 Select products from our grocery list:"
	}
	return fmt.Sprintf("🛒 Select products from our grocery list:\n\n🛒 Items in cart: %d product(s), %d units",
		len(sess.Cart), sess.Units())
}

// cartSummary renders the review text and totals. Lines whose product is no
// longer in the catalog are excluded and returned in skipped.
func cartSummary(sess *session.Session, cat *catalog.Catalog) (text string, total int64, skipped []string) {
	var b strings.Builder
	b.WriteString("🛒 YOUR CART:\n\n")
	idx := 0
	for _, line := range sess.Cart {
		price, err := cat.Price(line.Product)
		if err != nil {
			skipped = append(skipped, line.Product)
			continue
		}
		idx++
		lineTotal := price * int64(line.Quantity)
		total += lineTotal
		fmt.Fprintf(&b, "%d. %s\n   Qty: %d × ₹%d = ₹%d\n\n", idx, line.Product, line.Quantity, price, lineTotal)
	}
	fmt.Fprintf(&b, "💰 TOTAL: ₹%d\n\n", total)
	fmt.Fprintf(&b, "📦 Total Items: %d\n\n", idx)
	b.WriteString("Confirm your order?")
	return b.String(), total, skipped
}

func emptyCartText() string {
	return "🛒 Your cart is empty!\n\nWould you like to add some items?"
}

func confirmationText(order notify.Order) string {
	var b strings.Builder
	b.WriteString("✅ ORDER CONFIRMED!\n\n")
	fmt.Fprintf(&b, "🆔 Order ID: %d\n", order.OrderSeq)
	b.WriteString("📦 Products:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "  • %s\n    ₹%d × %d = ₹%d\n", line.Product, line.UnitPrice, line.Quantity, line.LineTotal)
	}
	fmt.Fprintf(&b, "\n💰 TOTAL: ₹%d\n", order.Total)
	fmt.Fprintf(&b, "📅 Date: %s\n\n", order.PlacedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("Thank you for your order! 🎉")
	return b.String()
}
