// Package engine drives the per-user order conversation: it maps inbound text
// events onto state transitions, cart mutations and, at confirmation, the
// order submission that writes through the ledger and notifies the operator.
package engine

// Inbound is one text event from the chat transport.
type Inbound struct {
	UserID      int64
	DisplayName string
	Text        string
}

// Reply is one outbound prompt. Keyboard is a declarative quick-reply option
// grid the transport adapter renders however it likes; nil leaves the user's
// current keyboard in place.
type Reply struct {
	Text     string
	Keyboard [][]string
}

// Quick-reply button labels. These double as the transition events of the
// state machine, so the transport must send them through verbatim.
const (
	BtnPlaceOrder  = "📦 Place Order"
	BtnAskQuestion = "❓ Ask Question"
	BtnBackToMenu  = "🔙 Back to Menu"
	BtnViewCart    = "🛒 View Cart"
	BtnAddMore     = "➕ Add More Items"
	BtnAddItems    = "➕ Add Items"
	BtnCheckout    = "✅ Checkout"
	BtnConfirm     = "✅ Confirm Order"
	BtnClearCart   = "❌ Clear Cart"
)

// Slash commands handled in any state.
const (
	CmdStart  = "/start"
	CmdHelp   = "/help"
	CmdCancel = "/cancel"
)
