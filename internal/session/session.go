// Package session tracks per-user conversation state for the order flow.
package session

import "time"

// State identifies where a user is in the order conversation.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingName     State = "awaiting_name"
	StateAwaitingPhone    State = "awaiting_phone"
	StateAwaitingAddress  State = "awaiting_address"
	StateAwaitingProduct  State = "awaiting_product"
	StateAwaitingQuantity State = "awaiting_quantity"
	StateAwaitingAddMore  State = "awaiting_add_more"
	StateAwaitingConfirm  State = "awaiting_confirm"
)

// CartLine is one product selection. Quantity is always positive; the engine
// rejects zero or negative quantities before they reach the cart.
type CartLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Session is the transient conversation state for one user. It lives from the
// first inbound message until the order is submitted or the user cancels.
type Session struct {
	UserID      int64      `json:"user_id"`
	DisplayName string     `json:"display_name,omitempty"`
	State       State      `json:"state"`
	Cart        []CartLine `json:"cart,omitempty"`

	// PendingProduct is the product awaiting a quantity. Set exactly while
	// State == StateAwaitingQuantity.
	PendingProduct string `json:"pending_product,omitempty"`

	// Intake fields collected for first-time customers.
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an idle session for the user.
func New(userID int64, displayName string) *Session {
	return &Session{
		UserID:      userID,
		DisplayName: displayName,
		State:       StateIdle,
		UpdatedAt:   time.Now().UTC(),
	}
}

// Reset returns the session to idle and discards the cart, pending selection
// and intake answers.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Cart = nil
	s.PendingProduct = ""
	s.Name = ""
	s.Phone = ""
	s.Address = ""
}

// AddLine appends a cart line, preserving insertion order.
func (s *Session) AddLine(product string, quantity int) {
	s.Cart = append(s.Cart, CartLine{Product: product, Quantity: quantity})
}

// Units returns the total number of units across all cart lines.
func (s *Session) Units() int {
	total := 0
	for _, line := range s.Cart {
		total += line.Quantity
	}
	return total
}
