// Package customers stores the last-known contact profile per customer.
package customers

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no profile exists for the customer.
var ErrNotFound = errors.New("customers: not found")

// Profile is the last-known contact details for one customer. Every field is
// overwritten on each completed intake flow.
type Profile struct {
	CustomerID  int64     `json:"customer_id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	LastOrderAt time.Time `json:"last_order_at"`
}
