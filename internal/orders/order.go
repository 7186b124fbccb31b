// Package orders persists the append-only ledger of confirmed order lines.
package orders

import "time"

// Record is one persisted order line. A confirmed cart with N lines produces N
// records sharing one OrderSeq. Records are immutable once written.
type Record struct {
	OrderSeq    int64     `json:"order_seq"`
	CustomerID  int64     `json:"customer_id"`
	DisplayName string    `json:"display_name"`
	Product     string    `json:"product"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	LineTotal   int64     `json:"line_total"`
	CreatedAt   time.Time `json:"created_at"`
}
