// Package faq answers free-text questions by keyword lookup.
package faq

import (
	"fmt"
	"strings"
)

// Entry pairs a keyword phrase with its canned answer.
type Entry struct {
	Keyword string
	Answer  string
}

// Matcher answers questions whose text contains a registered keyword phrase.
// Entries are checked in registration order and the first match wins, so
// overlapping phrases must be ordered most-specific first.
type Matcher struct {
	entries []Entry
}

// New builds a matcher over the given entries. Keywords are matched
// case-insensitively as substrings of the input.
func New(entries []Entry) *Matcher {
	normalized := make([]Entry, len(entries))
	for i, e := range entries {
		normalized[i] = Entry{
			Keyword: strings.ToLower(strings.TrimSpace(e.Keyword)),
			Answer:  e.Answer,
		}
	}
	return &Matcher{entries: normalized}
}

// Match returns the answer for the first keyword phrase contained in input.
func (m *Matcher) Match(input string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return "", false
	}
	for _, e := range m.entries {
		if e.Keyword != "" && strings.Contains(text, e.Keyword) {
			return e.Answer, true
		}
	}
	return "", false
}

// Topics returns the registered keyword phrases in matching order.
func (m *Matcher) Topics() []string {
	topics := make([]string, len(m.entries))
	for i, e := range m.entries {
		topics[i] = e.Keyword
	}
	return topics
}

// Default returns the shop's FAQ set. supportEmail and contactNumber are
// interpolated into the contact answer.
func Default(supportEmail, contactNumber string) *Matcher {
	return New([]Entry{
		{"delivery time", "We typically deliver within 3-5 business days for local orders and 7-10 days for international orders."},
		{"return policy", "We accept returns within 30 days of purchase. Items must be in original condition with tags attached."},
		{"payment methods", "We accept credit cards, debit cards, PayPal, and bank transfers."},
		{"shipping cost", "Shipping is free for orders above $50. For orders below $50, we charge a flat rate of $5."},
		{"contact", fmt.Sprintf("You can contact us at %s or call us at %s.", supportEmail, contactNumber)},
		{"working hours", "Our customer support is available Monday to Friday, 9 AM to 6 PM EST."},
	})
}
