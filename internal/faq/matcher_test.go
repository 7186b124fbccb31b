package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	m := Default("support@yourshop.com", "+1-234-567-8900")

	tests := []struct {
		name      string
		input     string
		wantMatch bool
		contains  string
	}{
		{
			name:      "delivery question",
			input:     "What's your delivery time?",
			wantMatch: true,
			contains:  "3-5 business days",
		},
		{
			name:      "case insensitive",
			input:     "DELIVERY TIME???",
			wantMatch: true,
			contains:  "3-5 business days",
		},
		{
			name:      "keyword mid-sentence",
			input:     "hey, do you know the shipping cost for this",
			wantMatch: true,
			contains:  "flat rate of $5",
		},
		{
			name:      "no match",
			input:     "banana",
			wantMatch: false,
		},
		{
			name:      "empty input",
			input:     "   ",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, ok := m.Match(tt.input)
			require.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Contains(t, answer, tt.contains)
			}
		})
	}
}

func TestFirstMatchWinsInRegistrationOrder(t *testing.T) {
	m := New([]Entry{
		{"delivery time", "specific"},
		{"delivery", "generic"},
	})
	answer, ok := m.Match("what is your delivery time")
	require.True(t, ok)
	assert.Equal(t, "specific", answer)

	answer, ok = m.Match("do you do delivery")
	require.True(t, ok)
	assert.Equal(t, "generic", answer)
}

func TestContactAnswerInterpolation(t *testing.T) {
	m := Default("help@kirana.shop", "+91-98-7654-3210")
	answer, ok := m.Match("how do i contact you")
	require.True(t, ok)
	assert.Contains(t, answer, "help@kirana.shop")
	assert.Contains(t, answer, "+91-98-7654-3210")
}
