package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranalabs/kiranabot/internal/catalog"
	"github.com/kiranalabs/kiranabot/internal/faq"
	"github.com/kiranalabs/kiranabot/internal/session"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		{Name: "Soap", UnitPrice: 35},
		{Name: "Tea", UnitPrice: 107},
	})
}

func testFAQ() *faq.Matcher {
	return faq.Default("support@yourshop.com", "+1-234-567-8900")
}

func runStep(sess *session.Session, text string) outcome {
	return step(sess, testCatalog(), testFAQ(), "support@yourshop.com", stepInput{text: text})
}

func TestBackToMenuClearsSessionFromAnyState(t *testing.T) {
	states := []session.State{
		session.StateIdle,
		session.StateAwaitingName,
		session.StateAwaitingPhone,
		session.StateAwaitingAddress,
		session.StateAwaitingProduct,
		session.StateAwaitingQuantity,
		session.StateAwaitingAddMore,
		session.StateAwaitingConfirm,
	}
	for _, state := range states {
		t.Run(string(state), func(t *testing.T) {
			sess := session.New(1, "u")
			sess.State = state
			sess.AddLine("Soap", 2)
			sess.PendingProduct = "Tea"

			out := runStep(sess, BtnBackToMenu)

			assert.Equal(t, session.StateIdle, sess.State)
			assert.Empty(t, sess.Cart)
			assert.Empty(t, sess.PendingProduct)
			assert.Equal(t, effectNone, out.effect)
			require.Len(t, out.replies, 1)
			assert.Contains(t, out.replies[0].Text, "Main Menu")
		})
	}
}

func TestCancelCommandClearsSession(t *testing.T) {
	sess := session.New(1, "u")
	sess.State = session.StateAwaitingConfirm
	sess.AddLine("Soap", 1)

	runStep(sess, CmdCancel)

	assert.Equal(t, session.StateIdle, sess.State)
	assert.Empty(t, sess.Cart)
}

func TestIntakeFlow(t *testing.T) {
	sess := session.New(1, "u")
	sess.State = session.StateAwaitingName

	out := runStep(sess, "Meera")
	assert.Equal(t, session.StateAwaitingPhone, sess.State)
	assert.Equal(t, "Meera", sess.Name)
	assert.Contains(t, out.replies[0].Text, "phone")

	out = runStep(sess, "+91-98-0000-1111")
	assert.Equal(t, session.StateAwaitingAddress, sess.State)
	assert.Equal(t, "+91-98-0000-1111", sess.Phone)

	out = runStep(sess, "12 MG Road")
	assert.Equal(t, session.StateAwaitingProduct, sess.State)
	assert.Equal(t, "12 MG Road", sess.Address)
	assert.Equal(t, effectSaveCustomer, out.effect)
}

func TestProductSelection(t *testing.T) {
	t.Run("valid product moves to quantity", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingProduct

		out := runStep(sess, "Soap")

		assert.Equal(t, session.StateAwaitingQuantity, sess.State)
		assert.Equal(t, "Soap", sess.PendingProduct)
		assert.Contains(t, out.replies[0].Text, "₹35")
	})

	t.Run("invalid product re-prompts without mutation", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingProduct

		out := runStep(sess, "banana")

		assert.Equal(t, session.StateAwaitingProduct, sess.State)
		assert.Empty(t, sess.PendingProduct)
		assert.Contains(t, out.replies[0].Text, "valid item")
	})
}

func TestQuantityValidation(t *testing.T) {
	for _, bad := range []string{"0", "-3", "abc", "1.5", ""} {
		t.Run("rejects "+bad, func(t *testing.T) {
			sess := session.New(1, "u")
			sess.State = session.StateAwaitingQuantity
			sess.PendingProduct = "Soap"

			runStep(sess, bad)

			assert.Equal(t, session.StateAwaitingQuantity, sess.State, "state must not advance")
			assert.Empty(t, sess.Cart, "cart must not change")
			assert.Equal(t, "Soap", sess.PendingProduct)
		})
	}

	t.Run("accepts positive quantity", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingQuantity
		sess.PendingProduct = "Soap"

		out := runStep(sess, "2")

		assert.Equal(t, session.StateAwaitingAddMore, sess.State)
		assert.Empty(t, sess.PendingProduct, "pending selection cleared once quantified")
		require.Equal(t, []session.CartLine{{Product: "Soap", Quantity: 2}}, sess.Cart)
		assert.Contains(t, out.replies[0].Text, "Added 2 x Soap")
	})
}

func TestEmptyCartReviewShortCircuits(t *testing.T) {
	for _, entry := range []string{BtnViewCart, BtnCheckout} {
		t.Run(entry, func(t *testing.T) {
			sess := session.New(1, "u")
			sess.State = session.StateAwaitingAddMore

			out := runStep(sess, entry)

			assert.Equal(t, session.StateAwaitingAddMore, sess.State, "must route back instead of confirmation")
			assert.Contains(t, out.replies[0].Text, "cart is empty")
		})
	}
}

func TestCartReviewRendersTotals(t *testing.T) {
	sess := session.New(1, "u")
	sess.State = session.StateAwaitingAddMore
	sess.AddLine("Soap", 2)
	sess.AddLine("Tea", 1)

	out := runStep(sess, BtnCheckout)

	assert.Equal(t, session.StateAwaitingConfirm, sess.State)
	text := out.replies[0].Text
	assert.Contains(t, text, "Qty: 2 × ₹35 = ₹70")
	assert.Contains(t, text, "Qty: 1 × ₹107 = ₹107")
	assert.Contains(t, text, "TOTAL: ₹177")
}

func TestCartReviewSkipsStaleCatalogLines(t *testing.T) {
	sess := session.New(1, "u")
	sess.State = session.StateAwaitingAddMore
	sess.AddLine("Soap", 2)
	sess.AddLine("Discontinued Ghee", 5)

	out := runStep(sess, BtnViewCart)

	text := out.replies[0].Text
	assert.NotContains(t, text, "Discontinued Ghee")
	assert.Contains(t, text, "TOTAL: ₹70")
	assert.Equal(t, []string{"Discontinued Ghee"}, out.skippedProducts)
}

func TestConfirmTransitions(t *testing.T) {
	t.Run("confirm with items defers submission", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingConfirm
		sess.AddLine("Soap", 1)

		out := runStep(sess, BtnConfirm)

		assert.Equal(t, effectSubmitOrder, out.effect)
		assert.NotEmpty(t, sess.Cart, "transition leaves the cart for the engine to submit")
	})

	t.Run("confirm with empty cart routes to add-more", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingConfirm

		out := runStep(sess, BtnConfirm)

		assert.Equal(t, effectNone, out.effect)
		assert.Equal(t, session.StateAwaitingAddMore, sess.State)
	})

	t.Run("clear cart empties and routes to add-more", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingConfirm
		sess.AddLine("Soap", 1)

		out := runStep(sess, BtnClearCart)

		assert.Empty(t, sess.Cart)
		assert.Equal(t, session.StateAwaitingAddMore, sess.State)
		assert.Contains(t, out.replies[0].Text, "Cart cleared")
	})

	t.Run("add more returns to product selection keeping cart", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingConfirm
		sess.AddLine("Soap", 1)

		runStep(sess, BtnAddMore)

		assert.Equal(t, session.StateAwaitingProduct, sess.State)
		assert.Len(t, sess.Cart, 1)
	})

	t.Run("anything else re-renders the review", func(t *testing.T) {
		sess := session.New(1, "u")
		sess.State = session.StateAwaitingConfirm
		sess.AddLine("Soap", 1)

		out := runStep(sess, "hmm")

		assert.Equal(t, session.StateAwaitingConfirm, sess.State)
		assert.Contains(t, out.replies[0].Text, "YOUR CART")
	})
}

func TestIdleFAQAndFallback(t *testing.T) {
	sess := session.New(1, "u")

	out := runStep(sess, "What's your delivery time?")
	require.Len(t, out.replies, 1)
	assert.Contains(t, out.replies[0].Text, "3-5 business days")
	assert.Equal(t, session.StateIdle, sess.State)

	out = runStep(sess, "banana")
	assert.Contains(t, out.replies[0].Text, "I'm not sure about that")
	assert.Contains(t, out.replies[0].Text, "support@yourshop.com")
}

func TestPlaceOrderEntryGating(t *testing.T) {
	t.Run("known customer goes straight to products", func(t *testing.T) {
		sess := session.New(1, "meera")
		out := step(sess, testCatalog(), testFAQ(), "support@yourshop.com", stepInput{text: BtnPlaceOrder, knownCustomer: true})

		assert.Equal(t, session.StateAwaitingProduct, sess.State)
		require.Len(t, out.replies, 2)
		assert.Contains(t, out.replies[0].Text, "Welcome back")
	})

	t.Run("new customer starts intake", func(t *testing.T) {
		sess := session.New(1, "meera")
		out := step(sess, testCatalog(), testFAQ(), "support@yourshop.com", stepInput{text: BtnPlaceOrder, knownCustomer: false})

		assert.Equal(t, session.StateAwaitingName, sess.State)
		assert.Contains(t, out.replies[0].Text, "name")
	})
}

func TestProductKeyboardLayout(t *testing.T) {
	cat := catalog.New([]catalog.Entry{
		{Name: "A", UnitPrice: 1},
		{Name: "B", UnitPrice: 2},
		{Name: "C", UnitPrice: 3},
	})
	rows := productKeyboard(cat)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "B"}, rows[0])
	assert.Equal(t, []string{"C"}, rows[1])
	assert.Equal(t, []string{BtnViewCart, BtnBackToMenu}, rows[2])
}
