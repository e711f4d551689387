package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPartner(t *testing.T) {
	t.Run("registers and subscribes to existing products", func(t *testing.T) {
		w := New()
		w.RegisterSimpleProduct("G1")
		partner, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)

		product, err := w.Product("G1")
		require.NoError(t, err)
		assert.True(t, product.Subscribed(partner))
	})

	t.Run("duplicate id fails case-insensitively", func(t *testing.T) {
		w := New()
		_, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)

		_, err = w.RegisterPartner("p1", "Other", "Addr")
		var duplicate *DuplicatePartnerError
		require.ErrorAs(t, err, &duplicate)
		assert.Equal(t, "p1", duplicate.ID)
	})

	t.Run("lookup is case-insensitive, case preserved", func(t *testing.T) {
		w := New()
		_, err := w.RegisterPartner("Px", "One", "Addr")
		require.NoError(t, err)

		partner, err := w.Partner("PX")
		require.NoError(t, err)
		assert.Equal(t, "Px", partner.ID())
	})

	t.Run("unknown partner", func(t *testing.T) {
		w := New()
		_, err := w.Partner("nobody")
		var unknown *UnknownPartnerError
		require.ErrorAs(t, err, &unknown)
	})
}

func TestRegisterProducts(t *testing.T) {
	t.Run("new product subscribes every current partner", func(t *testing.T) {
		w := New()
		one, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)
		two, err := w.RegisterPartner("P2", "Two", "Addr")
		require.NoError(t, err)

		product := w.RegisterSimpleProduct("G1")
		assert.True(t, product.Subscribed(one))
		assert.True(t, product.Subscribed(two))
	})

	t.Run("aggregate resolves its components", func(t *testing.T) {
		w := New()
		w.RegisterSimpleProduct("G1")
		w.RegisterSimpleProduct("G2")

		product, err := w.RegisterAggregateProduct("A1", []RecipeItem{
			{ProductID: "g1", Quantity: 2},
			{ProductID: "G2", Quantity: 1},
		}, dec("0.25"))
		require.NoError(t, err)

		components := product.Recipe().Components()
		require.Len(t, components, 2)
		assert.Equal(t, "G1", components[0].Product().ID())
		assert.Equal(t, 2, components[0].Quantity())
		assert.True(t, product.Recipe().Alpha().Equal(dec("0.25")))
	})

	t.Run("aggregate with unknown component fails", func(t *testing.T) {
		w := New()
		_, err := w.RegisterAggregateProduct("A1", []RecipeItem{{ProductID: "G9", Quantity: 1}}, dec("0.1"))
		var unknown *UnknownComponentError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "G9", unknown.ID)
		assert.False(t, w.ProductExists("A1"))
	})

	t.Run("catalog views are sorted case-insensitively", func(t *testing.T) {
		w := New()
		w.RegisterSimpleProduct("b2")
		w.RegisterSimpleProduct("A10")
		w.RegisterSimpleProduct("a1")

		products := w.Products()
		require.Len(t, products, 3)
		assert.Equal(t, "a1", products[0].ID())
		assert.Equal(t, "A10", products[1].ID())
		assert.Equal(t, "b2", products[2].ID())
	})
}

func TestAdvanceDate(t *testing.T) {
	w := New()
	require.NoError(t, w.AdvanceDate(5))
	assert.Equal(t, 5, w.Date())

	t.Run("invalid offsets leave the date unchanged", func(t *testing.T) {
		var invalidOffset *InvalidOffsetError
		require.ErrorAs(t, w.AdvanceDate(0), &invalidOffset)
		require.ErrorAs(t, w.AdvanceDate(-3), &invalidOffset)
		assert.Equal(t, 5, w.Date())
	})

	t.Run("propagates the date to the ledger", func(t *testing.T) {
		partner, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)
		product := w.RegisterSimpleProduct("G1")
		w.RegisterAcquisition(partner, product, dec("5"), 10)

		sale, err := w.RegisterCreditSale(partner, product, 3, 2)
		require.NoError(t, err)
		assert.False(t, sale.IsOverdue())

		require.NoError(t, w.AdvanceDate(4))
		assert.True(t, sale.IsOverdue())
	})
}

func TestRegisterAcquisition(t *testing.T) {
	w := New()
	partner, err := w.RegisterPartner("P1", "One", "Addr")
	require.NoError(t, err)
	product := w.RegisterSimpleProduct("G1")

	acquisition := w.RegisterAcquisition(partner, product, dec("5"), 10)

	assert.Equal(t, 0, acquisition.ID())
	assert.True(t, acquisition.IsPaid())
	assert.Equal(t, 10, product.TotalStock())
	assert.True(t, w.AvailableBalance().Equal(dec("-50")))
	assert.True(t, w.AccountingBalance().Equal(dec("-50")), "no unpaid transactions, balances coincide")
	assert.Len(t, partner.Acquisitions(), 1)
	assert.True(t, partner.AcquisitionsValue().Equal(dec("50")))

	t.Run("ledger ids are sequential", func(t *testing.T) {
		next := w.RegisterAcquisition(partner, product, dec("6"), 1)
		assert.Equal(t, 1, next.ID())
	})
}

func TestRegisterCreditSale(t *testing.T) {
	t.Run("consumes stock and stays unpaid until Pay", func(t *testing.T) {
		w := New()
		partner, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)
		product := w.RegisterSimpleProduct("G1")
		w.RegisterAcquisition(partner, product, dec("5"), 10)
		balanceAfterBuy := w.AvailableBalance()

		sale, err := w.RegisterCreditSale(partner, product, 30, 4)
		require.NoError(t, err)

		assert.Equal(t, 6, product.TotalStock())
		assert.True(t, sale.BaseValue().Equal(dec("20")))
		assert.Equal(t, 30, sale.DeadlineDay())
		assert.False(t, sale.IsPaid())
		assert.True(t, w.AvailableBalance().Equal(balanceAfterBuy), "credit sale leaves cash untouched")
		assert.True(t, w.AccountingBalance().Equal(balanceAfterBuy.Add(dec("20"))))

		w.Pay(sale)
		assert.True(t, sale.IsPaid())
		assert.True(t, w.AvailableBalance().Equal(balanceAfterBuy.Add(dec("20"))))
		assert.True(t, w.AccountingBalance().Equal(w.AvailableBalance()))

		// Paying again must not credit twice.
		w.Pay(sale)
		assert.True(t, w.AvailableBalance().Equal(balanceAfterBuy.Add(dec("20"))))
	})

	t.Run("deadline is relative to the current day", func(t *testing.T) {
		w := New()
		partner, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)
		product := w.RegisterSimpleProduct("G1")
		w.RegisterAcquisition(partner, product, dec("5"), 10)
		require.NoError(t, w.AdvanceDate(7))

		sale, err := w.RegisterCreditSale(partner, product, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, 7, sale.CreatedOn())
		assert.Equal(t, 10, sale.DeadlineDay())
	})

	t.Run("draws span batches by ascending price", func(t *testing.T) {
		w := New()
		partner, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)
		product := w.RegisterSimpleProduct("G1")
		w.RegisterAcquisition(partner, product, dec("10"), 5)
		w.RegisterAcquisition(partner, product, dec("5"), 5)

		sale, err := w.RegisterCreditSale(partner, product, 30, 7)
		require.NoError(t, err)
		assert.True(t, sale.BaseValue().Equal(dec("45")), "5 units at 5 plus 2 units at 10")
		assert.Equal(t, 3, product.TotalStock())
	})

	t.Run("insufficient stock changes nothing", func(t *testing.T) {
		w := New()
		partner, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)
		product := w.RegisterSimpleProduct("G1")
		w.RegisterAcquisition(partner, product, dec("5"), 3)
		before := w.AvailableBalance()

		_, err = w.RegisterCreditSale(partner, product, 30, 4)
		var unavailable *UnavailableQuantityError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "G1", unavailable.ProductID)
		assert.Equal(t, 4, unavailable.Requested)
		assert.Equal(t, 3, unavailable.Available)

		assert.Equal(t, 3, product.TotalStock())
		assert.True(t, w.AvailableBalance().Equal(before))
		assert.Len(t, w.Transactions(), 1, "only the acquisition is in the ledger")
	})
}

func TestRegisterBreakdown(t *testing.T) {
	setup := func(t *testing.T) (*Warehouse, *Partner, Product, Product, Product) {
		t.Helper()
		w := New()
		partner, err := w.RegisterPartner("P1", "One", "Addr")
		require.NoError(t, err)
		g1 := w.RegisterSimpleProduct("G1")
		g2 := w.RegisterSimpleProduct("G2")
		a1, err := w.RegisterAggregateProduct("A1", []RecipeItem{
			{ProductID: "G1", Quantity: 2},
			{ProductID: "G2", Quantity: 1},
		}, dec("0.1"))
		require.NoError(t, err)
		return w, partner, g1, g2, a1
	}

	t.Run("sells the aggregate and replenishes components", func(t *testing.T) {
		w, partner, g1, g2, a1 := setup(t)
		w.RegisterAcquisition(partner, a1, dec("10"), 3)
		w.RegisterAcquisition(partner, g1, dec("5"), 4)
		w.RegisterAcquisition(partner, g2, dec("7"), 4)
		require.True(t, w.AvailableBalance().Equal(dec("-78")))

		breakdown, err := w.RegisterBreakdown(partner, a1, 2)
		require.NoError(t, err)
		require.NotNil(t, breakdown)

		// Sales: 2 units of A1 at 10 = 20. Acquisitions: 4 G1 at 5 = 20
		// plus 2 G2 at 7 = 14. Margin 20 - 34 = -14.
		assert.True(t, breakdown.BaseValue().Equal(dec("-14")))
		assert.True(t, breakdown.IsPaid())
		assert.Equal(t, 2, breakdown.Quantity())
		assert.True(t, w.AvailableBalance().Equal(dec("-92")))

		assert.Equal(t, 1, a1.TotalStock())
		assert.Equal(t, 8, g1.TotalStock())
		assert.Equal(t, 6, g2.TotalStock())

		lines := breakdown.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "G1", lines[0].ComponentID)
		assert.True(t, lines[0].Price.Equal(dec("5")))
		assert.Equal(t, 4, lines[0].Quantity)
		assert.Equal(t, "G2", lines[1].ComponentID)
		assert.True(t, lines[1].Price.Equal(dec("7")))
		assert.Equal(t, 2, lines[1].Quantity)
	})

	t.Run("component stock is checked against the aggregate quantity", func(t *testing.T) {
		w, partner, g1, _, a1 := setup(t)
		w.RegisterAcquisition(partner, a1, dec("10"), 5)
		w.RegisterAcquisition(partner, g1, dec("5"), 1)
		ledgerBefore := len(w.Transactions())
		balanceBefore := w.AvailableBalance()

		_, err := w.RegisterBreakdown(partner, a1, 3)
		var unavailable *UnavailableQuantityError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "G1", unavailable.ProductID)
		assert.Equal(t, 3, unavailable.Requested)
		assert.Equal(t, 1, unavailable.Available)

		assert.Equal(t, 5, a1.TotalStock())
		assert.Equal(t, 1, g1.TotalStock())
		assert.Len(t, w.Transactions(), ledgerBefore)
		assert.True(t, w.AvailableBalance().Equal(balanceBefore))
	})

	t.Run("aggregate without stock fails", func(t *testing.T) {
		w, partner, g1, g2, a1 := setup(t)
		w.RegisterAcquisition(partner, g1, dec("5"), 5)
		w.RegisterAcquisition(partner, g2, dec("7"), 5)

		_, err := w.RegisterBreakdown(partner, a1, 1)
		var unavailable *UnavailableQuantityError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "A1", unavailable.ProductID)
		assert.Equal(t, 0, unavailable.Available)
	})

	t.Run("simple product is a checked no-op", func(t *testing.T) {
		w, partner, g1, _, _ := setup(t)
		w.RegisterAcquisition(partner, g1, dec("5"), 5)
		ledgerBefore := len(w.Transactions())

		breakdown, err := w.RegisterBreakdown(partner, g1, 3)
		require.NoError(t, err)
		assert.Nil(t, breakdown)
		assert.Equal(t, 5, g1.TotalStock())
		assert.Len(t, w.Transactions(), ledgerBefore)

		_, err = w.RegisterBreakdown(partner, g1, 9)
		var unavailable *UnavailableQuantityError
		require.ErrorAs(t, err, &unavailable)
	})
}

func TestBatchViews(t *testing.T) {
	w := New()
	alice, err := w.RegisterPartner("Alice", "Alice", "Addr")
	require.NoError(t, err)
	bob, err := w.RegisterPartner("Bob", "Bob", "Addr")
	require.NoError(t, err)
	g1 := w.RegisterSimpleProduct("G1")
	g2 := w.RegisterSimpleProduct("G2")

	w.RegisterAcquisition(bob, g2, dec("3"), 1)
	w.RegisterAcquisition(alice, g1, dec("7"), 2)
	w.RegisterAcquisition(alice, g1, dec("4"), 2)

	t.Run("all batches ordered by product, supplier, price", func(t *testing.T) {
		batches := w.AllBatchesSorted()
		require.Len(t, batches, 3)
		assert.Equal(t, "G1", batches[0].Product().ID())
		assert.True(t, batches[0].Price().Equal(dec("4")))
		assert.True(t, batches[1].Price().Equal(dec("7")))
		assert.Equal(t, "G2", batches[2].Product().ID())
	})

	t.Run("by supplier", func(t *testing.T) {
		batches, err := w.BatchesBySupplier("alice")
		require.NoError(t, err)
		require.Len(t, batches, 2)
		for _, b := range batches {
			assert.Equal(t, "Alice", b.Supplier().ID())
		}
	})

	t.Run("under price is strict", func(t *testing.T) {
		batches := w.BatchesUnderPrice(dec("4"))
		require.Len(t, batches, 1)
		assert.True(t, batches[0].Price().Equal(dec("3")))
	})

	t.Run("by product keeps creation order", func(t *testing.T) {
		batches, err := w.BatchesByProduct("g1")
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.True(t, batches[0].Price().Equal(dec("7")))
		assert.True(t, batches[1].Price().Equal(dec("4")))
	})
}

func TestPaymentsByPartner(t *testing.T) {
	w := New()
	partner, err := w.RegisterPartner("P1", "One", "Addr")
	require.NoError(t, err)
	other, err := w.RegisterPartner("P2", "Two", "Addr")
	require.NoError(t, err)
	product := w.RegisterSimpleProduct("G1")

	acquisition := w.RegisterAcquisition(partner, product, dec("5"), 10)
	w.RegisterAcquisition(other, product, dec("5"), 10)
	unpaid, err := w.RegisterCreditSale(partner, product, 30, 1)
	require.NoError(t, err)
	paid, err := w.RegisterCreditSale(partner, product, 30, 1)
	require.NoError(t, err)
	w.Pay(paid)

	payments, err := w.PaymentsByPartner("p1")
	require.NoError(t, err)
	require.Len(t, payments, 2, "settled acquisitions count as payments")
	assert.Equal(t, acquisition.ID(), payments[0].ID())
	assert.Equal(t, paid.ID(), payments[1].ID())
	assert.NotContains(t, payments, Transaction(unpaid))
}

func TestToggleSubscription(t *testing.T) {
	w := New()
	partner, err := w.RegisterPartner("P1", "One", "Addr")
	require.NoError(t, err)
	product := w.RegisterSimpleProduct("G1")
	require.True(t, product.Subscribed(partner))

	w.ToggleSubscription(product, partner)
	assert.False(t, product.Subscribed(partner))

	w.ToggleSubscription(product, partner)
	assert.True(t, product.Subscribed(partner))
}

func TestAccountingBalance(t *testing.T) {
	w := New()
	partner, err := w.RegisterPartner("P1", "One", "Addr")
	require.NoError(t, err)
	product := w.RegisterSimpleProduct("G1")
	w.RegisterAcquisition(partner, product, dec("5"), 10)

	first, err := w.RegisterCreditSale(partner, product, 30, 2)
	require.NoError(t, err)
	second, err := w.RegisterCreditSale(partner, product, 30, 3)
	require.NoError(t, err)

	assert.True(t, w.AvailableBalance().Equal(dec("-50")))
	assert.True(t, w.AccountingBalance().Equal(dec("-25")), "-50 plus unpaid 10 and 15")

	w.Pay(first)
	assert.True(t, w.AvailableBalance().Equal(dec("-40")))
	assert.True(t, w.AccountingBalance().Equal(dec("-25")))

	w.Pay(second)
	assert.True(t, w.AvailableBalance().Equal(dec("-25")))
	assert.True(t, w.AccountingBalance().Equal(w.AvailableBalance()))
}

func TestTransactionLookup(t *testing.T) {
	w := New()
	partner, err := w.RegisterPartner("P1", "One", "Addr")
	require.NoError(t, err)
	product := w.RegisterSimpleProduct("G1")
	acquisition := w.RegisterAcquisition(partner, product, dec("5"), 1)

	found, err := w.Transaction(acquisition.ID())
	require.NoError(t, err)
	assert.Equal(t, acquisition.ID(), found.ID())

	_, err = w.Transaction(99)
	var unknown *UnknownTransactionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 99, unknown.ID)
}
