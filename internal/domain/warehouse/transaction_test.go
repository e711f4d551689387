package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquisitionTransaction(t *testing.T) {
	partner := NewPartner("P1", "One", "Addr")
	product := NewSimpleProduct("G1")
	acquisition := newAcquisition(0, product, partner, dec("5.50"), 4, 2)

	assert.Equal(t, KindAcquisition, acquisition.Kind())
	assert.True(t, acquisition.BaseValue().Equal(dec("22")))
	assert.True(t, acquisition.UnitPrice().Equal(dec("5.50")))
	assert.Equal(t, 2, acquisition.CreatedOn())
	assert.True(t, acquisition.IsPaid(), "acquisitions settle instantly")

	day, ok := acquisition.PaymentDay()
	require.True(t, ok)
	assert.Equal(t, 2, day)
}

func TestCreditSaleTransaction(t *testing.T) {
	partner := NewPartner("P1", "One", "Addr")
	product := NewSimpleProduct("G1")

	t.Run("starts unpaid with no payment day", func(t *testing.T) {
		sale := newCreditSale(0, product, partner, 4, dec("20"), 0, 30)
		assert.Equal(t, KindCreditSale, sale.Kind())
		assert.False(t, sale.IsPaid())
		_, ok := sale.PaymentDay()
		assert.False(t, ok)
		assert.Equal(t, 30, sale.DeadlineDay())
	})

	t.Run("becomes overdue only past the deadline", func(t *testing.T) {
		sale := newCreditSale(0, product, partner, 4, dec("20"), 0, 30)
		assert.False(t, sale.IsOverdue())

		sale.setCurrentDay(30)
		assert.False(t, sale.IsOverdue(), "deadline day itself is not overdue")

		sale.setCurrentDay(31)
		assert.True(t, sale.IsOverdue())
	})

	t.Run("paying clears overdue and records the day", func(t *testing.T) {
		sale := newCreditSale(0, product, partner, 4, dec("20"), 0, 30)
		sale.setCurrentDay(40)
		require.True(t, sale.IsOverdue())

		sale.pay(40)
		assert.False(t, sale.IsOverdue())
		day, ok := sale.PaymentDay()
		require.True(t, ok)
		assert.Equal(t, 40, day)
	})

	t.Run("pay is idempotent", func(t *testing.T) {
		sale := newCreditSale(0, product, partner, 4, dec("20"), 0, 30)
		sale.pay(10)
		sale.pay(25)
		day, _ := sale.PaymentDay()
		assert.Equal(t, 10, day, "second pay must not move the payment day")
	})
}

func TestBreakdownSaleTransaction(t *testing.T) {
	partner := NewPartner("P1", "One", "Addr")
	product := NewAggregateProduct("A1", NewRecipe(dec("0.1"), nil))
	lines := []BreakdownLine{{ComponentID: "G1", Price: dec("5"), Quantity: 2}}
	breakdown := newBreakdownSale(0, product, partner, 1, dec("3"), lines, 4)

	assert.Equal(t, KindBreakdownSale, breakdown.Kind())
	assert.True(t, breakdown.IsPaid(), "breakdowns settle instantly")
	require.Len(t, breakdown.Lines(), 1)
	assert.Equal(t, "G1", breakdown.Lines()[0].ComponentID)

	// Lines returns a copy.
	breakdown.Lines()[0].Quantity = 99
	assert.Equal(t, 2, breakdown.Lines()[0].Quantity)
}
