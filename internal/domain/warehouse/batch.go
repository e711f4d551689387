package warehouse

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch is a priced lot of stock for one product, supplied by one partner.
// Its identity and price are fixed at creation; only the quantity changes as
// stock is consumed.
type Batch struct {
	id       uuid.UUID
	price    decimal.Decimal
	quantity int
	seq      int64
	product  Product
	supplier *Partner
}

func newBatch(price decimal.Decimal, quantity int, product Product, supplier *Partner, seq int64) *Batch {
	return &Batch{
		id:       uuid.New(),
		price:    price,
		quantity: quantity,
		seq:      seq,
		product:  product,
		supplier: supplier,
	}
}

// ID returns the batch identity.
func (b *Batch) ID() uuid.UUID {
	return b.id
}

// Price returns the unit price the batch was registered at.
func (b *Batch) Price() decimal.Decimal {
	return b.price
}

// Quantity returns the remaining stock in the batch.
func (b *Batch) Quantity() int {
	return b.quantity
}

// Seq returns the creation sequence of the batch within its product. It is
// the tie-breaker for equal-price allocation ordering.
func (b *Batch) Seq() int64 {
	return b.seq
}

// Product returns the product the batch belongs to.
func (b *Batch) Product() Product {
	return b.product
}

// Supplier returns the partner that supplied the batch.
func (b *Batch) Supplier() *Partner {
	return b.supplier
}

// reduce draws quantity units out of the batch. Callers guarantee
// quantity <= b.quantity; a batch drawn down to zero is removed from its
// product by the caller.
func (b *Batch) reduce(quantity int) {
	b.quantity -= quantity
}
