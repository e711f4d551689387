package warehouse

import (
	"github.com/shopspring/decimal"
)

// ProductKind discriminates the two product variants.
type ProductKind string

const (
	ProductSimple    ProductKind = "SIMPLE"
	ProductAggregate ProductKind = "AGGREGATE"
)

// Product is the closed interface over the two catalog variants. Both are
// implemented in this package; shared batch bookkeeping lives in baseProduct.
type Product interface {
	// ID returns the catalog identifier (case preserved as registered).
	ID() string
	// Kind returns the product variant.
	Kind() ProductKind
	// Recipe returns the disassembly recipe, nil for simple products.
	Recipe() *Recipe
	// TotalStock returns the sum of all batch quantities.
	TotalStock() int
	// Batches returns the current batches in creation order.
	Batches() []*Batch
	// MinPrice returns the minimum price among current batches. It is only
	// meaningful while TotalStock() > 0; callers fall back to AllTimeHigh
	// when the product is empty.
	MinPrice() decimal.Decimal
	// AllTimeHigh returns the highest price ever recorded for a batch of
	// this product. It never decreases and survives batch removal.
	AllTimeHigh() decimal.Decimal
	// AddBatch appends a new stock lot and notifies every subscriber.
	AddBatch(price decimal.Decimal, quantity int, supplier *Partner) *Batch
	// Subscribe adds an observer; adding an existing observer is a no-op.
	Subscribe(o Observer)
	// Unsubscribe removes an observer if present.
	Unsubscribe(o Observer)
	// Subscribed reports whether the observer is in the subscriber set.
	Subscribed(o Observer) bool

	removeBatch(b *Batch)
	base() *baseProduct
}

// Component is one entry of a recipe: a component product and the quantity
// of it needed per unit of the aggregate.
type Component struct {
	product  Product
	quantity int
}

// Product returns the component product.
func (c Component) Product() Product {
	return c.product
}

// Quantity returns the per-unit quantity of the component.
func (c Component) Quantity() int {
	return c.quantity
}

// Recipe defines how an aggregate product is assembled from, and broken back
// into, its component products.
type Recipe struct {
	alpha      decimal.Decimal
	components []Component
}

// NewRecipe creates a recipe with the given markup and components.
func NewRecipe(alpha decimal.Decimal, components []Component) *Recipe {
	return &Recipe{alpha: alpha, components: components}
}

// Alpha returns the markup factor, stored as given.
func (r *Recipe) Alpha() decimal.Decimal {
	return r.alpha
}

// Components returns the recipe entries in registration order.
func (r *Recipe) Components() []Component {
	out := make([]Component, len(r.components))
	copy(out, r.components)
	return out
}

// baseProduct carries the batch bookkeeping shared by both variants.
type baseProduct struct {
	id          string
	self        Product
	batches     []*Batch
	allTimeHigh decimal.Decimal
	nextSeq     int64
	subscribers []Observer
}

func (p *baseProduct) ID() string {
	return p.id
}

func (p *baseProduct) TotalStock() int {
	total := 0
	for _, b := range p.batches {
		total += b.quantity
	}
	return total
}

func (p *baseProduct) Batches() []*Batch {
	out := make([]*Batch, len(p.batches))
	copy(out, p.batches)
	return out
}

func (p *baseProduct) MinPrice() decimal.Decimal {
	if len(p.batches) == 0 {
		return decimal.Zero
	}
	min := p.batches[0].price
	for _, b := range p.batches[1:] {
		if b.price.LessThan(min) {
			min = b.price
		}
	}
	return min
}

func (p *baseProduct) AllTimeHigh() decimal.Decimal {
	return p.allTimeHigh
}

func (p *baseProduct) AddBatch(price decimal.Decimal, quantity int, supplier *Partner) *Batch {
	kind := NotificationRestock
	switch {
	case len(p.batches) == 0:
		kind = NotificationNew
	case price.LessThan(p.MinPrice()):
		kind = NotificationBargain
	}

	batch := newBatch(price, quantity, p.self, supplier, p.nextSeq)
	p.nextSeq++
	p.batches = append(p.batches, batch)

	if price.GreaterThan(p.allTimeHigh) {
		p.allTimeHigh = price
	}

	notification := newNotification(kind, p.id, price)
	for _, o := range p.subscribers {
		o.Notify(notification)
	}
	return batch
}

func (p *baseProduct) Subscribe(o Observer) {
	if p.Subscribed(o) {
		return
	}
	p.subscribers = append(p.subscribers, o)
}

func (p *baseProduct) Unsubscribe(o Observer) {
	for i, s := range p.subscribers {
		if s.ObserverKey() == o.ObserverKey() {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			return
		}
	}
}

func (p *baseProduct) Subscribed(o Observer) bool {
	for _, s := range p.subscribers {
		if s.ObserverKey() == o.ObserverKey() {
			return true
		}
	}
	return false
}

func (p *baseProduct) removeBatch(b *Batch) {
	for i, cur := range p.batches {
		if cur.id == b.id {
			p.batches = append(p.batches[:i], p.batches[i+1:]...)
			return
		}
	}
}

func (p *baseProduct) base() *baseProduct {
	return p
}

// SimpleProduct is a raw catalog product with no recipe.
type SimpleProduct struct {
	baseProduct
}

// NewSimpleProduct creates a simple product with no batches.
func NewSimpleProduct(id string) *SimpleProduct {
	p := &SimpleProduct{baseProduct: baseProduct{id: id}}
	p.self = p
	return p
}

// Kind returns ProductSimple.
func (p *SimpleProduct) Kind() ProductKind {
	return ProductSimple
}

// Recipe returns nil: simple products have no recipe.
func (p *SimpleProduct) Recipe() *Recipe {
	return nil
}

// AggregateProduct is a product assembled from a recipe of other products.
type AggregateProduct struct {
	baseProduct
	recipe *Recipe
}

// NewAggregateProduct creates an aggregate product with the given recipe.
func NewAggregateProduct(id string, recipe *Recipe) *AggregateProduct {
	p := &AggregateProduct{
		baseProduct: baseProduct{id: id},
		recipe:      recipe,
	}
	p.self = p
	return p
}

// Kind returns ProductAggregate.
func (p *AggregateProduct) Kind() ProductKind {
	return ProductAggregate
}

// Recipe returns the disassembly recipe.
func (p *AggregateProduct) Recipe() *Recipe {
	return p.recipe
}
