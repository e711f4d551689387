package warehouse

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RecipeItem names one component of an aggregate product at registration
// time, before catalog resolution.
type RecipeItem struct {
	ProductID string
	Quantity  int
}

// Warehouse is the orchestrator. It exclusively owns the product, partner
// and transaction catalogs and implements every allocation and accounting
// rule; all mutating operations enter through it. Product and partner keys
// compare case-insensitively.
type Warehouse struct {
	clock             *Clock
	nextTransactionID int
	availableBalance  decimal.Decimal
	products          map[string]Product
	partners          map[string]*Partner
	transactions      map[int]Transaction
}

// New creates an empty warehouse at day zero with a zero balance.
func New() *Warehouse {
	return &Warehouse{
		clock:            NewClock(),
		availableBalance: decimal.Zero,
		products:         make(map[string]Product),
		partners:         make(map[string]*Partner),
		transactions:     make(map[int]Transaction),
	}
}

func key(id string) string {
	return strings.ToLower(id)
}

// Date returns the current day.
func (w *Warehouse) Date() int {
	return w.clock.Days()
}

// AdvanceDate moves the clock forward and propagates the new date to every
// transaction in the ledger, so deadline-dependent state (overdue credit
// sales) can be re-evaluated. A non-positive offset changes nothing and
// fails with InvalidOffsetError.
func (w *Warehouse) AdvanceDate(offset int) error {
	if err := w.clock.Advance(offset); err != nil {
		return err
	}
	for _, t := range w.transactions {
		t.setCurrentDay(w.clock.Days())
	}
	return nil
}

// RegisterPartner adds a partner to the catalog and subscribes it to every
// existing product. Fails with DuplicatePartnerError if the identifier is
// taken.
func (w *Warehouse) RegisterPartner(id, name, address string) (*Partner, error) {
	if _, ok := w.partners[key(id)]; ok {
		return nil, &DuplicatePartnerError{ID: id}
	}
	partner := NewPartner(id, name, address)
	for _, product := range w.products {
		product.Subscribe(partner)
	}
	w.partners[key(id)] = partner
	return partner, nil
}

// RegisterSimpleProduct adds a simple product with no batches. Every current
// partner becomes a subscriber.
func (w *Warehouse) RegisterSimpleProduct(id string) *SimpleProduct {
	product := NewSimpleProduct(id)
	w.subscribeAllPartners(product)
	w.products[key(id)] = product
	return product
}

// RegisterAggregateProduct adds an aggregate product whose recipe references
// already-registered components. Fails with UnknownComponentError if any
// referenced product is absent; the markup alpha is stored unmodified.
func (w *Warehouse) RegisterAggregateProduct(id string, items []RecipeItem, alpha decimal.Decimal) (*AggregateProduct, error) {
	components := make([]Component, 0, len(items))
	for _, item := range items {
		component, ok := w.products[key(item.ProductID)]
		if !ok {
			return nil, &UnknownComponentError{ID: item.ProductID}
		}
		components = append(components, Component{product: component, quantity: item.Quantity})
	}
	product := NewAggregateProduct(id, NewRecipe(alpha, components))
	w.subscribeAllPartners(product)
	w.products[key(id)] = product
	return product, nil
}

func (w *Warehouse) subscribeAllPartners(product Product) {
	for _, id := range w.sortedPartnerKeys() {
		product.Subscribe(w.partners[id])
	}
}

// Product looks a product up by identifier.
func (w *Warehouse) Product(id string) (Product, error) {
	product, ok := w.products[key(id)]
	if !ok {
		return nil, &UnknownProductError{ID: id}
	}
	return product, nil
}

// Partner looks a partner up by identifier.
func (w *Warehouse) Partner(id string) (*Partner, error) {
	partner, ok := w.partners[key(id)]
	if !ok {
		return nil, &UnknownPartnerError{ID: id}
	}
	return partner, nil
}

// Transaction looks a transaction up by ledger id.
func (w *Warehouse) Transaction(id int) (Transaction, error) {
	t, ok := w.transactions[id]
	if !ok {
		return nil, &UnknownTransactionError{ID: id}
	}
	return t, nil
}

// ProductExists reports whether a product id is registered.
func (w *Warehouse) ProductExists(id string) bool {
	_, ok := w.products[key(id)]
	return ok
}

// PartnerExists reports whether a partner id is registered.
func (w *Warehouse) PartnerExists(id string) bool {
	_, ok := w.partners[key(id)]
	return ok
}

func (w *Warehouse) sortedProductKeys() []string {
	keys := make([]string, 0, len(w.products))
	for k := range w.products {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (w *Warehouse) sortedPartnerKeys() []string {
	keys := make([]string, 0, len(w.partners))
	for k := range w.partners {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Products returns the catalog ordered by identifier, case-insensitively.
func (w *Warehouse) Products() []Product {
	out := make([]Product, 0, len(w.products))
	for _, k := range w.sortedProductKeys() {
		out = append(out, w.products[k])
	}
	return out
}

// Partners returns the partner catalog ordered by identifier.
func (w *Warehouse) Partners() []*Partner {
	out := make([]*Partner, 0, len(w.partners))
	for _, k := range w.sortedPartnerKeys() {
		out = append(out, w.partners[k])
	}
	return out
}

// Transactions returns the ledger in id order.
func (w *Warehouse) Transactions() []Transaction {
	ids := make([]int, 0, len(w.transactions))
	for id := range w.transactions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Transaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.transactions[id])
	}
	return out
}

func sortBatches(batches []*Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if pa, pb := key(a.Product().ID()), key(b.Product().ID()); pa != pb {
			return pa < pb
		}
		if sa, sb := key(a.Supplier().ID()), key(b.Supplier().ID()); sa != sb {
			return sa < sb
		}
		if cmp := a.Price().Cmp(b.Price()); cmp != 0 {
			return cmp < 0
		}
		return a.Quantity() < b.Quantity()
	})
}

// AllBatchesSorted returns every batch in the warehouse, ordered by product
// id, supplier id, price, then quantity.
func (w *Warehouse) AllBatchesSorted() []*Batch {
	var batches []*Batch
	for _, product := range w.Products() {
		batches = append(batches, product.Batches()...)
	}
	sortBatches(batches)
	return batches
}

// BatchesByProduct returns a product's batches in creation order.
func (w *Warehouse) BatchesByProduct(id string) ([]*Batch, error) {
	product, err := w.Product(id)
	if err != nil {
		return nil, err
	}
	return product.Batches(), nil
}

// BatchesBySupplier returns every batch supplied by the given partner,
// ordered like AllBatchesSorted.
func (w *Warehouse) BatchesBySupplier(partnerID string) ([]*Batch, error) {
	partner, err := w.Partner(partnerID)
	if err != nil {
		return nil, err
	}
	var batches []*Batch
	for _, product := range w.Products() {
		for _, batch := range product.Batches() {
			if batch.Supplier().ObserverKey() == partner.ObserverKey() {
				batches = append(batches, batch)
			}
		}
	}
	sortBatches(batches)
	return batches, nil
}

// BatchesUnderPrice returns every batch priced strictly below the limit,
// ordered like AllBatchesSorted.
func (w *Warehouse) BatchesUnderPrice(limit decimal.Decimal) []*Batch {
	var batches []*Batch
	for _, product := range w.Products() {
		for _, batch := range product.Batches() {
			if batch.Price().LessThan(limit) {
				batches = append(batches, batch)
			}
		}
	}
	sortBatches(batches)
	return batches
}

// PaymentsByPartner returns every settled transaction of the partner in
// ledger order, acquisitions and breakdowns included.
func (w *Warehouse) PaymentsByPartner(partnerID string) ([]Transaction, error) {
	partner, err := w.Partner(partnerID)
	if err != nil {
		return nil, err
	}
	var out []Transaction
	for _, t := range w.Transactions() {
		if t.IsPaid() && t.Partner() == partner {
			out = append(out, t)
		}
	}
	return out, nil
}

// ToggleSubscription flips the observer's membership in the product's
// subscriber set. The toggle has no error path of its own.
func (w *Warehouse) ToggleSubscription(product Product, observer Observer) {
	if product.Subscribed(observer) {
		product.Unsubscribe(observer)
		return
	}
	product.Subscribe(observer)
}

// RegisterAcquisition buys quantity units at the given unit price from the
// partner: a new batch is created unconditionally, the ledger records an
// acquisition settled immediately, and the available balance drops by
// price*quantity.
func (w *Warehouse) RegisterAcquisition(partner *Partner, product Product, price decimal.Decimal, quantity int) *Acquisition {
	acquisition := newAcquisition(w.nextTransactionID, product, partner, price, quantity, w.clock.Days())
	w.transactions[acquisition.ID()] = acquisition
	w.nextTransactionID++

	partner.addAcquisition(acquisition)
	product.AddBatch(price, quantity, partner)

	w.availableBalance = w.availableBalance.Sub(acquisition.BaseValue())
	return acquisition
}

// RegisterCreditSale sells quantity units to the partner on credit, due
// deadline days after today. Stock is consumed by ascending batch price;
// the base value is the accumulated consumed value. The sale starts unpaid
// and leaves the available balance untouched until Pay. Requesting more
// than the product's total stock changes nothing and fails with
// UnavailableQuantityError.
func (w *Warehouse) RegisterCreditSale(partner *Partner, product Product, deadline, quantity int) (*CreditSale, error) {
	if available := product.TotalStock(); quantity > available {
		return nil, &UnavailableQuantityError{ProductID: product.ID(), Requested: quantity, Available: available}
	}

	plan := planAllocation(product, quantity)
	plan.apply(product)

	day := w.clock.Days()
	sale := newCreditSale(w.nextTransactionID, product, partner, quantity, plan.totalValue, day, day+deadline)
	w.transactions[sale.ID()] = sale
	w.nextTransactionID++
	partner.addSale(sale)
	return sale, nil
}

// RegisterBreakdown disassembles quantity units of an aggregate product back
// into its recipe components, selling the aggregate and re-acquiring the
// components in one transaction. The base value is the disassembly margin
// (sales minus acquisitions); the transaction settles immediately and moves
// the available balance by that margin. For a simple product the operation
// is a no-op beyond the stock checks and returns no transaction.
func (w *Warehouse) RegisterBreakdown(partner *Partner, product Product, quantity int) (*BreakdownSale, error) {
	recipe := product.Recipe()
	if recipe != nil {
		// Reference behavior: each component's own total stock is compared
		// against the requested aggregate quantity, not against the
		// quantity of that component actually required.
		for _, component := range recipe.Components() {
			if available := component.Product().TotalStock(); available < quantity {
				return nil, &UnavailableQuantityError{
					ProductID: component.Product().ID(),
					Requested: quantity,
					Available: available,
				}
			}
		}
	}
	if available := product.TotalStock(); quantity > available {
		return nil, &UnavailableQuantityError{ProductID: product.ID(), Requested: quantity, Available: available}
	}
	if recipe == nil {
		return nil, nil
	}

	plan := planAllocation(product, quantity)
	sales := decimal.Zero
	acquisitions := decimal.Zero
	var lines []BreakdownLine

	for _, draw := range plan.draws {
		for _, component := range recipe.Components() {
			comp := component.Product()
			price := comp.MinPrice()
			if comp.TotalStock() == 0 {
				price = comp.AllTimeHigh()
			}
			replenished := draw.quantity * component.Quantity()
			acquisitions = acquisitions.Add(price.Mul(decimal.NewFromInt(int64(replenished))))
			comp.AddBatch(price, replenished, partner)
			lines = append(lines, BreakdownLine{
				ComponentID: comp.ID(),
				Price:       price,
				Quantity:    replenished,
			})
		}
		sales = sales.Add(draw.value)
		applyDraw(product, draw)
	}

	breakdown := newBreakdownSale(w.nextTransactionID, product, partner, quantity, sales.Sub(acquisitions), lines, w.clock.Days())
	w.transactions[breakdown.ID()] = breakdown
	w.nextTransactionID++
	partner.addSale(breakdown)
	w.availableBalance = w.availableBalance.Add(breakdown.AmountPaid())
	return breakdown, nil
}

// Pay settles a transaction at the current day and credits its amount to the
// available balance. Paying an already-settled transaction changes nothing.
func (w *Warehouse) Pay(t Transaction) {
	if t.IsPaid() {
		return
	}
	t.pay(w.clock.Days())
	w.availableBalance = w.availableBalance.Add(t.AmountPaid())
}

// AvailableBalance returns the settled cash position.
func (w *Warehouse) AvailableBalance() decimal.Decimal {
	return w.availableBalance
}

// AccountingBalance returns the available balance plus the total value of
// every currently unpaid transaction. It is recomputed on demand, never
// stored.
func (w *Warehouse) AccountingBalance() decimal.Decimal {
	balance := w.availableBalance
	for _, t := range w.transactions {
		if !t.IsPaid() {
			balance = balance.Add(t.TotalValue())
		}
	}
	return balance
}
