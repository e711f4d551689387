package warehouse

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a plain-data export of the complete warehouse state, used by
// the persistence collaborator. Taking or restoring a snapshot is an atomic
// whole-state operation; nothing else mutates the warehouse meanwhile.
type Snapshot struct {
	Day               int
	NextTransactionID int
	AvailableBalance  decimal.Decimal
	Partners          []PartnerSnapshot
	Products          []ProductSnapshot
	Batches           []BatchSnapshot
	Subscriptions     []SubscriptionSnapshot
	Transactions      []TransactionSnapshot
	Notifications     []NotificationSnapshot
}

// PartnerSnapshot is the exported state of one partner account.
type PartnerSnapshot struct {
	ID      string
	Name    string
	Address string
	Status  PartnerStatus
	Points  decimal.Decimal
}

// ProductSnapshot is the exported state of one catalog product.
type ProductSnapshot struct {
	ID          string
	Kind        ProductKind
	Alpha       decimal.Decimal
	AllTimeHigh decimal.Decimal
	Components  []RecipeItem
}

// BatchSnapshot is the exported state of one stock lot.
type BatchSnapshot struct {
	ID         uuid.UUID
	ProductID  string
	SupplierID string
	Price      decimal.Decimal
	Quantity   int
	Seq        int64
}

// SubscriptionSnapshot records one product-observer edge.
type SubscriptionSnapshot struct {
	ProductID string
	PartnerID string
}

// TransactionSnapshot is the exported state of one ledger entry.
type TransactionSnapshot struct {
	ID          int
	Kind        TransactionKind
	ProductID   string
	PartnerID   string
	Quantity    int
	BaseValue   decimal.Decimal
	UnitPrice   decimal.Decimal
	CreatedOn   int
	Paid        bool
	PaymentDay  int
	DeadlineDay int
	Lines       []BreakdownLine
}

// NotificationSnapshot is one pending inbox entry of one partner.
type NotificationSnapshot struct {
	PartnerID      string
	NotificationID uuid.UUID
	Kind           NotificationKind
	ProductID      string
	Price          decimal.Decimal
}

// Snapshot exports the complete warehouse state.
func (w *Warehouse) Snapshot() *Snapshot {
	snap := &Snapshot{
		Day:               w.clock.Days(),
		NextTransactionID: w.nextTransactionID,
		AvailableBalance:  w.availableBalance,
	}

	for _, partner := range w.Partners() {
		snap.Partners = append(snap.Partners, PartnerSnapshot{
			ID:      partner.id,
			Name:    partner.name,
			Address: partner.address,
			Status:  partner.status,
			Points:  partner.points,
		})
		for _, n := range partner.notifications {
			snap.Notifications = append(snap.Notifications, NotificationSnapshot{
				PartnerID:      partner.id,
				NotificationID: n.ID,
				Kind:           n.Kind,
				ProductID:      n.ProductID,
				Price:          n.Price,
			})
		}
	}

	for _, product := range w.Products() {
		ps := ProductSnapshot{
			ID:          product.ID(),
			Kind:        product.Kind(),
			AllTimeHigh: product.AllTimeHigh(),
			Alpha:       decimal.Zero,
		}
		if recipe := product.Recipe(); recipe != nil {
			ps.Alpha = recipe.Alpha()
			for _, component := range recipe.Components() {
				ps.Components = append(ps.Components, RecipeItem{
					ProductID: component.Product().ID(),
					Quantity:  component.Quantity(),
				})
			}
		}
		snap.Products = append(snap.Products, ps)

		for _, batch := range product.base().batches {
			snap.Batches = append(snap.Batches, BatchSnapshot{
				ID:         batch.id,
				ProductID:  product.ID(),
				SupplierID: batch.supplier.id,
				Price:      batch.price,
				Quantity:   batch.quantity,
				Seq:        batch.seq,
			})
		}
		for _, observer := range product.base().subscribers {
			snap.Subscriptions = append(snap.Subscriptions, SubscriptionSnapshot{
				ProductID: product.ID(),
				PartnerID: observer.ObserverKey(),
			})
		}
	}

	for _, t := range w.Transactions() {
		ts := TransactionSnapshot{
			ID:        t.ID(),
			Kind:      t.Kind(),
			ProductID: t.Product().ID(),
			PartnerID: t.Partner().id,
			Quantity:  t.Quantity(),
			BaseValue: t.BaseValue(),
			CreatedOn: t.CreatedOn(),
			Paid:      t.IsPaid(),
			UnitPrice: decimal.Zero,
		}
		if day, ok := t.PaymentDay(); ok {
			ts.PaymentDay = day
		}
		switch tx := t.(type) {
		case *Acquisition:
			ts.UnitPrice = tx.unitPrice
		case *CreditSale:
			ts.DeadlineDay = tx.deadlineDay
		case *BreakdownSale:
			ts.Lines = tx.Lines()
		}
		snap.Transactions = append(snap.Transactions, ts)
	}

	return snap
}

// Restore rebuilds a warehouse from a snapshot. A snapshot referencing
// unknown products or partners is rejected as corrupt.
func Restore(snap *Snapshot) (*Warehouse, error) {
	w := New()
	w.clock = &Clock{days: snap.Day}
	w.nextTransactionID = snap.NextTransactionID
	w.availableBalance = snap.AvailableBalance

	for _, ps := range snap.Partners {
		partner := NewPartner(ps.ID, ps.Name, ps.Address)
		partner.status = ps.Status
		partner.points = ps.Points
		w.partners[key(ps.ID)] = partner
	}

	// Products are created first, recipes filled in afterwards, so recipe
	// components can reference any product regardless of snapshot order.
	aggregates := make(map[string]*AggregateProduct)
	for _, ps := range snap.Products {
		switch ps.Kind {
		case ProductSimple:
			product := NewSimpleProduct(ps.ID)
			product.allTimeHigh = ps.AllTimeHigh
			w.products[key(ps.ID)] = product
		case ProductAggregate:
			product := NewAggregateProduct(ps.ID, nil)
			product.allTimeHigh = ps.AllTimeHigh
			w.products[key(ps.ID)] = product
			aggregates[key(ps.ID)] = product
		default:
			return nil, fmt.Errorf("snapshot: unknown product kind %q", ps.Kind)
		}
	}
	for _, ps := range snap.Products {
		if ps.Kind != ProductAggregate {
			continue
		}
		components := make([]Component, 0, len(ps.Components))
		for _, item := range ps.Components {
			component, ok := w.products[key(item.ProductID)]
			if !ok {
				return nil, fmt.Errorf("snapshot: recipe of %q references unknown product %q", ps.ID, item.ProductID)
			}
			components = append(components, Component{product: component, quantity: item.Quantity})
		}
		aggregates[key(ps.ID)].recipe = NewRecipe(ps.Alpha, components)
	}

	for _, ss := range snap.Subscriptions {
		product, ok := w.products[key(ss.ProductID)]
		if !ok {
			return nil, fmt.Errorf("snapshot: subscription references unknown product %q", ss.ProductID)
		}
		partner, ok := w.partners[key(ss.PartnerID)]
		if !ok {
			return nil, fmt.Errorf("snapshot: subscription references unknown partner %q", ss.PartnerID)
		}
		product.Subscribe(partner)
	}

	batches := make([]BatchSnapshot, len(snap.Batches))
	copy(batches, snap.Batches)
	sort.SliceStable(batches, func(i, j int) bool { return batches[i].Seq < batches[j].Seq })
	for _, bs := range batches {
		product, ok := w.products[key(bs.ProductID)]
		if !ok {
			return nil, fmt.Errorf("snapshot: batch references unknown product %q", bs.ProductID)
		}
		supplier, ok := w.partners[key(bs.SupplierID)]
		if !ok {
			return nil, fmt.Errorf("snapshot: batch references unknown partner %q", bs.SupplierID)
		}
		base := product.base()
		base.batches = append(base.batches, &Batch{
			id:       bs.ID,
			price:    bs.Price,
			quantity: bs.Quantity,
			seq:      bs.Seq,
			product:  product,
			supplier: supplier,
		})
		if bs.Seq >= base.nextSeq {
			base.nextSeq = bs.Seq + 1
		}
	}

	transactions := make([]TransactionSnapshot, len(snap.Transactions))
	copy(transactions, snap.Transactions)
	sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].ID < transactions[j].ID })
	for _, ts := range transactions {
		product, ok := w.products[key(ts.ProductID)]
		if !ok {
			return nil, fmt.Errorf("snapshot: transaction %d references unknown product %q", ts.ID, ts.ProductID)
		}
		partner, ok := w.partners[key(ts.PartnerID)]
		if !ok {
			return nil, fmt.Errorf("snapshot: transaction %d references unknown partner %q", ts.ID, ts.PartnerID)
		}

		base := baseTransaction{
			id:         ts.ID,
			product:    product,
			partner:    partner,
			quantity:   ts.Quantity,
			baseValue:  ts.BaseValue,
			createdOn:  ts.CreatedOn,
			currentDay: snap.Day,
			paid:       ts.Paid,
			paymentDay: ts.PaymentDay,
		}
		switch ts.Kind {
		case KindAcquisition:
			t := &Acquisition{baseTransaction: base, unitPrice: ts.UnitPrice}
			w.transactions[t.id] = t
			partner.addAcquisition(t)
		case KindCreditSale:
			t := &CreditSale{baseTransaction: base, deadlineDay: ts.DeadlineDay}
			w.transactions[t.id] = t
			partner.addSale(t)
		case KindBreakdownSale:
			lines := make([]BreakdownLine, len(ts.Lines))
			copy(lines, ts.Lines)
			t := &BreakdownSale{baseTransaction: base, lines: lines}
			w.transactions[t.id] = t
			partner.addSale(t)
		default:
			return nil, fmt.Errorf("snapshot: unknown transaction kind %q", ts.Kind)
		}
	}

	for _, ns := range snap.Notifications {
		partner, ok := w.partners[key(ns.PartnerID)]
		if !ok {
			return nil, fmt.Errorf("snapshot: notification references unknown partner %q", ns.PartnerID)
		}
		partner.notifications = append(partner.notifications, Notification{
			ID:        ns.NotificationID,
			Kind:      ns.Kind,
			ProductID: ns.ProductID,
			Price:     ns.Price,
		})
	}

	return w, nil
}
