package warehouse

import (
	"github.com/shopspring/decimal"

	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
)

// PartnerView is the read model of a partner account.
type PartnerView struct {
	ID                string
	Name              string
	Address           string
	Status            warehouse.PartnerStatus
	Points            decimal.Decimal
	AcquisitionsValue decimal.Decimal
	SalesValue        decimal.Decimal
	PaidSalesValue    decimal.Decimal
}

// RecipeLineView is one component of an aggregate product's recipe.
type RecipeLineView struct {
	ProductID string
	Quantity  int
}

// ProductView is the read model of a catalog product. Alpha and Recipe are
// only set for aggregate products.
type ProductView struct {
	ID          string
	Kind        warehouse.ProductKind
	AllTimeHigh decimal.Decimal
	Stock       int
	Alpha       decimal.Decimal
	Recipe      []RecipeLineView
}

// BatchView is the read model of one stock lot.
type BatchView struct {
	ProductID  string
	SupplierID string
	Price      decimal.Decimal
	Quantity   int
}

// BreakdownLineView is one audit line of a breakdown transaction.
type BreakdownLineView struct {
	ComponentID string
	Price       decimal.Decimal
	Quantity    int
}

// TransactionView is the read model of a ledger entry. PaymentDay is nil
// while the transaction is unpaid; DeadlineDay and Overdue are only
// meaningful for credit sales, Lines only for breakdowns.
type TransactionView struct {
	ID          int
	Kind        warehouse.TransactionKind
	ProductID   string
	PartnerID   string
	Quantity    int
	BaseValue   decimal.Decimal
	AmountPaid  decimal.Decimal
	Paid        bool
	CreatedOn   int
	PaymentDay  *int
	DeadlineDay int
	Overdue     bool
	Lines       []BreakdownLineView
}

// NotificationView is one pending inbox entry.
type NotificationView struct {
	Kind      warehouse.NotificationKind
	ProductID string
	Price     decimal.Decimal
}

func newPartnerView(p *warehouse.Partner) PartnerView {
	return PartnerView{
		ID:                p.ID(),
		Name:              p.Name(),
		Address:           p.Address(),
		Status:            p.Status(),
		Points:            p.Points(),
		AcquisitionsValue: p.AcquisitionsValue(),
		SalesValue:        p.SalesValue(),
		PaidSalesValue:    p.PaidSalesValue(),
	}
}

func newProductView(p warehouse.Product) ProductView {
	view := ProductView{
		ID:          p.ID(),
		Kind:        p.Kind(),
		AllTimeHigh: p.AllTimeHigh(),
		Stock:       p.TotalStock(),
		Alpha:       decimal.Zero,
	}
	if recipe := p.Recipe(); recipe != nil {
		view.Alpha = recipe.Alpha()
		for _, component := range recipe.Components() {
			view.Recipe = append(view.Recipe, RecipeLineView{
				ProductID: component.Product().ID(),
				Quantity:  component.Quantity(),
			})
		}
	}
	return view
}

func newBatchView(b *warehouse.Batch) BatchView {
	return BatchView{
		ProductID:  b.Product().ID(),
		SupplierID: b.Supplier().ID(),
		Price:      b.Price(),
		Quantity:   b.Quantity(),
	}
}

func newBatchViews(batches []*warehouse.Batch) []BatchView {
	views := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, newBatchView(b))
	}
	return views
}

func newTransactionView(t warehouse.Transaction) TransactionView {
	view := TransactionView{
		ID:         t.ID(),
		Kind:       t.Kind(),
		ProductID:  t.Product().ID(),
		PartnerID:  t.Partner().ID(),
		Quantity:   t.Quantity(),
		BaseValue:  t.BaseValue(),
		AmountPaid: t.AmountPaid(),
		Paid:       t.IsPaid(),
		CreatedOn:  t.CreatedOn(),
	}
	if day, ok := t.PaymentDay(); ok {
		view.PaymentDay = &day
	}
	switch tx := t.(type) {
	case *warehouse.CreditSale:
		view.DeadlineDay = tx.DeadlineDay()
		view.Overdue = tx.IsOverdue()
	case *warehouse.BreakdownSale:
		for _, line := range tx.Lines() {
			view.Lines = append(view.Lines, BreakdownLineView{
				ComponentID: line.ComponentID,
				Price:       line.Price,
				Quantity:    line.Quantity,
			})
		}
	}
	return view
}

func newTransactionViews(transactions []warehouse.Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, newTransactionView(t))
	}
	return views
}

func newNotificationViews(notifications []warehouse.Notification) []NotificationView {
	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, NotificationView{
			Kind:      n.Kind,
			ProductID: n.ProductID,
			Price:     n.Price,
		})
	}
	return views
}
