package warehouse

import (
	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the three ledger event variants.
type TransactionKind string

const (
	KindAcquisition   TransactionKind = "ACQUISITION"
	KindCreditSale    TransactionKind = "CREDIT_SALE"
	KindBreakdownSale TransactionKind = "BREAKDOWN_SALE"
)

// Transaction is an immutable economic event in the ledger. Only the payment
// flag and payment date change after creation, through the Unpaid -> Paid
// state machine.
type Transaction interface {
	// ID returns the monotonically-increasing ledger identifier.
	ID() int
	// Kind returns the transaction variant.
	Kind() TransactionKind
	// Product returns the product the transaction concerns.
	Product() Product
	// Partner returns the associated partner.
	Partner() *Partner
	// Quantity returns the number of units transacted.
	Quantity() int
	// BaseValue returns the economic value recorded at creation.
	BaseValue() decimal.Decimal
	// TotalValue returns the value this transaction contributes to the
	// accounting balance projection while unpaid.
	TotalValue() decimal.Decimal
	// AmountPaid returns the amount settled when the transaction is paid.
	AmountPaid() decimal.Decimal
	// IsPaid reports whether the transaction has been settled.
	IsPaid() bool
	// CreatedOn returns the day the transaction was recorded.
	CreatedOn() int
	// PaymentDay returns the settlement day, false while unpaid.
	PaymentDay() (int, bool)

	setCurrentDay(day int)
	pay(day int)
}

type baseTransaction struct {
	id         int
	product    Product
	partner    *Partner
	quantity   int
	baseValue  decimal.Decimal
	createdOn  int
	currentDay int
	paid       bool
	paymentDay int
}

func (t *baseTransaction) ID() int {
	return t.id
}

func (t *baseTransaction) Product() Product {
	return t.product
}

func (t *baseTransaction) Partner() *Partner {
	return t.partner
}

func (t *baseTransaction) Quantity() int {
	return t.quantity
}

func (t *baseTransaction) BaseValue() decimal.Decimal {
	return t.baseValue
}

func (t *baseTransaction) TotalValue() decimal.Decimal {
	return t.baseValue
}

func (t *baseTransaction) AmountPaid() decimal.Decimal {
	return t.baseValue
}

func (t *baseTransaction) IsPaid() bool {
	return t.paid
}

func (t *baseTransaction) CreatedOn() int {
	return t.createdOn
}

func (t *baseTransaction) PaymentDay() (int, bool) {
	if !t.paid {
		return 0, false
	}
	return t.paymentDay, true
}

func (t *baseTransaction) setCurrentDay(day int) {
	t.currentDay = day
}

// pay settles the transaction. Paying an already-paid transaction is a
// no-op; the warehouse relies on this for balance idempotence.
func (t *baseTransaction) pay(day int) {
	if t.paid {
		return
	}
	t.paid = true
	t.paymentDay = day
}

// Acquisition records stock bought from a partner. Acquisitions settle
// instantly: they are created already paid.
type Acquisition struct {
	baseTransaction
	unitPrice decimal.Decimal
}

func newAcquisition(id int, product Product, partner *Partner, unitPrice decimal.Decimal, quantity, day int) *Acquisition {
	a := &Acquisition{
		baseTransaction: baseTransaction{
			id:        id,
			product:   product,
			partner:   partner,
			quantity:  quantity,
			baseValue: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
			createdOn: day,
		},
		unitPrice: unitPrice,
	}
	a.setCurrentDay(day)
	a.pay(day)
	return a
}

// Kind returns KindAcquisition.
func (a *Acquisition) Kind() TransactionKind {
	return KindAcquisition
}

// UnitPrice returns the per-unit price the stock was bought at.
func (a *Acquisition) UnitPrice() decimal.Decimal {
	return a.unitPrice
}

// CreditSale records stock sold on credit, due a fixed number of days after
// creation. It starts unpaid and settles only through Warehouse.Pay.
type CreditSale struct {
	baseTransaction
	deadlineDay int
}

func newCreditSale(id int, product Product, partner *Partner, quantity int, baseValue decimal.Decimal, createdOn, deadlineDay int) *CreditSale {
	s := &CreditSale{
		baseTransaction: baseTransaction{
			id:        id,
			product:   product,
			partner:   partner,
			quantity:  quantity,
			baseValue: baseValue,
			createdOn: createdOn,
		},
		deadlineDay: deadlineDay,
	}
	s.setCurrentDay(createdOn)
	return s
}

// Kind returns KindCreditSale.
func (s *CreditSale) Kind() TransactionKind {
	return KindCreditSale
}

// DeadlineDay returns the absolute day payment is due.
func (s *CreditSale) DeadlineDay() int {
	return s.deadlineDay
}

// IsOverdue reports whether the sale is unpaid past its deadline, as of the
// last date propagated by the clock.
func (s *CreditSale) IsOverdue() bool {
	return !s.paid && s.currentDay > s.deadlineDay
}

// BreakdownLine is one audit entry of a breakdown: the replenishment batch
// created for a recipe component.
type BreakdownLine struct {
	ComponentID string
	Price       decimal.Decimal
	Quantity    int
}

// BreakdownSale records the disassembly of aggregate stock into components:
// a sale of the aggregate combined with a re-acquisition of its components.
// Like acquisitions, breakdowns settle instantly.
type BreakdownSale struct {
	baseTransaction
	lines []BreakdownLine
}

func newBreakdownSale(id int, product Product, partner *Partner, quantity int, baseValue decimal.Decimal, lines []BreakdownLine, day int) *BreakdownSale {
	b := &BreakdownSale{
		baseTransaction: baseTransaction{
			id:        id,
			product:   product,
			partner:   partner,
			quantity:  quantity,
			baseValue: baseValue,
			createdOn: day,
		},
		lines: lines,
	}
	b.setCurrentDay(day)
	b.pay(day)
	return b
}

// Kind returns KindBreakdownSale.
func (b *BreakdownSale) Kind() TransactionKind {
	return KindBreakdownSale
}

// Lines returns the audit trail of replenishment batches created by the
// breakdown, in recipe order per consumed chunk.
func (b *BreakdownSale) Lines() []BreakdownLine {
	out := make([]BreakdownLine, len(b.lines))
	copy(out, b.lines)
	return out
}
