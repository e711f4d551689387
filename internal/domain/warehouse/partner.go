package warehouse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PartnerStatus is the loyalty tier of a partner. Only the default tier is
// assigned here; no transition logic exists in this core.
type PartnerStatus string

// PartnerStatusNormal is the tier every partner starts in.
const PartnerStatusNormal PartnerStatus = "NORMAL"

// Partner is a trading partner account: identity, loyalty state, transaction
// history, and an inbox of pending product change notifications. Partner
// implements Observer for product subscriptions.
type Partner struct {
	id            string
	name          string
	address       string
	status        PartnerStatus
	points        decimal.Decimal
	acquisitions  []*Acquisition
	sales         []Transaction
	notifications []Notification
}

// NewPartner creates a partner in the default tier with an empty history.
func NewPartner(id, name, address string) *Partner {
	return &Partner{
		id:      id,
		name:    name,
		address: address,
		status:  PartnerStatusNormal,
		points:  decimal.Zero,
	}
}

// ID returns the partner identifier, case preserved as registered.
func (p *Partner) ID() string {
	return p.id
}

// Name returns the partner name.
func (p *Partner) Name() string {
	return p.name
}

// Address returns the partner address.
func (p *Partner) Address() string {
	return p.address
}

// Status returns the loyalty tier.
func (p *Partner) Status() PartnerStatus {
	return p.status
}

// Points returns the accumulated loyalty points.
func (p *Partner) Points() decimal.Decimal {
	return p.points
}

// ObserverKey implements Observer. Partner identifiers are compared
// case-insensitively.
func (p *Partner) ObserverKey() string {
	return strings.ToLower(p.id)
}

// Notify implements Observer by queueing the notification into the inbox.
func (p *Partner) Notify(n Notification) {
	p.notifications = append(p.notifications, n)
}

// Notifications returns the pending inbox in FIFO order. Reading never
// drains the inbox; only ClearNotifications does.
func (p *Partner) Notifications() []Notification {
	out := make([]Notification, len(p.notifications))
	copy(out, p.notifications)
	return out
}

// ClearNotifications empties the inbox.
func (p *Partner) ClearNotifications() {
	p.notifications = nil
}

func (p *Partner) addAcquisition(a *Acquisition) {
	p.acquisitions = append(p.acquisitions, a)
}

func (p *Partner) addSale(t Transaction) {
	p.sales = append(p.sales, t)
}

// Acquisitions returns the partner's acquisition history in ledger order.
func (p *Partner) Acquisitions() []*Acquisition {
	out := make([]*Acquisition, len(p.acquisitions))
	copy(out, p.acquisitions)
	return out
}

// Sales returns the partner's sale history (credit sales and breakdowns) in
// ledger order.
func (p *Partner) Sales() []Transaction {
	out := make([]Transaction, len(p.sales))
	copy(out, p.sales)
	return out
}

// AcquisitionsValue sums the base value of every acquisition in the history.
func (p *Partner) AcquisitionsValue() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.acquisitions {
		total = total.Add(a.BaseValue())
	}
	return total
}

// SalesValue sums the amount of every credit sale in the history, paid or
// not.
func (p *Partner) SalesValue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.sales {
		if sale, ok := s.(*CreditSale); ok {
			total = total.Add(sale.AmountPaid())
		}
	}
	return total
}

// PaidSalesValue sums the amount of every settled credit sale.
func (p *Partner) PaidSalesValue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.sales {
		if sale, ok := s.(*CreditSale); ok && sale.IsPaid() {
			total = total.Add(sale.AmountPaid())
		}
	}
	return total
}
