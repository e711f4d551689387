package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	warehouseapp "github.com/goncaloinunes/warehouse-manager/internal/application/warehouse"
	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
)

// money renders a monetary amount rounded to the nearest unit, the precision
// every listing uses.
func money(d decimal.Decimal) string {
	return d.Round(0).String()
}

func renderPartner(p warehouseapp.PartnerView) string {
	return strings.Join([]string{
		p.ID,
		p.Name,
		p.Address,
		string(p.Status),
		money(p.Points),
		money(p.AcquisitionsValue),
		money(p.SalesValue),
		money(p.PaidSalesValue),
	}, "|")
}

func renderProduct(p warehouseapp.ProductView) string {
	fields := []string{p.ID, money(p.AllTimeHigh), strconv.Itoa(p.Stock)}
	if p.Kind == warehouse.ProductAggregate {
		parts := make([]string, 0, len(p.Recipe))
		for _, line := range p.Recipe {
			parts = append(parts, fmt.Sprintf("%s:%d", line.ProductID, line.Quantity))
		}
		fields = append(fields, p.Alpha.String(), strings.Join(parts, "#"))
	}
	return strings.Join(fields, "|")
}

func renderBatch(b warehouseapp.BatchView) string {
	return strings.Join([]string{
		b.ProductID,
		b.SupplierID,
		money(b.Price),
		strconv.Itoa(b.Quantity),
	}, "|")
}

func renderNotification(n warehouseapp.NotificationView) string {
	return strings.Join([]string{string(n.Kind), n.ProductID, money(n.Price)}, "|")
}

func renderTransaction(t warehouseapp.TransactionView) string {
	fields := []string{
		string(t.Kind),
		strconv.Itoa(t.ID),
		t.PartnerID,
		t.ProductID,
		strconv.Itoa(t.Quantity),
		money(t.BaseValue),
		money(t.AmountPaid),
		strconv.Itoa(t.CreatedOn),
	}
	if t.Kind == warehouse.KindCreditSale {
		fields = append(fields, strconv.Itoa(t.DeadlineDay))
	}
	if t.PaymentDay != nil {
		fields = append(fields, strconv.Itoa(*t.PaymentDay))
	}
	return strings.Join(fields, "|")
}
