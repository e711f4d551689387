package warehouse

import (
	"sort"

	"github.com/shopspring/decimal"
)

// batchDraw is one step of an allocation plan: how many units to take from
// which batch, and the value of that draw.
type batchDraw struct {
	batch    *Batch
	quantity int
	value    decimal.Decimal
}

// allocation is a consumption plan over a product's batches.
type allocation struct {
	draws      []batchDraw
	totalValue decimal.Decimal
}

// planAllocation orders the product's batches by ascending price, ties
// broken by batch creation order, and plans consumption of quantity units
// batch by batch. Prices are compared exactly; no truncation. The caller
// must have verified quantity <= product.TotalStock(); planning mutates
// nothing.
func planAllocation(product Product, quantity int) allocation {
	batches := product.Batches()
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].Price().LessThan(batches[j].Price())
	})

	plan := allocation{totalValue: decimal.Zero}
	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}
		take := batch.Quantity()
		if take > remaining {
			take = remaining
		}
		value := batch.Price().Mul(decimal.NewFromInt(int64(take)))
		plan.draws = append(plan.draws, batchDraw{batch: batch, quantity: take, value: value})
		plan.totalValue = plan.totalValue.Add(value)
		remaining -= take
	}
	return plan
}

// applyDraw consumes one planned draw: the batch is reduced in place, or
// removed from its product when fully consumed.
func applyDraw(product Product, draw batchDraw) {
	if draw.quantity == draw.batch.Quantity() {
		product.removeBatch(draw.batch)
		draw.batch.reduce(draw.quantity)
		return
	}
	draw.batch.reduce(draw.quantity)
}

// apply consumes the whole plan.
func (a allocation) apply(product Product) {
	for _, draw := range a.draws {
		applyDraw(product, draw)
	}
}
