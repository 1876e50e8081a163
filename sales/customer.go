/*
customer.go - The single point of customer-aggregate mutation

Customer aggregates are maintained incrementally, not recomputed from sale
history. The drift risk is an operation forgetting a symmetric adjustment, so
every operation that touches a customer-linked sale goes through
applySaleAggregates with an explicit sign. Reconciliation against sale history
lives in the test suite, not at runtime.
*/
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/ledger"
)

// applySaleAggregates adjusts the customer's running totals for one sale.
// sign is +1 when the sale counts toward the customer (creation,
// reactivation) and -1 when it is removed (cancellation). Negative results
// are floored at zero.
func applySaleAggregates(c *ledger.Customer, s *ledger.Sale, sign int) {
	if sign >= 0 {
		c.TotalPurchases = c.TotalPurchases.Add(s.Total)
		c.InvoiceCount++
		c.TotalPoints += s.PointsEarned
		return
	}

	c.TotalPurchases = floorZero(c.TotalPurchases.Sub(s.Total))
	if c.InvoiceCount > 0 {
		c.InvoiceCount--
	}
	c.TotalPoints = clampPoints(c.TotalPoints - s.PointsEarned)
}

// deductPoints reduces the customer's points by floor(refund), floored at
// zero. Used by the return processor.
func deductPoints(c *ledger.Customer, refund decimal.Decimal) {
	c.TotalPoints = clampPoints(c.TotalPoints - int(refund.IntPart()))
}

func clampPoints(p int) int {
	if p < 0 {
		return 0
	}
	return p
}
