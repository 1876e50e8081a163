package sales_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/retail-ledger/ledger"
	"github.com/warp/retail-ledger/sales"
)

func discountedSale(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := storeLedger()
	// Subtotal 200, discount 20: refund ratio 0.9.
	next, err := sales.Create(l, sales.CreateInput{
		ID: "sale-1", At: now(), Items: twoOilUnits(), Discount: money(20), CustomerID: "cust-1",
	})
	require.NoError(t, err)
	return next
}

// =============================================================================
// REFUND MATH
// =============================================================================

func TestProcessReturn_DiscountWeightedRefund(t *testing.T) {
	// GIVEN: Subtotal 200, discount 20 (ratio 0.9)
	// WHEN: 1 of 2 units at unit price 100 is returned
	// THEN: Refund = 100 * 1 * 0.9 = 90, remaining drops by 90, stock +1

	// Nothing paid up front so the remaining amount is observable.
	base := storeLedger()
	paid := money(0)
	withDebt, err := sales.Create(base, sales.CreateInput{
		ID: "sale-1", At: now(), Items: twoOilUnits(), Discount: money(20), Paid: &paid, CustomerID: "cust-1",
	})
	require.NoError(t, err)
	require.True(t, withDebt.Sale("sale-1").RemainingAmount.Equal(money(180)))

	next, err := sales.ProcessReturn(withDebt, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.NoError(t, err)

	ret := next.Returns[0]
	assert.Equal(t, ledger.ReturnID("ret-1"), ret.ID)
	assert.True(t, ret.TotalRefund.Equal(money(90)), "refund %s", ret.TotalRefund)
	require.Len(t, ret.Items, 1)
	assert.True(t, ret.Items[0].RefundAmount.Equal(money(90)))

	s := next.Sale("sale-1")
	assert.True(t, s.RemainingAmount.Equal(money(90)), "remaining %s", s.RemainingAmount)
	assert.Equal(t, 1, s.Items[0].ReturnedQuantity)
	assert.Equal(t, 9, next.Product("p-oil").Stock)

	// Returned cost 60; profit drops by 90-60=30: (180-120) -> 30.
	assert.True(t, s.TotalCost.Equal(money(60)), "cost %s", s.TotalCost)
	assert.True(t, s.TotalProfit.Equal(money(30)), "profit %s", s.TotalProfit)
}

func TestProcessReturn_ZeroSubtotalUsesRatioOne(t *testing.T) {
	l := storeLedger()
	next, err := sales.Create(l, sales.CreateInput{
		ID: "sale-1", At: now(),
		Items: []sales.LineInput{{ProductID: "p-oil", Quantity: 1, UnitPrice: money(0)}},
	})
	require.NoError(t, err)

	afterReturn, err := sales.ProcessReturn(next, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, afterReturn.Returns[0].TotalRefund.IsZero())
}

func TestProcessReturn_ReducesCustomerPoints(t *testing.T) {
	l := discountedSale(t)
	require.Equal(t, 180, l.Customer("cust-1").TotalPoints)

	next, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 90, next.Customer("cust-1").TotalPoints, "points drop by floor(90)")
}

// =============================================================================
// RETURN BOUND AND ATOMICITY
// =============================================================================

func TestProcessReturn_CancelledSaleRejected(t *testing.T) {
	// GIVEN: A sale of 2 units (stock 10 -> 8) that was then cancelled
	//        (stock back to 10, customer aggregates reversed)
	// WHEN: A return is requested against the cancelled sale
	// THEN: It is rejected; stock never climbs past the pre-sale level and
	//       no refund is recorded

	l := discountedSale(t)
	cancelled, err := sales.UpdateDeliveryStatus(l, "sale-1", ledger.SaleCancelled, now())
	require.NoError(t, err)
	require.Equal(t, 10, cancelled.Product("p-oil").Stock)
	auditBefore := len(cancelled.AuditLog)

	_, err = sales.ProcessReturn(cancelled, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.ErrorIs(t, err, ledger.ErrSaleCancelled)
	assert.True(t, ledger.IsClientError(err))

	// Input snapshot untouched
	assert.Equal(t, 10, cancelled.Product("p-oil").Stock)
	assert.Empty(t, cancelled.Returns)
	assert.Len(t, cancelled.AuditLog, auditBefore)
}

func TestProcessReturn_OverReturnRejected(t *testing.T) {
	l := discountedSale(t)

	_, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 3}},
	})
	require.ErrorIs(t, err, ledger.ErrInvalidQuantity)
	var over *ledger.OverReturnError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, 2, over.Sold)
	assert.Equal(t, 3, over.Requested)
}

func TestProcessReturn_BoundHoldsAcrossSuccessiveReturns(t *testing.T) {
	l := discountedSale(t)

	one, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = sales.ProcessReturn(one, sales.ReturnInput{
		ID: "ret-2", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 2}},
	})
	require.ErrorIs(t, err, ledger.ErrInvalidQuantity, "1 already returned, only 1 left")
}

func TestProcessReturn_SplitRequestCannotExceedBound(t *testing.T) {
	// Two lines of the same product summing past the sold quantity.
	l := discountedSale(t)
	_, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{
			{ProductID: "p-oil", Quantity: 1},
			{ProductID: "p-oil", Quantity: 2},
		},
	})
	require.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestProcessReturn_AllOrNothing(t *testing.T) {
	// GIVEN: A request with one valid line and one invalid line
	// WHEN: Processed
	// THEN: The whole request is rejected with zero effect

	l := discountedSale(t)
	_, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{
			{ProductID: "p-oil", Quantity: 1},
			{ProductID: "p-rice", Quantity: 1}, // not on the sale
		},
	})
	require.ErrorIs(t, err, ledger.ErrNotFound)

	assert.Equal(t, 0, l.Sale("sale-1").Items[0].ReturnedQuantity)
	assert.Equal(t, 8, l.Product("p-oil").Stock)
	assert.Empty(t, l.Returns)
}

func TestProcessReturn_RefundConservation(t *testing.T) {
	// The sum of refunds across all returns never exceeds the sale total.
	l := discountedSale(t)

	one, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.NoError(t, err)
	two, err := sales.ProcessReturn(one, sales.ReturnInput{
		ID: "ret-2", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.NoError(t, err)

	total := decimal.Zero
	for _, r := range two.Returns {
		total = total.Add(r.TotalRefund)
	}
	assert.True(t, total.LessThanOrEqual(two.Sale("sale-1").Total),
		"refunds %s exceed sale total %s", total, two.Sale("sale-1").Total)
}

func TestProcessReturn_SaleNotFound(t *testing.T) {
	l := storeLedger()
	_, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-missing", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestProcessReturn_AuditEntry(t *testing.T) {
	l := discountedSale(t)
	next, err := sales.ProcessReturn(l, sales.ReturnInput{
		ID: "ret-1", SaleID: "sale-1", At: now(),
		Items: []sales.ReturnLine{{ProductID: "p-oil", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, next.AuditLog, len(l.AuditLog)+1)
	assert.Equal(t, "sale_returned", next.AuditLog[0].Action)
	assert.Equal(t, ledger.AuditReturns, next.AuditLog[0].Category)
}
