/*
Package inventory reconciles counted stock against recorded stock.

PURPOSE:
  A stocktake sets a product's stock directly to the counted quantity and
  always leaves a StockAdjustmentLog behind. When fewer units were found than
  recorded, the difference is shrinkage: the lost units are costed at the
  product's cost price and posted as an automatic expense. Finding more than
  recorded (or exactly as recorded) posts no expense.

NEGATIVE COUNTS:
  A counted quantity below zero is rejected by the engine rather than left to
  the caller; a physical count cannot be negative, and letting one through
  would break the stock non-negativity invariant everywhere downstream.
*/
package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/ledger"
)

// AdjustInput is a proposed stocktaking adjustment. LogID and ExpenseID are
// pre-assigned by the caller; ExpenseID is only used when shrinkage is
// detected.
type AdjustInput struct {
	LogID      string
	ExpenseID  string
	ProductID  ledger.ProductID
	CountedQty int
	Reason     string
	EmployeeID ledger.EmployeeID
	At         time.Time
}

// AdjustStock sets the product's stock to the counted quantity, prepends a
// StockAdjustmentLog, posts a shrinkage expense when units went missing, and
// records one audit entry.
func AdjustStock(l *ledger.Ledger, in AdjustInput) (*ledger.Ledger, error) {
	if in.CountedQty < 0 {
		return nil, fmt.Errorf("%w: counted quantity %d", ledger.ErrInvalidQuantity, in.CountedQty)
	}
	product := l.Product(in.ProductID)
	if product == nil {
		return nil, &ledger.NotFoundError{Kind: "product", ID: string(in.ProductID)}
	}
	if in.EmployeeID != "" && l.Employee(in.EmployeeID) == nil {
		return nil, &ledger.NotFoundError{Kind: "employee", ID: string(in.EmployeeID)}
	}

	oldStock := product.Stock
	diff := oldStock - in.CountedQty

	next := l.Clone()
	next.Product(in.ProductID).Stock = in.CountedQty

	next.StockAdjustments = append([]ledger.StockAdjustmentLog{{
		ID:         in.LogID,
		ProductID:  in.ProductID,
		OldStock:   oldStock,
		NewStock:   in.CountedQty,
		Reason:     in.Reason,
		EmployeeID: in.EmployeeID,
		Timestamp:  in.At,
	}}, next.StockAdjustments...)

	// Shrinkage: fewer units found than recorded.
	if diff > 0 {
		cost := product.CostPrice.Mul(decimal.NewFromInt(int64(diff)))
		next.Expenses = append([]ledger.Expense{{
			ID:          in.ExpenseID,
			Description: fmt.Sprintf("stock shrinkage: %d x %s (%s)", diff, product.Name, in.Reason),
			Amount:      cost,
			Timestamp:   in.At,
			EmployeeID:  in.EmployeeID,
		}}, next.Expenses...)
	}

	ledger.RecordAudit(next, in.At, "stock_adjusted", ledger.AuditInventory, string(in.ProductID),
		fmt.Sprintf("product %s: stock %d -> %d (%s)", product.Name, oldStock, in.CountedQty, in.Reason))
	return next, nil
}
