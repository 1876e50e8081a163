/*
Package wholesale records bulk trade with partners and its stock movement.

PURPOSE:
  Wholesale stock moves in the opposite direction of retail depending on the
  transaction type: a purchase is a supplier delivery (stock increases), a
  sale is a bulk delivery to a buyer partner (stock decreases, validated
  first). Transactions are appended verbatim - the caller computes total and
  paid amount - and are never rewritten; later debt payments only ever
  increase PaidAmount.

KEY INVARIANTS:
  1. A wholesale sale is rejected before any mutation if any line would drive
     stock negative.
  2. A transaction's total and items are immutable after creation.
  3. Debt payments are strictly positive and additive.
*/
package wholesale

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/ledger"
)

// =============================================================================
// PROCESS - Record a wholesale purchase or sale
// =============================================================================

// Input is a proposed wholesale transaction. Total and PaidAmount arrive
// pre-computed by the caller and are recorded verbatim.
type Input struct {
	ID         ledger.TransactionID
	PartnerID  ledger.PartnerID
	Type       ledger.WholesaleType
	Items      []ledger.WholesaleItem
	Total      decimal.Decimal
	PaidAmount decimal.Decimal
	At         time.Time
}

// Process validates the transaction, applies its stock movement, and returns
// a new Ledger with the transaction prepended to history and one audit entry.
func Process(l *ledger.Ledger, in Input) (*ledger.Ledger, error) {
	if in.Type != ledger.WholesaleSale && in.Type != ledger.WholesalePurchase {
		return nil, fmt.Errorf("%w: unknown wholesale type %q", ledger.ErrInvalidQuantity, in.Type)
	}
	if l.Partner(in.PartnerID) == nil {
		return nil, &ledger.NotFoundError{Kind: "partner", ID: string(in.PartnerID)}
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("wholesale %s: %w: no line items", in.ID, ledger.ErrInvalidQuantity)
	}

	// Validation pass: every product must exist, and a wholesale sale must be
	// coverable by current stock, aggregated per product.
	required := make(map[ledger.ProductID]int)
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("wholesale %s: %w: quantity %d for product %s",
				in.ID, ledger.ErrInvalidQuantity, item.Quantity, item.ProductID)
		}
		if l.Product(item.ProductID) == nil {
			return nil, &ledger.NotFoundError{Kind: "product", ID: string(item.ProductID)}
		}
		required[item.ProductID] += item.Quantity
	}
	if in.Type == ledger.WholesaleSale {
		for id, qty := range required {
			p := l.Product(id)
			if p.Stock < qty {
				return nil, &ledger.InsufficientStockError{
					ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: qty,
				}
			}
		}
	}

	next := l.Clone()
	for id, qty := range required {
		p := next.Product(id)
		if in.Type == ledger.WholesalePurchase {
			p.Stock += qty
		} else {
			p.Stock -= qty
		}
	}

	tx := ledger.WholesaleTransaction{
		ID:         in.ID,
		PartnerID:  in.PartnerID,
		Type:       in.Type,
		Items:      append([]ledger.WholesaleItem(nil), in.Items...),
		Timestamp:  in.At,
		Total:      in.Total,
		PaidAmount: in.PaidAmount,
	}
	next.WholesaleTransactions = append([]ledger.WholesaleTransaction{tx}, next.WholesaleTransactions...)

	ledger.RecordAudit(next, in.At, "wholesale_recorded", ledger.AuditWholesale, string(in.ID),
		fmt.Sprintf("wholesale %s with partner %s: %d items, total %s", in.Type, in.PartnerID, len(in.Items), in.Total))
	return next, nil
}

// =============================================================================
// PAY DEBT - Settle part of an outstanding balance
// =============================================================================

// PayDebt increases an existing transaction's PaidAmount by a strictly
// positive amount. It never decreases PaidAmount and never rewrites the
// transaction's total or items.
func PayDebt(l *ledger.Ledger, txID ledger.TransactionID, amount decimal.Decimal, at time.Time) (*ledger.Ledger, error) {
	if l.WholesaleTransaction(txID) == nil {
		return nil, &ledger.NotFoundError{Kind: "transaction", ID: string(txID)}
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: debt payment must be positive, got %s", ledger.ErrInvalidQuantity, amount)
	}

	next := l.Clone()
	tx := next.WholesaleTransaction(txID)
	tx.PaidAmount = tx.PaidAmount.Add(amount)

	ledger.RecordAudit(next, at, "wholesale_debt_paid", ledger.AuditWholesale, string(txID),
		fmt.Sprintf("payment of %s against transaction %s", amount, txID))
	return next, nil
}
