/*
returns.go - Partial returns against an existing sale

PURPOSE:
  Converts a return request into stock restoration and a proportional refund.
  The refund is discount-weighted: if the sale was discounted, a returned unit
  refunds its discounted share, not its sticker price.

REFUND MATH:
  ratio      = (subtotal - discount) / subtotal   (1 when subtotal is 0)
  lineRefund = unitPrice * quantity * ratio

INVARIANTS:
  1. Return bound: returnedQuantity never exceeds the originally sold
     quantity for any line item.
  2. All-or-nothing: if ANY requested line fails validation, the whole
     request is rejected with no effect.
  3. SaleReturn records are append-only; returns are never edited or deleted.
  4. Cancelled sales accept no returns: cancellation already restocked the
     units and reversed the customer credit.
*/
package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/ledger"
)

// =============================================================================
// PROCESS RETURN
// =============================================================================

// ReturnLine is one requested return quantity for a product on the sale.
type ReturnLine struct {
	ProductID ledger.ProductID
	Quantity  int
}

// ReturnInput is a proposed partial return. The caller pre-assigns the id
// and supplies the timestamp.
type ReturnInput struct {
	ID     ledger.ReturnID
	SaleID ledger.SaleID
	At     time.Time
	Items  []ReturnLine
}

// ProcessReturn validates every requested line against the original sale,
// then returns a new Ledger with stock restored, the sale's line items and
// financials adjusted, the customer's points reduced by the refund, and an
// immutable SaleReturn prepended to history.
func ProcessReturn(l *ledger.Ledger, in ReturnInput) (*ledger.Ledger, error) {
	sale := l.Sale(in.SaleID)
	if sale == nil {
		return nil, &ledger.NotFoundError{Kind: "sale", ID: string(in.SaleID)}
	}
	// Cancellation already restocked the units and reversed the customer
	// credit; accepting a return on top would double both.
	if sale.Status == ledger.SaleCancelled {
		return nil, fmt.Errorf("return %s against sale %s: %w", in.ID, in.SaleID, ledger.ErrSaleCancelled)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("return %s: %w: no items requested", in.ID, ledger.ErrInvalidQuantity)
	}

	// Validation pass over the untouched snapshot. Requested quantities are
	// aggregated per product so a split request cannot exceed the bound.
	requested := make(map[ledger.ProductID]int)
	var order []ledger.ProductID
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("return %s: %w: quantity %d for product %s",
				in.ID, ledger.ErrInvalidQuantity, line.Quantity, line.ProductID)
		}
		if _, seen := requested[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}
	for _, id := range order {
		qty := requested[id]
		item := saleItem(sale, id)
		if item == nil {
			return nil, &ledger.NotFoundError{Kind: "sale item", ID: string(id)}
		}
		if item.ReturnedQuantity+qty > item.Quantity {
			return nil, &ledger.OverReturnError{
				SaleID:          sale.ID,
				ProductID:       id,
				Sold:            item.Quantity,
				AlreadyReturned: item.ReturnedQuantity,
				Requested:       qty,
			}
		}
		// The product must still exist to restock and to price the returned
		// cost.
		if l.Product(id) == nil {
			return nil, &ledger.NotFoundError{Kind: "product", ID: string(id)}
		}
	}

	ratio := refundRatio(sale)
	totalRefund := decimal.Zero
	totalReturnedCost := decimal.Zero
	returned := make([]ledger.ReturnedItem, 0, len(order))
	for _, id := range order {
		qty := requested[id]
		item := saleItem(sale, id)
		qtyDec := decimal.NewFromInt(int64(qty))
		lineRefund := item.UnitPrice.Mul(qtyDec).Mul(ratio)
		totalRefund = totalRefund.Add(lineRefund)
		totalReturnedCost = totalReturnedCost.Add(l.Product(id).CostPrice.Mul(qtyDec))
		returned = append(returned, ledger.ReturnedItem{
			ProductID:    id,
			Quantity:     qty,
			RefundAmount: lineRefund,
		})
	}

	// Mutation pass, on a clone.
	next := l.Clone()
	s := next.Sale(in.SaleID)
	for _, id := range order {
		qty := requested[id]
		saleItem(s, id).ReturnedQuantity += qty
		next.Product(id).Stock += qty
	}
	s.RemainingAmount = floorZero(s.RemainingAmount.Sub(totalRefund))
	s.TotalCost = s.TotalCost.Sub(totalReturnedCost)
	s.TotalProfit = floorZero(s.TotalProfit.Sub(totalRefund.Sub(totalReturnedCost)))
	if s.CustomerID != "" {
		if c := next.Customer(s.CustomerID); c != nil {
			deductPoints(c, totalRefund)
		}
	}

	next.Returns = append([]ledger.SaleReturn{{
		ID:          in.ID,
		SaleID:      in.SaleID,
		Timestamp:   in.At,
		Items:       returned,
		TotalRefund: totalRefund,
	}}, next.Returns...)

	ledger.RecordAudit(next, in.At, "sale_returned", ledger.AuditReturns, string(in.ID),
		fmt.Sprintf("return %s against sale %s: refund %s", in.ID, in.SaleID, totalRefund))
	return next, nil
}

// refundRatio is the discount weight applied to refunds: the share of the
// subtotal the customer actually paid for products.
func refundRatio(s *ledger.Sale) decimal.Decimal {
	if s.Subtotal.IsZero() {
		return decimal.NewFromInt(1)
	}
	return s.Subtotal.Sub(s.Discount).Div(s.Subtotal)
}

func saleItem(s *ledger.Sale, id ledger.ProductID) *ledger.SaleItem {
	for i := range s.Items {
		if s.Items[i].ProductID == id {
			return &s.Items[i]
		}
	}
	return nil
}
