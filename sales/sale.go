/*
Package sales implements the sale lifecycle: creation, delivery-status
transitions (including cancellation and its exact inverse), duplication of a
past order, and partial returns.

PURPOSE:
  A sale is the engine's central business event. Creating one deducts stock,
  accrues loyalty points, and maintains the linked customer's running
  aggregates. Cancelling one must release exactly the inventory and credit it
  consumed; reactivating a cancelled one must be the exact mirror, or points
  and totals drift permanently.

KEY INVARIANTS:
  1. Stock never goes negative: every deduction is validated against the
     input snapshot before any mutation, aggregated per product so repeated
     line items cannot slip past a per-line check.
  2. Cancellation restocks quantity minus already-returned units; returned
     units were restocked by the return processor and must not be re-credited.
  3. Customer aggregates (total purchases, invoice count, points) are only
     ever touched through one helper, with a sign (see customer.go).
  4. All-or-nothing: a validation failure returns the error before the clone
     diverges from the input.

SEE ALSO:
  - returns.go: partial returns against a sale
  - customer.go: the single point of customer-aggregate mutation
*/
package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/ledger"
)

// =============================================================================
// CREATE - New sale from a proposal
// =============================================================================

// LineInput is one proposed line item. UnitPrice is supplied by the caller
// and snapshotted into the sale; the catalog price may have changed by the
// time a duplicate order is placed.
type LineInput struct {
	ProductID ledger.ProductID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateInput is a proposed sale. The caller pre-assigns the id and supplies
// the timestamp; the engine performs no clock or RNG reads.
type CreateInput struct {
	ID          ledger.SaleID
	At          time.Time
	Items       []LineInput
	Discount    decimal.Decimal
	DeliveryFee decimal.Decimal
	// Paid is the amount received. nil means paid in full.
	Paid       *decimal.Decimal
	CustomerID ledger.CustomerID
	Delivery   bool
	DriverID   ledger.EmployeeID
}

// Create validates the proposal against the snapshot, then returns a new
// Ledger with stock deducted, customer aggregates incremented, the sale
// prepended to history, and one audit entry.
//
// Initial status is pending for delivery orders, completed otherwise.
func Create(l *ledger.Ledger, in CreateInput) (*ledger.Ledger, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("sale %s: %w: no line items", in.ID, ledger.ErrInvalidQuantity)
	}

	// Validation pass: resolve every product and aggregate the required
	// quantity per product before touching anything.
	required := make(map[ledger.ProductID]int)
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("sale %s: %w: quantity %d for product %s",
				in.ID, ledger.ErrInvalidQuantity, item.Quantity, item.ProductID)
		}
		if l.Product(item.ProductID) == nil {
			return nil, &ledger.NotFoundError{Kind: "product", ID: string(item.ProductID)}
		}
		required[item.ProductID] += item.Quantity
	}
	for id, qty := range required {
		p := l.Product(id)
		if p.Stock < qty {
			return nil, &ledger.InsufficientStockError{
				ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: qty,
			}
		}
	}
	if in.CustomerID != "" && l.Customer(in.CustomerID) == nil {
		return nil, &ledger.NotFoundError{Kind: "customer", ID: string(in.CustomerID)}
	}

	// Financials.
	subtotal := decimal.Zero
	totalCost := decimal.Zero
	items := make([]ledger.SaleItem, len(in.Items))
	for i, item := range in.Items {
		p := l.Product(item.ProductID)
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(item.UnitPrice.Mul(qty))
		totalCost = totalCost.Add(p.CostPrice.Mul(qty))
		items[i] = ledger.SaleItem{
			ProductID: item.ProductID,
			Name:      p.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	// A discount below zero or above the subtotal would drive the total,
	// points, and downstream refund ratio negative.
	if in.Discount.IsNegative() {
		return nil, fmt.Errorf("sale %s: %w: negative discount %s", in.ID, ledger.ErrInvalidQuantity, in.Discount)
	}
	if in.Discount.GreaterThan(subtotal) {
		return nil, fmt.Errorf("sale %s: %w: discount %s exceeds subtotal %s",
			in.ID, ledger.ErrInvalidQuantity, in.Discount, subtotal)
	}

	productRevenue := subtotal.Sub(in.Discount)
	total := productRevenue.Add(in.DeliveryFee)
	paid := total
	if in.Paid != nil {
		paid = *in.Paid
	}

	sale := ledger.Sale{
		ID:              in.ID,
		Timestamp:       in.At,
		Items:           items,
		Subtotal:        subtotal,
		Discount:        in.Discount,
		DeliveryFee:     in.DeliveryFee,
		Total:           total,
		PaidAmount:      paid,
		RemainingAmount: floorZero(total.Sub(paid)),
		TotalCost:       totalCost,
		TotalProfit:     productRevenue.Sub(totalCost).Add(in.DeliveryFee),
		PointsEarned:    int(total.IntPart()),
		CustomerID:      in.CustomerID,
		DriverID:        in.DriverID,
		Status:          ledger.SaleCompleted,
	}
	if in.Delivery {
		sale.Status = ledger.SalePending
	}

	// Mutation pass, on a clone.
	next := l.Clone()
	for id, qty := range required {
		next.Product(id).Stock -= qty
	}
	if sale.CustomerID != "" {
		c := next.Customer(sale.CustomerID)
		applySaleAggregates(c, &sale, +1)
		at := in.At
		c.LastOrderAt = &at
	}
	next.Sales = append([]ledger.Sale{sale}, next.Sales...)

	ledger.RecordAudit(next, in.At, "sale_created", ledger.AuditSales, string(sale.ID),
		fmt.Sprintf("sale %s: %d items, total %s", sale.ID, len(sale.Items), sale.Total))
	return next, nil
}

// =============================================================================
// DELIVERY STATUS - Transitions with cancellation reversal
// =============================================================================

// UpdateDeliveryStatus moves a sale to a new status.
//
// Requesting the status already held is a silent no-op: the input Ledger is
// returned unchanged and no audit entry is written.
//
// Transitioning INTO cancelled restocks quantity minus already-returned units
// per line and reverses the linked customer's aggregates (floored at zero).
// Transitioning OUT of cancelled re-validates stock for the same quantities,
// re-deducts, and re-applies the customer deltas with the opposite sign - an
// exact mirror of cancellation.
func UpdateDeliveryStatus(l *ledger.Ledger, saleID ledger.SaleID, status ledger.SaleStatus, at time.Time) (*ledger.Ledger, error) {
	if !ledger.ValidSaleStatus(status) {
		return nil, fmt.Errorf("%w: unknown sale status %q", ledger.ErrInvalidQuantity, status)
	}
	sale := l.Sale(saleID)
	if sale == nil {
		return nil, &ledger.NotFoundError{Kind: "sale", ID: string(saleID)}
	}
	if sale.Status == status {
		return l, nil
	}

	reactivating := sale.Status == ledger.SaleCancelled && status != ledger.SaleCancelled
	cancelling := status == ledger.SaleCancelled

	// Reactivation must re-deduct the non-returned quantities; validate
	// against the input snapshot before mutating.
	if reactivating {
		required := outstandingQuantities(sale)
		for id, qty := range required {
			p := l.Product(id)
			if p == nil {
				return nil, &ledger.NotFoundError{Kind: "product", ID: string(id)}
			}
			if p.Stock < qty {
				return nil, &ledger.InsufficientStockError{
					ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: qty, Restoring: true,
				}
			}
		}
	}

	next := l.Clone()
	s := next.Sale(saleID)
	s.Status = status

	switch {
	case cancelling:
		for id, qty := range outstandingQuantities(s) {
			if p := next.Product(id); p != nil {
				p.Stock += qty
			}
		}
		if s.CustomerID != "" {
			if c := next.Customer(s.CustomerID); c != nil {
				applySaleAggregates(c, s, -1)
			}
		}
	case reactivating:
		for id, qty := range outstandingQuantities(s) {
			next.Product(id).Stock -= qty
		}
		if s.CustomerID != "" {
			if c := next.Customer(s.CustomerID); c != nil {
				applySaleAggregates(c, s, +1)
			}
		}
	}

	ledger.RecordAudit(next, at, "sale_status_updated", ledger.AuditSales, string(saleID),
		fmt.Sprintf("sale %s: status %s", saleID, status))
	return next, nil
}

// outstandingQuantities aggregates quantity minus returned quantity per
// product. Returned units were already restocked by the return processor and
// must never be credited twice.
func outstandingQuantities(s *ledger.Sale) map[ledger.ProductID]int {
	out := make(map[ledger.ProductID]int)
	for _, item := range s.Items {
		if qty := item.Quantity - item.ReturnedQuantity; qty > 0 {
			out[item.ProductID] += qty
		}
	}
	return out
}

// =============================================================================
// DUPLICATE - Re-order a past sale
// =============================================================================

// Duplicate builds a fresh proposal from an existing sale - same items at the
// same snapshotted prices with return metadata cleared, same discount, fee,
// customer, and delivery setup - with nothing paid yet, and delegates to
// Create. Stock and customer aggregates are therefore validated and applied
// exactly as for any new sale.
func Duplicate(l *ledger.Ledger, sourceID, newID ledger.SaleID, at time.Time) (*ledger.Ledger, error) {
	src := l.Sale(sourceID)
	if src == nil {
		return nil, &ledger.NotFoundError{Kind: "sale", ID: string(sourceID)}
	}

	items := make([]LineInput, len(src.Items))
	for i, item := range src.Items {
		items[i] = LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	zero := decimal.Zero
	return Create(l, CreateInput{
		ID:          newID,
		At:          at,
		Items:       items,
		Discount:    src.Discount,
		DeliveryFee: src.DeliveryFee,
		Paid:        &zero,
		CustomerID:  src.CustomerID,
		Delivery:    src.DriverID != "" || src.DeliveryFee.IsPositive(),
		DriverID:    src.DriverID,
	})
}

// floorZero clamps a monetary amount at zero.
func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
