/*
ledger.go - The Ledger aggregate and its deep-copy discipline

PURPOSE:
  The Ledger is the single aggregate snapshot: every entity collection plus
  scalar configuration. Engine operations take one Ledger and yield one Ledger.

CRITICAL INVARIANTS:
  1. SNAPSHOT IN, SNAPSHOT OUT: operations never mutate the input Ledger.
     They Clone() it, mutate the clone, and return it.
  2. ALL-OR-NOTHING: validation failures return before the clone is produced
     or diverges, so a caller that discards the result on error keeps an
     untouched snapshot.
  3. NO SHARING: no entity is shared by reference across two Ledger instances
     after a mutation. Clone() copies every slice and every embedded slice.
  4. ORDERING: history collections are most-recent-first. New records are
     prepended, never appended.

WHY DEEP COPY INSTEAD OF STRUCTURAL SHARING?
  The collections are small (single-tenant retail), the engine is synchronous
  and single-writer, and a full copy keeps the contract trivially auditable:
  there is no partially-applied state to reason about, ever.

SEE ALSO:
  - types.go: the entity types held here
  - audit.go: the capped audit trail appended by every operation
*/
package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// LEDGER - Aggregate root
// =============================================================================

// Ledger is the aggregate root. Exactly one instance is current at a time;
// callers persist the returned snapshot before invoking the next operation.
type Ledger struct {
	// Scalar configuration
	InitialCash        decimal.Decimal
	Currency           string
	DraftExpiryMinutes int

	// Entity collections. History slices are most-recent-first.
	Products              []Product
	Sales                 []Sale
	Returns               []SaleReturn
	Partners              []WholesalePartner
	WholesaleTransactions []WholesaleTransaction
	Customers             []Customer
	Employees             []Employee
	Attendance            []AttendanceRecord
	SalaryTransactions    []SalaryTransaction
	Expenses              []Expense
	StockAdjustments      []StockAdjustmentLog
	AuditLog              []AuditLogEntry
}

// New returns an empty Ledger with default configuration.
func New() *Ledger {
	return &Ledger{
		Currency:           "USD",
		DraftExpiryMinutes: 30,
	}
}

// =============================================================================
// CLONE - Full deep copy at the aggregate boundary
// =============================================================================

// Clone returns a Ledger that is logically independent of the receiver.
// Every slice is copied, including slices embedded in entities (sale items,
// wholesale items, breaks, returned items). decimal.Decimal values are
// immutable and safe to copy by value.
func (l *Ledger) Clone() *Ledger {
	c := *l

	c.Products = append([]Product(nil), l.Products...)
	c.Partners = append([]WholesalePartner(nil), l.Partners...)
	c.Customers = append([]Customer(nil), l.Customers...)
	c.Employees = append([]Employee(nil), l.Employees...)
	c.SalaryTransactions = append([]SalaryTransaction(nil), l.SalaryTransactions...)
	c.Expenses = append([]Expense(nil), l.Expenses...)
	c.StockAdjustments = append([]StockAdjustmentLog(nil), l.StockAdjustments...)
	c.AuditLog = append([]AuditLogEntry(nil), l.AuditLog...)

	c.Sales = make([]Sale, len(l.Sales))
	for i, s := range l.Sales {
		s.Items = append([]SaleItem(nil), s.Items...)
		c.Sales[i] = s
	}

	c.Returns = make([]SaleReturn, len(l.Returns))
	for i, r := range l.Returns {
		r.Items = append([]ReturnedItem(nil), r.Items...)
		c.Returns[i] = r
	}

	c.WholesaleTransactions = make([]WholesaleTransaction, len(l.WholesaleTransactions))
	for i, tx := range l.WholesaleTransactions {
		tx.Items = append([]WholesaleItem(nil), tx.Items...)
		c.WholesaleTransactions[i] = tx
	}

	c.Attendance = make([]AttendanceRecord, len(l.Attendance))
	for i, a := range l.Attendance {
		a.Breaks = append([]Break(nil), a.Breaks...)
		c.Attendance[i] = a
	}

	return &c
}

// =============================================================================
// LOOKUPS - Pointers into the receiver's collections
// =============================================================================
// The returned pointers alias the receiver's backing arrays. Engine code only
// calls these on a clone it owns; read-only callers must not mutate through
// them.

// Product returns the product with the given id, or nil.
func (l *Ledger) Product(id ProductID) *Product {
	for i := range l.Products {
		if l.Products[i].ID == id {
			return &l.Products[i]
		}
	}
	return nil
}

// Sale returns the sale with the given id, or nil.
func (l *Ledger) Sale(id SaleID) *Sale {
	for i := range l.Sales {
		if l.Sales[i].ID == id {
			return &l.Sales[i]
		}
	}
	return nil
}

// Customer returns the customer with the given id, or nil.
func (l *Ledger) Customer(id CustomerID) *Customer {
	for i := range l.Customers {
		if l.Customers[i].ID == id {
			return &l.Customers[i]
		}
	}
	return nil
}

// Employee returns the employee with the given id, or nil.
func (l *Ledger) Employee(id EmployeeID) *Employee {
	for i := range l.Employees {
		if l.Employees[i].ID == id {
			return &l.Employees[i]
		}
	}
	return nil
}

// Partner returns the wholesale partner with the given id, or nil.
func (l *Ledger) Partner(id PartnerID) *WholesalePartner {
	for i := range l.Partners {
		if l.Partners[i].ID == id {
			return &l.Partners[i]
		}
	}
	return nil
}

// WholesaleTransaction returns the wholesale transaction with the given id,
// or nil.
func (l *Ledger) WholesaleTransaction(id TransactionID) *WholesaleTransaction {
	for i := range l.WholesaleTransactions {
		if l.WholesaleTransactions[i].ID == id {
			return &l.WholesaleTransactions[i]
		}
	}
	return nil
}

// AttendanceFor returns the attendance record for (employee, date), or nil.
// Date is a 2006-01-02 calendar day key.
func (l *Ledger) AttendanceFor(employeeID EmployeeID, date string) *AttendanceRecord {
	for i := range l.Attendance {
		if l.Attendance[i].EmployeeID == employeeID && l.Attendance[i].Date == date {
			return &l.Attendance[i]
		}
	}
	return nil
}
