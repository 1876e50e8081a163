/*
Package ledger provides the core entity types and the Ledger aggregate for the
retail transaction engine.

PURPOSE:
  This package contains the shared vocabulary for every engine operation:
  products, sales, returns, wholesale trade, customers, staff, payroll, and the
  audit trail. Whether the mutation is a retail sale, a stocktake, or a payroll
  run, the same aggregate carries the state in and out.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product/Sale/SaleReturn: the retail core (stock, line items, returns)
  - WholesalePartner/WholesaleTransaction: bulk trade with buyers and suppliers
  - Customer: incrementally maintained purchase/points aggregates
  - Employee/AttendanceRecord/SalaryTransaction: HR and payroll
  - Expense/StockAdjustmentLog/AuditLogEntry: derived bookkeeping records

DESIGN PRINCIPLES:
  1. Immutability: history records are appended, never edited
  2. Precision: monetary fields use decimal.Decimal, never float64
  3. Type Safety: strong typing for IDs prevents mixing sale/product/customer IDs
  4. Closed enums: statuses and transaction kinds are fixed sets, not open strings

SEE ALSO:
  - ledger.go: the Ledger aggregate and deep-copy discipline
  - errors.go: typed domain errors raised by engine operations
  - audit.go: the capped audit log recorder
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProductID string
type SaleID string
type ReturnID string
type PartnerID string
type TransactionID string
type CustomerID string
type EmployeeID string

// =============================================================================
// PRODUCT - Catalog entry with live stock
// =============================================================================

// Product is a catalog entry. Stock is the live on-hand count and must never
// go negative; every engine operation validates deductions before applying
// them.
type Product struct {
	ID        ProductID
	Name      string
	Category  string
	Barcode   string
	Price     decimal.Decimal
	CostPrice decimal.Decimal
	Stock     int
	MinStock  int
	ExpiryDate *time.Time
}

// =============================================================================
// SALE - Retail order with embedded line items
// =============================================================================

type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
	SaleDelivered SaleStatus = "delivered"
	SaleCancelled SaleStatus = "cancelled"
)

// ValidSaleStatus reports whether s is one of the closed set of statuses.
func ValidSaleStatus(s SaleStatus) bool {
	switch s {
	case SaleCompleted, SalePending, SaleDelivered, SaleCancelled:
		return true
	}
	return false
}

// SaleItem is a line item. Name and UnitPrice are snapshots taken at sale
// time; later catalog edits do not rewrite history. ReturnedQuantity is the
// only field mutated after creation (by the return processor).
type SaleItem struct {
	ProductID        ProductID
	Name             string
	UnitPrice        decimal.Decimal
	Quantity         int
	ReturnedQuantity int
}

// Sale is a retail order. Identity and line-item composition are immutable
// once created; only Status, ReturnedQuantity on items, and the derived
// financial fields adjusted by returns ever change.
type Sale struct {
	ID              SaleID
	Timestamp       time.Time
	Items           []SaleItem
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	TotalCost       decimal.Decimal
	TotalProfit     decimal.Decimal
	PointsEarned    int
	CustomerID      CustomerID
	DriverID        EmployeeID
	Status          SaleStatus
}

// =============================================================================
// SALE RETURN - Partial return against an existing sale
// =============================================================================

// ReturnedItem is one returned line with its proportional refund share.
type ReturnedItem struct {
	ProductID    ProductID
	Quantity     int
	RefundAmount decimal.Decimal
}

// SaleReturn references the original sale; it does not own it. Append-only.
type SaleReturn struct {
	ID          ReturnID
	SaleID      SaleID
	Timestamp   time.Time
	Items       []ReturnedItem
	TotalRefund decimal.Decimal
}

// =============================================================================
// WHOLESALE - Bulk trade with partners
// =============================================================================

type PartnerType string

const (
	PartnerBuyer    PartnerType = "buyer"
	PartnerSupplier PartnerType = "supplier"
)

type WholesalePartner struct {
	ID      PartnerID
	Name    string
	Contact string
	Type    PartnerType
}

type WholesaleType string

const (
	// WholesaleSale is a bulk retail-style delivery to a buyer: stock decreases.
	WholesaleSale WholesaleType = "sale"
	// WholesalePurchase is a supplier delivery: stock increases.
	WholesalePurchase WholesaleType = "purchase"
)

type WholesaleItem struct {
	ProductID ProductID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// WholesaleTransaction is append-only after creation; later debt payments
// increase PaidAmount and nothing else.
type WholesaleTransaction struct {
	ID         TransactionID
	PartnerID  PartnerID
	Type       WholesaleType
	Items      []WholesaleItem
	Timestamp  time.Time
	Total      decimal.Decimal
	PaidAmount decimal.Decimal
}

// =============================================================================
// CUSTOMER - Incrementally maintained aggregates
// =============================================================================

// Customer aggregates (TotalPurchases, InvoiceCount, TotalPoints) are
// maintained incrementally, not recomputed from sale history. Every operation
// that touches a customer-linked sale must adjust them symmetrically; the
// sales package centralizes that in one helper.
type Customer struct {
	ID             CustomerID
	Name           string
	Phone          string
	TotalPurchases decimal.Decimal
	InvoiceCount   int
	TotalPoints    int
	LastOrderAt    *time.Time
}

// =============================================================================
// EMPLOYEES, ATTENDANCE, PAYROLL
// =============================================================================

type EmployeeRole string

const (
	RoleAdmin    EmployeeRole = "admin"
	RoleCashier  EmployeeRole = "cashier"
	RoleDelivery EmployeeRole = "delivery"
)

type Employee struct {
	ID         EmployeeID
	Name       string
	Role       EmployeeRole
	BaseSalary decimal.Decimal
	IsActive   bool
}

type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "present"
	AttendanceOnBreak   AttendanceStatus = "on_break"
	AttendanceCompleted AttendanceStatus = "completed"
)

// Break is one rest interval within a working day. End is nil while the break
// is open.
type Break struct {
	Start time.Time
	End   *time.Time
}

// AttendanceRecord tracks one employee's day. At most one record exists per
// (employee, date); Date is the calendar day key in 2006-01-02 form.
type AttendanceRecord struct {
	ID         string
	EmployeeID EmployeeID
	Date       string
	CheckIn    time.Time
	CheckOut   *time.Time
	Breaks     []Break
	Status     AttendanceStatus
}

// AttendanceAction is the closed set of state-machine inputs for a working
// day.
type AttendanceAction string

const (
	ActionCheckIn    AttendanceAction = "check_in"
	ActionBreakStart AttendanceAction = "break_start"
	ActionBreakEnd   AttendanceAction = "break_end"
	ActionCheckOut   AttendanceAction = "check_out"
)

type SalaryType string

const (
	SalaryPayment SalaryType = "salary"
	SalaryAdvance SalaryType = "advance"
	SalaryBonus   SalaryType = "bonus"
)

// SalaryTransaction records a payroll disbursement. Each one deterministically
// produces exactly one matching Expense so payroll reduces reported net cash
// through the expense ledger exactly once.
type SalaryTransaction struct {
	ID         string
	EmployeeID EmployeeID
	Amount     decimal.Decimal
	Type       SalaryType
	Notes      string
	Timestamp  time.Time
}

// =============================================================================
// DERIVED BOOKKEEPING RECORDS
// =============================================================================

// Expense is a general ledger expense. EmployeeID is set when the expense was
// auto-generated by payroll or by shrinkage during a stocktake.
type Expense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Timestamp   time.Time
	EmployeeID  EmployeeID
}

// StockAdjustmentLog records one stocktaking correction. Append-only.
type StockAdjustmentLog struct {
	ID         string
	ProductID  ProductID
	OldStock   int
	NewStock   int
	Reason     string
	EmployeeID EmployeeID
	Timestamp  time.Time
}
