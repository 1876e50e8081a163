/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary amounts cross the wire as decimal strings ("12.50"), never as
  floats. Handlers parse them with decimal.NewFromString and reject anything
  that does not parse.

VALIDATION:
  Validation is done in handlers and in the engine, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/seed.go: SeedJSON, the scenario document shape
*/
package api

import (
	"time"

	"github.com/warp/retail-ledger/ledger"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// ProductDTO represents a catalog product in API responses.
type ProductDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Barcode   string `json:"barcode,omitempty"`
	Price     string `json:"price"`
	CostPrice string `json:"cost_price"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
	LowStock  bool   `json:"low_stock"`
}

// ProductRequest creates or updates a product. Stock is only honored on
// creation; live stock is owned by sales, wholesale, and stocktaking.
type ProductRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Barcode   string `json:"barcode"`
	Price     string `json:"price"`
	CostPrice string `json:"cost_price"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}

type CustomerDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	TotalPurchases string  `json:"total_purchases"`
	InvoiceCount   int     `json:"invoice_count"`
	TotalPoints    int     `json:"total_points"`
	LastOrderAt    *string `json:"last_order_at,omitempty"`
}

// CustomerRequest creates or updates a customer. Purchase aggregates are
// engine-maintained and never writable through the API.
type CustomerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	BaseSalary string `json:"base_salary"`
	IsActive   bool   `json:"is_active"`
}

type EmployeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	BaseSalary string `json:"base_salary"`
	IsActive   bool   `json:"is_active"`
}

type PartnerDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Type    string `json:"type"`
}

type PartnerRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Type    string `json:"type"`
}

// =============================================================================
// SALES TYPES
// =============================================================================

type SaleItemDTO struct {
	ProductID        string `json:"product_id"`
	Name             string `json:"name"`
	UnitPrice        string `json:"unit_price"`
	Quantity         int    `json:"quantity"`
	ReturnedQuantity int    `json:"returned_quantity"`
}

type SaleDTO struct {
	ID              string        `json:"id"`
	Timestamp       string        `json:"timestamp"`
	Items           []SaleItemDTO `json:"items"`
	Subtotal        string        `json:"subtotal"`
	Discount        string        `json:"discount"`
	DeliveryFee     string        `json:"delivery_fee"`
	Total           string        `json:"total"`
	PaidAmount      string        `json:"paid_amount"`
	RemainingAmount string        `json:"remaining_amount"`
	TotalCost       string        `json:"total_cost"`
	TotalProfit     string        `json:"total_profit"`
	PointsEarned    int           `json:"points_earned"`
	CustomerID      string        `json:"customer_id,omitempty"`
	DriverID        string        `json:"driver_id,omitempty"`
	Status          string        `json:"status"`
}

type SaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	// UnitPrice overrides the catalog price when set (negotiated price).
	UnitPrice string `json:"unit_price,omitempty"`
}

type CreateSaleRequest struct {
	Items       []SaleLineRequest `json:"items"`
	Discount    string            `json:"discount,omitempty"`
	DeliveryFee string            `json:"delivery_fee,omitempty"`
	// Paid is the amount received; omitted means paid in full.
	Paid       *string `json:"paid,omitempty"`
	CustomerID string  `json:"customer_id,omitempty"`
	Delivery   bool    `json:"delivery"`
	DriverID   string  `json:"driver_id,omitempty"`
}

type UpdateSaleStatusRequest struct {
	Status string `json:"status"`
}

// =============================================================================
// RETURN TYPES
// =============================================================================

type ReturnedItemDTO struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	RefundAmount string `json:"refund_amount"`
}

type ReturnDTO struct {
	ID          string            `json:"id"`
	SaleID      string            `json:"sale_id"`
	Timestamp   string            `json:"timestamp"`
	Items       []ReturnedItemDTO `json:"items"`
	TotalRefund string            `json:"total_refund"`
}

type ReturnLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateReturnRequest struct {
	SaleID string              `json:"sale_id"`
	Items  []ReturnLineRequest `json:"items"`
}

// =============================================================================
// WHOLESALE TYPES
// =============================================================================

type WholesaleItemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type WholesaleDTO struct {
	ID         string             `json:"id"`
	PartnerID  string             `json:"partner_id"`
	Type       string             `json:"type"`
	Items      []WholesaleItemDTO `json:"items"`
	Timestamp  string             `json:"timestamp"`
	Total      string             `json:"total"`
	PaidAmount string             `json:"paid_amount"`
	Remaining  string             `json:"remaining"`
}

type WholesaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type CreateWholesaleRequest struct {
	PartnerID string                 `json:"partner_id"`
	Type      string                 `json:"type"`
	Items     []WholesaleLineRequest `json:"items"`
	// Total overrides the computed sum when set (negotiated bulk price).
	Total      string `json:"total,omitempty"`
	PaidAmount string `json:"paid_amount,omitempty"`
}

type PayDebtRequest struct {
	Amount string `json:"amount"`
}

// =============================================================================
// INVENTORY TYPES
// =============================================================================

type StockAdjustmentDTO struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	OldStock   int    `json:"old_stock"`
	NewStock   int    `json:"new_stock"`
	Reason     string `json:"reason"`
	EmployeeID string `json:"employee_id,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type AdjustStockRequest struct {
	ProductID  string `json:"product_id"`
	CountedQty int    `json:"counted_qty"`
	Reason     string `json:"reason"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// =============================================================================
// HR TYPES
// =============================================================================

type BreakDTO struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type AttendanceDTO struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Date       string     `json:"date"`
	CheckIn    string     `json:"check_in"`
	CheckOut   *string    `json:"check_out,omitempty"`
	Breaks     []BreakDTO `json:"breaks"`
	Status     string     `json:"status"`
}

type AttendanceRequest struct {
	Action string `json:"action"`
}

type SalaryDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Amount     string `json:"amount"`
	Type       string `json:"type"`
	Notes      string `json:"notes,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type SalaryRequest struct {
	EmployeeID string `json:"employee_id"`
	Amount     string `json:"amount"`
	Type       string `json:"type"`
	Notes      string `json:"notes"`
}

// =============================================================================
// BOOKKEEPING TYPES
// =============================================================================

type ExpenseDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Timestamp   string `json:"timestamp"`
	EmployeeID  string `json:"employee_id,omitempty"`
}

type AuditEntryDTO struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Category  string `json:"category"`
	Details   string `json:"details"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toProductDTO(p ledger.Product) ProductDTO {
	return ProductDTO{
		ID:        string(p.ID),
		Name:      p.Name,
		Category:  p.Category,
		Barcode:   p.Barcode,
		Price:     p.Price.String(),
		CostPrice: p.CostPrice.String(),
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		LowStock:  p.Stock <= p.MinStock,
	}
}

func toCustomerDTO(c ledger.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:             string(c.ID),
		Name:           c.Name,
		Phone:          c.Phone,
		TotalPurchases: c.TotalPurchases.String(),
		InvoiceCount:   c.InvoiceCount,
		TotalPoints:    c.TotalPoints,
	}
	if c.LastOrderAt != nil {
		s := c.LastOrderAt.Format(time.RFC3339)
		dto.LastOrderAt = &s
	}
	return dto
}

func toEmployeeDTO(e ledger.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         string(e.ID),
		Name:       e.Name,
		Role:       string(e.Role),
		BaseSalary: e.BaseSalary.String(),
		IsActive:   e.IsActive,
	}
}

func toPartnerDTO(p ledger.WholesalePartner) PartnerDTO {
	return PartnerDTO{
		ID:      string(p.ID),
		Name:    p.Name,
		Contact: p.Contact,
		Type:    string(p.Type),
	}
}

func toSaleDTO(s ledger.Sale) SaleDTO {
	items := make([]SaleItemDTO, len(s.Items))
	for i, it := range s.Items {
		items[i] = SaleItemDTO{
			ProductID:        string(it.ProductID),
			Name:             it.Name,
			UnitPrice:        it.UnitPrice.String(),
			Quantity:         it.Quantity,
			ReturnedQuantity: it.ReturnedQuantity,
		}
	}
	return SaleDTO{
		ID:              string(s.ID),
		Timestamp:       s.Timestamp.Format(time.RFC3339),
		Items:           items,
		Subtotal:        s.Subtotal.String(),
		Discount:        s.Discount.String(),
		DeliveryFee:     s.DeliveryFee.String(),
		Total:           s.Total.String(),
		PaidAmount:      s.PaidAmount.String(),
		RemainingAmount: s.RemainingAmount.String(),
		TotalCost:       s.TotalCost.String(),
		TotalProfit:     s.TotalProfit.String(),
		PointsEarned:    s.PointsEarned,
		CustomerID:      string(s.CustomerID),
		DriverID:        string(s.DriverID),
		Status:          string(s.Status),
	}
}

func toReturnDTO(r ledger.SaleReturn) ReturnDTO {
	items := make([]ReturnedItemDTO, len(r.Items))
	for i, it := range r.Items {
		items[i] = ReturnedItemDTO{
			ProductID:    string(it.ProductID),
			Quantity:     it.Quantity,
			RefundAmount: it.RefundAmount.String(),
		}
	}
	return ReturnDTO{
		ID:          string(r.ID),
		SaleID:      string(r.SaleID),
		Timestamp:   r.Timestamp.Format(time.RFC3339),
		Items:       items,
		TotalRefund: r.TotalRefund.String(),
	}
}

func toWholesaleDTO(tx ledger.WholesaleTransaction) WholesaleDTO {
	items := make([]WholesaleItemDTO, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = WholesaleItemDTO{
			ProductID: string(it.ProductID),
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.String(),
		}
	}
	return WholesaleDTO{
		ID:         string(tx.ID),
		PartnerID:  string(tx.PartnerID),
		Type:       string(tx.Type),
		Items:      items,
		Timestamp:  tx.Timestamp.Format(time.RFC3339),
		Total:      tx.Total.String(),
		PaidAmount: tx.PaidAmount.String(),
		Remaining:  tx.Total.Sub(tx.PaidAmount).String(),
	}
}

func toStockAdjustmentDTO(a ledger.StockAdjustmentLog) StockAdjustmentDTO {
	return StockAdjustmentDTO{
		ID:         a.ID,
		ProductID:  string(a.ProductID),
		OldStock:   a.OldStock,
		NewStock:   a.NewStock,
		Reason:     a.Reason,
		EmployeeID: string(a.EmployeeID),
		Timestamp:  a.Timestamp.Format(time.RFC3339),
	}
}

func toAttendanceDTO(a ledger.AttendanceRecord) AttendanceDTO {
	breaks := make([]BreakDTO, len(a.Breaks))
	for i, b := range a.Breaks {
		dto := BreakDTO{Start: b.Start.Format(time.RFC3339)}
		if b.End != nil {
			s := b.End.Format(time.RFC3339)
			dto.End = &s
		}
		breaks[i] = dto
	}
	dto := AttendanceDTO{
		ID:         a.ID,
		EmployeeID: string(a.EmployeeID),
		Date:       a.Date,
		CheckIn:    a.CheckIn.Format(time.RFC3339),
		Breaks:     breaks,
		Status:     string(a.Status),
	}
	if a.CheckOut != nil {
		s := a.CheckOut.Format(time.RFC3339)
		dto.CheckOut = &s
	}
	return dto
}

func toSalaryDTO(tx ledger.SalaryTransaction) SalaryDTO {
	return SalaryDTO{
		ID:         tx.ID,
		EmployeeID: string(tx.EmployeeID),
		Amount:     tx.Amount.String(),
		Type:       string(tx.Type),
		Notes:      tx.Notes,
		Timestamp:  tx.Timestamp.Format(time.RFC3339),
	}
}

func toExpenseDTO(e ledger.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.String(),
		Timestamp:   e.Timestamp.Format(time.RFC3339),
		EmployeeID:  string(e.EmployeeID),
	}
}

func toAuditEntryDTO(e ledger.AuditLogEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Action:    e.Action,
		Category:  string(e.Category),
		Details:   e.Details,
	}
}
