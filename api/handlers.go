/*
handlers.go - HTTP API handlers for the retail transaction engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response, JSON
  serialization, id and timestamp supply, and delegates every business rule
  to the engine packages.

ENDPOINTS:
  Catalog:
    GET/POST   /api/products           List / upsert products
    DELETE     /api/products/{id}
    GET/POST   /api/customers          List / upsert customers
    DELETE     /api/customers/{id}
    GET/POST   /api/employees          List / upsert employees
    DELETE     /api/employees/{id}
    GET/POST   /api/partners           List / upsert wholesale partners
    DELETE     /api/partners/{id}

  Sales:
    GET    /api/sales                  Sales history (most recent first)
    POST   /api/sales                  Create sale
    GET    /api/sales/{id}
    PUT    /api/sales/{id}/status      Delivery lifecycle transition
    POST   /api/sales/{id}/duplicate   Repeat order as unpaid copy
    GET    /api/returns                Return history
    POST   /api/returns                Process partial return

  Wholesale:
    GET    /api/wholesale              Transaction history
    POST   /api/wholesale              Record sale/purchase
    POST   /api/wholesale/{id}/payments  Pay down partner debt

  Inventory:
    GET    /api/inventory/adjustments  Stocktake log
    POST   /api/inventory/adjustments  Apply stocktake count

  HR:
    POST   /api/employees/{id}/attendance  Attendance action
    GET    /api/attendance             Attendance records
    GET    /api/payroll                Salary history
    POST   /api/payroll                Pay salary/advance/bonus

  Bookkeeping:
    GET    /api/expenses               Expense ledger
    GET    /api/audit                  Capped audit trail

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario
    POST   /api/scenarios/reset        Reset to an empty ledger

ARCHITECTURE:
  Handler owns the current Ledger snapshot behind a mutex. Every mutation
  runs the engine against the current snapshot, persists the returned one,
  and only then installs it. A failed operation or a failed save leaves the
  current snapshot untouched.

  The mutex is a single-writer boundary for a single-tenant deployment, not
  concurrency support: two racing edits serialize, last write wins.

ERROR HANDLING:
  Engine errors map to HTTP status by classification:
  - 404: missing entity (ledger.IsNotFound)
  - 400: business-rule violation (ledger.IsClientError)
  - 500: persistence and internal faults

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario seeds
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/hr"
	"github.com/warp/retail-ledger/inventory"
	"github.com/warp/retail-ledger/ledger"
	"github.com/warp/retail-ledger/sales"
	"github.com/warp/retail-ledger/wholesale"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store ledger.SnapshotStore

	mu      sync.Mutex
	current *ledger.Ledger

	// Overridable in tests for deterministic ids and timestamps.
	now   func() time.Time
	newID func(prefix string) string

	currentScenario string
}

// NewHandler creates a handler serving the given snapshot.
func NewHandler(store ledger.SnapshotStore, initial *ledger.Ledger) *Handler {
	if initial == nil {
		initial = ledger.New()
	}
	return &Handler{
		Store:   store,
		current: initial,
		now:     time.Now,
		newID: func(prefix string) string {
			return prefix + "-" + uuid.NewString()
		},
	}
}

// mutate runs op against the current snapshot, persists the result, and
// installs it. On any failure the current snapshot is left untouched.
func (h *Handler) mutate(ctx context.Context, op func(*ledger.Ledger) (*ledger.Ledger, error)) (*ledger.Ledger, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := op(h.current)
	if err != nil {
		return nil, err
	}
	if err := h.Store.Save(ctx, next); err != nil {
		return nil, err
	}
	h.current = next
	return next, nil
}

// snapshot returns the current Ledger. Installed snapshots are never mutated
// in place, so reading through the returned pointer is safe.
func (h *Handler) snapshot() *ledger.Ledger {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListProducts returns the catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]ProductDTO, len(l.Products))
	for i, p := range l.Products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertProduct creates or updates a catalog product. Live stock is owned by
// the engine: updates keep the existing count, and corrections go through
// the stocktake endpoint.
func (h *Handler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price", err)
		return
	}
	cost, err := decimal.NewFromString(req.CostPrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cost_price", err)
		return
	}
	if req.Stock < 0 || req.MinStock < 0 {
		writeError(w, http.StatusBadRequest, "stock and min_stock must be non-negative", nil)
		return
	}

	created := false
	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		c := l.Clone()
		if p := c.Product(ledger.ProductID(req.ID)); p != nil {
			p.Name = req.Name
			p.Category = req.Category
			p.Barcode = req.Barcode
			p.Price = price
			p.CostPrice = cost
			p.MinStock = req.MinStock
			return c, nil
		}
		created = true
		c.Products = append(c.Products, ledger.Product{
			ID:        ledger.ProductID(req.ID),
			Name:      req.Name,
			Category:  req.Category,
			Barcode:   req.Barcode,
			Price:     price,
			CostPrice: cost,
			Stock:     req.Stock,
			MinStock:  req.MinStock,
		})
		return c, nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toProductDTO(*next.Product(ledger.ProductID(req.ID))))
}

// DeleteProduct removes a product from the catalog. Sales history keeps its
// own name/price snapshots, so past records stay intact.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := ledger.ProductID(chi.URLParam(r, "id"))
	h.deleteEntity(w, r, func(c *ledger.Ledger) bool {
		for i := range c.Products {
			if c.Products[i].ID == id {
				c.Products = append(c.Products[:i], c.Products[i+1:]...)
				return true
			}
		}
		return false
	}, "Product not found")
}

// ListCustomers returns all customers with their purchase aggregates.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]CustomerDTO, len(l.Customers))
	for i, c := range l.Customers {
		dtos[i] = toCustomerDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertCustomer creates or updates a customer. Aggregates are preserved on
// update; the engine alone maintains them.
func (h *Handler) UpsertCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	created := false
	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		c := l.Clone()
		if cust := c.Customer(ledger.CustomerID(req.ID)); cust != nil {
			cust.Name = req.Name
			cust.Phone = req.Phone
			return c, nil
		}
		created = true
		c.Customers = append(c.Customers, ledger.Customer{
			ID:    ledger.CustomerID(req.ID),
			Name:  req.Name,
			Phone: req.Phone,
		})
		return c, nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toCustomerDTO(*next.Customer(ledger.CustomerID(req.ID))))
}

// DeleteCustomer removes a customer. Past sales keep their customer_id
// reference; lookups on it simply return nothing.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := ledger.CustomerID(chi.URLParam(r, "id"))
	h.deleteEntity(w, r, func(c *ledger.Ledger) bool {
		for i := range c.Customers {
			if c.Customers[i].ID == id {
				c.Customers = append(c.Customers[:i], c.Customers[i+1:]...)
				return true
			}
		}
		return false
	}, "Customer not found")
}

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]EmployeeDTO, len(l.Employees))
	for i, e := range l.Employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertEmployee creates or updates an employee.
func (h *Handler) UpsertEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	role := ledger.EmployeeRole(req.Role)
	switch role {
	case ledger.RoleAdmin, ledger.RoleCashier, ledger.RoleDelivery:
	default:
		writeError(w, http.StatusBadRequest, "Unknown role (use admin, cashier, or delivery)", nil)
		return
	}
	salary := decimal.Zero
	if req.BaseSalary != "" {
		var err error
		salary, err = decimal.NewFromString(req.BaseSalary)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid base_salary", err)
			return
		}
	}

	created := false
	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		c := l.Clone()
		if emp := c.Employee(ledger.EmployeeID(req.ID)); emp != nil {
			emp.Name = req.Name
			emp.Role = role
			emp.BaseSalary = salary
			emp.IsActive = req.IsActive
			return c, nil
		}
		created = true
		c.Employees = append(c.Employees, ledger.Employee{
			ID:         ledger.EmployeeID(req.ID),
			Name:       req.Name,
			Role:       role,
			BaseSalary: salary,
			IsActive:   req.IsActive,
		})
		return c, nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toEmployeeDTO(*next.Employee(ledger.EmployeeID(req.ID))))
}

// DeleteEmployee removes an employee. Attendance and payroll history keep
// their employee_id references.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := ledger.EmployeeID(chi.URLParam(r, "id"))
	h.deleteEntity(w, r, func(c *ledger.Ledger) bool {
		for i := range c.Employees {
			if c.Employees[i].ID == id {
				c.Employees = append(c.Employees[:i], c.Employees[i+1:]...)
				return true
			}
		}
		return false
	}, "Employee not found")
}

// ListPartners returns all wholesale partners.
func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]PartnerDTO, len(l.Partners))
	for i, p := range l.Partners {
		dtos[i] = toPartnerDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertPartner creates or updates a wholesale partner.
func (h *Handler) UpsertPartner(w http.ResponseWriter, r *http.Request) {
	var req PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	typ := ledger.PartnerType(req.Type)
	if typ != ledger.PartnerBuyer && typ != ledger.PartnerSupplier {
		writeError(w, http.StatusBadRequest, "Unknown partner type (use buyer or supplier)", nil)
		return
	}

	created := false
	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		c := l.Clone()
		if p := c.Partner(ledger.PartnerID(req.ID)); p != nil {
			p.Name = req.Name
			p.Contact = req.Contact
			p.Type = typ
			return c, nil
		}
		created = true
		c.Partners = append(c.Partners, ledger.WholesalePartner{
			ID:      ledger.PartnerID(req.ID),
			Name:    req.Name,
			Contact: req.Contact,
			Type:    typ,
		})
		return c, nil
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toPartnerDTO(*next.Partner(ledger.PartnerID(req.ID))))
}

// DeletePartner removes a wholesale partner.
func (h *Handler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id := ledger.PartnerID(chi.URLParam(r, "id"))
	h.deleteEntity(w, r, func(c *ledger.Ledger) bool {
		for i := range c.Partners {
			if c.Partners[i].ID == id {
				c.Partners = append(c.Partners[:i], c.Partners[i+1:]...)
				return true
			}
		}
		return false
	}, "Partner not found")
}

// deleteEntity applies remove to a clone of the current snapshot and persists
// it when remove reports a hit.
func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request, remove func(*ledger.Ledger) bool, notFoundMsg string) {
	found := false
	_, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		c := l.Clone()
		found = remove(c)
		if !found {
			return nil, ledger.ErrNotFound
		}
		return c, nil
	})
	if err != nil {
		if !found {
			writeError(w, http.StatusNotFound, notFoundMsg, nil)
			return
		}
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// SALES HANDLERS
// =============================================================================

// ListSales returns the sales history, most recent first.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]SaleDTO, len(l.Sales))
	for i, s := range l.Sales {
		dtos[i] = toSaleDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSale returns a single sale.
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	s := l.Sale(ledger.SaleID(chi.URLParam(r, "id")))
	if s == nil {
		writeError(w, http.StatusNotFound, "Sale not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSaleDTO(*s))
}

// CreateSale creates a new sale through the engine.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	discount, err := parseMoney(req.Discount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid discount", err)
		return
	}
	fee, err := parseMoney(req.DeliveryFee)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delivery_fee", err)
		return
	}
	var paid *decimal.Decimal
	if req.Paid != nil {
		p, err := decimal.NewFromString(*req.Paid)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid paid amount", err)
			return
		}
		paid = &p
	}

	// Pre-parse negotiated unit prices; lines without one take the catalog
	// price at creation time.
	overrides := make([]*decimal.Decimal, len(req.Items))
	for i, line := range req.Items {
		if line.UnitPrice == "" {
			continue
		}
		p, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid unit_price", err)
			return
		}
		overrides[i] = &p
	}

	saleID := ledger.SaleID(h.newID("sale"))
	at := h.now()

	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		items := make([]sales.LineInput, len(req.Items))
		for i, line := range req.Items {
			unitPrice := decimal.Zero
			if overrides[i] != nil {
				unitPrice = *overrides[i]
			} else if p := l.Product(ledger.ProductID(line.ProductID)); p != nil {
				unitPrice = p.Price
			}
			items[i] = sales.LineInput{
				ProductID: ledger.ProductID(line.ProductID),
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
			}
		}
		return sales.Create(l, sales.CreateInput{
			ID:          saleID,
			At:          at,
			Items:       items,
			Discount:    discount,
			DeliveryFee: fee,
			Paid:        paid,
			CustomerID:  ledger.CustomerID(req.CustomerID),
			Delivery:    req.Delivery,
			DriverID:    ledger.EmployeeID(req.DriverID),
		})
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSaleDTO(*next.Sale(saleID)))
}

// UpdateSaleStatus applies a delivery lifecycle transition.
func (h *Handler) UpdateSaleStatus(w http.ResponseWriter, r *http.Request) {
	saleID := ledger.SaleID(chi.URLParam(r, "id"))

	var req UpdateSaleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	at := h.now()
	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		return sales.UpdateDeliveryStatus(l, saleID, ledger.SaleStatus(req.Status), at)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSaleDTO(*next.Sale(saleID)))
}

// DuplicateSale repeats a previous order as a new unpaid sale at current
// stock.
func (h *Handler) DuplicateSale(w http.ResponseWriter, r *http.Request) {
	sourceID := ledger.SaleID(chi.URLParam(r, "id"))
	newID := ledger.SaleID(h.newID("sale"))
	at := h.now()

	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		return sales.Duplicate(l, sourceID, newID, at)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSaleDTO(*next.Sale(newID)))
}

// ListReturns returns the return history, most recent first.
func (h *Handler) ListReturns(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]ReturnDTO, len(l.Returns))
	for i, ret := range l.Returns {
		dtos[i] = toReturnDTO(ret)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateReturn processes a partial return against an existing sale.
func (h *Handler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	var req CreateReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	returnID := ledger.ReturnID(h.newID("ret"))
	at := h.now()

	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		items := make([]sales.ReturnLine, len(req.Items))
		for i, line := range req.Items {
			items[i] = sales.ReturnLine{
				ProductID: ledger.ProductID(line.ProductID),
				Quantity:  line.Quantity,
			}
		}
		return sales.ProcessReturn(l, sales.ReturnInput{
			ID:     returnID,
			SaleID: ledger.SaleID(req.SaleID),
			At:     at,
			Items:  items,
		})
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	for _, ret := range next.Returns {
		if ret.ID == returnID {
			writeJSON(w, http.StatusCreated, toReturnDTO(ret))
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(returnID)})
}

// =============================================================================
// WHOLESALE HANDLERS
// =============================================================================

// ListWholesale returns the wholesale transaction history.
func (h *Handler) ListWholesale(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]WholesaleDTO, len(l.WholesaleTransactions))
	for i, tx := range l.WholesaleTransactions {
		dtos[i] = toWholesaleDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWholesale records a bulk sale or supplier purchase.
func (h *Handler) CreateWholesale(w http.ResponseWriter, r *http.Request) {
	var req CreateWholesaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	items := make([]ledger.WholesaleItem, len(req.Items))
	computedTotal := decimal.Zero
	for i, line := range req.Items {
		unitPrice, err := parseMoney(line.UnitPrice)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid unit_price", err)
			return
		}
		items[i] = ledger.WholesaleItem{
			ProductID: ledger.ProductID(line.ProductID),
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		}
		computedTotal = computedTotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	total := computedTotal
	if req.Total != "" {
		var err error
		total, err = decimal.NewFromString(req.Total)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid total", err)
			return
		}
	}
	paidAmount, err := parseMoney(req.PaidAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid paid_amount", err)
		return
	}

	txID := ledger.TransactionID(h.newID("wtx"))
	at := h.now()

	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		// Snapshot item names from the catalog at recording time.
		named := make([]ledger.WholesaleItem, len(items))
		copy(named, items)
		for i := range named {
			if p := l.Product(named[i].ProductID); p != nil {
				named[i].Name = p.Name
			}
		}
		return wholesale.Process(l, wholesale.Input{
			ID:         txID,
			PartnerID:  ledger.PartnerID(req.PartnerID),
			Type:       ledger.WholesaleType(req.Type),
			Items:      named,
			Total:      total,
			PaidAmount: paidAmount,
			At:         at,
		})
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWholesaleDTO(*next.WholesaleTransaction(txID)))
}

// PayWholesaleDebt records a partial payment against a wholesale transaction.
func (h *Handler) PayWholesaleDebt(w http.ResponseWriter, r *http.Request) {
	txID := ledger.TransactionID(chi.URLParam(r, "id"))

	var req PayDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	at := h.now()
	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		return wholesale.PayDebt(l, txID, amount, at)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWholesaleDTO(*next.WholesaleTransaction(txID)))
}

// =============================================================================
// INVENTORY HANDLERS
// =============================================================================

// ListStockAdjustments returns the stocktake log, most recent first.
func (h *Handler) ListStockAdjustments(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]StockAdjustmentDTO, len(l.StockAdjustments))
	for i, a := range l.StockAdjustments {
		dtos[i] = toStockAdjustmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AdjustStock applies a physical stocktake count.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	logID := h.newID("adj")
	at := h.now()

	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		return inventory.AdjustStock(l, inventory.AdjustInput{
			LogID:      logID,
			ExpenseID:  h.newID("exp"),
			ProductID:  ledger.ProductID(req.ProductID),
			CountedQty: req.CountedQty,
			Reason:     req.Reason,
			EmployeeID: ledger.EmployeeID(req.EmployeeID),
			At:         at,
		})
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	for _, a := range next.StockAdjustments {
		if a.ID == logID {
			writeJSON(w, http.StatusCreated, toStockAdjustmentDTO(a))
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": logID})
}

// =============================================================================
// HR HANDLERS
// =============================================================================

// RecordAttendance applies one attendance action for an employee.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID := ledger.EmployeeID(chi.URLParam(r, "id"))

	var req AttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	at := h.now()
	recordID := h.newID("att")

	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		return hr.RecordAttendance(l, employeeID, ledger.AttendanceAction(req.Action), recordID, at)
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	rec := next.AttendanceFor(employeeID, at.Format(hr.DateKey))
	writeJSON(w, http.StatusOK, toAttendanceDTO(*rec))
}

// ListAttendance returns attendance records, optionally filtered by date
// (?date=2006-01-02).
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	l := h.snapshot()

	dtos := make([]AttendanceDTO, 0, len(l.Attendance))
	for _, a := range l.Attendance {
		if date != "" && a.Date != date {
			continue
		}
		dtos = append(dtos, toAttendanceDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListSalaries returns the payroll history, most recent first.
func (h *Handler) ListSalaries(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]SalaryDTO, len(l.SalaryTransactions))
	for i, tx := range l.SalaryTransactions {
		dtos[i] = toSalaryDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PaySalary disburses a salary, advance, or bonus.
func (h *Handler) PaySalary(w http.ResponseWriter, r *http.Request) {
	var req SalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	salaryID := h.newID("sal")
	at := h.now()

	next, err := h.mutate(r.Context(), func(l *ledger.Ledger) (*ledger.Ledger, error) {
		return hr.ProcessSalary(l, hr.SalaryInput{
			ID:         salaryID,
			ExpenseID:  h.newID("exp"),
			EmployeeID: ledger.EmployeeID(req.EmployeeID),
			Amount:     amount,
			Type:       ledger.SalaryType(req.Type),
			Notes:      req.Notes,
			At:         at,
		})
	})
	if err != nil {
		writeOpError(w, err)
		return
	}

	for _, tx := range next.SalaryTransactions {
		if tx.ID == salaryID {
			writeJSON(w, http.StatusCreated, toSalaryDTO(tx))
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": salaryID})
}

// =============================================================================
// BOOKKEEPING HANDLERS
// =============================================================================

// ListExpenses returns the expense ledger, most recent first.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]ExpenseDTO, len(l.Expenses))
	for i, e := range l.Expenses {
		dtos[i] = toExpenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListAudit returns the capped audit trail, most recent first.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	l := h.snapshot()
	dtos := make([]AuditEntryDTO, len(l.AuditLog))
	for i, e := range l.AuditLog {
		dtos[i] = toAuditEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// parseMoney parses an optional decimal string; empty means zero.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeOpError maps an engine error to an HTTP status.
func writeOpError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Operation failed", err)
	}
}
