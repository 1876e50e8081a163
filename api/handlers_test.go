package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/retail-ledger/ledger"
	"github.com/warp/retail-ledger/store/memory"
)

// newTestHandler returns a handler over a seeded ledger with deterministic
// ids and timestamps.
func newTestHandler() (*Handler, *memory.Store) {
	l := ledger.New()
	l.Products = []ledger.Product{
		{ID: "p-oil", Name: "Sunflower Oil 1L", Price: money(100), CostPrice: money(60), Stock: 10, MinStock: 2},
		{ID: "p-rice", Name: "Rice 5kg", Price: money(50), CostPrice: money(30), Stock: 5, MinStock: 1},
	}
	l.Customers = []ledger.Customer{{ID: "cust-1", Name: "Amal"}}
	l.Employees = []ledger.Employee{{ID: "emp-1", Name: "Samir", Role: ledger.RoleCashier, BaseSalary: money(1200), IsActive: true}}

	store := memory.New()
	h := NewHandler(store, l)

	seq := 0
	h.newID = func(prefix string) string {
		seq++
		return fmt.Sprintf("%s-%d", prefix, seq)
	}
	h.now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	}
	return h, store
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func do(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// =============================================================================
// SALES
// =============================================================================

func TestCreateSale_DeductsStockAndPersists(t *testing.T) {
	h, store := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items:      []SaleLineRequest{{ProductID: "p-oil", Quantity: 2}},
		CustomerID: "cust-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	sale := decode[SaleDTO](t, rec)
	assert.Equal(t, "sale-1", sale.ID)
	assert.Equal(t, "200", sale.Total)
	assert.Equal(t, "120", sale.TotalCost)
	assert.Equal(t, "completed", sale.Status)

	// Stock reflected in the catalog read
	products := decode[[]ProductDTO](t, do(t, h, http.MethodGet, "/api/products", nil))
	require.Len(t, products, 2)
	assert.Equal(t, 8, products[0].Stock)

	// And the snapshot was persisted
	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Len(t, saved.Sales, 1)
}

func TestCreateSale_OutOfStockIs400(t *testing.T) {
	h, store := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: "p-rice", Quantity: 99}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was installed or persisted
	assert.Empty(t, h.snapshot().Sales)
	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestCreateSale_NegotiatedUnitPrice(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: "p-oil", Quantity: 1, UnitPrice: "90"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[SaleDTO](t, rec)
	assert.Equal(t, "90", sale.Total)
}

func TestUpdateSaleStatus_CancelRestocks(t *testing.T) {
	h, _ := newTestHandler()

	created := decode[SaleDTO](t, do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: "p-oil", Quantity: 3}},
	}))

	rec := do(t, h, http.MethodPut, "/api/sales/"+created.ID+"/status", UpdateSaleStatusRequest{Status: "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decode[SaleDTO](t, rec).Status)

	products := decode[[]ProductDTO](t, do(t, h, http.MethodGet, "/api/products", nil))
	assert.Equal(t, 10, products[0].Stock)
}

func TestUpdateSaleStatus_UnknownSaleIs404(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, http.MethodPut, "/api/sales/sale-ghost/status", UpdateSaleStatusRequest{Status: "cancelled"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateSale(t *testing.T) {
	h, _ := newTestHandler()

	created := decode[SaleDTO](t, do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: "p-oil", Quantity: 2}},
	}))

	rec := do(t, h, http.MethodPost, "/api/sales/"+created.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dup := decode[SaleDTO](t, rec)
	assert.NotEqual(t, created.ID, dup.ID)
	assert.Equal(t, "0", dup.PaidAmount)
	assert.Equal(t, created.Total, dup.RemainingAmount)
}

// =============================================================================
// RETURNS
// =============================================================================

func TestCreateReturn_RefundsAndRestocks(t *testing.T) {
	h, _ := newTestHandler()

	created := decode[SaleDTO](t, do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: "p-oil", Quantity: 2}},
	}))

	rec := do(t, h, http.MethodPost, "/api/returns", CreateReturnRequest{
		SaleID: created.ID,
		Items:  []ReturnLineRequest{{ProductID: "p-oil", Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ret := decode[ReturnDTO](t, rec)
	assert.Equal(t, "100", ret.TotalRefund)

	products := decode[[]ProductDTO](t, do(t, h, http.MethodGet, "/api/products", nil))
	assert.Equal(t, 9, products[0].Stock)
}

func TestCreateReturn_OverReturnIs400(t *testing.T) {
	h, _ := newTestHandler()

	created := decode[SaleDTO](t, do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: "p-oil", Quantity: 1}},
	}))

	rec := do(t, h, http.MethodPost, "/api/returns", CreateReturnRequest{
		SaleID: created.ID,
		Items:  []ReturnLineRequest{{ProductID: "p-oil", Quantity: 2}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// WHOLESALE
// =============================================================================

func TestCreateWholesale_PurchaseComputesTotal(t *testing.T) {
	h, _ := newTestHandler()

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/partners", PartnerRequest{
		ID: "part-1", Name: "Valley Mill", Type: "supplier",
	}).Code)

	rec := do(t, h, http.MethodPost, "/api/wholesale", CreateWholesaleRequest{
		PartnerID: "part-1",
		Type:      "purchase",
		Items:     []WholesaleLineRequest{{ProductID: "p-rice", Quantity: 20, UnitPrice: "28"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tx := decode[WholesaleDTO](t, rec)
	assert.Equal(t, "560", tx.Total)
	assert.Equal(t, "560", tx.Remaining)
	assert.Equal(t, "Rice 5kg", tx.Items[0].Name)

	products := decode[[]ProductDTO](t, do(t, h, http.MethodGet, "/api/products", nil))
	assert.Equal(t, 25, products[1].Stock)
}

func TestPayWholesaleDebt(t *testing.T) {
	h, _ := newTestHandler()

	do(t, h, http.MethodPost, "/api/partners", PartnerRequest{ID: "part-1", Name: "Valley Mill", Type: "supplier"})
	tx := decode[WholesaleDTO](t, do(t, h, http.MethodPost, "/api/wholesale", CreateWholesaleRequest{
		PartnerID: "part-1",
		Type:      "purchase",
		Items:     []WholesaleLineRequest{{ProductID: "p-rice", Quantity: 10, UnitPrice: "30"}},
	}))

	rec := do(t, h, http.MethodPost, "/api/wholesale/"+tx.ID+"/payments", PayDebtRequest{Amount: "120"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode[WholesaleDTO](t, rec)
	assert.Equal(t, "120", paid.PaidAmount)
	assert.Equal(t, "180", paid.Remaining)
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestAdjustStock_ShrinkageExpenseVisible(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/inventory/adjustments", AdjustStockRequest{
		ProductID: "p-oil", CountedQty: 7, Reason: "quarterly count", EmployeeID: "emp-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	adj := decode[StockAdjustmentDTO](t, rec)
	assert.Equal(t, 10, adj.OldStock)
	assert.Equal(t, 7, adj.NewStock)

	expenses := decode[[]ExpenseDTO](t, do(t, h, http.MethodGet, "/api/expenses", nil))
	require.Len(t, expenses, 1)
	assert.Equal(t, "180", expenses[0].Amount)
}

func TestAdjustStock_NegativeCountIs400(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, http.MethodPost, "/api/inventory/adjustments", AdjustStockRequest{
		ProductID: "p-oil", CountedQty: -1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// HR
// =============================================================================

func TestAttendance_FlowOverHTTP(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/employees/emp-1/attendance", AttendanceRequest{Action: "check_in"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "present", decode[AttendanceDTO](t, rec).Status)

	// A second check-in on the same day is a client error
	rec = do(t, h, http.MethodPost, "/api/employees/emp-1/attendance", AttendanceRequest{Action: "check_in"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	records := decode[[]AttendanceDTO](t, do(t, h, http.MethodGet, "/api/attendance?date=2025-03-10", nil))
	assert.Len(t, records, 1)
}

func TestPaySalary_DualWriteVisible(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/payroll", SalaryRequest{
		EmployeeID: "emp-1", Amount: "1200", Type: "salary", Notes: "march",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	salaries := decode[[]SalaryDTO](t, do(t, h, http.MethodGet, "/api/payroll", nil))
	require.Len(t, salaries, 1)
	expenses := decode[[]ExpenseDTO](t, do(t, h, http.MethodGet, "/api/expenses", nil))
	require.Len(t, expenses, 1)
	assert.Equal(t, salaries[0].Amount, expenses[0].Amount)
}

// =============================================================================
// CATALOG
// =============================================================================

func TestUpsertProduct_UpdatePreservesStock(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/products", ProductRequest{
		ID: "p-oil", Name: "Sunflower Oil 1L (new label)", Price: "105", CostPrice: "60",
		Stock: 999, MinStock: 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[ProductDTO](t, rec)
	assert.Equal(t, "Sunflower Oil 1L (new label)", p.Name)
	assert.Equal(t, "105", p.Price)
	assert.Equal(t, 10, p.Stock, "stock is engine-owned; update cannot set it")
}

func TestDeleteProduct_UnknownIs404(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, http.MethodDelete, "/api/products/p-ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// AUDIT & SCENARIOS
// =============================================================================

func TestAudit_OneEntryPerOperation(t *testing.T) {
	h, _ := newTestHandler()

	do(t, h, http.MethodPost, "/api/sales", CreateSaleRequest{
		Items: []SaleLineRequest{{ProductID: "p-oil", Quantity: 1}},
	})
	do(t, h, http.MethodPost, "/api/payroll", SalaryRequest{EmployeeID: "emp-1", Amount: "100", Type: "bonus"})

	entries := decode[[]AuditEntryDTO](t, do(t, h, http.MethodGet, "/api/audit", nil))
	require.Len(t, entries, 2)
	// Most recent first
	assert.Equal(t, "salary_paid", entries[0].Action)
	assert.Equal(t, "sale_created", entries[1].Action)
}

func TestLoadScenario_ReplacesLedger(t *testing.T) {
	h, _ := newTestHandler()

	rec := do(t, h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "corner-store"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	products := decode[[]ProductDTO](t, do(t, h, http.MethodGet, "/api/products", nil))
	assert.Len(t, products, 4)

	current := decode[ScenarioDTO](t, do(t, h, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, "corner-store", current.ID)
}

func TestLoadScenario_UnknownIs404(t *testing.T) {
	h, _ := newTestHandler()
	rec := do(t, h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetLedger(t *testing.T) {
	h, _ := newTestHandler()

	do(t, h, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "full-staff"})
	rec := do(t, h, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	products := decode[[]ProductDTO](t, do(t, h, http.MethodGet, "/api/products", nil))
	assert.Empty(t, products)
}
