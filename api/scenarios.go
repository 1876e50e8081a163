/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the ledger with realistic
	data for testing and demos. Each scenario is a seed document (the same
	JSON shape the factory package parses) describing catalog, customers,
	staff, and wholesale partners.

AVAILABLE SCENARIOS:

	corner-store:    Small grocery catalog with two regulars and one cashier
	wholesale-depot: Supplier + bulk buyer setup with depot stock
	full-staff:      Complete crew for attendance and payroll demos

HOW SCENARIOS WORK:
 1. Look up the seed document by id
 2. Build a fresh Ledger through the factory
 3. Persist it and install it as the current snapshot

The previous snapshot is replaced entirely. Only use in development/demo
environments.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "corner-store"}

ADDING NEW SCENARIOS:
 1. Add a ScenarioDTO to the 'scenarios' slice
 2. Add its seed to the 'seeds' map

SEE ALSO:
  - handlers.go: mutate, writeJSON helpers
  - factory/seed.go: seed document parsing
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/warp/retail-ledger/factory"
	"github.com/warp/retail-ledger/ledger"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "corner-store",
		Name:        "Corner Store",
		Description: "Small grocery catalog, two regular customers, one cashier",
	},
	{
		ID:          "wholesale-depot",
		Name:        "Wholesale Depot",
		Description: "Supplier and bulk buyer partners with depot-level stock",
	},
	{
		ID:          "full-staff",
		Name:        "Full Staff",
		Description: "Complete crew for attendance and payroll demos",
	},
}

var seeds = map[string]factory.SeedJSON{
	"corner-store": {
		Currency:    "USD",
		InitialCash: "500",
		Products: []factory.ProductJSON{
			{ID: "p-oil", Name: "Sunflower Oil 1L", Category: "pantry", Barcode: "4800001", Price: "100", CostPrice: "60", Stock: 24, MinStock: 6},
			{ID: "p-rice", Name: "Rice 5kg", Category: "pantry", Barcode: "4800002", Price: "50", CostPrice: "30", Stock: 40, MinStock: 10},
			{ID: "p-milk", Name: "Milk 1L", Category: "dairy", Barcode: "4800003", Price: "12", CostPrice: "8", Stock: 18, MinStock: 12},
			{ID: "p-soap", Name: "Laundry Soap", Category: "household", Price: "15", CostPrice: "9", Stock: 30, MinStock: 5},
		},
		Customers: []factory.CustomerJSON{
			{ID: "cust-amal", Name: "Amal Haddad", Phone: "555-0101"},
			{ID: "cust-rami", Name: "Rami Khoury", Phone: "555-0102"},
		},
		Employees: []factory.EmployeeJSON{
			{ID: "emp-samir", Name: "Samir", Role: "cashier", BaseSalary: "1200", IsActive: true},
		},
	},
	"wholesale-depot": {
		Currency:    "USD",
		InitialCash: "10000",
		Products: []factory.ProductJSON{
			{ID: "p-flour", Name: "Flour 25kg", Category: "bulk", Price: "80", CostPrice: "55", Stock: 200, MinStock: 40},
			{ID: "p-sugar", Name: "Sugar 25kg", Category: "bulk", Price: "95", CostPrice: "70", Stock: 150, MinStock: 30},
			{ID: "p-oil-drum", Name: "Oil Drum 20L", Category: "bulk", Price: "450", CostPrice: "320", Stock: 35, MinStock: 10},
		},
		Employees: []factory.EmployeeJSON{
			{ID: "emp-admin", Name: "Dana", Role: "admin", BaseSalary: "2500", IsActive: true},
		},
		Partners: []factory.PartnerJSON{
			{ID: "part-mill", Name: "Valley Mill Co", Contact: "555-0201", Type: "supplier"},
			{ID: "part-bakery", Name: "Crown Bakery", Contact: "555-0202", Type: "buyer"},
		},
	},
	"full-staff": {
		Currency:    "USD",
		InitialCash: "3000",
		Products: []factory.ProductJSON{
			{ID: "p-water", Name: "Water 6-pack", Category: "drinks", Price: "8", CostPrice: "5", Stock: 60, MinStock: 20},
		},
		Employees: []factory.EmployeeJSON{
			{ID: "emp-admin", Name: "Dana", Role: "admin", BaseSalary: "2500", IsActive: true},
			{ID: "emp-samir", Name: "Samir", Role: "cashier", BaseSalary: "1200", IsActive: true},
			{ID: "emp-lena", Name: "Lena", Role: "cashier", BaseSalary: "1150", IsActive: true},
			{ID: "emp-karim", Name: "Karim", Role: "delivery", BaseSalary: "1000", IsActive: true},
		},
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the current ledger with a scenario seed.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	seed, ok := seeds[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}

	seeded, err := factory.Build(seed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build scenario", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Store.Save(r.Context(), seeded); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist scenario", err)
		return
	}
	h.current = seeded
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}

// ResetLedger replaces the current ledger with an empty one.
func (h *Handler) ResetLedger(w http.ResponseWriter, r *http.Request) {
	fresh := ledger.New()

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.Store.Save(r.Context(), fresh); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist reset", err)
		return
	}
	h.current = fresh
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
