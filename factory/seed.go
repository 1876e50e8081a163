/*
Package factory builds seeded Ledger snapshots from JSON seed documents.

PURPOSE:
  Demo scenarios and fresh-store setup describe their starting catalog,
  customers, staff, and partners as a JSON document. The factory validates
  the document and produces a Ledger the engine can operate on - it never
  writes history records, only base entities and configuration.

VALIDATION:
  - ids must be present and unique per collection
  - monetary strings must parse as decimals
  - stock must be non-negative
  - roles and partner types must come from the closed enums

USAGE:
  l, err := factory.Parse(seedBytes)
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/ledger"
)

// =============================================================================
// SEED DOCUMENT
// =============================================================================

// SeedJSON is the on-disk shape of a scenario seed. Monetary values are
// strings so the document stays exact regardless of magnitude.
type SeedJSON struct {
	Currency           string `json:"currency"`
	InitialCash        string `json:"initial_cash"`
	DraftExpiryMinutes int    `json:"draft_expiry_minutes"`

	Products  []ProductJSON  `json:"products"`
	Customers []CustomerJSON `json:"customers"`
	Employees []EmployeeJSON `json:"employees"`
	Partners  []PartnerJSON  `json:"partners"`
}

type ProductJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Barcode   string `json:"barcode,omitempty"`
	Price     string `json:"price"`
	CostPrice string `json:"cost_price"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}

type CustomerJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type EmployeeJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	BaseSalary string `json:"base_salary"`
	IsActive   bool   `json:"is_active"`
}

type PartnerJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Type    string `json:"type"`
}

// =============================================================================
// PARSING
// =============================================================================

// Parse validates a seed document and builds the Ledger it describes.
func Parse(data []byte) (*ledger.Ledger, error) {
	var seed SeedJSON
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("invalid seed document: %w", err)
	}
	return Build(seed)
}

// Build converts an already-decoded seed into a Ledger.
func Build(seed SeedJSON) (*ledger.Ledger, error) {
	l := ledger.New()
	if seed.Currency != "" {
		l.Currency = seed.Currency
	}
	if seed.DraftExpiryMinutes > 0 {
		l.DraftExpiryMinutes = seed.DraftExpiryMinutes
	}
	if seed.InitialCash != "" {
		cash, err := decimal.NewFromString(seed.InitialCash)
		if err != nil {
			return nil, fmt.Errorf("initial_cash: %w", err)
		}
		l.InitialCash = cash
	}

	seen := make(map[string]bool)
	unique := func(collection, id string) error {
		if id == "" {
			return fmt.Errorf("%s: missing id", collection)
		}
		key := collection + ":" + id
		if seen[key] {
			return fmt.Errorf("%s: duplicate id %q", collection, id)
		}
		seen[key] = true
		return nil
	}

	for _, p := range seed.Products {
		if err := unique("products", p.ID); err != nil {
			return nil, err
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("product %s: negative stock %d", p.ID, p.Stock)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s: price: %w", p.ID, err)
		}
		cost, err := decimal.NewFromString(p.CostPrice)
		if err != nil {
			return nil, fmt.Errorf("product %s: cost_price: %w", p.ID, err)
		}
		l.Products = append(l.Products, ledger.Product{
			ID:        ledger.ProductID(p.ID),
			Name:      p.Name,
			Category:  p.Category,
			Barcode:   p.Barcode,
			Price:     price,
			CostPrice: cost,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
		})
	}

	for _, c := range seed.Customers {
		if err := unique("customers", c.ID); err != nil {
			return nil, err
		}
		l.Customers = append(l.Customers, ledger.Customer{
			ID:    ledger.CustomerID(c.ID),
			Name:  c.Name,
			Phone: c.Phone,
		})
	}

	for _, e := range seed.Employees {
		if err := unique("employees", e.ID); err != nil {
			return nil, err
		}
		role := ledger.EmployeeRole(e.Role)
		switch role {
		case ledger.RoleAdmin, ledger.RoleCashier, ledger.RoleDelivery:
		default:
			return nil, fmt.Errorf("employee %s: unknown role %q", e.ID, e.Role)
		}
		salary := decimal.Zero
		if e.BaseSalary != "" {
			var err error
			salary, err = decimal.NewFromString(e.BaseSalary)
			if err != nil {
				return nil, fmt.Errorf("employee %s: base_salary: %w", e.ID, err)
			}
		}
		l.Employees = append(l.Employees, ledger.Employee{
			ID:         ledger.EmployeeID(e.ID),
			Name:       e.Name,
			Role:       role,
			BaseSalary: salary,
			IsActive:   e.IsActive,
		})
	}

	for _, p := range seed.Partners {
		if err := unique("partners", p.ID); err != nil {
			return nil, err
		}
		typ := ledger.PartnerType(p.Type)
		if typ != ledger.PartnerBuyer && typ != ledger.PartnerSupplier {
			return nil, fmt.Errorf("partner %s: unknown type %q", p.ID, p.Type)
		}
		l.Partners = append(l.Partners, ledger.WholesalePartner{
			ID:      ledger.PartnerID(p.ID),
			Name:    p.Name,
			Contact: p.Contact,
			Type:    typ,
		})
	}

	return l, nil
}
