package factory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/retail-ledger/ledger"
)

func TestParse_BuildsSeededLedger(t *testing.T) {
	doc := []byte(`{
		"currency": "EUR",
		"initial_cash": "500.50",
		"products": [
			{"id": "p-1", "name": "Oil", "category": "pantry", "price": "100", "cost_price": "60", "stock": 10, "min_stock": 2}
		],
		"customers": [{"id": "c-1", "name": "Amal", "phone": "555"}],
		"employees": [{"id": "e-1", "name": "Samir", "role": "cashier", "base_salary": "1200", "is_active": true}],
		"partners": [{"id": "w-1", "name": "Mill", "type": "supplier"}]
	}`)

	l, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "EUR", l.Currency)
	assert.True(t, l.InitialCash.Equal(decimal.RequireFromString("500.50")))

	require.Len(t, l.Products, 1)
	assert.Equal(t, ledger.ProductID("p-1"), l.Products[0].ID)
	assert.True(t, l.Products[0].Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 10, l.Products[0].Stock)

	require.Len(t, l.Employees, 1)
	assert.Equal(t, ledger.RoleCashier, l.Employees[0].Role)

	require.Len(t, l.Partners, 1)
	assert.Equal(t, ledger.PartnerSupplier, l.Partners[0].Type)

	// No history is ever seeded
	assert.Empty(t, l.Sales)
	assert.Empty(t, l.AuditLog)
}

func TestParse_DefaultsApply(t *testing.T) {
	l, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "USD", l.Currency)
	assert.Equal(t, 30, l.DraftExpiryMinutes)
	assert.True(t, l.InitialCash.IsZero())
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`{
		"products": [
			{"id": "p-1", "name": "A", "price": "1", "cost_price": "1"},
			{"id": "p-1", "name": "B", "price": "2", "cost_price": "1"}
		]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestParse_RejectsMissingID(t *testing.T) {
	_, err := Parse([]byte(`{"customers": [{"name": "Nameless"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestParse_RejectsUnknownRole(t *testing.T) {
	_, err := Parse([]byte(`{"employees": [{"id": "e-1", "name": "X", "role": "janitor"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestParse_RejectsUnknownPartnerType(t *testing.T) {
	_, err := Parse([]byte(`{"partners": [{"id": "w-1", "name": "X", "type": "courier"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestParse_RejectsBadMoney(t *testing.T) {
	_, err := Parse([]byte(`{"products": [{"id": "p-1", "name": "A", "price": "ten", "cost_price": "1"}]}`))
	require.Error(t, err)
}

func TestParse_RejectsNegativeStock(t *testing.T) {
	_, err := Parse([]byte(`{"products": [{"id": "p-1", "name": "A", "price": "1", "cost_price": "1", "stock": -3}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative stock")
}
