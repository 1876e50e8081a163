/*
payroll.go - Salary transactions with the mandatory expense dual write

Each salary transaction (regular salary, advance, or bonus) deterministically
produces exactly one Expense of the same amount. Skipping the expense would
overstate net cash; posting two would double-count payroll.
*/
package hr

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/retail-ledger/ledger"
)

// SalaryInput is a proposed payroll disbursement. Both ids are pre-assigned
// by the caller.
type SalaryInput struct {
	ID         string
	ExpenseID  string
	EmployeeID ledger.EmployeeID
	Amount     decimal.Decimal
	Type       ledger.SalaryType
	Notes      string
	At         time.Time
}

// ProcessSalary appends the salary transaction and its matching expense, and
// records one audit entry.
func ProcessSalary(l *ledger.Ledger, in SalaryInput) (*ledger.Ledger, error) {
	employee := l.Employee(in.EmployeeID)
	if employee == nil {
		return nil, &ledger.NotFoundError{Kind: "employee", ID: string(in.EmployeeID)}
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: salary amount must be positive, got %s", ledger.ErrInvalidQuantity, in.Amount)
	}
	switch in.Type {
	case ledger.SalaryPayment, ledger.SalaryAdvance, ledger.SalaryBonus:
	default:
		return nil, fmt.Errorf("%w: unknown salary type %q", ledger.ErrInvalidQuantity, in.Type)
	}

	next := l.Clone()
	next.SalaryTransactions = append([]ledger.SalaryTransaction{{
		ID:         in.ID,
		EmployeeID: in.EmployeeID,
		Amount:     in.Amount,
		Type:       in.Type,
		Notes:      in.Notes,
		Timestamp:  in.At,
	}}, next.SalaryTransactions...)

	next.Expenses = append([]ledger.Expense{{
		ID:          in.ExpenseID,
		Description: fmt.Sprintf("payroll %s for %s", in.Type, employee.Name),
		Amount:      in.Amount,
		Timestamp:   in.At,
		EmployeeID:  in.EmployeeID,
	}}, next.Expenses...)

	ledger.RecordAudit(next, in.At, "salary_paid", ledger.AuditHR, in.ID,
		fmt.Sprintf("%s of %s for employee %s", in.Type, in.Amount, employee.Name))
	return next, nil
}
