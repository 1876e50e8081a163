/*
errors.go - Typed domain errors for the retail engine

PURPOSE:
  All error kinds in one place. These are business-rule violations meaningful
  to a cashier or manager, not internal faults: callers surface the message to
  the operator and keep displaying the prior snapshot.

ERROR CATEGORIES:
  1. Not-found errors - a referenced sale/product/customer/employee/partner id
     is absent from the Ledger
  2. Stock errors - a deduction would drive stock below zero
  3. Quantity errors - a return or count exceeds what is available
  4. Attendance errors - an action illegal for the employee's daily status

PROPAGATION POLICY:
  All validation happens BEFORE any mutation. On failure the engine returns
  without producing a new Ledger, so the caller's existing snapshot is
  untouched. There is no rollback machinery because there is nothing to roll
  back.

USAGE:
  if errors.Is(err, ledger.ErrInsufficientStock) { ... }

  var oor *ledger.OverReturnError
  if errors.As(err, &oor) { fmt.Println(oor.Requested) }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced entity id does not exist in
	// the Ledger.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a requested deduction would drive
	// a product's stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned when a quantity is non-positive or
	// exceeds what remains available (over-return, negative stock count).
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrSaleCancelled is returned when an operation targets a cancelled
	// sale whose stock and financial effects were already reversed.
	ErrSaleCancelled = errors.New("sale is cancelled")

	// ErrInvalidTransition is returned when an attendance action is illegal
	// for the employee's current daily status.
	ErrInvalidTransition = errors.New("invalid attendance transition")

	// ErrAlreadyCheckedIn is returned on a second check-in for the same day.
	ErrAlreadyCheckedIn = errors.New("already checked in")

	// ErrDayClosed is returned for any attendance action after check-out.
	ErrDayClosed = errors.New("attendance day already closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which entity kind and id was missing.
type NotFoundError struct {
	Kind string // "product", "sale", "customer", "employee", "partner", "transaction"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError details a stock shortage. Restoring reports whether
// the shortage was hit while reactivating a cancelled sale rather than
// creating a new one.
type InsufficientStockError struct {
	ProductID ProductID
	Name      string
	Available int
	Requested int
	Restoring bool
}

func (e *InsufficientStockError) Error() string {
	if e.Restoring {
		return fmt.Sprintf("cannot reactivate: insufficient stock for %s (available %d, need %d)",
			e.Name, e.Available, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for %s (available %d, requested %d)",
		e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// OverReturnError details a return request exceeding what remains returnable.
type OverReturnError struct {
	SaleID          SaleID
	ProductID       ProductID
	Sold            int
	AlreadyReturned int
	Requested       int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("return of %d exceeds returnable quantity for product %s on sale %s (sold %d, already returned %d)",
		e.Requested, e.ProductID, e.SaleID, e.Sold, e.AlreadyReturned)
}

func (e *OverReturnError) Unwrap() error { return ErrInvalidQuantity }

// InvalidTransitionError details an illegal attendance action. It unwraps to
// the most specific sentinel for the situation.
type InvalidTransitionError struct {
	EmployeeID EmployeeID
	Date       string
	Status     AttendanceStatus
	Action     AttendanceAction
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("employee %s cannot %s on %s: status is %s",
		e.EmployeeID, e.Action, e.Date, e.statusLabel())
}

func (e *InvalidTransitionError) statusLabel() string {
	if e.Status == "" {
		return "absent"
	}
	return string(e.Status)
}

func (e *InvalidTransitionError) Unwrap() error {
	switch {
	case e.Status == AttendanceCompleted:
		return ErrDayClosed
	case e.Status == AttendancePresent && e.Action == ActionCheckIn:
		return ErrAlreadyCheckedIn
	default:
		return ErrInvalidTransition
	}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError reports whether the error is a business-rule violation caused
// by the request (as opposed to an internal fault).
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrSaleCancelled) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrDayClosed)
}
