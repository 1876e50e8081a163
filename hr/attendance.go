/*
Package hr drives the per-employee daily attendance state machine and posts
payroll.

PURPOSE:
  Attendance is one record per (employee, calendar day) moving through a
  fixed machine:

    absent --check_in--> present --break_start--> on_break
                         present <--break_end---- on_break
                         present --check_out----> completed (terminal)

  Every transition stamps the supplied time on the field it opens or closes.
  Illegal actions fail with an error naming the current status; a closed day
  rejects everything.

  Payroll is a dual write: one SalaryTransaction plus exactly one matching
  Expense, so a payroll run reduces reported net cash exactly once through
  the expense ledger (see payroll.go).
*/
package hr

import (
	"fmt"
	"time"

	"github.com/warp/retail-ledger/ledger"
)

// DateKey is the calendar-day key format for attendance records.
const DateKey = "2006-01-02"

// RecordAttendance applies one attendance action for the employee's current
// day (derived from at). recordID is only used when the action creates the
// day's record (check_in).
func RecordAttendance(l *ledger.Ledger, employeeID ledger.EmployeeID, action ledger.AttendanceAction, recordID string, at time.Time) (*ledger.Ledger, error) {
	if l.Employee(employeeID) == nil {
		return nil, &ledger.NotFoundError{Kind: "employee", ID: string(employeeID)}
	}

	date := at.Format(DateKey)
	current := l.AttendanceFor(employeeID, date)

	// Validate the transition against the untouched snapshot.
	if err := validateTransition(current, employeeID, date, action); err != nil {
		return nil, err
	}

	next := l.Clone()
	switch action {
	case ledger.ActionCheckIn:
		// Prepended: attendance is a history collection like every other.
		next.Attendance = append([]ledger.AttendanceRecord{{
			ID:         recordID,
			EmployeeID: employeeID,
			Date:       date,
			CheckIn:    at,
			Status:     ledger.AttendancePresent,
		}}, next.Attendance...)
	case ledger.ActionBreakStart:
		rec := next.AttendanceFor(employeeID, date)
		rec.Breaks = append(rec.Breaks, ledger.Break{Start: at})
		rec.Status = ledger.AttendanceOnBreak
	case ledger.ActionBreakEnd:
		rec := next.AttendanceFor(employeeID, date)
		end := at
		rec.Breaks[len(rec.Breaks)-1].End = &end
		rec.Status = ledger.AttendancePresent
	case ledger.ActionCheckOut:
		rec := next.AttendanceFor(employeeID, date)
		out := at
		rec.CheckOut = &out
		rec.Status = ledger.AttendanceCompleted
	}

	ledger.RecordAudit(next, at, "attendance_"+string(action), ledger.AuditHR, string(employeeID),
		fmt.Sprintf("employee %s: %s on %s", employeeID, action, date))
	return next, nil
}

// validateTransition enforces the state machine table. A nil record means the
// employee is absent for the day.
func validateTransition(rec *ledger.AttendanceRecord, employeeID ledger.EmployeeID, date string, action ledger.AttendanceAction) error {
	switch action {
	case ledger.ActionCheckIn, ledger.ActionBreakStart, ledger.ActionBreakEnd, ledger.ActionCheckOut:
	default:
		return fmt.Errorf("%w: unknown attendance action %q", ledger.ErrInvalidTransition, action)
	}

	if rec == nil {
		if action == ledger.ActionCheckIn {
			return nil
		}
		return &ledger.InvalidTransitionError{EmployeeID: employeeID, Date: date, Action: action}
	}

	switch rec.Status {
	case ledger.AttendancePresent:
		if action == ledger.ActionBreakStart || action == ledger.ActionCheckOut {
			return nil
		}
	case ledger.AttendanceOnBreak:
		if action == ledger.ActionBreakEnd {
			return nil
		}
	}
	return &ledger.InvalidTransitionError{
		EmployeeID: employeeID,
		Date:       date,
		Status:     rec.Status,
		Action:     action,
	}
}
