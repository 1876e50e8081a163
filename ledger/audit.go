/*
audit.go - Capped, append-only audit trail

PURPOSE:
  Every successful engine operation records exactly one audit entry. The log
  is global, most-recent-first, and capped: when the cap is reached the oldest
  entries are silently dropped.

INVARIANTS:
  1. One entry per successful mutating operation, zero per failed one.
  2. Recording is not optional and not itself fallible.
  3. Entries are immutable once written.

ID DERIVATION:
  Entry ids derive from action + reference + timestamp, so the recorder stays
  free of environment dependencies (no RNG, no clock reads).
*/
package ledger

import (
	"fmt"
	"time"
)

// =============================================================================
// AUDIT LOG ENTRY
// =============================================================================

// AuditCap is the number of most-recent entries retained.
const AuditCap = 5000

type AuditCategory string

const (
	AuditSales     AuditCategory = "sales"
	AuditReturns   AuditCategory = "returns"
	AuditWholesale AuditCategory = "wholesale"
	AuditInventory AuditCategory = "inventory"
	AuditHR        AuditCategory = "hr"
)

// AuditLogEntry records who-did-what-when for one engine operation.
type AuditLogEntry struct {
	ID        string
	Timestamp time.Time
	Action    string
	Category  AuditCategory
	Details   string
}

// =============================================================================
// RECORDER
// =============================================================================

// RecordAudit prepends one entry to the ledger's audit log and truncates it
// to the AuditCap most recent entries. It is called by every engine operation
// after its mutation succeeded, never before.
func RecordAudit(l *Ledger, at time.Time, action string, category AuditCategory, refID, details string) {
	entry := AuditLogEntry{
		ID:        auditID(action, refID, at),
		Timestamp: at,
		Action:    action,
		Category:  category,
		Details:   details,
	}

	log := make([]AuditLogEntry, 0, len(l.AuditLog)+1)
	log = append(log, entry)
	log = append(log, l.AuditLog...)
	if len(log) > AuditCap {
		log = log[:AuditCap]
	}
	l.AuditLog = log
}

func auditID(action, refID string, at time.Time) string {
	return fmt.Sprintf("audit-%s-%s-%d", action, refID, at.UnixNano())
}
