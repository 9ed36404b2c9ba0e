package billing

import (
	"strings"
	"time"
)

// Stored and derived statuses. Overdue and Expired are never persisted.
const (
	StatusDraft     = "Draft"
	StatusSent      = "Sent"
	StatusViewed    = "Viewed"
	StatusPaid      = "Paid"
	StatusSigned    = "Signed"
	StatusCancelled = "Cancelled"
	StatusOverdue   = "Overdue"
	StatusExpired   = "Expired"
)

// InvoiceStatuses are the values an invoice may store.
var InvoiceStatuses = []string{StatusDraft, StatusSent, StatusViewed, StatusPaid, StatusCancelled}

// ContractStatuses are the values a contract may store.
var ContractStatuses = []string{StatusDraft, StatusSent, StatusViewed, StatusSigned, StatusCancelled}

// NormalizeStatus maps any casing of a known status onto its canonical form.
// Unknown values are returned trimmed but otherwise untouched.
func NormalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	for _, known := range []string{
		StatusDraft, StatusSent, StatusViewed, StatusPaid, StatusSigned,
		StatusCancelled, StatusOverdue, StatusExpired,
	} {
		if strings.EqualFold(s, known) {
			return known
		}
	}
	return s
}

// InvoiceStatus returns the effective status of an invoice: Overdue when the
// stored status is not Paid, Cancelled or Draft and the due date has passed.
// This is the only place the rule lives; filters, sorts, badges and exports
// all call it.
func InvoiceStatus(stored, dueDate string, now time.Time) string {
	stored = NormalizeStatus(stored)
	switch stored {
	case StatusPaid, StatusCancelled, StatusDraft:
		return stored
	}
	if due, ok := ParseDate(dueDate); ok && due.Before(now) {
		return StatusOverdue
	}
	return stored
}

// ContractStatus returns the effective status of a contract: Expired when the
// stored status is not Signed, Cancelled or Draft and the end date has passed.
func ContractStatus(stored, endDate string, now time.Time) string {
	stored = NormalizeStatus(stored)
	switch stored {
	case StatusSigned, StatusCancelled, StatusDraft:
		return stored
	}
	if end, ok := ParseDate(endDate); ok && end.Before(now) {
		return StatusExpired
	}
	return stored
}

// ValidStatus reports whether s is one of allowed (case-insensitive).
func ValidStatus(s string, allowed []string) bool {
	s = NormalizeStatus(s)
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
