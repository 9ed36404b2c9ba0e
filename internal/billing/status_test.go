package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	past, future := "2024-06-01", "2024-07-01"

	for _, stored := range []string{StatusSent, StatusViewed} {
		assert.Equal(t, StatusOverdue, InvoiceStatus(stored, past, now), stored)
		assert.Equal(t, stored, InvoiceStatus(stored, future, now), stored)
		assert.Equal(t, stored, InvoiceStatus(stored, "", now), stored)
		assert.Equal(t, stored, InvoiceStatus(stored, "not-a-date", now), stored)
	}

	for _, stored := range []string{StatusPaid, StatusCancelled, StatusDraft} {
		assert.Equal(t, stored, InvoiceStatus(stored, past, now), stored)
	}

	assert.Equal(t, StatusOverdue, InvoiceStatus("sent", past, now))
}

func TestContractStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusExpired, ContractStatus(StatusSent, "2024-01-31", now))
	assert.Equal(t, StatusExpired, ContractStatus(StatusViewed, "2024-06-14", now))
	assert.Equal(t, StatusViewed, ContractStatus(StatusViewed, "2025-01-01", now))
	for _, stored := range []string{StatusSigned, StatusCancelled, StatusDraft} {
		assert.Equal(t, stored, ContractStatus(stored, "2020-01-01", now))
	}
}

func TestDueTodayIsOverdueAfterMidnightUTC(t *testing.T) {
	due := "2024-06-15"

	assert.Equal(t, StatusOverdue, InvoiceStatus(StatusSent, due, time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC)))
	assert.Equal(t, StatusSent, InvoiceStatus(StatusSent, due, time.Date(2024, 6, 14, 23, 59, 59, 0, time.UTC)))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("paid", InvoiceStatuses))
	assert.False(t, ValidStatus("Signed", InvoiceStatuses))
	assert.False(t, ValidStatus("Overdue", InvoiceStatuses))
	assert.True(t, ValidStatus("Signed", ContractStatuses))
}
