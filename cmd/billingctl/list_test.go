package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/billing"
	"billing-backend/internal/listing"
	"billing-backend/internal/models"
)

func TestListFlagsParams(t *testing.T) {
	f := listFlags{statuses: []string{"overdue", " "}, dir: "DESC", quarter: "q2", page: 3, group: true}
	p, err := f.params()
	require.NoError(t, err)
	assert.Equal(t, []string{billing.StatusOverdue}, p.Statuses)
	assert.Equal(t, billing.SortDesc, p.SortDir)
	assert.Equal(t, billing.Q2, p.Quarter)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, billing.GroupYearQuarter, p.GroupBy)

	_, err = (&listFlags{quarter: "Q5"}).params()
	assert.Error(t, err)
	_, err = (&listFlags{dir: "up"}).params()
	assert.Error(t, err)
}

func TestListCommandPrintsTable(t *testing.T) {
	invoices := []models.Invoice{
		{ID: 1, InvoiceNumber: "INV-1", Title: "Alpha", Status: billing.StatusSent, Currency: "EUR", Total: 100, IssuedDate: "2024-05-01"},
		{ID: 2, InvoiceNumber: "INV-2", Title: "Beta", Status: billing.StatusDraft, Currency: "USD", Total: 50, IssuedDate: "2024-05-02"},
	}
	cmd := listCommand(billing.KindInvoices, listing.Invoices, listing.InvoiceColumns, func(context.Context) ([]models.Invoice, error) {
		return invoices, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--table", "--columns", "number,title,total"})
	cmd.SetContext(context.Background())
	timeout = time.Second

	require.NoError(t, cmd.Execute())
	text := out.String()
	assert.Contains(t, text, "NUMBER")
	assert.Contains(t, text, "INV-2")
	assert.NotContains(t, text, "ACCOUNT")
	assert.Contains(t, text, "2 records")
	assert.Contains(t, text, "Total: EUR 100.00, USD 50.00")
}
