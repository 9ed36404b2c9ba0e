// Package listing binds the generic list pipeline to the invoice, contract
// and expense record types.
package listing

import (
	"time"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

func createdAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Invoices reads invoices. The effective date is the issued date, then created_at.
var Invoices = billing.Schema[models.Invoice]{
	Kind: billing.KindInvoices,
	ID:   func(i models.Invoice) int { return i.ID },
	SearchFields: func(i models.Invoice) []string {
		return []string{i.Title, i.InvoiceNumber, i.AccountName}
	},
	Status: func(i models.Invoice, now time.Time) string {
		return billing.InvoiceStatus(i.Status, i.DueDate, now)
	},
	EffectiveDate: func(i models.Invoice) (time.Time, bool) {
		return billing.FirstDate(i.IssuedDate, createdAt(i.CreatedAt))
	},
	Amount:   func(i models.Invoice) float64 { return i.Total.Float() },
	Currency: func(i models.Invoice) string { return i.Currency },
	Sorts: map[string]billing.SortSpec[models.Invoice]{
		"recent": {Dir: billing.SortDesc, Compare: func(a, b models.Invoice) int {
			return billing.CompareDates(invoiceRecent(a), invoiceRecent(b))
		}},
		"amount_desc": {Dir: billing.SortDesc, Compare: func(a, b models.Invoice) int {
			return billing.CompareFloats(a.Total.Float(), b.Total.Float())
		}},
		"amount_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Invoice) int {
			return billing.CompareFloats(a.Total.Float(), b.Total.Float())
		}},
		"due_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Invoice) int {
			return billing.CompareDates(a.DueDate, b.DueDate)
		}},
		"name_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Invoice) int {
			return billing.CompareStrings(a.Title, b.Title)
		}},
	},
	DefaultSort:      "recent",
	FallbackCurrency: billing.DefaultCurrency,
}

func invoiceRecent(i models.Invoice) string {
	if i.IssuedDate != "" {
		return i.IssuedDate
	}
	return createdAt(i.CreatedAt)
}

// Contracts reads contracts. The effective date is the start date, then created_at.
var Contracts = billing.Schema[models.Contract]{
	Kind: billing.KindContracts,
	ID:   func(c models.Contract) int { return c.ID },
	SearchFields: func(c models.Contract) []string {
		return []string{c.Title, c.AccountName, c.Description}
	},
	Status: func(c models.Contract, now time.Time) string {
		return billing.ContractStatus(c.Status, c.EndDate, now)
	},
	EffectiveDate: func(c models.Contract) (time.Time, bool) {
		return billing.FirstDate(c.StartDate, createdAt(c.CreatedAt))
	},
	Amount:   func(c models.Contract) float64 { return c.HeadlineValue() },
	Currency: func(c models.Contract) string { return c.Currency },
	Sorts: map[string]billing.SortSpec[models.Contract]{
		"recent": {Dir: billing.SortDesc, Compare: func(a, b models.Contract) int {
			return billing.CompareDates(createdAt(a.CreatedAt), createdAt(b.CreatedAt))
		}},
		"name_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Contract) int {
			return billing.CompareStrings(a.Title, b.Title)
		}},
		"start_desc": {Dir: billing.SortDesc, Compare: func(a, b models.Contract) int {
			return billing.CompareDates(a.StartDate, b.StartDate)
		}},
		"end_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Contract) int {
			return billing.CompareDates(a.EndDate, b.EndDate)
		}},
		"value_desc": {Dir: billing.SortDesc, Compare: func(a, b models.Contract) int {
			return billing.CompareFloats(a.HeadlineValue(), b.HeadlineValue())
		}},
	},
	DefaultSort:      "recent",
	FallbackCurrency: billing.DefaultCurrency,
}

// Expenses reads expenses. The period prefers the stored year and quarter.
var Expenses = billing.Schema[models.Expense]{
	Kind: billing.KindExpenses,
	ID:   func(e models.Expense) int { return e.ID },
	SearchFields: func(e models.Expense) []string {
		return []string{e.Supplier, e.Description, e.InvoiceNumber, e.Notes}
	},
	EffectiveDate: func(e models.Expense) (time.Time, bool) {
		return billing.FirstDate(e.Date, createdAt(e.CreatedAt))
	},
	Period: func(e models.Expense) (billing.Period, bool) {
		return e.Period()
	},
	Amount:   func(e models.Expense) float64 { return e.TotalAmount.Float() },
	Currency: func(e models.Expense) string { return e.Currency },
	Sorts: map[string]billing.SortSpec[models.Expense]{
		"date_desc": {Dir: billing.SortDesc, Compare: func(a, b models.Expense) int {
			return billing.CompareDates(a.Date, b.Date)
		}},
		"date_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Expense) int {
			return billing.CompareDates(a.Date, b.Date)
		}},
		"amount_desc": {Dir: billing.SortDesc, Compare: func(a, b models.Expense) int {
			return billing.CompareFloats(a.TotalAmount.Float(), b.TotalAmount.Float())
		}},
		"amount_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Expense) int {
			return billing.CompareFloats(a.TotalAmount.Float(), b.TotalAmount.Float())
		}},
		"supplier_asc": {Dir: billing.SortAsc, Compare: func(a, b models.Expense) int {
			return billing.CompareStrings(a.Supplier, b.Supplier)
		}},
	},
	DefaultSort:      "date_desc",
	FallbackCurrency: billing.DefaultCurrency,
}

// SortKeys returns the accepted sort keys per kind.
func SortKeys(kind string) []string {
	switch kind {
	case billing.KindInvoices:
		return []string{"recent", "amount_desc", "amount_asc", "due_asc", "name_asc"}
	case billing.KindContracts:
		return []string{"recent", "name_asc", "start_desc", "end_asc", "value_desc"}
	case billing.KindExpenses:
		return []string{"date_desc", "date_asc", "amount_desc", "amount_asc", "supplier_asc"}
	}
	return nil
}
