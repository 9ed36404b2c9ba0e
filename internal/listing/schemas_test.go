package listing

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestInvoicesAmountDescWithTotals(t *testing.T) {
	invoices := []models.Invoice{
		{ID: 1, Title: "A", Total: 100, Currency: "USD", Status: billing.StatusSent},
		{ID: 2, Title: "B", Total: 300, Currency: "USD", Status: billing.StatusPaid},
		{ID: 3, Title: "C", Total: 200, Currency: "USD", Status: billing.StatusDraft},
	}

	proj := Invoices.Apply(invoices, billing.ViewParams{SortKey: "amount_desc"}, now)

	var totals []float64
	for _, inv := range proj.Items {
		totals = append(totals, inv.Total.Float())
	}
	assert.Equal(t, []float64{300, 200, 100}, totals)
	assert.Equal(t, billing.CurrencyTotals{"USD": 600}, proj.Totals)
}

func TestExpenseQuarterDerivedFromDate(t *testing.T) {
	expenses := []models.Expense{{ID: 7, Date: "2025-02-10", Supplier: "Hetzner", TotalAmount: 12.1}}

	proj := Expenses.Apply(expenses, billing.ViewParams{GroupBy: billing.GroupYearQuarter}, now)

	require.Len(t, proj.Groups, 1)
	assert.Equal(t, billing.Q1, proj.Groups[0].Quarter)
	assert.Equal(t, 2025, proj.Groups[0].Year)

	filtered := Expenses.Apply(expenses, billing.ViewParams{Year: 2025, Quarter: billing.Q1}, now)
	assert.Equal(t, 1, filtered.Count)
}

func TestExpenseStoredQuarterWins(t *testing.T) {
	expenses := []models.Expense{{ID: 1, Date: "2025-04-02", Year: 2025, Quarter: "Q1"}}

	got := Expenses.Filter(expenses, billing.ViewParams{Quarter: billing.Q1}, now)

	assert.Len(t, got, 1)
}

func TestInvoiceEffectiveDateFallsBackToCreatedAt(t *testing.T) {
	invoices := []models.Invoice{
		{ID: 1, CreatedAt: time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC)},
		{ID: 2, IssuedDate: "2024-02-01", CreatedAt: time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC)},
	}

	proj := Invoices.Apply(invoices, billing.ViewParams{GroupBy: billing.GroupYearQuarter}, now)

	require.Len(t, proj.Groups, 2)
	assert.Equal(t, "2024-Q3", proj.Groups[0].Key)
	assert.Equal(t, "2024-Q1", proj.Groups[1].Key)
}

func TestContractFilterExpired(t *testing.T) {
	contracts := []models.Contract{
		{ID: 1, Status: billing.StatusSent, EndDate: "2025-01-01"},
		{ID: 2, Status: billing.StatusSigned, EndDate: "2025-01-01"},
		{ID: 3, Status: billing.StatusSent, EndDate: "2026-01-01"},
	}

	got := Contracts.Filter(contracts, billing.ViewParams{Statuses: []string{"Expired"}}, now)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestContractValueSort(t *testing.T) {
	fee := func(v float64) *models.Money { m := models.Money(v); return &m }
	contracts := []models.Contract{
		{ID: 1, MonthlyFee: fee(500)},
		{ID: 2, FixedFeeAmount: fee(1200), MonthlyFee: fee(10)},
		{ID: 3},
	}

	got := Contracts.Sort(contracts, "value_desc", "", now)

	assert.Equal(t, []int{2, 1, 3}, billing.IDsOf(got, Contracts.ID))
}

func TestParseViewParams(t *testing.T) {
	q, err := url.ParseQuery("search=acme&status=sent,overdue&status=Paid&sort=amount_desc&dir=ASC&quarter=q2&year=2024&group=year_quarter&page=3&page_size=50&mode=table")
	require.NoError(t, err)

	p := ParseViewParams(q)

	assert.Equal(t, "acme", p.Search)
	assert.Equal(t, []string{"Sent", "Overdue", "Paid"}, p.Statuses)
	assert.Equal(t, "amount_desc", p.SortKey)
	assert.Equal(t, billing.SortAsc, p.SortDir)
	assert.Equal(t, billing.Q2, p.Quarter)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, billing.GroupYearQuarter, p.GroupBy)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PageSize)
	assert.Equal(t, billing.ModeTable, p.Mode)

	assert.Equal(t, p, ParseViewParams(Encode(p)))
}

func TestParseViewParamsIgnoresGarbage(t *testing.T) {
	q := url.Values{"year": {"abc"}, "quarter": {"Q9"}, "page": {"-1"}, "dir": {"sideways"}, "group": {"month"}}

	p := ParseViewParams(q)

	assert.Zero(t, p.Year)
	assert.Empty(t, p.Quarter)
	assert.Zero(t, p.Page)
	assert.Empty(t, p.SortDir)
	assert.Equal(t, billing.GroupNone, p.GroupBy)
	assert.Equal(t, billing.ModeList, p.Mode)
}

func TestParseColumns(t *testing.T) {
	set := ParseColumns(InvoiceColumns, "title,total")

	cols := VisibleColumns(InvoiceColumns, set)

	assert.Equal(t, []string{"title", "total"}, ColumnKeys(cols))
	assert.Len(t, VisibleColumns(InvoiceColumns, ParseColumns(InvoiceColumns, "")), len(InvoiceColumns))
}
