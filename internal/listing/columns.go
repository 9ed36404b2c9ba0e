package listing

import (
	"strconv"
	"strings"
	"time"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

// Column is one table/export column of a record kind.
type Column[T any] struct {
	Key     string
	Label   string
	Numeric bool
	Value   func(r T, now time.Time) string
}

func money(m models.Money) string {
	return strconv.FormatFloat(billing.Round2(m.Float()), 'f', 2, 64)
}

func optionalMoney(m *models.Money) string {
	if m == nil {
		return ""
	}
	return money(*m)
}

// InvoiceColumns are the invoice table columns in display order.
var InvoiceColumns = []Column[models.Invoice]{
	{Key: "number", Label: "Number", Value: func(i models.Invoice, _ time.Time) string { return i.InvoiceNumber }},
	{Key: "title", Label: "Title", Value: func(i models.Invoice, _ time.Time) string { return i.Title }},
	{Key: "account", Label: "Account", Value: func(i models.Invoice, _ time.Time) string { return i.AccountName }},
	{Key: "status", Label: "Status", Value: func(i models.Invoice, now time.Time) string {
		return billing.InvoiceStatus(i.Status, i.DueDate, now)
	}},
	{Key: "issued", Label: "Issued", Value: func(i models.Invoice, _ time.Time) string { return i.IssuedDate }},
	{Key: "due", Label: "Due", Value: func(i models.Invoice, _ time.Time) string { return i.DueDate }},
	{Key: "currency", Label: "Currency", Value: func(i models.Invoice, _ time.Time) string { return currencyOr(i.Currency) }},
	{Key: "subtotal", Label: "Subtotal", Numeric: true, Value: func(i models.Invoice, _ time.Time) string { return money(i.Subtotal) }},
	{Key: "tax", Label: "Tax", Numeric: true, Value: func(i models.Invoice, _ time.Time) string { return money(i.TaxAmount) }},
	{Key: "total", Label: "Total", Numeric: true, Value: func(i models.Invoice, _ time.Time) string { return money(i.Total) }},
}

// ContractColumns are the contract table columns in display order.
var ContractColumns = []Column[models.Contract]{
	{Key: "title", Label: "Title", Value: func(c models.Contract, _ time.Time) string { return c.Title }},
	{Key: "account", Label: "Account", Value: func(c models.Contract, _ time.Time) string { return c.AccountName }},
	{Key: "status", Label: "Status", Value: func(c models.Contract, now time.Time) string {
		return billing.ContractStatus(c.Status, c.EndDate, now)
	}},
	{Key: "deal_type", Label: "Deal Type", Value: func(c models.Contract, _ time.Time) string {
		return strings.ReplaceAll(c.DealType, "_", " ")
	}},
	{Key: "start", Label: "Start", Value: func(c models.Contract, _ time.Time) string { return c.StartDate }},
	{Key: "end", Label: "End", Value: func(c models.Contract, _ time.Time) string { return c.EndDate }},
	{Key: "currency", Label: "Currency", Value: func(c models.Contract, _ time.Time) string { return currencyOr(c.Currency) }},
	{Key: "fixed_fee", Label: "Fixed Fee", Numeric: true, Value: func(c models.Contract, _ time.Time) string { return optionalMoney(c.FixedFeeAmount) }},
	{Key: "monthly_fee", Label: "Monthly Fee", Numeric: true, Value: func(c models.Contract, _ time.Time) string { return optionalMoney(c.MonthlyFee) }},
	{Key: "value", Label: "Value", Numeric: true, Value: func(c models.Contract, _ time.Time) string {
		return strconv.FormatFloat(billing.Round2(c.HeadlineValue()), 'f', 2, 64)
	}},
	{Key: "signer", Label: "Signer", Value: func(c models.Contract, _ time.Time) string { return c.SignerName }},
}

// ExpenseColumns are the expense table columns in display order.
var ExpenseColumns = []Column[models.Expense]{
	{Key: "date", Label: "Date", Value: func(e models.Expense, _ time.Time) string { return e.Date }},
	{Key: "period", Label: "Period", Value: func(e models.Expense, _ time.Time) string {
		if p, ok := e.Period(); ok {
			return p.Label()
		}
		return ""
	}},
	{Key: "supplier", Label: "Supplier", Value: func(e models.Expense, _ time.Time) string { return e.Supplier }},
	{Key: "country", Label: "Country", Value: func(e models.Expense, _ time.Time) string { return e.Country }},
	{Key: "invoice_number", Label: "Invoice #", Value: func(e models.Expense, _ time.Time) string { return e.InvoiceNumber }},
	{Key: "description", Label: "Description", Value: func(e models.Expense, _ time.Time) string { return e.Description }},
	{Key: "currency", Label: "Currency", Value: func(e models.Expense, _ time.Time) string { return currencyOr(e.Currency) }},
	{Key: "amount_excl_vat", Label: "Excl. VAT", Numeric: true, Value: func(e models.Expense, _ time.Time) string { return money(e.AmountExclVat) }},
	{Key: "vat_rate", Label: "VAT %", Numeric: true, Value: func(e models.Expense, _ time.Time) string { return money(e.VatRatePct) }},
	{Key: "vat_amount", Label: "VAT", Numeric: true, Value: func(e models.Expense, _ time.Time) string { return money(e.VatAmount) }},
	{Key: "total", Label: "Total", Numeric: true, Value: func(e models.Expense, _ time.Time) string { return money(e.TotalAmount) }},
	{Key: "deductible", Label: "BTW Deductible", Value: func(e models.Expense, _ time.Time) string {
		if e.NlBtwDeductible {
			return "yes"
		}
		return "no"
	}},
}

func currencyOr(c string) string {
	if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
		return c
	}
	return billing.DefaultCurrency
}

// ColumnKeys returns the keys of cols in order.
func ColumnKeys[T any](cols []Column[T]) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Key
	}
	return out
}

// VisibleColumns filters cols through a visibility set.
func VisibleColumns[T any](cols []Column[T], set billing.ColumnVisibilitySet) []Column[T] {
	out := make([]Column[T], 0, len(cols))
	for _, c := range cols {
		if set.IsVisible(c.Key) {
			out = append(out, c)
		}
	}
	return out
}

// ParseColumns reads a comma separated "columns" parameter. An empty value
// shows every column.
func ParseColumns[T any](cols []Column[T], raw string) billing.ColumnVisibilitySet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return billing.ColumnVisibilitySet{}
	}
	return billing.OnlyColumns(ColumnKeys(cols), strings.Split(raw, ","))
}
