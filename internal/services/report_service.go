package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"billing-backend/internal/billing"
	"billing-backend/internal/listing"
	"billing-backend/internal/metrics"
	"billing-backend/internal/models"
	"billing-backend/internal/render"
	"billing-backend/internal/timeutil"
)

// Document is a rendered file ready to be served.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService turns records and projections into documents.
type ReportService struct {
	Invoices  *InvoiceService
	Contracts *ContractService
	Expenses  *ExpenseService
	Company   string
}

func NewReportService(invoices *InvoiceService, contracts *ContractService, expenses *ExpenseService, company string) *ReportService {
	return &ReportService{Invoices: invoices, Contracts: contracts, Expenses: expenses, Company: company}
}

// ExportInvoices renders every invoice matching p with the visible columns.
func (s *ReportService) ExportInvoices(ctx context.Context, p billing.ViewParams, cols billing.ColumnVisibilitySet, format string) (*Document, error) {
	p.Mode = billing.ModeTable
	proj, err := s.Invoices.Project(ctx, p)
	if err != nil {
		return nil, err
	}
	report := listReport(s.Company, "Invoices", p, listing.VisibleColumns(listing.InvoiceColumns, cols), proj, timeutil.Now())
	return renderDocument(report, format, "invoices", "invoices")
}

func (s *ReportService) ExportContracts(ctx context.Context, p billing.ViewParams, cols billing.ColumnVisibilitySet, format string) (*Document, error) {
	p.Mode = billing.ModeTable
	proj, err := s.Contracts.Project(ctx, p)
	if err != nil {
		return nil, err
	}
	report := listReport(s.Company, "Contracts", p, listing.VisibleColumns(listing.ContractColumns, cols), proj, timeutil.Now())
	return renderDocument(report, format, "contracts", "contracts")
}

func (s *ReportService) ExportExpenses(ctx context.Context, p billing.ViewParams, cols billing.ColumnVisibilitySet, format string) (*Document, error) {
	p.Mode = billing.ModeTable
	proj, err := s.Expenses.Project(ctx, p)
	if err != nil {
		return nil, err
	}
	report := listReport(s.Company, "Expenses", p, listing.VisibleColumns(listing.ExpenseColumns, cols), proj, timeutil.Now())
	return renderDocument(report, format, "expenses", "expenses")
}

// InvoiceDocument renders one invoice for print preview.
func (s *ReportService) InvoiceDocument(ctx context.Context, id int, format string) (*Document, error) {
	inv, err := s.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.RenderInvoice(inv, format)
}

// RenderInvoice renders an already loaded invoice.
func (s *ReportService) RenderInvoice(inv *models.Invoice, format string) (*Document, error) {
	base := "invoice-" + inv.InvoiceNumber
	if inv.InvoiceNumber == "" {
		base = fmt.Sprintf("invoice-%d", inv.ID)
	}
	return renderDocument(InvoiceReport(s.Company, inv), format, "invoice", base)
}

func (s *ReportService) ContractDocument(ctx context.Context, id int, format string) (*Document, error) {
	c, err := s.Contracts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.RenderContract(c, format)
}

func (s *ReportService) RenderContract(c *models.Contract, format string) (*Document, error) {
	return renderDocument(ContractReport(s.Company, c), format, "contract", fmt.Sprintf("contract-%d", c.ID))
}

func renderDocument(report render.Report, format, kind, base string) (*Document, error) {
	renderer, err := render.ForFormat(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render %s %s: %w", kind, renderer.Extension(), err)
	}
	metrics.DocumentsRendered.WithLabelValues(kind, renderer.Extension()).Inc()
	return &Document{
		Filename:    render.Filename(base, report.GeneratedAt, renderer),
		ContentType: renderer.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

// listReport lays a projection out as one section, or one section per
// year/quarter group.
func listReport[T any](company, title string, p billing.ViewParams, cols []listing.Column[T], proj billing.Projection[T], now time.Time) render.Report {
	report := render.Report{
		Title:       title,
		Subtitle:    describeFilters(p, proj.Count),
		Company:     company,
		GeneratedAt: now,
		Totals:      proj.Totals.Entries(),
	}
	for _, c := range cols {
		report.Columns = append(report.Columns, render.Column{Key: c.Key, Label: c.Label, Numeric: c.Numeric})
	}

	rows := func(items []T) [][]string {
		out := make([][]string, len(items))
		for i, item := range items {
			row := make([]string, len(cols))
			for j, c := range cols {
				row[j] = c.Value(item, now)
			}
			out[i] = row
		}
		return out
	}

	if len(proj.Groups) > 0 {
		for _, g := range proj.Groups {
			report.Sections = append(report.Sections, render.Section{
				Title:  g.Label,
				Rows:   rows(g.Items),
				Totals: g.Totals.Entries(),
			})
		}
		return report
	}
	report.Sections = []render.Section{{Rows: rows(proj.Items)}}
	return report
}

func describeFilters(p billing.ViewParams, count int) string {
	parts := []string{fmt.Sprintf("%d records", count)}
	if p.Year > 0 {
		parts = append(parts, fmt.Sprintf("year %d", p.Year))
	}
	if p.Quarter != "" {
		parts = append(parts, string(p.Quarter))
	}
	if len(p.Statuses) > 0 {
		parts = append(parts, "status "+strings.Join(p.Statuses, ", "))
	}
	if p.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", p.Search))
	}
	return strings.Join(parts, " · ")
}

func amount(currency string, v float64) string {
	return fmt.Sprintf("%s %.2f", currency, v)
}

// InvoiceReport describes a single invoice with its line items.
func InvoiceReport(company string, inv *models.Invoice) render.Report {
	cur := currencyOr(inv.Currency, billing.DefaultCurrency)
	status := inv.EffectiveStatus
	if status == "" {
		status = billing.InvoiceStatus(inv.Status, inv.DueDate, timeutil.Now())
	}

	r := render.Report{
		Title:       "Invoice " + inv.InvoiceNumber,
		Subtitle:    inv.Title,
		Company:     company,
		GeneratedAt: timeutil.Now(),
		Badge:       status,
		Fields: []render.Field{
			{Label: "Bill to", Value: inv.AccountName},
			{Label: "Issued", Value: inv.IssuedDate},
			{Label: "Due", Value: inv.DueDate},
		},
		Columns: []render.Column{
			{Key: "description", Label: "Description"},
			{Key: "quantity", Label: "Qty", Numeric: true},
			{Key: "unit_price", Label: "Unit price", Numeric: true},
			{Key: "amount", Label: "Amount", Numeric: true},
		},
		Summary: []render.Field{
			{Label: "Subtotal", Value: amount(cur, inv.Subtotal.Float())},
			{Label: fmt.Sprintf("Tax (%.2f%%)", inv.TaxPercent.Float()), Value: amount(cur, inv.TaxAmount.Float())},
		},
		Totals: []billing.CurrencyAmount{{Currency: cur, Amount: inv.Total.Float()}},
	}
	if inv.DiscountAmount != 0 {
		r.Summary = append(r.Summary, render.Field{Label: "Discount", Value: amount(cur, -inv.DiscountAmount.Float())})
	}

	section := render.Section{}
	for _, li := range inv.LineItems {
		section.Rows = append(section.Rows, []string{
			li.Description,
			fmt.Sprintf("%g", li.Quantity.Float()),
			fmt.Sprintf("%.2f", li.UnitPrice.Float()),
			fmt.Sprintf("%.2f", li.Amount.Float()),
		})
	}
	r.Sections = []render.Section{section}

	if inv.PaymentInfo != "" {
		r.Notes = append(r.Notes, inv.PaymentInfo)
	}
	if inv.Notes != "" {
		r.Notes = append(r.Notes, inv.Notes)
	}
	return r
}

// ContractReport describes a contract's terms. Contract text becomes the
// body; attached files are referenced by name.
func ContractReport(company string, c *models.Contract) render.Report {
	cur := currencyOr(c.Currency, billing.DefaultCurrency)
	status := c.EffectiveStatus
	if status == "" {
		status = billing.ContractStatus(c.Status, c.EndDate, timeutil.Now())
	}

	r := render.Report{
		Title:       c.Title,
		Subtitle:    c.AccountName,
		Company:     company,
		GeneratedAt: timeutil.Now(),
		Badge:       status,
	}

	add := func(label, value string) {
		if value != "" {
			r.Fields = append(r.Fields, render.Field{Label: label, Value: value})
		}
	}
	addMoney := func(label string, m *models.Money) {
		if m != nil {
			add(label, amount(cur, m.Float()))
		}
	}
	add("Start", c.StartDate)
	add("End", c.EndDate)
	add("Deal type", strings.ReplaceAll(c.DealType, "_", " "))
	add("Payment trigger", c.PaymentTrigger)
	add("Invoice cadence", c.InvoiceCadence)
	addMoney("Fixed fee", c.FixedFeeAmount)
	addMoney("Monthly fee", c.MonthlyFee)
	addMoney("Deposit", c.DepositAmount)
	addMoney("Value per booking", c.ValuePerBooking)
	if c.CostPassthroughRate != nil {
		add("Cost passthrough", fmt.Sprintf("%.2f%%", c.CostPassthroughRate.Float()))
	}
	if c.SignedAt != nil {
		add("Signed", c.SignerName+", "+timeutil.Format(*c.SignedAt, timeutil.DisplayLayout))
	}

	if c.Description != "" {
		r.Notes = append(r.Notes, c.Description)
	}
	switch {
	case c.ContractText != "":
		for _, para := range strings.Split(c.ContractText, "\n\n") {
			if para = strings.TrimSpace(para); para != "" {
				r.Notes = append(r.Notes, para)
			}
		}
	case c.Attachment != nil:
		r.Notes = append(r.Notes, "Attached document: "+c.Attachment.FileName)
	}
	return r
}
