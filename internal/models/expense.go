package models

import (
	"time"

	"billing-backend/internal/billing"
)

// Expense is an incoming supplier invoice or receipt
type Expense struct {
	ID              int       `json:"id"`
	Date            string    `json:"date"`
	Year            int       `json:"year"`
	Quarter         string    `json:"quarter"`
	Supplier        string    `json:"supplier"`
	Country         string    `json:"country"`
	InvoiceNumber   string    `json:"invoice_number"`
	Description     string    `json:"description"`
	Currency        string    `json:"currency"`
	AmountExclVat   Money     `json:"amount_excl_vat"`
	VatRatePct      Money     `json:"vat_rate_pct"`
	VatAmount       Money     `json:"vat_amount"`
	TotalAmount     Money     `json:"total_amount"`
	NlBtwDeductible bool      `json:"nl_btw_deductible"`
	Notes           string    `json:"notes"`
	PdfPath         string    `json:"pdf_path"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Period returns the stored year/quarter, falling back to the date's
// month bucket for whichever part is missing.
func (e *Expense) Period() (billing.Period, bool) {
	q, qok := billing.ParseQuarter(e.Quarter)
	date, dok := billing.ParseDate(e.Date)

	p := billing.Period{Year: e.Year, Quarter: q}
	if !qok {
		if !dok {
			return billing.Period{}, false
		}
		p.Quarter = billing.QuarterOf(date)
	}
	if p.Year <= 0 {
		if !dok {
			return billing.Period{}, false
		}
		p.Year = date.Year()
	}
	return p, true
}

// FillDerived sets year and quarter from the date when absent and computes
// VAT and total when they were not supplied.
func (e *Expense) FillDerived() {
	if p, ok := e.Period(); ok {
		e.Year = p.Year
		e.Quarter = string(p.Quarter)
	}
	if e.VatAmount == 0 && e.VatRatePct != 0 {
		e.VatAmount = Money(billing.VATAmount(e.AmountExclVat.Float(), e.VatRatePct.Float()))
	}
	if e.TotalAmount == 0 {
		e.TotalAmount = Money(billing.AddAmounts(e.AmountExclVat.Float(), e.VatAmount.Float()))
	}
}

// CreateExpenseRequest is the POST /api/expenses body
type CreateExpenseRequest struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Year            int    `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	Quarter         string `json:"quarter" validate:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	Supplier        string `json:"supplier" validate:"required,max=255"`
	Country         string `json:"country" validate:"omitempty,max=64"`
	InvoiceNumber   string `json:"invoice_number" validate:"max=100"`
	Description     string `json:"description"`
	Currency        string `json:"currency" validate:"omitempty,len=3"`
	AmountExclVat   Money  `json:"amount_excl_vat"`
	VatRatePct      Money  `json:"vat_rate_pct" validate:"gte=0,lte=100"`
	VatAmount       Money  `json:"vat_amount"`
	TotalAmount     Money  `json:"total_amount"`
	NlBtwDeductible bool   `json:"nl_btw_deductible"`
	Notes           string `json:"notes"`
}

// UpdateExpenseRequest is the PATCH /api/expenses/{id} body
type UpdateExpenseRequest struct {
	Date            *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Year            *int    `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	Quarter         *string `json:"quarter" validate:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	Supplier        *string `json:"supplier" validate:"omitempty,min=1,max=255"`
	Country         *string `json:"country" validate:"omitempty,max=64"`
	InvoiceNumber   *string `json:"invoice_number" validate:"omitempty,max=100"`
	Description     *string `json:"description"`
	Currency        *string `json:"currency" validate:"omitempty,len=3"`
	AmountExclVat   *Money  `json:"amount_excl_vat"`
	VatRatePct      *Money  `json:"vat_rate_pct" validate:"omitempty,gte=0,lte=100"`
	VatAmount       *Money  `json:"vat_amount"`
	TotalAmount     *Money  `json:"total_amount"`
	NlBtwDeductible *bool   `json:"nl_btw_deductible"`
	Notes           *string `json:"notes"`
}
