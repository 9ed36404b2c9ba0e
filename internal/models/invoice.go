package models

import (
	"time"

	"billing-backend/internal/billing"
)

// LineItem is one billable row of an invoice.
type LineItem struct {
	Description string `json:"description"`
	Quantity    Money  `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	Amount      Money  `json:"amount"`
}

// Invoice represents an outgoing invoice to an account
type Invoice struct {
	ID             int        `json:"id"`
	AccountID      *int       `json:"account_id"`
	AccountName    string     `json:"account_name"`
	InvoiceNumber  string     `json:"invoice_number"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	Currency       string     `json:"currency"`
	Subtotal       Money      `json:"subtotal"`
	TaxPercent     Money      `json:"tax_percent"`
	TaxAmount      Money      `json:"tax_amount"`
	DiscountAmount Money      `json:"discount_amount"`
	Total          Money      `json:"total"`
	LineItems      []LineItem `json:"line_items"`
	Notes          string     `json:"notes"`
	PaymentInfo    string     `json:"payment_info"`
	IssuedDate     string     `json:"issued_date"`
	DueDate        string     `json:"due_date"`
	SentAt         *time.Time `json:"sent_at"`
	PaidAt         *time.Time `json:"paid_at"`
	ViewedAt       *time.Time `json:"viewed_at"`
	ViewedCount    int        `json:"viewed_count"`
	ViewToken      string     `json:"view_token"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// EffectiveStatus is derived on read and never stored.
	EffectiveStatus string `json:"effective_status,omitempty"`
}

// DeriveStatus fills EffectiveStatus for now.
func (i *Invoice) DeriveStatus(now time.Time) {
	i.EffectiveStatus = billing.InvoiceStatus(i.Status, i.DueDate, now)
}

// LineInputs converts the line items for the totals calculator.
func (i *Invoice) LineInputs() []billing.LineInput {
	out := make([]billing.LineInput, len(i.LineItems))
	for n, li := range i.LineItems {
		out[n] = billing.LineInput{
			Description: li.Description,
			Quantity:    li.Quantity.Float(),
			UnitPrice:   li.UnitPrice.Float(),
		}
	}
	return out
}

// ApplyTotals recomputes line amounts, subtotal, tax and total.
func (i *Invoice) ApplyTotals() {
	t := billing.CalculateTotals(i.LineInputs(), i.TaxPercent.Float(), i.DiscountAmount.Float())
	for n := range i.LineItems {
		i.LineItems[n].Amount = Money(t.Lines[n].Amount)
	}
	i.Subtotal = Money(t.Subtotal)
	i.TaxAmount = Money(t.TaxAmount)
	i.Total = Money(t.Total)
}

// CreateInvoiceRequest is the POST /api/invoices body
type CreateInvoiceRequest struct {
	AccountID      *int       `json:"account_id"`
	AccountName    string     `json:"account_name"`
	InvoiceNumber  string     `json:"invoice_number" validate:"max=50"`
	Title          string     `json:"title" validate:"required,max=255"`
	Currency       string     `json:"currency" validate:"omitempty,len=3"`
	TaxPercent     Money      `json:"tax_percent" validate:"gte=0,lte=100"`
	DiscountAmount Money      `json:"discount_amount" validate:"gte=0"`
	LineItems      []LineItem `json:"line_items" validate:"required,min=1,dive"`
	Notes          string     `json:"notes"`
	PaymentInfo    string     `json:"payment_info"`
	IssuedDate     string     `json:"issued_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate        string     `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateInvoiceRequest is the PATCH /api/invoices/{id} body. Nil fields are left untouched.
type UpdateInvoiceRequest struct {
	AccountID      *int        `json:"account_id"`
	AccountName    *string     `json:"account_name"`
	InvoiceNumber  *string     `json:"invoice_number" validate:"omitempty,max=50"`
	Title          *string     `json:"title" validate:"omitempty,min=1,max=255"`
	Status         *string     `json:"status"`
	Currency       *string     `json:"currency" validate:"omitempty,len=3"`
	TaxPercent     *Money      `json:"tax_percent" validate:"omitempty,gte=0,lte=100"`
	DiscountAmount *Money      `json:"discount_amount" validate:"omitempty,gte=0"`
	LineItems      *[]LineItem `json:"line_items" validate:"omitempty,min=1,dive"`
	Notes          *string     `json:"notes"`
	PaymentInfo    *string     `json:"payment_info"`
	IssuedDate     *string     `json:"issued_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate        *string     `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	SentAt         *time.Time  `json:"sent_at"`
	PaidAt         *time.Time  `json:"paid_at"`
}
