package models

import (
	"time"

	"billing-backend/internal/billing"
)

// Deal types of a contract
const (
	DealPerformance     = "performance"
	DealCostPassthrough = "cost_passthrough"
	DealFixedFee        = "fixed_fee"
	DealDeposit         = "deposit"
	DealMonthlyRetainer = "monthly_retainer"
	DealHybrid          = "hybrid"
)

// DealTypes lists the accepted deal types.
var DealTypes = []string{
	DealPerformance, DealCostPassthrough, DealFixedFee,
	DealDeposit, DealMonthlyRetainer, DealHybrid,
}

// Attachment describes a file stored in object storage.
type Attachment struct {
	FileName  string `json:"file_name"`
	FileSize  int64  `json:"file_size"`
	MimeType  string `json:"mime_type"`
	ObjectKey string `json:"-"`
}

// Contract represents an agreement with an account
type Contract struct {
	ID                  int         `json:"id"`
	AccountID           *int        `json:"account_id"`
	AccountName         string      `json:"account_name"`
	Title               string      `json:"title"`
	Status              string      `json:"status"`
	Description         string      `json:"description"`
	Attachment          *Attachment `json:"attachment"`
	StartDate           string      `json:"start_date"`
	EndDate             string      `json:"end_date"`
	SignedAt            *time.Time  `json:"signed_at"`
	SentAt              *time.Time  `json:"sent_at"`
	ViewedAt            *time.Time  `json:"viewed_at"`
	ViewedCount         int         `json:"viewed_count"`
	ViewToken           string      `json:"view_token"`
	DealType            string      `json:"deal_type"`
	PaymentTrigger      string      `json:"payment_trigger"`
	ValuePerBooking     *Money      `json:"value_per_booking"`
	FixedFeeAmount      *Money      `json:"fixed_fee_amount"`
	DepositAmount       *Money      `json:"deposit_amount"`
	MonthlyFee          *Money      `json:"monthly_fee"`
	CostPassthroughRate *Money      `json:"cost_passthrough_rate"`
	Currency            string      `json:"currency"`
	InvoiceCadence      string      `json:"invoice_cadence"`
	ContractText        string      `json:"contract_text"`
	SignerName          string      `json:"signer_name"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`

	EffectiveStatus string `json:"effective_status,omitempty"`
}

// DeriveStatus fills EffectiveStatus for now.
func (c *Contract) DeriveStatus(now time.Time) {
	c.EffectiveStatus = billing.ContractStatus(c.Status, c.EndDate, now)
}

// HeadlineValue is the amount used for sorting and totals: the first
// non-null economic field in fixed fee, monthly fee, deposit, value per
// booking order.
func (c *Contract) HeadlineValue() float64 {
	for _, m := range []*Money{c.FixedFeeAmount, c.MonthlyFee, c.DepositAmount, c.ValuePerBooking} {
		if m != nil {
			return m.Float()
		}
	}
	return 0
}

// CreateContractRequest is the POST /api/contracts body
type CreateContractRequest struct {
	AccountID           *int   `json:"account_id"`
	AccountName         string `json:"account_name"`
	Title               string `json:"title" validate:"required,max=255"`
	Description         string `json:"description"`
	StartDate           string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate             string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DealType            string `json:"deal_type" validate:"omitempty,oneof=performance cost_passthrough fixed_fee deposit monthly_retainer hybrid"`
	PaymentTrigger      string `json:"payment_trigger"`
	ValuePerBooking     *Money `json:"value_per_booking" validate:"omitempty,gte=0"`
	FixedFeeAmount      *Money `json:"fixed_fee_amount" validate:"omitempty,gte=0"`
	DepositAmount       *Money `json:"deposit_amount" validate:"omitempty,gte=0"`
	MonthlyFee          *Money `json:"monthly_fee" validate:"omitempty,gte=0"`
	CostPassthroughRate *Money `json:"cost_passthrough_rate" validate:"omitempty,gte=0"`
	Currency            string `json:"currency" validate:"omitempty,len=3"`
	InvoiceCadence      string `json:"invoice_cadence"`
	ContractText        string `json:"contract_text"`
}

// UpdateContractRequest is the PATCH /api/contracts/{id} body
type UpdateContractRequest struct {
	AccountID           *int       `json:"account_id"`
	AccountName         *string    `json:"account_name"`
	Title               *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Status              *string    `json:"status"`
	Description         *string    `json:"description"`
	StartDate           *string    `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate             *string    `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DealType            *string    `json:"deal_type" validate:"omitempty,oneof=performance cost_passthrough fixed_fee deposit monthly_retainer hybrid"`
	PaymentTrigger      *string    `json:"payment_trigger"`
	ValuePerBooking     *Money     `json:"value_per_booking" validate:"omitempty,gte=0"`
	FixedFeeAmount      *Money     `json:"fixed_fee_amount" validate:"omitempty,gte=0"`
	DepositAmount       *Money     `json:"deposit_amount" validate:"omitempty,gte=0"`
	MonthlyFee          *Money     `json:"monthly_fee" validate:"omitempty,gte=0"`
	CostPassthroughRate *Money     `json:"cost_passthrough_rate" validate:"omitempty,gte=0"`
	Currency            *string    `json:"currency" validate:"omitempty,len=3"`
	InvoiceCadence      *string    `json:"invoice_cadence"`
	ContractText        *string    `json:"contract_text"`
	SignerName          *string    `json:"signer_name"`
	SentAt              *time.Time `json:"sent_at"`
	SignedAt            *time.Time `json:"signed_at"`
}

// SignContractRequest is the POST /api/contracts/{id}/sign body
type SignContractRequest struct {
	SignerName string `json:"signer_name" validate:"required,max=255"`
}
