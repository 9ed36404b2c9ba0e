package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/cache"
	"billing-backend/internal/listing"
	"billing-backend/internal/models"
	"billing-backend/internal/timeutil"
)

const invoiceEntity = "invoices"

type InvoiceService struct {
	Repo      InvoiceStore
	PublicURL string
	Currency  string
	ListTTL   time.Duration
}

func NewInvoiceService(repo InvoiceStore, publicURL, currency string) *InvoiceService {
	currency = currencyOr(currency, billing.DefaultCurrency)
	return &InvoiceService{Repo: repo, PublicURL: strings.TrimRight(publicURL, "/"), Currency: currency}
}

// List returns the invoices of a year/quarter with derived statuses.
func (s *InvoiceService) List(ctx context.Context, f billing.ListFilter) ([]models.Invoice, error) {
	invoices, err := cachedList(ctx, invoiceEntity, f, s.ListTTL, func() ([]models.Invoice, error) {
		return s.Repo.List(ctx, f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	now := timeutil.Now()
	for i := range invoices {
		invoices[i].DeriveStatus(now)
	}
	return invoices, nil
}

// Project runs the list pipeline over every invoice.
func (s *InvoiceService) Project(ctx context.Context, p billing.ViewParams) (billing.Projection[models.Invoice], error) {
	invoices, err := s.List(ctx, billing.ListFilter{})
	if err != nil {
		return billing.Projection[models.Invoice]{}, err
	}
	return listing.Invoices.Apply(invoices, p, timeutil.Now()), nil
}

func (s *InvoiceService) Get(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.DeriveStatus(timeutil.Now())
	return inv, nil
}

func (s *InvoiceService) Create(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if err := merge(validateStruct(req), checkLineItems(req.LineItems)); err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		AccountID:      req.AccountID,
		AccountName:    strings.TrimSpace(req.AccountName),
		InvoiceNumber:  strings.TrimSpace(req.InvoiceNumber),
		Title:          strings.TrimSpace(req.Title),
		Status:         billing.StatusDraft,
		Currency:       currencyOr(req.Currency, s.Currency),
		TaxPercent:     req.TaxPercent,
		DiscountAmount: req.DiscountAmount,
		LineItems:      req.LineItems,
		Notes:          req.Notes,
		PaymentInfo:    req.PaymentInfo,
		IssuedDate:     req.IssuedDate,
		DueDate:        req.DueDate,
		ViewToken:      uuid.NewString(),
	}
	if inv.IssuedDate == "" {
		inv.IssuedDate = timeutil.Now().Format(timeutil.DateLayout)
	}
	inv.ApplyTotals()

	if err := s.Repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	cache.InvalidateEntity(ctx, invoiceEntity)

	log.Info().Int("invoice_id", inv.ID).Str("number", inv.InvoiceNumber).Float64("total", inv.Total.Float()).Msg("Invoice created")
	inv.DeriveStatus(timeutil.Now())
	return inv, nil
}

// Update applies the non-nil fields of req. Totals are recomputed when line
// items, tax or discount change.
func (s *InvoiceService) Update(ctx context.Context, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	extra := &billing.ValidationError{}
	if req.LineItems != nil {
		extra = checkLineItems(*req.LineItems)
	}
	var status string
	if req.Status != nil {
		var verr *billing.ValidationError
		if status, verr = checkStoredStatus(*req.Status, billing.InvoiceStatuses); verr != nil {
			for f, m := range verr.Fields {
				extra.Add(f, m)
			}
		}
	}
	if err := merge(validateStruct(req), extra); err != nil {
		return nil, err
	}

	inv, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AccountID != nil {
		inv.AccountID = req.AccountID
	}
	setString(&inv.AccountName, req.AccountName)
	setString(&inv.InvoiceNumber, req.InvoiceNumber)
	setString(&inv.Title, req.Title)
	setString(&inv.Notes, req.Notes)
	setString(&inv.PaymentInfo, req.PaymentInfo)
	setString(&inv.IssuedDate, req.IssuedDate)
	setString(&inv.DueDate, req.DueDate)
	if req.Currency != nil {
		inv.Currency = currencyOr(*req.Currency, s.Currency)
	}

	recompute := false
	if req.LineItems != nil {
		inv.LineItems = *req.LineItems
		recompute = true
	}
	if req.TaxPercent != nil {
		inv.TaxPercent = *req.TaxPercent
		recompute = true
	}
	if req.DiscountAmount != nil {
		inv.DiscountAmount = *req.DiscountAmount
		recompute = true
	}
	if recompute {
		inv.ApplyTotals()
	}

	if req.SentAt != nil {
		inv.SentAt = req.SentAt
	}
	if req.PaidAt != nil {
		inv.PaidAt = req.PaidAt
	}
	if status != "" && status != inv.Status {
		now := timeutil.Now()
		switch status {
		case billing.StatusSent:
			if inv.SentAt == nil {
				inv.SentAt = &now
			}
		case billing.StatusPaid:
			if inv.PaidAt == nil {
				inv.PaidAt = &now
			}
		}
		inv.Status = status
		recordTransition("invoice", status)
	}

	if err := s.Repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice %d: %w", id, err)
	}
	cache.InvalidateEntity(ctx, invoiceEntity)
	inv.DeriveStatus(timeutil.Now())
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateEntity(ctx, invoiceEntity)
	log.Info().Int("invoice_id", id).Msg("Invoice deleted")
	return nil
}

// MarkSent moves a draft to Sent and stamps sent_at.
func (s *InvoiceService) MarkSent(ctx context.Context, id int) (*models.Invoice, error) {
	return s.transition(ctx, id, ActionSend)
}

// MarkPaid moves the invoice to Paid and stamps paid_at.
func (s *InvoiceService) MarkPaid(ctx context.Context, id int) (*models.Invoice, error) {
	return s.transition(ctx, id, ActionPay)
}

func (s *InvoiceService) Cancel(ctx context.Context, id int) (*models.Invoice, error) {
	return s.transition(ctx, id, ActionCancel)
}

func (s *InvoiceService) transition(ctx context.Context, id int, action string) (*models.Invoice, error) {
	inv, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := nextStatus(action, inv.Status)
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	switch action {
	case ActionSend:
		inv.SentAt = &now
	case ActionPay:
		inv.PaidAt = &now
	}
	inv.Status = next

	if err := s.Repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to %s invoice %d: %w", action, id, err)
	}
	cache.InvalidateEntity(ctx, invoiceEntity)
	recordTransition("invoice", next)

	log.Info().Int("invoice_id", id).Str("action", action).Str("status", next).Msg("Invoice status changed")
	inv.DeriveStatus(now)
	return inv, nil
}

// GetByViewToken serves the public view link and records the view.
func (s *InvoiceService) GetByViewToken(ctx context.Context, token string) (*models.Invoice, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, billing.ErrNotFound
	}
	inv, err := s.Repo.GetByViewToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RecordView(ctx, inv.ID); err != nil {
		return nil, fmt.Errorf("failed to record invoice view: %w", err)
	}
	cache.InvalidateEntity(ctx, invoiceEntity)

	now := timeutil.Now()
	applyView(&inv.Status, &inv.ViewedAt, &inv.ViewedCount, now)
	inv.DeriveStatus(now)
	return inv, nil
}

// ShareLink returns the public view URL of an invoice.
func (s *InvoiceService) ShareLink(ctx context.Context, id int) (string, error) {
	inv, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return viewURL(s.PublicURL, invoiceEntity, inv.ViewToken), nil
}

// checkLineItems requires at least one line item with a description.
func checkLineItems(items []models.LineItem) *billing.ValidationError {
	for _, li := range items {
		if strings.TrimSpace(li.Description) != "" {
			return &billing.ValidationError{}
		}
	}
	return billing.NewValidationError("line_items", "description")
}
