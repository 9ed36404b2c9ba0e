package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/cache"
	"billing-backend/internal/extraction"
	"billing-backend/internal/listing"
	"billing-backend/internal/metrics"
	"billing-backend/internal/models"
	"billing-backend/internal/storage"
	"billing-backend/internal/timeutil"
)

const expenseEntity = "expenses"

type ExpenseService struct {
	Repo      ExpenseStore
	Files     ObjectStore
	Extractor Extractor
	Currency  string
	ListTTL   time.Duration
}

func NewExpenseService(repo ExpenseStore, files ObjectStore, extractor Extractor, currency string) *ExpenseService {
	currency = currencyOr(currency, billing.DefaultCurrency)
	return &ExpenseService{Repo: repo, Files: files, Extractor: extractor, Currency: currency}
}

func (s *ExpenseService) List(ctx context.Context, f billing.ListFilter) ([]models.Expense, error) {
	expenses, err := cachedList(ctx, expenseEntity, f, s.ListTTL, func() ([]models.Expense, error) {
		return s.Repo.List(ctx, f)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) Project(ctx context.Context, p billing.ViewParams) (billing.Projection[models.Expense], error) {
	expenses, err := s.List(ctx, billing.ListFilter{})
	if err != nil {
		return billing.Projection[models.Expense]{}, err
	}
	return listing.Expenses.Apply(expenses, p, timeutil.Now()), nil
}

func (s *ExpenseService) Get(ctx context.Context, id int) (*models.Expense, error) {
	return s.Repo.Get(ctx, id)
}

// Create stores a new expense. Year and quarter default to the date's
// period; VAT amount and total are computed when left at zero.
func (s *ExpenseService) Create(ctx context.Context, req *models.CreateExpenseRequest) (*models.Expense, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	e := &models.Expense{
		Date:            req.Date,
		Year:            req.Year,
		Quarter:         req.Quarter,
		Supplier:        strings.TrimSpace(req.Supplier),
		Country:         strings.TrimSpace(req.Country),
		InvoiceNumber:   strings.TrimSpace(req.InvoiceNumber),
		Description:     req.Description,
		Currency:        currencyOr(req.Currency, s.Currency),
		AmountExclVat:   req.AmountExclVat,
		VatRatePct:      req.VatRatePct,
		VatAmount:       req.VatAmount,
		TotalAmount:     req.TotalAmount,
		NlBtwDeductible: req.NlBtwDeductible,
		Notes:           req.Notes,
	}
	e.FillDerived()

	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	cache.InvalidateEntity(ctx, expenseEntity)

	log.Info().Int("expense_id", e.ID).Str("supplier", e.Supplier).Float64("total", e.TotalAmount.Float()).Msg("Expense created")
	return e, nil
}

// Update applies the non-nil fields of req. Changing the amount or rate
// without sending VAT or total recomputes them.
func (s *ExpenseService) Update(ctx context.Context, id int, req *models.UpdateExpenseRequest) (*models.Expense, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil && *req.Date != e.Date {
		e.Date = *req.Date
		if req.Year == nil {
			e.Year = 0
		}
		if req.Quarter == nil {
			e.Quarter = ""
		}
	}
	if req.Year != nil {
		e.Year = *req.Year
	}
	setString(&e.Quarter, req.Quarter)
	setString(&e.Supplier, req.Supplier)
	setString(&e.Country, req.Country)
	setString(&e.InvoiceNumber, req.InvoiceNumber)
	setString(&e.Description, req.Description)
	setString(&e.Notes, req.Notes)
	if req.Currency != nil {
		e.Currency = currencyOr(*req.Currency, s.Currency)
	}
	if req.NlBtwDeductible != nil {
		e.NlBtwDeductible = *req.NlBtwDeductible
	}

	amountsChanged := req.AmountExclVat != nil || req.VatRatePct != nil
	if req.AmountExclVat != nil {
		e.AmountExclVat = *req.AmountExclVat
	}
	if req.VatRatePct != nil {
		e.VatRatePct = *req.VatRatePct
	}
	switch {
	case req.VatAmount != nil:
		e.VatAmount = *req.VatAmount
	case amountsChanged:
		e.VatAmount = 0
	}
	switch {
	case req.TotalAmount != nil:
		e.TotalAmount = *req.TotalAmount
	case amountsChanged || req.VatAmount != nil:
		e.TotalAmount = 0
	}
	e.FillDerived()

	if err := s.Repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update expense %d: %w", id, err)
	}
	cache.InvalidateEntity(ctx, expenseEntity)
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int) error {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateEntity(ctx, expenseEntity)
	s.removeObject(ctx, e.PdfPath)
	log.Info().Int("expense_id", id).Msg("Expense deleted")
	return nil
}

// AttachPDF stores the receipt and records its object key in pdf_path.
func (s *ExpenseService) AttachPDF(ctx context.Context, id int, fileName string, body []byte) (*models.Expense, error) {
	if verr := checkUpload(fileName, body); verr != nil {
		return nil, verr
	}
	if !isPDF(body) {
		return nil, billing.NewValidationError("file", "pdf")
	}

	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(expenseEntity, id, fileName)
	if err := s.Files.Put(ctx, key, "application/pdf", body); err != nil {
		return nil, fmt.Errorf("failed to store expense pdf: %w", err)
	}
	previous := e.PdfPath
	e.PdfPath = key

	if err := s.Repo.Update(ctx, e); err != nil {
		s.removeObject(ctx, key)
		return nil, fmt.Errorf("failed to update expense %d: %w", id, err)
	}
	cache.InvalidateEntity(ctx, expenseEntity)
	s.removeObject(ctx, previous)
	return e, nil
}

// OpenPDF returns the stored receipt of an expense.
func (s *ExpenseService) OpenPDF(ctx context.Context, id int) (string, []byte, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if e.PdfPath == "" {
		return "", nil, billing.ErrNoAttachment
	}
	body, _, err := s.Files.Get(ctx, e.PdfPath)
	if err != nil {
		return "", nil, err
	}
	return e.PdfPath[strings.LastIndex(e.PdfPath, "/")+1:], body, nil
}

// ExtractFromPDF returns a draft expense read from pdf. Nothing is stored;
// the caller reviews the draft and posts it.
func (s *ExpenseService) ExtractFromPDF(ctx context.Context, pdf []byte) (*models.ExtractedExpense, error) {
	if s.Extractor == nil {
		metrics.Extractions.WithLabelValues("disabled").Inc()
		return nil, extraction.ErrNotConfigured
	}

	draft, err := s.Extractor.Extract(ctx, pdf)
	if err != nil {
		return nil, err
	}

	if draft.Draft.Currency == "" {
		draft.Draft.Currency = s.Currency
	}
	log.Info().Str("supplier", draft.Draft.Supplier).Str("date", draft.Draft.Date).Msg("Expense extracted from PDF")
	return draft, nil
}

func (s *ExpenseService) removeObject(ctx context.Context, key string) {
	if key == "" || s.Files == nil {
		return
	}
	if err := s.Files.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete expense pdf")
	}
}

func isPDF(body []byte) bool {
	return len(body) >= 5 && string(body[:5]) == "%PDF-"
}
