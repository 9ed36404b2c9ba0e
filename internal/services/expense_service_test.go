package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/billing"
	"billing-backend/internal/extraction"
	"billing-backend/internal/models"
	"billing-backend/internal/storage"
)

func newExpenseService(ex Extractor) (*ExpenseService, *memExpenses, *storage.MemoryStore) {
	repo := newMemExpenses()
	files := storage.NewMemoryStore()
	return NewExpenseService(repo, files, ex, ""), repo, files
}

func TestExpenseCreateDerivesFields(t *testing.T) {
	svc, _, _ := newExpenseService(nil)

	e, err := svc.Create(context.Background(), &models.CreateExpenseRequest{
		Date:          "2024-08-20",
		Supplier:      "Cloud Hosting BV",
		AmountExclVat: 100,
		VatRatePct:    21,
	})
	require.NoError(t, err)
	assert.Equal(t, 2024, e.Year)
	assert.Equal(t, "Q3", e.Quarter)
	assert.Equal(t, "EUR", e.Currency)
	assert.InDelta(t, 21, e.VatAmount.Float(), 1e-9)
	assert.InDelta(t, 121, e.TotalAmount.Float(), 1e-9)
}

func TestExpenseCreateKeepsStoredPeriod(t *testing.T) {
	svc, _, _ := newExpenseService(nil)

	e, err := svc.Create(context.Background(), &models.CreateExpenseRequest{
		Date:        "2024-01-03",
		Year:        2023,
		Quarter:     "Q4",
		Supplier:    "Late Invoice Ltd",
		TotalAmount: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 2023, e.Year)
	assert.Equal(t, "Q4", e.Quarter)
	assert.InDelta(t, 50, e.TotalAmount.Float(), 1e-9)
}

func TestExpenseCreateValidation(t *testing.T) {
	svc, repo, _ := newExpenseService(nil)

	_, err := svc.Create(context.Background(), &models.CreateExpenseRequest{Quarter: "Q5"})
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["date"])
	assert.Equal(t, "required", verr.Fields["supplier"])
	assert.Equal(t, "oneof", verr.Fields["quarter"])
	assert.Empty(t, repo.rows)
}

func TestExpenseUpdateRecomputes(t *testing.T) {
	svc, _, _ := newExpenseService(nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, &models.CreateExpenseRequest{
		Date: "2024-02-10", Supplier: "Office Supplies", AmountExclVat: 100, VatRatePct: 21,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, e.ID, &models.UpdateExpenseRequest{
		AmountExclVat: money(200),
		Date:          str("2024-05-02"),
	})
	require.NoError(t, err)
	assert.InDelta(t, 42, updated.VatAmount.Float(), 1e-9)
	assert.InDelta(t, 242, updated.TotalAmount.Float(), 1e-9)
	assert.Equal(t, "Q2", updated.Quarter)

	updated, err = svc.Update(ctx, e.ID, &models.UpdateExpenseRequest{Notes: str("checked")})
	require.NoError(t, err)
	assert.InDelta(t, 242, updated.TotalAmount.Float(), 1e-9, "untouched amounts stay")
	assert.Equal(t, "checked", updated.Notes)
}

func TestExpensePDF(t *testing.T) {
	svc, _, files := newExpenseService(nil)
	ctx := context.Background()

	e, err := svc.Create(ctx, &models.CreateExpenseRequest{Date: "2024-02-10", Supplier: "Printer Co"})
	require.NoError(t, err)

	_, err = svc.AttachPDF(ctx, e.ID, "receipt.png", []byte("\x89PNG...."))
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)

	_, _, err = svc.OpenPDF(ctx, e.ID)
	assert.ErrorIs(t, err, billing.ErrNoAttachment)

	withPDF, err := svc.AttachPDF(ctx, e.ID, "receipt.pdf", []byte("%PDF-1.7 data"))
	require.NoError(t, err)
	assert.NotEmpty(t, withPDF.PdfPath)

	name, body, err := svc.OpenPDF(ctx, e.ID)
	require.NoError(t, err)
	assert.Contains(t, name, "receipt.pdf")
	assert.Equal(t, []byte("%PDF-1.7 data"), body)

	require.NoError(t, svc.Delete(ctx, e.ID))
	assert.Equal(t, 0, files.Len())
}

func TestExpenseExtract(t *testing.T) {
	ctx := context.Background()

	svc, repo, _ := newExpenseService(nil)
	_, err := svc.ExtractFromPDF(ctx, []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, extraction.ErrNotConfigured)

	draft := &models.ExtractedExpense{Draft: models.CreateExpenseRequest{Supplier: "Cloud Hosting BV", Date: "2024-04-01"}}
	svc, repo, _ = newExpenseService(fakeExtractor{out: draft})
	got, err := svc.ExtractFromPDF(ctx, []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "Cloud Hosting BV", got.Draft.Supplier)
	assert.Equal(t, "EUR", got.Draft.Currency)
	assert.Empty(t, repo.rows, "extraction never stores an expense")

	failing := errors.New("quota exceeded")
	svc, _, _ = newExpenseService(fakeExtractor{err: failing})
	_, err = svc.ExtractFromPDF(ctx, []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, failing)
}
