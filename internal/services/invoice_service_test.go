package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

func newInvoiceService() (*InvoiceService, *memInvoices) {
	repo := newMemInvoices()
	return NewInvoiceService(repo, "https://billing.example.com/", ""), repo
}

func validInvoiceRequest() *models.CreateInvoiceRequest {
	return &models.CreateInvoiceRequest{
		Title:       "Website redesign",
		AccountName: "Hotel Seaside",
		TaxPercent:  21,
		LineItems: []models.LineItem{
			{Description: "Design", Quantity: 2, UnitPrice: 19.99},
			{Description: "Hosting", Quantity: 1, UnitPrice: 10},
		},
		DueDate: "2024-07-01",
	}
}

func TestInvoiceCreate(t *testing.T) {
	defer fixClock()()
	svc, repo := newInvoiceService()

	inv, err := svc.Create(context.Background(), validInvoiceRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, inv.ID)
	assert.Equal(t, "INV-000001", inv.InvoiceNumber)
	assert.Equal(t, billing.StatusDraft, inv.Status)
	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, "2024-06-15", inv.IssuedDate)
	assert.NotEmpty(t, inv.ViewToken)

	assert.InDelta(t, 39.98, inv.LineItems[0].Amount.Float(), 1e-9)
	assert.InDelta(t, 49.98, inv.Subtotal.Float(), 1e-9)
	assert.InDelta(t, 10.50, inv.TaxAmount.Float(), 1e-9)
	assert.InDelta(t, 60.48, inv.Total.Float(), 1e-9)
	assert.Len(t, repo.rows, 1)
}

func TestInvoiceCreateUppercasesConfiguredCurrency(t *testing.T) {
	defer fixClock()()
	svc := NewInvoiceService(newMemInvoices(), "https://billing.example.com", " usd ")

	inv, err := svc.Create(context.Background(), validInvoiceRequest())
	require.NoError(t, err)
	assert.Equal(t, "USD", svc.Currency)
	assert.Equal(t, "USD", inv.Currency)

	req := validInvoiceRequest()
	req.Currency = "gbp"
	inv, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "GBP", inv.Currency)
}

func TestInvoiceCreateValidation(t *testing.T) {
	svc, repo := newInvoiceService()

	req := validInvoiceRequest()
	req.Title = ""
	req.LineItems = []models.LineItem{{Description: "  ", Quantity: 1, UnitPrice: 5}}
	req.DueDate = "01/07/2024"

	_, err := svc.Create(context.Background(), req)
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["title"])
	assert.Equal(t, "description", verr.Fields["line_items"])
	assert.Equal(t, "datetime", verr.Fields["due_date"])
	assert.Empty(t, repo.rows, "nothing may be written when validation fails")

	req = validInvoiceRequest()
	req.LineItems = nil
	_, err = svc.Create(context.Background(), req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["line_items"])
}

func TestInvoiceUpdateRecomputesTotals(t *testing.T) {
	defer fixClock()()
	svc, _ := newInvoiceService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, validInvoiceRequest())
	require.NoError(t, err)

	discount := models.Money(100)
	updated, err := svc.Update(ctx, inv.ID, &models.UpdateInvoiceRequest{
		Title:          str("Website redesign v2"),
		DiscountAmount: &discount,
	})
	require.NoError(t, err)
	assert.Equal(t, "Website redesign v2", updated.Title)
	assert.Equal(t, models.Money(0), updated.Total, "total is clamped at zero")

	_, err = svc.Update(ctx, 99, &models.UpdateInvoiceRequest{Title: str("x")})
	assert.ErrorIs(t, err, billing.ErrNotFound)
}

func TestInvoiceUpdateStatus(t *testing.T) {
	defer fixClock()()
	svc, _ := newInvoiceService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, validInvoiceRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, inv.ID, &models.UpdateInvoiceRequest{Status: str("Overdue")})
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr, "derived statuses are never stored")
	assert.Contains(t, verr.Fields, "status")

	updated, err := svc.Update(ctx, inv.ID, &models.UpdateInvoiceRequest{Status: str("paid")})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)
	assert.True(t, updated.PaidAt.Equal(testNow))
}

func TestInvoiceTransitions(t *testing.T) {
	defer fixClock()()
	svc, _ := newInvoiceService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, validInvoiceRequest())
	require.NoError(t, err)

	sent, err := svc.MarkSent(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	paid, err := svc.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.Cancel(ctx, inv.ID)
	assert.ErrorIs(t, err, billing.ErrInvalidTransition)

	_, err = svc.MarkSent(ctx, 42)
	assert.ErrorIs(t, err, billing.ErrNotFound)
}

func TestInvoiceOverdueIsDerived(t *testing.T) {
	defer fixClock()()
	svc, _ := newInvoiceService()
	ctx := context.Background()

	req := validInvoiceRequest()
	req.DueDate = "2024-06-01"
	inv, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusDraft, inv.EffectiveStatus)

	_, err = svc.MarkSent(ctx, inv.ID)
	require.NoError(t, err)

	list, err := svc.List(ctx, billing.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, billing.StatusSent, list[0].Status)
	assert.Equal(t, billing.StatusOverdue, list[0].EffectiveStatus)

	proj, err := svc.Project(ctx, billing.ViewParams{Statuses: []string{"Overdue"}})
	require.NoError(t, err)
	assert.Equal(t, 1, proj.Count)
}

func TestInvoiceViewToken(t *testing.T) {
	defer fixClock()()
	svc, repo := newInvoiceService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, validInvoiceRequest())
	require.NoError(t, err)
	_, err = svc.MarkSent(ctx, inv.ID)
	require.NoError(t, err)

	viewed, err := svc.GetByViewToken(ctx, inv.ViewToken)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusViewed, viewed.Status)
	assert.Equal(t, 1, viewed.ViewedCount)
	require.NotNil(t, viewed.ViewedAt)
	assert.Equal(t, 1, repo.views)

	_, err = svc.GetByViewToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, billing.ErrNotFound)

	link, err := svc.ShareLink(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://billing.example.com/api/invoices/view/"+inv.ViewToken, link)
}

func TestInvoiceDelete(t *testing.T) {
	svc, repo := newInvoiceService()
	ctx := context.Background()

	inv, err := svc.Create(ctx, validInvoiceRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, inv.ID))
	assert.Empty(t, repo.rows)
	assert.ErrorIs(t, svc.Delete(ctx, inv.ID), billing.ErrNotFound)
}

func TestNextStatus(t *testing.T) {
	next, err := nextStatus(ActionSend, billing.StatusViewed)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusViewed, next, "resending keeps Viewed")

	next, err = nextStatus(ActionSign, "sent")
	require.NoError(t, err)
	assert.Equal(t, billing.StatusSigned, next)

	_, err = nextStatus(ActionPay, billing.StatusCancelled)
	assert.ErrorIs(t, err, billing.ErrInvalidTransition)

	_, err = nextStatus("archive", billing.StatusDraft)
	assert.ErrorIs(t, err, billing.ErrInvalidTransition)
}
