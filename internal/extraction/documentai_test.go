package extraction

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/models"
)

type fakeProcessor struct {
	doc  *documentaipb.Document
	err  error
	reqs []*documentaipb.ProcessRequest
}

func (f *fakeProcessor) Process(_ context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
	f.reqs = append(f.reqs, req)
	return f.doc, f.err
}

func (f *fakeProcessor) Close() error { return nil }

func entity(typ, text string, conf float32) *documentaipb.Document_Entity {
	return &documentaipb.Document_Entity{Type: typ, MentionText: text, Confidence: conf}
}

func TestExtractMapsEntities(t *testing.T) {
	proc := &fakeProcessor{doc: &documentaipb.Document{Entities: []*documentaipb.Document_Entity{
		entity("supplier_name", "Hetzner Online GmbH", 0.98),
		entity("supplier_address", "Industriestr. 25, 91710 Gunzenhausen, Germany", 0.9),
		entity("invoice_id", "R0012345678", 0.95),
		entity("invoice_date", "10.02.2025", 0.9),
		entity("net_amount", "1.234,50", 0.9),
		entity("total_tax_amount", "259,25", 0.9),
		entity("currency", "€", 0.8),
	}}}
	ex := newExtractor(proc, Config{ProjectID: "p", Location: "eu", ProcessorID: "abc"})

	got, err := ex.Extract(context.Background(), []byte("%PDF-1.7 ..."))

	require.NoError(t, err)
	d := got.Draft
	assert.Equal(t, "Hetzner Online GmbH", d.Supplier)
	assert.Equal(t, "DE", d.Country)
	assert.Equal(t, "R0012345678", d.InvoiceNumber)
	assert.Equal(t, "2025-02-10", d.Date)
	assert.Equal(t, 2025, d.Year)
	assert.Equal(t, "Q1", d.Quarter)
	assert.Equal(t, models.Money(1234.5), d.AmountExclVat)
	assert.Equal(t, models.Money(259.25), d.VatAmount)
	assert.Equal(t, models.Money(1493.75), d.TotalAmount)
	assert.Equal(t, models.Money(21), d.VatRatePct)
	assert.Equal(t, "EUR", d.Currency)
	assert.InDelta(t, 0.98, got.Confidence["supplier"], 0.001)

	require.Len(t, proc.reqs, 1)
	assert.Equal(t, "projects/p/locations/eu/processors/abc", proc.reqs[0].Name)
}

func TestExtractRejectsBadInput(t *testing.T) {
	ex := newExtractor(&fakeProcessor{}, Config{})

	_, err := ex.Extract(context.Background(), []byte("hello"))
	assert.True(t, errors.Is(err, ErrInvalidPDF))

	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "Extract", xerr.Op)

	big := make([]byte, MaxDocumentSizeBytes+1)
	copy(big, "%PDF")
	_, err = ex.Extract(context.Background(), big)
	assert.True(t, errors.Is(err, ErrDocumentTooLarge))
}

func TestExtractProcessorFailure(t *testing.T) {
	ex := newExtractor(&fakeProcessor{err: errors.New("PERMISSION_DENIED")}, Config{})

	_, err := ex.Extract(context.Background(), []byte("%PDF-1.4"))

	assert.True(t, errors.Is(err, ErrProcessingFailed))
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}

func TestParseAmount(t *testing.T) {
	cases := map[string]models.Money{
		"1.234,56":   1234.56,
		"1,234.56":   1234.56,
		"€ 12,50":    12.5,
		"1,234":      1234,
		"99":         99,
		"USD 10.005": 10.01,
	}
	for in, want := range cases {
		got, ok := parseAmount(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := parseAmount("n/a")
	assert.False(t, ok)
}
