package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"billing-backend/internal/billing"
	"billing-backend/internal/logger"
	"billing-backend/internal/metrics"
	"billing-backend/internal/models"
)

// MaxDocumentSizeBytes is the largest PDF sent for processing (20MB)
const MaxDocumentSizeBytes = 20 * 1024 * 1024

// Config selects the Document AI processor.
type Config struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
	Timeout         time.Duration
}

// ProcessorName returns the full resource name of the processor.
func (c Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// processor is the part of the Document AI client the extractor uses.
type processor interface {
	Process(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error)
	Close() error
}

type clientProcessor struct {
	client *documentai.DocumentProcessorClient
}

func (c clientProcessor) Process(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
	resp, err := c.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.GetDocument(), nil
}

func (c clientProcessor) Close() error {
	return c.client.Close()
}

// DocumentAIExtractor turns supplier invoice PDFs into draft expenses using
// a Document AI invoice processor.
type DocumentAIExtractor struct {
	proc   processor
	config Config
	log    zerolog.Logger
}

// NewDocumentAIExtractor creates a client against the regional endpoint.
func NewDocumentAIExtractor(ctx context.Context, cfg Config) (*DocumentAIExtractor, error) {
	const op = "NewDocumentAIExtractor"

	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, wrap(op, ErrNotConfigured, "project id and processor id are required")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	var opts []option.ClientOption
	if cfg.Location != "us" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)))
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, wrap(op, err, "failed to create Document AI client for location "+cfg.Location)
	}

	return newExtractor(clientProcessor{client: client}, cfg), nil
}

func newExtractor(p processor, cfg Config) *DocumentAIExtractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &DocumentAIExtractor{proc: p, config: cfg, log: logger.WithComponent("document-ai")}
}

// Extract returns a draft expense for review. Nothing is persisted.
func (e *DocumentAIExtractor) Extract(ctx context.Context, pdf []byte) (*models.ExtractedExpense, error) {
	const op = "Extract"

	if len(pdf) > MaxDocumentSizeBytes {
		metrics.Extractions.WithLabelValues("rejected").Inc()
		return nil, wrap(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(pdf)))
	}
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		metrics.Extractions.WithLabelValues("rejected").Inc()
		return nil, wrap(op, ErrInvalidPDF, "missing PDF header")
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	doc, err := e.proc.Process(ctx, &documentaipb.ProcessRequest{
		Name: e.config.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdf,
				MimeType: "application/pdf",
			},
		},
	})
	if err != nil {
		metrics.Extractions.WithLabelValues("error").Inc()
		return nil, wrap(op, ErrProcessingFailed, err.Error())
	}
	if doc == nil {
		metrics.Extractions.WithLabelValues("error").Inc()
		return nil, wrap(op, ErrProcessingFailed, "no document in response")
	}

	out := expenseFromDocument(doc)
	metrics.Extractions.WithLabelValues("ok").Inc()
	e.log.Info().
		Str("supplier", out.Draft.Supplier).
		Str("invoice_number", out.Draft.InvoiceNumber).
		Float64("total", out.Draft.TotalAmount.Float()).
		Msg("expense extracted")
	return out, nil
}

// Close releases the client.
func (e *DocumentAIExtractor) Close() error {
	return e.proc.Close()
}

func expenseFromDocument(doc *documentaipb.Document) *models.ExtractedExpense {
	draft := models.CreateExpenseRequest{Currency: billing.DefaultCurrency}
	confidence := make(map[string]float32)

	for _, entity := range doc.GetEntities() {
		value := strings.TrimSpace(entity.GetMentionText())
		field := ""

		switch entity.GetType() {
		case "supplier_name", "vendor_name":
			field, draft.Supplier = "supplier", value
		case "invoice_id", "invoice_number":
			field, draft.InvoiceNumber = "invoice_number", value
		case "invoice_date":
			if d, ok := entityDate(entity); ok {
				field, draft.Date = "date", d
			}
		case "net_amount", "subtotal_amount":
			if amt, ok := entityMoney(entity); ok {
				field, draft.AmountExclVat = "amount_excl_vat", amt
			}
		case "total_tax_amount", "vat_amount":
			if amt, ok := entityMoney(entity); ok {
				field, draft.VatAmount = "vat_amount", amt
			}
		case "total_amount", "gross_amount":
			if amt, ok := entityMoney(entity); ok {
				field, draft.TotalAmount = "total_amount", amt
			}
		case "vat/tax_rate", "tax_rate":
			if amt, ok := parseAmount(strings.TrimSuffix(value, "%")); ok {
				field, draft.VatRatePct = "vat_rate_pct", amt
			}
		case "currency":
			if value != "" {
				field, draft.Currency = "currency", normalizeCurrency(value)
			}
		case "supplier_address":
			if c := countryFromAddress(value); c != "" {
				field, draft.Country = "country", c
			}
		}

		if field != "" {
			confidence[field] = entity.GetConfidence()
		}
	}

	fillMissingAmounts(&draft)
	if d, ok := billing.ParseDate(draft.Date); ok {
		draft.Year = d.Year()
		draft.Quarter = string(billing.QuarterOf(d))
	}
	return &models.ExtractedExpense{Draft: draft, Confidence: confidence}
}

func entityDate(entity *documentaipb.Document_Entity) (string, bool) {
	if d := entity.GetNormalizedValue().GetDateValue(); d != nil && d.GetYear() > 0 {
		t := time.Date(int(d.GetYear()), time.Month(d.GetMonth()), int(d.GetDay()), 0, 0, 0, 0, time.UTC)
		return billing.FormatDate(t), true
	}
	text := strings.TrimSpace(entity.GetMentionText())
	for _, layout := range []string{"2006-01-02", "02-01-2006", "02.01.2006", "02/01/2006", "2 January 2006", "2 Jan 2006", "January 2, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, text); err == nil {
			return billing.FormatDate(t), true
		}
	}
	return "", false
}

func entityMoney(entity *documentaipb.Document_Entity) (models.Money, bool) {
	if m := entity.GetNormalizedValue().GetMoneyValue(); m != nil {
		v := decimal.New(m.GetUnits(), 0).Add(decimal.New(int64(m.GetNanos()), -9))
		return models.Money(v.Round(2).InexactFloat64()), true
	}
	return parseAmount(entity.GetMentionText())
}

// parseAmount reads "1.234,56", "1,234.56", "€ 12,50" and similar.
func parseAmount(s string) (models.Money, bool) {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", "€", "", "$", "", "£", "", "EUR", "", "USD", "", "GBP", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma > lastDot:
		// comma is the decimal separator when it has at most two digits after it
		if len(cleaned)-lastComma-1 <= 2 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastDot > lastComma:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return models.Money(d.Round(2).InexactFloat64()), true
}

func fillMissingAmounts(d *models.CreateExpenseRequest) {
	net, vat, gross := d.AmountExclVat.Float(), d.VatAmount.Float(), d.TotalAmount.Float()
	switch {
	case gross == 0 && net > 0:
		d.TotalAmount = models.Money(billing.AddAmounts(net, vat))
	case net == 0 && gross > 0:
		d.AmountExclVat = models.Money(billing.AddAmounts(gross, -vat))
	case vat == 0 && gross > 0 && net > 0:
		d.VatAmount = models.Money(billing.AddAmounts(gross, -net))
	}
	if d.VatRatePct == 0 && d.AmountExclVat > 0 && d.VatAmount > 0 {
		rate := decimal.NewFromFloat(d.VatAmount.Float()).
			Div(decimal.NewFromFloat(d.AmountExclVat.Float())).
			Mul(decimal.NewFromInt(100)).
			Round(0)
		d.VatRatePct = models.Money(rate.InexactFloat64())
	}
}

func normalizeCurrency(c string) string {
	switch n := strings.ToUpper(strings.TrimSpace(c)); n {
	case "€", "EURO", "EUROS":
		return "EUR"
	case "$", "US$", "DOLLAR", "DOLLARS":
		return "USD"
	case "£", "POUND", "POUNDS":
		return "GBP"
	default:
		if len(n) == 3 {
			return n
		}
		return billing.DefaultCurrency
	}
}

var countries = map[string]string{
	"netherlands": "NL", "nederland": "NL", "germany": "DE", "deutschland": "DE",
	"belgium": "BE", "belgië": "BE", "france": "FR", "ireland": "IE",
	"united kingdom": "GB", "united states": "US", "usa": "US", "spain": "ES",
}

func countryFromAddress(addr string) string {
	lower := strings.ToLower(addr)
	for name, code := range countries {
		if strings.Contains(lower, name) {
			return code
		}
	}
	return ""
}
