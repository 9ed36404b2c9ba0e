// Package apiclient is a typed HTTP client for the billing REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"billing-backend/internal/billing"
	"billing-backend/internal/listing"
	"billing-backend/internal/models"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL such as http://localhost:8080. A nil
// httpClient uses a 30 second timeout. Requests are never retried.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Error) != "" {
		apiErr.Message = body.Error
		apiErr.Fields = body.Fields
	} else {
		apiErr.Message = "HTTP " + strconv.Itoa(resp.StatusCode)
	}
	return apiErr
}

// call performs a JSON request and decodes the response into out when out
// is non-nil.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.request(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func filterQuery(f billing.ListFilter) url.Values {
	q := url.Values{}
	if f.Year > 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	if f.Quarter != "" {
		q.Set("quarter", string(f.Quarter))
	}
	return q
}

func idPath(entity string, id int, suffix string) string {
	return "/api/" + entity + "/" + strconv.Itoa(id) + suffix
}

// Invoices

func (c *Client) ListInvoices(ctx context.Context, f billing.ListFilter) ([]models.Invoice, error) {
	var out []models.Invoice
	return out, c.call(ctx, http.MethodGet, "/api/invoices", filterQuery(f), nil, &out)
}

func (c *Client) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.call(ctx, http.MethodGet, idPath("invoices", id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.call(ctx, http.MethodPost, "/api/invoices", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInvoice(ctx context.Context, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.call(ctx, http.MethodPatch, idPath("invoices", id, ""), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, idPath("invoices", id, ""), nil, nil, nil)
}

// SetInvoiceStatus patches the stored status; the server stamps the
// matching timestamp.
func (c *Client) SetInvoiceStatus(ctx context.Context, id int, status string) (*models.Invoice, error) {
	return c.UpdateInvoice(ctx, id, &models.UpdateInvoiceRequest{Status: &status})
}

func (c *Client) SendInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	return c.invoiceAction(ctx, id, "/send")
}

func (c *Client) MarkInvoicePaid(ctx context.Context, id int) (*models.Invoice, error) {
	return c.invoiceAction(ctx, id, "/paid")
}

func (c *Client) CancelInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	return c.invoiceAction(ctx, id, "/cancel")
}

func (c *Client) invoiceAction(ctx context.Context, id int, action string) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.call(ctx, http.MethodPost, idPath("invoices", id, action), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contracts

func (c *Client) ListContracts(ctx context.Context, f billing.ListFilter) ([]models.Contract, error) {
	var out []models.Contract
	return out, c.call(ctx, http.MethodGet, "/api/contracts", filterQuery(f), nil, &out)
}

func (c *Client) GetContract(ctx context.Context, id int) (*models.Contract, error) {
	var out models.Contract
	if err := c.call(ctx, http.MethodGet, idPath("contracts", id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateContract(ctx context.Context, req *models.CreateContractRequest) (*models.Contract, error) {
	var out models.Contract
	if err := c.call(ctx, http.MethodPost, "/api/contracts", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContract(ctx context.Context, id int, req *models.UpdateContractRequest) (*models.Contract, error) {
	var out models.Contract
	if err := c.call(ctx, http.MethodPatch, idPath("contracts", id, ""), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContract(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, idPath("contracts", id, ""), nil, nil, nil)
}

func (c *Client) SendContract(ctx context.Context, id int) (*models.Contract, error) {
	return c.contractAction(ctx, id, "/send", nil)
}

func (c *Client) SignContract(ctx context.Context, id int, signer string) (*models.Contract, error) {
	return c.contractAction(ctx, id, "/sign", &models.SignContractRequest{SignerName: signer})
}

func (c *Client) CancelContract(ctx context.Context, id int) (*models.Contract, error) {
	return c.contractAction(ctx, id, "/cancel", nil)
}

func (c *Client) contractAction(ctx context.Context, id int, action string, body interface{}) (*models.Contract, error) {
	var out models.Contract
	if err := c.call(ctx, http.MethodPost, idPath("contracts", id, action), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Expenses

func (c *Client) ListExpenses(ctx context.Context, f billing.ListFilter) ([]models.Expense, error) {
	var out []models.Expense
	return out, c.call(ctx, http.MethodGet, "/api/expenses", filterQuery(f), nil, &out)
}

func (c *Client) GetExpense(ctx context.Context, id int) (*models.Expense, error) {
	var out models.Expense
	if err := c.call(ctx, http.MethodGet, idPath("expenses", id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateExpense(ctx context.Context, req *models.CreateExpenseRequest) (*models.Expense, error) {
	var out models.Expense
	if err := c.call(ctx, http.MethodPost, "/api/expenses", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExpense(ctx context.Context, id int, req *models.UpdateExpenseRequest) (*models.Expense, error) {
	var out models.Expense
	if err := c.call(ctx, http.MethodPatch, idPath("expenses", id, ""), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, idPath("expenses", id, ""), nil, nil, nil)
}

// ExtractExpense uploads a PDF and returns the fields the server read from it.
func (c *Client) ExtractExpense(ctx context.Context, pdf []byte) (*models.ExtractedExpense, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/expenses/extract", bytes.NewReader(pdf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract expense: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}
	var out models.ExtractedExpense
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return &out, nil
}

// Documents

// Download is a rendered document fetched from the API.
type Download struct {
	ContentType string
	Body        []byte
}

// Export renders a list of kind ("invoices", "contracts", "expenses") on the
// server. columns narrows the visible columns; nil exports every column.
func (c *Client) Export(ctx context.Context, kind, format string, p billing.ViewParams, columns []string) (*Download, error) {
	q := listing.Encode(p)
	q.Set("format", format)
	if len(columns) > 0 {
		q.Set("columns", strings.Join(columns, ","))
	}
	return c.download(ctx, "/api/"+kind+"/export", q)
}

// Document renders a single invoice or contract.
func (c *Client) Document(ctx context.Context, kind string, id int, format string) (*Download, error) {
	return c.download(ctx, idPath(kind, id, "/document"), url.Values{"format": {format}})
}

func (c *Client) download(ctx context.Context, path string, q url.Values) (*Download, error) {
	resp, err := c.request(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Download{ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

// ShareLink returns the public view URL of an invoice or contract.
func (c *Client) ShareLink(ctx context.Context, kind string, id int) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.call(ctx, http.MethodGet, idPath(kind, id, "/share-link"), nil, nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Preferences

// GetPreference decodes the user's stored value for key into out. It reports
// false when nothing is stored.
func (c *Client) GetPreference(ctx context.Context, userID int, key string, out interface{}) (bool, error) {
	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, idPath("users", userID, "/preferences/"+url.PathEscape(key)), nil, nil, &raw); err != nil {
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *Client) SetPreference(ctx context.Context, userID int, key string, value interface{}) error {
	return c.call(ctx, http.MethodPut, idPath("users", userID, "/preferences/"+url.PathEscape(key)), nil, value, nil)
}
