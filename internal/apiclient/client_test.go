package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/billing"
	"billing-backend/internal/models"
)

func TestListInvoicesSendsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoices", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "Q3", r.URL.Query().Get("quarter"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"title":"A","total":"12.50"},{"id":2,"title":"B"}]`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	invoices, err := c.ListInvoices(context.Background(), billing.ListFilter{Year: 2024, Quarter: billing.Q3})
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.InDelta(t, 12.5, invoices[0].Total.Float(), 0.001)
}

func TestErrorBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Validation failed","fields":{"title":"required"}}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).CreateInvoice(context.Background(), &models.CreateInvoiceRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Validation failed", apiErr.Error())
	assert.Equal(t, "required", apiErr.Fields["title"])
}

func TestErrorWithoutBodyUsesStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).GetInvoice(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502", err.Error())
	assert.Equal(t, 1, calls)
}

func TestIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Not found"}`)
	}))
	defer srv.Close()

	err := New(srv.URL, nil).DeleteContract(context.Background(), 9)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
}

func TestInvoiceActions(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"id":4,"status":"Paid"}`)
	}))
	defer srv.Close()
	c := New(srv.URL, nil)

	inv, err := c.MarkInvoicePaid(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/invoices/4/paid", gotPath)
	assert.Equal(t, billing.StatusPaid, inv.Status)

	_, err = c.SetInvoiceStatus(context.Background(), 4, billing.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/invoices/4", gotPath)
	assert.Equal(t, "Paid", gotBody["status"])

	_, err = c.SignContract(context.Background(), 2, "Jo")
	require.NoError(t, err)
	assert.Equal(t, "/api/contracts/2/sign", gotPath)
	assert.Equal(t, "Jo", gotBody["signer_name"])
}

func TestExportDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/expenses/export", r.URL.Path)
		assert.Equal(t, "csv", q.Get("format"))
		assert.Equal(t, "date,total", q.Get("columns"))
		assert.Equal(t, "Q1", q.Get("quarter"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = io.WriteString(w, "Date,Total\n")
	}))
	defer srv.Close()

	doc, err := New(srv.URL, nil).Export(context.Background(), "expenses", "csv",
		billing.ViewParams{Quarter: billing.Q1}, []string{"date", "total"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	assert.Equal(t, "Date,Total\n", string(doc.Body))
}

func TestGetPreferenceNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/users/1/preferences/invoices.view_mode" {
			_, _ = io.WriteString(w, `"table"`)
			return
		}
		_, _ = io.WriteString(w, "null")
	}))
	defer srv.Close()
	c := New(srv.URL, nil)

	var mode billing.Mode
	ok, err := c.GetPreference(context.Background(), 1, "invoices.view_mode", &mode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, billing.ModeTable, mode)

	var groups []string
	ok, err = c.GetPreference(context.Background(), 1, "invoices.collapsed_groups", &groups)
	require.NoError(t, err)
	assert.False(t, ok)
}
