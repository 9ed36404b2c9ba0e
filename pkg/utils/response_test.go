package utils

import (
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondError(rec, http.StatusNotFound, "Invoice not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Invoice not found"}`, rec.Body.String())
}

func TestRespondValidation(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondValidation(rec, map[string]string{"title": "required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Validation failed","fields":{"title":"required"}}`, rec.Body.String())
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()

	Attachment(rec, "text/csv", "invoices.csv", []byte("a,b\n"), false)

	assert.Equal(t, "attachment; filename=invoices.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", rec.Body.String())
}

func TestAttachmentEscapesFilename(t *testing.T) {
	for _, name := range []string{`Q1 "final".pdf`, `contract;v2.pdf`, "factuur-ré.pdf"} {
		rec := httptest.NewRecorder()

		Attachment(rec, "application/pdf", name, []byte("%PDF"), true)

		disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
		require.NoError(t, err, name)
		assert.Equal(t, "inline", disposition)
		assert.Equal(t, name, params["filename"])
	}
}
