package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/extraction"
	"billing-backend/internal/services"
	"billing-backend/pkg/utils"
)

// writeError maps service errors onto status codes. Unexpected errors are
// logged and reported as 500 without internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *billing.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondValidation(w, verr.Fields)
	case errors.Is(err, billing.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, billing.ErrNoAttachment):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, billing.ErrUnknownPreference):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, billing.ErrInvalidTransition):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, extraction.ErrInvalidPDF):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, extraction.ErrDocumentTooLarge):
		utils.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, extraction.ErrNotConfigured):
		utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, extraction.ErrProcessingFailed):
		utils.RespondError(w, http.StatusBadGateway, "PDF extraction failed")
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID reads the {id} route variable.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		utils.RespondError(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

// decodeJSON reads the request body into v. Unknown fields are ignored so
// clients can send back records they received.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// listFilter reads the year and quarter query parameters of GET lists.
// Malformed values are ignored.
func listFilter(r *http.Request) billing.ListFilter {
	q := r.URL.Query()
	f := billing.ListFilter{}
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y > 0 {
		f.Year = y
	}
	if qt, ok := billing.ParseQuarter(q.Get("quarter")); ok {
		f.Quarter = qt
	}
	return f
}

// readUpload returns the "file" part of a multipart request.
func readUpload(w http.ResponseWriter, r *http.Request) (string, string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxAttachmentSize+(1<<20))
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Expected multipart form with a file")
		return "", "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Missing file")
		return "", "", nil, false
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, services.MaxAttachmentSize+1))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Failed to read file")
		return "", "", nil, false
	}
	return header.Filename, header.Header.Get("Content-Type"), body, true
}

func respondDocument(w http.ResponseWriter, doc *services.Document) {
	inline := strings.HasPrefix(doc.ContentType, "text/html") || doc.ContentType == "application/pdf"
	utils.Attachment(w, doc.ContentType, doc.Filename, doc.Body, inline)
}

// formatParam returns the requested format or def.
func formatParam(r *http.Request, def string) string {
	if f := strings.TrimSpace(r.URL.Query().Get("format")); f != "" {
		return strings.ToLower(f)
	}
	return def
}
