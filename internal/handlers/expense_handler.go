package handlers

import (
	"io"
	"net/http"

	"billing-backend/internal/billing"
	"billing-backend/internal/extraction"
	"billing-backend/internal/listing"
	"billing-backend/internal/models"
	"billing-backend/internal/render"
	"billing-backend/internal/services"
	"billing-backend/pkg/utils"
)

type ExpenseHandler struct {
	Service *services.ExpenseService
	Reports *services.ReportService
	Prefs   *services.PreferenceService
}

func NewExpenseHandler(service *services.ExpenseService, reports *services.ReportService, prefs *services.PreferenceService) *ExpenseHandler {
	return &ExpenseHandler{Service: service, Reports: reports, Prefs: prefs}
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.List(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Projection(w http.ResponseWriter, r *http.Request) {
	proj, err := h.Service.Project(r.Context(), listing.ParseViewParams(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, proj)
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, e)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.UpdateExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadPDF handles POST /api/expenses/{id}/pdf (multipart, field "file").
func (h *ExpenseHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, _, body, ok := readUpload(w, r)
	if !ok {
		return
	}
	e, err := h.Service.AttachPDF(r.Context(), id, name, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func (h *ExpenseHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, body, err := h.Service.OpenPDF(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Attachment(w, "application/pdf", name, body, true)
}

// Extract handles POST /api/expenses/extract. It accepts a multipart "file"
// or a raw application/pdf body and returns a draft; nothing is stored.
func (h *ExpenseHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Header.Get("Content-Type") == "application/pdf" {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, extraction.MaxDocumentSizeBytes+1))
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Failed to read body")
			return
		}
	} else {
		var ok bool
		if _, _, body, ok = readUpload(w, r); !ok {
			return
		}
	}

	draft, err := h.Service.ExtractFromPDF(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, draft)
}

func (h *ExpenseHandler) Export(w http.ResponseWriter, r *http.Request) {
	cols, err := exportColumns(r, h.Prefs, billing.KindExpenses, listing.ColumnKeys(listing.ExpenseColumns))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.Reports.ExportExpenses(r.Context(), listing.ParseViewParams(r.URL.Query()), cols, formatParam(r, render.FormatXLSX))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDocument(w, doc)
}
