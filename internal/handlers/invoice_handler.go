package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"billing-backend/internal/billing"
	"billing-backend/internal/listing"
	"billing-backend/internal/models"
	"billing-backend/internal/render"
	"billing-backend/internal/services"
	"billing-backend/pkg/utils"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
	Reports *services.ReportService
	Prefs   *services.PreferenceService
}

func NewInvoiceHandler(service *services.InvoiceService, reports *services.ReportService, prefs *services.PreferenceService) *InvoiceHandler {
	return &InvoiceHandler{Service: service, Reports: reports, Prefs: prefs}
}

// List handles GET /api/invoices?year=&quarter=
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Service.List(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoices)
}

// Projection handles GET /api/invoices/projection with pipeline parameters.
func (h *InvoiceHandler) Projection(w http.ResponseWriter, r *http.Request) {
	proj, err := h.Service.Project(r.Context(), listing.ParseViewParams(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, proj)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.UpdateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.MarkSent)
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.MarkPaid)
}

func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Cancel)
}

func (h *InvoiceHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (*models.Invoice, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	inv, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) ShareLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	link, err := h.Service.ShareLink(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"url": link})
}

// Document handles GET /api/invoices/{id}/document?format=pdf|html
func (h *InvoiceHandler) Document(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.Reports.InvoiceDocument(r.Context(), id, formatParam(r, render.FormatPDF))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDocument(w, doc)
}

// Export handles GET /api/invoices/export with pipeline parameters and an
// optional columns list.
func (h *InvoiceHandler) Export(w http.ResponseWriter, r *http.Request) {
	cols, err := exportColumns(r, h.Prefs, billing.KindInvoices, listing.ColumnKeys(listing.InvoiceColumns))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.Reports.ExportInvoices(r.Context(), listing.ParseViewParams(r.URL.Query()), cols, formatParam(r, render.FormatXLSX))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDocument(w, doc)
}

// View handles the public GET /api/invoices/view/{token}. Without a format
// it returns JSON.
func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.GetByViewToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := formatParam(r, "json")
	if format == "json" {
		utils.JSON(w, http.StatusOK, inv)
		return
	}
	doc, err := h.Reports.RenderInvoice(inv, format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDocument(w, doc)
}
