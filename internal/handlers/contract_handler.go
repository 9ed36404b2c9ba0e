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

type ContractHandler struct {
	Service *services.ContractService
	Reports *services.ReportService
	Prefs   *services.PreferenceService
}

func NewContractHandler(service *services.ContractService, reports *services.ReportService, prefs *services.PreferenceService) *ContractHandler {
	return &ContractHandler{Service: service, Reports: reports, Prefs: prefs}
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Service.List(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) Projection(w http.ResponseWriter, r *http.Request) {
	proj, err := h.Service.Project(r.Context(), listing.ParseViewParams(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, proj)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContractRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, c)
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.UpdateContractRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ContractHandler) Send(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.MarkSent)
}

func (h *ContractHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Cancel)
}

// Sign handles POST /api/contracts/{id}/sign with {"signer_name": "..."}.
func (h *ContractHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req models.SignContractRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.transition(w, r, func(ctx context.Context, id int) (*models.Contract, error) {
		return h.Service.Sign(ctx, id, &req)
	})
}

func (h *ContractHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (*models.Contract, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

// UploadFile handles POST /api/contracts/{id}/file (multipart, field "file").
func (h *ContractHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, mimeType, body, ok := readUpload(w, r)
	if !ok {
		return
	}
	c, err := h.Service.AttachFile(r.Context(), id, name, mimeType, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *ContractHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	meta, body, err := h.Service.OpenFile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Attachment(w, meta.MimeType, meta.FileName, body, r.URL.Query().Get("inline") == "1")
}

func (h *ContractHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.Service.RemoveFile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, c)
}

func (h *ContractHandler) ShareLink(w http.ResponseWriter, r *http.Request) {
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

func (h *ContractHandler) Document(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.Reports.ContractDocument(r.Context(), id, formatParam(r, render.FormatPDF))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDocument(w, doc)
}

func (h *ContractHandler) Export(w http.ResponseWriter, r *http.Request) {
	cols, err := exportColumns(r, h.Prefs, billing.KindContracts, listing.ColumnKeys(listing.ContractColumns))
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.Reports.ExportContracts(r.Context(), listing.ParseViewParams(r.URL.Query()), cols, formatParam(r, render.FormatXLSX))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDocument(w, doc)
}

func (h *ContractHandler) View(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetByViewToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := formatParam(r, "json")
	if format == "json" {
		utils.JSON(w, http.StatusOK, c)
		return
	}
	doc, err := h.Reports.RenderContract(c, format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondDocument(w, doc)
}
