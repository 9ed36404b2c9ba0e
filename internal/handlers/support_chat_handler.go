package handlers

import (
	"net/http"

	"billing-backend/internal/models"
	"billing-backend/internal/services"
	"billing-backend/pkg/utils"
)

type SupportChatHandler struct {
	Service *services.SupportChatService
}

func NewSupportChatHandler(service *services.SupportChatService) *SupportChatHandler {
	return &SupportChatHandler{Service: service}
}

func (h *SupportChatHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.GetConfig(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, cfg)
}

func (h *SupportChatHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.SupportChatConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}
	saved, err := h.Service.UpdateConfig(r.Context(), &cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, saved)
}
