package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"billing-backend/internal/services"
	"billing-backend/pkg/utils"
)

type UserHandler struct {
	Service *services.UserService
	Prefs   *services.PreferenceService
}

func NewUserHandler(service *services.UserService, prefs *services.PreferenceService) *UserHandler {
	return &UserHandler{Service: service, Prefs: prefs}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// PreferenceKeys lists the preference names accepted under /preferences/{key}.
func (h *UserHandler) PreferenceKeys(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Prefs.Names())
}

// GetPreference returns the stored JSON value, or null when unset.
func (h *UserHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	raw, err := h.Prefs.Get(r.Context(), id, mux.Vars(r)["key"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// SetPreference stores the raw JSON body under the key.
func (h *UserHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil || len(body) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	key := mux.Vars(r)["key"]
	if err := h.Prefs.Set(r.Context(), id, key, body); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *UserHandler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Prefs.Delete(r.Context(), id, mux.Vars(r)["key"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleGroup handles POST /api/users/{id}/preferences/{kind}/groups/{group}/toggle.
func (h *UserHandler) ToggleGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	groups, err := h.Prefs.ToggleGroup(r.Context(), id, vars["kind"], vars["group"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string][]string{"collapsed_groups": groups})
}

// MarkSeen handles POST /api/users/{id}/preferences/{kind}/seen?ids=1,2,3
// and returns the ids that were new to the user.
func (h *UserHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var ids []int
	for _, raw := range splitList(r.URL.Query()["ids"]) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid id list")
			return
		}
		ids = append(ids, n)
	}
	fresh, err := h.Prefs.MarkSeen(r.Context(), id, mux.Vars(r)["kind"], ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if fresh == nil {
		fresh = []int{}
	}
	utils.JSON(w, http.StatusOK, map[string][]int{"new": fresh})
}
