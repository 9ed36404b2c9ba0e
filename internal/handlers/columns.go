package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"billing-backend/internal/billing"
	"billing-backend/internal/services"
)

// exportColumns picks the visible columns of an export: an explicit
// columns=a,b,c parameter wins, then the saved preference of user_id,
// then every column.
func exportColumns(r *http.Request, prefs *services.PreferenceService, kind string, all []string) (billing.ColumnVisibilitySet, error) {
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("columns")); raw != "" {
		return billing.OnlyColumns(all, strings.Split(raw, ",")), nil
	}
	if prefs != nil {
		if uid, err := strconv.Atoi(q.Get("user_id")); err == nil && uid > 0 {
			return prefs.Columns(r.Context(), uid, kind)
		}
	}
	return billing.ColumnVisibilitySet{}, nil
}

// splitList flattens repeated and comma separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
