package services

import (
	"strings"
	"time"

	"billing-backend/internal/billing"
)

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func currencyOr(c, fallback string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return fallback
	}
	return c
}

// applyView mirrors what RecordView did in the database.
func applyView(status *string, viewedAt **time.Time, count *int, now time.Time) {
	*count++
	*viewedAt = &now
	if billing.NormalizeStatus(*status) == billing.StatusSent {
		*status = billing.StatusViewed
	}
}

func viewURL(publicURL, entity, token string) string {
	return publicURL + "/api/" + entity + "/view/" + token
}
