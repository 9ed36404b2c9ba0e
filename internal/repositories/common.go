package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"billing-backend/internal/billing"
)

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return billing.ErrNotFound
	}
	return err
}

// dateCol renders a DATE column as YYYY-MM-DD, or an empty string for NULL.
func dateCol(col string) string {
	return "COALESCE(to_char(" + col + ", 'YYYY-MM-DD'), '')"
}
