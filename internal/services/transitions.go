package services

import (
	"fmt"

	"billing-backend/internal/billing"
	"billing-backend/internal/metrics"
)

// Status transition actions
const (
	ActionSend   = "send"
	ActionPay    = "pay"
	ActionSign   = "sign"
	ActionCancel = "cancel"
)

// transitions lists, per action, the stored statuses it may start from and
// the status it produces. Sending an already sent or viewed record only
// refreshes sent_at.
var transitions = map[string]struct {
	from []string
	to   string
}{
	ActionSend:   {from: []string{billing.StatusDraft, billing.StatusSent, billing.StatusViewed}, to: billing.StatusSent},
	ActionPay:    {from: []string{billing.StatusDraft, billing.StatusSent, billing.StatusViewed}, to: billing.StatusPaid},
	ActionSign:   {from: []string{billing.StatusDraft, billing.StatusSent, billing.StatusViewed}, to: billing.StatusSigned},
	ActionCancel: {from: []string{billing.StatusDraft, billing.StatusSent, billing.StatusViewed}, to: billing.StatusCancelled},
}

// nextStatus returns the status stored after action, or ErrInvalidTransition.
func nextStatus(action, stored string) (string, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", billing.ErrInvalidTransition, action)
	}
	stored = billing.NormalizeStatus(stored)
	if !billing.ValidStatus(stored, t.from) {
		return "", fmt.Errorf("%w: cannot %s a %s record", billing.ErrInvalidTransition, action, stored)
	}
	if action == ActionSend && stored != billing.StatusDraft {
		return stored, nil
	}
	return t.to, nil
}

func recordTransition(kind, status string) {
	metrics.StatusTransitions.WithLabelValues(kind, status).Inc()
}

// checkStoredStatus rejects derived or unknown statuses on PATCH.
func checkStoredStatus(status string, allowed []string) (string, *billing.ValidationError) {
	s := billing.NormalizeStatus(status)
	if !billing.ValidStatus(s, allowed) {
		return "", billing.NewValidationError("status", "oneof")
	}
	return s, nil
}
