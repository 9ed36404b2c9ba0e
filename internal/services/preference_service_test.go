package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/billing"
)

func newPreferenceService() *PreferenceService {
	users := memUsers{7: {ID: 7, Name: "Sam", IsActive: true}}
	return NewPreferenceService(billing.NewViewPreferencesStore(billing.NewMemoryPreferences()), users)
}

func TestPreferenceGetSet(t *testing.T) {
	ctx := context.Background()
	svc := newPreferenceService()

	raw, err := svc.Get(ctx, 7, "invoices.view_mode")
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(raw))

	require.NoError(t, svc.Set(ctx, 7, "invoices.view_mode", []byte(`"table"`)))
	raw, err = svc.Get(ctx, 7, "invoices.view_mode")
	require.NoError(t, err)
	assert.JSONEq(t, `"table"`, string(raw))

	require.NoError(t, svc.Delete(ctx, 7, "invoices.view_mode"))
	raw, err = svc.Get(ctx, 7, "invoices.view_mode")
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(raw))
}

func TestPreferenceErrors(t *testing.T) {
	ctx := context.Background()
	svc := newPreferenceService()

	_, err := svc.Get(ctx, 99, "invoices.view_mode")
	assert.ErrorIs(t, err, billing.ErrNotFound)

	_, err = svc.Get(ctx, 7, "invoices.colour")
	assert.ErrorIs(t, err, billing.ErrUnknownPreference)

	err = svc.Set(ctx, 7, "invoices.collapsed_groups", []byte(`"not a list"`))
	var verr *billing.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPreferenceColumnsAndGroups(t *testing.T) {
	ctx := context.Background()
	svc := newPreferenceService()

	cols, err := svc.Columns(ctx, 7, billing.KindExpenses)
	require.NoError(t, err)
	assert.True(t, cols.IsVisible("notes"))

	require.NoError(t, svc.Set(ctx, 7, "expenses.columns", []byte(`["country","vat_rate"]`)))
	cols, err = svc.Columns(ctx, 7, billing.KindExpenses)
	require.NoError(t, err)
	assert.False(t, cols.IsVisible("country"))
	assert.True(t, cols.IsVisible("supplier"))

	groups, err := svc.ToggleGroup(ctx, 7, billing.KindInvoices, "2024-Q1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-Q1"}, groups)
	groups, err = svc.ToggleGroup(ctx, 7, billing.KindInvoices, "2024-Q1")
	require.NoError(t, err)
	assert.Empty(t, groups)

	fresh, err := svc.MarkSeen(ctx, 7, billing.KindInvoices, []int{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, fresh)
	fresh, err = svc.MarkSeen(ctx, 7, billing.KindInvoices, []int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{5}, fresh)
}

func TestPreferenceNames(t *testing.T) {
	names := newPreferenceService().Names()
	assert.Contains(t, names, "contracts.columns")
	assert.Contains(t, names, "expenses.view_mode")
}

func TestPreferenceUnknownKind(t *testing.T) {
	ctx := context.Background()
	svc := newPreferenceService()

	_, err := svc.ToggleGroup(ctx, 7, "receipts", "2024-Q1")
	assert.ErrorIs(t, err, billing.ErrUnknownPreference)
	assert.NotContains(t, svc.Names(), "receipts.collapsed_groups")

	_, err = svc.Columns(ctx, 7, "receipts")
	assert.ErrorIs(t, err, billing.ErrUnknownPreference)
}
