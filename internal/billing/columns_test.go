package billing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnVisibilitySet(t *testing.T) {
	all := []string{"number", "title", "status", "total"}

	var zero ColumnVisibilitySet
	assert.Equal(t, all, zero.Visible(all))

	set := HiddenColumns("status")
	assert.False(t, set.IsVisible("status"))
	assert.Equal(t, []string{"number", "title", "total"}, set.Visible(all))

	toggled := set.Toggle("status").Toggle("title")
	assert.True(t, toggled.IsVisible("status"))
	assert.False(t, toggled.IsVisible("title"))
	assert.False(t, set.IsVisible("status"), "toggle must not modify the receiver")

	only := OnlyColumns(all, []string{"title", " total"})
	assert.Equal(t, []string{"number", "status"}, only.Hidden())
}

func TestColumnVisibilitySetJSON(t *testing.T) {
	data, err := json.Marshal(HiddenColumns("b", "a"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	var set ColumnVisibilitySet
	require.NoError(t, json.Unmarshal([]byte(`["title"]`), &set))
	assert.False(t, set.IsVisible("title"))
	assert.True(t, set.IsVisible("total"))
}
