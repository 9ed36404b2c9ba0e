package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientDegradesGracefully(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	SetCached(ctx, "invoices:list:0:", []byte("[]"), time.Minute)
	_, ok := GetCached(ctx, "invoices:list:0:")
	assert.False(t, ok)

	InvalidateEntity(ctx, "invoices")
	assert.False(t, IsHealthy(ctx))
	assert.NoError(t, Close())
}

func TestListKey(t *testing.T) {
	assert.Equal(t, "expenses:list:2024:Q1", ListKey("expenses", 2024, "Q1"))
	assert.Equal(t, "invoices:list:0:", ListKey("invoices", 0, ""))
}

func TestInitRequiresAddress(t *testing.T) {
	assert.Error(t, Init("", "", 0))
	assert.Nil(t, GetClient())
}
