package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/internal/billing"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("contracts", 12, `C:\Users\me\Signed Contract (final).pdf`)

	assert.True(t, strings.HasPrefix(key, "contracts/12/"))
	assert.True(t, strings.HasSuffix(key, "-Signed_Contract__final_.pdf"))
	assert.NotEqual(t, key, ObjectKey("contracts", 12, `C:\Users\me\Signed Contract (final).pdf`))
	assert.True(t, strings.HasSuffix(ObjectKey("expenses", 1, ""), "-file"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "a", "application/pdf", []byte("%PDF")))
	data, ct, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, "application/pdf", ct)

	require.NoError(t, s.Delete(ctx, "a"))
	_, _, err = s.Get(ctx, "a")
	assert.True(t, errors.Is(err, billing.ErrNoAttachment))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), Config{})
	assert.Error(t, err)
}
