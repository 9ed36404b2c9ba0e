package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-backend/migrations"
)

func TestPending(t *testing.T) {
	files := fstest.MapFS{
		"002_contracts.sql": {Data: []byte("SELECT 1")},
		"001_invoices.sql":  {Data: []byte("SELECT 1")},
		"003_reset_all.sql": {Data: []byte("DROP TABLE x")},
		"README.md":         {Data: []byte("docs")},
		"sub/004_x.sql":     {Data: []byte("SELECT 1")},
	}

	got, err := Pending(files, map[string]bool{"002_contracts.sql": true})

	require.NoError(t, err)
	assert.Equal(t, []string{"001_invoices.sql"}, got)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	got, err := Pending(migrations.Files, nil)

	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "001_users.sql", got[0])
}
