package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckBasic(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })

	status := NewHealthChecker(ok, nil).CheckBasic(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "disabled", status.Cache.Status)

	status = NewHealthChecker(down, func(context.Context) bool { return true }).CheckBasic(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "healthy", status.Cache.Status)

	status = NewHealthChecker(ok, func(context.Context) bool { return false }).CheckBasic(context.Background())
	assert.Equal(t, "healthy", status.Status, "cache outage does not fail readiness")
	assert.Equal(t, "unavailable", status.Cache.Status)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 GB", formatBytes(2<<30))
}
