package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowUsesClockAndLocation(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)
	restore := SetClock(func() time.Time { return fixed })
	defer restore()

	require.NoError(t, SetLocation("Europe/Amsterdam"))
	defer func() { _ = SetLocation("UTC") }()

	now := Now()
	assert.True(t, now.Equal(fixed))
	assert.Equal(t, 16, now.Day())
	assert.Equal(t, "2024-06-16", Format(fixed, DateLayout))
}

func TestSetLocationRejectsUnknown(t *testing.T) {
	assert.Error(t, SetLocation("Mars/Olympus"))
	assert.Equal(t, "UTC", Location().String())
}
