package timeutil

import (
	"sync"
	"time"
)

var (
	mu       sync.RWMutex
	location = time.UTC
	clock    = time.Now
)

// SetLocation sets the business timezone used for "now" and date display.
// Unknown names leave the current location unchanged.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	mu.Lock()
	location = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return location
}

// Now returns the current time in the business timezone
func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return clock().In(location)
}

// SetClock replaces the clock; it returns a func restoring the previous one.
func SetClock(now func() time.Time) (restore func()) {
	mu.Lock()
	prev := clock
	clock = now
	mu.Unlock()
	return func() {
		mu.Lock()
		clock = prev
		mu.Unlock()
	}
}

// Format formats t in the business timezone
func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006"
)
