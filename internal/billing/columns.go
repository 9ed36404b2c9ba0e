package billing

import (
	"encoding/json"
	"sort"
	"strings"
)

// ColumnVisibilitySet records which table columns are hidden. The zero value
// shows every column.
type ColumnVisibilitySet struct {
	hidden map[string]struct{}
}

// HiddenColumns returns a set with keys hidden.
func HiddenColumns(keys ...string) ColumnVisibilitySet {
	c := ColumnVisibilitySet{hidden: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			c.hidden[k] = struct{}{}
		}
	}
	return c
}

// OnlyColumns returns a set where only visible (out of all) are shown.
func OnlyColumns(all []string, visible []string) ColumnVisibilitySet {
	show := make(map[string]bool, len(visible))
	for _, v := range visible {
		show[strings.TrimSpace(v)] = true
	}
	var hidden []string
	for _, k := range all {
		if !show[k] {
			hidden = append(hidden, k)
		}
	}
	return HiddenColumns(hidden...)
}

// IsVisible reports whether key is shown.
func (c ColumnVisibilitySet) IsVisible(key string) bool {
	_, hidden := c.hidden[key]
	return !hidden
}

// Toggle returns a copy with key's visibility flipped.
func (c ColumnVisibilitySet) Toggle(key string) ColumnVisibilitySet {
	keys := c.Hidden()
	if c.IsVisible(key) {
		return HiddenColumns(append(keys, key)...)
	}
	out := keys[:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return HiddenColumns(out...)
}

// Visible filters columns down to the shown ones, preserving order.
func (c ColumnVisibilitySet) Visible(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, k := range columns {
		if c.IsVisible(k) {
			out = append(out, k)
		}
	}
	return out
}

// Hidden returns the hidden keys sorted.
func (c ColumnVisibilitySet) Hidden() []string {
	out := make([]string, 0, len(c.hidden))
	for k := range c.hidden {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as its sorted hidden keys.
func (c ColumnVisibilitySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hidden())
}

// UnmarshalJSON decodes a list of hidden keys.
func (c *ColumnVisibilitySet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*c = HiddenColumns(keys...)
	return nil
}
