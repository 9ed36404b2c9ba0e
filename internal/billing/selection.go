package billing

import "sort"

// ClickModifier is the keyboard modifier held during a row click.
type ClickModifier int

const (
	// ClickPlain replaces the selection with the clicked row.
	ClickPlain ClickModifier = iota
	// ClickToggle (ctrl/cmd) flips the clicked row only.
	ClickToggle
	// ClickRange (shift) adds the contiguous range from the anchor.
	ClickRange
)

// Selection is a set of record ids plus the index of the last plain or
// toggle click. Indexes always refer to the current projection order, so
// callers pass the ids of the rows as currently displayed.
type Selection struct {
	ids    map[int]struct{}
	anchor int
}

// NewSelection returns an empty selection with no anchor.
func NewSelection() *Selection {
	return &Selection{ids: make(map[int]struct{}), anchor: -1}
}

// Click applies a click on view[index]. Out of range indexes are ignored.
// A range click without a usable anchor behaves like a plain click.
func (s *Selection) Click(view []int, index int, mod ClickModifier) {
	if index < 0 || index >= len(view) {
		return
	}
	if mod == ClickRange && (s.anchor < 0 || s.anchor >= len(view)) {
		mod = ClickPlain
	}

	switch mod {
	case ClickToggle:
		id := view[index]
		if _, ok := s.ids[id]; ok {
			delete(s.ids, id)
		} else {
			s.ids[id] = struct{}{}
		}
		s.anchor = index
	case ClickRange:
		lo, hi := s.anchor, index
		if lo > hi {
			lo, hi = hi, lo
		}
		for _, id := range view[lo : hi+1] {
			s.ids[id] = struct{}{}
		}
	default:
		s.ids = map[int]struct{}{view[index]: {}}
		s.anchor = index
	}
}

// SelectAll selects every id in view.
func (s *Selection) SelectAll(view []int) {
	for _, id := range view {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection and drops the anchor.
func (s *Selection) Clear() {
	s.ids = make(map[int]struct{})
	s.anchor = -1
}

// Has reports whether id is selected.
func (s *Selection) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Anchor returns the index of the last plain or toggle click, or -1.
func (s *Selection) Anchor() int {
	return s.anchor
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Retain drops ids that are not in view, e.g. after a filter change.
func (s *Selection) Retain(view []int) {
	keep := make(map[int]struct{}, len(view))
	for _, id := range view {
		if _, ok := s.ids[id]; ok {
			keep[id] = struct{}{}
		}
	}
	s.ids = keep
	if s.anchor >= len(view) {
		s.anchor = -1
	}
}

// IDsOf extracts ids from items in order.
func IDsOf[T any](items []T, id func(T) int) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}
