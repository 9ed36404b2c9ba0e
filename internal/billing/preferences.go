package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// PreferencesBackend persists raw preference values by key.
type PreferencesBackend interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// PreferenceKey is a typed preference name. The type parameter fixes the
// value type stored under the key.
type PreferenceKey[T any] struct {
	name string
}

// Name returns the key's string form.
func (k PreferenceKey[T]) Name() string {
	return k.name
}

// Record kinds that carry per-kind view preferences.
const (
	KindInvoices  = "invoices"
	KindContracts = "contracts"
	KindExpenses  = "expenses"
)

// Kinds lists every record kind.
var Kinds = []string{KindInvoices, KindContracts, KindExpenses}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func([]byte) error)
)

func register[T any](name string) PreferenceKey[T] {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = func(data []byte) error {
		var v T
		return json.Unmarshal(data, &v)
	}
	return PreferenceKey[T]{name: name}
}

// ViewModeKey stores list vs table mode for a record kind.
func ViewModeKey(kind string) PreferenceKey[Mode] {
	return register[Mode](kind + ".view_mode")
}

// CollapsedGroupsKey stores the collapsed year/quarter group keys for a kind.
func CollapsedGroupsKey(kind string) PreferenceKey[[]string] {
	return register[[]string](kind + ".collapsed_groups")
}

// ColumnsKey stores the hidden table columns for a kind.
func ColumnsKey(kind string) PreferenceKey[ColumnVisibilitySet] {
	return register[ColumnVisibilitySet](kind + ".columns")
}

// SeenIDsKey stores record ids a user has already been notified about.
func SeenIDsKey(kind string) PreferenceKey[[]int] {
	return register[[]int](kind + ".seen_ids")
}

func init() {
	for _, kind := range Kinds {
		ViewModeKey(kind)
		CollapsedGroupsKey(kind)
		ColumnsKey(kind)
		SeenIDsKey(kind)
	}
}

// PreferenceNames returns every registered key name, sorted.
func PreferenceNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ViewPreferencesStore keeps per-scope (usually per-user) view preferences
// in an injected backend.
type ViewPreferencesStore struct {
	backend PreferencesBackend
}

// NewViewPreferencesStore wraps backend.
func NewViewPreferencesStore(backend PreferencesBackend) *ViewPreferencesStore {
	return &ViewPreferencesStore{backend: backend}
}

func storageKey(scope, name string) string {
	return "prefs:" + scope + ":" + name
}

// GetPreference loads key for scope. ok is false when nothing is stored.
func GetPreference[T any](ctx context.Context, s *ViewPreferencesStore, scope string, key PreferenceKey[T]) (T, bool, error) {
	var v T
	data, ok, err := s.backend.Load(ctx, storageKey(scope, key.name))
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decode preference %s: %w", key.name, err)
	}
	return v, true, nil
}

// SetPreference stores value under key for scope.
func SetPreference[T any](ctx context.Context, s *ViewPreferencesStore, scope string, key PreferenceKey[T], value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode preference %s: %w", key.name, err)
	}
	return s.backend.Save(ctx, storageKey(scope, key.name), data)
}

// GetRaw returns the stored JSON for a registered key name.
func (s *ViewPreferencesStore) GetRaw(ctx context.Context, scope, name string) (json.RawMessage, bool, error) {
	if !known(name) {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownPreference, name)
	}
	data, ok, err := s.backend.Load(ctx, storageKey(scope, name))
	if err != nil || !ok {
		return nil, false, err
	}
	return json.RawMessage(data), true, nil
}

// SetRaw validates data against the key's type and stores it.
func (s *ViewPreferencesStore) SetRaw(ctx context.Context, scope, name string, data []byte) error {
	registryMu.RLock()
	validate, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreference, name)
	}
	if err := validate(data); err != nil {
		return NewValidationError("value", err.Error())
	}
	return s.backend.Save(ctx, storageKey(scope, name), data)
}

// DeleteRaw removes a stored preference.
func (s *ViewPreferencesStore) DeleteRaw(ctx context.Context, scope, name string) error {
	if !known(name) {
		return fmt.Errorf("%w: %s", ErrUnknownPreference, name)
	}
	return s.backend.Delete(ctx, storageKey(scope, name))
}

func known(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// ToggleCollapsedGroup flips groupKey in the collapsed set of kind and
// returns the new set.
func ToggleCollapsedGroup(ctx context.Context, s *ViewPreferencesStore, scope, kind, groupKey string) ([]string, error) {
	key := CollapsedGroupsKey(kind)
	current, _, err := GetPreference(ctx, s, scope, key)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(current)+1)
	found := false
	for _, g := range current {
		if g == groupKey {
			found = true
			continue
		}
		next = append(next, g)
	}
	if !found {
		next = append(next, groupKey)
	}
	sort.Strings(next)
	return next, SetPreference(ctx, s, scope, key, next)
}

// MarkSeen adds ids to the seen set of kind and returns the ids that were
// not seen before.
func MarkSeen(ctx context.Context, s *ViewPreferencesStore, scope, kind string, ids ...int) ([]int, error) {
	key := SeenIDsKey(kind)
	current, _, err := GetPreference(ctx, s, scope, key)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	var fresh []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			fresh = append(fresh, id)
			current = append(current, id)
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}
	sort.Ints(current)
	return fresh, SetPreference(ctx, s, scope, key, current)
}

// MemoryPreferences is an in-process PreferencesBackend.
type MemoryPreferences struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryPreferences returns an empty in-memory backend.
func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{data: make(map[string][]byte)}
}

func (m *MemoryPreferences) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryPreferences) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *MemoryPreferences) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
