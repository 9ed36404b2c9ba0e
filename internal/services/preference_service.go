package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"billing-backend/internal/billing"
)

// PreferenceService scopes view preferences to a user.
type PreferenceService struct {
	Store *billing.ViewPreferencesStore
	Users UserStore
}

func NewPreferenceService(store *billing.ViewPreferencesStore, users UserStore) *PreferenceService {
	return &PreferenceService{Store: store, Users: users}
}

func userScope(userID int) string {
	return "user:" + strconv.Itoa(userID)
}

func checkKind(kind string) error {
	for _, k := range billing.Kinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: kind %s", billing.ErrUnknownPreference, kind)
}

func (s *PreferenceService) checkUser(ctx context.Context, userID int) error {
	if s.Users == nil {
		return nil
	}
	_, err := s.Users.Get(ctx, userID)
	return err
}

// Names lists the preference keys a client may read and write.
func (s *PreferenceService) Names() []string {
	return billing.PreferenceNames()
}

// Get returns the stored JSON value, or JSON null when unset.
func (s *PreferenceService) Get(ctx context.Context, userID int, name string) (json.RawMessage, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	raw, ok, err := s.Store.GetRaw(ctx, userScope(userID), name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return json.RawMessage("null"), nil
	}
	return raw, nil
}

func (s *PreferenceService) Set(ctx context.Context, userID int, name string, value []byte) error {
	if err := s.checkUser(ctx, userID); err != nil {
		return err
	}
	return s.Store.SetRaw(ctx, userScope(userID), name, value)
}

func (s *PreferenceService) Delete(ctx context.Context, userID int, name string) error {
	if err := s.checkUser(ctx, userID); err != nil {
		return err
	}
	return s.Store.DeleteRaw(ctx, userScope(userID), name)
}

// Columns returns the user's column visibility for kind; all columns are
// visible when nothing is stored.
func (s *PreferenceService) Columns(ctx context.Context, userID int, kind string) (billing.ColumnVisibilitySet, error) {
	if err := checkKind(kind); err != nil {
		return billing.ColumnVisibilitySet{}, err
	}
	set, _, err := billing.GetPreference(ctx, s.Store, userScope(userID), billing.ColumnsKey(kind))
	return set, err
}

// ToggleGroup flips the collapsed state of a year/quarter group.
func (s *PreferenceService) ToggleGroup(ctx context.Context, userID int, kind, groupKey string) ([]string, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return billing.ToggleCollapsedGroup(ctx, s.Store, userScope(userID), kind, groupKey)
}

// MarkSeen returns which of ids the user had not seen yet and records them.
func (s *PreferenceService) MarkSeen(ctx context.Context, userID int, kind string, ids []int) ([]int, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	return billing.MarkSeen(ctx, s.Store, userScope(userID), kind, ids...)
}
