package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRepository is a billing.PreferencesBackend on the
// user_preferences table, used when Redis is not configured.
type PreferenceRepository struct {
	DB *pgxpool.Pool
}

func NewPreferenceRepository(db *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

func (r *PreferenceRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := r.DB.QueryRow(ctx, `SELECT pref_value::text FROM user_preferences WHERE pref_key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, key string, value []byte) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO user_preferences (pref_key, pref_value)
		 VALUES ($1, $2::jsonb)
		 ON CONFLICT (pref_key) DO UPDATE
		 SET pref_value = EXCLUDED.pref_value, updated_at = NOW()`,
		key, string(value))
	return err
}

func (r *PreferenceRepository) Delete(ctx context.Context, key string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM user_preferences WHERE pref_key = $1`, key)
	return err
}
