package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"billing-backend/internal/models"
)

type SystemSettingRepository struct {
	DB *pgxpool.Pool
}

func NewSystemSettingRepository(db *pgxpool.Pool) *SystemSettingRepository {
	return &SystemSettingRepository{DB: db}
}

func (r *SystemSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	query := `
		SELECT id, setting_key, setting_value, description, updated_at
		FROM system_settings
		WHERE setting_key = $1
	`

	setting := &models.SystemSetting{}
	err := r.DB.QueryRow(ctx, query, key).Scan(
		&setting.ID,
		&setting.SettingKey,
		&setting.SettingValue,
		&setting.Description,
		&setting.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return setting, nil
}

// Upsert stores value under key, creating the row on first write
func (r *SystemSettingRepository) Upsert(ctx context.Context, key, value, description string) (*models.SystemSetting, error) {
	query := `
		INSERT INTO system_settings (setting_key, setting_value, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value, updated_at = CURRENT_TIMESTAMP
		RETURNING id, setting_key, setting_value, description, updated_at
	`

	setting := &models.SystemSetting{}
	err := r.DB.QueryRow(ctx, query, key, value, description).Scan(
		&setting.ID,
		&setting.SettingKey,
		&setting.SettingValue,
		&setting.Description,
		&setting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return setting, nil
}
