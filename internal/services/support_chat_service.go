package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"billing-backend/internal/billing"
	"billing-backend/internal/cache"
	"billing-backend/internal/models"
)

// SupportChatSettingKey is the system_settings key holding the widget config.
const SupportChatSettingKey = "support_chat_config"

const supportChatCacheKey = "settings:support_chat"

type SupportChatService struct {
	Repo SettingStore
}

func NewSupportChatService(repo SettingStore) *SupportChatService {
	return &SupportChatService{Repo: repo}
}

// GetConfig returns the stored config, or a disabled config when none exists.
func (s *SupportChatService) GetConfig(ctx context.Context) (*models.SupportChatConfig, error) {
	if data, ok := cache.GetCached(ctx, supportChatCacheKey); ok {
		cfg := &models.SupportChatConfig{}
		if err := json.Unmarshal(data, cfg); err == nil {
			return cfg, nil
		}
	}

	setting, err := s.Repo.Get(ctx, SupportChatSettingKey)
	if errors.Is(err, billing.ErrNotFound) {
		return &models.SupportChatConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load support chat config: %w", err)
	}

	cfg := &models.SupportChatConfig{}
	if err := json.Unmarshal([]byte(setting.SettingValue), cfg); err != nil {
		log.Warn().Err(err).Msg("Stored support chat config is not valid JSON, treating as disabled")
		return &models.SupportChatConfig{}, nil
	}
	updated := setting.UpdatedAt
	cfg.UpdatedAt = &updated

	if data, err := json.Marshal(cfg); err == nil {
		cache.SetCached(ctx, supportChatCacheKey, data, time.Hour)
	}
	return cfg, nil
}

// UpdateConfig validates and stores cfg.
func (s *SupportChatService) UpdateConfig(ctx context.Context, cfg *models.SupportChatConfig) (*models.SupportChatConfig, error) {
	cfg.WidgetID = strings.TrimSpace(cfg.WidgetID)
	cfg.Email = strings.TrimSpace(cfg.Email)
	if err := validateStruct(cfg); err != nil {
		return nil, err
	}

	stored := *cfg
	stored.UpdatedAt = nil
	value, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}

	setting, err := s.Repo.Upsert(ctx, SupportChatSettingKey, string(value), "Support chat widget configuration")
	if err != nil {
		return nil, fmt.Errorf("failed to save support chat config: %w", err)
	}
	cache.InvalidateSettingCaches(ctx)

	updated := setting.UpdatedAt
	stored.UpdatedAt = &updated
	log.Info().Bool("enabled", stored.Enabled).Msg("Support chat config updated")
	return &stored, nil
}
