package models

import "time"

type SystemSetting struct {
	ID           int       `json:"id"`
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	Description  string    `json:"description"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SupportChatConfig drives the in-app support chat widget
type SupportChatConfig struct {
	Enabled   bool       `json:"enabled"`
	WidgetID  string     `json:"widget_id" validate:"required_if=Enabled true,max=128"`
	Greeting  string     `json:"greeting" validate:"max=500"`
	Email     string     `json:"email" validate:"omitempty,email"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
