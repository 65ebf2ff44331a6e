package models

import "time"

// SystemSetting is a key/value row read into configuration at startup.
type SystemSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:128;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"column:setting_value;type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
