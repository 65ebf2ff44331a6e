package config

import (
	"strings"

	"github.com/spf13/cast"
)

// Keys understood in the system_settings table.
const (
	SettingEmailEnabled = "email_enabled"
	SettingSiteName     = "site_name"
	SettingPortalURL    = "portal_url"
	SettingFromAddress  = "email_from_address"
	SettingFromName     = "email_from_name"
)

// WithOverrides returns a copy of the settings with persisted values applied.
// Unknown keys are ignored and malformed booleans keep the current value.
func (s NotificationSettings) WithOverrides(values map[string]string) NotificationSettings {
	out := s
	for key, raw := range values {
		value := strings.TrimSpace(raw)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case SettingEmailEnabled:
			if enabled, ok := parseSettingBool(value); ok {
				out.EmailEnabled = enabled
			}
		case SettingSiteName:
			if value != "" {
				out.SiteName = value
			}
		case SettingPortalURL:
			if value != "" {
				out.PortalURL = strings.TrimRight(value, "/")
			}
		case SettingFromAddress:
			if value != "" {
				out.FromAddress = value
			}
		case SettingFromName:
			if value != "" {
				out.FromName = value
			}
		}
	}
	return out
}

func parseSettingBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "on", "yes", "enabled":
		return true, true
	case "off", "no", "disabled":
		return false, true
	}
	parsed, err := cast.ToBoolE(value)
	if err != nil {
		return false, false
	}
	return parsed, true
}
