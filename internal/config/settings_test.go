package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotificationSettingsWithOverrides(t *testing.T) {
	base := NotificationSettings{EmailEnabled: true, SiteName: "Portal", PortalURL: "http://localhost"}

	updated := base.WithOverrides(map[string]string{
		"email_enabled": "0",
		"site_name":     " Scholarship Office ",
		"portal_url":    "https://portal.example.edu/",
		"unknown":       "ignored",
	})

	require.False(t, updated.EmailEnabled)
	require.Equal(t, "Scholarship Office", updated.SiteName)
	require.Equal(t, "https://portal.example.edu", updated.PortalURL)
	require.True(t, base.EmailEnabled, "original settings must not change")
}

func TestNotificationSettingsKeepsValueOnMalformedBool(t *testing.T) {
	base := NotificationSettings{EmailEnabled: true}
	updated := base.WithOverrides(map[string]string{"email_enabled": "maybe"})
	require.True(t, updated.EmailEnabled)

	updated = base.WithOverrides(map[string]string{"EMAIL_ENABLED": "off"})
	require.False(t, updated.EmailEnabled)
}

func TestNotificationSettingsParsesNumericAndCaseInsensitiveBools(t *testing.T) {
	base := NotificationSettings{}
	require.True(t, base.WithOverrides(map[string]string{"email_enabled": "1"}).EmailEnabled)
	require.True(t, base.WithOverrides(map[string]string{"email_enabled": "TRUE"}).EmailEnabled)
	require.True(t, base.WithOverrides(map[string]string{"email_enabled": "Enabled"}).EmailEnabled)

	enabled := NotificationSettings{EmailEnabled: true}
	require.False(t, enabled.WithOverrides(map[string]string{"email_enabled": "false"}).EmailEnabled)
}
