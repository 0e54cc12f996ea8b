package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/learnlit/internal/constants"
)

// DefaultSettings is what a freshly initialized store holds.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// MapToSettings converts stored key/value rows to Settings. Missing keys
// keep their defaults; unknown keys are ignored.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.NotificationsEnabled = b
		case constants.SettingActiveGoal:
			settings.ActiveGoalID = value
		}
	}

	return settings, nil
}

// SettingsToMap is the inverse of MapToSettings.
func SettingsToMap(s Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             s.Timezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(s.NotificationsEnabled),
		constants.SettingActiveGoal:           s.ActiveGoalID,
	}
}
