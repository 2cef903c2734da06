package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/moodlog/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingMorningTime:
			settings.MorningTime = value
		case constants.SettingEveningTime:
			settings.EveningTime = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingTickIntervalSec:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.TickIntervalSec = n
		case constants.SettingReminderWindowMin:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.ReminderWindowMin = n
		case constants.SettingProviderTimeoutSec:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.ProviderTimeoutSec = n
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingMorningTime:          settings.MorningTime,
		constants.SettingEveningTime:          settings.EveningTime,
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingTickIntervalSec:      strconv.Itoa(settings.TickIntervalSec),
		constants.SettingReminderWindowMin:    strconv.Itoa(settings.ReminderWindowMin),
		constants.SettingProviderTimeoutSec:   strconv.Itoa(settings.ProviderTimeoutSec),
	}
}

// DefaultSettings returns the settings written by `moodlog init`.
func DefaultSettings() Settings {
	return Settings{
		MorningTime:          constants.DefaultMorningTime,
		EveningTime:          constants.DefaultEveningTime,
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		TickIntervalSec:      constants.DefaultTickIntervalSec,
		ReminderWindowMin:    constants.DefaultReminderWindowMin,
		ProviderTimeoutSec:   constants.DefaultProviderTimeoutSec,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.MorningTime == "" {
		settings.MorningTime = constants.DefaultMorningTime
	}
	if settings.EveningTime == "" {
		settings.EveningTime = constants.DefaultEveningTime
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.TickIntervalSec <= 0 {
		settings.TickIntervalSec = constants.DefaultTickIntervalSec
	}
	if settings.ReminderWindowMin <= 0 {
		settings.ReminderWindowMin = constants.DefaultReminderWindowMin
	}
	if settings.ProviderTimeoutSec <= 0 {
		settings.ProviderTimeoutSec = constants.DefaultProviderTimeoutSec
	}
}

func (s Settings) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalSec) * time.Second
}

func (s Settings) ReminderWindow() time.Duration {
	return time.Duration(s.ReminderWindowMin) * time.Minute
}

func (s Settings) ProviderTimeout() time.Duration {
	return time.Duration(s.ProviderTimeoutSec) * time.Second
}
