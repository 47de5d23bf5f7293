package state

import (
	"errors"

	"coindeck/pkg/rates"
)

// Settings are the process-wide user preferences. They persist across
// sessions and change only through an explicit merge-update.
type Settings struct {
	Currency           rates.Currency `json:"currency"`
	Theme              string         `json:"theme"`
	RefreshIntervalSec int            `json:"refresh_interval_sec"`
	Notifications      bool           `json:"notifications"`
	Language           string         `json:"language"`
}

// DefaultSettings returns the initial preferences for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Currency:           rates.USD,
		Theme:              "auto",
		RefreshIntervalSec: 30,
		Notifications:      true,
		Language:           "es",
	}
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	Currency           *rates.Currency `json:"currency,omitempty"`
	Theme              *string         `json:"theme,omitempty"`
	RefreshIntervalSec *int            `json:"refresh_interval_sec,omitempty"`
	Notifications      *bool           `json:"notifications,omitempty"`
	Language           *string         `json:"language,omitempty"`
}

var (
	errBadCurrency = errors.New("state: currency must be USD or EUR")
	errBadTheme    = errors.New("state: theme must be light, dark or auto")
	errBadInterval = errors.New("state: refresh interval must be positive")
	errBadLanguage = errors.New("state: language must be en or es")
)

func (p SettingsPatch) validate() error {
	if p.Currency != nil && *p.Currency != rates.USD && *p.Currency != rates.EUR {
		return errBadCurrency
	}
	if p.Theme != nil {
		switch *p.Theme {
		case "light", "dark", "auto":
		default:
			return errBadTheme
		}
	}
	if p.RefreshIntervalSec != nil && *p.RefreshIntervalSec <= 0 {
		return errBadInterval
	}
	if p.Language != nil {
		switch *p.Language {
		case "en", "es":
		default:
			return errBadLanguage
		}
	}
	return nil
}

func (s Settings) merge(p SettingsPatch) Settings {
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.RefreshIntervalSec != nil {
		s.RefreshIntervalSec = *p.RefreshIntervalSec
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	return s
}
