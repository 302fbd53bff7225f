package store

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// PreferenceKey names one of the persisted user preferences.
type PreferenceKey string

const (
	WelcomeFinished PreferenceKey = "welcome_finished"
	ThemeSelection  PreferenceKey = "theme_selection"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("get setting %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Preferences is the typed view over the settings table.
type Preferences struct {
	s *Store
}

func (s *Store) Preferences() *Preferences {
	return &Preferences{s: s}
}

// Bool reports the stored flag, false when unset or unreadable.
func (p *Preferences) Bool(key PreferenceKey) bool {
	v, err := p.s.GetSetting(string(key))
	if err != nil {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// String returns the stored value, "" when unset or unreadable.
func (p *Preferences) String(key PreferenceKey) string {
	v, err := p.s.GetSetting(string(key))
	if err != nil {
		return ""
	}
	return v
}

func (p *Preferences) SetBool(key PreferenceKey, v bool) error {
	return p.set(key, strconv.FormatBool(v))
}

func (p *Preferences) SetString(key PreferenceKey, v string) error {
	return p.set(key, v)
}

func (p *Preferences) set(key PreferenceKey, v string) error {
	if err := p.s.SetSetting(string(key), v); err != nil {
		p.s.log.Error("set preference", zap.String("key", string(key)), zap.Error(err))
		return err
	}
	return nil
}
