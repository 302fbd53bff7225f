package viewmodel

import (
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/observable"
	"github.com/sadopc/spectalocks/internal/store"
)

type Settings struct {
	Item observable.Value[derive.SettingsItem]

	prefs Preferences
	loc   derive.Localizer
}

func NewSettings(prefs Preferences, loc derive.Localizer) *Settings {
	return &Settings{prefs: prefs, loc: loc}
}

// Theme is the persisted theme, ThemeSystem when none was chosen.
func (s *Settings) Theme() entity.Theme {
	return entity.ParseTheme(s.prefs.String(store.ThemeSelection))
}

func (s *Settings) Ready() {
	s.Item.Set(derive.Settings(s.Theme(), s.loc))
}

// SelectTheme persists the choice and republishes the settings item.
func (s *Settings) SelectTheme(t entity.Theme) {
	s.prefs.SetString(store.ThemeSelection, string(t))
	s.Ready()
}
