package derive

import "github.com/sadopc/spectalocks/internal/entity"

type ThemeOption struct {
	Title    string
	Theme    entity.Theme
	Selected bool
}

type SettingsItem struct {
	Title         string
	ThemeTitle    string
	ThemeOptions  []ThemeOption
	SiteTitle     string
	SiteLinkTitle string
	SiteLink      string
	ContactTitle  string
	Contact       string
}

// SelectedTheme returns the theme flagged as selected, or ThemeSystem.
func (s SettingsItem) SelectedTheme() entity.Theme {
	for _, o := range s.ThemeOptions {
		if o.Selected {
			return o.Theme
		}
	}
	return entity.ThemeSystem
}

func Settings(selected entity.Theme, loc Localizer) SettingsItem {
	item := SettingsItem{
		Title:         loc.Text("settings.title"),
		ThemeTitle:    loc.Text("settings.theme.title"),
		SiteTitle:     loc.Text("settings.site.title"),
		SiteLinkTitle: loc.Text("settings.site.link.title"),
		SiteLink:      loc.Text("settings.site.link.urls"),
		ContactTitle:  loc.Text("settings.contact.title"),
		Contact:       loc.Text("settings.contact"),
	}
	for _, t := range entity.Themes() {
		item.ThemeOptions = append(item.ThemeOptions, ThemeOption{
			Title:    loc.Text("settings.theme." + string(t)),
			Theme:    t,
			Selected: t == selected,
		})
	}
	return item
}

// WelcomeItem is one onboarding slide.
type WelcomeItem struct {
	Title       string
	Description string
	ButtonTitle string
}

func welcomeSlide(name string, loc Localizer) WelcomeItem {
	prefix := "welcome." + name + "."
	return WelcomeItem{
		Title:       loc.Text(prefix + "title"),
		Description: loc.Text(prefix + "description"),
		ButtonTitle: loc.Text(prefix + "buttonTitle"),
	}
}

// Welcome is the fixed onboarding script.
func Welcome(loc Localizer) []WelcomeItem {
	return []WelcomeItem{
		welcomeSlide("greetings", loc),
		welcomeSlide("explanatory", loc),
		welcomeSlide("completion", loc),
	}
}

type FailureKind int

const (
	FailureConnectivity FailureKind = iota
	FailureDisabled
)

// FailureEvent is shown when the app cannot start.
type FailureEvent struct {
	Kind        FailureKind
	Title       string
	Description string
	RetryLabel  string
}

func failure(kind FailureKind, name string, loc Localizer) FailureEvent {
	prefix := "welcome.fail." + name + "."
	return FailureEvent{
		Kind:        kind,
		Title:       loc.Text(prefix + "title"),
		Description: loc.Text(prefix + "description"),
		RetryLabel:  loc.Text(prefix + "retry"),
	}
}

func ConnectivityFailure(loc Localizer) FailureEvent {
	return failure(FailureConnectivity, "connectivity", loc)
}

func DisabledFailure(loc Localizer) FailureEvent {
	return failure(FailureDisabled, "disabled", loc)
}

// MainOption is one top-level tab.
type MainOption struct {
	Feature entity.Feature
	Title   string
}

var featureTitleKeys = map[entity.Feature]string{
	entity.FeatureDashboard:  "dashboard.title",
	entity.FeatureStatistics: "statistics.title",
	entity.FeatureSettings:   "settings.title",
}

// MainOptions lists a tab per enabled feature in the order given, skipping
// duplicates.
func MainOptions(features []entity.Feature, loc Localizer) []MainOption {
	seen := make(map[entity.Feature]bool, len(features))
	var out []MainOption
	for _, f := range features {
		key, ok := featureTitleKeys[f]
		if !ok || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, MainOption{Feature: f, Title: loc.Text(key)})
	}
	return out
}
