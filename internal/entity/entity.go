// Package entity holds the persisted records: locks, per-category stats and
// the small set of enumerations around them.
package entity

import (
	"errors"
	"fmt"
	"time"
)

type Category string

const (
	Gadget         Category = "gadget"
	Art            Category = "art"
	Gaming         Category = "gaming"
	Transportation Category = "transportation"
	Household      Category = "household"
	Fitness        Category = "fitness"
	Health         Category = "health"
	School         Category = "school"
	Other          Category = "other"
)

var categories = []Category{Gadget, Art, Gaming, Transportation, Household, Fitness, Health, School, Other}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// CategoryOrOther maps unknown raw values to Other, as rows written by an
// older build may carry categories that no longer exist.
func CategoryOrOther(s string) Category {
	if c := Category(s); c.Valid() {
		return c
	}
	return Other
}

// Lock is a self-imposed purchase delay.
type Lock struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Category  Category
}

var ErrLockWindow = errors.New("lock must end after it starts")

func (l Lock) Validate() error {
	if !l.EndDate.After(l.StartDate) {
		return ErrLockWindow
	}
	return nil
}

// Remaining is the time left until the lock opens; zero or negative once it
// has expired.
func (l Lock) Remaining(now time.Time) time.Duration {
	return l.EndDate.Sub(now)
}

// Stat counts resolved locks for one category.
type Stat struct {
	Category Category
	Skipped  int
	Bought   int
}

func (s Stat) Total() int { return s.Skipped + s.Bought }

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var themes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ParseTheme maps a stored raw value to a Theme; anything unknown, including
// the empty string, falls back to ThemeSystem.
func ParseTheme(s string) Theme {
	for _, t := range themes {
		if string(t) == s {
			return t
		}
	}
	return ThemeSystem
}

// Feature is a remotely switchable top-level screen.
type Feature string

const (
	FeatureDashboard  Feature = "dashboard"
	FeatureStatistics Feature = "statistics"
	FeatureSettings   Feature = "settings"
)

// AllFeatures is the set enabled when no remote config is available.
func AllFeatures() []Feature {
	return []Feature{FeatureDashboard, FeatureStatistics, FeatureSettings}
}

// ParseFeature accepts the remote spelling "statistic" as an alias.
func ParseFeature(s string) (Feature, bool) {
	switch s {
	case "dashboard":
		return FeatureDashboard, true
	case "statistics", "statistic":
		return FeatureStatistics, true
	case "settings":
		return FeatureSettings, true
	}
	return "", false
}
