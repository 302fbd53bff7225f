// Package viewmodel holds one view-model per screen. Each exposes observable
// cells the UI renders and intent methods the UI calls.
package viewmodel

import (
	"context"
	"time"

	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/observable"
	"github.com/sadopc/spectalocks/internal/store"
)

// Persistence is the store surface the view-models need.
type Persistence interface {
	StoreLock(l entity.Lock) (entity.Lock, error)
	ListLocks() ([]entity.Lock, error)
	RemoveLock(id string) error
	ListStats() ([]entity.Stat, error)
	IncreaseStat(c entity.Category, bought bool) error
	Changes() *observable.Event[store.Change]
}

type Preferences interface {
	Bool(key store.PreferenceKey) bool
	String(key store.PreferenceKey) string
	SetBool(key store.PreferenceKey, v bool) error
	SetString(key store.PreferenceKey, v string) error
}

type Localization interface {
	derive.Localizer
	Initialize(ctx context.Context) error
}

type AppInfo interface {
	Initialize(ctx context.Context) error
	Enabled() bool
	Features() []entity.Feature
}

type Notifier interface {
	RequestPermission(ctx context.Context) error
	Schedule(at time.Time, l entity.Lock)
	Cancel(id string)
}

var (
	_ Persistence = (*store.Store)(nil)
	_ Preferences = (*store.Preferences)(nil)
)
