// Package localization serves UI text: built-in English defaults overlaid by
// an optional remote map.
package localization

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sadopc/spectalocks/internal/remote"
)

//go:embed localization_en.json
var defaultsJSON []byte

// Source provides the remote overrides.
type Source interface {
	Localizations(ctx context.Context) (map[string]string, error)
}

type Localization struct {
	src Source

	mu          sync.RWMutex
	initialized bool
	defaults    map[string]string
	overrides   map[string]string
}

func New(src Source) *Localization {
	return &Localization{src: src}
}

// Defaults returns the embedded English strings.
func Defaults() (map[string]string, error) {
	m := map[string]string{}
	if err := json.Unmarshal(defaultsJSON, &m); err != nil {
		return nil, fmt.Errorf("decode default localization: %w", err)
	}
	return m, nil
}

// Initialize loads the defaults and the remote overrides. Once it has
// succeeded, later calls return immediately. A source reporting
// remote.ErrNotConfigured leaves only the defaults in place.
func (l *Localization) Initialize(ctx context.Context) error {
	l.mu.RLock()
	done := l.initialized
	l.mu.RUnlock()
	if done {
		return nil
	}

	defaults, err := Defaults()
	if err != nil {
		return err
	}
	overrides := map[string]string{}
	if l.src != nil {
		m, err := l.src.Localizations(ctx)
		switch {
		case errors.Is(err, remote.ErrNotConfigured):
		case err != nil:
			return fmt.Errorf("initialize localization: %w", err)
		default:
			overrides = m
		}
	}

	l.mu.Lock()
	l.defaults = defaults
	l.overrides = overrides
	l.initialized = true
	l.mu.Unlock()
	return nil
}

// Fallback installs the defaults alone when Initialize has not succeeded.
func (l *Localization) Fallback() error {
	defaults, err := Defaults()
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.initialized {
		l.defaults = defaults
		l.overrides = map[string]string{}
	}
	return nil
}

// Text returns the remote value for key, then the default, then "".
func (l *Localization) Text(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if v, ok := l.overrides[key]; ok {
		return v
	}
	return l.defaults[key]
}
