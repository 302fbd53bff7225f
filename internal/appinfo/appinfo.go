// Package appinfo holds the remotely controlled kill switch and feature set.
package appinfo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/remote"
)

type Source interface {
	AppInfo(ctx context.Context) (remote.AppInfo, error)
}

type AppInfo struct {
	src Source

	mu       sync.RWMutex
	enabled  bool
	features []entity.Feature
}

func New(src Source) *AppInfo {
	return &AppInfo{src: src}
}

// Initialize fetches the remote config. Without a configured source the app
// is enabled with every feature.
func (a *AppInfo) Initialize(ctx context.Context) error {
	var (
		info remote.AppInfo
		err  = remote.ErrNotConfigured
	)
	if a.src != nil {
		info, err = a.src.AppInfo(ctx)
	}
	if errors.Is(err, remote.ErrNotConfigured) {
		info = remote.AppInfo{IsAppEnabled: true, EnabledFeatures: entity.AllFeatures()}
	} else if err != nil {
		return fmt.Errorf("initialize app info: %w", err)
	}

	a.mu.Lock()
	a.enabled = info.IsAppEnabled
	a.features = append([]entity.Feature(nil), info.EnabledFeatures...)
	a.mu.Unlock()
	return nil
}

func (a *AppInfo) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

func (a *AppInfo) Features() []entity.Feature {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]entity.Feature(nil), a.features...)
}
