// Package remote fetches the app configuration and localization overrides
// published as static JSON documents.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sadopc/spectalocks/internal/entity"
)

// ErrNotConfigured is returned when no URL is set for a document. Callers
// fall back to built-in defaults.
var ErrNotConfigured = errors.New("remote: not configured")

const maxBody = 1 << 20

type AppInfo struct {
	IsAppEnabled    bool
	EnabledFeatures []entity.Feature
}

type appInfoResponse struct {
	IsAppEnabled    bool     `json:"isAppEnabled"`
	EnabledFeatures []string `json:"enabledFeatures"`
}

type Client struct {
	http            *http.Client
	appInfoURL      string
	localizationURL string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

func New(appInfoURL, localizationURL string, opts ...Option) *Client {
	c := &Client{
		http:            &http.Client{Timeout: 10 * time.Second},
		appInfoURL:      appInfoURL,
		localizationURL: localizationURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AppInfo fetches the remote feature switches. Unknown feature names are
// dropped.
func (c *Client) AppInfo(ctx context.Context) (AppInfo, error) {
	var resp appInfoResponse
	if err := c.getJSON(ctx, c.appInfoURL, &resp); err != nil {
		return AppInfo{}, fmt.Errorf("fetch app info: %w", err)
	}
	info := AppInfo{IsAppEnabled: resp.IsAppEnabled, EnabledFeatures: []entity.Feature{}}
	for _, raw := range resp.EnabledFeatures {
		if f, ok := entity.ParseFeature(raw); ok {
			info.EnabledFeatures = append(info.EnabledFeatures, f)
		}
	}
	return info, nil
}

func (c *Client) Localizations(ctx context.Context) (map[string]string, error) {
	m := map[string]string{}
	if err := c.getJSON(ctx, c.localizationURL, &m); err != nil {
		return nil, fmt.Errorf("fetch localizations: %w", err)
	}
	return m, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	if url == "" {
		return ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
