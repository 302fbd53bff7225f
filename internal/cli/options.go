package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/store"
	"github.com/spf13/cobra"
)

// displayLayout is how dates are printed and the preferred --until format.
const displayLayout = "2006-01-02 15:04"

var (
	bold   = color.New(color.Bold)
	faint  = color.New(color.Faint)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgHiYellow)
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err as a JSON object when --json is set.
func (o *OutputOptions) HandleError(w io.Writer, err error) error {
	if o.JSON && err != nil {
		return writeJSON(w, map[string]string{"error": err.Error()})
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var errAmbiguous = errors.New("ambiguous lock id")

// findLock resolves a full ID or a unique ID prefix.
func findLock(st *store.Store, prefix string) (entity.Lock, error) {
	l, err := st.GetLock(prefix)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return entity.Lock{}, err
	}

	locks, err := st.ListLocks()
	if err != nil {
		return entity.Lock{}, err
	}
	var matches []entity.Lock
	for _, l := range locks {
		if strings.HasPrefix(l.ID, prefix) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return entity.Lock{}, fmt.Errorf("lock %q: %w", prefix, store.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return entity.Lock{}, fmt.Errorf("%w: %q matches %d locks", errAmbiguous, prefix, len(matches))
}

var untilLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	displayLayout,
	"2006-01-02",
}

// parseUntil reads an end date. It accepts a Go duration (72h), a day count
// (30d), or one of untilLayouts in local time.
func parseUntil(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d), nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return now.AddDate(0, 0, n), nil
		}
	}
	for _, layout := range untilLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot read %q as a date, e.g. %q or 72h", s, now.Format(displayLayout))
}

// progressBar renders p in [0,1] as a ten cell bar.
func progressBar(p float64) string {
	p = min(1, max(0, p))
	filled := int(p*10 + 0.5)
	return fmt.Sprintf("%s%s %3d%%",
		strings.Repeat("█", filled), strings.Repeat("░", 10-filled), int(p*100+0.5))
}

func categoryNames() []string {
	var out []string
	for _, c := range entity.Categories() {
		out = append(out, string(c))
	}
	return out
}

func themeNames() []string {
	var out []string
	for _, t := range entity.Themes() {
		out = append(out, string(t))
	}
	return out
}
