package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Locks      []jsonLock `json:"locks"`
	Stats      []jsonStat `json:"stats"`
}

type jsonLock struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	RemainingSec int64   `json:"remaining_seconds"`
	Progress     float64 `json:"progress"`
	Expired      bool    `json:"expired"`
}

type jsonStat struct {
	Category    string  `json:"category"`
	Skipped     int     `json:"skipped"`
	Bought      int     `json:"bought"`
	BoughtRatio float64 `json:"bought_ratio"`
}

// ToJSON writes a snapshot of locks and stats as seen at now.
func ToJSON(locks []entity.Lock, stats []entity.Stat, now time.Time, path string) error {
	export := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(locks),
	}

	for _, l := range locks {
		remaining := int64(l.Remaining(now).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		export.Locks = append(export.Locks, jsonLock{
			ID:           l.ID,
			Name:         l.Name,
			Category:     string(l.Category),
			StartDate:    l.StartDate.Local().Format(time.RFC3339),
			EndDate:      l.EndDate.Local().Format(time.RFC3339),
			RemainingSec: remaining,
			Progress:     derive.Progress(l.StartDate, l.EndDate, now),
			Expired:      l.Remaining(now) <= 0,
		})
	}

	for _, s := range stats {
		export.Stats = append(export.Stats, jsonStat{
			Category:    string(s.Category),
			Skipped:     s.Skipped,
			Bought:      s.Bought,
			BoughtRatio: derive.BoughtRatio(s),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
