package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/spectalocks/internal/entity"
)

var csvHeader = []string{"Record", "ID", "Name", "Category", "Start", "End", "Length", "Skipped", "Bought"}

// ToCSV writes one "lock" row per lock followed by one "stat" row per
// category, all under a shared header.
func ToCSV(locks []entity.Lock, stats []entity.Stat, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, l := range locks {
		row := []string{
			"lock",
			l.ID,
			l.Name,
			string(l.Category),
			l.StartDate.Local().Format(time.RFC3339),
			l.EndDate.Local().Format(time.RFC3339),
			formatDuration(int64(l.EndDate.Sub(l.StartDate).Seconds())),
			"",
			"",
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	for _, s := range stats {
		row := []string{
			"stat", "", "", string(s.Category), "", "", "",
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Bought),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
