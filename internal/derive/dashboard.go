// Package derive turns persisted locks and stats, the current instant and
// localized text into view-ready snapshots. Every function here is pure.
package derive

import (
	"fmt"
	"time"

	"github.com/sadopc/spectalocks/internal/entity"
)

// Localizer resolves a text key. Implementations never fail; an unknown key
// yields the key itself or an empty string.
type Localizer interface {
	Text(key string) string
}

const day = 24 * time.Hour

// CategoryLabel pairs a category with its localized name.
type CategoryLabel struct {
	Name string
	Type entity.Category
}

func categoryLabel(c entity.Category, loc Localizer) CategoryLabel {
	return CategoryLabel{Name: loc.Text("dashboard.lock.category." + string(c)), Type: c}
}

// DashboardLock is a lock enriched with its countdown state at one instant.
type DashboardLock struct {
	ID             string
	Name           string
	Category       CategoryLabel
	StartDate      time.Time
	EndDate        time.Time
	RemainingLabel string
	Progress       float64
}

// Unlock is the prompt shown for an expired lock awaiting a bought/skipped
// decision.
type Unlock struct {
	LockID    string
	Name      string
	Category  entity.Category
	Title     string
	Message   string
	BuyTitle  string
	SkipTitle string
}

type DashboardItem struct {
	Title     string
	EmptyHint string
	Locks     []DashboardLock
	Unlock    *Unlock
}

// RemainingLabel renders the countdown for a lock ending at end.
func RemainingLabel(end, now time.Time, loc Localizer) string {
	remaining := end.Sub(now).Milliseconds()
	switch {
	case remaining <= 0:
		return ""
	case remaining > day.Milliseconds():
		days := remaining / day.Milliseconds()
		return fmt.Sprintf("%d %s", days, loc.Text("dashboard.lock.remaining.postfix"))
	default:
		return loc.Text("dashboard.lock.remaining.soon")
	}
}

// Progress is the elapsed share of the lock window, clamped to [0,1].
func Progress(start, end, now time.Time) float64 {
	total := end.Sub(start).Milliseconds()
	if total <= 0 {
		return 1
	}
	remaining := end.Sub(now).Milliseconds()
	p := 1 - float64(remaining)/float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func dashboardLock(l entity.Lock, now time.Time, loc Localizer) DashboardLock {
	return DashboardLock{
		ID:             l.ID,
		Name:           l.Name,
		Category:       categoryLabel(l.Category, loc),
		StartDate:      l.StartDate,
		EndDate:        l.EndDate,
		RemainingLabel: RemainingLabel(l.EndDate, now, loc),
		Progress:       Progress(l.StartDate, l.EndDate, now),
	}
}

func unlockFor(l entity.Lock, loc Localizer) *Unlock {
	return &Unlock{
		LockID:    l.ID,
		Name:      l.Name,
		Category:  l.Category,
		Title:     fmt.Sprintf("%s %s %s", loc.Text("dashboard.unlock.title.prefix"), l.Name, loc.Text("dashboard.unlock.title.postfix")),
		Message:   loc.Text("dashboard.unlock.message"),
		BuyTitle:  loc.Text("dashboard.unlock.buy"),
		SkipTitle: loc.Text("dashboard.unlock.skip"),
	}
}

// Dashboard builds the dashboard snapshot. Expired locks never appear in the
// active list; the first one in store order becomes the unlock prompt and the
// rest wait for later snapshots.
func Dashboard(locks []entity.Lock, now time.Time, loc Localizer) DashboardItem {
	item := DashboardItem{
		Title:     loc.Text("dashboard.title"),
		EmptyHint: loc.Text("dashboard.empty.title"),
		Locks:     []DashboardLock{},
	}
	for _, l := range locks {
		if l.Remaining(now).Milliseconds() <= 0 {
			if item.Unlock == nil {
				item.Unlock = unlockFor(l, loc)
			}
			continue
		}
		item.Locks = append(item.Locks, dashboardLock(l, now, loc))
	}
	return item
}

// CategoryGroup is one section of the dashboard list.
type CategoryGroup struct {
	Category CategoryLabel
	Locks    []DashboardLock
}

// GroupByCategory groups locks by category in first-seen order, keeping the
// input order inside each group.
func GroupByCategory(locks []DashboardLock) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[entity.Category]int)
	for _, l := range locks {
		i, ok := index[l.Category.Type]
		if !ok {
			i = len(groups)
			index[l.Category.Type] = i
			groups = append(groups, CategoryGroup{Category: l.Category})
		}
		groups[i].Locks = append(groups[i].Locks, l)
	}
	return groups
}
