package derive

import (
	"fmt"
	"math"

	"github.com/sadopc/spectalocks/internal/entity"
)

// GraphItem is one bar of the statistics graph: the share of resolved locks
// in a category that ended in a purchase.
type GraphItem struct {
	Category    entity.Category
	HeaderTitle string
	FooterTitle string
	Percentage  float64
	Bought      int
	Skipped     int
}

type StatisticItem struct {
	Title      string
	HintTitle  string
	Hint       string
	GraphItems []GraphItem
}

var glyphs = map[entity.Category]string{
	entity.Gadget:         "🤖",
	entity.Art:            "🎨",
	entity.Gaming:         "🕹",
	entity.Transportation: "🚙",
	entity.Household:      "🏡",
	entity.Fitness:        "🏃",
	entity.Health:         "🏥",
	entity.School:         "🎓",
	entity.Other:          "🤷",
}

// Glyph is the short symbol shown under a category's bar.
func Glyph(c entity.Category) string {
	if g, ok := glyphs[c]; ok {
		return g
	}
	return glyphs[entity.Other]
}

// BoughtRatio is bought/(bought+skipped), or 0 when nothing was resolved.
func BoughtRatio(s entity.Stat) float64 {
	total := s.Total()
	if total <= 0 {
		return 0
	}
	return float64(s.Bought) / float64(total)
}

func graphItem(s entity.Stat) GraphItem {
	p := BoughtRatio(s)
	return GraphItem{
		Category:    s.Category,
		HeaderTitle: fmt.Sprintf("%d%%", int(math.Round(p*100))),
		FooterTitle: Glyph(s.Category),
		Percentage:  p,
		Bought:      s.Bought,
		Skipped:     s.Skipped,
	}
}

// Statistics builds one graph item per category, always in category
// declaration order. Categories without a stat row count as 0/0.
func Statistics(stats []entity.Stat, loc Localizer) StatisticItem {
	byCategory := make(map[entity.Category]entity.Stat, len(stats))
	for _, s := range stats {
		// Duplicate rows for one category are summed rather than shadowed.
		acc := byCategory[s.Category]
		acc.Category = s.Category
		acc.Bought += s.Bought
		acc.Skipped += s.Skipped
		byCategory[s.Category] = acc
	}

	item := StatisticItem{
		Title:     loc.Text("statistics.title"),
		HintTitle: loc.Text("statistics.hint.title"),
		Hint:      loc.Text("statistics.hint"),
	}
	for _, c := range entity.Categories() {
		s, ok := byCategory[c]
		if !ok {
			s = entity.Stat{Category: c}
		}
		item.GraphItems = append(item.GraphItems, graphItem(s))
	}
	return item
}
