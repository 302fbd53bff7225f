package store

import (
	"fmt"

	"github.com/sadopc/spectalocks/internal/entity"
	"go.uber.org/zap"
)

// ListStats returns one row per category that has ever been resolved, in
// category order.
func (s *Store) ListStats() ([]entity.Stat, error) {
	rows, err := s.db.Query(`SELECT category, skipped, bought FROM stats`)
	if err != nil {
		s.log.Error("list stats", zap.Error(err))
		return []entity.Stat{}, fmt.Errorf("list stats: %w", err)
	}
	defer rows.Close()

	byCategory := map[entity.Category]entity.Stat{}
	for rows.Next() {
		var (
			st       entity.Stat
			category string
		)
		if err := rows.Scan(&category, &st.Skipped, &st.Bought); err != nil {
			s.log.Error("scan stat", zap.Error(err))
			return []entity.Stat{}, fmt.Errorf("scan stat: %w", err)
		}
		st.Category = entity.CategoryOrOther(category)
		acc := byCategory[st.Category]
		acc.Category = st.Category
		acc.Skipped += st.Skipped
		acc.Bought += st.Bought
		byCategory[st.Category] = acc
	}
	if err := rows.Err(); err != nil {
		s.log.Error("list stats", zap.Error(err))
		return []entity.Stat{}, fmt.Errorf("list stats: %w", err)
	}

	stats := []entity.Stat{}
	for _, c := range entity.Categories() {
		if st, ok := byCategory[c]; ok {
			stats = append(stats, st)
		}
	}
	return stats, nil
}

// IncreaseStat bumps the bought or skipped counter of category by one,
// creating the row on first use.
func (s *Store) IncreaseStat(category entity.Category, bought bool) error {
	var b, sk int
	if bought {
		b = 1
	} else {
		sk = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO stats (category, skipped, bought) VALUES (?, ?, ?)
		 ON CONFLICT(category) DO UPDATE SET
			skipped = skipped + excluded.skipped,
			bought  = bought + excluded.bought`,
		string(category), sk, b,
	)
	if err != nil {
		s.log.Error("increase stat", zap.String("category", string(category)), zap.Error(err))
		return fmt.Errorf("increase stat %s: %w", category, err)
	}
	s.changed(StatsChanged)
	return nil
}
