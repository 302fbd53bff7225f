package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/spectalocks/internal/entity"
	"go.uber.org/zap"
)

// StoreLock inserts l, assigning a fresh ID when it has none, and returns the
// stored record.
func (s *Store) StoreLock(l entity.Lock) (entity.Lock, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO locks (id, name, category, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Name, string(l.Category), formatTime(l.StartDate), formatTime(l.EndDate),
	)
	if err != nil {
		s.log.Error("store lock", zap.String("name", l.Name), zap.Error(err))
		return entity.Lock{}, fmt.Errorf("store lock: %w", err)
	}
	s.changed(LocksChanged)
	return l, nil
}

// ListLocks returns every lock in insertion order. On failure it logs and
// returns an empty slice along with the error.
func (s *Store) ListLocks() ([]entity.Lock, error) {
	rows, err := s.db.Query(`SELECT id, name, category, start_date, end_date FROM locks ORDER BY seq`)
	if err != nil {
		s.log.Error("list locks", zap.Error(err))
		return []entity.Lock{}, fmt.Errorf("list locks: %w", err)
	}
	defer rows.Close()

	locks := []entity.Lock{}
	for rows.Next() {
		var (
			l          entity.Lock
			category   string
			start, end string
		)
		if err := rows.Scan(&l.ID, &l.Name, &category, &start, &end); err != nil {
			s.log.Error("scan lock", zap.Error(err))
			return []entity.Lock{}, fmt.Errorf("scan lock: %w", err)
		}
		l.Category = entity.CategoryOrOther(category)
		l.StartDate = parseTime(start)
		l.EndDate = parseTime(end)
		locks = append(locks, l)
	}
	if err := rows.Err(); err != nil {
		s.log.Error("list locks", zap.Error(err))
		return []entity.Lock{}, fmt.Errorf("list locks: %w", err)
	}
	return locks, nil
}

// GetLock returns the lock with exactly the given ID, or ErrNotFound.
func (s *Store) GetLock(id string) (entity.Lock, error) {
	var (
		l          entity.Lock
		category   string
		start, end string
	)
	err := s.db.QueryRow(
		`SELECT id, name, category, start_date, end_date FROM locks WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &category, &start, &end)
	if err != nil {
		if isNoRows(err) {
			return entity.Lock{}, fmt.Errorf("get lock %s: %w", id, ErrNotFound)
		}
		return entity.Lock{}, fmt.Errorf("get lock %s: %w", id, err)
	}
	l.Category = entity.CategoryOrOther(category)
	l.StartDate = parseTime(start)
	l.EndDate = parseTime(end)
	return l, nil
}

// RemoveLock deletes the lock with the given ID. A missing lock yields
// ErrNotFound and no change event.
func (s *Store) RemoveLock(id string) error {
	res, err := s.db.Exec(`DELETE FROM locks WHERE id = ?`, id)
	if err != nil {
		s.log.Error("remove lock", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("remove lock %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove lock %s: %w", id, ErrNotFound)
	}
	s.changed(LocksChanged)
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
