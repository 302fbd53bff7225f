package viewmodel

import (
	"sync"

	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/observable"
	"github.com/sadopc/spectalocks/internal/store"
)

type Statistics struct {
	Item observable.Value[derive.StatisticItem]

	store Persistence
	loc   derive.Localizer

	once  sync.Once
	unsub func()
}

func NewStatistics(p Persistence, loc derive.Localizer) *Statistics {
	s := &Statistics{store: p, loc: loc}
	s.unsub = p.Changes().Subscribe(func(store.Change) { s.Ready() })
	return s
}

func (s *Statistics) Ready() {
	stats, _ := s.store.ListStats()
	s.Item.Set(derive.Statistics(stats, s.loc))
}

func (s *Statistics) Close() {
	s.once.Do(s.unsub)
}
