// Package notify delivers in-process reminders when a lock's end date
// arrives.
package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sadopc/spectalocks/internal/clock"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/observable"
)

type Notification struct {
	LockID   string
	Name     string
	Category entity.Category
	Title    string
	Message  string
	At       time.Time
}

type pending struct {
	timer *time.Timer
	n     Notification
}

// Scheduler arms one timer per lock ID.
type Scheduler struct {
	clock clock.Clock
	loc   derive.Localizer

	mu     sync.Mutex
	timers map[string]*pending
	due    observable.Event[Notification]
}

func New(c clock.Clock, loc derive.Localizer) *Scheduler {
	return &Scheduler{
		clock:  c,
		loc:    loc,
		timers: map[string]*pending{},
	}
}

// RequestPermission always grants: a terminal needs no authorization to ring
// its bell.
func (s *Scheduler) RequestPermission(ctx context.Context) error {
	return ctx.Err()
}

// Schedule arms a reminder for l at the given instant, replacing any pending
// one for the same lock. Rescheduling the pending instant keeps the armed
// timer. Instants in the past fire immediately.
func (s *Scheduler) Schedule(at time.Time, l entity.Lock) {
	n := Notification{
		LockID:   l.ID,
		Name:     l.Name,
		Category: l.Category,
		Title:    strings.TrimSpace(l.Name + " " + s.loc.Text("dashboard.unlock.notification.title.postfix")),
		Message:  s.loc.Text("dashboard.unlock.notification.message"),
		At:       at,
	}
	delay := at.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[l.ID]; ok {
		if same(old.n, n) {
			return
		}
		old.timer.Stop()
	}
	p := &pending{n: n}
	p.timer = time.AfterFunc(delay, func() { s.fire(l.ID, p) })
	s.timers[l.ID] = p
}

func same(a, b Notification) bool {
	return a.At.Equal(b.At) && a.Name == b.Name && a.Category == b.Category &&
		a.Title == b.Title && a.Message == b.Message
}

func (s *Scheduler) fire(id string, p *pending) {
	s.mu.Lock()
	if s.timers[id] != p {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()
	s.due.Publish(p.n)
}

// Cancel drops the pending reminder for id, if any.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.timers[id]; ok {
		p.timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Due fires once per delivered reminder.
func (s *Scheduler) Due() *observable.Event[Notification] {
	return &s.due
}

// Stop cancels every pending reminder.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.timers {
		p.timer.Stop()
		delete(s.timers, id)
	}
}
