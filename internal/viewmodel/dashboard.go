package viewmodel

import (
	"context"
	"errors"
	"sync"

	"github.com/sadopc/spectalocks/internal/clock"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/observable"
	"github.com/sadopc/spectalocks/internal/store"
	"go.uber.org/zap"
)

// Dashboard drives the lock list, the unlock prompt and the add-lock form.
type Dashboard struct {
	Item  observable.Value[derive.DashboardItem]
	Adder observable.Value[derive.AdderItem]

	store    Persistence
	loc      derive.Localizer
	notifier Notifier
	clock    clock.Clock
	log      *zap.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	closed bool
	unsub  func()

	// pub orders the generation check with the publish that follows it.
	pub sync.Mutex
}

func NewDashboard(p Persistence, loc derive.Localizer, n Notifier, c clock.Clock, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dashboard{
		store:    p,
		loc:      loc,
		notifier: n,
		clock:    c,
		log:      log,
	}
	d.unsub = p.Changes().Subscribe(func(store.Change) {
		d.Ready(context.Background())
	})
	return d
}

// Ready recomputes the snapshot and arms a reminder for every active lock. A
// later call supersedes an earlier one: the earlier refresh's context is
// cancelled and its result is discarded.
func (d *Dashboard) Ready(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	d.gen++
	gen := d.gen
	d.cancel = cancel
	d.mu.Unlock()

	locks, _ := d.store.ListLocks()
	now := d.clock.Now()
	item := derive.Dashboard(locks, now, d.loc)

	d.pub.Lock()
	if !d.current(ctx, gen) {
		d.pub.Unlock()
		return
	}
	d.Item.Set(item)
	d.pub.Unlock()

	// Locks stored by an earlier run or another process have no timer yet.
	for _, l := range locks {
		if l.Remaining(now).Milliseconds() > 0 {
			d.notifier.Schedule(l.EndDate, l)
		}
	}

	go func() {
		if err := d.notifier.RequestPermission(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.log.Warn("request notification permission", zap.Error(err))
		}
	}()
}

func (d *Dashboard) current(ctx context.Context, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && gen == d.gen && ctx.Err() == nil
}

// AdderReady publishes a fresh form description. The minimum date follows the
// clock, so call it every time the form opens.
func (d *Dashboard) AdderReady() {
	d.Adder.Set(derive.Adder(d.clock.Now(), d.loc))
}

// AddLock validates and stores the draft, then schedules its reminder.
// Invalid drafts are dropped without effect.
func (d *Dashboard) AddLock(draft derive.LockDraft) {
	if _, err := d.addLock(draft); err != nil {
		d.log.Debug("drop lock draft", zap.Error(err))
	}
}

// AddLockChecked is AddLock for callers that report validation errors, such
// as the command line.
func (d *Dashboard) AddLockChecked(draft derive.LockDraft) (entity.Lock, error) {
	return d.addLock(draft)
}

func (d *Dashboard) addLock(draft derive.LockDraft) (entity.Lock, error) {
	l, err := derive.ValidateDraft(draft, d.clock.Now())
	if err != nil {
		return entity.Lock{}, err
	}
	stored, err := d.store.StoreLock(l)
	if err != nil {
		return entity.Lock{}, err
	}
	d.notifier.Schedule(stored.EndDate, stored)
	return stored, nil
}

// RemoveLock deletes the lock and its reminder. A missing lock is a no-op.
func (d *Dashboard) RemoveLock(id string) {
	if err := d.store.RemoveLock(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return
	}
	d.notifier.Cancel(id)
}

// Unlock resolves an expired lock. Only the call that actually removes the
// lock counts towards the statistics, so repeated calls are harmless.
func (d *Dashboard) Unlock(u derive.Unlock, bought bool) {
	err := d.store.RemoveLock(u.LockID)
	d.notifier.Cancel(u.LockID)
	if err != nil {
		return
	}
	d.store.IncreaseStat(u.Category, bought)
}

// Close stops reacting to store changes and cancels in-flight work.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	d.unsub()
}
