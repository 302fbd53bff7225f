package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sadopc/spectalocks/internal/clock"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/notify"
	"github.com/sadopc/spectalocks/internal/store"
	"go.uber.org/zap/zaptest"
)

var (
	jul31 = time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC)
	aug1  = time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
	aug2  = time.Date(2022, 8, 2, 0, 0, 0, 0, time.UTC)
)

// keyLocalizer echoes keys back so assertions can match on them.
type keyLocalizer struct {
	err error
}

func (keyLocalizer) Text(key string) string             { return key }
func (k keyLocalizer) Initialize(context.Context) error { return k.err }

type fakeNotifier struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
	cancelled []string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{scheduled: map[string]time.Time{}}
}

func (f *fakeNotifier) RequestPermission(ctx context.Context) error { return nil }

func (f *fakeNotifier) Schedule(at time.Time, l entity.Lock) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[l.ID] = at
}

func (f *fakeNotifier) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, id)
	f.cancelled = append(f.cancelled, id)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory(store.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type dashboardFixture struct {
	store    *store.Store
	notifier *fakeNotifier
	clock    *clock.Mock
	vm       *Dashboard
}

func newDashboard(t *testing.T, now time.Time) dashboardFixture {
	t.Helper()
	f := dashboardFixture{
		store:    newTestStore(t),
		notifier: newFakeNotifier(),
		clock:    clock.NewMock(now),
	}
	f.vm = NewDashboard(f.store, keyLocalizer{}, f.notifier, f.clock, zaptest.NewLogger(t))
	t.Cleanup(f.vm.Close)
	return f
}

func mustItem(t *testing.T, d *Dashboard) derive.DashboardItem {
	t.Helper()
	item, ok := d.Item.Get()
	if !ok {
		t.Fatal("dashboard item not published")
	}
	return item
}

func ptr[T any](v T) *T { return &v }

// ============================================================
// Dashboard
// ============================================================

func TestDashboardReadyPublishes(t *testing.T) {
	f := newDashboard(t, jul31)
	if _, ok := f.vm.Item.Get(); ok {
		t.Fatal("nothing should be published before Ready")
	}
	f.vm.Ready(context.Background())
	item := mustItem(t, f.vm)
	if item.Title != "dashboard.title" || len(item.Locks) != 0 || item.Unlock != nil {
		t.Fatalf("unexpected empty snapshot %+v", item)
	}
}

func TestUnlockRoundTrip(t *testing.T) {
	f := newDashboard(t, aug2)
	stored, err := f.store.StoreLock(entity.Lock{
		Name:      "Test lock",
		StartDate: jul31,
		EndDate:   aug1,
		Category:  entity.Other,
	})
	if err != nil {
		t.Fatal(err)
	}

	item := mustItem(t, f.vm)
	if item.Unlock == nil {
		t.Fatal("expected unlock event")
	}
	if item.Unlock.Name != "Test lock" || item.Unlock.LockID != stored.ID {
		t.Fatalf("unexpected unlock %+v", item.Unlock)
	}
	if len(item.Locks) != 0 {
		t.Fatalf("expired lock must not be active, got %+v", item.Locks)
	}

	f.vm.Unlock(*item.Unlock, true)

	locks, _ := f.store.ListLocks()
	if len(locks) != 0 {
		t.Fatalf("expected store empty, got %+v", locks)
	}
	stats, _ := f.store.ListStats()
	if len(stats) != 1 || stats[0] != (entity.Stat{Category: entity.Other, Bought: 1}) {
		t.Fatalf("expected other.bought == 1, got %+v", stats)
	}
	if len(f.notifier.cancelled) != 1 || f.notifier.cancelled[0] != stored.ID {
		t.Fatalf("expected notification cancelled, got %v", f.notifier.cancelled)
	}
	if after := mustItem(t, f.vm); after.Unlock != nil {
		t.Fatalf("unlock should clear after resolution, got %+v", after.Unlock)
	}
}

func TestUnlockTwiceCountsOnce(t *testing.T) {
	f := newDashboard(t, aug2)
	f.store.StoreLock(entity.Lock{Name: "x", StartDate: jul31, EndDate: aug1, Category: entity.Gaming})
	u := *mustItem(t, f.vm).Unlock

	f.vm.Unlock(u, false)
	f.vm.Unlock(u, false)

	stats, _ := f.store.ListStats()
	if len(stats) != 1 || stats[0].Skipped != 1 || stats[0].Bought != 0 {
		t.Fatalf("expected exactly one skip, got %+v", stats)
	}
}

func TestUnlockSurfacesOneAtATime(t *testing.T) {
	f := newDashboard(t, aug2)
	f.store.StoreLock(entity.Lock{Name: "first", StartDate: jul31, EndDate: aug1, Category: entity.Art})
	f.store.StoreLock(entity.Lock{Name: "second", StartDate: jul31, EndDate: aug1, Category: entity.Art})

	item := mustItem(t, f.vm)
	if item.Unlock == nil || item.Unlock.Name != "first" {
		t.Fatalf("expected first expired lock, got %+v", item.Unlock)
	}
	f.vm.Unlock(*item.Unlock, true)

	item = mustItem(t, f.vm)
	if item.Unlock == nil || item.Unlock.Name != "second" {
		t.Fatalf("expected second lock to surface next, got %+v", item.Unlock)
	}
}

func TestAddLockRejectsInvalid(t *testing.T) {
	f := newDashboard(t, aug1)
	other := entity.Other
	future := aug2
	past := jul31

	invalid := map[string]derive.LockDraft{
		"empty name":   {Name: "", EndDate: &future, Category: &other},
		"end now":      {Name: "x", EndDate: ptr(aug1), Category: &other},
		"end past":     {Name: "x", EndDate: &past, Category: &other},
		"no date":      {Name: "x", Category: &other},
		"no category":  {Name: "x", EndDate: &future},
		"bad category": {Name: "x", EndDate: &future, Category: ptr(entity.Category("boat"))},
	}
	for name, draft := range invalid {
		f.vm.AddLock(draft)
		locks, _ := f.store.ListLocks()
		if len(locks) != 0 {
			t.Fatalf("%s: store mutated: %+v", name, locks)
		}
	}
	if len(f.notifier.scheduled) != 0 {
		t.Fatalf("no reminder should be scheduled, got %v", f.notifier.scheduled)
	}

	f.vm.AddLock(derive.LockDraft{Name: "camera", EndDate: &future, Category: ptr(entity.Gadget)})
	locks, _ := f.store.ListLocks()
	if len(locks) != 1 {
		t.Fatalf("valid add should store one lock, got %d", len(locks))
	}
	l := locks[0]
	if l.Name != "camera" || !l.StartDate.Equal(aug1) || !l.EndDate.Equal(aug2) || l.Category != entity.Gadget {
		t.Fatalf("unexpected stored lock %+v", l)
	}
	if at, ok := f.notifier.scheduled[l.ID]; !ok || !at.Equal(aug2) {
		t.Fatalf("expected reminder at end date, got %v", f.notifier.scheduled)
	}
}

func TestAddLockCheckedReportsError(t *testing.T) {
	f := newDashboard(t, aug1)
	_, err := f.vm.AddLockChecked(derive.LockDraft{Name: "x"})
	if !errors.Is(err, derive.ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}
}

func TestRemoveLock(t *testing.T) {
	f := newDashboard(t, jul31)
	l, _ := f.store.StoreLock(entity.Lock{Name: "x", StartDate: jul31, EndDate: aug2, Category: entity.Art})
	if got := mustItem(t, f.vm); len(got.Locks) != 1 {
		t.Fatalf("expected 1 active lock, got %+v", got.Locks)
	}

	f.vm.RemoveLock(l.ID)
	f.vm.RemoveLock(l.ID)

	if got := mustItem(t, f.vm); len(got.Locks) != 0 {
		t.Fatalf("expected no active locks, got %+v", got.Locks)
	}
	stats, _ := f.store.ListStats()
	if len(stats) != 0 {
		t.Fatalf("remove must not touch stats, got %+v", stats)
	}
}

func TestReadyArmsStoredLocks(t *testing.T) {
	now := time.Now()
	st := newTestStore(t)
	active, err := st.StoreLock(entity.Lock{Name: "later", StartDate: now, EndDate: now.Add(time.Hour), Category: entity.Art})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.StoreLock(entity.Lock{Name: "done", StartDate: now.Add(-time.Hour), EndDate: now.Add(-time.Minute), Category: entity.Art}); err != nil {
		t.Fatal(err)
	}

	c := clock.NewMock(now)
	sched := notify.New(c, keyLocalizer{})
	t.Cleanup(sched.Stop)
	vm := NewDashboard(st, keyLocalizer{}, sched, c, zaptest.NewLogger(t))
	defer vm.Close()

	vm.Ready(context.Background())
	vm.Ready(context.Background())
	if got := sched.Pending(); got != 1 {
		t.Fatalf("expected only the active lock armed, got %d pending", got)
	}

	f := newDashboard(t, now)
	f.store.StoreLock(active)
	f.vm.Ready(context.Background())
	if at, ok := f.notifier.scheduled[active.ID]; !ok || !at.Equal(active.EndDate) {
		t.Fatalf("reminder not armed at end date: %v %v", at, ok)
	}
}

func TestAdderReadyFollowsClock(t *testing.T) {
	f := newDashboard(t, jul31)
	f.vm.AdderReady()
	a, _ := f.vm.Adder.Get()
	if !a.MinimumSelectableDate.Equal(jul31.Add(time.Minute)) {
		t.Fatalf("unexpected minimum %s", a.MinimumSelectableDate)
	}

	f.clock.Set(aug1)
	f.vm.AdderReady()
	a, _ = f.vm.Adder.Get()
	if !a.MinimumSelectableDate.Equal(aug1.Add(time.Minute)) {
		t.Fatalf("minimum should follow clock, got %s", a.MinimumSelectableDate)
	}
}

func TestReadyCancelledDoesNotPublish(t *testing.T) {
	f := newDashboard(t, jul31)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.vm.Ready(ctx)
	if _, ok := f.vm.Item.Get(); ok {
		t.Fatal("cancelled refresh must not publish")
	}
}

// generationStore blocks the first ListLocks call until released so a second
// refresh can overtake it.
type generationStore struct {
	*store.Store
	first   chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *generationStore) ListLocks() ([]entity.Lock, error) {
	blocked := false
	g.once.Do(func() { blocked = true })
	if blocked {
		close(g.first)
		<-g.release
		return []entity.Lock{{ID: "stale", Name: "stale", StartDate: jul31, EndDate: aug2, Category: entity.Art}}, nil
	}
	return g.Store.ListLocks()
}

func TestStaleRefreshDiscarded(t *testing.T) {
	g := &generationStore{Store: newTestStore(t), first: make(chan struct{}), release: make(chan struct{})}
	vm := NewDashboard(g, keyLocalizer{}, newFakeNotifier(), clock.NewMock(jul31), nil)
	defer vm.Close()

	done := make(chan struct{})
	go func() {
		vm.Ready(context.Background())
		close(done)
	}()
	<-g.first

	vm.Ready(context.Background())
	close(g.release)
	<-done

	item := mustItem(t, vm)
	if len(item.Locks) != 0 {
		t.Fatalf("stale snapshot overwrote fresh one: %+v", item.Locks)
	}
}

func TestCloseStopsUpdates(t *testing.T) {
	f := newDashboard(t, jul31)
	f.vm.Ready(context.Background())
	f.vm.Close()

	f.store.StoreLock(entity.Lock{Name: "x", StartDate: jul31, EndDate: aug2, Category: entity.Art})
	if got := mustItem(t, f.vm); len(got.Locks) != 0 {
		t.Fatalf("closed view-model should not refresh, got %+v", got.Locks)
	}
}

// ============================================================
// Statistics
// ============================================================

func TestStatisticsRecomputeOnChange(t *testing.T) {
	s := newTestStore(t)
	vm := NewStatistics(s, keyLocalizer{})
	defer vm.Close()

	vm.Ready()
	item, _ := vm.Item.Get()
	if len(item.GraphItems) != len(entity.Categories()) {
		t.Fatalf("expected %d graph items, got %d", len(entity.Categories()), len(item.GraphItems))
	}
	for _, g := range item.GraphItems {
		if g.Percentage != 0 || g.HeaderTitle != "0%" {
			t.Fatalf("expected zero entry, got %+v", g)
		}
	}

	s.IncreaseStat(entity.Gadget, true)
	item, _ = vm.Item.Get()
	if item.GraphItems[0].Category != entity.Gadget || item.GraphItems[0].HeaderTitle != "100%" {
		t.Fatalf("expected gadget 100%%, got %+v", item.GraphItems[0])
	}
}

// ============================================================
// Settings
// ============================================================

func TestThemeDefaultAndSelect(t *testing.T) {
	s := newTestStore(t)
	prefs := s.Preferences()
	vm := NewSettings(prefs, keyLocalizer{})

	vm.Ready()
	item, _ := vm.Item.Get()
	if item.SelectedTheme() != entity.ThemeSystem {
		t.Fatalf("expected system default, got %s", item.SelectedTheme())
	}

	vm.SelectTheme(entity.ThemeDark)
	if got := prefs.String(store.ThemeSelection); got != "dark" {
		t.Fatalf("expected persisted dark, got %q", got)
	}

	fresh := NewSettings(prefs, keyLocalizer{})
	fresh.Ready()
	item, _ = fresh.Item.Get()
	if item.SelectedTheme() != entity.ThemeDark {
		t.Fatalf("expected dark selected, got %s", item.SelectedTheme())
	}
}

// ============================================================
// Welcome
// ============================================================

type fakeAppInfo struct {
	err      error
	enabled  bool
	features []entity.Feature
}

func (f *fakeAppInfo) Initialize(context.Context) error { return f.err }
func (f *fakeAppInfo) Enabled() bool                    { return f.enabled }
func (f *fakeAppInfo) Features() []entity.Feature       { return f.features }

type welcomeRecorder struct {
	failures  []derive.FailureEvent
	navigated int
}

func record(t *testing.T, w *Welcome) *welcomeRecorder {
	t.Helper()
	r := &welcomeRecorder{}
	t.Cleanup(w.Failure.Subscribe(func(ev derive.FailureEvent) { r.failures = append(r.failures, ev) }))
	t.Cleanup(w.Navigate.Subscribe(func(struct{}) { r.navigated++ }))
	return r
}

func state(t *testing.T, w *Welcome) WelcomeState {
	t.Helper()
	s, ok := w.State.Get()
	if !ok {
		t.Fatal("state not published")
	}
	return s
}

func TestWelcomeFirstRunShowsItems(t *testing.T) {
	prefs := newTestStore(t).Preferences()
	w := NewWelcome(keyLocalizer{}, &fakeAppInfo{enabled: true}, prefs, zaptest.NewLogger(t))
	r := record(t, w)

	w.Ready(context.Background())
	if state(t, w) != ItemsReady {
		t.Fatalf("expected items ready, got %s", state(t, w))
	}
	items, _ := w.Items.Get()
	if len(items) != 3 || items[0].Title != "welcome.greetings.title" {
		t.Fatalf("unexpected items %+v", items)
	}
	if r.navigated != 0 || len(r.failures) != 0 {
		t.Fatalf("unexpected events %+v", r)
	}

	w.Complete()
	if !prefs.Bool(store.WelcomeFinished) {
		t.Fatal("expected welcome finished persisted")
	}
	if r.navigated != 1 || state(t, w) != NavigateToMain {
		t.Fatalf("expected navigation, got %+v state %s", r, state(t, w))
	}
}

func TestWelcomeFinishedNavigates(t *testing.T) {
	prefs := newTestStore(t).Preferences()
	prefs.SetBool(store.WelcomeFinished, true)
	w := NewWelcome(keyLocalizer{}, &fakeAppInfo{enabled: true}, prefs, nil)
	r := record(t, w)

	w.Ready(context.Background())
	if r.navigated != 1 || state(t, w) != NavigateToMain {
		t.Fatalf("expected direct navigation, got %+v", r)
	}
	if _, ok := w.Items.Get(); ok {
		t.Fatal("no items expected when welcome already finished")
	}
}

func TestWelcomeDisabled(t *testing.T) {
	w := NewWelcome(keyLocalizer{}, &fakeAppInfo{enabled: false}, newTestStore(t).Preferences(), nil)
	r := record(t, w)

	w.Ready(context.Background())
	if len(r.failures) != 1 || r.failures[0].Kind != derive.FailureDisabled {
		t.Fatalf("expected disabled failure, got %+v", r.failures)
	}
	if state(t, w) != Failed {
		t.Fatalf("expected failed state, got %s", state(t, w))
	}
}

func TestWelcomeConnectivityAndRetry(t *testing.T) {
	app := &fakeAppInfo{err: errors.New("offline"), enabled: true}
	w := NewWelcome(keyLocalizer{}, app, newTestStore(t).Preferences(), zaptest.NewLogger(t))
	r := record(t, w)

	w.Ready(context.Background())
	if len(r.failures) != 1 || r.failures[0].Kind != derive.FailureConnectivity {
		t.Fatalf("expected connectivity failure, got %+v", r.failures)
	}
	if r.failures[0].RetryLabel != "welcome.fail.connectivity.retry" {
		t.Fatalf("unexpected retry label %q", r.failures[0].RetryLabel)
	}

	app.err = nil
	w.Retry(context.Background())
	if state(t, w) != ItemsReady {
		t.Fatalf("expected recovery on retry, got %s", state(t, w))
	}
}

func TestWelcomeLocalizationFailure(t *testing.T) {
	w := NewWelcome(keyLocalizer{err: errors.New("bad json")}, &fakeAppInfo{enabled: true}, newTestStore(t).Preferences(), nil)
	r := record(t, w)

	w.Ready(context.Background())
	if len(r.failures) != 1 || r.failures[0].Kind != derive.FailureConnectivity {
		t.Fatalf("expected connectivity failure, got %+v", r.failures)
	}
}

// ============================================================
// Main
// ============================================================

func TestMainOptions(t *testing.T) {
	vm := NewMain(&fakeAppInfo{features: []entity.Feature{entity.FeatureSettings, entity.FeatureDashboard}}, keyLocalizer{})
	vm.Ready()
	opts, _ := vm.Options.Get()
	if len(opts) != 2 || opts[0].Feature != entity.FeatureSettings || opts[1].Title != "dashboard.title" {
		t.Fatalf("unexpected options %+v", opts)
	}
}
