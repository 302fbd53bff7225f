package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/store"
)

func init() {
	color.NoColor = true
}

// testDB isolates config, logs and the database under a temp dir.
func testDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return filepath.Join(dir, "spectalocks.db")
}

func execute(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--db", db))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustExecute(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := execute(t, db, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func listLocks(t *testing.T, db string) listJSON {
	t.Helper()
	out := mustExecute(t, db, "list", "--json")
	var res listJSON
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, out)
	}
	return res
}

func seedLock(t *testing.T, db string, l entity.Lock) entity.Lock {
	t.Helper()
	s, err := store.New(db)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	stored, err := s.StoreLock(l)
	if err != nil {
		t.Fatal(err)
	}
	return stored
}

// ============================================================
// add / list
// ============================================================

func TestAddAndList(t *testing.T) {
	db := testDB(t)

	out := mustExecute(t, db, "add", "Camera", "-c", "gadget", "-u", "72h")
	if !strings.Contains(out, "Locked Camera") {
		t.Fatalf("add output = %q", out)
	}

	out = mustExecute(t, db, "list")
	for _, want := range []string{"Camera", "Gadget", "Remaining"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestAddJoinsNameArgs(t *testing.T) {
	db := testDB(t)
	mustExecute(t, db, "add", "noise", "cancelling", "headphones", "-u", "30d")

	res := listLocks(t, db)
	if len(res.Locks) != 1 || res.Locks[0].Name != "noise cancelling headphones" {
		t.Fatalf("locks = %+v", res.Locks)
	}
	if res.Locks[0].Category != string(entity.Other) {
		t.Fatalf("default category = %q", res.Locks[0].Category)
	}
}

func TestAddValidation(t *testing.T) {
	db := testDB(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing until", []string{"add", "Bike"}, derive.ErrInvalidDraft},
		{"unknown category", []string{"add", "Bike", "-c", "boats", "-u", "72h"}, derive.ErrInvalidDraft},
		{"past date", []string{"add", "Bike", "-u", "2000-01-01"}, derive.ErrNotFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, db, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := execute(t, db, "add", "Bike", "-u", "someday"); err == nil {
		t.Fatal("expected unreadable date error")
	}
	if res := listLocks(t, db); len(res.Locks) != 0 {
		t.Fatalf("invalid adds stored %d locks", len(res.Locks))
	}
}

func TestListEmpty(t *testing.T) {
	db := testDB(t)
	out := mustExecute(t, db, "list")
	if !strings.Contains(out, "No locks yet") {
		t.Fatalf("empty list output = %q", out)
	}
}

func TestListShowsPendingUnlock(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	l := seedLock(t, db, entity.Lock{
		Name: "Bike", Category: entity.Transportation,
		StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Hour),
	})

	out := mustExecute(t, db, "list")
	if !strings.Contains(out, "spectalocks unlock "+shortID(l.ID)) {
		t.Fatalf("expected unlock hint:\n%s", out)
	}

	res := listLocks(t, db)
	if len(res.Locks) != 0 || res.Pending != 1 {
		t.Fatalf("locks = %d pending = %d", len(res.Locks), res.Pending)
	}
}

// ============================================================
// remove / unlock
// ============================================================

func TestRemoveByPrefix(t *testing.T) {
	db := testDB(t)
	mustExecute(t, db, "add", "Camera", "-u", "72h")
	id := listLocks(t, db).Locks[0].ID

	out := mustExecute(t, db, "rm", id[:8])
	if !strings.Contains(out, "Removed Camera") {
		t.Fatalf("remove output = %q", out)
	}
	if n := len(listLocks(t, db).Locks); n != 0 {
		t.Fatalf("locks after remove = %d", n)
	}

	if _, err := execute(t, db, "remove", id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second remove err = %v", err)
	}
}

func TestUnlockExpiredCountsOnce(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	l := seedLock(t, db, entity.Lock{
		Name: "Drone", Category: entity.Gadget,
		StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Minute),
	})

	out := mustExecute(t, db, "unlock", shortID(l.ID), "--bought")
	if !strings.Contains(out, "Drone as bought") {
		t.Fatalf("unlock output = %q", out)
	}
	if _, err := execute(t, db, "unlock", l.ID, "--bought"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second unlock err = %v", err)
	}

	out = mustExecute(t, db, "stats", "--json")
	var stats []statJSON
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if len(stats) != len(entity.Categories()) {
		t.Fatalf("stats rows = %d", len(stats))
	}
	if stats[0].Category != string(entity.Gadget) || stats[0].Bought != 1 || stats[0].Ratio != 1 {
		t.Fatalf("gadget stat = %+v", stats[0])
	}
}

func TestUnlockActiveRefused(t *testing.T) {
	db := testDB(t)
	mustExecute(t, db, "add", "Camera", "-u", "72h")
	id := listLocks(t, db).Locks[0].ID

	_, err := execute(t, db, "unlock", id, "--skipped")
	if err == nil || !strings.Contains(err.Error(), "locked until") {
		t.Fatalf("err = %v", err)
	}
	if n := len(listLocks(t, db).Locks); n != 1 {
		t.Fatal("refused unlock must keep the lock")
	}
}

func TestUnlockRequiresOutcome(t *testing.T) {
	db := testDB(t)
	if _, err := execute(t, db, "unlock", "abc"); err == nil {
		t.Fatal("expected missing flag error")
	}
	if _, err := execute(t, db, "unlock", "abc", "--bought", "--skipped"); err == nil {
		t.Fatal("expected exclusive flag error")
	}
}

// ============================================================
// stats / theme / export
// ============================================================

func TestStatsTable(t *testing.T) {
	db := testDB(t)
	out := mustExecute(t, db, "stats")
	for _, want := range []string{"Statistics", "Transportation", "How to read this"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q", want)
		}
	}
}

func TestTheme(t *testing.T) {
	db := testDB(t)

	if out := mustExecute(t, db, "theme"); strings.TrimSpace(out) != "system" {
		t.Fatalf("default theme = %q", out)
	}
	if out := mustExecute(t, db, "theme", "light"); strings.TrimSpace(out) != "light" {
		t.Fatalf("set theme = %q", out)
	}
	if out := mustExecute(t, db, "theme"); strings.TrimSpace(out) != "light" {
		t.Fatalf("persisted theme = %q", out)
	}
	if _, err := execute(t, db, "theme", "neon"); err == nil {
		t.Fatal("expected invalid theme error")
	}
}

func TestExport(t *testing.T) {
	db := testDB(t)
	mustExecute(t, db, "add", "Camera", "-u", "72h")
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	mustExecute(t, db, "export", "--format", "json", "--out", jsonPath)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Camera") {
		t.Fatalf("json export missing lock:\n%s", data)
	}

	csvPath := filepath.Join(dir, "out.csv")
	mustExecute(t, db, "export", "-o", csvPath)
	if _, err := os.Stat(csvPath); err != nil {
		t.Fatalf("csv export: %v", err)
	}

	if _, err := execute(t, db, "export", "--format", "xml"); err == nil {
		t.Fatal("expected unknown format error")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestParseUntil(t *testing.T) {
	now := time.Date(2030, 3, 10, 9, 0, 0, 0, time.Local)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"72h", now.Add(72 * time.Hour)},
		{"90m", now.Add(90 * time.Minute)},
		{"30d", now.AddDate(0, 0, 30)},
		{"2030-04-01", time.Date(2030, 4, 1, 0, 0, 0, 0, time.Local)},
		{"2030-04-01 18:30", time.Date(2030, 4, 1, 18, 30, 0, 0, time.Local)},
		{"2030-04-01T18:30", time.Date(2030, 4, 1, 18, 30, 0, 0, time.Local)},
		{"2030-04-01T18:30:00Z", time.Date(2030, 4, 1, 18, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseUntil(tt.in, now)
		if err != nil {
			t.Errorf("parseUntil(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseUntil(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "soon", "xd", "2030-13-01"} {
		if _, err := parseUntil(bad, now); err == nil {
			t.Errorf("parseUntil(%q) should fail", bad)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, "░░░░░░░░░░   0%"},
		{0.5, "█████░░░░░  50%"},
		{1, "██████████ 100%"},
		{2, "██████████ 100%"},
		{-1, "░░░░░░░░░░   0%"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.p); got != tt.want {
			t.Errorf("progressBar(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("shortID short = %q", got)
	}
}

func TestFindLock(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	now := time.Now()
	for _, id := range []string{"abc1", "abc12", "abc2", "def"} {
		if _, err := s.StoreLock(entity.Lock{ID: id, Name: id, Category: entity.Other, StartDate: now, EndDate: now.Add(time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}

	// A full ID wins even when it also prefixes another lock.
	if l, err := findLock(s, "abc1"); err != nil || l.ID != "abc1" {
		t.Fatalf("exact match = %v, %v", l.ID, err)
	}
	if l, err := findLock(s, "d"); err != nil || l.ID != "def" {
		t.Fatalf("prefix match = %v, %v", l.ID, err)
	}
	if _, err := findLock(s, "abc"); !errors.Is(err, errAmbiguous) {
		t.Fatalf("ambiguous err = %v", err)
	}
	if _, err := findLock(s, "zzz"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}
