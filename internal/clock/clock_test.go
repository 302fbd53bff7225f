package clock

import (
	"testing"
	"time"
)

func TestMockSetAndAdvance(t *testing.T) {
	start := time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC)
	m := NewMock(start)
	if !m.Now().Equal(start) {
		t.Fatalf("expected %v, got %v", start, m.Now())
	}

	m.Advance(90 * time.Second)
	if got := m.Now().Sub(start); got != 90*time.Second {
		t.Fatalf("expected 90s after start, got %v", got)
	}

	later := start.AddDate(0, 0, 2)
	m.Set(later)
	if !m.Now().Equal(later) {
		t.Fatalf("expected %v, got %v", later, m.Now())
	}
}

func TestSystemIsCurrent(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	if got.Before(before) {
		t.Fatal("system clock went backwards")
	}
}
