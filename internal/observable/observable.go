// Package observable provides the two push primitives view-models publish
// through: a Value cell that replays its latest state to new subscribers, and
// an Event stream that only reaches subscribers present at publish time.
package observable

import "sync"

type subscribers[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(T)
}

func (s *subscribers[T]) add(fn func(T)) int {
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn
	return id
}

func (s *subscribers[T]) remove(id int) {
	s.mu.Lock()
	delete(s.fns, id)
	s.mu.Unlock()
}

// snapshot returns the subscriber funcs in subscription order. Callers hold mu.
func (s *subscribers[T]) snapshot() []func(T) {
	out := make([]func(T), 0, len(s.fns))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.fns[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Value is a "current value" cell. Late subscribers immediately receive the
// latest value, if one has been set.
type Value[T any] struct {
	pub  sync.Mutex // serializes Set and replay so no subscriber sees values out of order
	subs subscribers[T]
	cur  T
	set  bool
}

// Set stores v and delivers it to every subscriber. Subscribers run on the
// caller's goroutine and must not call Set on the same cell.
func (v *Value[T]) Set(val T) {
	v.pub.Lock()
	defer v.pub.Unlock()

	v.subs.mu.Lock()
	v.cur = val
	v.set = true
	fns := v.subs.snapshot()
	v.subs.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
}

// Get returns the latest value and whether one has been set.
func (v *Value[T]) Get() (T, bool) {
	v.subs.mu.Lock()
	defer v.subs.mu.Unlock()
	return v.cur, v.set
}

// Subscribe registers fn and replays the current value to it. The returned
// func removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.pub.Lock()
	defer v.pub.Unlock()

	v.subs.mu.Lock()
	id := v.subs.add(fn)
	cur, ok := v.cur, v.set
	v.subs.mu.Unlock()

	if ok {
		fn(cur)
	}
	return func() { v.subs.remove(id) }
}

// Event is a broadcast stream with no memory.
type Event[T any] struct {
	subs subscribers[T]
}

// Publish delivers e to the current subscribers on the caller's goroutine.
// Subscribers may publish again from inside the callback.
func (ev *Event[T]) Publish(e T) {
	ev.subs.mu.Lock()
	fns := ev.subs.snapshot()
	ev.subs.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (ev *Event[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	ev.subs.mu.Lock()
	id := ev.subs.add(fn)
	ev.subs.mu.Unlock()
	return func() { ev.subs.remove(id) }
}
