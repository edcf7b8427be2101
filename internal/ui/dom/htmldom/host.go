package htmldom

import (
	"sort"
	"time"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

// ManualScheduler runs callbacks only when virtual time is advanced.
type ManualScheduler struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
}

var _ dom.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After schedules fn at now+d.
func (s *ManualScheduler) After(d time.Duration, fn func()) dom.Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	for i, p := range t.s.pending {
		if p == t {
			t.stopped = true
			t.s.pending = append(t.s.pending[:i], t.s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves virtual time forward by d, running every callback that falls
// due in order, including ones scheduled by earlier callbacks.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].at == s.pending[j].at {
				return s.pending[i].seq < s.pending[j].seq
			}
			return s.pending[i].at < s.pending[j].at
		})
		if len(s.pending) == 0 || s.pending[0].at > target {
			break
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		next.stopped = true
		s.now = next.at
		next.fn()
	}
	s.now = target
}

// Pending returns the number of scheduled callbacks.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Now returns the virtual time.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Binder records listeners and dispatches synthetic events to them.
type Binder struct {
	marks     map[string]bool
	listeners map[string][]func(*dom.Event)
}

var _ dom.Binder = (*Binder)(nil)

// NewBinder returns an empty Binder.
func NewBinder() *Binder {
	return &Binder{
		marks:     make(map[string]bool),
		listeners: make(map[string][]func(*dom.Event)),
	}
}

// Listen registers handler for event.
func (b *Binder) Listen(event string, handler func(*dom.Event)) {
	b.listeners[event] = append(b.listeners[event], handler)
}

// Marked reports whether key was marked.
func (b *Binder) Marked(key string) bool {
	return b.marks[key]
}

// Mark sets key.
func (b *Binder) Mark(key string) {
	b.marks[key] = true
}

// Count returns the number of listeners for event.
func (b *Binder) Count(event string) int {
	return len(b.listeners[event])
}

// Fire delivers ev to every listener registered for ev.Type.
func (b *Binder) Fire(ev *dom.Event) {
	for _, fn := range b.listeners[ev.Type] {
		fn(ev)
	}
}
