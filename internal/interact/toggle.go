package interact

import (
	"sync"
	"time"
)

// Toggle is a named boolean control whose changes are applied through a Debouncer.
// Requested values take effect only after the quiet period, and a burst of
// flips that ends where it started applies nothing.
type Toggle struct {
	mu        sync.Mutex
	name      string
	applied   bool
	requested bool
	debouncer *Debouncer
	onChange  func(name string, value bool)
}

// NewToggle returns a toggle starting at initial. onChange may be nil.
func NewToggle(name string, initial bool, delay time.Duration, onChange func(name string, value bool)) *Toggle {
	return &Toggle{
		name:      name,
		applied:   initial,
		requested: initial,
		debouncer: NewDebouncer(delay),
		onChange:  onChange,
	}
}

// Name returns the toggle name.
func (t *Toggle) Name() string {
	return t.name
}

// Set requests a new value.
func (t *Toggle) Set(value bool) {
	t.mu.Lock()
	t.requested = value
	t.mu.Unlock()
	t.debouncer.Trigger(t.apply)
}

// Value returns the applied value.
func (t *Toggle) Value() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.applied
}

// Requested returns the most recently requested value.
func (t *Toggle) Requested() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requested
}

// Flush applies a pending request immediately.
func (t *Toggle) Flush() {
	t.debouncer.Flush()
}

// Cancel drops a pending request and reverts to the applied value.
func (t *Toggle) Cancel() {
	t.debouncer.Cancel()
	t.mu.Lock()
	t.requested = t.applied
	t.mu.Unlock()
}

func (t *Toggle) apply() {
	t.mu.Lock()
	changed := t.applied != t.requested
	t.applied = t.requested
	value := t.applied
	t.mu.Unlock()

	if changed && t.onChange != nil {
		t.onChange(t.name, value)
	}
}
