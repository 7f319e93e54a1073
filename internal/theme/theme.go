// Package theme carries the process-wide theme-changed signal.
// The chart does not choose a theme; it only reacts to this notifier.
package theme

import (
	"slices"
	"sync"

	"github.com/huangsam/churnchart/schema"
)

// Listener is called with the new theme after a change.
type Listener func(schema.Theme)

// Notifier broadcasts theme changes to subscribers.
type Notifier struct {
	mu        sync.RWMutex
	current   schema.Theme
	nextID    int
	order     []int
	listeners map[int]Listener
}

// Default is the notifier shared by the CLI and MCP server.
var Default = NewNotifier(schema.LightTheme)

// NewNotifier returns a notifier starting at the given theme.
func NewNotifier(initial schema.Theme) *Notifier {
	return &Notifier{current: initial, listeners: make(map[int]Listener)}
}

// Current returns the active theme.
func (n *Notifier) Current() schema.Theme {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Subscribe registers l and returns the function that removes it.
// Calling the returned function more than once is safe.
func (n *Notifier) Subscribe(l Listener) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = l
	n.order = append(n.order, id)
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { n.remove(id) })
	}
}

func (n *Notifier) remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.listeners, id)
	n.order = slices.DeleteFunc(n.order, func(v int) bool { return v == id })
}

// Set switches the theme and notifies subscribers in subscription order.
// Setting the current theme again is a no-op.
func (n *Notifier) Set(theme schema.Theme) {
	n.mu.Lock()
	if theme == n.current {
		n.mu.Unlock()
		return
	}
	n.current = theme
	listeners := make([]Listener, 0, len(n.order))
	for _, id := range n.order {
		listeners = append(listeners, n.listeners[id])
	}
	n.mu.Unlock()

	// Called outside the lock so listeners may subscribe or unsubscribe.
	for _, l := range listeners {
		l(theme)
	}
}

// Listeners returns the number of active subscriptions.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
