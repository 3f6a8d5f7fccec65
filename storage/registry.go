package storage

import "sync"

// Registry fans a change notification out to every subscribed listener.
type Registry struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func NewRegistry() *Registry {
	return &Registry{listeners: make(map[int]func())}
}

// Subscribe registers fn and returns its unsubscribe function. Unsubscribing
// more than once is harmless.
func (r *Registry) Subscribe(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// Notify invokes every listener subscribed at the moment of the call exactly
// once, on the caller's goroutine, in unspecified order. Listeners added or
// removed during a Notify do not affect that cycle.
func (r *Registry) Notify() {
	r.mu.Lock()
	snapshot := make([]func(), 0, len(r.listeners))
	for _, fn := range r.listeners {
		snapshot = append(snapshot, fn)
	}
	r.mu.Unlock()

	for _, fn := range snapshot {
		fn()
	}
}

// Len reports the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}
