// Component C (spec.md §4.C, §9): a named-event emitter with "newListener"
// notification, listener counts, and single-shot listeners.
//
// Grounded on eventloop/eventtarget.go's EventTarget (DOM-style dispatch,
// ListenerID-based removal because Go func values can't be compared), with
// the event model swapped from DOM Event objects to variadic payloads (this
// package's events — readable, data, end, error — carry plain values, not a
// cancelable/bubbling DOM event) and a newListener meta-event added, which
// is the one piece of Node's EventEmitter the base iterator's dual-mode
// dispatch (spec.md §4.D) depends on and DOM's EventTarget doesn't have.

package asynciter

import "sync"

// ListenerID uniquely identifies a registered listener for removal.
type ListenerID uint64

// EventHandler receives the arguments passed to Emitter.Emit for the event
// it was registered against.
type EventHandler func(args ...any)

type listenerEntry struct {
	id   ListenerID
	fn   EventHandler
	once bool
}

// Emitter is a minimal Node-style event emitter: subscribe/unsubscribe by
// name, a "newListener" meta-event fired just before a listener for any
// other event is added, and synchronous, registration-order dispatch.
//
// Emitter is safe for concurrent use, but per spec.md §5 this package only
// ever drives it from the single-threaded cooperative scheduler.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]listenerEntry
	nextID    ListenerID
}

// NewEmitter constructs an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]listenerEntry)}
}

// On subscribes fn to event, returning an id usable with Off.
func (e *Emitter) On(event string, fn EventHandler) ListenerID {
	return e.addListener(event, fn, false)
}

// Once subscribes fn to event for exactly one dispatch.
func (e *Emitter) Once(event string, fn EventHandler) ListenerID {
	return e.addListener(event, fn, true)
}

func (e *Emitter) addListener(event string, fn EventHandler, once bool) ListenerID {
	if fn == nil {
		return 0
	}

	// newListener fires before the listener is actually installed, matching
	// Node's EventEmitter: a listener just added for "newListener" itself
	// does not observe its own registration.
	if event != "newListener" {
		e.emit("newListener", event, fn)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners[event] = append(e.listeners[event], listenerEntry{id: id, fn: fn, once: once})
	return id
}

// Off removes the listener identified by id from event, reporting whether
// one was found.
func (e *Emitter) Off(event string, id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries, ok := e.listeners[event]
	if !ok {
		return false
	}
	for i, entry := range entries {
		if entry.id == id {
			e.listeners[event] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll detaches every listener for every event, used on _end to
// release subscriptions (spec.md §3: "Properties, buffers, and callbacks
// are released on _end").
func (e *Emitter) RemoveAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = make(map[string][]listenerEntry)
}

// ListenerCount reports how many listeners are registered for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// Emit dispatches args to every listener registered for event, in
// registration order. "once" listeners are unregistered before the
// handlers of this dispatch run, and each still receives this dispatch.
// Emit is exported so embedding iterators can raise their own application
// events (readable/data/end/error) through the same mechanism.
func (e *Emitter) Emit(event string, args ...any) {
	e.emit(event, args...)
}

func (e *Emitter) emit(event string, args ...any) {
	e.mu.Lock()
	entries := e.listeners[event]
	if len(entries) == 0 {
		e.mu.Unlock()
		return
	}
	// Snapshot so a handler that adds/removes listeners mid-dispatch can't
	// corrupt this pass.
	snapshot := append([]listenerEntry(nil), entries...)
	var remaining []listenerEntry
	anyOnce := false
	for _, entry := range snapshot {
		if entry.once {
			anyOnce = true
			continue
		}
		remaining = append(remaining, entry)
	}
	if anyOnce {
		e.listeners[event] = remaining
	}
	e.mu.Unlock()

	for _, entry := range snapshot {
		entry.fn(args...)
	}
}
