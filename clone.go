// Component L (spec.md §4.L): Clone() returns an independent reader over
// the same sequence, backed by a shared, append-only history buffer. The
// HistoryReader is the one place in this package that owns a source on
// behalf of more than one destination — spec.md §3 carves this out as the
// sole exception to the single-owner invariant.

package asynciter

import "sync"

// cloneHistoryReaders caches the one HistoryReader created for a given root
// source, keyed by the source's own identity, so that calling Clone()
// repeatedly on the same root (the common case — "give me three independent
// readers over this sequence") shares a single HistoryReader and a single
// claimDestinationOf call instead of the second call panicking on an
// already-claimed destination. Entries are deliberately never evicted: a
// source may still be Clone()d long after it ends, and evicting on "end"
// would make that later call create a second HistoryReader racing to claim
// a destination the first one already holds.
var cloneHistoryReaders sync.Map

// getOrCreateHistoryReader returns the HistoryReader backing a new clone of
// source: cloning a clone reuses its existing reader directly; cloning a
// root reuses the cached reader from an earlier Clone() call, creating one
// (and claiming source) only the first time.
func getOrCreateHistoryReader[T any](source Iterator[T]) *HistoryReader[T] {
	if c, ok := source.(*cloneIterator[T]); ok {
		return c.reader
	}
	if v, ok := cloneHistoryReaders.Load(source); ok {
		return v.(*HistoryReader[T])
	}
	reader := newHistoryReader[T](source)
	actual, _ := cloneHistoryReaders.LoadOrStore(source, reader)
	return actual.(*HistoryReader[T])
}

// HistoryReader owns source and accumulates everything it produces, so
// every registered clone can replay from its own position independently.
type HistoryReader[T any] struct {
	source  Iterator[T]
	history []T
	ended   bool

	trackers map[*cloneIterator[T]]struct{}
}

func newHistoryReader[T any](source Iterator[T]) *HistoryReader[T] {
	claimDestinationOf(source)
	hr := &HistoryReader[T]{
		source:   source,
		trackers: make(map[*cloneIterator[T]]struct{}),
	}
	// A source that was already Done() before the first Clone() will never
	// emit another "end" — RemoveAll already fired and cleared its
	// listeners — so that must be reflected here directly rather than
	// waited on.
	if source.Done() {
		hr.ended = true
		return hr
	}
	source.On("readable", func(...any) { hr.pump() })
	source.On("end", func(...any) {
		hr.ended = true
		hr.notifyAll()
	})
	source.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		hr.notifyError(err)
	})
	if source.Readable() {
		hr.pump()
	}
	return hr
}

func (hr *HistoryReader[T]) pump() {
	for {
		v, ok := hr.source.Read()
		if !ok {
			return
		}
		hr.history = append(hr.history, v)
		hr.notifyAll()
	}
}

func (hr *HistoryReader[T]) notifyAll() {
	for c := range hr.trackers {
		c.onHistoryGrow()
	}
}

func (hr *HistoryReader[T]) notifyError(err error) {
	for c := range hr.trackers {
		c.Emit("error", err)
	}
}

func (hr *HistoryReader[T]) readAt(pos int) (T, bool) {
	if pos < len(hr.history) {
		return hr.history[pos], true
	}
	var zero T
	return zero, false
}

func (hr *HistoryReader[T]) endsAt(pos int) bool {
	return hr.ended && pos >= len(hr.history)
}

func (hr *HistoryReader[T]) register(c *cloneIterator[T])   { hr.trackers[c] = struct{}{} }
func (hr *HistoryReader[T]) unregister(c *cloneIterator[T]) { delete(hr.trackers, c) }

type cloneIterator[T any] struct {
	*BaseIterator[T]
	reader *HistoryReader[T]
	pos    int
}

// newCloneIterator returns an independent reader over source's sequence.
// Cloning a clone reuses the same HistoryReader rather than nesting a new
// one around it, so any number of clones-of-clones share one buffer and one
// claim on the original root.
func newCloneIterator[T any](source Iterator[T]) Iterator[T] {
	reader := getOrCreateHistoryReader[T](source)

	c := &cloneIterator[T]{reader: reader, pos: 0}
	c.BaseIterator = newBaseIterator[T](c)
	reader.register(c)
	c.onDetach = func() { reader.unregister(c) }
	c.destroyFn = func(cause any, done func(err error)) {
		reader.unregister(c)
		done(nil)
	}

	if reader.endsAt(c.pos) {
		c.changeState(StateEnded, true)
		return c
	}
	c.changeState(StateOpen, false)
	if c.pos < len(reader.history) {
		c.SetReadable(true)
	}
	c.readFn = func() (T, bool) {
		v, ok := reader.readAt(c.pos)
		if !ok {
			c.SetReadable(false)
			return v, false
		}
		c.pos++
		if reader.endsAt(c.pos) {
			c.Close()
		} else if c.pos >= len(reader.history) {
			c.SetReadable(false)
		}
		return v, true
	}
	return c
}

func (c *cloneIterator[T]) onHistoryGrow() {
	if c.Done() {
		return
	}
	if c.pos < len(c.reader.history) {
		c.SetReadable(true)
	}
	if c.reader.endsAt(c.pos) {
		c.Close()
	}
}

// GetProperty checks this clone's own properties first, falling back to the
// original root's — so SetProperty on one clone shadows the shared source
// without mutating it for siblings.
func (c *cloneIterator[T]) GetProperty(name string, cb func(any)) (any, bool) {
	if v, ok := c.BaseIterator.GetProperty(name, nil); ok {
		return v, true
	}
	return c.reader.source.GetProperty(name, cb)
}
