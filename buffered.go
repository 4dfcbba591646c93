// Component G (spec.md §4.G): an internal FIFO buffer with demand-driven
// refill, a single-flight read lock, deferred close, and flush-on-close.
//
// Shadows BaseIterator.Read/Close/Destroy outright (the "reading" flag here
// is a genuinely different algorithm, not a hook dispatch), while still
// relying on BaseIterator for state, events, properties, and the chaining
// combinators. Subclasses (Transform, MultiTransform, Union) configure
// beginHook/readHook/flushHook instead of overriding methods — the same
// struct-of-function-field-hooks idiom as BaseIterator's destroyFn, and as
// eventloop/loop.go's loopTestHooks.

package asynciter

import "math"

// Buffered is component G.
type Buffered[T any] struct {
	*BaseIterator[T]

	maxBufferSize float64
	autoStart     bool

	buffer      *list[T]
	reading     bool
	pushedCount int

	// sourceStarted records whether a read has ever been attempted. Read
	// sets it; nothing else in this package consults it.
	sourceStarted bool

	// beginHook is "_begin(done)": prepare before any buffering starts.
	beginHook func(done func(err error))
	// readHook is "_read(count, done)": produce up to count items via push.
	readHook func(count int, done func())
	// flushHook is "_flush(done)": drain in-flight work before ending.
	flushHook func(done func(err error))
}

// newBuffered constructs a Buffered[T] in state INIT, with self as the
// outermost iterator (used by the dual-mode drain loop and by the chaining
// combinators). The caller must set beginHook/readHook/flushHook (any of
// which may be left nil for a trivial no-op) before the next scheduler tick
// runs _init.
func newBuffered[T any](self Iterator[T], opts []BufferedOption) *Buffered[T] {
	cfg := resolveBufferedOptions(opts)
	b := &Buffered[T]{
		maxBufferSize: cfg.maxBufferSize,
		autoStart:     cfg.autoStart,
		buffer:        newList[T](),
		reading:       true,
	}
	b.BaseIterator = newBaseIterator[T](self)
	schedule(b.init)
	return b
}

func (b *Buffered[T]) init() {
	guard := newOnceGuard("_begin")
	done := func(err error) {
		guard.fire()
		b.reading = false
		b.changeState(StateOpen, false)
		if err != nil {
			b.Emit("error", err)
		}
		if b.autoStart {
			schedule(b.fillBuffer)
		}
		// autoStart == false: buffering waits until something calls
		// fillBuffer — the first Read schedules it.
	}
	if b.beginHook != nil {
		b.beginHook(done)
	} else {
		done(nil)
	}
}

// Read pops the buffer's head, triggering a refill (or the end sequence)
// as needed.
func (b *Buffered[T]) Read() (T, bool) {
	if b.Done() {
		var zero T
		return zero, false
	}
	b.sourceStarted = true
	v, ok := b.buffer.shift()
	if !ok {
		b.SetReadable(false)
		var zero T
		return zero, false
	}
	if !b.reading && b.underCapacity() {
		if !b.Closed() {
			schedule(b.fillBuffer)
		} else if b.buffer.empty() {
			schedule(func() { b.changeState(StateEnded, false) })
		}
	}
	return v, true
}

func (b *Buffered[T]) underCapacity() bool {
	if math.IsInf(b.maxBufferSize, 1) {
		return true
	}
	return float64(b.buffer.length()) < b.maxBufferSize
}

func (b *Buffered[T]) lessThanHalfFull() bool {
	if math.IsInf(b.maxBufferSize, 1) {
		return true
	}
	return float64(b.buffer.length())*2 < b.maxBufferSize
}

func (b *Buffered[T]) fillNeeded() int {
	if math.IsInf(b.maxBufferSize, 1) {
		return 128
	}
	n := b.maxBufferSize - float64(b.buffer.length())
	if n > 128 {
		n = 128
	}
	if n < 0 {
		n = 0
	}
	return int(n)
}

// fillBuffer is "_fillBuffer": guarded by the read lock, routes to
// completeClose once closed, otherwise asks readHook for up to fillNeeded
// more items.
func (b *Buffered[T]) fillBuffer() {
	if b.reading {
		return
	}
	if b.Closed() {
		b.completeClose()
		return
	}
	needed := b.fillNeeded()
	if needed <= 0 {
		return
	}
	b.reading = true
	b.pushedCount = 0
	guard := newOnceGuard("_read")
	done := func() {
		guard.fire()
		b.reading = false
		if b.Closed() {
			b.completeClose()
			return
		}
		if b.pushedCount > 0 {
			b.SetReadable(true)
			if b.lessThanHalfFull() {
				schedule(b.fillBuffer)
			}
		}
	}
	if b.readHook != nil {
		b.readHook(needed, done)
	} else {
		done()
	}
}

// fillBufferAsync acquires the read lock, schedules a tick, releases, then
// calls fillBuffer — used by Union when a source is added mid-read to avoid
// a synchronous re-entrant fill (spec.md §4.G).
func (b *Buffered[T]) fillBufferAsync() {
	b.reading = true
	schedule(func() {
		b.reading = false
		b.fillBuffer()
	})
}

// Close completes synchronously if no read is in flight; otherwise it
// marks CLOSING and leaves completion to the in-flight read's done
// callback (spec.md §4.G).
func (b *Buffered[T]) Close() {
	if b.Closed() {
		return
	}
	if !b.reading {
		b.completeClose()
		return
	}
	b.changeState(StateClosing, false)
}

// completeClose is "_completeClose": transition to CLOSED, flush, and
// schedule the ENDED transition once the buffer has drained.
func (b *Buffered[T]) completeClose() {
	if !b.changeState(StateClosed, false) {
		return
	}
	b.reading = true
	guard := newOnceGuard("_flush")
	done := func(err error) {
		guard.fire()
		b.reading = false
		if err != nil {
			b.Emit("error", err)
		}
		if b.buffer.empty() {
			schedule(func() { b.changeState(StateEnded, false) })
		}
	}
	if b.flushHook != nil {
		b.flushHook(done)
	} else {
		done(nil)
	}
}

// Destroy clears the buffer before delegating to BaseIterator's immediate
// cancellation (spec.md §5: "buffer is cleared").
func (b *Buffered[T]) Destroy(cause any) {
	b.buffer.clear()
	b.BaseIterator.Destroy(cause)
}

// push is "_push(item)": a no-op once done, otherwise appends to the
// buffer and marks readable.
func (b *Buffered[T]) push(item T) {
	if b.Done() {
		return
	}
	b.pushedCount++
	b.buffer.push(item)
	b.SetReadable(true)
}

func (b *Buffered[T]) bufferLen() int { return b.buffer.length() }
