// Component §6 "wrap": adapting other shapes into an Iterator[T]. The spec
// lists iterator-passthrough, future-of-iterator, array, and "whatever the
// host language already uses for async sequences" — for Go that last one is
// a channel, so WrapChannel plays the role the original gives host
// iterables/iterators.

package asynciter

import "math"

// Wrap returns source unchanged: Iterator[T] is already this package's own
// interface, so there's nothing to adapt.
func Wrap[T any](source Iterator[T]) Iterator[T] { return source }

// WrapArray is the §6 array-wrapping case, delegating to FromArray.
func WrapArray[T any](items []T, opts ...ArrayOption) Iterator[T] {
	return FromArray[T](items, opts...)
}

type futureIterator[T any] struct {
	*Buffered[T]
	resolve func() (Iterator[T], error)
	inner   Iterator[T]
}

// WrapFuture returns an iterator that proxies whatever resolve eventually
// produces. resolve runs on the scheduler, in the first buffer fill (which
// autoStart schedules right after construction, without waiting for a
// Read), so its completion (or error) is observed on a later tick rather
// than inline during construction (spec.md §6: "future-of-iterator").
func WrapFuture[T any](resolve func() (Iterator[T], error)) Iterator[T] {
	w := &futureIterator[T]{resolve: resolve}
	w.Buffered = newBuffered[T](w, nil)
	w.readHook = func(count int, done func()) {
		if w.inner == nil {
			it, err := w.resolve()
			if err != nil {
				w.Emit("error", err)
				w.Close()
				done()
				return
			}
			claimDestinationOf(it)
			w.inner = it
			it.On("readable", func(...any) { w.fillBuffer() })
			it.On("end", func(...any) { w.Close() })
			it.On("error", func(args ...any) {
				var err error
				if len(args) > 0 {
					err, _ = args[0].(error)
				}
				w.Emit("error", err)
			})
			w.onDetach = func() { it.Destroy(nil) }
			if it.Done() {
				w.Close()
				done()
				return
			}
		}
		pulled := 0
		for pulled < count {
			v, ok := w.inner.Read()
			if !ok {
				break
			}
			w.push(v)
			pulled++
		}
		done()
	}
	return w
}

type channelIterator[T any] struct {
	*Buffered[T]
}

// WrapChannel adapts a Go channel as an iterator: every value received is
// pushed as it arrives, and the iterator closes once ch is closed. Values
// cross from the channel's goroutine to the single-threaded scheduler via
// schedule, so no extra locking is needed on the push side.
func WrapChannel[T any](ch <-chan T) Iterator[T] {
	w := &channelIterator[T]{}
	w.Buffered = newBuffered[T](w, []BufferedOption{WithMaxBufferSize(math.Inf(1))})
	go func() {
		for v := range ch {
			item := v
			schedule(func() { w.push(item) })
		}
		schedule(func() { w.Close() })
	}()
	return w
}
