// Component H (spec.md §4.H): a Buffered[T] bound to exactly one source of
// the same element type, applying transformFn to each pulled item before
// pushing downstream. The single-owner invariant (spec.md §3) is enforced
// via claimDestinationOf at construction, and the source's "readable"/"end"/
// "error" events are forwarded into this iterator's lifecycle, using the
// same listener-relay idiom as mapping.go's mapWithDestroy.

package asynciter

// Transform is component H, and the engine NewSimpleTransform (component I)
// and MultiTransform (component J) are both built on.
type Transform[T any] struct {
	*Buffered[T]
	source Iterator[T]

	// transformFn processes one source item: it must call push zero or more
	// times, then call next exactly once. The default is the identity (push
	// then next); NewSimpleTransform replaces it, and MultiTransform replaces
	// readHook instead, so its readHook never calls transformFn.
	transformFn func(item T, push func(T), next func())

	// closeWhenDoneHook runs once source has ended; MultiTransform overrides
	// it to wait for its pending-transformer queue to drain instead of
	// closing immediately (spec.md §4.J).
	closeWhenDoneHook func()
}

func newTransform[T any](self Iterator[T], source Iterator[T], bufOpts []BufferedOption) *Transform[T] {
	tr := &Transform[T]{source: source}
	tr.Buffered = newBuffered[T](self, bufOpts)
	claimDestinationOf(source)

	tr.closeWhenDoneHook = tr.Close
	tr.transformFn = func(item T, push func(T), next func()) {
		push(item)
		next()
	}

	readableID := source.On("readable", func(...any) { tr.fillBuffer() })
	endID := source.On("end", func(...any) { tr.closeWhenDoneHook() })
	errID := source.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		tr.Emit("error", err)
	})
	tr.onDetach = func() {
		source.Off("readable", readableID)
		source.Off("end", endID)
		source.Off("error", errID)
		source.Destroy(nil)
	}

	tr.readHook = func(count int, done func()) {
		pulled := 0
		var step func()
		step = func() {
			if tr.Closed() {
				done()
				return
			}
			if pulled >= count {
				done()
				return
			}
			v, ok := source.Read()
			if !ok {
				done()
				return
			}
			pulled++
			tr.transformFn(v, tr.push, step)
		}
		step()
	}

	if source.Done() {
		tr.closeWhenDoneHook()
	}

	return tr
}
