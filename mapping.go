// Component F (spec.md §4.F): a synchronous element-wise transform with
// null-skip. Go can't express "map(fn) returns Iterator[D]" as a method
// with T fixed to S (methods can't introduce a new type parameter — see
// SPEC_FULL.md's Go-native translation notes), so Map is a free function.

package asynciter

type mapIterator[S, D any] struct {
	*BaseIterator[D]
	source Iterator[S]
}

// Map wraps source, applying mapFn to each element; mapFn returning false
// skips that element (spec.md: "drains the source until the map yields
// non-none"). The returned iterator destroys source when it ends, matching
// spec.md §3's default destroySource=true.
func Map[S, D any](source Iterator[S], mapFn func(S) (D, bool)) Iterator[D] {
	return mapWithDestroy[S, D](source, mapFn, true)
}

// MapKeepSource behaves like Map but leaves source alive after this
// iterator ends, for callers that want to keep reading source themselves
// or hand it to another destination.
func MapKeepSource[S, D any](source Iterator[S], mapFn func(S) (D, bool)) Iterator[D] {
	return mapWithDestroy[S, D](source, mapFn, false)
}

func mapWithDestroy[S, D any](source Iterator[S], mapFn func(S) (D, bool), destroySource bool) Iterator[D] {
	m := &mapIterator[S, D]{source: source}
	m.BaseIterator = newBaseIterator[D](m)
	claimDestinationOf(source)

	if source.Done() {
		// Mirrors Single(none)'s synchronous-done treatment: a source
		// that's already finished before we ever subscribed means this
		// iterator has nothing to produce, full stop.
		m.changeState(StateEnded, true)
		return m
	}

	m.changeState(StateOpen, false)

	readableID := source.On("readable", func(...any) { m.SetReadable(true) })
	endID := source.On("end", func(...any) { m.Close() })
	errID := source.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		m.Emit("error", err)
	})
	m.onDetach = func() {
		source.Off("readable", readableID)
		source.Off("end", endID)
		source.Off("error", errID)
		if destroySource {
			source.Destroy(nil)
		}
	}

	m.readFn = func() (D, bool) {
		for {
			v, ok := source.Read()
			if !ok {
				m.SetReadable(false)
				var zero D
				return zero, false
			}
			d, keep := mapFn(v)
			if keep {
				return d, true
			}
		}
	}

	if source.Readable() {
		m.SetReadable(true)
	}
	return m
}
