// Component K (spec.md §4.K): round-robin union over a fixed set of
// sources, or over sources arriving dynamically from an iterator of
// iterators. Ended sources are pruned and the rotation index is kept
// pointing at a live entry; the union itself ends once no more sources can
// ever arrive and none remain active.

package asynciter

type unionEntry[T any] struct {
	it                       Iterator[T]
	readableID, endID, errID ListenerID
}

// Union is component K.
type Union[T any] struct {
	*Buffered[T]

	sources []*unionEntry[T]
	current int

	// sourcesOfSourcesDone is true once no further sources can arrive:
	// always true for a static Union, and true once the driving
	// iterator-of-iterators has ended for UnionOf.
	sourcesOfSourcesDone bool

	sosReadableID, sosEndID, sosErrID ListenerID
}

func newUnionBase[T any]() *Union[T] {
	u := &Union[T]{}
	u.Buffered = newBuffered[T](u, nil)
	u.readHook = func(count int, done func()) {
		u.pull(count)
		done()
	}
	return u
}

// pull implements the round-robin fairness rule: keep taking passes over
// the live sources, starting every pass at the same rotation point, until
// either count items have been produced or a full pass makes no progress
// at all. u.current only advances once the whole call is done, so a call
// spanning several passes visits source0, source1, ..., source0, source1,
// ... rather than rotating its starting point pass-to-pass.
func (u *Union[T]) pull(count int) {
	remaining := count
	for remaining > 0 && len(u.sources) > 0 {
		n := len(u.sources)
		progressed := false
		for i := 0; i < n && remaining > 0; i++ {
			idx := (u.current + i) % len(u.sources)
			e := u.sources[idx]
			v, ok := e.it.Read()
			if ok {
				u.push(v)
				remaining--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	if len(u.sources) > 0 {
		u.current = (u.current + 1) % len(u.sources)
	}
}

func (u *Union[T]) addSource(it Iterator[T]) {
	claimDestinationOf(it)
	e := &unionEntry[T]{it: it}
	e.readableID = it.On("readable", func(...any) { u.fillBuffer() })
	e.errID = it.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		u.Emit("error", err)
	})
	e.endID = it.On("end", func(...any) { u.removeEntry(e) })
	u.sources = append(u.sources, e)
	if it.Readable() {
		u.SetReadable(true)
	}
}

func (u *Union[T]) removeEntry(e *unionEntry[T]) {
	for i, s := range u.sources {
		if s == e {
			u.sources = append(u.sources[:i], u.sources[i+1:]...)
			switch {
			case u.current > i:
				u.current--
			case len(u.sources) > 0:
				u.current %= len(u.sources)
			default:
				u.current = 0
			}
			break
		}
	}
	u.checkClose()
}

func (u *Union[T]) checkClose() {
	if u.sourcesOfSourcesDone && len(u.sources) == 0 {
		u.Close()
	}
}

func (u *Union[T]) detachAll() {
	for _, e := range u.sources {
		e.it.Off("readable", e.readableID)
		e.it.Off("end", e.endID)
		e.it.Off("error", e.errID)
		e.it.Destroy(nil)
	}
	u.sources = nil
}

// NewUnion reads from every given source in round-robin order, ending once
// all of them have ended.
func NewUnion[T any](sources ...Iterator[T]) Iterator[T] {
	u := newUnionBase[T]()
	u.sourcesOfSourcesDone = true
	u.onDetach = u.detachAll
	for _, s := range sources {
		if s != nil {
			u.addSource(s)
		}
	}
	u.checkClose()
	return u
}

// NewUnionOf reads a stream of sources from sourceOfSources, unioning each
// as it arrives; the union ends once sourceOfSources has ended and every
// source it produced has also ended.
func NewUnionOf[T any](sourceOfSources Iterator[Iterator[T]]) Iterator[T] {
	u := newUnionBase[T]()
	claimDestinationOf(sourceOfSources)

	u.onDetach = func() {
		u.detachAll()
		sourceOfSources.Off("readable", u.sosReadableID)
		sourceOfSources.Off("end", u.sosEndID)
		sourceOfSources.Off("error", u.sosErrID)
		sourceOfSources.Destroy(nil)
	}

	drainNewSources := func() {
		for {
			s, ok := sourceOfSources.Read()
			if !ok {
				return
			}
			u.addSource(s)
			u.fillBufferAsync()
		}
	}
	u.sosReadableID = sourceOfSources.On("readable", func(...any) { drainNewSources() })
	u.sosEndID = sourceOfSources.On("end", func(...any) {
		u.sourcesOfSourcesDone = true
		u.checkClose()
	})
	u.sosErrID = sourceOfSources.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		u.Emit("error", err)
	})

	if sourceOfSources.Readable() {
		drainNewSources()
	}
	if sourceOfSources.Done() {
		u.sourcesOfSourcesDone = true
		u.checkClose()
	}
	return u
}
