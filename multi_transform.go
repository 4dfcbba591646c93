// Component J (spec.md §4.J): like Transform, but each source item expands
// into its own sub-iterator ("transformer"). Transformers are drained to
// completion in source order (a flat-map that concatenates rather than
// interleaves), but — per §4.J's "while the source has items and the queue
// size is below maxBufferSize, read a source item, create a sub-iterator"
// — the queue holds up to maxBufferSize of them, the one actually being
// drained included, so a slow-to-produce transformer doesn't stall the
// creation of the next few.

package asynciter

import "math"

// mtEntry is one queued source item together with the sub-iterator
// createTransformer produced for it.
type mtEntry[T any] struct {
	it          Iterator[T]
	original    T
	producedAny bool

	readableID ListenerID
	errorID    ListenerID
}

// multiTransformBase has Transform[T]'s fields and promoted methods; it is
// embedded under this name because an embedded field named Transform would
// hide the Transform method that Iterator[T] requires.
type multiTransformBase[T any] Transform[T]

// MultiTransform is component J.
type MultiTransform[T any] struct {
	*multiTransformBase[T]

	createTransformer func(item T) Iterator[T]
	optional          bool

	// queue holds one entry per source item read ahead of (or currently)
	// being drained, in source order; queue[0] is the entry currently
	// feeding push.
	queue           []*mtEntry[T]
	sourceExhausted bool
}

// NewMultiTransform drains source one item at a time, passing each to
// createTransformer (defaulting to Single(item, true), i.e. a pass-through)
// and concatenating every transformer's output, in source order, before
// advancing. If optional is true and a transformer produces nothing, the
// original source item is pushed in its place (spec.md §4.J's "optional"
// mode).
func NewMultiTransform[T any](source Iterator[T], createTransformer func(item T) Iterator[T], optional bool, bufOpts ...BufferedOption) Iterator[T] {
	if createTransformer == nil {
		createTransformer = func(item T) Iterator[T] { return Single[T](item, true) }
	}
	mt := &MultiTransform[T]{
		createTransformer: createTransformer,
		optional:          optional,
	}
	mt.multiTransformBase = (*multiTransformBase[T])(newTransform[T](mt, source, bufOpts))

	mt.closeWhenDoneHook = func() {
		if len(mt.queue) == 0 {
			mt.Close()
		}
	}

	mt.readHook = func(count int, done func()) {
		pulled := 0
		var step func()
		step = func() {
			if mt.Closed() || pulled >= count {
				done()
				return
			}
			mt.fillQueue()
			if len(mt.queue) == 0 {
				if mt.sourceDone() {
					mt.Close()
				}
				done()
				return
			}
			front := mt.queue[0]
			v, ok := front.it.Read()
			if !ok {
				if front.it.Done() {
					if !front.producedAny && mt.optional {
						mt.push(front.original)
						pulled++
					}
					mt.detachEntry(front)
					mt.queue = mt.queue[1:]
					mt.fillQueue()
					step()
					return
				}
				done()
				return
			}
			pulled++
			front.producedAny = true
			mt.push(v)
			step()
		}
		step()
	}

	return mt
}

func (mt *MultiTransform[T]) sourceDone() bool { return mt.source.Done() }

// queueRoom reports whether another transformer may be created ahead of the
// one currently draining, per maxBufferSize (reusing Buffered's own buffer
// capacity config as the lookahead bound).
func (mt *MultiTransform[T]) queueRoom() bool {
	if math.IsInf(mt.maxBufferSize, 1) {
		return true
	}
	return float64(len(mt.queue)) < mt.maxBufferSize
}

// fillQueue reads ahead from source, creating a transformer for each item,
// until the queue is full or source has nothing more to give right now.
func (mt *MultiTransform[T]) fillQueue() {
	for mt.queueRoom() && !mt.sourceExhausted {
		v, ok := mt.source.Read()
		if !ok {
			if mt.sourceDone() {
				mt.sourceExhausted = true
			}
			return
		}
		mt.enqueue(v)
	}
}

func (mt *MultiTransform[T]) enqueue(item T) {
	t := mt.createTransformer(item)
	e := &mtEntry[T]{it: t, original: item}
	e.readableID = t.On("readable", func(...any) { mt.fillBuffer() })
	e.errorID = t.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		mt.Emit("error", err)
	})
	mt.queue = append(mt.queue, e)
}

func (mt *MultiTransform[T]) detachEntry(e *mtEntry[T]) {
	e.it.Off("readable", e.readableID)
	e.it.Off("error", e.errorID)
}
