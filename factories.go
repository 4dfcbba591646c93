// §6 thin constructors: the handful of factories that don't need their own
// file. wrap/fromArray live in wrap.go and primitives.go respectively;
// FromIterator and FromIterable are named here to match spec.md §6's
// vocabulary even though they're aliases over what wrap.go already built.

package asynciter

// FromIterator is the §6 "iterator passthrough" factory: source is already
// this package's own Iterator[T], so it's returned unchanged.
func FromIterator[T any](source Iterator[T]) Iterator[T] { return source }

// FromIterable adapts a Go channel — this package's analogue of "whatever
// the host language already uses for async sequences" (spec.md §6) — into
// an Iterator[T].
func FromIterable[T any](ch <-chan T) Iterator[T] { return WrapChannel[T](ch) }
