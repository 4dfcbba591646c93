// Package asynciter provides an asynchronous pull-based iterator framework
// for composing object pipelines.
//
// The central abstraction is the async iterator: an object that produces a
// finite or unbounded sequence of values of a uniform element type, via
// either on-demand pulls ([Iterator.Read]) or a push-style "flow mode" that
// activates automatically the moment a "data" listener is registered.
//
// # Architecture
//
// [BaseIterator] implements the lifecycle state machine, property store, and
// dual-mode (pull/push) emission shared by every iterator in this package.
// Concrete iterators embed it and supply behavior via function-field hooks
// (readFn, beginHook, flushHook, transformFn, ...) rather than subclassing —
// the same struct-of-hooks shape the teacher package uses for its test
// injection points.
//
// [Buffered] adds an internal FIFO buffer, demand-driven refill, and a
// single-flight read lock on top of BaseIterator, matching the producer
// side of the transform, union, future, and channel iterators.
//
// # Scheduling
//
// All asynchrony in this package is expressed by posting continuations to a
// [Scheduler] rather than by blocking; the default scheduler runs tasks on a
// dedicated goroutine in FIFO order, analogous to a JavaScript microtask
// queue. Swap it with [SetTaskScheduler] for deterministic tests.
//
// # Usage
//
//	it := FromArray([]int{1, 2, 3})
//	squares := Map(it, func(x int) (int, bool) { return x * x, true })
//	out, err := squares.ToArray(context.Background(), 0)
package asynciter
