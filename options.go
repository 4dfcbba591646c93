// Functional-options plumbing for Buffered-based constructors (newBuffered
// and newTransform take them; NewMultiTransform is the exported constructor
// that accepts them, while NewSimpleTransform and the Union constructors use
// the defaults), grounded on eventloop/options.go's LoopOption /
// loopOptionImpl / resolveLoopOptions shape.

package asynciter

import "math"

// bufferedOptions holds the configuration resolved for a Buffered iterator.
type bufferedOptions struct {
	maxBufferSize float64 // may be +Inf; see normalizeMaxBufferSize
	autoStart     bool
}

// BufferedOption configures a Buffered iterator at construction.
type BufferedOption interface {
	applyBuffered(*bufferedOptions)
}

type bufferedOptionFunc func(*bufferedOptions)

func (f bufferedOptionFunc) applyBuffered(o *bufferedOptions) { f(o) }

// WithMaxBufferSize sets the buffer's capacity. Per spec.md §3: non-finite
// non-infinite values coerce to 4, values below 1 coerce to 1, +Inf is kept
// as-is.
func WithMaxBufferSize(n float64) BufferedOption {
	return bufferedOptionFunc(func(o *bufferedOptions) {
		o.maxBufferSize = normalizeMaxBufferSize(n)
	})
}

// WithAutoStart controls whether the buffer begins filling immediately
// after _begin completes (true, the default) or waits for the first
// consumer-triggered read.
func WithAutoStart(autoStart bool) BufferedOption {
	return bufferedOptionFunc(func(o *bufferedOptions) { o.autoStart = autoStart })
}

func resolveBufferedOptions(opts []BufferedOption) *bufferedOptions {
	cfg := &bufferedOptions{maxBufferSize: 4, autoStart: true}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyBuffered(cfg)
	}
	return cfg
}

func normalizeMaxBufferSize(n float64) float64 {
	switch {
	case math.IsInf(n, 1):
		return n
	case math.IsNaN(n) || math.IsInf(n, -1):
		return 4
	case n < 1:
		return 1
	default:
		return n
	}
}
