// Bridge from this package's Logger interface to github.com/joeycumines/
// logiface, following the exact wiring shown in the teacher's own test
// suite (eventloop/coverage_phase2_test.go, coverage_extra_test.go): a
// minimal Event embedding logiface.UnimplementedEvent, an EventFactory,
// and logiface.New[*event](...).Logger() handed to the consumer.

package asynciter

import (
	"github.com/joeycumines/logiface"
)

// logifaceEvent is the minimal logiface.Event implementation needed to
// carry this package's log fields through to a logiface writer.
type logifaceEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	fields map[string]any
}

func (e *logifaceEvent) Level() logiface.Level { return e.level }

func (e *logifaceEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = make(map[string]any, 4)
	}
	e.fields[key] = val
}

type logifaceEventFactory struct{}

func (logifaceEventFactory) NewEvent(level logiface.Level) *logifaceEvent {
	return &logifaceEvent{level: level}
}

// LogifaceLogger adapts a *logiface.Logger[logiface.Event] (as produced by
// logiface.New[*event](...).Logger()) into this package's Logger interface.
type LogifaceLogger struct {
	logger *logiface.Logger[logiface.Event]
}

// NewLogifaceWriter constructs a LogifaceLogger that writes events via w,
// wiring up the event factory boilerplate logiface requires.
func NewLogifaceWriter(w logiface.Writer[*logifaceEvent]) *LogifaceLogger {
	typed := logiface.New[*logifaceEvent](
		logiface.WithEventFactory[*logifaceEvent](logifaceEventFactory{}),
		logiface.WithWriter[*logifaceEvent](w),
	)
	return &LogifaceLogger{logger: typed.Logger()}
}

func toLogifaceLevel(l LogLevel) logiface.Level {
	switch l {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

func (l *LogifaceLogger) Log(level LogLevel, category, message string, fields map[string]any) {
	if l == nil || l.logger == nil {
		return
	}
	b := l.logger.Build(toLogifaceLevel(level))
	if b == nil {
		return
	}
	b = b.Str("category", category)
	for k, v := range fields {
		b = b.Any(k, v)
	}
	b.Log(message)
}
