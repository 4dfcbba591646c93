package asynciter

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterLogger_DropsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(LevelWarn, &buf)
	l.Log(LevelDebug, "cat", "should be dropped", nil)
	if buf.Len() != 0 {
		t.Fatalf("Debug entry should be dropped at LevelWarn, got %q", buf.String())
	}
	l.Log(LevelWarn, "cat", "should appear", nil)
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("Warn entry should be written, got %q", buf.String())
	}
}

func TestSetLogger_NilRestoresNoOp(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewWriterLogger(LevelDebug, &buf))
	t.Cleanup(func() { SetLogger(nil) })
	logDebug("cat", "hello", nil)
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("installed logger should receive the log call, got %q", buf.String())
	}
	SetLogger(nil)
	buf.Reset()
	logDebug("cat", "should not appear anywhere", nil)
	if buf.Len() != 0 {
		t.Fatal("SetLogger(nil) should restore the no-op logger")
	}
}

func TestLogLevel_String(t *testing.T) {
	cases := map[LogLevel]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", level, got, want)
		}
	}
}
