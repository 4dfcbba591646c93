package asynciter

import "testing"

func TestEmitter_OnAndEmit(t *testing.T) {
	e := NewEmitter()
	var got []any
	e.On("greet", func(args ...any) { got = append(got, args...) })
	e.Emit("greet", "hello", 42)
	if len(got) != 2 || got[0] != "hello" || got[1] != 42 {
		t.Fatalf("got = %v, want [hello 42]", got)
	}
}

func TestEmitter_Off(t *testing.T) {
	e := NewEmitter()
	calls := 0
	id := e.On("tick", func(...any) { calls++ })
	e.Emit("tick")
	if !e.Off("tick", id) {
		t.Fatal("Off should report true for a live listener")
	}
	e.Emit("tick")
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if e.Off("tick", id) {
		t.Fatal("Off should report false the second time")
	}
}

func TestEmitter_Once(t *testing.T) {
	e := NewEmitter()
	calls := 0
	e.Once("tick", func(...any) { calls++ })
	e.Emit("tick")
	e.Emit("tick")
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (Once should only fire once)", calls)
	}
	if e.ListenerCount("tick") != 0 {
		t.Fatalf("ListenerCount = %d, want 0 after the once listener fired", e.ListenerCount("tick"))
	}
}

func TestEmitter_NewListenerMeta(t *testing.T) {
	e := NewEmitter()
	var observed []string
	e.On("newListener", func(args ...any) {
		if len(args) > 0 {
			if name, ok := args[0].(string); ok {
				observed = append(observed, name)
			}
		}
	})
	e.On("data", func(...any) {})
	e.On("end", func(...any) {})
	if len(observed) != 2 || observed[0] != "data" || observed[1] != "end" {
		t.Fatalf("observed = %v, want [data end]", observed)
	}
}

func TestEmitter_RemoveAll(t *testing.T) {
	e := NewEmitter()
	e.On("a", func(...any) {})
	e.On("b", func(...any) {})
	e.RemoveAll()
	if e.ListenerCount("a") != 0 || e.ListenerCount("b") != 0 {
		t.Fatal("RemoveAll should clear every event's listeners")
	}
}
