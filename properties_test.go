package asynciter

import "testing"

func TestPropertyStore_SetThenGet(t *testing.T) {
	p := newPropertyStore()
	p.set("a", 1)
	v, ok := p.get("a")
	if !ok || v != 1 {
		t.Fatalf("get(a) = (%v, %v), want (1, true)", v, ok)
	}
}

func TestPropertyStore_GetOrAwait_RunsCallbackOnFirstAssignment(t *testing.T) {
	ms := withManualScheduler(t)
	p := newPropertyStore()
	var got any
	v, ok := p.getOrAwait("name", func(v any) { got = v })
	if ok || v != nil {
		t.Fatalf("getOrAwait on an unset name should return (nil, false), got (%v, %v)", v, ok)
	}
	p.set("name", "widget")
	ms.Flush()
	if got != "widget" {
		t.Fatalf("pending callback should run with the assigned value, got %v", got)
	}
}

func TestPropertyStore_GetOrAwait_ReturnsImmediatelyIfAlreadySet(t *testing.T) {
	p := newPropertyStore()
	p.set("name", "widget")
	v, ok := p.getOrAwait("name", func(any) { t.Fatal("callback should not run when value already present") })
	if !ok || v != "widget" {
		t.Fatalf("getOrAwait = (%v, %v), want (\"widget\", true)", v, ok)
	}
}

func TestPropertyStore_SnapshotIsACopy(t *testing.T) {
	p := newPropertyStore()
	p.set("a", 1)
	snap := p.snapshot()
	snap["a"] = 999
	v, _ := p.get("a")
	if v != 1 {
		t.Fatal("mutating the snapshot should not affect the store")
	}
}

func TestPropertyStore_Release_ClearsValuesAndPending(t *testing.T) {
	ms := withManualScheduler(t)
	p := newPropertyStore()
	p.set("a", 1)
	ran := false
	p.getOrAwait("b", func(any) { ran = true })
	p.release()
	if _, ok := p.get("a"); ok {
		t.Fatal("release() should clear existing values")
	}
	p.set("b", 2)
	ms.Flush()
	if ran {
		t.Fatal("release() should drop pending callbacks so they never fire")
	}
}
