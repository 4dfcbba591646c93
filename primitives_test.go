package asynciter

import (
	"context"
	"testing"
)

func TestEmpty_IsImmediatelyDone(t *testing.T) {
	it := Empty[int]()
	if !it.Done() {
		t.Fatal("Empty() should be Done() immediately")
	}
	if _, ok := it.Read(); ok {
		t.Fatal("Empty() should never yield an item")
	}
}

func TestSingle_HasTrue_YieldsOnceThenCloses(t *testing.T) {
	it := Single[string]("x", true)
	v, ok := it.Read()
	if !ok || v != "x" {
		t.Fatalf("Read() = (%q, %v), want (\"x\", true)", v, ok)
	}
	if _, ok := it.Read(); ok {
		t.Fatal("second Read() should report false")
	}
}

func TestSingle_HasFalse_DoneImmediately(t *testing.T) {
	it := Single[int](0, false)
	if !it.Done() {
		t.Fatal("Single(none).Done() should be true immediately")
	}
}

func TestFromArray_ReadsInOrderThenEnds(t *testing.T) {
	it := FromArray([]int{1, 2, 3})
	for _, want := range []int{1, 2, 3} {
		v, ok := it.Read()
		if !ok || v != want {
			t.Fatalf("Read() = (%d, %v), want (%d, true)", v, ok, want)
		}
	}
	if _, ok := it.Read(); ok {
		t.Fatal("Read() past the end should report false")
	}
}

func TestFromArray_Empty_AutoStartCloses(t *testing.T) {
	ms := withManualScheduler(t)
	it := FromArray[int](nil)
	if !it.Closed() {
		t.Fatal("FromArray(nil) with default autoStart should be Closed() immediately")
	}
	ms.Flush()
	if !it.Done() {
		t.Fatal("FromArray(nil) with default autoStart should be Done() once the scheduler flushes")
	}
}

func TestFromArray_Preserve_DoesNotMutateCaller(t *testing.T) {
	src := []int{1, 2, 3}
	it := FromArray(src, WithArrayPreserve(true))
	it.Read()
	if src[0] != 1 {
		t.Fatal("preserve=true should copy the slice, not adopt it")
	}
}

func TestFromArray_ToArray_ReturnsUnreadTailDirectly(t *testing.T) {
	it := FromArray([]int{1, 2, 3, 4})
	it.Read() // consume 1
	rest, err := it.ToArray(context.Background(), 0)
	if err != nil {
		t.Fatalf("ToArray err = %v", err)
	}
	if len(rest) != 3 || rest[0] != 2 || rest[1] != 3 || rest[2] != 4 {
		t.Fatalf("rest = %v, want [2 3 4]", rest)
	}
}

func TestIntRange_ZeroZero_YieldsZeroOnly(t *testing.T) {
	it := IntRange(0, 0)
	v, ok := it.Read()
	if !ok || v != 0 {
		t.Fatalf("Read() = (%d, %v), want (0, true)", v, ok)
	}
	if _, ok := it.Read(); ok {
		t.Fatal("range(0,0) should yield exactly one item")
	}
}

func TestIntRange_DescendingBoundsEmpty(t *testing.T) {
	it := IntRange(5, 1)
	if _, ok := it.Read(); ok {
		t.Fatal("range(5,1) with default ascending step should be empty")
	}
}

func TestIntRange_NegativeStepPastEndEmpty(t *testing.T) {
	it := IntRange(1, 5, -1)
	if _, ok := it.Read(); ok {
		t.Fatal("range(1,5,-1) should be empty")
	}
}

func TestIntRange_NegativeStepCountsDown(t *testing.T) {
	it := IntRange(5, 1, -1)
	var got []int64
	for {
		v, ok := it.Read()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []int64{5, 4, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got = %v, want %v", got, want)
		}
	}
}
