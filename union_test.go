package asynciter

import (
	"sort"
	"testing"
)

// drainUntilDone keeps flushing and reading until it has been Done() and has
// stopped yielding further items, bounded so a wiring bug can't hang the test.
func drainUntilDone[T any](t *testing.T, ms *ManualScheduler, it Iterator[T]) []T {
	t.Helper()
	var got []T
	for i := 0; i < 10000; i++ {
		ms.Flush()
		v, ok := it.Read()
		if ok {
			got = append(got, v)
			continue
		}
		if it.Done() {
			return got
		}
	}
	t.Fatal("drainUntilDone: exceeded iteration bound without reaching Done()")
	return got
}

func TestNewUnion_ReadsEverySourceExactlyOnce(t *testing.T) {
	ms := withManualScheduler(t)
	a := FromArray([]int{1, 3, 5})
	b := FromArray([]int{2, 4, 6})
	u := NewUnion[int](a, b)
	got := drainUntilDone(t, ms, u)
	sort.Ints(got)
	want := []int{1, 2, 3, 4, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("got = %v, want set %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got (sorted) = %v, want %v", got, want)
		}
	}
}

func TestNewUnion_EmptyClosesImmediately(t *testing.T) {
	ms := withManualScheduler(t)
	u := NewUnion[int]()
	ms.Flush()
	if !u.Done() {
		t.Fatal("a union of zero sources should close once its constructor runs")
	}
}

func TestNewUnion_AllSourcesEndedClosesUnion(t *testing.T) {
	ms := withManualScheduler(t)
	a := FromArray([]int{1})
	b := FromArray([]int{2})
	u := NewUnion[int](a, b)
	drainUntilDone(t, ms, u)
	if !u.Done() {
		t.Fatal("union should be Done() once every source has ended and its buffer drained")
	}
}

// TestNewUnion_RoundRobinInterleaveMatchesWorkedExample encodes spec.md
// §8's literal union([1,2,3],[10,20]) -> [1,10,2,20,3] example: each pass
// over the live sources must start from the same rotation point, not
// restart it pass-to-pass, so the shorter source's exhaustion doesn't
// disturb the longer source's place in line.
func TestNewUnion_RoundRobinInterleaveMatchesWorkedExample(t *testing.T) {
	ms := withManualScheduler(t)
	a := FromArray([]int{1, 2, 3})
	b := FromArray([]int{10, 20})
	u := NewUnion[int](a, b)
	got := drainUntilDone(t, ms, u)
	want := []int{1, 10, 2, 20, 3}
	if len(got) != len(want) {
		t.Fatalf("got = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got = %v, want %v", got, want)
		}
	}
}

func TestNewUnionOf_ReadsSourcesArrivingDynamically(t *testing.T) {
	ms := withManualScheduler(t)
	sub1 := FromArray([]int{1, 2})
	sub2 := FromArray([]int{3, 4})
	sos := FromArray([]Iterator[int]{sub1, sub2})
	u := NewUnionOf[int](sos)
	got := drainUntilDone(t, ms, u)
	sort.Ints(got)
	want := []int{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got = %v, want set %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got (sorted) = %v, want %v", got, want)
		}
	}
}

func TestNewUnionOf_ClosesOnceSourceOfSourcesAndAllChildrenEnd(t *testing.T) {
	ms := withManualScheduler(t)
	sos := FromArray([]Iterator[int]{FromArray([]int{1})})
	u := NewUnionOf[int](sos)
	drainUntilDone(t, ms, u)
	if !u.Done() {
		t.Fatal("NewUnionOf should be Done() once sourceOfSources and every source it produced have ended")
	}
}
