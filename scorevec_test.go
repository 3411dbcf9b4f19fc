package swipe

import "testing"

func TestVector16BiasRoundTrip(t *testing.T) {
	zero := Broadcast16(ZeroScore16)
	delta := Vector16FromInts([]int{5, -3, 0, 10, 100, -100, 1, 2})
	sum := zero.Add(delta)

	got := make([]int, Channels16)
	sum.Store(got)

	want := []int{5, -3, 0, 10, 100, -100, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lane %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestVector16Max(t *testing.T) {
	zero := Broadcast16(ZeroScore16)
	a := zero.Add(Vector16FromInts([]int{1, 2, 3, 4, 5, 6, 7, 8}))
	b := zero.Add(Vector16FromInts([]int{8, 7, 6, 5, 4, 3, 2, 1}))
	m := a.Max(b)
	got := make([]int, Channels16)
	m.Store(got)
	for i, v := range got {
		want := i + 1
		if v > want {
			want = Channels16 - i
		}
		if v != want {
			t.Errorf("lane %d = %d, want %d", i, v, want)
		}
	}
}

func TestVector16SaturatesAtCeiling(t *testing.T) {
	hi := Broadcast16(maxInt16 - 1)
	one := Vector16FromInts([]int{10, 10, 10, 10, 10, 10, 10, 10})
	sum := hi.Add(one)
	got := make([]int, Channels16)
	sum.Store(got)
	for _, v := range got {
		if v != maxInt16-ZeroScore16 {
			t.Errorf("lane did not saturate: got %d", v)
		}
	}
}

func TestVector32ScalarArithmetic(t *testing.T) {
	a := Broadcast32(100)
	b := Vector32FromInts([]int{25})
	sum := a.Add(b)
	got := make([]int, 1)
	sum.Store(got)
	if got[0] != 125 {
		t.Errorf("Vector32 sum = %d, want 125", got[0])
	}

	diff := a.Sub(b)
	diff.Store(got)
	if got[0] != 75 {
		t.Errorf("Vector32 diff = %d, want 75", got[0])
	}
}
