package replay

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestBuffer_FIFOEviction(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Add(i)
	}
	if b.Len() != 3 {
		t.Fatalf("len=%d want=3", b.Len())
	}
	got := b.Items()
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items=%v want=%v", got, want)
		}
	}
}

func TestBuffer_NeverExceedsCapacity(t *testing.T) {
	b := New[int](10)
	for i := 0; i < 1000; i++ {
		b.Add(i)
		if b.Len() > b.Cap() {
			t.Fatalf("len=%d exceeds cap=%d", b.Len(), b.Cap())
		}
	}
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	if got := New[string](0).Cap(); got != DefaultCapacity {
		t.Fatalf("cap=%d want=%d", got, DefaultCapacity)
	}
}

func TestSample_SmallBufferReturnsAll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := New[int](100)
	for i := 0; i < 5; i++ {
		b.Add(i)
	}
	for _, n := range []int{5, 32} {
		got := b.Sample(rng, n)
		if len(got) != 5 {
			t.Fatalf("n=%d: len=%d want=5", n, len(got))
		}
		for i, v := range got {
			if v != i {
				t.Fatalf("n=%d: sample=%v want contents in order", n, got)
			}
		}
	}
}

func TestSample_DrawsFromContents(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	b := New[int](50)
	for i := 0; i < 80; i++ {
		b.Add(i)
	}
	got := b.Sample(rng, 32)
	if len(got) != 32 {
		t.Fatalf("len=%d want=32", len(got))
	}
	for _, v := range got {
		if v < 30 || v >= 80 {
			t.Fatalf("sampled evicted item %d", v)
		}
	}
}
