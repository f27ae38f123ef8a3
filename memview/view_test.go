package memview

import (
	"sync"
	"testing"
	"unsafe"
)

func TestView_GetSet(t *testing.T) {
	buf := make([]byte, 16)
	v := FromBytes[int32](buf)

	if v.Len() != 4 {
		t.Fatalf("expected 4 elements, got %d", v.Len())
	}

	v.Set(0, 42)
	v.Set(3, -7)

	if got := v.Get(0); got != 42 {
		t.Errorf("Get(0) = %d, want 42", got)
	}
	if got := v.Get(3); got != -7 {
		t.Errorf("Get(3) = %d, want -7", got)
	}

	// Writes must land in the backing buffer, not a copy.
	if buf[0] != 42 {
		t.Error("Set did not write through to the backing buffer")
	}
}

func TestView_SharedWindow(t *testing.T) {
	buf := make([]byte, 8)
	a := FromBytes[uint32](buf)
	b := FromBytes[uint32](buf)

	a.Set(1, 0xdead)
	if got := b.Get(1); got != 0xdead {
		t.Errorf("second view over same window read %#x, want 0xdead", got)
	}
}

func TestView_OutOfRangePanics(t *testing.T) {
	v := FromBytes[int32](make([]byte, 8))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range index")
		}
	}()
	v.Get(2)
}

func TestView_TruncatesPartialElement(t *testing.T) {
	v := FromBytes[int64](make([]byte, 15))
	if v.Len() != 1 {
		t.Fatalf("expected 1 element over 15 bytes, got %d", v.Len())
	}
}

func TestAtomically_PreservesWindow(t *testing.T) {
	buf := make([]byte, 32)
	v := FromBytes[int32](buf)

	a := Atomically(v)
	back := a.NonAtomically()

	if a.Len() != v.Len() || back.Len() != v.Len() {
		t.Fatalf("length changed: view=%d atomic=%d back=%d", v.Len(), a.Len(), back.Len())
	}

	// Same pointer: a write through one is visible through the others.
	v.Set(0, 7)
	if got := a.Load(0); got != 7 {
		t.Errorf("atomic view read %d, want 7", got)
	}
	a.Store(1, 9)
	if got := back.Get(1); got != 9 {
		t.Errorf("round-tripped view read %d, want 9", got)
	}
}

func TestAtomicView_StoreLoad(t *testing.T) {
	a := Atomically(FromBytes[uint64](make([]byte, 16)))

	a.Store(1, 0xfeed_beef_cafe)
	if got := a.Load(1); got != 0xfeed_beef_cafe {
		t.Errorf("Load = %#x, want 0xfeedbeefcafe", got)
	}
}

func TestAtomicView_Float(t *testing.T) {
	a := Atomically(FromBytes[float64](make([]byte, 8)))

	a.Store(0, 1.5)
	if got := a.Add(0, 2.25); got != 3.75 {
		t.Errorf("Add = %v, want 3.75", got)
	}
	if got := a.Load(0); got != 3.75 {
		t.Errorf("Load = %v, want 3.75", got)
	}
}

func TestAtomicView_Swap(t *testing.T) {
	a := Atomically(FromBytes[int32](make([]byte, 4)))

	a.Store(0, 5)
	if old := a.Swap(0, 11); old != 5 {
		t.Errorf("Swap returned %d, want 5", old)
	}
	if got := a.Load(0); got != 11 {
		t.Errorf("Load after Swap = %d, want 11", got)
	}
}

func TestAtomicView_ConcurrentIncrements(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 1000

	a := Atomically(FromBytes[uint32](make([]byte, 4)))

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				a.Add(0, 1)
			}
		}()
	}
	wg.Wait()

	if got := a.Load(0); got != goroutines*perGoroutine {
		t.Errorf("lost updates: counter = %d, want %d", got, goroutines*perGoroutine)
	}
}

func TestNew_FromRawPointer(t *testing.T) {
	backing := make([]int32, 4)
	v := New[int32](unsafe.Pointer(&backing[0]), 4)

	v.Set(2, 100)
	if backing[2] != 100 {
		t.Error("raw-pointer view did not write through")
	}
}
