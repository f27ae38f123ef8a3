package memview

import (
	"sync/atomic"
	"unsafe"
)

// AtomicElement is the subset of Element with a hardware atomic counterpart
// of identical bit width: 32- and 64-bit integers map to themselves, floats
// map to the equal-width unsigned integer (atomics operate on the integer
// representation).
type AtomicElement interface {
	~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// AtomicView is the same window as a View, reinterpreted for atomic access.
// Suitable for memories shared between threads.
//
// 64-bit element windows must be 8-byte aligned; linear memories always are,
// since element offsets are multiples of the element size from a page-aligned
// base.
type AtomicView[T AtomicElement] struct {
	ptr    unsafe.Pointer
	length int
}

// Atomically reinterprets a view as atomic. The pointer and length are
// unchanged; no memory is copied or moved.
func Atomically[T AtomicElement](v View[T]) AtomicView[T] {
	return AtomicView[T]{ptr: v.ptr, length: v.length}
}

// NonAtomically converts back to the non-atomic view over the same window.
func (a AtomicView[T]) NonAtomically() View[T] {
	return View[T]{ptr: a.ptr, length: a.length}
}

// Len returns the number of elements in the view.
func (a AtomicView[T]) Len() int { return a.length }

// Load atomically reads the element at index i.
func (a AtomicView[T]) Load(i int) T {
	p := a.at(i)
	if is64[T]() {
		bits := atomic.LoadUint64((*uint64)(p))
		return *(*T)(unsafe.Pointer(&bits))
	}
	bits := atomic.LoadUint32((*uint32)(p))
	return *(*T)(unsafe.Pointer(&bits))
}

// Store atomically writes the element at index i.
func (a AtomicView[T]) Store(i int, val T) {
	p := a.at(i)
	if is64[T]() {
		atomic.StoreUint64((*uint64)(p), *(*uint64)(unsafe.Pointer(&val)))
		return
	}
	atomic.StoreUint32((*uint32)(p), *(*uint32)(unsafe.Pointer(&val)))
}

// Swap atomically replaces the element at index i and returns the old value.
func (a AtomicView[T]) Swap(i int, val T) T {
	p := a.at(i)
	if is64[T]() {
		old := atomic.SwapUint64((*uint64)(p), *(*uint64)(unsafe.Pointer(&val)))
		return *(*T)(unsafe.Pointer(&old))
	}
	old := atomic.SwapUint32((*uint32)(p), *(*uint32)(unsafe.Pointer(&val)))
	return *(*T)(unsafe.Pointer(&old))
}

// CompareAndSwap atomically replaces the element at index i with new if it
// currently holds old, comparing bit patterns. It reports whether the swap
// happened.
func (a AtomicView[T]) CompareAndSwap(i int, old, new T) bool {
	p := a.at(i)
	if is64[T]() {
		return atomic.CompareAndSwapUint64((*uint64)(p),
			*(*uint64)(unsafe.Pointer(&old)), *(*uint64)(unsafe.Pointer(&new)))
	}
	return atomic.CompareAndSwapUint32((*uint32)(p),
		*(*uint32)(unsafe.Pointer(&old)), *(*uint32)(unsafe.Pointer(&new)))
}

// Add atomically adds delta to the element at index i and returns the new
// value. Implemented as a compare-and-swap loop so float addition is real
// float addition, not integer addition of bit patterns.
func (a AtomicView[T]) Add(i int, delta T) T {
	for {
		old := a.Load(i)
		new := old + delta
		if a.CompareAndSwap(i, old, new) {
			return new
		}
	}
}

func (a AtomicView[T]) at(i int) unsafe.Pointer {
	if i < 0 || i >= a.length {
		panic("memview: index out of range")
	}
	var zero T
	return unsafe.Add(a.ptr, uintptr(i)*unsafe.Sizeof(zero))
}

func is64[T AtomicElement]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 8
}
