package memview

import "unsafe"

// Element is the set of types a linear memory window can be viewed as.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// View is a non-owning, non-atomic window over guest linear memory.
//
// The caller constructing a View is responsible for the region described by
// ptr and length staying valid and in-bounds for the view's lifetime; the
// view itself only bounds-checks element indices against length.
type View[T Element] struct {
	ptr    unsafe.Pointer
	length int
}

// New constructs a view over length elements of type T starting at ptr.
func New[T Element](ptr unsafe.Pointer, length uint32) View[T] {
	return View[T]{ptr: ptr, length: int(length)}
}

// FromBytes constructs a view over a byte window, truncating any trailing
// bytes that do not fill a whole element. The window must be a live slice of
// the guest's memory buffer, not a copy.
func FromBytes[T Element](buf []byte) View[T] {
	var zero T
	n := len(buf) / int(unsafe.Sizeof(zero))
	if n == 0 {
		return View[T]{}
	}
	return View[T]{ptr: unsafe.Pointer(unsafe.SliceData(buf)), length: n}
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int { return v.length }

// Get reads the element at index i. It panics if i is out of range, matching
// slice indexing.
func (v View[T]) Get(i int) T {
	return *v.at(i)
}

// Set writes the element at index i. It panics if i is out of range.
func (v View[T]) Set(i int, val T) {
	*v.at(i) = val
}

// Slice returns the window as a plain slice sharing the same memory.
func (v View[T]) Slice() []T {
	if v.length == 0 {
		return nil
	}
	return unsafe.Slice((*T)(v.ptr), v.length)
}

func (v View[T]) at(i int) *T {
	if i < 0 || i >= v.length {
		panic("memview: index out of range")
	}
	var zero T
	return (*T)(unsafe.Add(v.ptr, uintptr(i)*unsafe.Sizeof(zero)))
}
