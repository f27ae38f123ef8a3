// Package memview provides typed, bounds-described views over a guest's raw
// linear memory.
//
// A View is a window (pointer + element count) into memory owned elsewhere,
// typically handed out by the memory subsystem after it has validated the
// region against the guest's current memory size. Views do not own, resize,
// or relocate the region.
//
// Non-atomic views have shared-mutable cell semantics: any number of readers
// and writers may access elements without locking, matching the semantics of
// non-shared wasm memories. Races between guest and host on the same cell
// are a guest-program correctness concern, not something the view prevents.
//
// For memories declared shared between threads, Atomically reinterprets the
// same window as an AtomicView with genuine hardware atomicity. The
// conversion is zero-copy in both directions.
package memview
