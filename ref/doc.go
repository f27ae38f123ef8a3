// Package ref implements the reference-type values that cross the guest/host
// boundary: FuncRef (a nullable reference to a callable function) and
// ExternRef (a nullable, reference-counted, type-erased reference to a
// host-owned value).
//
// Both kinds have a raw form, a small integer handle, which is what guest
// code actually sees and stores in tables, globals, and locals. ToRaw and
// FromRaw convert between handles and raw form through a process-wide table;
// null converts to the zero raw value in both directions, so nullity is
// preserved exactly across any number of boundary crossings.
//
// ExternRef keeps its wrapped value alive by reference counting: every live
// handle, host- or guest-held, holds one reference. Downcast recovers the
// typed value and succeeds only on an exact dynamic type match.
package ref
