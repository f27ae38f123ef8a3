package ref

import "sync"

// Raw is the boundary representation of a reference: a small integer handle.
// Zero is the null reference for both funcref and externref.
type Raw uint32

// rawTable maps raw handles to their host-side objects. Handles start at 1;
// zero stays reserved for null. Free slots are recycled.
type rawTable struct {
	entries  []any
	freeList []Raw
	mu       sync.RWMutex
}

func (t *rawTable) insert(v any) Raw {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = v
		return h
	}

	t.entries = append(t.entries, v)
	return Raw(len(t.entries))
}

func (t *rawTable) get(h Raw) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || t.entries[idx] == nil {
		return nil, false
	}
	return t.entries[idx], true
}

func (t *rawTable) remove(h Raw) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || t.entries[idx] == nil {
		return nil, false
	}

	v := t.entries[idx]
	t.entries[idx] = nil
	t.freeList = append(t.freeList, h)
	return v, true
}

// The process-wide tables. Raw handles are only meaningful within one
// process, which matches their lifetime: they never outlive the instance
// that produced them.
var (
	funcRefs   rawTable
	externRefs rawTable
)
