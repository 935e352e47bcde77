package ecs

// ID is an opaque 64-bit identifier. The zero value is invalid; valid IDs
// are dense, starting at 1, and are recycled in FIFO order after release.
type ID uint64

// InvalidID is the reserved identifier that is never issued.
const InvalidID ID = 0

// IsValid reports whether the identifier was actually issued.
func (id ID) IsValid() bool {
	return id != InvalidID
}

// idAllocator mints dense identifiers with a FIFO free list. Each manager
// that issues IDs embeds its own allocator; the ID spaces are independent.
type idAllocator struct {
	maxID uint64
	free  []ID
}

// next returns a recycled identifier if one is queued, else bumps the
// high-water mark. Never returns InvalidID.
func (a *idAllocator) next() ID {
	if len(a.free) > 0 {
		id := a.free[0]
		a.free = a.free[1:]
		return id
	}
	a.maxID++
	return ID(a.maxID)
}

// release queues an identifier for reuse.
func (a *idAllocator) release(id ID) {
	if !id.IsValid() {
		return
	}
	a.free = append(a.free, id)
}
