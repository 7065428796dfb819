package scene

// IdAllocator hands out entity ids. Ids only grow, so an id is never
// reused, even after its entity is removed.
type IdAllocator struct {
	last EntityId
}

// NewIdAllocator creates an allocator whose next id is maxSeen+1.
func NewIdAllocator(maxSeen EntityId) *IdAllocator {
	return &IdAllocator{last: maxSeen}
}

// Next reserves and returns a fresh id.
func (a *IdAllocator) Next() EntityId {
	a.last++
	return a.last
}

// Observe records an id assigned elsewhere, e.g. while loading a scene.
func (a *IdAllocator) Observe(id EntityId) {
	if id > a.last {
		a.last = id
	}
}

// Last returns the highest id handed out or observed so far.
func (a *IdAllocator) Last() EntityId {
	return a.last
}
