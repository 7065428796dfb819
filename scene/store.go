package scene

import (
	"iter"

	"github.com/kamstrup/intmap"
)

// EntityStore is the ordered collection of entities in a scene.
// Lookups by id go through an index cache that is dropped on every
// structural change and rebuilt on the next lookup.
type EntityStore struct {
	entities []*Entity
	index    *intmap.Map[EntityId, int]
	ids      *IdAllocator
	rebuilds int
}

// NewEntityStore creates an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{
		entities: make([]*Entity, 0),
		ids:      NewIdAllocator(0),
	}
}

// NewEntityStoreFrom creates a store holding entities in the given order.
// Entities that already carry an id keep it and the allocator continues
// from the highest one; the rest get fresh ids.
func NewEntityStoreFrom(entities ...*Entity) (*EntityStore, error) {
	s := NewEntityStore()
	seen := make(map[EntityId]bool, len(entities))
	for _, e := range entities {
		if e.id == 0 {
			continue
		}
		if seen[e.id] {
			return nil, &EntityError{Id: e.id, Err: ErrDuplicateEntity}
		}
		seen[e.id] = true
		s.ids.Observe(e.id)
	}
	for _, e := range entities {
		if e.id == 0 {
			e.id = s.ids.Next()
		}
		s.entities = append(s.entities, e)
	}
	return s, nil
}

// Ids returns the allocator owned by this store.
func (s *EntityStore) Ids() *IdAllocator {
	return s.ids
}

// Add appends an entity and returns its id.
func (s *EntityStore) Add(e *Entity) EntityId {
	return s.Insert(len(s.entities), e)
}

// Insert places an entity at pos (clamped to the store bounds) and returns its id.
// An entity keeps a previously assigned id; adding one whose id is already
// live panics.
func (s *EntityStore) Insert(pos int, e *Entity) EntityId {
	if e == nil {
		panic("cannot add a nil entity")
	}
	if e.id != 0 {
		if _, live := s.IndexOf(e.id); live {
			panic(ErrDuplicateEntity.Error())
		}
		s.ids.Observe(e.id)
	} else {
		e.id = s.ids.Next()
	}

	if pos < 0 {
		pos = 0
	}
	if pos > len(s.entities) {
		pos = len(s.entities)
	}
	s.entities = append(s.entities, nil)
	copy(s.entities[pos+1:], s.entities[pos:])
	s.entities[pos] = e
	s.invalidate()
	return e.id
}

// Remove deletes the entity with the given id. Children of the removed
// entity lose their parent link. Returns false if the id is not live.
func (s *EntityStore) Remove(id EntityId) bool {
	i, ok := s.IndexOf(id)
	if !ok {
		return false
	}
	s.entities = append(s.entities[:i], s.entities[i+1:]...)
	for _, e := range s.entities {
		if e.Parent == id {
			e.Parent = 0
		}
	}
	s.invalidate()
	return true
}

// Move changes the position of an entity in store order.
func (s *EntityStore) Move(id EntityId, pos int) bool {
	i, ok := s.IndexOf(id)
	if !ok {
		return false
	}
	e := s.entities[i]
	s.entities = append(s.entities[:i], s.entities[i+1:]...)
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.entities) {
		pos = len(s.entities)
	}
	s.entities = append(s.entities, nil)
	copy(s.entities[pos+1:], s.entities[pos:])
	s.entities[pos] = e
	s.invalidate()
	return true
}

// IndexOf returns the current position of the entity with the given id.
// It returns (-1, false) for ids that are not in the store.
func (s *EntityStore) IndexOf(id EntityId) (int, bool) {
	if id == 0 {
		return -1, false
	}
	if s.index == nil {
		s.rebuild()
	}
	i, ok := s.index.Get(id)
	if !ok {
		return -1, false
	}
	return i, true
}

// Get returns the entity at position i.
func (s *EntityStore) Get(i int) *Entity {
	return s.entities[i]
}

// Lookup returns the entity with the given id.
func (s *EntityStore) Lookup(id EntityId) (*Entity, bool) {
	i, ok := s.IndexOf(id)
	if !ok {
		return nil, false
	}
	return s.entities[i], true
}

// Require is Lookup for callers that treat a missing id as an error.
func (s *EntityStore) Require(id EntityId) (*Entity, error) {
	e, ok := s.Lookup(id)
	if !ok {
		return nil, &EntityError{Id: id, Err: ErrUnknownEntity}
	}
	return e, nil
}

func (s *EntityStore) Len() int {
	return len(s.entities)
}

// All iterates entities in store order.
func (s *EntityStore) All() iter.Seq2[int, *Entity] {
	return func(yield func(int, *Entity) bool) {
		for i, e := range s.entities {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Children returns the entities whose parent is id, in store order.
func (s *EntityStore) Children(id EntityId) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Parent == id {
			out = append(out, e)
		}
	}
	return out
}

// IndexRebuilds reports how many times the index cache has been rebuilt.
func (s *EntityStore) IndexRebuilds() int {
	return s.rebuilds
}

func (s *EntityStore) invalidate() {
	s.index = nil
}

func (s *EntityStore) rebuild() {
	s.index = intmap.New[EntityId, int](len(s.entities))
	for i, e := range s.entities {
		s.index.Put(e.id, i)
	}
	s.rebuilds++
}
