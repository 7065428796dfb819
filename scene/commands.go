package scene

// Commands provides a buffer for structural scene edits that are applied
// between evaluation runs. This prevents the entity list from changing
// while a run holds per-index bookkeeping.
type Commands struct {
	inserts []insertCommand
	removes []EntityId
	moves   []moveCommand
	tracks  []trackCommand
	defers  []deferCommand
}

func NewCommands() *Commands {
	return &Commands{}
}

type insertCommand struct {
	entity *Entity
	pos    int
}

type moveCommand struct {
	entity EntityId
	pos    int
}

type trackCommand struct {
	entity EntityId
	track  Track
}

type deferCommand struct {
	fn func()
}

// Add queues an entity to be appended to the store.
func (c *Commands) Add(e *Entity) {
	c.inserts = append(c.inserts, insertCommand{entity: e, pos: -1})
}

// Insert queues an entity to be inserted at pos.
func (c *Commands) Insert(pos int, e *Entity) {
	c.inserts = append(c.inserts, insertCommand{entity: e, pos: pos})
}

// Remove queues an entity removal.
func (c *Commands) Remove(id EntityId) {
	c.removes = append(c.removes, id)
}

// Move queues a change of store position.
func (c *Commands) Move(id EntityId, pos int) {
	c.moves = append(c.moves, moveCommand{entity: id, pos: pos})
}

// AddTrack queues a track to be appended to an entity's track list.
func (c *Commands) AddTrack(id EntityId, track Track) {
	c.tracks = append(c.tracks, trackCommand{entity: id, track: track})
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.inserts) + len(c.removes) + len(c.moves) + len(c.tracks) + len(c.defers)
}

// Flush applies all queued commands to the store, resetting the buffer state.
// Removals run first; track and move commands aimed at removed entities are dropped.
// Inserting an entity that is already in the store is skipped. Commands queued
// by deferred functions stay buffered for the next flush.
func (c *Commands) Flush(store *EntityStore) {
	inserts, removes, moves, tracks, defers := c.inserts, c.removes, c.moves, c.tracks, c.defers
	c.inserts, c.removes, c.moves, c.tracks, c.defers = nil, nil, nil, nil, nil

	removed := make(map[EntityId]bool)

	for _, id := range removes {
		if store.Remove(id) {
			removed[id] = true
		}
	}

	for _, cmd := range tracks {
		if removed[cmd.entity] {
			continue
		}
		if e, ok := store.Lookup(cmd.entity); ok {
			e.AddTrack(cmd.track)
		}
	}

	for _, cmd := range moves {
		if !removed[cmd.entity] {
			store.Move(cmd.entity, cmd.pos)
		}
	}

	for _, cmd := range inserts {
		if cmd.entity == nil {
			continue
		}
		if _, live := store.IndexOf(cmd.entity.Id()); live {
			continue
		}
		if cmd.pos < 0 {
			store.Add(cmd.entity)
		} else {
			store.Insert(cmd.pos, cmd.entity)
		}
	}

	for _, df := range defers {
		df.fn()
	}
}
