package scene_test

import (
	"testing"

	"github.com/plus3/tween/geom"
	"github.com/plus3/tween/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeOrder(store *scene.EntityStore) []string {
	var names []string
	for _, e := range store.All() {
		names = append(names, e.Name)
	}
	return names
}

func TestCommandsDeferUntilFlush(t *testing.T) {
	store := scene.NewEntityStore()
	store.Add(scene.NewEntity("a", geom.NewCoords()))

	cmds := scene.NewCommands()
	cmds.Add(scene.NewEntity("b", geom.NewCoords()))
	cmds.Insert(0, scene.NewEntity("first", geom.NewCoords()))
	assert.Equal(t, 2, cmds.Len())
	assert.Equal(t, 1, store.Len(), "nothing changes before a flush")

	cmds.Flush(store)
	assert.Equal(t, []string{"first", "a", "b"}, storeOrder(store))
	assert.Equal(t, 0, cmds.Len())
}

func TestCommandsFlushOrder(t *testing.T) {
	store := scene.NewEntityStore()
	a := store.Add(scene.NewEntity("a", geom.NewCoords()))
	b := store.Add(scene.NewEntity("b", geom.NewCoords()))
	c := store.Add(scene.NewEntity("c", geom.NewCoords()))

	var deferred []int
	cmds := scene.NewCommands()
	cmds.Defer(func() { deferred = append(deferred, store.Len()) })
	cmds.AddTrack(b, scene.NewNullTrack("dropped"))
	cmds.Move(b, 0)
	cmds.AddTrack(c, scene.NewNullTrack("kept"))
	cmds.Move(c, 0)
	cmds.Remove(b)
	cmds.Add(scene.NewEntity("d", geom.NewCoords()))

	cmds.Flush(store)

	assert.Equal(t, []string{"c", "a", "d"}, storeOrder(store))
	_, ok := store.IndexOf(b)
	assert.False(t, ok)

	e, ok := store.Lookup(c)
	require.True(t, ok)
	_, ok = e.Track("kept")
	assert.True(t, ok)

	assert.Equal(t, []int{3}, deferred, "deferred functions run after structural edits")
	_, ok = store.IndexOf(a)
	assert.True(t, ok)
}

func TestCommandsUnknownTargets(t *testing.T) {
	store := scene.NewEntityStore()
	store.Add(scene.NewEntity("a", geom.NewCoords()))

	cmds := scene.NewCommands()
	cmds.Remove(42)
	cmds.Move(42, 0)
	cmds.AddTrack(42, scene.NewNullTrack("n"))

	assert.NotPanics(t, func() { cmds.Flush(store) })
	assert.Equal(t, []string{"a"}, storeOrder(store))
}

func TestCommandsSkipDuplicateInserts(t *testing.T) {
	store := scene.NewEntityStore()
	live := scene.NewEntity("live", geom.NewCoords())
	store.Add(live)

	twice := scene.NewEntity("twice", geom.NewCoords())
	cmds := scene.NewCommands()
	cmds.Add(twice)
	cmds.Add(twice)
	cmds.Insert(0, live)

	assert.NotPanics(t, func() { cmds.Flush(store) })
	assert.Equal(t, []string{"live", "twice"}, storeOrder(store))
}

func TestCommandsQueuedDuringFlush(t *testing.T) {
	store := scene.NewEntityStore()
	cmds := scene.NewCommands()
	cmds.Defer(func() {
		cmds.Add(scene.NewEntity("late", geom.NewCoords()))
	})

	cmds.Flush(store)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, cmds.Len(), "commands queued while flushing wait for the next flush")

	cmds.Flush(store)
	assert.Equal(t, []string{"late"}, storeOrder(store))
	assert.Equal(t, 0, cmds.Len())
}
