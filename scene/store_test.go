package scene_test

import (
	"errors"
	"testing"

	"github.com/plus3/tween/geom"
	"github.com/plus3/tween/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAddAndLookup(t *testing.T) {
	store := scene.NewEntityStore()

	a := scene.NewEntity("a", geom.NewCoords())
	b := scene.NewEntity("b", geom.NewCoords())
	idA := store.Add(a)
	idB := store.Add(b)

	assert.Equal(t, scene.EntityId(1), idA)
	assert.Equal(t, scene.EntityId(2), idB)
	assert.Equal(t, 2, store.Len())

	i, ok := store.IndexOf(idB)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Same(t, b, store.Get(i))

	e, ok := store.Lookup(idA)
	assert.True(t, ok)
	assert.Same(t, a, e)

	i, ok = store.IndexOf(42)
	assert.False(t, ok)
	assert.Equal(t, -1, i)

	_, ok = store.IndexOf(0)
	assert.False(t, ok)

	_, err := store.Require(42)
	assert.ErrorIs(t, err, scene.ErrUnknownEntity)
	got, err := store.Require(idB)
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestStoreIndexCacheInvalidation(t *testing.T) {
	store := scene.NewEntityStore()
	ids := make([]scene.EntityId, 0, 4)
	for range 4 {
		ids = append(ids, store.Add(scene.NewEntity("e", geom.NewCoords())))
	}

	assert.Equal(t, 0, store.IndexRebuilds())

	for _, id := range ids {
		_, ok := store.IndexOf(id)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, store.IndexRebuilds(), "lookups without mutation reuse the cache")

	store.Move(ids[3], 0)
	i, ok := store.IndexOf(ids[3])
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	// Move does a lookup before it mutates, then the next lookup rebuilds again.
	assert.Equal(t, 2, store.IndexRebuilds())

	i, _ = store.IndexOf(ids[0])
	assert.Equal(t, 1, i)
	assert.Equal(t, 2, store.IndexRebuilds())
}

func TestStoreRemove(t *testing.T) {
	store := scene.NewEntityStore()
	parent := scene.NewEntity("parent", geom.NewCoords())
	parentId := store.Add(parent)

	child := scene.NewEntity("child", geom.NewCoords())
	child.Parent = parentId
	childId := store.Add(child)

	assert.Equal(t, []*scene.Entity{child}, store.Children(parentId))

	assert.True(t, store.Remove(parentId))
	assert.False(t, store.Remove(parentId))

	_, ok := store.IndexOf(parentId)
	assert.False(t, ok)
	assert.Equal(t, scene.EntityId(0), child.Parent)

	i, ok := store.IndexOf(childId)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	// Ids are never handed out twice.
	next := store.Add(scene.NewEntity("next", geom.NewCoords()))
	assert.Equal(t, scene.EntityId(3), next)
}

func TestStoreInsertAndMove(t *testing.T) {
	store := scene.NewEntityStore()
	a := store.Add(scene.NewEntity("a", geom.NewCoords()))
	b := store.Add(scene.NewEntity("b", geom.NewCoords()))
	c := store.Insert(1, scene.NewEntity("c", geom.NewCoords()))

	order := func() []scene.EntityId {
		var out []scene.EntityId
		for _, e := range store.All() {
			out = append(out, e.Id())
		}
		return out
	}

	assert.Equal(t, []scene.EntityId{a, c, b}, order())

	assert.True(t, store.Move(a, 10))
	assert.Equal(t, []scene.EntityId{c, b, a}, order())

	assert.True(t, store.Move(b, -5))
	assert.Equal(t, []scene.EntityId{b, c, a}, order())

	assert.False(t, store.Move(99, 0))
}

func TestStoreDuplicateAddPanics(t *testing.T) {
	store := scene.NewEntityStore()
	e := scene.NewEntity("e", geom.NewCoords())
	store.Add(e)

	assert.Panics(t, func() {
		store.Add(e)
	})
	assert.Panics(t, func() {
		store.Add(nil)
	})
}

func TestNewEntityStoreFrom(t *testing.T) {
	t.Run("allocator continues from highest id", func(t *testing.T) {
		store, err := scene.NewEntityStoreFrom(
			scene.RestoreEntity(7, "seven", geom.NewCoords()),
			scene.NewEntity("fresh", geom.NewCoords()),
			scene.RestoreEntity(3, "three", geom.NewCoords()),
		)
		require.NoError(t, err)

		assert.Equal(t, 3, store.Len())
		assert.Equal(t, scene.EntityId(7), store.Get(0).Id())
		assert.Equal(t, scene.EntityId(8), store.Get(1).Id())
		assert.Equal(t, scene.EntityId(3), store.Get(2).Id())
		assert.Equal(t, scene.EntityId(9), store.Add(scene.NewEntity("later", geom.NewCoords())))
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		_, err := scene.NewEntityStoreFrom(
			scene.RestoreEntity(2, "a", geom.NewCoords()),
			scene.RestoreEntity(2, "b", geom.NewCoords()),
		)
		assert.True(t, errors.Is(err, scene.ErrDuplicateEntity))

		var entityErr *scene.EntityError
		require.True(t, errors.As(err, &entityErr))
		assert.Equal(t, scene.EntityId(2), entityErr.Id)
	})
}

func TestIdAllocator(t *testing.T) {
	ids := scene.NewIdAllocator(10)
	assert.Equal(t, scene.EntityId(11), ids.Next())

	ids.Observe(5)
	assert.Equal(t, scene.EntityId(11), ids.Last())

	ids.Observe(20)
	assert.Equal(t, scene.EntityId(21), ids.Next())
}
