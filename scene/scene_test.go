package scene_test

import (
	"testing"

	"github.com/plus3/tween/geom"
	"github.com/plus3/tween/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneSetTime(t *testing.T) {
	rec := newRecorder()
	s := scene.NewScene(rec)

	ball := scene.NewEntity("ball", geom.NewCoords(),
		scene.NewPositionTrack("fall", vecKeys(
			scene.Key(0.0, geom.NewVec3(0, 10, 0)),
			scene.Key(2.0, geom.NewVec3(0, 0, 0)),
		)))
	s.Commands().Add(ball)
	assert.Equal(t, 0, s.Store().Len())

	res, err := s.SetTime(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Time())
	assert.Equal(t, 1, s.Store().Len())
	assert.Equal(t, geom.NewVec3(0, 5, 0), ball.Coords.Origin)
	assert.Equal(t, scene.FullRun, res.Mode)
	assert.Len(t, rec.order, 1)
}

func TestSceneSetTimeWithDuplicateAdd(t *testing.T) {
	s := scene.NewScene(nil)
	ball := scene.NewEntity("ball", geom.NewCoords())
	s.Commands().Add(ball)
	s.Commands().Add(ball)

	var err error
	require.NotPanics(t, func() { _, err = s.SetTime(0) })
	require.NoError(t, err)
	assert.Equal(t, 1, s.Store().Len())
}

func TestSceneEdited(t *testing.T) {
	s := scene.NewScene(nil)
	leader := scene.NewEntity("leader", geom.NewCoords())
	leaderId := s.Store().Add(leader)

	follower := scene.NewEntity("follower", geom.NewCoords(),
		scene.NewProceduralPositionTrack("follow", follow(leaderId, geom.NewVec3(1, 0, 0)), leaderId))
	s.Store().Add(follower)

	_, err := s.SetTime(3)
	require.NoError(t, err)
	assert.Equal(t, geom.NewVec3(1, 0, 0), follower.Coords.Origin)

	leader.Transform().SetOrigin(geom.NewVec3(0, 4, 0))
	res, err := s.Edited(leaderId)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Time)
	assert.Equal(t, geom.NewVec3(1, 4, 0), follower.Coords.Origin)
}

func TestSceneRejectsReentry(t *testing.T) {
	var s *scene.Scene
	var errs []error
	s = scene.NewScene(scene.NotifierFunc(func(int, *scene.Entity) {
		_, err := s.SetTime(9)
		errs = append(errs, err)
		_, err = s.Edited()
		errs = append(errs, err)
	}))
	s.Store().Add(scene.NewEntity("e", geom.NewCoords()))

	_, err := s.SetTime(1)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], scene.ErrReentrant)
	assert.ErrorIs(t, errs[1], scene.ErrReentrant)
	assert.Equal(t, 1.0, s.Time())
}
