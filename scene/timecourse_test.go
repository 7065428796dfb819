package scene_test

import (
	"testing"

	"github.com/plus3/tween/geom"
	"github.com/plus3/tween/scene"
	"github.com/stretchr/testify/assert"
)

func TestTimecourseEvaluate(t *testing.T) {
	keys := []scene.Keyframe[geom.Scalar]{
		scene.Key(2.0, geom.Scalar(20)),
		scene.Key(0.0, geom.Scalar(0)),
		scene.Key(1.0, geom.Scalar(10)),
	}

	tests := []struct {
		name      string
		smoothing scene.Smoothing
		time      float64
		want      geom.Scalar
	}{
		{"before first key", scene.Linear, -1, 0},
		{"after last key", scene.Linear, 5, 20},
		{"on a key", scene.Linear, 1, 10},
		{"linear midpoint", scene.Linear, 0.5, 5},
		{"linear quarter", scene.Linear, 1.25, 12.5},
		{"step holds previous", scene.Step, 1.9, 10},
		{"smooth midpoint", scene.Smooth, 0.5, 5},
		{"smooth quarter eases", scene.Smooth, 0.25, 1.5625},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := scene.NewTimecourse(tt.smoothing, keys...)
			got, ok := tc.Evaluate(tt.time)
			assert.True(t, ok)
			assert.InDelta(t, float64(tt.want), float64(got), 1e-5)
		})
	}
}

func TestTimecourseEditing(t *testing.T) {
	tc := scene.NewTimecourse[geom.Scalar](scene.Linear)

	_, ok := tc.Evaluate(0)
	assert.False(t, ok, "empty timecourse has no value")
	assert.Equal(t, 0, tc.Len())

	tc.Set(1, 5)
	tc.Set(0, 1)
	tc.Set(1, 7)
	assert.Equal(t, 2, tc.Len())
	assert.Equal(t, []scene.Keyframe[geom.Scalar]{scene.Key(0.0, geom.Scalar(1)), scene.Key(1.0, geom.Scalar(7))}, tc.Keys())

	assert.True(t, tc.Remove(0))
	assert.False(t, tc.Remove(0.5))

	got, ok := tc.Evaluate(-3)
	assert.True(t, ok)
	assert.Equal(t, geom.Scalar(7), got)
}

func TestTimecourseVectors(t *testing.T) {
	tc := vecKeys(
		scene.Key(0.0, geom.NewVec3(0, 0, 0)),
		scene.Key(2.0, geom.NewVec3(2, 4, -2)),
	)
	got, ok := tc.Evaluate(1)
	assert.True(t, ok)
	assert.Equal(t, geom.NewVec3(1, 2, -1), got)
}

func TestFlagLerp(t *testing.T) {
	tc := scene.NewTimecourse(scene.Linear, scene.Key(0.0, scene.Flag(false)), scene.Key(1.0, scene.Flag(true)))

	v, _ := tc.Evaluate(0.4)
	assert.False(t, bool(v))
	v, _ = tc.Evaluate(0.6)
	assert.True(t, bool(v))
}
