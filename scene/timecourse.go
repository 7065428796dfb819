package scene

import (
	"slices"
	"sort"
)

// Smoothing selects how a timecourse fills the gap between two keyframes.
type Smoothing uint8

const (
	// Step holds each keyframe value until the next one.
	Step Smoothing = iota
	Linear
	// Smooth eases in and out of every keyframe.
	Smooth
)

// Lerper is implemented by every value that can be keyframed.
type Lerper[T any] interface {
	Lerp(other T, t float32) T
}

type Keyframe[T any] struct {
	Time  float64
	Value T
}

// Key is shorthand for building a Keyframe.
func Key[T any](time float64, value T) Keyframe[T] {
	return Keyframe[T]{Time: time, Value: value}
}

// Timecourse is a sorted list of keyframes evaluated at arbitrary times.
type Timecourse[T Lerper[T]] struct {
	Smoothing Smoothing
	keys      []Keyframe[T]
}

// NewTimecourse creates a timecourse. Keys may be given in any order; a
// later key with the same time replaces an earlier one.
func NewTimecourse[T Lerper[T]](smoothing Smoothing, keys ...Keyframe[T]) *Timecourse[T] {
	tc := &Timecourse[T]{Smoothing: smoothing}
	for _, k := range keys {
		tc.Set(k.Time, k.Value)
	}
	return tc
}

// Set adds a keyframe, replacing any existing one at the same time.
func (tc *Timecourse[T]) Set(time float64, value T) {
	i := sort.Search(len(tc.keys), func(i int) bool { return tc.keys[i].Time >= time })
	if i < len(tc.keys) && tc.keys[i].Time == time {
		tc.keys[i].Value = value
		return
	}
	tc.keys = slices.Insert(tc.keys, i, Keyframe[T]{Time: time, Value: value})
}

// Remove deletes the keyframe at exactly time.
func (tc *Timecourse[T]) Remove(time float64) bool {
	i := sort.Search(len(tc.keys), func(i int) bool { return tc.keys[i].Time >= time })
	if i == len(tc.keys) || tc.keys[i].Time != time {
		return false
	}
	tc.keys = slices.Delete(tc.keys, i, i+1)
	return true
}

func (tc *Timecourse[T]) Len() int {
	if tc == nil {
		return 0
	}
	return len(tc.keys)
}

func (tc *Timecourse[T]) Keys() []Keyframe[T] {
	return tc.keys
}

// Evaluate returns the value at time. Times before the first key or after
// the last one are held at the end values. The bool is false when the
// timecourse has no keys.
func (tc *Timecourse[T]) Evaluate(time float64) (T, bool) {
	var zero T
	if tc.Len() == 0 {
		return zero, false
	}
	keys := tc.keys
	if time <= keys[0].Time {
		return keys[0].Value, true
	}
	last := keys[len(keys)-1]
	if time >= last.Time {
		return last.Value, true
	}

	// keys[i-1].Time < time < keys[i].Time, or time == keys[i].Time
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time >= time })
	if keys[i].Time == time {
		return keys[i].Value, true
	}
	prev, next := keys[i-1], keys[i]
	if tc.Smoothing == Step {
		return prev.Value, true
	}

	f := float32((time - prev.Time) / (next.Time - prev.Time))
	if tc.Smoothing == Smooth {
		f = f * f * (3 - 2*f)
	}
	return prev.Value.Lerp(next.Value, f), true
}
