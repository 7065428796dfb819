package scene

import (
	"errors"
	"fmt"
)

var (
	ErrReentrant       = errors.New("evaluation already in progress")
	ErrDuplicateEntity = errors.New("entity id already in store")
	ErrUnknownEntity   = errors.New("entity not in store")
	ErrNoSkeleton      = errors.New("entity has no skeleton")
	ErrUnknownJoint    = errors.New("joint not in skeleton")
)

// EntityError ties an error to an entity id.
type EntityError struct {
	Id  EntityId
	Err error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity %d: %v", e.Id, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// TrackError is a fault raised while applying a single track.
type TrackError struct {
	Entity EntityId
	Track  string
	Time   float64
	Err    error
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("track %q on entity %d at time %g: %v", e.Track, e.Entity, e.Time, e.Err)
}

func (e *TrackError) Unwrap() error {
	return e.Err
}

// EvalError reports that a run could not evaluate the whole scene.
// The scene keeps whatever state the run left behind.
type EvalError struct {
	Time    float64
	Aborted bool
	Faults  []*TrackError
}

func (e *EvalError) Error() string {
	msg := fmt.Sprintf("could not fully evaluate scene at time %g: %d track fault(s)", e.Time, len(e.Faults))
	if e.Aborted {
		msg += ", run aborted"
	}
	return msg
}

func (e *EvalError) Unwrap() []error {
	errs := make([]error, len(e.Faults))
	for i, f := range e.Faults {
		errs[i] = f
	}
	return errs
}
