package scene

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrTrackPanic wraps a panic recovered from a track's Apply.
var ErrTrackPanic = errors.New("track panicked")

// RunMode tells full evaluation from evaluation after an edit.
type RunMode uint8

const (
	FullRun RunMode = iota
	PartialRun
)

func (m RunMode) String() string {
	if m == PartialRun {
		return "partial"
	}
	return "full"
}

// FaultPolicy decides what a run does when a track fails.
type FaultPolicy uint8

const (
	// FaultIsolate skips the failing track and keeps evaluating.
	FaultIsolate FaultPolicy = iota
	// FaultAbort stops the run at the first failing track.
	FaultAbort
)

// RunResult describes one evaluation run.
type RunResult struct {
	ID   uuid.UUID
	Mode RunMode
	Time float64

	// Evaluated counts entities whose tracks were applied; Skipped counts
	// entities left untouched by a partial run; Edited counts seeds.
	Evaluated     int
	Skipped       int
	Edited        int
	TracksApplied int
	Notified      int
	CycleEdges    int
	Faults        int
	Duration      time.Duration
}

type Option func(*Evaluator)

// WithLogger sets the logger for faults, cycles and run summaries.
func WithLogger(logger *log.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithFaultPolicy(policy FaultPolicy) Option {
	return func(e *Evaluator) {
		e.faults = policy
	}
}

// WithRenotifyOnRevisit notifies an entity again every time a run reaches
// it after it was processed, instead of exactly once per run. Partial runs
// do not follow dependency edges into processed entities, so there only
// the store-order pass repeats notifications, and an edited entity may be
// notified before its dependencies.
func WithRenotifyOnRevisit() Option {
	return func(e *Evaluator) {
		e.renotify = true
	}
}

// Evaluator computes the state of every entity of a store at a point in
// time by applying tracks in dependency order.
type Evaluator struct {
	store    *EntityStore
	notifier ChangeNotifier
	logger   *log.Logger
	faults   FaultPolicy
	renotify bool
	running  bool
	stats    evaluatorStatsInternal
}

// NewEvaluator creates an evaluator over store. A nil notifier is allowed.
func NewEvaluator(store *EntityStore, notifier ChangeNotifier, opts ...Option) *Evaluator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	e := &Evaluator{
		store:    store,
		notifier: notifier,
		logger:   log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
		stats:    newEvaluatorStats(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Store() *EntityStore {
	return e.store
}

// Stats returns statistics about all runs so far.
func (e *Evaluator) Stats() *EvaluatorStats {
	return e.stats.export()
}

// run is the bookkeeping of a single evaluation. It is discarded when the
// evaluation returns.
type run struct {
	result    *RunResult
	time      float64
	processed []bool
	changed   []bool
	active    []bool
	notified  []bool
	faults    []*TrackError
	aborted   bool
}

func (r *run) partial() bool {
	return r.changed != nil
}

func (r *run) isChanged(i int) bool {
	return r.changed == nil || r.changed[i]
}

// EvaluateAll recomputes every entity at time t and notifies every entity.
// Track faults are reported as an *EvalError next to the run result.
func (e *Evaluator) EvaluateAll(t float64) (*RunResult, error) {
	r, err := e.begin(FullRun, t)
	if err != nil {
		return nil, err
	}
	defer e.end()

	start := time.Now()
	for i := 0; i < len(r.processed) && !r.aborted; i++ {
		e.visit(r, i, false)
	}
	return e.finish(r, start)
}

// EvaluateAfterEdit recomputes the entities that depend, directly or
// transitively, on the edited ones. The edited entities keep their new
// coordinates; only their leading constraint and IK tracks are reapplied.
// Entities with no path to an edited one are not modified, but every
// entity is still notified.
func (e *Evaluator) EvaluateAfterEdit(edited []EntityId, t float64) (*RunResult, error) {
	r, err := e.begin(PartialRun, t)
	if err != nil {
		return nil, err
	}
	defer e.end()

	start := time.Now()
	for _, id := range edited {
		i, ok := e.store.IndexOf(id)
		if !ok {
			e.logger.Debug("edited entity not in store", "run", r.result.ID, "entity", id)
			continue
		}
		if r.processed[i] {
			continue
		}
		r.processed[i] = true
		r.changed[i] = true
		e.reactToEdit(r, i)
		if r.aborted {
			break
		}
	}
	for i := 0; i < len(r.processed) && !r.aborted; i++ {
		e.visit(r, i, false)
	}
	return e.finish(r, start)
}

func (e *Evaluator) begin(mode RunMode, t float64) (*run, error) {
	if e.running {
		return nil, ErrReentrant
	}
	e.running = true

	n := e.store.Len()
	r := &run{
		result:    &RunResult{ID: uuid.New(), Mode: mode, Time: t},
		time:      t,
		processed: make([]bool, n),
		active:    make([]bool, n),
		notified:  make([]bool, n),
	}
	if mode == PartialRun {
		r.changed = make([]bool, n)
	}
	return r, nil
}

func (e *Evaluator) end() {
	e.running = false
}

func (e *Evaluator) finish(r *run, start time.Time) (*RunResult, error) {
	res := r.result
	res.Duration = time.Since(start)
	res.Faults = len(r.faults)
	e.stats.record(res)

	e.logger.Debug("evaluated scene",
		"run", res.ID,
		"mode", res.Mode,
		"time", res.Time,
		"evaluated", res.Evaluated,
		"skipped", res.Skipped,
		"tracks", res.TracksApplied,
		"duration", res.Duration,
	)

	if len(r.faults) > 0 {
		return res, &EvalError{Time: r.time, Aborted: r.aborted, Faults: r.faults}
	}
	return res, nil
}

// visit evaluates the entity at index i after its dependencies and reports
// whether its state changed in this run. viaEdge is true when i was
// reached through a track dependency rather than the store-order pass.
func (e *Evaluator) visit(r *run, i int, viaEdge bool) bool {
	if r.processed[i] {
		if r.active[i] {
			r.result.CycleEdges++
			e.logger.Debug("dependency cycle", "run", r.result.ID, "entity", e.store.Get(i).Id())
		}
		e.revisit(r, i, viaEdge)
		return r.isChanged(i)
	}
	r.processed[i] = true
	r.active[i] = true

	entity := e.store.Get(i)
	var affects [AffectsPose + 1]bool
	for _, track := range entity.Tracks() {
		if !live(track) {
			continue
		}
		for _, dep := range track.Dependencies() {
			j, ok := e.store.IndexOf(dep)
			if !ok {
				continue
			}
			if e.visit(r, j, true) && r.partial() {
				r.changed[i] = true
			}
			if r.aborted {
				r.active[i] = false
				return r.isChanged(i)
			}
		}
		affects[affectOf(track)] = true
	}

	if r.isChanged(i) {
		e.applyTracks(r, entity, affects)
	} else {
		r.result.Skipped++
	}
	r.active[i] = false
	if !r.aborted {
		e.emit(r, i)
	}
	return r.isChanged(i)
}

// revisit handles an entity that was already processed in this run.
func (e *Evaluator) revisit(r *run, i int, viaEdge bool) {
	if e.renotify {
		if !viaEdge || !r.partial() {
			e.emit(r, i)
		}
		return
	}
	// Edited entities are processed without being visited; they are
	// notified the first time the run reaches them, after their
	// dependencies.
	if !r.active[i] && !r.notified[i] {
		e.settle(r, i)
		if !r.aborted {
			e.emit(r, i)
		}
	}
}

// settle visits the dependencies of an edited entity without applying its
// tracks again.
func (e *Evaluator) settle(r *run, i int) {
	r.active[i] = true
	defer func() { r.active[i] = false }()
	for _, track := range e.store.Get(i).Tracks() {
		if !live(track) {
			continue
		}
		for _, dep := range track.Dependencies() {
			j, ok := e.store.IndexOf(dep)
			if !ok {
				continue
			}
			e.visit(r, j, true)
			if r.aborted {
				return
			}
		}
	}
}

func (e *Evaluator) emit(r *run, i int) {
	r.notified[i] = true
	r.result.Notified++
	e.notifier.Notify(i, e.store.Get(i))
}

// applyTracks resets the state driven by the entity's tracks and applies
// them from the end of the list to the start.
func (e *Evaluator) applyTracks(r *run, entity *Entity, affects [AffectsPose + 1]bool) {
	coords := entity.Transform()
	if affects[AffectsPosition] {
		coords.ResetOrigin()
	}
	if affects[AffectsRotation] {
		coords.ResetOrientation()
	}
	if affects[AffectsPose] {
		entity.ClearCachedMeshes()
	}
	entity.SetPose(nil)
	entity.ClearDistortion()

	frame := &TrackFrame{Time: r.time, Owner: entity, Store: e.store}
	tracks := entity.Tracks()
	for k := len(tracks) - 1; k >= 0; k-- {
		if !live(tracks[k]) {
			continue
		}
		if !e.apply(r, frame, tracks[k]) {
			return
		}
	}
	if p := entity.Pose(); p != nil {
		entity.ApplyPoseKeyframe(p)
	}
	r.result.Evaluated++
}

// reactToEdit applies the leading run of constraint, IK and null tracks of
// an edited entity, so the entity stays consistent without its keyed
// tracks overwriting the edit.
func (e *Evaluator) reactToEdit(r *run, i int) {
	entity := e.store.Get(i)
	tracks := entity.Tracks()
	n := 0
	for n < len(tracks) && (tracks[n].Constrains() || tracks[n].IsNull()) {
		n++
	}

	frame := &TrackFrame{Time: r.time, Owner: entity, Store: e.store}
	for k := n - 1; k >= 0; k-- {
		if !live(tracks[k]) {
			continue
		}
		if !e.apply(r, frame, tracks[k]) {
			return
		}
	}
	if p := entity.Pose(); p != nil {
		entity.ApplyPoseKeyframe(p)
	}
	r.result.Edited++
}

// apply runs one track and records a fault if it fails. It returns false
// when the run must stop.
func (e *Evaluator) apply(r *run, frame *TrackFrame, track Track) bool {
	r.result.TracksApplied++
	err := safeApply(track, frame)
	if err == nil {
		return true
	}

	fault := &TrackError{
		Entity: frame.Owner.Id(),
		Track:  track.Name(),
		Time:   frame.Time,
		Err:    err,
	}
	r.faults = append(r.faults, fault)
	e.logger.Warn("track fault",
		"run", r.result.ID,
		"entity", frame.Owner.Id(),
		"track", track.Name(),
		"time", frame.Time,
		"err", err,
	)

	if e.faults == FaultAbort {
		r.aborted = true
		return false
	}
	return true
}

func safeApply(track Track, frame *TrackFrame) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrTrackPanic, p)
		}
	}()
	return track.Apply(frame)
}
