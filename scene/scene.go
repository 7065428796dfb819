// Package scene evaluates animated 3D scenes. Entities carry ordered lists
// of tracks that depend on other entities; the Evaluator applies them in
// dependency order at a given time, either for the whole scene or only
// for what a direct edit affects.
package scene

// Scene ties a store, its evaluator and a command buffer together. Queued
// commands are flushed before each run.
type Scene struct {
	store     *EntityStore
	evaluator *Evaluator
	commands  *Commands
	time      float64
}

// NewScene creates an empty scene.
func NewScene(notifier ChangeNotifier, opts ...Option) *Scene {
	store := NewEntityStore()
	return &Scene{
		store:     store,
		evaluator: NewEvaluator(store, notifier, opts...),
		commands:  NewCommands(),
	}
}

func (s *Scene) Store() *EntityStore {
	return s.store
}

func (s *Scene) Evaluator() *Evaluator {
	return s.evaluator
}

func (s *Scene) Commands() *Commands {
	return s.commands
}

// Time returns the time of the last SetTime call.
func (s *Scene) Time() float64 {
	return s.time
}

// SetTime moves the scene to time t and evaluates every entity.
func (s *Scene) SetTime(t float64) (*RunResult, error) {
	if s.evaluator.running {
		return nil, ErrReentrant
	}
	s.commands.Flush(s.store)
	s.time = t
	return s.evaluator.EvaluateAll(t)
}

// Edited re-evaluates what depends on entities the caller has just
// modified directly, at the current scene time.
func (s *Scene) Edited(ids ...EntityId) (*RunResult, error) {
	if s.evaluator.running {
		return nil, ErrReentrant
	}
	s.commands.Flush(s.store)
	return s.evaluator.EvaluateAfterEdit(ids, s.time)
}
