package scene

// ChangeNotifier is told when an entity's derived state is ready for the
// current run. The evaluator calls it once per entity per run, and never
// for a dependent before its dependencies.
type ChangeNotifier interface {
	Notify(index int, entity *Entity)
}

// NotifierFunc adapts a function to ChangeNotifier.
type NotifierFunc func(index int, entity *Entity)

func (f NotifierFunc) Notify(index int, entity *Entity) {
	f(index, entity)
}

// Notifiers fans a notification out to several listeners in order.
type Notifiers []ChangeNotifier

func (n Notifiers) Notify(index int, entity *Entity) {
	for _, l := range n {
		l.Notify(index, entity)
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(int, *Entity) {}
