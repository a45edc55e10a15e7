package game

import (
	"context"
	"log/slog"
)

// EntityKind distinguishes the three entity variants on the island.
type EntityKind uint8

const (
	KindCreature EntityKind = iota
	KindFood
	KindTree
)

// String returns the kind name used in logs.
func (k EntityKind) String() string {
	switch k {
	case KindCreature:
		return "creature"
	case KindFood:
		return "food"
	case KindTree:
		return "tree"
	default:
		return "unknown"
	}
}

// EntityRef identifies an entity for collaborators outside the core. IDs
// are unique per kind within a run and are never reused.
type EntityRef struct {
	ID   uint32
	Kind EntityKind
}

// EventType enumerates the notifications raised by the world.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventRemove
	EventBirth
	EventDeath
	EventEat
	EventExtinction
	EventReset
	EventJump
)

func (t EventType) String() string {
	switch t {
	case EventSpawn:
		return "spawn"
	case EventRemove:
		return "remove"
	case EventBirth:
		return "birth"
	case EventDeath:
		return "death"
	case EventEat:
		return "eat"
	case EventExtinction:
		return "extinction"
	case EventReset:
		return "reset"
	case EventJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Event is a single world notification.
//
// Entity is the subject. For EventBirth, Other is the parent; for EventEat,
// Other is the food item eaten and Amount the energy gained. For EventJump,
// Amount is the takeoff speed.
type Event struct {
	Type    EventType
	Tick    uint64
	Elapsed float64

	Entity EntityRef
	Other  EntityRef

	X, Y, Z    float32
	Amount     float32
	Generation int
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", e.Type.String()),
		slog.Uint64("tick", e.Tick),
		slog.String("kind", e.Entity.Kind.String()),
		slog.Any("id", e.Entity.ID),
	)
}

// Sink receives world events synchronously during Tick, Reset and the
// spawn calls. Implementations must not call back into the world.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Notify calls f(ev).
func (f SinkFunc) Notify(ev Event) { f(ev) }

// MultiSink fans an event out to several sinks in order.
type MultiSink []Sink

// Notify forwards ev to every sink.
func (m MultiSink) Notify(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Notify(ev)
		}
	}
}

// NopSink discards all events.
type NopSink struct{}

// Notify does nothing.
func (NopSink) Notify(Event) {}

// LogSink writes every event to a logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

// Notify logs ev.
func (s LogSink) Notify(ev Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	logger.Debug("world event", "event", ev)
}
