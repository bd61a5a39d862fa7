package thicket

// EventType identifies a kind of scene lifecycle event.
type EventType uint8

const (
	EventSceneBegin    EventType = iota // scene became current
	EventSceneEnd                       // scene stopped being current
	EventGainFocus                      // scene regained input focus
	EventLoseFocus                      // scene lost input focus
	EventPaused                         // entity updates suspended
	EventResumed                        // entity updates resumed
	EventEntityAdded                    // entity attached during a flush
	EventEntityRemoved                  // entity detached during a flush
)

var eventTypeNames = [...]string{
	EventSceneBegin:    "scene_begin",
	EventSceneEnd:      "scene_end",
	EventGainFocus:     "gain_focus",
	EventLoseFocus:     "lose_focus",
	EventPaused:        "paused",
	EventResumed:       "resumed",
	EventEntityAdded:   "entity_added",
	EventEntityRemoved: "entity_removed",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// SceneEvent carries lifecycle data for an EventSink.
type SceneEvent struct {
	Type  EventType
	Scene *Scene
	// Entity is set for EventEntityAdded and EventEntityRemoved.
	Entity Entity
	// Depth is the entity's depth at the time of the event.
	Depth int
	// TimeActive is the scene's active time when the event fired.
	TimeActive float64
}

// EventSink receives scene lifecycle events. When set on a Scene, every
// event is forwarded synchronously, in the order it occurs.
type EventSink interface {
	EmitEvent(event SceneEvent)
}
