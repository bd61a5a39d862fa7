// Package ecs provides ECS adapters for thicket.
package ecs

import (
	"github.com/phanxgames/thicket"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for thicket scene lifecycle
// events. Subscribe to this in your ECS systems to react to entities being
// added or removed and to scene state changes.
var SceneEventType = events.NewEventType[thicket.SceneEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Scene events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) thicket.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event thicket.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
