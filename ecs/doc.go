// Package ecs provides ECS adapters for thicket's scene lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges thicket scene
// events (begin, end, focus, pause, entity added and removed) into a
// [Donburi] world as typed events. Subscribe to [SceneEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
