// Package ecs bridges card table events into a [Donburi] world.
//
// [NewDonburiSink] publishes every manager event as a typed Donburi event.
// [Mirror] goes further and keeps one entity per card with a [Location]
// component that follows the card from container to container, so ECS
// systems can query where cards are without touching the manager.
//
// Usage:
//
//	world := donburi.NewWorld()
//	mirror := ecs.NewMirror(world, manager)
//	manager.SetEventSink(mirror)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
