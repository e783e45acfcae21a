// Package ecs provides ECS adapters for motion's presence controller.
//
// The primary adapter is [NewDonburiStore], which bridges presence
// transitions into a [Donburi] world as typed events and mirrors every
// mounted subject as an entity. Subscribe to [PresenceEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	presence, err := motion.NewPresence(sched, cfg, motion.WithPresenceStore(store))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
