package ecs

import (
	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PresenceEventType is the Donburi event type for presence transitions.
// Subscribe to it in your ECS systems to react to subjects entering, settling
// and leaving.
var PresenceEventType = events.NewEventType[motion.PresenceEvent]()

// SubjectData mirrors one mounted presence subject.
type SubjectData struct {
	ID    string
	State motion.PresenceState
}

// Subject is the component attached to every mirrored subject entity.
var Subject = donburi.NewComponentType[SubjectData]()

// DonburiStore is a motion.PresenceStore backed by a Donburi world. Each
// transition is published to PresenceEventType, and every mounted subject is
// mirrored as an entity carrying the Subject component until it is removed.
type DonburiStore struct {
	world    donburi.World
	entities map[string]donburi.Entity
}

var _ motion.PresenceStore = (*DonburiStore)(nil)

// NewDonburiStore creates a store publishing into world.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, entities: make(map[string]donburi.Entity)}
}

// EmitPresence publishes e and updates the subject's mirror entity.
func (s *DonburiStore) EmitPresence(e motion.PresenceEvent) {
	PresenceEventType.Publish(s.world, e)

	ent, ok := s.entities[e.ID]
	if e.To == motion.PresenceRemoved {
		if ok {
			s.world.Remove(ent)
			delete(s.entities, e.ID)
		}
		return
	}
	if !ok {
		ent = s.world.Create(Subject)
		s.entities[e.ID] = ent
	}
	Subject.SetValue(s.world.Entry(ent), SubjectData{ID: e.ID, State: e.To})
}

// Entity returns the mirror entity of a mounted subject.
func (s *DonburiStore) Entity(id string) (donburi.Entity, bool) {
	ent, ok := s.entities[id]
	return ent, ok
}

// Len returns the number of mirrored subjects.
func (s *DonburiStore) Len() int {
	return len(s.entities)
}
