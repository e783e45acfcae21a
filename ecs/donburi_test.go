package ecs

import (
	"testing"

	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestDonburiStore_EmitPresence(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []motion.PresenceEvent
	PresenceEventType.Subscribe(world, func(w donburi.World, e motion.PresenceEvent) {
		received = append(received, e)
	})

	store.EmitPresence(motion.PresenceEvent{ID: "box", From: motion.PresenceRemoved, To: motion.PresenceEntering})
	store.EmitPresence(motion.PresenceEvent{ID: "box", From: motion.PresenceEntering, To: motion.PresencePresent})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	PresenceEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if received[0].To != motion.PresenceEntering || received[1].To != motion.PresencePresent {
		t.Errorf("events: %+v", received)
	}
}

func TestDonburiStore_MirrorsSubjects(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	store.EmitPresence(motion.PresenceEvent{ID: "a", From: motion.PresenceRemoved, To: motion.PresenceEntering})
	store.EmitPresence(motion.PresenceEvent{ID: "b", From: motion.PresenceRemoved, To: motion.PresenceEntering})
	store.EmitPresence(motion.PresenceEvent{ID: "a", From: motion.PresenceEntering, To: motion.PresencePresent})

	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	ent, ok := store.Entity("a")
	if !ok {
		t.Fatal("no entity for a")
	}
	data := Subject.Get(world.Entry(ent))
	if data.ID != "a" || data.State != motion.PresencePresent {
		t.Errorf("subject a = %+v", *data)
	}

	store.EmitPresence(motion.PresenceEvent{ID: "a", From: motion.PresencePresent, To: motion.PresenceExiting})
	store.EmitPresence(motion.PresenceEvent{ID: "a", From: motion.PresenceExiting, To: motion.PresenceRemoved})
	if _, ok := store.Entity("a"); ok {
		t.Error("entity for a survived removal")
	}
	if world.Valid(ent) {
		t.Error("removed entity still valid in world")
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestDonburiStore_WithPresence(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	sched := motion.NewScheduler()
	sched.Start()
	p, err := motion.NewPresence(sched, motion.PresenceConfig{
		Initial: motion.Pose{Opacity: 0, Scale: 1},
		Animate: motion.IdentityPose,
		Exit:    motion.Pose{Opacity: 0, Scale: 1},
		Enter:   motion.TweenConfig{Duration: 0.1},
		Leave:   motion.TweenConfig{Duration: 0.1},
	}, motion.WithPresenceStore(store))
	if err != nil {
		t.Fatal(err)
	}

	var count int
	PresenceEventType.Subscribe(world, func(w donburi.World, e motion.PresenceEvent) {
		count++
	})

	p.SetVisible("box", true)
	for i := 0; i < 10; i++ {
		sched.Step(1.0 / 60)
	}
	p.SetVisible("box", false)
	for i := 0; i < 10; i++ {
		sched.Step(1.0 / 60)
	}
	events.ProcessAllEvents(world)

	// entering, present, exiting, removed
	if count != 4 {
		t.Errorf("expected 4 events, got %d", count)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d after removal, want 0", store.Len())
	}
}

func TestDonburiStore_PresenceDestroy(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	sched := motion.NewScheduler()
	sched.Start()
	p, err := motion.NewPresence(sched, motion.PresenceConfig{
		Initial: motion.Pose{Opacity: 0, Scale: 1},
		Animate: motion.IdentityPose,
		Exit:    motion.Pose{Opacity: 0, Scale: 1},
		Enter:   motion.TweenConfig{Duration: 0.1},
		Leave:   motion.TweenConfig{Duration: 0.1},
	}, motion.WithPresenceStore(store))
	if err != nil {
		t.Fatal(err)
	}

	p.SetVisible("a", true)
	p.SetVisible("b", true)
	sched.Step(1.0 / 60)
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	entity, _ := store.Entity("a")

	p.Destroy()
	if store.Len() != 0 {
		t.Errorf("Len = %d after Destroy, want 0", store.Len())
	}
	if world.Valid(entity) {
		t.Error("mirror entity outlived the presence")
	}
}
