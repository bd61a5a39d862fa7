package thicket

import (
	"errors"
	"math/rand/v2"
	"testing"
)

const frameDelta = 1.0 / 60

func frameTime() FrameTime { return FrameTime{Raw: frameDelta, Delta: frameDelta} }

// runFrame drives one full update cycle.
func runFrame(s *Scene) {
	s.BeforeUpdate(frameTime())
	s.Update()
	s.AfterUpdate()
}

func names(l *EntityList) []string {
	out := make([]string, 0, l.Len())
	for _, e := range l.entities {
		out = append(out, e.entityCore().Name)
	}
	return out
}

func assertNames(t *testing.T, l *EntityList, want ...string) {
	t.Helper()
	got := names(l)
	if len(got) != len(want) {
		t.Fatalf("entities = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entities = %v, want %v", got, want)
		}
	}
}

func TestEntityListAddIsDeferred(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	s.Add(e)

	if s.Entities().Len() != 0 {
		t.Fatal("add should not be visible before flush")
	}
	if e.Scene() != nil {
		t.Fatal("entity should not be attached before flush")
	}

	s.Entities().Flush()

	if !s.Entities().Contains(e) {
		t.Fatal("entity should be live after flush")
	}
	if e.Scene() != s {
		t.Error("entity should be attached to the scene")
	}
}

func TestEntityListRemoveIsDeferred(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	s.Add(e)
	s.Entities().Flush()

	s.Remove(e)
	if !s.Entities().Contains(e) {
		t.Fatal("remove should not be visible before flush")
	}
	s.Entities().Flush()
	if s.Entities().Contains(e) {
		t.Fatal("entity should be gone after flush")
	}
	if e.Scene() != nil {
		t.Error("entity should be detached")
	}
}

func TestEntityListHookOrder(t *testing.T) {
	s := NewScene()
	var calls []string
	e := NewEntity("a")
	e.OnAdded = func(*Scene) { calls = append(calls, "added") }
	e.OnAwake = func(*Scene) { calls = append(calls, "awake") }
	e.OnRemoved = func(*Scene) { calls = append(calls, "removed") }

	s.Add(e)
	s.Entities().Flush()
	s.Remove(e)
	s.Entities().Flush()

	want := []string{"added", "awake", "removed"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestEntityListAwakeAfterBatchAdded(t *testing.T) {
	s := NewScene()
	a := NewEntity("a")
	b := NewEntity("b")
	var sawB bool
	a.OnAwake = func(sc *Scene) { sawB = sc.Entities().Contains(b) }

	s.Add(a, b)
	s.Entities().Flush()

	if !sawB {
		t.Error("awake should run after every entity of the batch is live")
	}
}

func TestEntityListDuplicateAddIgnored(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	added := 0
	e.OnAdded = func(*Scene) { added++ }

	s.Add(e)
	s.Add(e)
	s.Entities().Flush()
	s.Add(e)
	s.Entities().Flush()

	if s.Entities().Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Entities().Len())
	}
	if added != 1 {
		t.Errorf("Added called %d times, want 1", added)
	}
}

func TestEntityListDoubleRemoveIdempotent(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	removed := 0
	e.OnRemoved = func(*Scene) { removed++ }
	s.Add(e)
	s.Entities().Flush()

	s.Remove(e)
	s.Remove(e)
	s.Entities().Flush()

	if s.Entities().Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Entities().Len())
	}
	if removed != 1 {
		t.Errorf("Removed called %d times, want 1", removed)
	}
}

func TestEntityListRemoveNonLiveIgnored(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	s.Remove(e)
	s.Entities().Flush()
	if s.Entities().Len() != 0 {
		t.Fatal("removing a non-live entity should be a no-op")
	}
}

func TestEntityListRemoveThenReAddSameFrame(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	s.Add(e)
	s.Entities().Flush()

	s.Remove(e)
	s.Add(e)
	s.Entities().Flush()

	if s.Entities().Contains(e) {
		t.Error("remove then re-add in one frame should leave the entity absent")
	}
}

func TestEntityListAddThenRemoveSameFrame(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	var calls []string
	e.OnAdded = func(*Scene) { calls = append(calls, "added") }
	e.OnAwake = func(*Scene) { calls = append(calls, "awake") }
	e.OnRemoved = func(*Scene) { calls = append(calls, "removed") }

	s.Add(e)
	s.Remove(e)
	s.Entities().Flush()

	if s.Entities().Contains(e) {
		t.Fatal("add then remove in one frame should leave the entity absent")
	}
	if e.Scene() != nil {
		t.Error("entity should be detached")
	}
	if len(calls) != 2 || calls[0] != "added" || calls[1] != "removed" {
		t.Errorf("calls = %v, want [added removed]", calls)
	}
}

func TestEntityListMutationsDuringUpdate(t *testing.T) {
	s := NewScene()
	spawned := NewEntity("spawned")
	victim := NewEntity("victim")
	killer := NewEntity("killer")
	killer.SetDepth(10)
	killer.OnUpdate = func(float64) {
		s.Remove(victim)
		s.Add(spawned)
		killer.RemoveSelf()
	}
	updates := 0
	victim.OnUpdate = func(float64) { updates++ }

	s.Add(killer, victim)
	runFrame(s)

	// Mutations queued during update are not applied within the same pass.
	if updates != 1 {
		t.Fatalf("victim updated %d times, want 1", updates)
	}
	assertNames(t, s.Entities(), "killer", "victim")

	runFrame(s)
	assertNames(t, s.Entities(), "spawned")
}

func TestEntityListDepthOrder(t *testing.T) {
	s := NewScene()
	low := NewEntity("low")
	low.SetDepth(-5)
	mid := NewEntity("mid")
	high := NewEntity("high")
	high.SetDepth(5)

	s.Add(low, mid, high)
	s.Entities().Flush()

	assertNames(t, s.Entities(), "high", "mid", "low")
}

func TestEntityListTieBreakPreservesInsertion(t *testing.T) {
	s := NewScene()
	e1 := NewEntity("e1")
	e2 := NewEntity("e2")
	e3 := NewEntity("e3")
	s.Add(e1, e2, e3)
	s.Entities().Flush()

	assertNames(t, s.Entities(), "e1", "e2", "e3")
	if !(e1.ActualDepth() > e2.ActualDepth() && e2.ActualDepth() > e3.ActualDepth()) {
		t.Errorf("actual depths not strictly decreasing: %v %v %v",
			e1.ActualDepth(), e2.ActualDepth(), e3.ActualDepth())
	}
}

func TestEntityListSetDepthResorts(t *testing.T) {
	s := NewScene()
	a := NewEntity("a")
	b := NewEntity("b")
	s.Add(a, b)
	s.Entities().Flush()

	b.SetDepth(1)
	assertNames(t, s.Entities(), "a", "b")
	s.Entities().Flush()
	assertNames(t, s.Entities(), "b", "a")
}

func TestEntityListSetDepthBackGoesLast(t *testing.T) {
	s := NewScene()
	a := NewEntity("a")
	b := NewEntity("b")
	s.Add(a, b)
	s.Entities().Flush()

	// Returning to a depth hands out a fresh, finer offset.
	a.SetDepth(1)
	a.SetDepth(0)
	s.Entities().Flush()
	assertNames(t, s.Entities(), "b", "a")
}

func TestEntityListAt(t *testing.T) {
	s := NewScene()
	s.Add(NewEntity("a"))
	s.Entities().Flush()

	if e, err := s.Entities().At(0); err != nil || e.entityCore().Name != "a" {
		t.Fatalf("At(0) = %v, %v", e, err)
	}
	_, err := s.Entities().At(1)
	var be *BoundsError
	if !errors.As(err, &be) {
		t.Fatalf("At(1) error = %v, want *BoundsError", err)
	}
	if be.Index != 1 || be.Len != 1 {
		t.Errorf("BoundsError = %+v", be)
	}
	if _, err := s.Entities().At(-1); err == nil {
		t.Error("At(-1) should fail")
	}
}

func TestEntityListEntitiesIsCopy(t *testing.T) {
	s := NewScene()
	s.Add(NewEntity("a"))
	s.Entities().Flush()

	snap := s.Entities().Entities()
	snap[0] = nil
	if e, _ := s.Entities().At(0); e == nil {
		t.Error("mutating the snapshot changed the live set")
	}
}

func TestEntityListInactiveSkipsUpdate(t *testing.T) {
	s := NewScene()
	e := NewEntity("a")
	e.Active = false
	updates := 0
	e.OnUpdate = func(float64) { updates++ }
	s.Add(e)
	runFrame(s)

	if updates != 0 {
		t.Errorf("inactive entity updated %d times", updates)
	}
}

func TestEntityListRenderSkipsInvisible(t *testing.T) {
	s := NewScene()
	var order []string
	mk := func(name string, depth int, visible bool) *BasicEntity {
		e := NewEntity(name)
		e.SetDepth(depth)
		e.Visible = visible
		e.OnRender = func(*RenderContext) { order = append(order, name) }
		return e
	}
	s.Add(mk("front", 0, true), mk("hidden", 1, false), mk("back", 2, true))
	s.Entities().Flush()

	s.Entities().Render(&RenderContext{Scene: s})

	if len(order) != 2 || order[0] != "back" || order[1] != "front" {
		t.Errorf("render order = %v, want [back front]", order)
	}
	if !s.Entities().HasVisible() {
		t.Error("HasVisible = false, want true")
	}
}

func TestEntityListMoveBetweenScenes(t *testing.T) {
	s1 := NewScene()
	s2 := NewScene()
	e := NewEntity("nomad")
	s1.Add(e)
	s1.Entities().Flush()

	s1.Remove(e)
	s2.Add(e)

	// s2 flushes first: the entity is still owned by s1 and is deferred.
	s2.Entities().Flush()
	if s2.Entities().Contains(e) {
		t.Fatal("entity should not join s2 while attached to s1")
	}
	s1.Entities().Flush()
	s2.Entities().Flush()

	if !s2.Entities().Contains(e) || e.Scene() != s2 {
		t.Error("entity should be attached to s2 once s1 released it")
	}
}

func TestEntityListAdoptsFromEndedScene(t *testing.T) {
	old, next := NewScene(), NewScene()
	e := NewEntity("carried")
	var removedFrom *Scene
	e.OnRemoved = func(s *Scene) { removedFrom = s }
	old.Add(e)
	if err := old.Begin(); err != nil {
		t.Fatal(err)
	}
	runFrame(old)
	old.Remove(e) // queued, but old never flushes again
	if err := old.End(); err != nil {
		t.Fatal(err)
	}

	next.Add(e)
	runFrame(next)

	if e.Scene() != next || !next.Entities().Contains(e) {
		t.Fatal("entity should move into the next scene once the old one ended")
	}
	if old.Entities().Contains(e) || old.Entities().Len() != 0 {
		t.Error("ended scene should no longer list the entity")
	}
	if removedFrom != old {
		t.Errorf("Removed scene = %v, want the ended scene", removedFrom)
	}
}

func TestEntityListRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 50 {
		s := NewScene()
		pool := make([]*BasicEntity, 8)
		hooks := make(map[Entity]int)
		for i := range pool {
			e := NewEntity(string(rune('a' + i)))
			e.SetDepth(rng.IntN(3))
			e.OnAdded = func(*Scene) { hooks[e]++ }
			e.OnRemoved = func(*Scene) { hooks[e]-- }
			pool[i] = e
		}

		live := make(map[Entity]bool)
		for frame := range 20 {
			adding := make(map[Entity]bool)
			removing := make(map[Entity]bool)
			for range rng.IntN(6) {
				e := pool[rng.IntN(len(pool))]
				switch rng.IntN(3) {
				case 0:
					s.Add(e)
					if !live[e] {
						adding[e] = true
					}
				case 1:
					s.Remove(e)
					if live[e] || adding[e] {
						removing[e] = true
					}
				case 2:
					e.SetDepth(rng.IntN(3))
				}
			}
			runFrame(s)

			for e := range adding {
				live[e] = true
			}
			for e := range removing {
				delete(live, e)
			}

			l := s.Entities()
			if l.Len() != len(live) {
				t.Fatalf("round %d frame %d: Len = %d, want %d", round, frame, l.Len(), len(live))
			}
			prev := 0.0
			for i, e := range l.Entities() {
				if !live[e] {
					t.Fatalf("round %d frame %d: %s is live but should not be", round, frame, Core(e).Name)
				}
				if i > 0 && Core(e).ActualDepth() > prev {
					t.Fatalf("round %d frame %d: list not sorted by actual depth", round, frame)
				}
				prev = Core(e).ActualDepth()
			}
			for _, e := range pool {
				attached := e.Scene() == s
				if attached != live[e] {
					t.Fatalf("round %d frame %d: %s attached = %v, want %v", round, frame, e.Name, attached, live[e])
				}
				want := 0
				if live[e] {
					want = 1
				}
				if hooks[e] != want {
					t.Fatalf("round %d frame %d: %s added-removed balance = %d, want %d", round, frame, e.Name, hooks[e], want)
				}
			}
		}
	}
}

type marker struct {
	EntityCore
	id int
}

func TestEntityListTypedQueries(t *testing.T) {
	s := NewScene()
	m1 := &marker{EntityCore: NewEntityCore(0, 0), id: 1}
	m2 := &marker{EntityCore: NewEntityCore(0, 0), id: 2}
	m2.SetDepth(3)
	s.Add(NewEntity("plain"), m1, m2)
	s.Entities().Flush()

	first, ok := FindFirst[*marker](s.Entities())
	if !ok || first.id != 2 {
		t.Errorf("FindFirst = %v, %v; want id 2", first, ok)
	}
	if all := FindAll[*marker](s.Entities()); len(all) != 2 {
		t.Errorf("FindAll len = %d, want 2", len(all))
	}
	if n := Count[*BasicEntity](s.Entities()); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}

	ForEach(s.Entities(), func(m *marker) { m.RemoveSelf() })
	s.Entities().Flush()
	if n := Count[*marker](s.Entities()); n != 0 {
		t.Errorf("markers left after ForEach removal: %d", n)
	}
}

func TestEntityClosest(t *testing.T) {
	me := NewEntity("me")
	near := NewEntity("near")
	near.SetPosition(1, 1)
	far := NewEntity("far")
	far.SetPosition(10, 10)

	if got := me.Closest(far, near); got != Entity(near) {
		t.Errorf("Closest = %v, want near", got)
	}
	if me.Closest() != nil {
		t.Error("Closest() with no candidates should be nil")
	}
}

// --- Benchmarks ---

func BenchmarkFlushSameDepth(b *testing.B) {
	for b.Loop() {
		s := NewScene()
		for range 1000 {
			s.Add(NewEntity(""))
		}
		s.BeforeUpdate(frameTime())
	}
}

func BenchmarkUpdateDepthChurn(b *testing.B) {
	s := NewScene()
	entities := make([]*BasicEntity, 1000)
	for i := range entities {
		entities[i] = NewEntity("")
		entities[i].SetDepth(i % 10)
		s.Add(entities[i])
	}
	runFrame(s)
	i := 0
	for b.Loop() {
		entities[i%len(entities)].SetDepth(i % 7)
		i++
		runFrame(s)
	}
}
