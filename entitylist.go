package thicket

import (
	"cmp"
	"slices"
	"time"

	"go.uber.org/zap"
)

// EntityList is the depth-sorted set of entities owned by a Scene.
//
// Add and Remove only queue requests. Queued requests become visible at the
// next Flush, which the scene runs once per frame in BeforeUpdate. Between
// flushes the live set never changes, so hooks may add or remove any entity
// (themselves included) while the list is being iterated.
type EntityList struct {
	scene *Scene

	entities []Entity
	toAdd    []Entity
	toRemove []Entity

	current  map[Entity]struct{}
	adding   map[Entity]struct{}
	removing map[Entity]struct{}

	// spare buffers swapped with toAdd/toRemove during Flush so hooks that
	// queue more work never append to the slice being drained.
	spareAdd    []Entity
	spareRemove []Entity

	unsorted bool
}

func newEntityList(s *Scene) *EntityList {
	return &EntityList{
		scene:    s,
		current:  make(map[Entity]struct{}),
		adding:   make(map[Entity]struct{}),
		removing: make(map[Entity]struct{}),
	}
}

// Scene returns the owning scene.
func (l *EntityList) Scene() *Scene { return l.scene }

// Len returns the number of live entities.
func (l *EntityList) Len() int { return len(l.entities) }

// At returns the live entity at index i in depth order.
func (l *EntityList) At(i int) (Entity, error) {
	if i < 0 || i >= len(l.entities) {
		return nil, &BoundsError{Index: i, Len: len(l.entities)}
	}
	return l.entities[i], nil
}

// Entities returns a copy of the live set in depth order.
func (l *EntityList) Entities() []Entity {
	return slices.Clone(l.entities)
}

// Contains reports whether e is live in this list.
func (l *EntityList) Contains(e Entity) bool {
	_, ok := l.current[e]
	return ok
}

// Add queues entities for attachment. Entities already live or already
// queued are ignored.
func (l *EntityList) Add(entities ...Entity) {
	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, ok := l.adding[e]; ok {
			continue
		}
		if _, ok := l.current[e]; ok {
			continue
		}
		l.adding[e] = struct{}{}
		l.toAdd = append(l.toAdd, e)
	}
}

// Remove queues entities for detachment. Entities that are neither live nor
// queued for add, or already queued for removal, are ignored.
func (l *EntityList) Remove(entities ...Entity) {
	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, ok := l.removing[e]; ok {
			continue
		}
		_, live := l.current[e]
		_, pending := l.adding[e]
		if !live && !pending {
			continue
		}
		l.removing[e] = struct{}{}
		l.toRemove = append(l.toRemove, e)
	}
}

// MarkUnsorted schedules a re-sort at the next flush.
func (l *EntityList) MarkUnsorted() {
	l.unsorted = true
}

// flushStats summarizes one Flush for debug logging.
type flushStats struct {
	added    int
	removed  int
	deferred int
	sorted   bool
	elapsed  time.Duration
}

// Flush applies queued mutations: adds first, then removals, then a stable
// sort by actual depth if anything changed ordering, then Awake for every
// entity added this flush that is still attached.
func (l *EntityList) Flush() {
	l.flush()
}

func (l *EntityList) flush() flushStats {
	var stats flushStats
	var added []Entity
	var t0 time.Time
	if l.scene != nil && l.scene.debug {
		t0 = time.Now()
	}

	if len(l.toAdd) > 0 {
		adds := l.toAdd
		l.toAdd = l.spareAdd[:0]

		var deferred []Entity
		for _, e := range adds {
			// Batch members stay in adding until reached, so hooks that run
			// earlier in the batch can still queue their removal.
			delete(l.adding, e)
			if _, ok := l.current[e]; ok {
				continue
			}
			c := e.entityCore()
			if c.scene != nil && c.scene != l.scene {
				if !c.scene.ended {
					// Still owned elsewhere; retry once that scene lets go.
					deferred = append(deferred, e)
					continue
				}
				// An ended scene never flushes again, so release it here.
				c.scene.entities.release(e)
			}
			l.current[e] = struct{}{}
			l.entities = append(l.entities, e)
			l.unsorted = true
			if l.scene != nil {
				c.attach(l.scene, e)
				if h, ok := e.(AddedHook); ok {
					h.Added(l.scene)
				}
				l.scene.emit(SceneEvent{Type: EventEntityAdded, Entity: e})
			}
			added = append(added, e)
			stats.added++
		}
		for _, e := range deferred {
			if l.scene != nil {
				l.scene.log.Warn("entity still attached to another scene; deferring add",
					zap.String("entity", e.entityCore().Name))
			}
			l.Add(e)
		}
		stats.deferred = len(deferred)

		clear(adds)
		l.spareAdd = adds[:0]
	}

	if len(l.toRemove) > 0 {
		removes := l.toRemove
		l.toRemove = l.spareRemove[:0]
		clear(l.removing)

		n := 0
		for _, e := range removes {
			if _, ok := l.current[e]; !ok {
				l.cancelAdd(e)
				continue
			}
			delete(l.current, e)
			removes[n] = e
			n++
		}
		removed := removes[:n]
		if n > 0 {
			l.entities = slices.DeleteFunc(l.entities, func(e Entity) bool {
				_, live := l.current[e]
				return !live
			})
		}
		for _, e := range removed {
			c := e.entityCore()
			if l.scene != nil {
				if h, ok := e.(RemovedHook); ok {
					h.Removed(l.scene)
				}
				l.scene.emit(SceneEvent{Type: EventEntityRemoved, Entity: e})
			}
			if c.scene == l.scene {
				c.detach()
			}
		}
		stats.removed = n

		clear(removes)
		l.spareRemove = removes[:0]
	}

	if l.unsorted {
		l.unsorted = false
		slices.SortStableFunc(l.entities, compareDepth)
		stats.sorted = true
	}

	if l.scene != nil {
		for _, e := range added {
			if e.entityCore().scene != l.scene {
				continue
			}
			if h, ok := e.(Awaker); ok {
				h.Awake(l.scene)
			}
		}
	}

	if l.scene != nil && l.scene.debug {
		stats.elapsed = time.Since(t0)
	}
	return stats
}

// release detaches a live entity immediately, outside a flush. Used to hand
// entities of an ended scene over to the scene that adopts them. Any queued
// add or remove for e in this list is dropped.
func (l *EntityList) release(e Entity) {
	if _, ok := l.current[e]; !ok {
		return
	}
	delete(l.current, e)
	delete(l.removing, e)
	l.toRemove = slices.DeleteFunc(l.toRemove, func(x Entity) bool { return x == e })
	l.cancelAdd(e)
	l.entities = slices.DeleteFunc(l.entities, func(x Entity) bool { return x == e })

	c := e.entityCore()
	if l.scene != nil {
		if h, ok := e.(RemovedHook); ok {
			h.Removed(l.scene)
		}
		l.scene.emit(SceneEvent{Type: EventEntityRemoved, Entity: e})
	}
	if c.scene == l.scene {
		c.detach()
	}
}

// cancelAdd drops e from the pending-add queue.
func (l *EntityList) cancelAdd(e Entity) {
	if _, ok := l.adding[e]; !ok {
		return
	}
	delete(l.adding, e)
	l.toAdd = slices.DeleteFunc(l.toAdd, func(x Entity) bool { return x == e })
}

// compareDepth orders higher actual depth first.
func compareDepth(a, b Entity) int {
	return cmp.Compare(b.entityCore().actualDepth, a.entityCore().actualDepth)
}

// Update calls Update on every active live entity in depth order.
func (l *EntityList) Update(dt float64) {
	for _, e := range l.entities {
		if !e.entityCore().Active {
			continue
		}
		if u, ok := e.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Render calls Render on every visible live entity in depth order.
func (l *EntityList) Render(ctx *RenderContext) {
	for _, e := range l.entities {
		if !e.entityCore().Visible {
			continue
		}
		if d, ok := e.(Drawer); ok {
			d.Render(ctx)
		}
	}
}

// DebugRender calls DebugRender on every live entity in depth order.
func (l *EntityList) DebugRender(cam *Camera) {
	for _, e := range l.entities {
		if d, ok := e.(DebugDrawer); ok {
			d.DebugRender(cam)
		}
	}
}

// HasVisible reports whether any live entity is visible.
func (l *EntityList) HasVisible() bool {
	for _, e := range l.entities {
		if e.entityCore().Visible {
			return true
		}
	}
	return false
}

func (l *EntityList) graphicsCreated() {
	for _, e := range l.entities {
		if g, ok := e.(GraphicsCreator); ok {
			g.GraphicsCreated()
		}
	}
}

func (l *EntityList) graphicsReset() {
	for _, e := range l.entities {
		if g, ok := e.(GraphicsResetter); ok {
			g.GraphicsReset()
		}
	}
}

// --- Typed queries ---

// FindFirst returns the first live entity of type T in depth order.
func FindFirst[T Entity](l *EntityList) (T, bool) {
	for _, e := range l.entities {
		if t, ok := e.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every live entity of type T in depth order.
func FindAll[T Entity](l *EntityList) []T {
	var out []T
	for _, e := range l.entities {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Count returns the number of live entities of type T.
func Count[T Entity](l *EntityList) int {
	n := 0
	for _, e := range l.entities {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}

// ForEach calls fn for every live entity of type T. It iterates a snapshot,
// so fn may queue adds and removals freely.
func ForEach[T Entity](l *EntityList, fn func(T)) {
	for _, e := range slices.Clone(l.entities) {
		if t, ok := e.(T); ok {
			fn(t)
		}
	}
}
