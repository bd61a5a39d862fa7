package thicket

// Entity is a positioned, depth-ordered object owned by a Scene.
//
// Any pointer type that embeds EntityCore is an Entity. Lifecycle behavior is
// opted into by implementing the hook interfaces below; hooks an entity does
// not implement are skipped.
type Entity interface {
	entityCore() *EntityCore
}

// Awaker is called once, at the end of the flush that first attaches the
// entity, after every entity added in that flush has been placed.
type Awaker interface {
	Awake(s *Scene)
}

// AddedHook is called when the entity becomes live in a scene. The entity's
// scene and actual depth are already assigned.
type AddedHook interface {
	Added(s *Scene)
}

// RemovedHook is called when the entity leaves a scene. Scene() still
// reports s for the duration of the call.
type RemovedHook interface {
	Removed(s *Scene)
}

// SceneBeginner is called for every live entity when its scene begins.
type SceneBeginner interface {
	SceneBegin(s *Scene)
}

// SceneEnder is called for every live entity when its scene ends.
type SceneEnder interface {
	SceneEnd(s *Scene)
}

// Updater advances entity logic once per unpaused frame. dt is the
// rate-scaled frame delta in seconds.
type Updater interface {
	Update(dt float64)
}

// Drawer draws the entity. Only visible entities are drawn.
type Drawer interface {
	Render(ctx *RenderContext)
}

// DebugDrawer draws debug overlays for the entity, visible or not.
type DebugDrawer interface {
	DebugRender(cam *Camera)
}

// GraphicsCreator is notified when the graphics device is created.
type GraphicsCreator interface {
	GraphicsCreated()
}

// GraphicsResetter is notified when the graphics device is reset.
type GraphicsResetter interface {
	GraphicsReset()
}

// EntityCore holds the state every entity shares. Embed it by value:
//
//	type Player struct {
//		thicket.EntityCore
//	}
//
//	p := &Player{EntityCore: thicket.NewEntityCore(10, 20)}
type EntityCore struct {
	Position Vec2
	Name     string

	// Active entities receive Update; visible entities receive Render.
	Active  bool
	Visible bool

	depth       int
	actualDepth float64

	// scene is a relation, not ownership: the scene's EntityList owns the entity.
	scene *Scene
	self  Entity
}

// NewEntityCore returns an active, visible core positioned at (x, y).
func NewEntityCore(x, y float64) EntityCore {
	return EntityCore{
		Position: Vec2{X: x, Y: y},
		Active:   true,
		Visible:  true,
	}
}

func (c *EntityCore) entityCore() *EntityCore { return c }

// Scene returns the scene the entity is attached to, or nil when detached.
func (c *EntityCore) Scene() *Scene { return c.scene }

// Depth returns the author-assigned ordering key. Entities with greater
// depth update and render first.
func (c *EntityCore) Depth() int { return c.depth }

// SetDepth changes the ordering key. While attached, the owning scene assigns
// a fresh tie-broken actual depth and the list re-sorts at its next flush.
func (c *EntityCore) SetDepth(depth int) {
	if c.depth == depth {
		return
	}
	c.depth = depth
	if c.scene != nil {
		c.scene.assignActualDepth(c)
	}
}

// ActualDepth returns the tie-broken ordering key. It is meaningful only
// once the entity has been attached to a scene.
func (c *EntityCore) ActualDepth() float64 { return c.actualDepth }

// X returns the horizontal position.
func (c *EntityCore) X() float64 { return c.Position.X }

// Y returns the vertical position.
func (c *EntityCore) Y() float64 { return c.Position.Y }

// SetPosition sets both position components.
func (c *EntityCore) SetPosition(x, y float64) {
	c.Position = Vec2{X: x, Y: y}
}

// RemoveSelf queues the entity for removal from its scene. No-op when
// detached.
func (c *EntityCore) RemoveSelf() {
	if c.scene != nil && c.self != nil {
		c.scene.Remove(c.self)
	}
}

// Closest returns whichever of the given entities is nearest to this one,
// or nil if none are given.
func (c *EntityCore) Closest(entities ...Entity) Entity {
	if len(entities) == 0 {
		return nil
	}
	closest := entities[0]
	dist := c.Position.DistanceSq(closest.entityCore().Position)
	for _, e := range entities[1:] {
		if d := c.Position.DistanceSq(e.entityCore().Position); d < dist {
			closest = e
			dist = d
		}
	}
	return closest
}

// attach binds the core to s and assigns its initial actual depth.
func (c *EntityCore) attach(s *Scene, self Entity) {
	c.scene = s
	c.self = self
	s.assignActualDepth(c)
}

func (c *EntityCore) detach() {
	c.scene = nil
	c.self = nil
}

// Core returns the shared state block of any entity.
func Core(e Entity) *EntityCore { return e.entityCore() }

// BasicEntity is a ready-made entity whose hooks are optional callbacks.
// Nil callbacks are skipped.
type BasicEntity struct {
	EntityCore

	OnAwake       func(s *Scene)
	OnAdded       func(s *Scene)
	OnRemoved     func(s *Scene)
	OnSceneBegin  func(s *Scene)
	OnSceneEnd    func(s *Scene)
	OnUpdate      func(dt float64)
	OnRender      func(ctx *RenderContext)
	OnDebugRender func(cam *Camera)
}

// NewEntity creates an active, visible BasicEntity at the origin.
func NewEntity(name string) *BasicEntity {
	e := &BasicEntity{EntityCore: NewEntityCore(0, 0)}
	e.Name = name
	return e
}

func (e *BasicEntity) Awake(s *Scene) {
	if e.OnAwake != nil {
		e.OnAwake(s)
	}
}

func (e *BasicEntity) Added(s *Scene) {
	if e.OnAdded != nil {
		e.OnAdded(s)
	}
}

func (e *BasicEntity) Removed(s *Scene) {
	if e.OnRemoved != nil {
		e.OnRemoved(s)
	}
}

func (e *BasicEntity) SceneBegin(s *Scene) {
	if e.OnSceneBegin != nil {
		e.OnSceneBegin(s)
	}
}

func (e *BasicEntity) SceneEnd(s *Scene) {
	if e.OnSceneEnd != nil {
		e.OnSceneEnd(s)
	}
}

func (e *BasicEntity) Update(dt float64) {
	if e.OnUpdate != nil {
		e.OnUpdate(dt)
	}
}

func (e *BasicEntity) Render(ctx *RenderContext) {
	if e.OnRender != nil {
		e.OnRender(ctx)
	}
}

func (e *BasicEntity) DebugRender(cam *Camera) {
	if e.OnDebugRender != nil {
		e.OnDebugRender(cam)
	}
}
