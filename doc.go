// Package thicket is a depth-sorted scene engine core for [Ebitengine].
//
// Thicket provides the entity container, renderer pipeline, scene lifecycle
// and 2D camera that a frame-based game loop drives every tick. It does not
// draw sprites or read input; entities and renderers do that themselves
// with plain ebiten calls.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and an
// [Engine] for you:
//
//	scene := thicket.NewScene()
//	scene.AddRenderer(thicket.NewEverythingRenderer(640, 360))
//	scene.Add(thicket.NewEntity("hero"))
//	thicket.Run(scene, thicket.RunConfig{
//		Title: "My Game", Width: 640, Height: 360,
//	})
//
// For full control, drive a [Scene] from your own [ebiten.Game]:
//
//	func (g *Game) Update() error {
//		g.scene.BeforeUpdate(thicket.FrameTime{Raw: 1.0 / 60, Delta: 1.0 / 60})
//		g.scene.Update()
//		g.scene.AfterUpdate()
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.scene.BeforeRender(screen)
//		g.scene.Render(screen)
//		g.scene.AfterRender(screen)
//	}
//
// # Entities
//
// An entity is any type that embeds [EntityCore]. Lifecycle and per-frame
// behavior are opted into by implementing the small hook interfaces
// ([Awaker], [AddedHook], [Updater], [Drawer], ...). [BasicEntity] wires
// the hooks to callback fields for quick prototypes.
//
// Adds and removes are queued and applied together at the start of the next
// frame, so hooks may freely add or remove entities, including themselves.
// Live entities are kept sorted by depth, higher depth first; entities that
// share a depth keep the order they were added in.
//
// # Renderers
//
// A scene renders through its ordered [RendererList]. [EverythingRenderer]
// draws every visible entity through its own [Camera]. Renderers receive a
// [RenderContext] naming the active renderer and camera instead of relying
// on global state.
//
// # Input
//
// The engine polls mouse and keyboard once per update into an [Input]
// snapshot shared through [Scene.Input]. Hit shapes ([HitRect],
// [HitCircle], [HitPolygon]) test the pointer against an entity's position,
// and InjectClick, InjectDrag and InjectKey replace device input for
// scripted runs.
//
// # Pixel-art canvases
//
// [CanvasRenderer] draws the scene into a fixed-resolution offscreen image
// and scales it onto the screen with whole-number scaling:
//
//	canvas := thicket.NewCanvasRenderer(320, 180)
//	scene.AddRenderer(canvas)
//
// # Extras
//
// Tweens via [gween], YAML frame scripts for automated screenshots,
// Lua-scripted entities in thicket/script and a [Donburi] event bridge in
// thicket/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package thicket
