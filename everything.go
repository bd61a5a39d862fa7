package thicket

// EverythingRenderer draws every visible entity of its scene through its own
// camera. Most scenes need exactly one.
type EverythingRenderer struct {
	RendererBase

	Camera *Camera
	Blend  BlendMode
	// DebugDraw additionally runs every entity's DebugRender hook.
	DebugDraw bool
}

// NewEverythingRenderer creates a renderer with a camera covering a
// viewport of the given size.
func NewEverythingRenderer(width, height float64) *EverythingRenderer {
	return &EverythingRenderer{Camera: NewCamera(width, height)}
}

// Update advances the camera's follow and scroll state.
func (r *EverythingRenderer) Update(ctx *RenderContext) {
	r.Camera.Update(ctx.DeltaTime)
}

// Render draws the scene's entities in depth order.
func (r *EverythingRenderer) Render(ctx *RenderContext) {
	ctx.Camera = r.Camera
	ctx.Blend = r.Blend
	entities := ctx.Scene.Entities()
	entities.Render(ctx)
	if r.DebugDraw {
		entities.DebugRender(r.Camera)
	}
}
