package thicket

import "github.com/hajimehoshi/ebiten/v2"

// Renderer is a draw pass run once per frame by a scene's RendererList.
// Update, BeforeRender and AfterRender are optional; see RenderUpdater,
// BeforeRenderer and AfterRenderer.
type Renderer interface {
	Visible() bool
	Render(ctx *RenderContext)
}

// RenderUpdater advances renderer state during the scene's update phase.
type RenderUpdater interface {
	Update(ctx *RenderContext)
}

// BeforeRenderer prepares offscreen targets before the screen is cleared.
type BeforeRenderer interface {
	BeforeRender(ctx *RenderContext)
}

// AfterRenderer runs after every renderer has drawn.
type AfterRenderer interface {
	AfterRender(ctx *RenderContext)
}

// RendererBase provides the visibility flag for embedding renderers.
// The zero value is visible.
type RendererBase struct {
	hidden bool
}

// Visible reports whether the renderer takes part in the frame.
func (r *RendererBase) Visible() bool { return !r.hidden }

// SetVisible shows or hides the renderer.
func (r *RendererBase) SetVisible(v bool) { r.hidden = !v }

// RenderContext is threaded through every renderer and entity draw call.
// The RendererList overwrites Renderer immediately before each hook, so a
// drawing call made from inside a hook can always resolve the active pass.
type RenderContext struct {
	Scene *Scene
	// Target is the image being drawn to. Nil during the update phase.
	Target *ebiten.Image
	// Renderer is the pass currently executing.
	Renderer Renderer
	// Camera is the view set by the active renderer, or nil for identity.
	Camera *Camera
	// Blend is the blend mode applied by DrawImage.
	Blend BlendMode
	// DeltaTime is the rate-scaled frame delta in seconds.
	DeltaTime float64
}

// reset prepares the context for a new phase.
func (ctx *RenderContext) reset(s *Scene, target *ebiten.Image) {
	*ctx = RenderContext{Scene: s, Target: target}
	if s != nil {
		ctx.DeltaTime = s.frame.Delta
	}
}

// DrawImage draws img onto Target, applying op followed by the active
// camera's view transform. op may be nil.
func (ctx *RenderContext) DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions) {
	if ctx.Target == nil || img == nil {
		return
	}
	var local ebiten.DrawImageOptions
	if op != nil {
		local = *op
	}
	if ctx.Camera != nil {
		local.GeoM.Concat(ctx.Camera.GeoM())
	}
	if op == nil {
		local.Blend = ctx.Blend.EbitenBlend()
	}
	ctx.Target.DrawImage(img, &local)
}

// FillRect draws a solid world-space rectangle through the active camera.
func (ctx *RenderContext) FillRect(r Rect, c Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.Blend = ctx.Blend.EbitenBlend()
	ctx.DrawImage(WhitePixel, &op)
}
