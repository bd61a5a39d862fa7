package thicket

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Render target pool ---

// renderTexturePool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. After warmup, Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// targetPool backs every CanvasRenderer. Access is single-threaded.
var targetPool renderTexturePool

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// --- CanvasRenderer ---

// CanvasRenderer draws the scene's entities into a fixed-resolution
// offscreen canvas during BeforeRender, then scales the canvas onto the
// screen during Render. Integer scaling with letterboxing is used whenever
// the screen is at least as large as the canvas.
type CanvasRenderer struct {
	RendererBase

	Camera *Camera
	Blend  BlendMode
	// ClearColor fills the canvas before entities draw. Zero alpha leaves it
	// transparent.
	ClearColor Color
	// Filter is used when scaling the canvas to the screen.
	Filter ebiten.Filter

	width, height int
	target        *ebiten.Image

	scale            float64
	offsetX, offsetY float64
}

// NewCanvasRenderer creates a canvas of the given pixel size with a camera
// covering it.
func NewCanvasRenderer(width, height int) *CanvasRenderer {
	return &CanvasRenderer{
		Camera: NewCamera(float64(width), float64(height)),
		Filter: ebiten.FilterNearest,
		width:  width,
		height: height,
		scale:  1,
	}
}

// Size returns the canvas resolution.
func (r *CanvasRenderer) Size() (int, int) { return r.width, r.height }

// Resize changes the canvas resolution. The backing image is swapped at the
// next BeforeRender.
func (r *CanvasRenderer) Resize(width, height int) {
	r.width, r.height = width, height
	r.Camera.SetViewport(float64(width), float64(height))
}

// Update advances the camera's follow and scroll state.
func (r *CanvasRenderer) Update(ctx *RenderContext) {
	r.Camera.Update(ctx.DeltaTime)
}

// BeforeRender draws every visible entity onto the canvas.
func (r *CanvasRenderer) BeforeRender(ctx *RenderContext) {
	pw, ph := nextPowerOfTwo(r.width), nextPowerOfTwo(r.height)
	if r.target != nil {
		if b := r.target.Bounds(); b.Dx() != pw || b.Dy() != ph {
			targetPool.Release(r.target)
			r.target = nil
		}
	}
	if r.target == nil {
		r.target = targetPool.Acquire(r.width, r.height)
	} else {
		r.target.Clear()
	}
	if r.ClearColor.A > 0 {
		r.target.SubImage(image.Rect(0, 0, r.width, r.height)).(*ebiten.Image).Fill(r.ClearColor.toRGBA())
	}

	screen := ctx.Target
	ctx.Target = r.target
	ctx.Camera = r.Camera
	ctx.Blend = r.Blend
	ctx.Scene.Entities().Render(ctx)
	ctx.Target = screen
}

// Render scales the canvas onto the screen.
func (r *CanvasRenderer) Render(ctx *RenderContext) {
	if r.target == nil || ctx.Target == nil {
		return
	}
	b := ctx.Target.Bounds()
	r.scale, r.offsetX, r.offsetY = fitCanvas(r.width, r.height, b.Dx(), b.Dy())

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.scale, r.scale)
	op.GeoM.Translate(r.offsetX, r.offsetY)
	op.Filter = r.Filter
	ctx.Target.DrawImage(r.target.SubImage(image.Rect(0, 0, r.width, r.height)).(*ebiten.Image), &op)
}

// ScreenToCanvas converts a screen point to canvas pixels using the
// placement of the last Render.
func (r *CanvasRenderer) ScreenToCanvas(p Vec2) Vec2 {
	return Vec2{(p.X - r.offsetX) / r.scale, (p.Y - r.offsetY) / r.scale}
}

// Release returns the canvas image to the shared pool. The next
// BeforeRender acquires a new one.
func (r *CanvasRenderer) Release() {
	targetPool.Release(r.target)
	r.target = nil
}

// fitCanvas returns the scale and offset that center a w x h canvas inside
// a dw x dh screen. Whole-number scales are preferred.
func fitCanvas(w, h, dw, dh int) (scale, ox, oy float64) {
	if w <= 0 || h <= 0 {
		return 1, 0, 0
	}
	sx := float64(dw) / float64(w)
	sy := float64(dh) / float64(h)
	scale = math.Min(sx, sy)
	if scale >= 1 {
		scale = math.Floor(scale)
	}
	ox = math.Floor((float64(dw) - float64(w)*scale) / 2)
	oy = math.Floor((float64(dh) - float64(h)*scale) / 2)
	return scale, ox, oy
}
