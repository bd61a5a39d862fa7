package thicket

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps between world and screen space. Setters only mark the cached
// matrices dirty; they are rebuilt the next time either one is read.
//
// Forward transform, applied to a world point:
//
//	Translate(-floor(Position)) -> Rotate(Angle) -> Scale(Zoom) -> Translate(floor(Origin))
type Camera struct {
	position Vec2
	zoom     Vec2
	angle    float64
	origin   Vec2
	viewport Rect

	matrix     [6]float64
	inverse    [6]float64
	degenerate bool
	dirty      bool

	followTarget Entity
	followOffset Vec2
	followLerp   float64

	boundsEnabled bool
	bounds        Rect

	scrollTween *scrollAnim
}

// NewCamera creates a camera with unit zoom for a viewport of the given size.
func NewCamera(width, height float64) *Camera {
	return &Camera{
		zoom:     Vec2{1, 1},
		viewport: Rect{Width: width, Height: height},
		dirty:    true,
	}
}

// Position returns the world point mapped to Origin on screen.
func (c *Camera) Position() Vec2 { return c.position }

// SetPosition moves the camera.
func (c *Camera) SetPosition(p Vec2) {
	c.position = p
	c.dirty = true
}

// X returns the horizontal position.
func (c *Camera) X() float64 { return c.position.X }

// SetX sets the horizontal position.
func (c *Camera) SetX(x float64) {
	c.position.X = x
	c.dirty = true
}

// Y returns the vertical position.
func (c *Camera) Y() float64 { return c.position.Y }

// SetY sets the vertical position.
func (c *Camera) SetY(y float64) {
	c.position.Y = y
	c.dirty = true
}

// Zoom returns the horizontal zoom factor.
func (c *Camera) Zoom() float64 { return c.zoom.X }

// ZoomXY returns both zoom factors.
func (c *Camera) ZoomXY() Vec2 { return c.zoom }

// SetZoom sets a uniform zoom factor. Zero zoom makes the camera degenerate.
func (c *Camera) SetZoom(z float64) {
	c.zoom = Vec2{z, z}
	c.dirty = true
}

// SetZoomXY sets independent horizontal and vertical zoom factors.
func (c *Camera) SetZoomXY(zx, zy float64) {
	c.zoom = Vec2{zx, zy}
	c.dirty = true
}

// Angle returns the rotation in radians.
func (c *Camera) Angle() float64 { return c.angle }

// SetAngle sets the rotation in radians.
func (c *Camera) SetAngle(a float64) {
	c.angle = a
	c.dirty = true
}

// Origin returns the screen-space pivot.
func (c *Camera) Origin() Vec2 { return c.origin }

// SetOrigin sets the screen-space pivot that Position maps to.
func (c *Camera) SetOrigin(o Vec2) {
	c.origin = o
	c.dirty = true
}

// Viewport returns the screen rectangle the camera covers.
func (c *Camera) Viewport() Rect { return c.viewport }

// SetViewport resizes the camera's screen rectangle.
func (c *Camera) SetViewport(width, height float64) {
	c.viewport = Rect{Width: width, Height: height}
	c.dirty = true
}

// CenterOrigin places the pivot at the viewport center.
func (c *Camera) CenterOrigin() {
	c.SetOrigin(Vec2{c.viewport.Width / 2, c.viewport.Height / 2})
}

// RoundPosition snaps the position to whole units.
func (c *Camera) RoundPosition() {
	c.SetPosition(Vec2{math.Round(c.position.X), math.Round(c.position.Y)})
}

// CopyFrom copies position, origin, angle and zoom from other.
func (c *Camera) CopyFrom(other *Camera) {
	c.position = other.position
	c.origin = other.origin
	c.angle = other.angle
	c.zoom = other.zoom
	c.dirty = true
}

// MarkDirty forces a recomputation of the matrices on next read.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// refresh rebuilds both matrices if any input changed since the last read.
func (c *Camera) refresh() {
	if !c.dirty {
		return
	}
	c.dirty = false

	pos := c.position.Floor()
	origin := c.origin.Floor()

	m := translateAffine(-pos.X, -pos.Y)
	m = multiplyAffine(rotateAffine(c.angle), m)
	m = multiplyAffine(scaleAffine(c.zoom.X, c.zoom.Y), m)
	m = multiplyAffine(translateAffine(origin.X, origin.Y), m)

	c.matrix = m
	inv, ok := invertAffine(m)
	c.inverse = inv
	c.degenerate = !ok || c.zoom.X == 0 || c.zoom.Y == 0
}

// Matrix returns the world-to-screen transform.
func (c *Camera) Matrix() [6]float64 {
	c.refresh()
	return c.matrix
}

// Inverse returns the screen-to-world transform. It fails with an
// *InvalidStateError when a zoom factor is zero.
func (c *Camera) Inverse() ([6]float64, error) {
	c.refresh()
	if c.degenerate {
		return identityTransform, &InvalidStateError{Op: "camera inverse", Reason: "zoom is zero on an axis"}
	}
	return c.inverse, nil
}

// GeoM returns the world-to-screen transform for ebiten draw options.
func (c *Camera) GeoM() ebiten.GeoM {
	return affineGeoM(c.Matrix())
}

// WorldToScreen converts a world-space point to screen space.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	x, y := transformPoint(c.Matrix(), p.X, p.Y)
	return Vec2{x, y}
}

// ScreenToWorld converts a screen-space point to world space.
func (c *Camera) ScreenToWorld(p Vec2) (Vec2, error) {
	inv, err := c.Inverse()
	if err != nil {
		return Vec2{}, err
	}
	x, y := transformPoint(inv, p.X, p.Y)
	return Vec2{x, y}, nil
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's
// visible area in world space.
func (c *Camera) VisibleBounds() (Rect, error) {
	inv, err := c.Inverse()
	if err != nil {
		return Rect{}, err
	}

	vr := c.viewport.Width
	vb := c.viewport.Height

	// Transform the four viewport corners to world space.
	x0, y0 := transformPoint(inv, 0, 0)
	x1, y1 := transformPoint(inv, vr, 0)
	x2, y2 := transformPoint(inv, vr, vb)
	x3, y3 := transformPoint(inv, 0, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, nil
}

// Approach moves the camera toward target by ease times the remaining
// distance.
func (c *Camera) Approach(target Vec2, ease float64) {
	c.SetPosition(c.position.Add(target.Sub(c.position).Scale(ease)))
}

// ApproachMax is Approach with the per-call displacement clamped to
// maxDistance.
func (c *Camera) ApproachMax(target Vec2, ease, maxDistance float64) {
	move := target.Sub(c.position).Scale(ease)
	if move.Len() > maxDistance {
		move = move.Normalize().Scale(maxDistance)
	}
	c.SetPosition(c.position.Add(move))
}

// --- Follow, scroll and bounds ---

// Follow makes the camera track a target entity with the given offset and
// lerp factor. A lerp of 1.0 snaps immediately; lower values give smoother
// following. Tracking stops by itself once the target leaves its scene.
func (c *Camera) Follow(target Entity, offset Vec2, lerp float64) {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds.
func (c *Camera) ScrollTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.position.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(c.position.Y), float32(target.Y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// SetBounds enables clamping so the visible area stays within bounds.
func (c *Camera) SetBounds(bounds Rect) {
	c.boundsEnabled = true
	c.bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.boundsEnabled = false
}

// Update advances follow, scroll, and bounds clamping by dt seconds.
// Renderers that own a camera call this from their update hook.
func (c *Camera) Update(dt float64) {
	if c.followTarget != nil {
		core := c.followTarget.entityCore()
		if core.scene == nil {
			c.followTarget = nil
		} else {
			c.Approach(core.Position.Add(c.followOffset), c.followLerp)
		}
	}

	if c.scrollTween != nil {
		pos := c.position
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(float32(dt))
			pos.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(float32(dt))
			pos.Y = float64(val)
			c.scrollTween.doneY = done
		}
		c.SetPosition(pos)
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.boundsEnabled {
		c.clampToBounds()
	}
}

// ClampToBounds immediately applies bounds clamping. No-op when bounds are
// disabled.
func (c *Camera) ClampToBounds() {
	if c.boundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts the position so the unrotated visible area stays
// within bounds. If bounds are smaller than the visible area, the view is
// centered on them.
func (c *Camera) clampToBounds() {
	if c.zoom.X == 0 || c.zoom.Y == 0 {
		return
	}
	pos := c.position
	pos.X = clampAxis(pos.X, c.bounds.X, c.bounds.Width, c.viewport.Width, c.origin.X, c.zoom.X)
	pos.Y = clampAxis(pos.Y, c.bounds.Y, c.bounds.Height, c.viewport.Height, c.origin.Y, c.zoom.Y)
	if pos != c.position {
		c.SetPosition(pos)
	}
}

// clampAxis clamps one position component. The visible world span on this
// axis is [p - origin/zoom, p + (view-origin)/zoom].
func clampAxis(p, lo, span, view, origin, zoom float64) float64 {
	minP := lo + origin/zoom
	maxP := lo + span - (view-origin)/zoom
	if minP > maxP {
		return lo + span/2 - (view/2-origin)/zoom
	}
	return math.Max(minP, math.Min(p, maxP))
}
