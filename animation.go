package thicket

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 2 float64 values simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenZoom, TweenAngle) and
// call Update(dt) each frame. If the target entity leaves its scene after
// having been attached, the group stops immediately.
//
// There is no global animation manager. Entities or renderers own their
// groups and call Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	count  int
	apply  func(vals [2]float64)
	target *EntityCore
	bound  bool
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil {
		if g.target.scene != nil {
			g.bound = true
		} else if g.bound {
			g.Done = true
			return
		}
	}

	var vals [2]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// TweenPosition creates a TweenGroup that moves e to the given position over
// the specified duration using the easing function.
func TweenPosition(e Entity, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := e.entityCore()
	g := &TweenGroup{count: 2, target: c, bound: c.scene != nil}
	g.tweens[0] = gween.New(float32(c.Position.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(c.Position.Y), float32(to.Y), duration, fn)
	g.apply = func(v [2]float64) { c.Position = Vec2{v[0], v[1]} }
	return g
}

// TweenZoom creates a TweenGroup that animates the camera's zoom on both axes.
func TweenZoom(cam *Camera, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	z := cam.ZoomXY()
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(z.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(z.Y), float32(to.Y), duration, fn)
	g.apply = func(v [2]float64) { cam.SetZoomXY(v[0], v[1]) }
	return g
}

// TweenAngle creates a TweenGroup that rotates the camera to the given angle
// in radians.
func TweenAngle(cam *Camera, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(cam.Angle()), float32(to), duration, fn)
	g.apply = func(v [2]float64) { cam.SetAngle(v[0]) }
	return g
}
