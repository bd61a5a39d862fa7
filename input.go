package thicket

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyModifiers is a bitmask of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	mouseButtonCount
)

// --- Hit shapes ---

// HitShape is a pointer hit area in coordinates local to an entity's position.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside the polygon using a
// cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := range n {
		a, b := p.Points[i], p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Input ---

// syntheticPointerEvent is a queued pointer event in screen coordinates.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// Input is a per-frame snapshot of the mouse and keyboard. The engine polls
// it once before each update; entities read it through Scene.Input.
//
// Injected events replace device input for the frame that consumes them, one
// pointer event per frame, which lets frame scripts and tests drive
// interaction deterministically.
type Input struct {
	cursor     Vec2
	down, prev [mouseButtonCount]bool
	mods       KeyModifiers

	keys        []ebiten.Key
	justPressed []ebiten.Key

	pointerQueue []syntheticPointerEvent
	keyQueue     []ebiten.Key
}

// poll refreshes the snapshot from injected events, or from the devices when
// nothing was injected.
func (in *Input) poll() {
	if in.advance() {
		return
	}
	mx, my := ebiten.CursorPosition()
	in.cursor = Vec2{float64(mx), float64(my)}
	in.down[MouseButtonLeft] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.down[MouseButtonRight] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	in.down[MouseButtonMiddle] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	in.mods = readModifiers()
	in.keys = inpututil.AppendPressedKeys(in.keys)
	in.justPressed = inpututil.AppendJustPressedKeys(in.justPressed)
}

// advance starts a new frame and consumes at most one injected pointer event
// and one injected key. It reports whether anything was consumed.
func (in *Input) advance() bool {
	in.prev = in.down
	in.keys = in.keys[:0]
	in.justPressed = in.justPressed[:0]

	consumed := false
	if len(in.pointerQueue) > 0 {
		ev := in.pointerQueue[0]
		in.pointerQueue = in.pointerQueue[1:]
		in.cursor = Vec2{ev.x, ev.y}
		in.down[ev.button] = ev.pressed
		consumed = true
	}
	if len(in.keyQueue) > 0 {
		k := in.keyQueue[0]
		in.keyQueue = in.keyQueue[1:]
		in.keys = append(in.keys, k)
		in.justPressed = append(in.justPressed, k)
		consumed = true
	}
	return consumed
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// Cursor returns the pointer position in screen coordinates.
func (in *Input) Cursor() Vec2 { return in.cursor }

// CursorWorld returns the pointer position in cam's world space. A nil
// camera is the identity.
func (in *Input) CursorWorld(cam *Camera) (Vec2, error) {
	if cam == nil {
		return in.cursor, nil
	}
	return cam.ScreenToWorld(in.cursor)
}

// ButtonDown reports whether b is held.
func (in *Input) ButtonDown(b MouseButton) bool { return in.down[b] }

// ButtonPressed reports whether b went down this frame.
func (in *Input) ButtonPressed(b MouseButton) bool { return in.down[b] && !in.prev[b] }

// ButtonReleased reports whether b went up this frame.
func (in *Input) ButtonReleased(b MouseButton) bool { return !in.down[b] && in.prev[b] }

// KeyDown reports whether k is held.
func (in *Input) KeyDown(k ebiten.Key) bool { return slices.Contains(in.keys, k) }

// KeyPressed reports whether k went down this frame.
func (in *Input) KeyPressed(k ebiten.Key) bool { return slices.Contains(in.justPressed, k) }

// Modifiers returns the held modifier keys.
func (in *Input) Modifiers() KeyModifiers { return in.mods }

// Hovering reports whether the pointer, seen through cam, lies inside shape
// placed at e's position. A degenerate camera never hovers.
func (in *Input) Hovering(cam *Camera, e Entity, shape HitShape) bool {
	p, err := in.CursorWorld(cam)
	if err != nil {
		return false
	}
	pos := e.entityCore().Position
	return shape.Contains(p.X-pos.X, p.Y-pos.Y)
}

// --- Injection ---

// InjectPress queues a left-button press at screen coordinates (x, y).
func (in *Input) InjectPress(x, y float64) {
	in.pointerQueue = append(in.pointerQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the left button held.
func (in *Input) InjectMove(x, y float64) {
	in.pointerQueue = append(in.pointerQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a left-button release at screen coordinates (x, y).
func (in *Input) InjectRelease(x, y float64) {
	in.pointerQueue = append(in.pointerQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release. Consumes two frames.
func (in *Input) InjectClick(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectDrag queues a press at from, frames-2 interpolated moves and a
// release at to. The sequence consumes frames frames, minimum 2.
func (in *Input) InjectDrag(from, to Vec2, frames int) {
	frames = max(frames, 2)
	in.InjectPress(from.X, from.Y)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.InjectMove(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t)
	}
	in.InjectRelease(to.X, to.Y)
}

// InjectKey queues a single-frame key press.
func (in *Input) InjectKey(k ebiten.Key) {
	in.keyQueue = append(in.keyQueue, k)
}
