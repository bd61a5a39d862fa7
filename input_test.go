package thicket

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Hit shapes ---

func TestHitRectContains(t *testing.T) {
	r := HitRect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		x, y float64
		want bool
	}{
		{50, 40, true},
		{10, 20, true},   // top-left corner
		{110, 70, true},  // bottom-right corner
		{9, 40, false},   // left
		{111, 40, false}, // right
		{50, 19, false},  // above
		{50, 71, false},  // below
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("HitRect.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHitCircleContains(t *testing.T) {
	c := HitCircle{CenterX: 50, CenterY: 50, Radius: 25}

	if !c.Contains(50, 50) {
		t.Error("center should be inside")
	}
	if !c.Contains(75, 50) {
		t.Error("edge should be inside")
	}
	if c.Contains(76, 50) {
		t.Error("outside radius should not be inside")
	}
	if c.Contains(70, 70) {
		t.Error("diagonal outside should not be inside")
	}
}

func TestHitPolygonContains(t *testing.T) {
	tri := HitPolygon{Points: []Vec2{{0, 0}, {100, 0}, {50, 100}}}

	if !tri.Contains(50, 30) {
		t.Error("centroid area should be inside")
	}
	if tri.Contains(0, 100) {
		t.Error("bottom-left should be outside")
	}

	// Reversed winding gives the same answers.
	rev := HitPolygon{Points: []Vec2{{50, 100}, {100, 0}, {0, 0}}}
	if !rev.Contains(50, 30) {
		t.Error("reversed winding: centroid should be inside")
	}

	if (HitPolygon{Points: []Vec2{{0, 0}, {1, 1}}}).Contains(0, 0) {
		t.Error("degenerate polygon should contain nothing")
	}
}

// --- Injection ---

func TestInjectClickSpansTwoFrames(t *testing.T) {
	var in Input
	in.InjectClick(5, 6)

	if !in.advance() {
		t.Fatal("press should be consumed")
	}
	if !in.ButtonPressed(MouseButtonLeft) || !in.ButtonDown(MouseButtonLeft) {
		t.Error("first frame should press the left button")
	}
	if !in.advance() {
		t.Fatal("release should be consumed")
	}
	if !in.ButtonReleased(MouseButtonLeft) || in.ButtonDown(MouseButtonLeft) {
		t.Error("second frame should release the left button")
	}
	if in.advance() {
		t.Error("queue should be empty")
	}
	if in.ButtonReleased(MouseButtonLeft) {
		t.Error("release edge should last one frame")
	}
}

func TestInjectDragInterpolates(t *testing.T) {
	var in Input
	in.InjectDrag(Vec2{0, 0}, Vec2{30, 60}, 4)

	want := []Vec2{{0, 0}, {10, 20}, {20, 40}, {30, 60}}
	for i, w := range want {
		in.advance()
		if got := in.Cursor(); got != w {
			t.Errorf("frame %d cursor = %v, want %v", i, got, w)
		}
	}
	if in.ButtonDown(MouseButtonLeft) {
		t.Error("drag should end released")
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	var in Input
	in.InjectDrag(Vec2{0, 0}, Vec2{10, 10}, 0)
	if len(in.pointerQueue) != 2 {
		t.Errorf("queue length = %d, want 2", len(in.pointerQueue))
	}
}

func TestInjectKeyLastsOneFrame(t *testing.T) {
	var in Input
	in.InjectKey(ebiten.KeyP)
	in.advance()
	if !in.KeyPressed(ebiten.KeyP) || !in.KeyDown(ebiten.KeyP) {
		t.Error("injected key should be pressed for one frame")
	}
	in.advance()
	if in.KeyPressed(ebiten.KeyP) || in.KeyDown(ebiten.KeyP) {
		t.Error("injected key should clear on the next frame")
	}
}

// --- World mapping ---

func TestHovering(t *testing.T) {
	cam := NewCamera(100, 100)
	cam.SetPosition(Vec2{50, 0})
	e := NewEntity("button")
	e.SetPosition(60, 10)

	var in Input
	in.InjectMove(15, 15) // world (65, 15)
	in.advance()

	if !in.Hovering(cam, e, HitRect{Width: 10, Height: 10}) {
		t.Error("pointer should hover the entity through the camera")
	}
	if in.Hovering(nil, e, HitRect{Width: 10, Height: 10}) {
		t.Error("without a camera the pointer is at (15, 15), outside the entity")
	}

	cam.SetZoom(0)
	if in.Hovering(cam, e, HitRect{Width: 10, Height: 10}) {
		t.Error("degenerate camera should never hover")
	}
}

func TestSceneInputFollowsEngine(t *testing.T) {
	s := NewScene()
	if s.Input() == nil {
		t.Fatal("new scene should report an idle input")
	}
	e := newTestEngine()
	e.SetScene(s)
	e.Step(frameDelta)
	if s.Input() != e.Input() {
		t.Error("scene should share the engine's input after beginning")
	}
}
