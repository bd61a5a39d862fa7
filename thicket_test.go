package thicket

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left edge", 10, 40, true},
		{"right edge", 110, 40, true},
		{"top edge", 50, 20, true},
		{"bottom edge", 50, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
		{"far outside", 999, 999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects ---

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"adjacent bottom", Rect{10, 110, 50, 50}, true},
		{"adjacent left", Rect{-50, 10, 60, 50}, true},
		{"adjacent top", Rect{10, -50, 50, 60}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint left", Rect{-100, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
		{"disjoint below", Rect{10, 111, 50, 50}, false},
		{"same rect", Rect{10, 10, 100, 100}, true},
		{"zero-size at corner", Rect{110, 110, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Intersects(tt.other)
			if got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

// --- BlendMode.EbitenBlend ---

func TestBlendModeEbitenBlend(t *testing.T) {
	modes := []struct {
		mode   BlendMode
		name   string
		expect ebiten.Blend
	}{
		{BlendNormal, "BlendNormal", ebiten.BlendSourceOver},
		{BlendAdd, "BlendAdd", ebiten.BlendLighter},
		{BlendErase, "BlendErase", ebiten.BlendDestinationOut},
		{BlendBelow, "BlendBelow", ebiten.BlendDestinationOver},
		{BlendNone, "BlendNone", ebiten.BlendCopy},
	}
	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.EbitenBlend()
			if got != tt.expect {
				t.Errorf("%s.EbitenBlend() = %v, want %v", tt.name, got, tt.expect)
			}
		})
	}

	zero := ebiten.Blend{}
	for _, mode := range []BlendMode{BlendMultiply, BlendScreen} {
		if mode.EbitenBlend() == zero {
			t.Errorf("BlendMode(%d).EbitenBlend() returned zero blend", mode)
		}
	}
}

// --- Vec2 ---

func TestVec2Arithmetic(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Add(Vec2{1, 1}); got != (Vec2{4, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := v.Sub(Vec2{1, 1}); got != (Vec2{2, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := v.Scale(2); got != (Vec2{6, 8}) {
		t.Errorf("Scale = %v", got)
	}
	assertNear(t, "Len", v.Len(), 5)
	assertNear(t, "DistanceSq", v.DistanceSq(Vec2{}), 25)
	n := v.Normalize()
	assertNear(t, "Normalize.X", n.X, 0.6)
	assertNear(t, "Normalize.Y", n.Y, 0.8)
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero vector should normalize to itself")
	}
	if got := (Vec2{1.5, -1.5}).Floor(); got != (Vec2{1, -2}) {
		t.Errorf("Floor = %v", got)
	}
}

func TestAngleHelpers(t *testing.T) {
	v := AngleToVector(math.Pi/2, 2)
	assertNear(t, "x", v.X, 0)
	assertNear(t, "y", v.Y, 2)
	assertNear(t, "Angle", Angle(Vec2{1, 1}, Vec2{1, 5}), math.Pi/2)
}

// --- Color ---

func TestColorWhite(t *testing.T) {
	if ColorWhite.R != 1 || ColorWhite.G != 1 || ColorWhite.B != 1 || ColorWhite.A != 1 {
		t.Errorf("ColorWhite = %v, want {1,1,1,1}", ColorWhite)
	}
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 4, A: 0.5}.toRGBA()
	if c.R != 127 || c.G != 63 || c.B != 255 || c.A != 127 {
		t.Errorf("toRGBA = %+v, want {127 63 255 127}", c)
	}
}

// --- Errors ---

func TestErrorMessages(t *testing.T) {
	var err error = &BoundsError{Index: 5, Len: 2}
	if err.Error() != "thicket: index 5 out of range [0, 2)" {
		t.Errorf("BoundsError = %q", err.Error())
	}
	err = &InvalidStateError{Op: "camera inverse", Reason: "zoom is zero on an axis"}
	if err.Error() != "thicket: camera inverse: zoom is zero on an axis" {
		t.Errorf("InvalidStateError = %q", err.Error())
	}
	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Error("errors.As should match *InvalidStateError")
	}
}

// --- Benchmarks (verify zero allocations) ---

func BenchmarkRectContains(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Contains(50, 40)
	}
}

func BenchmarkCameraWorldToScreen(b *testing.B) {
	cam := NewCamera(640, 360)
	cam.SetZoom(2)
	b.ReportAllocs()
	for b.Loop() {
		_ = cam.WorldToScreen(Vec2{10, 20})
	}
}
