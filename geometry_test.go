package cardtable

import (
	"math"
	"testing"
)

func TestRectContainsEdges(t *testing.T) {
	r := RectAt(Vec2{10, 10}, Vec2{20, 10})
	tests := []struct {
		p    Vec2
		want bool
	}{
		{Vec2{10, 10}, true},
		{Vec2{30, 20}, true},
		{Vec2{20, 15}, true},
		{Vec2{9.9, 15}, false},
		{Vec2{20, 20.1}, false},
	}
	for _, tt := range tests {
		if got := r.ContainsPoint(tt.p); got != tt.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectCenterTranslate(t *testing.T) {
	r := RectAt(Vec2{0, 0}, Vec2{10, 4}).Translate(Vec2{5, -2})
	if r.X != 5 || r.Y != -2 || r.Width != 10 || r.Height != 4 {
		t.Errorf("Translate = %+v", r)
	}
	if c := r.Center(); c != (Vec2{10, 0}) {
		t.Errorf("Center = %v, want (10, 0)", c)
	}
}

func TestVec2(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Add(Vec2{1, 1}).Sub(Vec2{2, 2}).Scale(2); got != (Vec2{4, 6}) {
		t.Errorf("arith = %v, want (4, 6)", got)
	}
	if math.Abs(v.Len()-5) > 1e-12 {
		t.Errorf("Len = %v, want 5", v.Len())
	}
}
