package vec

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"Add", Vec2{1, 2}.Add(Vec2{3, 4}), Vec2{4, 6}},
		{"Sub", Vec2{3, 4}.Sub(Vec2{1, 2}), Vec2{2, 2}},
		{"Scale", Vec2{1, -2}.Scale(3), Vec2{3, -6}},
		{"Normalize zero", Vec2{}.Normalize(), Vec2{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.want, 9) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestVec2Length(t *testing.T) {
	if got := (Vec2{3, 4}).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	n := Vec2{10, 0}.Normalize()
	if !n.Equals(Vec2{1, 0}, 9) {
		t.Errorf("Normalize = %v, want {1, 0}", n)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if !got.Equals(Vec3{0, 0, 1}, 9) {
		t.Errorf("Cross = %v, want {0, 0, 1}", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{2, 2, 2}.Normalize()
	if math.Abs(n.Length()-1) > 1e-9 {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}
}
