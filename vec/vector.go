// Package vec provides small vector math helpers for simulation components.
package vec

import (
	"fmt"
	"math"
)

// Vec2 is a two-dimensional vector.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) String() string {
	return fmt.Sprintf("{%.2f, %.2f}", v.X, v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale multiplies both components by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector; the zero vector normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Equals compares componentwise to the given decimal precision.
func (v Vec2) Equals(o Vec2, precision int) bool {
	p := math.Pow(10, float64(-precision))
	return nearlyEquals(v.X, o.X, p) && nearlyEquals(v.Y, o.Y, p)
}

// Vec3 is a three-dimensional vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("{%.2f, %.2f, %.2f}", v.X, v.Y, v.Z)
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the right-handed cross product.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func (v Vec3) Equals(o Vec3, precision int) bool {
	p := math.Pow(10, float64(-precision))
	return nearlyEquals(v.X, o.X, p) && nearlyEquals(v.Y, o.Y, p) && nearlyEquals(v.Z, o.Z, p)
}

func nearlyEquals(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
