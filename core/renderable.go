package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Color [4]float32

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorRed   = Color{1, 0, 0, 1}
)

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Renderable is an object the Scene can draw and the editor can pose.
type Renderable interface {
	Transform() Transform
	SetPosition(p mgl32.Vec3)
	SetRotation(q mgl32.Quat)
	SetScale(s mgl32.Vec3)
	RotateOnAxis(axis mgl32.Vec3, angle float32)
	WorldToLocal(p mgl32.Vec3) mgl32.Vec3
	// IntersectRay returns the ray parameter of the nearest front hit.
	IntersectRay(origin, dir mgl32.Vec3) (float32, bool)
	Color() Color
	SetColor(c Color)
}

type ShapeKind int

const (
	ShapeCube   ShapeKind = iota // unit cube -0.5..0.5
	ShapeSphere                  // unit sphere, radius 1
)

// Shape is the concrete Renderable: a unit cube or sphere posed by a
// Transform. Filled shapes are drawn as translucent bodies, others as
// wireframe outlines.
type Shape struct {
	Kind   ShapeKind
	Filled bool

	transform Transform
	color     Color
}

func NewCube(center, size mgl32.Vec3, color Color, filled bool) *Shape {
	t := NewTransform()
	t.Position = center
	t.Scale = size
	return &Shape{Kind: ShapeCube, Filled: filled, transform: t, color: color}
}

func NewSphere(center mgl32.Vec3, radius float32, color Color) *Shape {
	t := NewTransform()
	t.Position = center
	t.Scale = mgl32.Vec3{radius, radius, radius}
	return &Shape{Kind: ShapeSphere, transform: t, color: color}
}

func (s *Shape) Transform() Transform                        { return s.transform }
func (s *Shape) SetPosition(p mgl32.Vec3)                    { s.transform.Position = p }
func (s *Shape) SetRotation(q mgl32.Quat)                    { s.transform.Rotation = q }
func (s *Shape) SetScale(v mgl32.Vec3)                       { s.transform.Scale = v }
func (s *Shape) Color() Color                                { return s.color }
func (s *Shape) SetColor(c Color)                            { s.color = c }
func (s *Shape) WorldToLocal(p mgl32.Vec3) mgl32.Vec3        { return s.transform.WorldToLocal(p) }
func (s *Shape) RotateOnAxis(axis mgl32.Vec3, angle float32) { s.transform = s.transform.RotateOnAxis(axis, angle) }

// BoundingRadius is the radius of a world-space sphere enclosing the shape.
func (s *Shape) BoundingRadius() float32 {
	sc := s.transform.Scale
	switch s.Kind {
	case ShapeSphere:
		return max(abs32(sc.X()), abs32(sc.Y()), abs32(sc.Z()))
	default:
		return 0.5 * sc.Len()
	}
}

// IntersectRay casts in object space so rotation and non-uniform scale are
// handled by the inverse transform. The affine map keeps the ray parameter,
// so the returned t is valid for the world ray.
func (s *Shape) IntersectRay(origin, dir mgl32.Vec3) (float32, bool) {
	w2o := s.transform.WorldToObject()
	lo := w2o.Mul4x1(origin.Vec4(1.0)).Vec3()
	ld := w2o.Mul4x1(dir.Vec4(0.0)).Vec3()

	switch s.Kind {
	case ShapeCube:
		return intersectUnitCube(lo, ld)
	case ShapeSphere:
		return intersectUnitSphere(lo, ld)
	}
	return 0, false
}

func intersectUnitCube(o, d mgl32.Vec3) (float32, bool) {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for i := 0; i < 3; i++ {
		if abs32(d[i]) < 1e-12 {
			if o[i] < -0.5 || o[i] > 0.5 {
				return 0, false
			}
			continue
		}
		inv := 1.0 / d[i]
		t1 := (-0.5 - o[i]) * inv
		t2 := (0.5 - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Only front faces count; a ray starting inside misses.
	if tMin < 0 {
		return 0, false
	}
	return tMin, true
}

func intersectUnitSphere(o, d mgl32.Vec3) (float32, bool) {
	a := d.Dot(d)
	if a == 0 {
		return 0, false
	}
	b := 2 * o.Dot(d)
	c := o.Dot(o) - 1
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - float32(math.Sqrt(float64(disc)))) / (2 * a)
	if t < 0 {
		return 0, false
	}
	return t, true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
