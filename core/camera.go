package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/boxannot/geom"
)

const (
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// Camera is a perspective camera that always looks at Target with Up fixed
// to the world vertical.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FOV      float32 // degrees
	Aspect   float32
	Near     float32
	Far      float32
}

func NewCamera(position mgl32.Vec3, aspect float32) *Camera {
	return &Camera{
		Position: position,
		Up:       geom.Vertical,
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

func (c *Camera) SetAspect(aspect float32) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

func (c *Camera) Eye() mgl32.Vec3 {
	return c.Position
}

// Forward is the unit vector from the camera to its target.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1.0
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world position into container pixel coordinates inside the
// viewport rect. ok is false for points behind the camera or outside rect.
func (c *Camera) Project(pos mgl32.Vec3, rect geom.PixelRect) (float32, float32, bool) {
	clip := c.ViewProjection().Mul4x1(pos.Vec4(1.0))

	// Clip points behind the eye or too close to the near plane
	if clip.W() < c.Near {
		return 0, 0, false
	}

	ndc := clip.Vec3().Mul(1.0 / clip.W())

	w, h := float32(rect.Width), float32(rect.Height)
	x := float32(rect.X) + (ndc.X()*0.5+0.5)*w
	y := float32(rect.Y) + (1.0-(ndc.Y()*0.5+0.5))*h

	if x < float32(rect.X) || x > float32(rect.X)+w || y < float32(rect.Y) || y > float32(rect.Y)+h {
		return x, y, false
	}
	return x, y, true
}

// Frustum extracts the 6 planes of the view frustum.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0 with the normal pointing inside.
func (c *Camera) Frustum() [6]mgl32.Vec4 {
	vp := c.ViewProjection()
	var planes [6]mgl32.Vec4

	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(i, 0), vp.At(i, 1), vp.At(i, 2), vp.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes[0] = r3.Add(r0)
	planes[1] = r3.Sub(r0)
	planes[2] = r3.Add(r1)
	planes[3] = r3.Sub(r1)
	// OpenGL-style -1..1 depth
	planes[4] = r3.Add(r2)
	planes[5] = r3.Sub(r2)

	for i := range planes {
		length := float32(math.Sqrt(float64(planes[i][0]*planes[i][0] + planes[i][1]*planes[i][1] + planes[i][2]*planes[i][2])))
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}
	return planes
}

// SphereVisible tests a bounding sphere against frustum planes.
func SphereVisible(planes [6]mgl32.Vec4, center mgl32.Vec3, radius float32) bool {
	for _, p := range planes {
		if p.Vec3().Dot(center)+p.W() < -radius {
			return false
		}
	}
	return true
}
