package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertical is the world up axis. The world is Z-up.
var Vertical = mgl32.Vec3{0, 0, 1}

const parallelEpsilon = 1e-6

// Size is a container size in pixels.
type Size struct {
	Width, Height float32
}

// Rect is a viewport rectangle in normalized container coordinates.
type Rect struct {
	Left, Top, Width, Height float32
}

// PixelRect is a viewport rectangle in integer pixels, origin top-left.
type PixelRect struct {
	X, Y, Width, Height int
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.Left && x <= r.Left+r.Width &&
		y >= r.Top && y <= r.Top+r.Height
}

// Pixels floors the rectangle scaled by the container size.
func (r Rect) Pixels(container Size) PixelRect {
	return PixelRect{
		X:      int(math.Floor(float64(container.Width * r.Left))),
		Y:      int(math.Floor(float64(container.Height * r.Top))),
		Width:  int(math.Floor(float64(container.Width * r.Width))),
		Height: int(math.Floor(float64(container.Height * r.Height))),
	}
}

func (p PixelRect) Aspect() float32 {
	if p.Height == 0 {
		return 1
	}
	return float32(p.Width) / float32(p.Height)
}

// ScreenToNDC maps container-relative mouse coordinates into the [-1,1]²
// camera space of the viewport vp. Screen Y grows downward, NDC Y upward.
func ScreenToNDC(mouseX, mouseY float32, container Size, vp Rect) (mgl32.Vec2, bool) {
	if container.Width == 0 || container.Height == 0 || vp.Width == 0 || vp.Height == 0 {
		return mgl32.Vec2{}, false
	}

	x := mouseX / container.Width
	y := mouseY / container.Height

	x = (x - vp.Left) / vp.Width
	y = (y - vp.Top) / vp.Height

	return mgl32.Vec2{2*x - 1, -2*y + 1}, true
}

// Lens is the part of a camera needed to unproject screen points.
type Lens interface {
	Eye() mgl32.Vec3
	ViewProjection() mgl32.Mat4
}

// NDCToWorldRayDirection returns the direction from the camera eye through
// the screen point ndc.
func NDCToWorldRayDirection(ndc mgl32.Vec2, lens Lens, normalize bool) mgl32.Vec3 {
	inv := lens.ViewProjection().Inv()
	p := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), 0.5, 1})
	if p.W() != 0 {
		p = p.Mul(1 / p.W())
	}

	dir := p.Vec3().Sub(lens.Eye())
	if normalize && dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return dir
}

// IntersectPlane intersects the ray origin+t*dir with the plane through point
// with the given normal. It reports false when the ray is parallel to the plane.
func IntersectPlane(origin, dir, normal, point mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	denom := dir.Dot(normal)
	if math.Abs(float64(denom)) < parallelEpsilon {
		return mgl32.Vec3{}, 0, false
	}

	t := point.Sub(origin).Dot(normal) / denom
	return origin.Add(dir.Mul(t)), t, true
}

// ClosestOnLine returns s such that lineOrigin+s*lineDir is the point of the
// line closest to the ray. Both directions should be unit length; for those
// the denominator is 1-(rayDir·lineDir)². Parallel inputs report false.
func ClosestOnLine(rayOrigin, rayDir, lineOrigin, lineDir mgl32.Vec3) (float32, bool) {
	w := lineOrigin.Sub(rayOrigin)
	a := lineDir.Dot(lineDir)
	b := lineDir.Dot(rayDir)
	c := rayDir.Dot(rayDir)
	d := lineDir.Dot(w)
	e := rayDir.Dot(w)

	det := a*c - b*b
	if det < parallelEpsilon {
		return 0, false
	}
	return (b*e - c*d) / det, true
}

// ProjectHorizontal drops the vertical component of v.
func ProjectHorizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), v.Y(), 0}
}
