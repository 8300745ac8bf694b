package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLens struct {
	eye, target mgl32.Vec3
}

func (l testLens) Eye() mgl32.Vec3 { return l.eye }

func (l testLens) ViewProjection() mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(75), 1, 0.1, 1000)
	view := mgl32.LookAtV(l.eye, l.target, Vertical)
	return proj.Mul4(view)
}

func TestScreenToNDC(t *testing.T) {
	container := Size{Width: 800, Height: 600}

	tests := []struct {
		name   string
		x, y   float32
		vp     Rect
		expect mgl32.Vec2
	}{
		{"full center", 400, 300, Rect{0, 0, 1, 1}, mgl32.Vec2{0, 0}},
		{"full top left", 0, 0, Rect{0, 0, 1, 1}, mgl32.Vec2{-1, 1}},
		{"full bottom right", 800, 600, Rect{0, 0, 1, 1}, mgl32.Vec2{1, -1}},
		{"right half center", 600, 300, Rect{0.5, 0, 0.5, 1}, mgl32.Vec2{0, 0}},
		{"bottom quarter corner", 400, 450, Rect{0.5, 0.5, 0.5, 0.5}, mgl32.Vec2{-1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ndc, ok := ScreenToNDC(tt.x, tt.y, container, tt.vp)
			require.True(t, ok)
			assert.InDelta(t, tt.expect.X(), ndc.X(), 1e-5)
			assert.InDelta(t, tt.expect.Y(), ndc.Y(), 1e-5)
		})
	}
}

func TestScreenToNDC_Degenerate(t *testing.T) {
	_, ok := ScreenToNDC(10, 10, Size{800, 600}, Rect{0, 0, 0, 1})
	assert.False(t, ok)
	_, ok = ScreenToNDC(10, 10, Size{0, 600}, Rect{0, 0, 1, 1})
	assert.False(t, ok)
}

func TestRectPixelsFloors(t *testing.T) {
	px := Rect{Left: 0.5, Top: 0.25, Width: 0.333, Height: 0.75}.Pixels(Size{Width: 1001, Height: 401})
	assert.Equal(t, PixelRect{X: 500, Y: 100, Width: 333, Height: 300}, px)
	assert.InDelta(t, 1.11, px.Aspect(), 1e-6)
}

func TestRectContains(t *testing.T) {
	r := Rect{Left: 0.5, Top: 0, Width: 0.5, Height: 0.5}
	assert.True(t, r.Contains(0.75, 0.25))
	assert.True(t, r.Contains(0.5, 0.5))
	assert.False(t, r.Contains(0.25, 0.25))
	assert.False(t, r.Contains(0.75, 0.75))
}

func TestNDCToWorldRayDirection_CenterLooksAtTarget(t *testing.T) {
	lens := testLens{eye: mgl32.Vec3{3, -4, 5}, target: mgl32.Vec3{0, 0, 0}}
	dir := NDCToWorldRayDirection(mgl32.Vec2{0, 0}, lens, true)

	expect := lens.target.Sub(lens.eye).Normalize()
	assert.InDelta(t, 1.0, dir.Len(), 1e-5)
	assert.InDelta(t, 1.0, dir.Dot(expect), 1e-4)
}

func TestNDCToWorldRayDirection_RightOfCenterPointsRight(t *testing.T) {
	// Looking along +Y, screen right is world +X.
	lens := testLens{eye: mgl32.Vec3{0, -5, 0}, target: mgl32.Vec3{0, 0, 0}}
	dir := NDCToWorldRayDirection(mgl32.Vec2{0.5, 0}, lens, true)
	assert.Greater(t, dir.X(), float32(0))
	assert.Greater(t, dir.Y(), float32(0))

	up := NDCToWorldRayDirection(mgl32.Vec2{0, 0.5}, lens, true)
	assert.Greater(t, up.Z(), float32(0))
}

func TestIntersectPlane(t *testing.T) {
	p, dist, ok := IntersectPlane(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}, Vertical, mgl32.Vec3{5, 5, 2})
	require.True(t, ok)
	assert.InDelta(t, 8, dist, 1e-6)
	assertVecNear(t, mgl32.Vec3{0, 0, 2}, p)

	_, _, ok = IntersectPlane(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{1, 0, 0}, Vertical, mgl32.Vec3{})
	assert.False(t, ok, "parallel ray must not intersect")
}

func TestClosestOnLine(t *testing.T) {
	// Ray along +X at height 3 passes over the vertical line through origin.
	s, ok := ClosestOnLine(mgl32.Vec3{-5, 0, 3}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}, Vertical)
	require.True(t, ok)
	assert.InDelta(t, 3, s, 1e-5)

	// Slanted ray from a camera up and back, aimed at (0,0,1).
	origin := mgl32.Vec3{0, -4, 5}
	dir := mgl32.Vec3{0, 4, -4}.Normalize()
	s, ok = ClosestOnLine(origin, dir, mgl32.Vec3{}, Vertical)
	require.True(t, ok)
	assert.InDelta(t, 1, s, 1e-5)

	_, ok = ClosestOnLine(mgl32.Vec3{1, 0, 0}, Vertical, mgl32.Vec3{}, Vertical)
	assert.False(t, ok, "vertical ray is parallel to the line")
}

func TestSphericalRoundTrip(t *testing.T) {
	vectors := []mgl32.Vec3{
		{1, 0, 0},
		{0, 3, 0},
		{1, 2, 3},
		{-4, -1, -2},
		{0.5, -0.5, 7},
	}
	for _, v := range vectors {
		s := SphericalFromVec3(v)
		assert.InDelta(t, v.Len(), s.Radius, 1e-5)
		assertVecNear(t, v, s.Vec3(), "round trip of %v gave %v", v, s.Vec3())
	}
}

func TestSphericalPolarAngleIsFromVertical(t *testing.T) {
	s := SphericalFromVec3(mgl32.Vec3{0, 0, 2})
	assert.InDelta(t, 0, s.Phi, 1e-6)

	s = SphericalFromVec3(mgl32.Vec3{2, 0, 0})
	assert.InDelta(t, math.Pi/2, s.Phi, 1e-6)
	assert.InDelta(t, 0, s.Theta, 1e-6)
}

func TestSphericalMakeSafe(t *testing.T) {
	s := Spherical{Radius: 0, Theta: 1, Phi: 0}.MakeSafe()
	assert.Greater(t, s.Phi, float32(0))
	assert.Greater(t, s.Radius, float32(0))

	s = Spherical{Radius: 2, Phi: math.Pi}.MakeSafe()
	assert.Less(t, s.Phi, float32(math.Pi))
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-4, msgAndArgs...)
}
