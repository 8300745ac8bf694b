package gpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/geom"
)

func TestUnitMeshes(t *testing.T) {
	vertices, meshes := unitMeshes()

	assert.Equal(t, meshRange{Offset: 0, Count: 36}, meshes[drawFill])
	assert.Equal(t, meshRange{Offset: 36, Count: 24}, meshes[drawCubeLines])
	assert.Equal(t, meshRange{Offset: 60, Count: 192}, meshes[drawSphereLines])
	assert.Len(t, vertices, 252)

	for _, v := range vertices[:60] {
		for _, c := range v.Pos {
			assert.InDelta(t, 0.5, abs(c), 1e-6)
		}
	}
}

func TestCubeEdgesAreAxisAligned(t *testing.T) {
	vertices, meshes := unitMeshes()
	edges := vertices[meshes[drawCubeLines].Offset : meshes[drawCubeLines].Offset+meshes[drawCubeLines].Count]

	for i := 0; i < len(edges); i += 2 {
		a, b := edges[i].Pos, edges[i+1].Pos
		differing := 0
		for axis := 0; axis < 3; axis++ {
			if a[axis] != b[axis] {
				differing++
			}
		}
		assert.Equal(t, 1, differing, "edge %v-%v", a, b)
	}
}

func TestFrameBatchGroupsByKind(t *testing.T) {
	cam := core.NewCamera(mgl32.Vec3{0, -4, 3}, 1)
	cam.LookAt(mgl32.Vec3{})

	body := core.NewCube(mgl32.Vec3{}, mgl32.Vec3{1, 1, 0.01}, core.ColorWhite.WithAlpha(0.5), true)
	outline := core.NewCube(mgl32.Vec3{}, mgl32.Vec3{1, 1, 0.01}, core.ColorWhite, false)
	marker := core.NewSphere(mgl32.Vec3{}, 0.03, core.ColorWhite)
	other := core.NewCube(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 1}, core.ColorRed, false)

	var b FrameBatch
	b.Add(cam, geom.PixelRect{Width: 400, Height: 300}, []core.Renderable{outline, body, marker, other})
	b.Add(cam, geom.PixelRect{X: 400, Width: 400, Height: 300}, []core.Renderable{marker})

	require.Len(t, b.Views, 2)
	require.Len(t, b.Instances, 5)

	first := b.Views[0]
	assert.Equal(t, instanceRange{First: 0, Count: 1}, first.Ranges[drawFill])
	assert.Equal(t, instanceRange{First: 1, Count: 2}, first.Ranges[drawCubeLines])
	assert.Equal(t, instanceRange{First: 3, Count: 1}, first.Ranges[drawSphereLines])

	// Draw order within a kind follows the scene order.
	assert.Equal(t, [4]float32(core.ColorWhite), b.Instances[1].Color)
	assert.Equal(t, [4]float32(core.ColorRed), b.Instances[2].Color)

	second := b.Views[1]
	assert.Equal(t, uint32(0), second.Ranges[drawFill].Count)
	assert.Equal(t, instanceRange{First: 4, Count: 1}, second.Ranges[drawSphereLines])
	assert.Equal(t, 400, second.Rect.X)

	assert.Equal(t, other.Transform().ObjectToWorld(), b.Instances[2].ModelMat)

	b.Reset()
	assert.Empty(t, b.Views)
	assert.Empty(t, b.Instances)
}

func TestViewProjectionDepthRange(t *testing.T) {
	cam := core.NewCamera(mgl32.Vec3{0, -5, 0}, 1)
	cam.LookAt(mgl32.Vec3{})

	var b FrameBatch
	b.Add(cam, geom.PixelRect{Width: 100, Height: 100}, nil)
	vp := b.Views[0].ViewProj

	near := vp.Mul4x1(mgl32.Vec4{0, -5 + core.DefaultNear, 0, 1})
	far := vp.Mul4x1(mgl32.Vec4{0, -5 + core.DefaultFar, 0, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-3)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-3)
}

func TestClampRect(t *testing.T) {
	r, ok := clampRect(geom.PixelRect{X: 700, Y: 0, Width: 200, Height: 600}, 800, 500)
	require.True(t, ok)
	assert.Equal(t, geom.PixelRect{X: 700, Y: 0, Width: 100, Height: 500}, r)

	_, ok = clampRect(geom.PixelRect{X: 900, Width: 10, Height: 10}, 800, 600)
	assert.False(t, ok)

	_, ok = clampRect(geom.PixelRect{Width: 10}, 800, 600)
	assert.False(t, ok)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
