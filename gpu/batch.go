package gpu

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/geom"
)

// ShapeVertex matches the WGSL VertexInput
type ShapeVertex struct {
	Pos [3]float32
}

// ShapeInstance matches the WGSL instance attributes
type ShapeInstance struct {
	ModelMat mgl32.Mat4
	Color    [4]float32
}

type drawKind int

const (
	drawFill drawKind = iota // translucent cube bodies, triangles
	drawCubeLines
	drawSphereLines
	drawKindCount
)

type meshRange struct {
	Offset, Count uint32
}

type instanceRange struct {
	First, Count uint32
}

// ViewportDraw is one viewport of a frame: where it lands on the surface,
// its camera and the instances drawn through it.
type ViewportDraw struct {
	Rect     geom.PixelRect
	ViewProj mgl32.Mat4
	Ranges   [drawKindCount]instanceRange
}

// FrameBatch collects the viewports of one frame before upload.
type FrameBatch struct {
	Views     []ViewportDraw
	Instances []ShapeInstance
}

// clipCorrection maps OpenGL clip depth [-1,1] onto the [0,1] range of WebGPU.
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (b *FrameBatch) Reset() {
	b.Views = b.Views[:0]
	b.Instances = b.Instances[:0]
}

// Add appends a viewport. Instances are grouped by draw kind so each kind
// is a contiguous range.
func (b *FrameBatch) Add(cam *core.Camera, rect geom.PixelRect, items []core.Renderable) {
	view := ViewportDraw{
		Rect:     rect,
		ViewProj: clipCorrection.Mul4(cam.ViewProjection()),
	}

	for kind := drawKind(0); kind < drawKindCount; kind++ {
		first := uint32(len(b.Instances))
		for _, item := range items {
			if kindOf(item) != kind {
				continue
			}
			b.Instances = append(b.Instances, ShapeInstance{
				ModelMat: item.Transform().ObjectToWorld(),
				Color:    item.Color(),
			})
		}
		view.Ranges[kind] = instanceRange{First: first, Count: uint32(len(b.Instances)) - first}
	}

	b.Views = append(b.Views, view)
}

func kindOf(r core.Renderable) drawKind {
	s, ok := r.(*core.Shape)
	if !ok {
		return drawCubeLines
	}
	switch {
	case s.Kind == core.ShapeSphere:
		return drawSphereLines
	case s.Filled:
		return drawFill
	}
	return drawCubeLines
}

// clampRect limits rect to a width x height surface.
func clampRect(rect geom.PixelRect, width, height int) (geom.PixelRect, bool) {
	x0, y0 := max(rect.X, 0), max(rect.Y, 0)
	x1, y1 := min(rect.X+rect.Width, width), min(rect.Y+rect.Height, height)
	if x1 <= x0 || y1 <= y0 {
		return geom.PixelRect{}, false
	}
	return geom.PixelRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// unitMeshes builds the static vertex data: a unit cube as triangles and as
// edges, and a unit sphere as three great circles.
func unitMeshes() ([]ShapeVertex, [drawKindCount]meshRange) {
	var vertices []ShapeVertex
	var ranges [drawKindCount]meshRange
	add := func(kind drawKind, shape []ShapeVertex) {
		ranges[kind] = meshRange{Offset: uint32(len(vertices)), Count: uint32(len(shape))}
		vertices = append(vertices, shape...)
	}

	lo, hi := float32(-0.5), float32(0.5)
	corner := func(i int) ShapeVertex {
		p := [3]float32{lo, lo, lo}
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				p[axis] = hi
			}
		}
		return ShapeVertex{Pos: p}
	}

	// Faces as corner indices, counter-clockwise seen from outside.
	faces := [6][4]int{
		{0, 2, 3, 1}, // -Z
		{4, 5, 7, 6}, // +Z
		{0, 1, 5, 4}, // -Y
		{2, 6, 7, 3}, // +Y
		{0, 4, 6, 2}, // -X
		{1, 3, 7, 5}, // +X
	}
	var fill []ShapeVertex
	for _, f := range faces {
		fill = append(fill,
			corner(f[0]), corner(f[1]), corner(f[2]),
			corner(f[0]), corner(f[2]), corner(f[3]),
		)
	}
	add(drawFill, fill)

	var edges []ShapeVertex
	for a := 0; a < 8; a++ {
		for axis := 0; axis < 3; axis++ {
			b := a | 1<<axis
			if b != a {
				edges = append(edges, corner(a), corner(b))
			}
		}
	}
	add(drawCubeLines, edges)

	var sphere []ShapeVertex
	const steps = 32
	angleStep := 2.0 * math.Pi / float64(steps)
	for i := 0; i < steps; i++ {
		a1, a2 := float64(i)*angleStep, float64(i+1)*angleStep
		c1, s1 := float32(math.Cos(a1)), float32(math.Sin(a1))
		c2, s2 := float32(math.Cos(a2)), float32(math.Sin(a2))
		sphere = append(sphere,
			ShapeVertex{Pos: [3]float32{c1, s1, 0}}, ShapeVertex{Pos: [3]float32{c2, s2, 0}},
			ShapeVertex{Pos: [3]float32{c1, 0, s1}}, ShapeVertex{Pos: [3]float32{c2, 0, s2}},
			ShapeVertex{Pos: [3]float32{0, c1, s1}}, ShapeVertex{Pos: [3]float32{0, c2, s2}},
		)
	}
	add(drawSphereLines, sphere)

	return vertices, ranges
}
