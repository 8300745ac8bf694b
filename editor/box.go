package editor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/boxannot/core"
)

var (
	DefaultBoxSize = mgl32.Vec3{1, 1, 0.01}

	bodyAlpha     float32 = 0.5
	colorBody             = core.ColorWhite.WithAlpha(bodyAlpha)
	colorSelected         = core.ColorRed.WithAlpha(bodyAlpha)
	colorOutline          = core.ColorWhite
	colorHover            = core.ColorRed
)

// Box is one annotation volume: a translucent body used for hit testing and
// a wireframe outline that mirrors its pose. Pose writes go through the Box
// so the two never drift apart.
type Box struct {
	ID      uuid.UUID
	Body    core.Renderable
	Outline core.Renderable
}

func newBox(center, size mgl32.Vec3) *Box {
	return &Box{
		ID:      uuid.New(),
		Body:    core.NewCube(center, size, colorBody, true),
		Outline: core.NewCube(center, size, colorOutline, false),
	}
}

func (b *Box) Transform() core.Transform { return b.Body.Transform() }
func (b *Box) Position() mgl32.Vec3      { return b.Body.Transform().Position }
func (b *Box) Scale() mgl32.Vec3         { return b.Body.Transform().Scale }

func (b *Box) SetPosition(p mgl32.Vec3) {
	b.Body.SetPosition(p)
	b.syncOutline()
}

func (b *Box) SetScale(s mgl32.Vec3) {
	b.Body.SetScale(s)
	b.syncOutline()
}

// RotateOnAxis rotates the body and copies the resulting orientation to the
// outline, so repeated rotations cannot accumulate a difference.
func (b *Box) RotateOnAxis(axis mgl32.Vec3, angle float32) {
	b.Body.RotateOnAxis(axis, angle)
	b.syncOutline()
}

func (b *Box) WorldToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return b.Body.WorldToLocal(p)
}

func (b *Box) syncOutline() {
	t := b.Body.Transform()
	b.Outline.SetPosition(t.Position)
	b.Outline.SetRotation(t.Rotation)
	b.Outline.SetScale(t.Scale)
}

// InSync reports whether the outline pose equals the body pose.
func (b *Box) InSync() bool {
	bt, ot := b.Body.Transform(), b.Outline.Transform()
	return bt.Position == ot.Position && bt.Rotation == ot.Rotation && bt.Scale == ot.Scale
}
