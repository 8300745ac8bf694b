package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a TRS pose. Rotation is applied in the object's local frame.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

func (t Transform) WorldToObject() mgl32.Mat4 {
	// inv(M) = inv(S) * inv(R) * inv(T)
	invScale := mgl32.Scale3D(1.0/t.Scale.X(), 1.0/t.Scale.Y(), 1.0/t.Scale.Z())
	invRotate := t.Rotation.Conjugate().Mat4()
	invTranslate := mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z())

	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// WorldToLocal maps a world point into object space, scale included.
func (t Transform) WorldToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return t.WorldToObject().Mul4x1(p.Vec4(1.0)).Vec3()
}

// RotateOnAxis rotates by angle radians about an axis given in local space.
func (t Transform) RotateOnAxis(axis mgl32.Vec3, angle float32) Transform {
	q := mgl32.QuatRotate(angle, axis.Normalize())
	t.Rotation = t.Rotation.Mul(q).Normalize()
	return t
}
