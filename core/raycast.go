package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RaycastHit describes the nearest object hit by a ray.
type RaycastHit struct {
	Hit    bool
	Index  int
	Object Renderable
	T      float32
	Point  mgl32.Vec3
}

// Raycast returns the nearest hit among candidates. Ties keep the earliest
// candidate.
func Raycast(origin, dir mgl32.Vec3, candidates []Renderable) RaycastHit {
	var best RaycastHit
	for i, obj := range candidates {
		if obj == nil {
			continue
		}
		t, ok := obj.IntersectRay(origin, dir)
		if !ok {
			continue
		}
		if !best.Hit || t < best.T {
			best = RaycastHit{
				Hit:    true,
				Index:  i,
				Object: obj,
				T:      t,
				Point:  origin.Add(dir.Mul(t)),
			}
		}
	}
	return best
}
