package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const sphericalEpsilon = 1e-6

// Spherical coordinates around the Z axis. Phi is the polar angle measured
// from +Z, Theta the azimuth in the XY plane measured from +X.
type Spherical struct {
	Radius float32
	Theta  float32
	Phi    float32
}

func SphericalFromVec3(v mgl32.Vec3) Spherical {
	r := v.Len()
	if r == 0 {
		return Spherical{}
	}
	cosPhi := mgl32.Clamp(v.Z()/r, -1, 1)
	return Spherical{
		Radius: r,
		Theta:  float32(math.Atan2(float64(v.Y()), float64(v.X()))),
		Phi:    float32(math.Acos(float64(cosPhi))),
	}
}

func (s Spherical) Vec3() mgl32.Vec3 {
	sinPhi := float32(math.Sin(float64(s.Phi)))
	return mgl32.Vec3{
		s.Radius * sinPhi * float32(math.Cos(float64(s.Theta))),
		s.Radius * sinPhi * float32(math.Sin(float64(s.Theta))),
		s.Radius * float32(math.Cos(float64(s.Phi))),
	}
}

// MakeSafe keeps the coordinates off the poles and away from a zero radius,
// where the azimuth is undefined.
func (s Spherical) MakeSafe() Spherical {
	s.Phi = mgl32.Clamp(s.Phi, sphericalEpsilon, math.Pi-sphericalEpsilon)
	if s.Radius < sphericalEpsilon {
		s.Radius = sphericalEpsilon
	}
	return s
}
