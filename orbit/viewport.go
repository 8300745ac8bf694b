package orbit

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/geom"
)

// Viewport binds one camera to a fractional rectangle of the container.
type Viewport struct {
	Name string
	Rect geom.Rect
	// Eye is the initial camera position.
	Eye mgl32.Vec3
	// RestrictDrag limits mouse orbit to the azimuth.
	RestrictDrag bool

	Camera *core.Camera
}

// PixelRect is the viewport rectangle inside a container of the given size.
func (v *Viewport) PixelRect(container geom.Size) geom.PixelRect {
	return v.Rect.Pixels(container)
}
