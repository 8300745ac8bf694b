package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/geom"
	"github.com/gekko3d/boxannot/input"
)

const markerRadius = 0.03

// Logger is the subset of the application logger used here.
type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

type Settings struct {
	// MouseCorrectionFactor divides pixel deltas into radians and wheel
	// deltas into zoom fractions.
	MouseCorrectionFactor float32
	// MoveCorrectionFactor is the horizontal pan step.
	MoveCorrectionFactor float32
	// ElevateStep is the vertical pan step.
	ElevateStep float32
	// Zoom radius bounds. Zero disables a bound.
	MinZoomRadius float32
	MaxZoomRadius float32
}

func DefaultSettings() Settings {
	return Settings{
		MouseCorrectionFactor: 80,
		MoveCorrectionFactor:  0.3,
		ElevateStep:           0.2,
		MinZoomRadius:         core.DefaultNear,
		MaxZoomRadius:         500,
	}
}

// Controller orbits a set of viewport cameras around one shared target.
type Controller struct {
	scene     core.Scene
	target    mgl32.Vec3
	marker    *core.Shape
	viewports []*Viewport
	current   *Viewport
	container geom.Size
	settings  Settings
	held      bool
	dragging  bool
	log       Logger
}

func NewController(scene core.Scene, target mgl32.Vec3, viewports []Viewport, settings Settings, log Logger) *Controller {
	if log == nil {
		log = nopLogger{}
	}
	if settings.MouseCorrectionFactor == 0 {
		settings.MouseCorrectionFactor = DefaultSettings().MouseCorrectionFactor
	}

	c := &Controller{
		scene:    scene,
		target:   target,
		settings: settings,
		log:      log,
	}

	for i := range viewports {
		vp := viewports[i]
		vp.Camera = core.NewCamera(vp.Eye, 1)
		vp.Camera.LookAt(target)
		c.RotateAzimuth(vp.Camera, 0)
		c.Zoom(vp.Camera, 0)
		c.viewports = append(c.viewports, &vp)
	}

	c.marker = core.NewSphere(target, markerRadius, core.ColorWhite)
	if scene != nil {
		scene.Add(c.marker)
	}
	return c
}

func (c *Controller) Viewports() []*Viewport { return c.viewports }
func (c *Controller) Target() mgl32.Vec3     { return c.target }
func (c *Controller) Marker() *core.Shape    { return c.marker }
func (c *Controller) Current() *Viewport     { return c.current }
func (c *Controller) Container() geom.Size   { return c.container }
func (c *Controller) Settings() Settings     { return c.settings }

func (c *Controller) SetContainerSize(width, height float32) {
	c.container = geom.Size{Width: width, Height: height}
}

// ActiveCamera is the camera of the viewport under the pointer, or nil.
func (c *Controller) ActiveCamera() *core.Camera {
	if c.current == nil {
		return nil
	}
	return c.current.Camera
}

// PointerNDC converts container pixel coordinates into the NDC space of the
// current viewport.
func (c *Controller) PointerNDC(x, y float32) (mgl32.Vec2, bool) {
	if c.current == nil {
		return mgl32.Vec2{}, false
	}
	return geom.ScreenToNDC(x, y, c.container, c.current.Rect)
}

// Zoom scales the camera distance to the target by (1-delta).
func (c *Controller) Zoom(cam *core.Camera, delta float32) {
	s := geom.SphericalFromVec3(cam.Position.Sub(c.target))
	s.Radius *= 1 - delta
	s.Radius = c.clampRadius(s.Radius)
	c.place(cam, s)
}

// RotateFull orbits in azimuth and polar angle.
func (c *Controller) RotateFull(cam *core.Camera, dx, dy float32) {
	s := geom.SphericalFromVec3(cam.Position.Sub(c.target))
	s.Theta += dx
	s.Phi = mgl32.Clamp(s.Phi+dy, 0, math.Pi)
	c.place(cam, s.MakeSafe())
}

// RotateAzimuth orbits about the vertical axis only.
func (c *Controller) RotateAzimuth(cam *core.Camera, dx float32) {
	s := geom.SphericalFromVec3(cam.Position.Sub(c.target))
	s.Theta += dx
	c.place(cam, s.MakeSafe())
}

func (c *Controller) place(cam *core.Camera, s geom.Spherical) {
	cam.Position = c.target.Add(s.Vec3())
	cam.LookAt(c.target)
}

func (c *Controller) clampRadius(r float32) float32 {
	if c.settings.MinZoomRadius > 0 && r < c.settings.MinZoomRadius {
		r = c.settings.MinZoomRadius
	}
	if c.settings.MaxZoomRadius > 0 && r > c.settings.MaxZoomRadius {
		r = c.settings.MaxZoomRadius
	}
	return r
}

// TrackPointer updates the current viewport from the pointer position. The
// current viewport is frozen while the pointer is held.
func (c *Controller) TrackPointer(st *input.State) {
	if c.held {
		return
	}
	if c.container.Width == 0 || c.container.Height == 0 {
		c.current = nil
		return
	}

	x := st.X / c.container.Width
	y := st.Y / c.container.Height
	c.current = nil
	for _, vp := range c.viewports {
		if vp.Rect.Contains(x, y) {
			c.current = vp
			return
		}
	}
}

// PointerDown starts an orbit drag unless the event was consumed upstream.
func (c *Controller) PointerDown(orbit bool) {
	c.held = true
	c.dragging = orbit && c.current != nil
}

func (c *Controller) PointerUp() {
	c.held = false
	c.dragging = false
}

// HandlePointerMove orbits the current camera while a drag is active.
func (c *Controller) HandlePointerMove(st *input.State) bool {
	if !c.dragging || c.current == nil {
		return false
	}

	dx := st.DX() / c.settings.MouseCorrectionFactor
	dy := st.DY() / c.settings.MouseCorrectionFactor
	if c.current.RestrictDrag {
		c.RotateAzimuth(c.current.Camera, dx)
	} else {
		c.RotateFull(c.current.Camera, dx, dy)
	}
	return true
}

// HandleWheel zooms the current camera by deltaY scaled down by the mouse
// correction factor.
func (c *Controller) HandleWheel(deltaY float32) bool {
	if c.current == nil {
		return false
	}
	c.Zoom(c.current.Camera, deltaY/c.settings.MouseCorrectionFactor)
	return true
}

// HandleKeyDown pans the target and every camera together.
func (c *Controller) HandleKeyDown(key input.Key) bool {
	var delta mgl32.Vec3
	switch key {
	case input.KeyPeriod:
		delta = geom.Vertical.Mul(c.settings.ElevateStep)
	case input.KeySlash:
		delta = geom.Vertical.Mul(-c.settings.ElevateStep)
	case input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight:
		forward, ok := c.forward()
		if !ok {
			return false
		}
		left := geom.Vertical.Cross(forward).Normalize().Mul(c.settings.MoveCorrectionFactor)
		switch key {
		case input.KeyUp:
			delta = forward
		case input.KeyDown:
			delta = forward.Mul(-1)
		case input.KeyLeft:
			delta = left
		case input.KeyRight:
			delta = left.Mul(-1)
		}
	default:
		return false
	}

	c.Pan(delta)
	return true
}

// Pan moves the target, the marker and every camera by delta.
func (c *Controller) Pan(delta mgl32.Vec3) {
	c.target = c.target.Add(delta)
	for _, vp := range c.viewports {
		vp.Camera.Position = vp.Camera.Position.Add(delta)
		vp.Camera.LookAt(c.target)
	}
	c.marker.SetPosition(c.target)
	c.log.Debugf("orbit target moved to %v", c.target)
}

// forward is the horizontal camera-to-target direction of the current
// viewport, scaled to one pan step.
func (c *Controller) forward() (mgl32.Vec3, bool) {
	if c.current == nil {
		return mgl32.Vec3{}, false
	}
	f := geom.ProjectHorizontal(c.target.Sub(c.current.Camera.Position))
	if f.Len() < 1e-6 {
		return mgl32.Vec3{}, false
	}
	return f.Normalize().Mul(c.settings.MoveCorrectionFactor), true
}

// Render draws the scene once per viewport into its pixel rectangle.
func (c *Controller) Render() {
	if c.scene == nil {
		return
	}
	for _, vp := range c.viewports {
		px := vp.PixelRect(c.container)
		if px.Width <= 0 || px.Height <= 0 {
			continue
		}
		vp.Camera.SetAspect(px.Aspect())
		c.scene.RenderFrame(vp.Camera, px)
	}
}
