package boxannot

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/boxannot/editor"
	"github.com/gekko3d/boxannot/geom"
	"github.com/gekko3d/boxannot/input"
)

func newDispatchApp(t *testing.T, cfg Config) (*App, *Dispatcher) {
	t.Helper()
	app, err := NewApp(cfg, nil, nil)
	require.NoError(t, err)
	require.NoError(t, app.Frame(time.Now()))
	return app, app.Dispatcher()
}

func screenOf(t *testing.T, app *App, p mgl32.Vec3) (float32, float32) {
	t.Helper()
	vp := app.Controller().Viewports()[0]
	cfg := app.Config()
	rect := vp.PixelRect(geom.Size{Width: float32(cfg.Width), Height: float32(cfg.Height)})
	x, y, ok := vp.Camera.Project(p, rect)
	require.True(t, ok)
	return x, y
}

func TestDispatchEditSuppressesOrbit(t *testing.T) {
	app, d := newDispatchApp(t, singleViewConfig())
	cam := app.Controller().Viewports()[0].Camera

	d.PointerMove(400, 300)
	require.True(t, d.KeyDown(input.KeyB))
	require.Len(t, app.Engine().Boxes(), 1)
	box := app.Engine().Boxes()[0]

	x, y := screenOf(t, app, mgl32.Vec3{0.2, 0.2, 0.005})
	assert.False(t, d.PointerMove(x, y))
	require.Same(t, box, app.Engine().Hover())

	camPos := cam.Position
	assert.True(t, d.PointerDown())
	assert.Equal(t, editor.Editing, app.Engine().Mode())

	assert.True(t, d.PointerMove(x+15, y))
	assert.Equal(t, camPos, cam.Position, "camera must not orbit during an edit")
	assert.Greater(t, box.Position().X(), float32(0))

	assert.True(t, d.PointerUp())
	assert.Equal(t, editor.Adjusting, app.Engine().Mode())
	assert.False(t, d.State.PointerHeld)
}

func TestDispatchOrbitWhenNotConsumed(t *testing.T) {
	app, d := newDispatchApp(t, singleViewConfig())
	cam := app.Controller().Viewports()[0].Camera

	d.PointerMove(20, 20)
	assert.False(t, d.PointerDown())
	assert.True(t, d.State.PointerHeld)
	assert.True(t, d.State.IsPressed(input.MouseButtonLeft))

	before := cam.Position
	assert.True(t, d.PointerMove(60, 20))
	assert.NotEqual(t, before, cam.Position)
	assert.InDelta(t, before.Len(), cam.Position.Len(), 1e-4)

	assert.False(t, d.PointerUp())
	before = cam.Position
	assert.False(t, d.PointerMove(100, 20))
	assert.Equal(t, before, cam.Position)
}

func TestDispatchDragStaysInStartViewport(t *testing.T) {
	cfg, err := LoadConfig("testdata/two_views.toml")
	require.NoError(t, err)
	app, d := newDispatchApp(t, cfg)
	left := app.Controller().Viewports()[0].Camera
	right := app.Controller().Viewports()[1].Camera

	d.PointerMove(100, 200)
	d.PointerDown()
	rightBefore := right.Position
	leftBefore := left.Position

	d.PointerMove(700, 200)
	assert.Equal(t, "main", app.Controller().Current().Name)
	assert.Equal(t, rightBefore, right.Position)
	assert.NotEqual(t, leftBefore, left.Position)

	d.PointerUp()
	assert.Equal(t, "top", app.Controller().Current().Name)
}

func TestDispatchKeys(t *testing.T) {
	app, d := newDispatchApp(t, singleViewConfig())
	d.PointerMove(400, 300)

	assert.True(t, d.KeyDown(input.KeyUp))
	assert.NotEqual(t, mgl32.Vec3{}, app.Controller().Target())
	assert.True(t, d.State.IsPressed(input.KeyUp))

	assert.True(t, d.KeyDown(input.KeyS))
	assert.Equal(t, editor.OpScale, app.Engine().Op())
	assert.True(t, d.KeyUp(input.KeyS))
	assert.Equal(t, editor.OpMove, app.Engine().Op())
	assert.False(t, d.State.IsPressed(input.KeyS))

	assert.False(t, d.KeyDown(input.KeyQ))
}

func TestDispatchWheelZoomsCurrentViewport(t *testing.T) {
	app, d := newDispatchApp(t, singleViewConfig())
	cam := app.Controller().Viewports()[0].Camera
	r := cam.Position.Len()

	assert.False(t, d.Wheel(8), "no viewport under the pointer yet")

	d.PointerMove(400, 300)
	assert.True(t, d.Wheel(8))
	assert.InDelta(t, r*0.9, cam.Position.Len(), 1e-4)
}

func TestDispatchResize(t *testing.T) {
	app, d := newDispatchApp(t, singleViewConfig())
	d.Resize(1000, 500)
	assert.Equal(t, geom.Size{Width: 1000, Height: 500}, app.Controller().Container())
}

func TestDispatchClickBetweenViewportsDoesNothing(t *testing.T) {
	cfg := singleViewConfig()
	cfg.Viewports[0].Width = 0.6
	app, d := newDispatchApp(t, cfg)

	d.PointerMove(240, 300)
	require.True(t, d.KeyDown(input.KeyB))
	require.True(t, d.KeyDown(input.KeyEnter))
	require.True(t, d.KeyDown(input.KeyEscape))
	require.Len(t, app.Engine().Boxes(), 1)
	box := app.Engine().Boxes()[0]

	x, y := screenOf(t, app, mgl32.Vec3{0.1, 0.1, 0.005})
	d.PointerMove(x, y)
	require.Same(t, box, app.Engine().Hover())

	d.PointerMove(750, 300)
	require.Nil(t, app.Controller().Current())
	assert.Nil(t, app.Engine().Hover())

	assert.False(t, d.PointerDown())
	assert.Nil(t, app.Engine().Selection())
	assert.Equal(t, editor.Standby, app.Engine().Mode())
	d.PointerUp()
}
