package boxannot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/geom"
)

type fakePresenter struct {
	width, height int
	rects         []geom.PixelRect
	drawn         [][]core.Renderable
	status        string
	ended         int
	endErr        error
}

func (p *fakePresenter) BeginFrame(width, height int) {
	p.width, p.height = width, height
	p.rects = nil
	p.drawn = nil
}

func (p *fakePresenter) DrawViewport(cam *core.Camera, rect geom.PixelRect, items []core.Renderable) {
	p.rects = append(p.rects, rect)
	p.drawn = append(p.drawn, items)
}

func (p *fakePresenter) SetStatus(text string) { p.status = text }

func (p *fakePresenter) EndFrame() error {
	p.ended++
	return p.endErr
}

func singleViewConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 800, 600
	cfg.Viewports = []ViewportConfig{
		{Name: "main", Width: 1, Height: 1, Eye: [3]float32{0, -2, 2}},
	}
	return cfg
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewports = nil
	_, err := NewApp(cfg, nil, nil)
	assert.ErrorIs(t, err, ErrNoViewports)
}

func TestAppFramePresentsEveryViewport(t *testing.T) {
	p := &fakePresenter{}
	app, err := NewApp(DefaultConfig(), nil, p)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, app.Frame(start))
	require.NoError(t, app.Frame(start.Add(20*time.Millisecond)))

	assert.Equal(t, 1280, p.width)
	assert.Equal(t, 720, p.height)
	require.Len(t, p.rects, 3)
	assert.Equal(t, geom.PixelRect{X: 0, Y: 0, Width: 896, Height: 720}, p.rects[0])
	assert.Equal(t, 2, p.ended)
	assert.Contains(t, p.status, "STANDBY")
	assert.Contains(t, p.status, "50 fps")
	assert.Equal(t, 20*time.Millisecond, app.Clock().Dt)

	// The target marker is the only renderable so far.
	for _, items := range p.drawn {
		assert.Len(t, items, 1)
	}
}

func TestAppFrameReportsPresentError(t *testing.T) {
	p := &fakePresenter{endErr: errors.New("surface lost")}
	app, err := NewApp(singleViewConfig(), nil, p)
	require.NoError(t, err)

	err = app.Frame(time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface lost")
}

func TestAppWithoutRendererUpdatesAspect(t *testing.T) {
	app, err := NewApp(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, app.Frame(time.Now()))

	top := app.Controller().Viewports()[1]
	assert.InDelta(t, 384.0/360.0, top.Camera.Aspect, 1e-5)
}

func TestAppStatusFollowsEditor(t *testing.T) {
	app, err := NewApp(singleViewConfig(), nil, nil)
	require.NoError(t, err)

	_, ok := app.Engine().AddBoundingBox()
	require.True(t, ok)
	assert.Contains(t, app.Status(), "ADJUSTING")
	assert.Contains(t, app.Status(), "boxes 1")
}
