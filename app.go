package boxannot

import (
	"fmt"
	"time"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/editor"
	"github.com/gekko3d/boxannot/hud"
	"github.com/gekko3d/boxannot/orbit"
)

// Presenter is a FrameRenderer that batches the viewports of one frame and
// submits them together with the status line.
type Presenter interface {
	core.FrameRenderer
	BeginFrame(width, height int)
	SetStatus(text string)
	EndFrame() error
}

// App wires the scene, the camera controller, the box editor and input
// dispatch together.
type App struct {
	cfg        Config
	log        Logger
	scene      *core.RenderList
	controller *orbit.Controller
	engine     *editor.Engine
	dispatcher *Dispatcher
	presenter  Presenter
	clock      FrameClock
	width      int
	height     int
}

// NewApp validates cfg and builds the editor. renderer may be nil, in which
// case frames only update camera aspects.
func NewApp(cfg Config, log Logger, renderer core.FrameRenderer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new app: %w", err)
	}
	if log == nil {
		log = NewNopLogger()
	}

	app := &App{cfg: cfg, log: log}
	app.scene = core.NewRenderList(renderer)
	if p, ok := renderer.(Presenter); ok {
		app.presenter = p
	}

	app.controller = orbit.NewController(app.scene, cfg.TargetVec(), cfg.OrbitViewports(), cfg.OrbitSettings(), log.Named("orbit"))
	app.engine = editor.NewEngine(app.scene, app.controller, log.Named("editor"))
	app.engine.RotateFactor = cfg.MouseCorrectionFactor
	app.dispatcher = NewDispatcher(app.engine, app.controller)
	app.Resize(cfg.Width, cfg.Height)

	log.Infof("editor ready with %d viewports", len(cfg.Viewports))
	return app, nil
}

func (app *App) Config() Config                { return app.cfg }
func (app *App) Scene() *core.RenderList       { return app.scene }
func (app *App) Controller() *orbit.Controller { return app.controller }
func (app *App) Engine() *editor.Engine        { return app.engine }
func (app *App) Dispatcher() *Dispatcher       { return app.dispatcher }
func (app *App) Clock() FrameClock             { return app.clock }

func (app *App) Resize(width, height int) {
	app.width, app.height = width, height
	app.dispatcher.Resize(width, height)
}

// Status is the text shown in the status line.
func (app *App) Status() string {
	return hud.StatusLine(app.engine.Mode(), app.engine.Op(), len(app.engine.Boxes()), app.clock.FPS())
}

// Frame renders every viewport once. It is called once per display refresh.
func (app *App) Frame(now time.Time) error {
	app.clock.Tick(now)

	if app.presenter == nil {
		app.controller.Render()
		return nil
	}

	app.presenter.BeginFrame(app.width, app.height)
	app.controller.Render()
	app.presenter.SetStatus(app.Status())
	if err := app.presenter.EndFrame(); err != nil {
		app.log.Errorf("frame failed: %v", err)
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}
