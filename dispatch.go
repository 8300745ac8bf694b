package boxannot

import (
	"github.com/gekko3d/boxannot/editor"
	"github.com/gekko3d/boxannot/input"
	"github.com/gekko3d/boxannot/orbit"
)

// Dispatcher routes window input to the box editor first and the camera
// controller second. Every method reports whether the event was consumed.
type Dispatcher struct {
	State input.State

	engine     *editor.Engine
	controller *orbit.Controller
}

func NewDispatcher(engine *editor.Engine, controller *orbit.Controller) *Dispatcher {
	return &Dispatcher{engine: engine, controller: controller}
}

func (d *Dispatcher) Resize(width, height int) {
	d.controller.SetContainerSize(float32(width), float32(height))
}

// PointerMove tracks the viewport under the pointer regardless of who
// consumes the move, then lets an active edit take precedence over orbiting.
func (d *Dispatcher) PointerMove(x, y float32) bool {
	d.State.MoveTo(x, y)
	d.controller.TrackPointer(&d.State)

	if d.engine.HandlePointerMove(&d.State) {
		return true
	}
	return d.controller.HandlePointerMove(&d.State)
}

func (d *Dispatcher) PointerDown() bool {
	d.controller.TrackPointer(&d.State)
	d.State.SetPressed(input.MouseButtonLeft, true)

	consumed := d.engine.HandlePointerDown(&d.State)
	d.controller.PointerDown(!consumed)
	d.State.PointerHeld = true
	return consumed
}

func (d *Dispatcher) PointerUp() bool {
	consumed := d.engine.HandlePointerUp(&d.State)
	d.controller.PointerUp()
	d.State.PointerHeld = false
	d.State.SetPressed(input.MouseButtonLeft, false)
	d.controller.TrackPointer(&d.State)
	return consumed
}

func (d *Dispatcher) Wheel(deltaY float32) bool {
	return d.controller.HandleWheel(deltaY)
}

func (d *Dispatcher) KeyDown(key input.Key) bool {
	d.State.SetPressed(key, true)
	if d.engine.HandleKeyDown(key) {
		return true
	}
	return d.controller.HandleKeyDown(key)
}

func (d *Dispatcher) KeyUp(key input.Key) bool {
	d.State.SetPressed(key, false)
	return d.engine.HandleKeyUp(key)
}
