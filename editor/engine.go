package editor

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/boxannot/core"
	"github.com/gekko3d/boxannot/geom"
	"github.com/gekko3d/boxannot/input"
)

const (
	DefaultRotateFactor = 80
	minScale            = 0.01
)

// View is the camera side the engine builds pointer rays from.
type View interface {
	ActiveCamera() *core.Camera
	PointerNDC(x, y float32) (mgl32.Vec2, bool)
	Target() mgl32.Vec3
}

type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

// grab is the state captured when an edit begins.
type grab struct {
	point  mgl32.Vec3 // world hit point under the pointer
	normal mgl32.Vec3 // view plane normal for MOVE
	offset mgl32.Vec3 // box position minus point
}

// Engine owns the boxes and the selection/edit state machine.
type Engine struct {
	// RotateFactor converts horizontal pixels into radians for ROTATE.
	RotateFactor float32

	scene core.Scene
	view  View
	log   Logger

	boxes      []*Box
	hover      *Box
	hoverPoint mgl32.Vec3
	selection  *Box
	newBox     *Box

	mode Mode
	op   EditOp
	grab grab
}

func NewEngine(scene core.Scene, view View, log Logger) *Engine {
	if log == nil {
		log = nopLogger{}
	}
	return &Engine{
		RotateFactor: DefaultRotateFactor,
		scene:        scene,
		view:         view,
		log:          log,
	}
}

func (e *Engine) Mode() Mode        { return e.mode }
func (e *Engine) Op() EditOp        { return e.op }
func (e *Engine) Boxes() []*Box     { return e.boxes }
func (e *Engine) Hover() *Box       { return e.hover }
func (e *Engine) Selection() *Box   { return e.selection }
func (e *Engine) IsNew(b *Box) bool { return b != nil && b == e.newBox }

func (e *Engine) setMode(ev event) bool {
	next, ok := transition(e.mode, ev, e.selection != nil)
	if !ok {
		e.log.Debugf("%s rejected in %s", ev, e.mode)
		return false
	}
	if next != e.mode {
		e.log.Debugf("%s -> %s (%s)", e.mode, next, ev)
	}
	e.mode = next
	return true
}

// AddBoundingBox creates a box at the orbit target, selects it and starts
// adjusting it. It does nothing outside Standby.
func (e *Engine) AddBoundingBox() (*Box, bool) {
	if e.mode != Standby {
		e.log.Debugf("add box ignored in %s", e.mode)
		return nil, false
	}

	box := newBox(e.view.Target(), DefaultBoxSize)
	if e.scene != nil {
		e.scene.Add(box.Outline)
		e.scene.Add(box.Body)
	}
	e.boxes = append(e.boxes, box)

	if e.hover != nil {
		e.hover.Outline.SetColor(colorOutline)
	}
	e.hover = box
	e.hoverPoint = box.Position()
	box.Outline.SetColor(colorHover)
	e.Select(box)
	e.newBox = box
	e.setMode(evAddBox)

	e.log.Debugf("box %s created at %v", box.ID, box.Position())
	return box, true
}

// Select toggles box: selecting the current selection clears it, selecting
// another box replaces it.
func (e *Engine) Select(box *Box) {
	prev := e.selection
	e.Deselect()
	if box == nil || prev == box {
		return
	}
	e.selection = box
	box.Body.SetColor(colorSelected)
	e.log.Debugf("selected box %s", box.ID)
}

func (e *Engine) Deselect() {
	if e.selection == nil {
		return
	}
	e.selection.Body.SetColor(colorBody)
	e.log.Debugf("deselected box %s", e.selection.ID)
	e.selection = nil
}

// pointerRay builds the world ray from the active camera through the pointer.
func (e *Engine) pointerRay(x, y float32) (origin, dir mgl32.Vec3, ok bool) {
	cam := e.view.ActiveCamera()
	if cam == nil {
		return origin, dir, false
	}
	ndc, ok := e.view.PointerNDC(x, y)
	if !ok {
		return origin, dir, false
	}
	dir = geom.NDCToWorldRayDirection(ndc, cam, true)
	if dir.Len() == 0 {
		return origin, dir, false
	}
	return cam.Eye(), dir, true
}

// HighlightMouseHover updates the hover box and its highlight from the
// pointer position.
func (e *Engine) HighlightMouseHover(x, y float32) {
	e.clearHover()

	origin, dir, ok := e.pointerRay(x, y)
	if !ok {
		return
	}

	bodies := make([]core.Renderable, len(e.boxes))
	for i, b := range e.boxes {
		bodies[i] = b.Body
	}
	hit := core.Raycast(origin, dir, bodies)
	if !hit.Hit {
		return
	}

	e.hover = e.boxes[hit.Index]
	e.hover.Outline.SetColor(colorHover)
	e.hoverPoint = hit.Point
}

func (e *Engine) clearHover() {
	if e.hover != nil {
		e.hover.Outline.SetColor(colorOutline)
		e.hover = nil
	}
}

// HandlePointerDown selects in Standby and begins an edit in Adjusting. It
// reports true only when an edit begins.
func (e *Engine) HandlePointerDown(st *input.State) bool {
	switch e.mode {
	case Standby:
		if e.hover != nil && e.view.ActiveCamera() != nil {
			e.Select(e.hover)
		}
	case Adjusting:
		if e.hover == nil || e.hover != e.selection {
			return false
		}
		cam := e.view.ActiveCamera()
		if cam == nil || !e.setMode(evBeginEdit) {
			return false
		}
		e.grab = grab{
			point:  e.hoverPoint,
			normal: cam.Forward(),
			offset: e.selection.Position().Sub(e.hoverPoint),
		}
		e.log.Debugf("%s box %s from %v", e.op, e.selection.ID, e.grab.point)
		return true
	}
	return false
}

func (e *Engine) HandlePointerUp(st *input.State) bool {
	if e.mode != Editing {
		return false
	}
	e.setMode(evEndEdit)
	e.op = OpMove
	return true
}

// HandlePointerMove refreshes the hover state and applies the active edit.
// It returns true while editing so the camera does not orbit.
func (e *Engine) HandlePointerMove(st *input.State) bool {
	if e.view.ActiveCamera() == nil {
		// Outside every viewport nothing is under the pointer.
		if e.mode != Editing {
			e.clearHover()
		}
		return false
	}

	if e.mode == Standby || e.mode == Adjusting {
		e.HighlightMouseHover(st.X, st.Y)
	}
	if e.mode != Editing || e.selection == nil {
		return false
	}

	switch e.op {
	case OpMove:
		e.moveAlongViewPlane(st)
	case OpRotate:
		e.rotate(st)
	case OpScale:
		e.scale(st)
	case OpExtrude:
		e.extrude(st)
	}
	return true
}

func (e *Engine) HandleKeyDown(key input.Key) bool {
	switch key {
	case input.KeyEscape:
		return e.Cancel()
	case input.KeyEnter:
		return e.Confirm()
	case input.KeyB:
		_, ok := e.AddBoundingBox()
		return ok
	case input.KeyR, input.KeyS, input.KeyE:
		if e.mode == Editing {
			return false
		}
		e.op = opForKey(key)
		return true
	}
	return false
}

func (e *Engine) HandleKeyUp(key input.Key) bool {
	switch key {
	case input.KeyR, input.KeyS, input.KeyE:
		if e.mode == Editing {
			return false
		}
		e.op = OpMove
		return true
	}
	return false
}

func opForKey(key input.Key) EditOp {
	switch key {
	case input.KeyR:
		return OpRotate
	case input.KeyS:
		return OpScale
	case input.KeyE:
		return OpExtrude
	}
	return OpMove
}

// Cancel deletes the selection if it is a box that was never confirmed,
// clears the selection and returns to Standby.
func (e *Engine) Cancel() bool {
	changed := e.mode != Standby || e.selection != nil
	if e.selection != nil && e.selection == e.newBox {
		e.removeBox(e.selection)
		changed = true
	}
	e.newBox = nil
	e.Deselect()
	e.setMode(evCancel)
	e.op = OpMove
	return changed
}

// Confirm keeps a newly created box so a later Escape only deselects it. In
// Standby it resumes adjusting the selected box.
func (e *Engine) Confirm() bool {
	switch e.mode {
	case Adjusting:
		if e.newBox == nil {
			return false
		}
		e.log.Debugf("box %s confirmed", e.newBox.ID)
		e.newBox = nil
		return true
	case Standby:
		return e.setMode(evResume)
	}
	return false
}

func (e *Engine) removeBox(box *Box) {
	if e.scene != nil {
		e.scene.Remove(box.Outline)
		e.scene.Remove(box.Body)
	}
	e.boxes = slices.DeleteFunc(e.boxes, func(b *Box) bool { return b == box })
	if e.hover == box {
		e.hover = nil
	}
	e.log.Debugf("box %s deleted", box.ID)
}

// moveAlongViewPlane drags the box on the camera-facing plane through the
// grabbed point, keeping the grab offset.
func (e *Engine) moveAlongViewPlane(st *input.State) {
	origin, dir, ok := e.pointerRay(st.X, st.Y)
	if !ok {
		return
	}
	p, t, ok := geom.IntersectPlane(origin, dir, e.grab.normal, e.grab.point)
	if !ok || t <= 0 {
		e.log.Debugf("move skipped, view plane not hit")
		return
	}
	e.selection.SetPosition(p.Add(e.grab.offset))
}

func (e *Engine) rotate(st *input.State) {
	e.selection.RotateOnAxis(geom.Vertical, st.DX()/e.RotateFactor)
}

// scale resizes X/Y symmetrically about the center so the grabbed corner
// follows the pointer on the box's horizontal plane.
func (e *Engine) scale(st *input.State) {
	origin, dir, ok := e.pointerRay(st.X, st.Y)
	if !ok {
		return
	}
	p, t, ok := geom.IntersectPlane(origin, dir, geom.Vertical, e.selection.Position())
	if !ok || t <= 0 {
		e.log.Debugf("scale skipped, box plane not hit")
		return
	}

	local := e.selection.WorldToLocal(p)
	s := e.selection.Scale()
	e.selection.SetScale(mgl32.Vec3{
		max(abs32(2*local.X()*s.X()), minScale),
		max(abs32(2*local.Y()*s.Y()), minScale),
		s.Z(),
	})
}

// extrude sets the height from the point of the vertical line through the
// grab point that is closest to the pointer ray.
func (e *Engine) extrude(st *input.State) {
	origin, dir, ok := e.pointerRay(st.X, st.Y)
	if !ok {
		return
	}
	d, ok := geom.ClosestOnLine(origin, dir, e.grab.point, geom.Vertical)
	if !ok {
		e.log.Debugf("extrude skipped, ray is vertical")
		return
	}

	z := e.grab.point.Z() + d
	s := e.selection.Scale()
	e.selection.SetScale(mgl32.Vec3{
		s.X(),
		s.Y(),
		max(abs32(2*(z-e.selection.Position().Z())), minScale),
	})
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
