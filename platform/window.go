package platform

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/boxannot/input"
)

// WheelScale converts one GLFW scroll step into wheel delta units.
const WheelScale = 8

// EventSink receives translated window input.
type EventSink interface {
	PointerMove(x, y float32) bool
	PointerDown() bool
	PointerUp() bool
	Wheel(deltaY float32) bool
	KeyDown(key input.Key) bool
	KeyUp(key input.Key) bool
}

// Window is the single GLFW window the editor draws into. It must be used
// from the goroutine that opened it.
type Window struct {
	win *glfw.Window
}

func Open(width, height int, title string) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return &Window{win: win}, nil
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

// FramebufferSize is the drawable size in pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Attach routes window callbacks to sink. Cursor positions are converted to
// framebuffer pixels so they share a space with the viewport rectangles.
func (w *Window) Attach(sink EventSink, onResize func(width, height int)) {
	w.win.SetCursorPosCallback(func(win *glfw.Window, x, y float64) {
		sx, sy := w.pixelScale()
		sink.PointerMove(float32(x)*sx, float32(y)*sy)
	})

	w.win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			sink.PointerDown()
		case glfw.Release:
			sink.PointerUp()
		}
	})

	w.win.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		sink.Wheel(ScrollDelta(yoff))
	})

	w.win.SetKeyCallback(func(win *glfw.Window, k glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		key, ok := TranslateKey(k)
		if !ok {
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			sink.KeyDown(key)
		case glfw.Release:
			sink.KeyUp(key)
		}
	})

	if onResize != nil {
		w.win.SetFramebufferSizeCallback(func(win *glfw.Window, width, height int) {
			onResize(width, height)
		})
	}
}

// ScrollDelta converts a GLFW vertical scroll offset into a wheel deltaY.
// Scrolling down is positive, as with browser wheel events.
func ScrollDelta(yoff float64) float32 {
	return float32(-yoff * WheelScale)
}

func (w *Window) pixelScale() (float32, float32) {
	ww, wh := w.win.GetSize()
	fw, fh := w.win.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}
	return float32(fw) / float32(ww), float32(fh) / float32(wh)
}

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
