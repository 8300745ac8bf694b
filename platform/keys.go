package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/boxannot/input"
)

var keyFromGlfw = map[glfw.Key]input.Key{
	glfw.KeyA:            input.KeyA,
	glfw.KeyB:            input.KeyB,
	glfw.KeyC:            input.KeyC,
	glfw.KeyD:            input.KeyD,
	glfw.KeyE:            input.KeyE,
	glfw.KeyF:            input.KeyF,
	glfw.KeyG:            input.KeyG,
	glfw.KeyH:            input.KeyH,
	glfw.KeyI:            input.KeyI,
	glfw.KeyJ:            input.KeyJ,
	glfw.KeyK:            input.KeyK,
	glfw.KeyL:            input.KeyL,
	glfw.KeyM:            input.KeyM,
	glfw.KeyN:            input.KeyN,
	glfw.KeyO:            input.KeyO,
	glfw.KeyP:            input.KeyP,
	glfw.KeyQ:            input.KeyQ,
	glfw.KeyR:            input.KeyR,
	glfw.KeyS:            input.KeyS,
	glfw.KeyT:            input.KeyT,
	glfw.KeyU:            input.KeyU,
	glfw.KeyV:            input.KeyV,
	glfw.KeyW:            input.KeyW,
	glfw.KeyX:            input.KeyX,
	glfw.KeyY:            input.KeyY,
	glfw.KeyZ:            input.KeyZ,
	glfw.Key0:            input.Key0,
	glfw.Key1:            input.Key1,
	glfw.Key2:            input.Key2,
	glfw.Key3:            input.Key3,
	glfw.Key4:            input.Key4,
	glfw.Key5:            input.Key5,
	glfw.Key6:            input.Key6,
	glfw.Key7:            input.Key7,
	glfw.Key8:            input.Key8,
	glfw.Key9:            input.Key9,
	glfw.KeySpace:        input.KeySpace,
	glfw.KeyEnter:        input.KeyEnter,
	glfw.KeyKPEnter:      input.KeyEnter,
	glfw.KeyEscape:       input.KeyEscape,
	glfw.KeyTab:          input.KeyTab,
	glfw.KeyBackspace:    input.KeyBackspace,
	glfw.KeyDelete:       input.KeyDelete,
	glfw.KeyRight:        input.KeyRight,
	glfw.KeyLeft:         input.KeyLeft,
	glfw.KeyDown:         input.KeyDown,
	glfw.KeyUp:           input.KeyUp,
	glfw.KeyPeriod:       input.KeyPeriod,
	glfw.KeySlash:        input.KeySlash,
	glfw.KeyMinus:        input.KeyMinus,
	glfw.KeyEqual:        input.KeyEqual,
	glfw.KeyLeftShift:    input.KeyShift,
	glfw.KeyRightShift:   input.KeyShift,
	glfw.KeyLeftControl:  input.KeyControl,
	glfw.KeyRightControl: input.KeyControl,
	glfw.KeyLeftAlt:      input.KeyLeftAlt,
}

// TranslateKey maps a GLFW key to the editor key set.
func TranslateKey(k glfw.Key) (input.Key, bool) {
	key, ok := keyFromGlfw[k]
	return key, ok
}
