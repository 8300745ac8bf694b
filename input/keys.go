package input

type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyPeriod
	KeySlash
	KeyMinus
	KeyEqual
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	KeyCount
)

var keyNames = map[Key]string{
	KeyEnter:          "Enter",
	KeyEscape:         "Escape",
	KeySpace:          "Space",
	KeyTab:            "Tab",
	KeyBackspace:      "Backspace",
	KeyDelete:         "Delete",
	KeyRight:          "Right",
	KeyLeft:           "Left",
	KeyDown:           "Down",
	KeyUp:             "Up",
	KeyPeriod:         ".",
	KeySlash:          "/",
	KeyMinus:          "-",
	KeyEqual:          "=",
	KeyShift:          "Shift",
	KeyControl:        "Control",
	KeyLeftAlt:        "Alt",
	MouseButtonLeft:   "MouseLeft",
	MouseButtonRight:  "MouseRight",
	MouseButtonMiddle: "MouseMiddle",
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + int(k-Key0)))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}
