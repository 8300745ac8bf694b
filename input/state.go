package input

// State is the pointer and keyboard state shared by every handler of one
// window. It is owned by the dispatcher and passed by pointer.
type State struct {
	X, Y         float32
	LastX, LastY float32
	PointerHeld  bool

	Pressed [KeyCount]bool
}

// MoveTo records a new pointer position, keeping the previous one for deltas.
func (s *State) MoveTo(x, y float32) {
	s.LastX, s.LastY = s.X, s.Y
	s.X, s.Y = x, y
}

func (s *State) DX() float32 { return s.X - s.LastX }
func (s *State) DY() float32 { return s.Y - s.LastY }

func (s *State) IsPressed(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return s.Pressed[k]
}

func (s *State) SetPressed(k Key, down bool) {
	if k < 0 || k >= KeyCount {
		return
	}
	s.Pressed[k] = down
}
