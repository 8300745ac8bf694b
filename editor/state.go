package editor

import "fmt"

type Mode int

const (
	// Standby: nothing is being created or dragged. Clicking a hovered box
	// selects it.
	Standby Mode = iota
	// Adjusting: a box is selected and waits for a click to start editing.
	Adjusting
	// Editing: the pointer is held on the selected box.
	Editing
)

func (m Mode) String() string {
	switch m {
	case Standby:
		return "STANDBY"
	case Adjusting:
		return "ADJUSTING"
	case Editing:
		return "EDITING"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

type EditOp int

const (
	OpMove EditOp = iota
	OpRotate
	OpScale
	OpExtrude
)

func (o EditOp) String() string {
	switch o {
	case OpMove:
		return "MOVE"
	case OpRotate:
		return "ROTATE"
	case OpScale:
		return "SCALE"
	case OpExtrude:
		return "EXTRUDE"
	}
	return fmt.Sprintf("EditOp(%d)", int(o))
}

type event int

const (
	evAddBox event = iota
	evBeginEdit
	evEndEdit
	evResume
	evCancel
)

func (e event) String() string {
	switch e {
	case evAddBox:
		return "add-box"
	case evBeginEdit:
		return "begin-edit"
	case evEndEdit:
		return "end-edit"
	case evResume:
		return "resume"
	case evCancel:
		return "cancel"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// transition returns the mode reached from m on ev. ok is false for
// transitions the editor does not allow; the mode is then unchanged.
func transition(m Mode, ev event, hasSelection bool) (Mode, bool) {
	switch ev {
	case evAddBox:
		if m == Standby {
			return Adjusting, true
		}
	case evBeginEdit:
		if m == Adjusting && hasSelection {
			return Editing, true
		}
	case evEndEdit:
		if m == Editing {
			return Adjusting, true
		}
	case evResume:
		if m == Standby && hasSelection {
			return Adjusting, true
		}
	case evCancel:
		return Standby, true
	}
	return m, false
}
