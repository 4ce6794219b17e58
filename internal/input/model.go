package input

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidHatValue = errors.New("invalid hat value")
	ErrUnknownInput    = errors.New("unknown input")
)

// Axis is a signed value in [-1, 1]. The triggers rest at 0 and only
// travel towards 1.
type Axis int

const (
	LThumbstickX Axis = iota // strafe left/right
	LThumbstickY             // forward/back
	RThumbstickX             // yaw
	RThumbstickY
	LTrigger // descend
	RTrigger // ascend
	axisCount
)

type Button int

const (
	Start Button = iota // connect
	Back
	Home // emergency
	Shield
	A // takeoff
	B // land
	X // stream on
	Y // stream off
	LButton
	RButton // toggle autonomous mode
	buttonCount
)

// Hat is a d-pad style input. Opposite directions never both register.
type Hat int

const (
	DPad Hat = iota
	hatCount
)

// HatValue holds X (-1 left, 1 right) and Y (-1 down, 1 up).
type HatValue struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (h HatValue) Valid() bool {
	return validHatComponent(h.X) && validHatComponent(h.Y)
}

func validHatComponent(v int) bool {
	return v >= -1 && v <= 1
}

var axisNames = [axisCount]string{
	LThumbstickX: "L_THUMBSTICK_X",
	LThumbstickY: "L_THUMBSTICK_Y",
	RThumbstickX: "R_THUMBSTICK_X",
	RThumbstickY: "R_THUMBSTICK_Y",
	LTrigger:     "L_TRIGGER",
	RTrigger:     "R_TRIGGER",
}

var buttonNames = [buttonCount]string{
	Start:   "START",
	Back:    "BACK",
	Home:    "HOME",
	Shield:  "SHIELD",
	A:       "A",
	B:       "B",
	X:       "X",
	Y:       "Y",
	LButton: "L_BUTTON",
	RButton: "R_BUTTON",
}

var hatNames = [hatCount]string{
	DPad: "D_PAD",
}

func (a Axis) Valid() bool   { return a >= 0 && a < axisCount }
func (b Button) Valid() bool { return b >= 0 && b < buttonCount }
func (h Hat) Valid() bool    { return h >= 0 && h < hatCount }

func (a Axis) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Axis(%d)", int(a))
	}
	return axisNames[a]
}

func (b Button) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Button(%d)", int(b))
	}
	return buttonNames[b]
}

func (h Hat) String() string {
	if !h.Valid() {
		return fmt.Sprintf("Hat(%d)", int(h))
	}
	return hatNames[h]
}

func ParseAxis(name string) (Axis, error) {
	for i, n := range axisNames {
		if strings.EqualFold(n, name) {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("%w: axis %q", ErrUnknownInput, name)
}

func ParseButton(name string) (Button, error) {
	for i, n := range buttonNames {
		if strings.EqualFold(n, name) {
			return Button(i), nil
		}
	}
	return 0, fmt.Errorf("%w: button %q", ErrUnknownInput, name)
}

func ParseHat(name string) (Hat, error) {
	for i, n := range hatNames {
		if strings.EqualFold(n, name) {
			return Hat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: hat %q", ErrUnknownInput, name)
}

// Input is the logical controller state. Call Tick once per frame before
// feeding that frame's events, so ButtonDown and ButtonUp report changes
// since the previous frame rather than since the previous event.
//
// The zero value is ready to use. Input is a plain value; copying it takes
// a snapshot.
type Input struct {
	axes        [axisCount]float64
	buttons     [buttonCount]bool
	prevButtons [buttonCount]bool
	hats        [hatCount]HatValue
}

func (in *Input) Tick() {
	in.prevButtons = in.buttons
}

func (in *Input) Axis(a Axis) float64 {
	if !a.Valid() {
		return 0.0
	}
	return in.axes[a]
}

// SetAxis stores v clamped to [-1, 1]. NaN is stored as 0.
func (in *Input) SetAxis(a Axis, v float64) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownInput, a)
	}
	if math.IsNaN(v) {
		v = 0.0
	}
	in.axes[a] = Clamp(v, -1.0, 1.0)
	return nil
}

func (in *Input) Button(b Button) bool {
	if !b.Valid() {
		return false
	}
	return in.buttons[b]
}

// ButtonDown is true on the frame b went from released to pressed.
func (in *Input) ButtonDown(b Button) bool {
	if !b.Valid() {
		return false
	}
	return in.buttons[b] && !in.prevButtons[b]
}

// ButtonUp is true on the frame b went from pressed to released.
func (in *Input) ButtonUp(b Button) bool {
	if !b.Valid() {
		return false
	}
	return !in.buttons[b] && in.prevButtons[b]
}

func (in *Input) SetButton(b Button, pressed bool) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownInput, b)
	}
	in.buttons[b] = pressed
	return nil
}

func (in *Input) Hat(h Hat) HatValue {
	if !h.Valid() {
		return HatValue{}
	}
	return in.hats[h]
}

// SetHat rejects components outside {-1, 0, 1} and keeps the old value.
func (in *Input) SetHat(h Hat, v HatValue) error {
	if !h.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownInput, h)
	}
	if !v.Valid() {
		return fmt.Errorf("%w: %s (%d,%d)", ErrInvalidHatValue, h, v.X, v.Y)
	}
	in.hats[h] = v
	return nil
}

func (in Input) String() string {
	var sb strings.Builder
	for i := Axis(0); i < axisCount; i++ {
		fmt.Fprintf(&sb, "%s:%.2f ", i, in.axes[i])
	}
	for i := Hat(0); i < hatCount; i++ {
		fmt.Fprintf(&sb, "%s:(%d,%d) ", i, in.hats[i].X, in.hats[i].Y)
	}
	sb.WriteString("held:[")
	first := true
	for i := Button(0); i < buttonCount; i++ {
		if !in.buttons[i] {
			continue
		}
		if !first {
			sb.WriteString(" ")
		}
		sb.WriteString(i.String())
		first = false
	}
	sb.WriteString("]")
	return sb.String()
}
