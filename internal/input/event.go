package input

import "fmt"

type EventType int

const (
	AxisMotion EventType = iota
	ButtonDown
	ButtonUp
	HatMotion
)

func (t EventType) String() string {
	switch t {
	case AxisMotion:
		return "axis"
	case ButtonDown:
		return "button_down"
	case ButtonUp:
		return "button_up"
	case HatMotion:
		return "hat"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is one raw hardware event. Code is the device's own number for the
// axis, button or hat. Value carries axis travel in [-1, 1]; Hat carries hat
// motion.
type Event struct {
	Type  EventType
	Code  int
	Value float64
	Hat   HatValue
}

func (e Event) String() string {
	switch e.Type {
	case AxisMotion:
		return fmt.Sprintf("%s %d %.3f", e.Type, e.Code, e.Value)
	case HatMotion:
		return fmt.Sprintf("%s %d (%d,%d)", e.Type, e.Code, e.Hat.X, e.Hat.Y)
	default:
		return fmt.Sprintf("%s %d", e.Type, e.Code)
	}
}
