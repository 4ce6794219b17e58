package joystick

import (
	"errors"

	"github.com/Speshl/gorrc_tello/internal/input"
)

const (
	hatThreshold = 0.5

	eventBufferSize = 64
)

var ErrDeviceGone = errors.New("joystick stopped delivering events")

// HatAxes names the two absolute axes that together report one hat.
type HatAxes struct {
	X int
	Y int
}

// axisRange is the raw span the device reports for one absolute axis.
type axisRange struct {
	min int32
	max int32
}

// sticks report a signed 16 bit value unless the device says otherwise
var defaultRange = axisRange{min: -32768, max: 32767}

// normalize maps a raw value onto [-1, 1].
func (a axisRange) normalize(v int32) float64 {
	if a.max <= a.min {
		a = defaultRange
	}
	span := float64(a.max) - float64(a.min)
	return input.Clamp(2*(float64(v)-float64(a.min))/span-1, -1.0, 1.0)
}

// Reader turns an evdev gamepad (/dev/input/eventN) into input.Events.
type Reader struct {
	device  string
	hatAxes []HatAxes
	hats    []input.HatValue
	ranges  map[int]axisRange
	events  chan input.Event
}

func NewReader(device string, hatAxes []HatAxes) *Reader {
	return &Reader{
		device:  device,
		hatAxes: hatAxes,
		hats:    make([]input.HatValue, len(hatAxes)),
		ranges:  map[int]axisRange{},
		events:  make(chan input.Event, eventBufferSize),
	}
}

func (r *Reader) Events() <-chan input.Event {
	return r.events
}

// Hats is how many hats the reader folds out of axis pairs.
func (r *Reader) Hats() int {
	return len(r.hatAxes)
}

func (r *Reader) Device() string {
	return r.device
}

func (r *Reader) axis(code int, raw int32) input.Event {
	value := r.ranges[code].normalize(raw)
	for i, pair := range r.hatAxes {
		switch code {
		case pair.X:
			r.hats[i].X = hatComponent(value)
		case pair.Y:
			// the device reports up as negative
			r.hats[i].Y = -hatComponent(value)
		default:
			continue
		}
		return input.Event{Type: input.HatMotion, Code: i, Hat: r.hats[i]}
	}
	return input.Event{Type: input.AxisMotion, Code: code, Value: value}
}

// key translates a key event. Autorepeat reports are dropped.
func (r *Reader) key(code int, raw int32) (input.Event, bool) {
	switch raw {
	case 0:
		return input.Event{Type: input.ButtonUp, Code: code}, true
	case 1:
		return input.Event{Type: input.ButtonDown, Code: code}, true
	default:
		return input.Event{}, false
	}
}

func hatComponent(v float64) int {
	if v > hatThreshold {
		return 1
	} else if v < -hatThreshold {
		return -1
	}
	return 0
}
