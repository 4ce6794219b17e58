package vehicle

import (
	"context"
	"errors"

	"github.com/Speshl/gorrc_tello/internal/input"
)

const (
	MaxControl = 100
	MinControl = -100
)

var ErrNotConnected = errors.New("drone not connected")

// Drone is the flying collaborator the pilots command. Implementations
// track their own flying/streaming flags from acknowledged commands.
type Drone interface {
	Connect(context.Context) error
	Takeoff(context.Context) error
	Land(context.Context) error
	Emergency(context.Context) error
	StreamOn(context.Context) error
	StreamOff(context.Context) error
	SendVelocity(leftRight, forwardBack, upDown, yaw int) error
	IsFlying() bool
	IsStreaming() bool
}

// ToControl maps a [-1,1] stick value onto the drone's [-100,100] rc range.
func ToControl(x float64) int {
	return int(input.Clamp(x*MaxControl, MinControl, MaxControl))
}

// NewPress runs f when button went down this tick.
func NewPress(in *input.Input, button input.Button, f func()) bool {
	if in.ButtonDown(button) {
		f()
		return true
	}
	return false
}

// RisingEdge reports a flag that is set now but was clear last tick.
func RisingEdge(previous, current bool) bool {
	return current && !previous
}

func MapToRange(value, min, max, minReturn, maxReturn float64) float64 {
	mappedValue := (maxReturn-minReturn)*(value-min)/(max-min) + minReturn

	if mappedValue > maxReturn {
		return maxReturn
	} else if mappedValue < minReturn {
		return minReturn
	} else {
		return mappedValue
	}
}
