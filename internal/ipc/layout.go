package ipc

import "github.com/Speshl/gorrc_tello/internal/models"

const (
	DefaultName = "droneipc"

	DefaultWidth    = 960
	DefaultHeight   = 720
	DefaultChannels = 3

	// Flags byte followed by one signed byte per velocity axis
	ControlLength = 1 + 4

	MaxVelocity = 100
	MinVelocity = -100
)

// Bit assignments of the flags byte. Each command owns exactly one bit.
const (
	LandFlag byte = 1 << iota
	TakeoffFlag
	StreamOnFlag
	StreamOffFlag
	EmergencyFlag
)

// Offsets of the control record
const (
	flagsByte = iota
	leftRightByte
	upDownByte
	forwardBackByte
	yawByte
)

// Geometry is the fixed frame shape both processes agree on out of band.
type Geometry struct {
	Width    int
	Height   int
	Channels int
}

var DefaultGeometry = Geometry{
	Width:    DefaultWidth,
	Height:   DefaultHeight,
	Channels: DefaultChannels,
}

func (g Geometry) FrameLength() int {
	return g.Width * g.Height * g.Channels
}

// BufferLength is the full size of the shared region for this geometry.
func (g Geometry) BufferLength() int {
	return ControlLength + g.FrameLength()
}

func (g Geometry) valid() bool {
	return g.Width > 0 && g.Height > 0 && g.Channels > 0
}

func ClampVelocity(v int) int {
	if v > MaxVelocity {
		return MaxVelocity
	} else if v < MinVelocity {
		return MinVelocity
	}
	return v
}

// VelocityToByte clamps v and returns its two's complement byte.
func VelocityToByte(v int) byte {
	return byte(int8(ClampVelocity(v)))
}

// ByteToVelocity reads a two's complement byte back. Raw patterns outside
// [-100, 100] (-128..-101 and 101..127) clamp instead of wrapping.
func ByteToVelocity(b byte) int {
	return ClampVelocity(int(int8(b)))
}

func packFlags(s models.DroneState) byte {
	var flags byte
	if s.Land {
		flags |= LandFlag
	}
	if s.Takeoff {
		flags |= TakeoffFlag
	}
	if s.StreamOn {
		flags |= StreamOnFlag
	}
	if s.StreamOff {
		flags |= StreamOffFlag
	}
	if s.Emergency {
		flags |= EmergencyFlag
	}
	return flags
}

func unpackFlags(flags byte, s *models.DroneState) {
	s.Land = flags&LandFlag != 0
	s.Takeoff = flags&TakeoffFlag != 0
	s.StreamOn = flags&StreamOnFlag != 0
	s.StreamOff = flags&StreamOffFlag != 0
	s.Emergency = flags&EmergencyFlag != 0
}
