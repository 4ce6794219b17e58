package ipc

import (
	"fmt"

	"github.com/Speshl/gorrc_tello/internal/models"
	log "github.com/sirupsen/logrus"
)

// Channel is the shared control-and-frame buffer. One process writes each
// half and another reads it. Nothing guards the region across processes: a
// read racing a write can see old flags next to new velocities, or a frame
// that is half old and half new. Decoding clamps, so a torn read is at worst
// one tick stale and never out of range.
//
// A Channel is not safe for concurrent use by goroutines of one process.
type Channel struct {
	name     string
	geometry Geometry
	provider Provider
	region   Region
	buf      []byte
}

// SelectProvider picks the region provider at startup. The private heap is
// only used when asked for; a platform with no native shared memory is an
// error rather than a quiet downgrade.
func SelectProvider(private bool, dir string) (Provider, error) {
	if private {
		log.Warn("using private heap channel, other processes will not see control state or frames")
		return NewHeap(), nil
	}

	provider, err := NativeProvider(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w (set GOTELLO_IPC_PRIVATE=true to run single process)", ErrChannelUnavailable, err)
	}
	return provider, nil
}

// Open acquires the region called name, creating it if needed.
func Open(provider Provider, name string, geometry Geometry) (*Channel, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: no provider", ErrChannelUnavailable)
	}
	if !geometry.valid() {
		return nil, fmt.Errorf("%w: invalid geometry %dx%dx%d", ErrChannelUnavailable, geometry.Width, geometry.Height, geometry.Channels)
	}

	size := geometry.BufferLength()
	region, err := provider.Open(name, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChannelUnavailable, err)
	}

	buf := region.Bytes()
	if len(buf) < size {
		region.Close()
		return nil, fmt.Errorf("%w: region %s is %d bytes, need %d", ErrChannelUnavailable, name, len(buf), size)
	}

	log.Printf("opened channel %s via %s (%d bytes, frame %dx%dx%d)\n", name, provider, size, geometry.Width, geometry.Height, geometry.Channels)
	return &Channel{
		name:     name,
		geometry: geometry,
		provider: provider,
		region:   region,
		buf:      buf[:size],
	}, nil
}

func (c *Channel) Name() string {
	return c.name
}

func (c *Channel) Geometry() Geometry {
	return c.geometry
}

// CrossProcess reports whether other processes can see this channel.
func (c *Channel) CrossProcess() bool {
	return c.provider.CrossProcess()
}

// Close releases this process' view of the region. The peer is not told.
// Afterwards state writes are dropped, decodes return zero values and
// EncodeFrame fails with ErrChannelClosed.
func (c *Channel) Close() error {
	if c.buf == nil {
		return nil
	}
	c.buf = nil
	err := c.region.Close()
	if err != nil {
		return fmt.Errorf("failed closing channel %s: %w", c.name, err)
	}
	return nil
}

func (c *Channel) EncodeState(state models.DroneState) {
	if c.buf == nil {
		return
	}
	var record [ControlLength]byte
	record[flagsByte] = packFlags(state)
	record[leftRightByte] = VelocityToByte(state.LeftRight)
	record[upDownByte] = VelocityToByte(state.UpDown)
	record[forwardBackByte] = VelocityToByte(state.ForwardBack)
	record[yawByte] = VelocityToByte(state.Yaw)
	copy(c.buf[:ControlLength], record[:])
}

func (c *Channel) DecodeState() models.DroneState {
	if c.buf == nil {
		return models.DroneState{}
	}
	var record [ControlLength]byte
	copy(record[:], c.buf[:ControlLength])

	state := models.DroneState{
		LeftRight:   ByteToVelocity(record[leftRightByte]),
		UpDown:      ByteToVelocity(record[upDownByte]),
		ForwardBack: ByteToVelocity(record[forwardBackByte]),
		Yaw:         ByteToVelocity(record[yawByte]),
	}
	unpackFlags(record[flagsByte], &state)
	return state
}

// EncodeFrame overwrites the frame half with pixels. The shape must match
// the channel geometry exactly, otherwise nothing is written.
func (c *Channel) EncodeFrame(pixels []byte, width, height, channels int) error {
	g := c.geometry
	if width != g.Width || height != g.Height || channels != g.Channels {
		return fmt.Errorf("%w: got %dx%dx%d, want %dx%dx%d", ErrFrameShapeMismatch, width, height, channels, g.Width, g.Height, g.Channels)
	}
	if len(pixels) != g.FrameLength() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameShapeMismatch, len(pixels), g.FrameLength())
	}
	if c.buf == nil {
		return fmt.Errorf("%s: %w", c.name, ErrChannelClosed)
	}
	copy(c.buf[ControlLength:], pixels)
	return nil
}

// DecodeFrame returns a fresh copy of the frame half.
func (c *Channel) DecodeFrame() models.Frame {
	frame := models.Frame{}
	c.DecodeFrameInto(&frame)
	return frame
}

// DecodeFrameInto copies the frame half into frame, reusing frame.Pix when
// it is large enough.
func (c *Channel) DecodeFrameInto(frame *models.Frame) {
	length := c.geometry.FrameLength()
	if cap(frame.Pix) < length {
		frame.Pix = make([]byte, length)
	}
	frame.Pix = frame.Pix[:length]
	frame.Width = c.geometry.Width
	frame.Height = c.geometry.Height
	frame.Channels = c.geometry.Channels
	if c.buf == nil {
		clear(frame.Pix)
		return
	}
	copy(frame.Pix, c.buf[ControlLength:])
}
