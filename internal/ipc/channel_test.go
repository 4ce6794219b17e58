package ipc

import (
	"bytes"
	"testing"

	"github.com/Speshl/gorrc_tello/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openHeapChannel(t *testing.T, geometry Geometry) *Channel {
	t.Helper()
	channel, err := Open(NewHeap(), DefaultName, geometry)
	require.NoError(t, err)
	t.Cleanup(func() { channel.Close() })
	return channel
}

func TestStateRoundTrip(t *testing.T) {
	channel := openHeapChannel(t, Geometry{Width: 4, Height: 2, Channels: 3})

	velocities := []int{-100, -99, -50, -1, 0, 1, 42, 99, 100}
	for flags := 0; flags < 32; flags++ {
		for _, v := range velocities {
			state := models.DroneState{
				Land:        flags&1 != 0,
				Takeoff:     flags&2 != 0,
				StreamOn:    flags&4 != 0,
				StreamOff:   flags&8 != 0,
				Emergency:   flags&16 != 0,
				LeftRight:   v,
				UpDown:      -v,
				ForwardBack: v / 2,
				Yaw:         ClampVelocity(v + 7),
			}
			channel.EncodeState(state)
			assert.Equal(t, state, channel.DecodeState(), "flags %05b velocity %d", flags, v)
		}
	}
}

func TestStateVelocityClamps(t *testing.T) {
	channel := openHeapChannel(t, Geometry{Width: 1, Height: 1, Channels: 3})

	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "AboveMax", in: 150, want: 100},
		{name: "BelowMin", in: -150, want: -100},
		{name: "PastInt8", in: 1000, want: 100},
		{name: "PastNegativeInt8", in: -1000, want: -100},
		{name: "Edge", in: 100, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel.EncodeState(models.DroneState{LeftRight: tt.in, UpDown: tt.in, ForwardBack: tt.in, Yaw: tt.in})
			got := channel.DecodeState()
			assert.Equal(t, tt.want, got.LeftRight)
			assert.Equal(t, tt.want, got.UpDown)
			assert.Equal(t, tt.want, got.ForwardBack)
			assert.Equal(t, tt.want, got.Yaw)
		})
	}
}

func TestStateFlagsDoNotBleed(t *testing.T) {
	channel := openHeapChannel(t, Geometry{Width: 1, Height: 1, Channels: 3})

	tests := []struct {
		name  string
		state models.DroneState
		bit   byte
	}{
		{name: "Land", state: models.DroneState{Land: true}, bit: LandFlag},
		{name: "Takeoff", state: models.DroneState{Takeoff: true}, bit: TakeoffFlag},
		{name: "StreamOn", state: models.DroneState{StreamOn: true}, bit: StreamOnFlag},
		{name: "StreamOff", state: models.DroneState{StreamOff: true}, bit: StreamOffFlag},
		{name: "Emergency", state: models.DroneState{Emergency: true}, bit: EmergencyFlag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel.EncodeState(tt.state)
			assert.Equal(t, tt.bit, channel.buf[0])
			assert.Equal(t, tt.state, channel.DecodeState())
		})
	}
}

func TestDecodeStateToleratesGarbage(t *testing.T) {
	channel := openHeapChannel(t, Geometry{Width: 1, Height: 1, Channels: 3})

	copy(channel.buf, []byte{0xff, 0x80, 0x7f, 0x9b, 0x65})
	got := channel.DecodeState()

	assert.True(t, got.Land)
	assert.True(t, got.Takeoff)
	assert.True(t, got.StreamOn)
	assert.True(t, got.StreamOff)
	assert.True(t, got.Emergency)
	assert.Equal(t, -100, got.LeftRight)
	assert.Equal(t, 100, got.UpDown)
	assert.Equal(t, -100, got.ForwardBack)
	assert.Equal(t, 100, got.Yaw)
}

func TestEncodeFrameShapeMismatch(t *testing.T) {
	geometry := Geometry{Width: 4, Height: 3, Channels: 3}
	channel := openHeapChannel(t, geometry)

	stored := bytes.Repeat([]byte{7}, geometry.FrameLength())
	require.NoError(t, channel.EncodeFrame(stored, 4, 3, 3))

	tests := []struct {
		name                     string
		pixels                   []byte
		width, height, nChannels int
	}{
		{name: "WrongWidth", pixels: make([]byte, 5*3*3), width: 5, height: 3, nChannels: 3},
		{name: "WrongHeight", pixels: make([]byte, 4*2*3), width: 4, height: 2, nChannels: 3},
		{name: "WrongChannels", pixels: make([]byte, 4*3*4), width: 4, height: 3, nChannels: 4},
		{name: "ShortBuffer", pixels: make([]byte, 10), width: 4, height: 3, nChannels: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := channel.EncodeFrame(tt.pixels, tt.width, tt.height, tt.nChannels)
			require.ErrorIs(t, err, ErrFrameShapeMismatch)
			assert.Equal(t, stored, channel.DecodeFrame().Pix)
		})
	}
}

func TestFrameDoesNotTouchState(t *testing.T) {
	geometry := Geometry{Width: 2, Height: 2, Channels: 3}
	channel := openHeapChannel(t, geometry)

	state := models.DroneState{Takeoff: true, Yaw: -30}
	channel.EncodeState(state)
	require.NoError(t, channel.EncodeFrame(bytes.Repeat([]byte{0xff}, geometry.FrameLength()), 2, 2, 3))

	assert.Equal(t, state, channel.DecodeState())
}

func TestDecodeFrameIsACopy(t *testing.T) {
	geometry := Geometry{Width: 2, Height: 1, Channels: 3}
	channel := openHeapChannel(t, geometry)

	pixels := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, channel.EncodeFrame(pixels, 2, 1, 3))

	frame := channel.DecodeFrame()
	frame.Pix[0] = 99
	assert.Equal(t, pixels, channel.DecodeFrame().Pix)
	assert.Equal(t, []byte{4, 5, 6}, frame.At(1, 0))
}

func TestDecodeFrameIntoReusesBuffer(t *testing.T) {
	geometry := Geometry{Width: 2, Height: 1, Channels: 3}
	channel := openHeapChannel(t, geometry)
	require.NoError(t, channel.EncodeFrame([]byte{1, 2, 3, 4, 5, 6}, 2, 1, 3))

	frame := models.Frame{Pix: make([]byte, 0, 64)}
	backing := frame.Pix[:1]
	channel.DecodeFrameInto(&frame)

	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, frame.Pix)
	assert.Equal(t, 2, frame.Width)
	assert.Equal(t, 1, frame.Height)
	assert.Same(t, &backing[0], &frame.Pix[0])
}

func TestDefaultGeometryScenario(t *testing.T) {
	channel := openHeapChannel(t, Geometry{Width: 960, Height: 720, Channels: 3})

	zeros := make([]byte, 960*720*3)
	require.NoError(t, channel.EncodeFrame(zeros, 960, 720, 3))
	frame := channel.DecodeFrame()
	assert.Equal(t, 960, frame.Width)
	assert.Equal(t, 720, frame.Height)
	assert.Equal(t, 3, frame.Channels)
	assert.True(t, bytes.Equal(zeros, frame.Pix))

	channel.EncodeState(models.DroneState{Takeoff: true, Yaw: 30})
	state := channel.DecodeState()
	assert.True(t, state.Takeoff)
	assert.Equal(t, 30, state.Yaw)
	assert.False(t, state.Land)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(nil, DefaultName, DefaultGeometry)
	assert.ErrorIs(t, err, ErrChannelUnavailable)

	_, err = Open(NewHeap(), DefaultName, Geometry{Width: 0, Height: 720, Channels: 3})
	assert.ErrorIs(t, err, ErrChannelUnavailable)
}

func TestHeapSharesByNameInProcess(t *testing.T) {
	heap := NewHeap()
	geometry := Geometry{Width: 2, Height: 2, Channels: 3}

	producer, err := Open(heap, DefaultName, geometry)
	require.NoError(t, err)
	defer producer.Close()
	consumer, err := Open(heap, DefaultName, geometry)
	require.NoError(t, err)
	defer consumer.Close()

	assert.False(t, consumer.CrossProcess())

	producer.EncodeState(models.DroneState{Emergency: true, ForwardBack: 12})
	assert.Equal(t, models.DroneState{Emergency: true, ForwardBack: 12}, consumer.DecodeState())

	_, err = Open(heap, DefaultName, Geometry{Width: 3, Height: 2, Channels: 3})
	assert.ErrorIs(t, err, ErrChannelUnavailable)
}

func TestSelectProviderPrivate(t *testing.T) {
	provider, err := SelectProvider(true, "")
	require.NoError(t, err)
	assert.False(t, provider.CrossProcess())
}

func TestUseAfterClose(t *testing.T) {
	geometry := Geometry{Width: 2, Height: 1, Channels: 3}
	channel, err := Open(NewHeap(), DefaultName, geometry)
	require.NoError(t, err)
	channel.EncodeState(models.DroneState{Takeoff: true, Yaw: 20})
	require.NoError(t, channel.Close())
	require.NoError(t, channel.Close())

	channel.EncodeState(models.DroneState{Land: true})
	assert.Equal(t, models.DroneState{}, channel.DecodeState())
	assert.ErrorIs(t, channel.EncodeFrame(make([]byte, 6), 2, 1, 3), ErrChannelClosed)

	frame := models.Frame{Pix: []byte{1, 2, 3, 4, 5, 6}}
	channel.DecodeFrameInto(&frame)
	assert.Equal(t, make([]byte, 6), frame.Pix)
	assert.Equal(t, 2, channel.DecodeFrame().Width)
}
