//go:build unix

package ipc

import (
	"os"
	"testing"

	"github.com/Speshl/gorrc_tello/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedMemoryMappingsSeeEachOther(t *testing.T) {
	provider := &SharedMemory{Dir: t.TempDir()}
	geometry := Geometry{Width: 8, Height: 4, Channels: 3}

	writer, err := Open(provider, "droneipc-test", geometry)
	require.NoError(t, err)
	defer writer.Close()

	reader, err := Open(provider, "droneipc-test", geometry)
	require.NoError(t, err)
	defer reader.Close()

	assert.True(t, reader.CrossProcess())

	writer.EncodeState(models.DroneState{Land: true, UpDown: -40})
	assert.Equal(t, models.DroneState{Land: true, UpDown: -40}, reader.DecodeState())

	pixels := make([]byte, geometry.FrameLength())
	for i := range pixels {
		pixels[i] = byte(i)
	}
	require.NoError(t, writer.EncodeFrame(pixels, 8, 4, 3))
	assert.Equal(t, pixels, reader.DecodeFrame().Pix)

	info, err := os.Stat(provider.Path("droneipc-test"))
	require.NoError(t, err)
	assert.Equal(t, int64(geometry.BufferLength()), info.Size())
}

func TestSharedMemoryOutlivesClose(t *testing.T) {
	provider := &SharedMemory{Dir: t.TempDir()}
	geometry := Geometry{Width: 2, Height: 2, Channels: 3}

	first, err := Open(provider, "droneipc-test", geometry)
	require.NoError(t, err)
	first.EncodeState(models.DroneState{Yaw: 55})
	require.NoError(t, first.Close())
	require.NoError(t, first.Close())

	second, err := Open(provider, "droneipc-test", geometry)
	require.NoError(t, err)
	defer second.Close()
	assert.Equal(t, 55, second.DecodeState().Yaw)
}

func TestSharedMemoryUnavailable(t *testing.T) {
	provider := &SharedMemory{Dir: "/nonexistent/droneipc"}
	_, err := Open(provider, "droneipc-test", DefaultGeometry)
	assert.ErrorIs(t, err, ErrChannelUnavailable)
}

func TestSharedMemoryRejectsOtherSize(t *testing.T) {
	provider := &SharedMemory{Dir: t.TempDir()}
	big := Geometry{Width: 64, Height: 64, Channels: 3}

	first, err := Open(provider, "droneipc-test", big)
	require.NoError(t, err)
	defer first.Close()

	_, err = Open(provider, "droneipc-test", Geometry{Width: 2, Height: 2, Channels: 3})
	assert.ErrorIs(t, err, ErrChannelUnavailable)
	assert.ErrorIs(t, err, ErrRegionSizeMismatch)

	info, err := os.Stat(provider.Path("droneipc-test"))
	require.NoError(t, err)
	assert.Equal(t, int64(big.BufferLength()), info.Size(), "existing region left alone")

	// the first mapping is still fully readable
	assert.Len(t, first.DecodeFrame().Pix, big.FrameLength())
}

func TestSharedMemorySizesEmptyFile(t *testing.T) {
	provider := &SharedMemory{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(provider.Path("droneipc-test"), nil, 0o600))

	geometry := Geometry{Width: 2, Height: 2, Channels: 3}
	channel, err := Open(provider, "droneipc-test", geometry)
	require.NoError(t, err)
	defer channel.Close()

	info, err := os.Stat(provider.Path("droneipc-test"))
	require.NoError(t, err)
	assert.Equal(t, int64(geometry.BufferLength()), info.Size())
}
