package mapper

import (
	"bytes"
	"testing"

	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDistinct(t *testing.T) {
	out := bytes.Buffer{}
	m := NewMapper(&out)

	events := []input.Event{
		{Type: input.AxisMotion, Code: 0, Value: 0.3},
		{Type: input.AxisMotion, Code: 0, Value: 0.9},  // same direction
		{Type: input.AxisMotion, Code: 0, Value: 0},    // resting
		{Type: input.AxisMotion, Code: 0, Value: -0.2}, // new direction
		{Type: input.ButtonDown, Code: 3},
		{Type: input.ButtonUp, Code: 3},
		{Type: input.ButtonDown, Code: 3},
		{Type: input.HatMotion, Code: 0, Hat: input.HatValue{X: -1}},
		{Type: input.HatMotion, Code: 0},
	}
	for _, ev := range events {
		_, err := m.Record(ev)
		require.NoError(t, err)
	}

	assert.Equal(t, 5, m.Seen())
	assert.Equal(t, "axis 0 1\naxis 0 -1\nbutton 3\nhat 0 (-1, 0)\nhat 0 (0, 0)\n", out.String())
}

func TestHeader(t *testing.T) {
	out := bytes.Buffer{}
	require.NoError(t, NewMapper(&out).Header("Xbox Wireless Controller", 8, 11, 1))
	assert.Equal(t, "Xbox Wireless Controller\nN Axes 8\nN Hats 1\nN Buttons 11\n", out.String())
}
