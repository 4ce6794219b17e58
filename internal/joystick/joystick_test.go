package joystick

import (
	"testing"

	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	stick := axisRange{min: -32768, max: 32767}
	assert.Equal(t, -1.0, stick.normalize(-32768))
	assert.Equal(t, 1.0, stick.normalize(32767))
	assert.InDelta(t, 0.0, stick.normalize(0), 0.0001)

	trigger := axisRange{min: 0, max: 1023}
	assert.Equal(t, -1.0, trigger.normalize(0))
	assert.Equal(t, 1.0, trigger.normalize(1023))
	assert.Equal(t, 1.0, trigger.normalize(5000), "out of range clamps")

	unknown := axisRange{}
	assert.Equal(t, 1.0, unknown.normalize(32767))
}

func TestHatAxesFold(t *testing.T) {
	r := NewReader("/dev/input/event0", []HatAxes{{X: 16, Y: 17}})
	r.ranges[16] = axisRange{min: -1, max: 1}
	r.ranges[17] = axisRange{min: -1, max: 1}

	assert.Equal(t, input.Event{Type: input.HatMotion, Code: 0, Hat: input.HatValue{X: -1, Y: 0}}, r.axis(16, -1))
	assert.Equal(t, input.Event{Type: input.HatMotion, Code: 0, Hat: input.HatValue{X: -1, Y: 1}}, r.axis(17, -1))
	assert.Equal(t, input.Event{Type: input.HatMotion, Code: 0, Hat: input.HatValue{X: 0, Y: 1}}, r.axis(16, 0))
	assert.Equal(t, input.Event{Type: input.AxisMotion, Code: 0, Value: 1.0}, r.axis(0, 32767))
}

func TestKeyValues(t *testing.T) {
	r := NewReader("test", nil)

	ev, ok := r.key(304, 1)
	assert.True(t, ok)
	assert.Equal(t, input.Event{Type: input.ButtonDown, Code: 304}, ev)

	ev, ok = r.key(304, 0)
	assert.True(t, ok)
	assert.Equal(t, input.Event{Type: input.ButtonUp, Code: 304}, ev)

	_, ok = r.key(304, 2)
	assert.False(t, ok, "autorepeat")
}
