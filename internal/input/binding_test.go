package input

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeadzone(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		deadzone float64
		want     float64
	}{
		{name: "Rest", value: 0, deadzone: 0.1, want: 0},
		{name: "InsideDeadzone", value: 0.05, deadzone: 0.1, want: 0},
		{name: "InsideDeadzoneNegative", value: -0.099, deadzone: 0.1, want: 0},
		{name: "OnBoundary", value: 0.1, deadzone: 0.1, want: 0},
		{name: "OnNegativeBoundary", value: -0.1, deadzone: 0.1, want: 0},
		{name: "FullPositive", value: 1, deadzone: 0.1, want: 1},
		{name: "FullNegative", value: -1, deadzone: 0.1, want: -1},
		{name: "Midway", value: 0.55, deadzone: 0.1, want: 0.5},
		{name: "NoDeadzone", value: 0.3, deadzone: 0, want: 0.3},
		{name: "DeadzoneCoversAll", value: 1, deadzone: 1, want: 0},
		{name: "NaN", value: math.NaN(), deadzone: 0.1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ApplyDeadzone(tt.value, tt.deadzone), 1e-9)
		})
	}
}

func TestApplyDeadzoneContinuousAtEdge(t *testing.T) {
	const d = 0.1
	const eps = 1e-9
	assert.InDelta(t, 0, ApplyDeadzone(d+eps, d), 1e-6)
	assert.InDelta(t, 0, ApplyDeadzone(-d-eps, d), 1e-6)

	prev := ApplyDeadzone(d, d)
	for v := d; v <= 1.0; v += 0.01 {
		cur := ApplyDeadzone(v, d)
		assert.GreaterOrEqual(t, cur, prev)
		assert.LessOrEqual(t, cur-prev, 0.012)
		prev = cur
	}
}

func TestTransform(t *testing.T) {
	assert.InDelta(t, -1.0, Transform(1.0, Params{Scale: -1, Deadzone: 0.1}), 1e-9)
	assert.InDelta(t, 0.0, Transform(-1.0, Params{Scale: 0.5, Offset: 0.5}), 1e-9)
	assert.InDelta(t, 1.0, Transform(1.0, Params{Scale: 0.5, Offset: 0.5}), 1e-9)
	assert.InDelta(t, 1.0, Transform(0.9, Params{Scale: 3, Deadzone: 0.1}), 1e-9)
}

func TestAxisBinding(t *testing.T) {
	in := Input{}
	binding := NewAxisBinding(LThumbstickX, 2)

	applied, err := binding.Process(Event{Type: AxisMotion, Code: 3, Value: 1}, &in)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 0.0, in.Axis(LThumbstickX))

	applied, err = binding.Process(Event{Type: ButtonDown, Code: 2}, &in)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = binding.Process(Event{Type: AxisMotion, Code: 2, Value: -1}, &in)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, -1.0, in.Axis(LThumbstickX))

	_, err = binding.Process(Event{Type: AxisMotion, Code: 2, Value: 0.05}, &in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, in.Axis(LThumbstickX))
}

func TestButtonBinding(t *testing.T) {
	in := Input{}
	binding := NewButtonBinding(A, 11)

	applied, err := binding.Process(Event{Type: ButtonDown, Code: 11}, &in)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.True(t, in.ButtonDown(A))

	applied, err = binding.Process(Event{Type: AxisMotion, Code: 11, Value: 1}, &in)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.True(t, in.Button(A))

	in.Tick()
	_, err = binding.Process(Event{Type: ButtonUp, Code: 11}, &in)
	require.NoError(t, err)
	assert.True(t, in.ButtonUp(A))
}

func TestHatBinding(t *testing.T) {
	in := Input{}
	binding := NewHatBinding(DPad, 0)

	_, err := binding.Process(Event{Type: HatMotion, Code: 0, Hat: HatValue{X: -1, Y: 0}}, &in)
	require.NoError(t, err)
	assert.Equal(t, HatValue{X: -1, Y: 0}, in.Hat(DPad))

	_, err = binding.Process(Event{Type: HatMotion, Code: 0, Hat: HatValue{X: 3, Y: 0}}, &in)
	assert.ErrorIs(t, err, ErrInvalidHatValue)
	assert.Equal(t, HatValue{X: -1, Y: 0}, in.Hat(DPad))
}

func TestTableProcessEvaluatesEveryBinding(t *testing.T) {
	table := Table{
		Name: "test",
		Bindings: []Binding{
			NewHatBinding(DPad, 0),
			NewButtonBinding(A, 0),
			NewButtonBinding(Start, 0),
			NewAxisBinding(RThumbstickX, 0),
		},
	}
	in := Input{}

	// one button code feeding two buttons
	require.NoError(t, table.Process(Event{Type: ButtonDown, Code: 0}, &in))
	assert.True(t, in.Button(A))
	assert.True(t, in.Button(Start))
	assert.Equal(t, 0.0, in.Axis(RThumbstickX))

	// a bad hat value is reported without blocking the rest
	err := table.Process(Event{Type: HatMotion, Code: 0, Hat: HatValue{X: 2}}, &in)
	assert.ErrorIs(t, err, ErrInvalidHatValue)
	assert.Contains(t, err.Error(), "binding 0 of test")
}

func TestLinuxProfileFrame(t *testing.T) {
	table, err := Profile(ProfileXboxLinux)
	require.NoError(t, err)
	in := Input{}

	in.Tick()
	events := []Event{
		{Type: AxisMotion, Code: 1, Value: -1},   // left stick fully up
		{Type: AxisMotion, Code: 2, Value: -1},   // left trigger at rest
		{Type: AxisMotion, Code: 5, Value: 1},    // right trigger pulled
		{Type: AxisMotion, Code: 3, Value: 0.05}, // drift
		{Type: ButtonDown, Code: 304},
		{Type: HatMotion, Code: 0, Hat: HatValue{X: 0, Y: 1}},
	}
	for _, ev := range events {
		require.NoError(t, table.Process(ev, &in))
	}

	assert.InDelta(t, 1.0, in.Axis(LThumbstickY), 1e-9)
	assert.InDelta(t, 0.0, in.Axis(LTrigger), 1e-9)
	assert.InDelta(t, 1.0, in.Axis(RTrigger), 1e-9)
	assert.Equal(t, 0.0, in.Axis(RThumbstickX))
	assert.True(t, in.ButtonDown(A))
	assert.Equal(t, HatValue{X: 0, Y: 1}, in.Hat(DPad))
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, []string{ProfileXboxLinux, ProfileXboxSDL}, Profiles())
	_, err := Profile(DefaultProfile())
	assert.NoError(t, err)
	_, err = Profile("joycon")
	assert.Error(t, err)
}

func TestParseTable(t *testing.T) {
	data := []byte(`
name: arcade
axes:
  - axis: L_THUMBSTICK_X
    code: 0
  - axis: l_trigger
    code: 2
    scale: 0.5
    offset: 0.5
    deadzone: 0
buttons:
  - button: A
    code: 1
hats:
  - hat: D_PAD
    code: 0
`)
	table, err := ParseTable(data)
	require.NoError(t, err)
	assert.Equal(t, "arcade", table.Name)
	require.Len(t, table.Bindings, 4)

	assert.Equal(t, AxisBinding{Axis: LThumbstickX, Code: 0, Params: DefaultParams}, table.Bindings[0])
	assert.Equal(t, AxisBinding{Axis: LTrigger, Code: 2, Params: Params{Scale: 0.5, Offset: 0.5, Deadzone: 0}}, table.Bindings[1])
	assert.Equal(t, NewButtonBinding(A, 1), table.Bindings[2])
	assert.Equal(t, NewHatBinding(DPad, 0), table.Bindings[3])
}

func TestParseTableErrors(t *testing.T) {
	_, err := ParseTable([]byte("axes:\n  - axis: WHEEL\n    code: 0\n"))
	assert.ErrorIs(t, err, ErrUnknownInput)

	_, err = ParseTable([]byte("axes: [[[\n"))
	assert.Error(t, err)

	_, err = LoadTable("/nonexistent/table.yaml")
	assert.Error(t, err)
}
