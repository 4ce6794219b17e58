package input

import "math"

const DefaultDeadzone = 0.1

// Params shape a raw axis value on its way into the Input model.
type Params struct {
	Scale    float64
	Offset   float64
	Deadzone float64
}

var DefaultParams = Params{
	Scale:    1.0,
	Offset:   0.0,
	Deadzone: DefaultDeadzone,
}

func Clamp(v, min, max float64) float64 {
	if v > max {
		return max
	} else if v < min {
		return min
	}
	return v
}

func sign(v float64) float64 {
	if v > 0 {
		return 1.0
	} else if v < 0 {
		return -1.0
	}
	return 0.0
}

// ApplyDeadzone zeroes |v| < d and rescales the rest of the travel so the
// deadzone edge maps to 0 and ±1 stays ±1.
func ApplyDeadzone(v, d float64) float64 {
	if math.IsNaN(v) {
		return 0.0
	}
	if d <= 0 {
		return v
	}
	if d >= 1 {
		return 0.0
	}
	if math.Abs(v) < d {
		return 0.0
	}
	return (v - sign(v)*d) / (1.0 - d)
}

// Transform applies the deadzone, then scale and offset, and clamps the
// result to [-1, 1].
func Transform(v float64, p Params) float64 {
	return Clamp(ApplyDeadzone(v, p.Deadzone)*p.Scale+p.Offset, -1.0, 1.0)
}
