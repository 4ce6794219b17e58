package input

import (
	"errors"
	"fmt"
)

// Binding maps one raw event code onto one Input entry. Process ignores
// events that are not its kind or code and reports whether it applied.
type Binding interface {
	Process(Event, *Input) (bool, error)
}

type AxisBinding struct {
	Axis   Axis
	Code   int
	Params Params
}

func NewAxisBinding(axis Axis, code int) AxisBinding {
	return AxisBinding{
		Axis:   axis,
		Code:   code,
		Params: DefaultParams,
	}
}

// WithParams returns a copy with scale, offset and deadzone replaced.
func (b AxisBinding) WithParams(scale, offset, deadzone float64) AxisBinding {
	b.Params = Params{Scale: scale, Offset: offset, Deadzone: deadzone}
	return b
}

func (b AxisBinding) Process(ev Event, in *Input) (bool, error) {
	if ev.Type != AxisMotion || ev.Code != b.Code {
		return false, nil
	}
	return true, in.SetAxis(b.Axis, Transform(ev.Value, b.Params))
}

type ButtonBinding struct {
	Button Button
	Code   int
}

func NewButtonBinding(button Button, code int) ButtonBinding {
	return ButtonBinding{Button: button, Code: code}
}

func (b ButtonBinding) Process(ev Event, in *Input) (bool, error) {
	if ev.Code != b.Code {
		return false, nil
	}
	switch ev.Type {
	case ButtonDown:
		return true, in.SetButton(b.Button, true)
	case ButtonUp:
		return true, in.SetButton(b.Button, false)
	default:
		return false, nil
	}
}

type HatBinding struct {
	Hat  Hat
	Code int
}

func NewHatBinding(hat Hat, code int) HatBinding {
	return HatBinding{Hat: hat, Code: code}
}

func (b HatBinding) Process(ev Event, in *Input) (bool, error) {
	if ev.Type != HatMotion || ev.Code != b.Code {
		return false, nil
	}
	return true, in.SetHat(b.Hat, ev.Hat)
}

// Table is the ordered binding list for one device profile.
type Table struct {
	Name     string
	Bindings []Binding
}

// Process runs ev past every binding. A failing binding does not stop the
// rest; all failures come back joined.
func (t Table) Process(ev Event, in *Input) error {
	var errs []error
	for i := range t.Bindings {
		_, err := t.Bindings[i].Process(ev, in)
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %d of %s: %w", i, t.Name, err))
		}
	}
	return errors.Join(errs...)
}
