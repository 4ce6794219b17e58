package input

import (
	"fmt"
	"os"
	"runtime"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	ProfileXboxLinux = "xbox-linux"
	ProfileXboxSDL   = "xbox-sdl"
)

// Triggers report -1 at rest and 1 fully pulled; scale and offset fold that
// into [0, 1]. Their deadzone is left to the pilot since a centered deadzone
// would flatten the middle of the pull.
func triggerBinding(axis Axis, code int) AxisBinding {
	return NewAxisBinding(axis, code).WithParams(0.5, 0.5, 0.0)
}

// Stick Y axes report down as positive.
func invertedBinding(axis Axis, code int) AxisBinding {
	return NewAxisBinding(axis, code).WithParams(-1.0, 0.0, DefaultDeadzone)
}

var profiles = map[string]func() Table{
	// xpad through evdev. The d-pad arrives as ABS_HAT0X and ABS_HAT0Y,
	// which the joystick reader folds into hat 0.
	ProfileXboxLinux: func() Table {
		return Table{
			Name: ProfileXboxLinux,
			Bindings: []Binding{
				NewAxisBinding(LThumbstickX, 0),
				invertedBinding(LThumbstickY, 1),
				triggerBinding(LTrigger, 2),
				NewAxisBinding(RThumbstickX, 3),
				invertedBinding(RThumbstickY, 4),
				triggerBinding(RTrigger, 5),
				NewButtonBinding(A, 304),
				NewButtonBinding(B, 305),
				NewButtonBinding(X, 307),
				NewButtonBinding(Y, 308),
				NewButtonBinding(LButton, 310),
				NewButtonBinding(RButton, 311),
				NewButtonBinding(Back, 314),
				NewButtonBinding(Start, 315),
				NewButtonBinding(Home, 316),
				NewHatBinding(DPad, 0),
			},
		}
	},
	// Codes as reported by SDL for the same pad on macOS.
	ProfileXboxSDL: func() Table {
		return Table{
			Name: ProfileXboxSDL,
			Bindings: []Binding{
				NewAxisBinding(LThumbstickX, 0),
				invertedBinding(LThumbstickY, 1),
				NewAxisBinding(RThumbstickX, 3),
				invertedBinding(RThumbstickY, 6),
				triggerBinding(LTrigger, 4),
				triggerBinding(RTrigger, 5),
				NewButtonBinding(Y, 8),
				NewButtonBinding(X, 9),
				NewButtonBinding(B, 10),
				NewButtonBinding(A, 11),
				NewButtonBinding(RButton, 6),
				NewButtonBinding(LButton, 7),
				NewButtonBinding(Start, 3),
				NewButtonBinding(Back, 13),
				NewButtonBinding(Home, 14),
				NewButtonBinding(Shield, 12),
				NewHatBinding(DPad, 0),
			},
		}
	},
}

// DefaultProfile is the built-in profile for the running platform.
func DefaultProfile() string {
	if runtime.GOOS == "linux" {
		return ProfileXboxLinux
	}
	return ProfileXboxSDL
}

func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Profile(name string) (Table, error) {
	build, ok := profiles[name]
	if !ok {
		return Table{}, fmt.Errorf("unknown controller profile %q (have %v)", name, Profiles())
	}
	return build(), nil
}

type tableFile struct {
	Name    string        `yaml:"name"`
	Axes    []axisEntry   `yaml:"axes"`
	Buttons []buttonEntry `yaml:"buttons"`
	Hats    []hatEntry    `yaml:"hats"`
}

type axisEntry struct {
	Axis     string   `yaml:"axis"`
	Code     int      `yaml:"code"`
	Scale    *float64 `yaml:"scale"`
	Offset   *float64 `yaml:"offset"`
	Deadzone *float64 `yaml:"deadzone"`
}

type buttonEntry struct {
	Button string `yaml:"button"`
	Code   int    `yaml:"code"`
}

type hatEntry struct {
	Hat  string `yaml:"hat"`
	Code int    `yaml:"code"`
}

// LoadTable reads a binding table from a YAML file. Omitted scale, offset
// and deadzone take DefaultParams.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed reading binding table: %w", err)
	}
	return ParseTable(data)
}

func ParseTable(data []byte) (Table, error) {
	file := tableFile{}
	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return Table{}, fmt.Errorf("failed parsing binding table: %w", err)
	}

	table := Table{
		Name:     file.Name,
		Bindings: make([]Binding, 0, len(file.Axes)+len(file.Buttons)+len(file.Hats)),
	}
	if table.Name == "" {
		table.Name = "custom"
	}

	for _, entry := range file.Axes {
		axis, err := ParseAxis(entry.Axis)
		if err != nil {
			return Table{}, err
		}
		params := DefaultParams
		if entry.Scale != nil {
			params.Scale = *entry.Scale
		}
		if entry.Offset != nil {
			params.Offset = *entry.Offset
		}
		if entry.Deadzone != nil {
			params.Deadzone = *entry.Deadzone
		}
		table.Bindings = append(table.Bindings, AxisBinding{Axis: axis, Code: entry.Code, Params: params})
	}

	for _, entry := range file.Buttons {
		button, err := ParseButton(entry.Button)
		if err != nil {
			return Table{}, err
		}
		table.Bindings = append(table.Bindings, NewButtonBinding(button, entry.Code))
	}

	for _, entry := range file.Hats {
		hat, err := ParseHat(entry.Hat)
		if err != nil {
			return Table{}, err
		}
		table.Bindings = append(table.Bindings, NewHatBinding(hat, entry.Code))
	}

	return table, nil
}
