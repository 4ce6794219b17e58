//go:build !linux

package joystick

import (
	"context"
	"errors"
)

var errNoEvdev = errors.New("joystick reading needs linux evdev")

func (r *Reader) Name() string {
	return r.device
}

func (r *Reader) Counts() (axes int, buttons int, err error) {
	return 0, 0, errNoEvdev
}

func (r *Reader) Start(ctx context.Context) error {
	return errNoEvdev
}
