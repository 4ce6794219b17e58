//go:build linux

package joystick

import (
	"context"
	"fmt"

	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/kenshaw/evdev"
	log "github.com/sirupsen/logrus"
)

// Name is the product name the kernel reports, or the device path when
// the device cannot be opened.
func (r *Reader) Name() string {
	dev, err := evdev.OpenFile(r.device)
	if err != nil {
		return r.device
	}
	defer dev.Close()
	return dev.Name()
}

// Counts asks the device how many absolute axes and keys it has.
func (r *Reader) Counts() (axes int, buttons int, err error) {
	dev, err := evdev.OpenFile(r.device)
	if err != nil {
		return 0, 0, fmt.Errorf("failed opening joystick %s: %w", r.device, err)
	}
	defer dev.Close()

	for _, present := range dev.KeyTypes() {
		if present {
			buttons++
		}
	}
	return len(dev.AbsoluteTypes()), buttons, nil
}

// Start reads the device until ctx is done or the device goes away.
func (r *Reader) Start(ctx context.Context) error {
	dev, err := evdev.OpenFile(r.device)
	if err != nil {
		return fmt.Errorf("failed opening joystick %s: %w", r.device, err)
	}
	defer dev.Close()

	for code, axis := range dev.AbsoluteTypes() {
		r.ranges[int(code)] = axisRange{min: axis.Min, max: axis.Max}
	}

	log.Printf("reading joystick %s (%s)\n", r.device, dev.Name())

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	return r.read(ctx, dev.Poll(pollCtx))
}

func (r *Reader) read(ctx context.Context, from <-chan *evdev.EventEnvelope) error {
	for {
		var envelope *evdev.EventEnvelope
		select {
		case <-ctx.Done():
			log.Printf("stopping joystick reader: %s\n", ctx.Err().Error())
			return ctx.Err()
		case e, ok := <-from:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("%s: %w", r.device, ErrDeviceGone)
			}
			envelope = e
		}

		ev, ok := r.translate(envelope.Event)
		if !ok {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case r.events <- ev:
		}
	}
}

func (r *Reader) translate(raw evdev.Event) (input.Event, bool) {
	code := int(raw.Code)
	switch raw.Type {
	case evdev.EventKey:
		return r.key(code, raw.Value)
	case evdev.EventAbsolute:
		return r.axis(code, raw.Value), true
	default:
		return input.Event{}, false
	}
}
