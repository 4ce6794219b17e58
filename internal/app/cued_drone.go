package app

import (
	"context"

	"github.com/Speshl/gorrc_tello/internal/speaker"
	"github.com/Speshl/gorrc_tello/internal/vehicle"
)

type Cuer interface {
	Cue(speaker.Cue)
}

// cuedDrone announces flight commands as they happen.
type cuedDrone struct {
	vehicle.Drone
	cues Cuer
}

func (d cuedDrone) Connect(ctx context.Context) error {
	d.cues.Cue(speaker.Connecting)
	if err := d.Drone.Connect(ctx); err != nil {
		d.cues.Cue(speaker.Disconnected)
		return err
	}
	d.cues.Cue(speaker.Connected)
	return nil
}

func (d cuedDrone) Takeoff(ctx context.Context) error {
	d.cues.Cue(speaker.Takeoff)
	if err := d.Drone.Takeoff(ctx); err != nil {
		return err
	}
	d.cues.Cue(speaker.Ready)
	return nil
}

func (d cuedDrone) Land(ctx context.Context) error {
	d.cues.Cue(speaker.Landing)
	return d.Drone.Land(ctx)
}

func (d cuedDrone) Emergency(ctx context.Context) error {
	d.cues.Cue(speaker.Emergency)
	return d.Drone.Emergency(ctx)
}
