package script

import (
	"context"
	"time"

	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/Speshl/gorrc_tello/internal/models"
)

// Donuts keeps the drone spinning in place.
type Donuts struct {
	cfg      config.ScriptConfig
	tickRate int
	out      StateWriter
}

func NewDonuts(cfg config.ScriptConfig, tickRate int, out StateWriter) *Donuts {
	return &Donuts{
		cfg:      cfg,
		tickRate: tickRate,
		out:      out,
	}
}

func (d *Donuts) State() models.DroneState {
	return models.DroneState{Yaw: d.cfg.Yaw}
}

func (d *Donuts) Start(ctx context.Context) error {
	return writeLoop(ctx, "donuts", d.out, d.tickRate, func(time.Time) models.DroneState {
		return d.State()
	})
}
