package app

import (
	"context"
	"time"

	"github.com/Speshl/gorrc_tello/internal/cam"
	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/Speshl/gorrc_tello/internal/hud"
	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/Speshl/gorrc_tello/internal/ipc"
	"github.com/Speshl/gorrc_tello/internal/joystick"
	"github.com/Speshl/gorrc_tello/internal/models"
	"github.com/Speshl/gorrc_tello/internal/speaker"
	"github.com/Speshl/gorrc_tello/internal/vehicle"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// App is the controller process. Everything that touches the input model
// or the channel runs on the loop goroutine; the joystick, decoder and
// speaker feed it over Go channels.
type App struct {
	cfg     config.Config
	channel *ipc.Channel
	drone   vehicle.Drone
	table   input.Table
	speaker *speaker.Speaker
	hud     *hud.Hud

	input      input.Input
	mode       vehicle.Mode
	manual     *vehicle.ManualPilot
	autonomous *vehicle.AutonomousPilot

	events  <-chan input.Event
	frames  <-chan []byte
	workers []Worker

	frameCount int
}

func NewApp(cfg config.Config, channel *ipc.Channel, drone vehicle.Drone, table input.Table, spk *speaker.Speaker) *App {
	a := &App{
		cfg:        cfg,
		channel:    channel,
		drone:      cuedDrone{Drone: drone, cues: spk},
		table:      table,
		speaker:    spk,
		hud:        hud.NewHud(cfg.HudCfg),
		manual:     vehicle.NewManualPilot(cfg.ControlCfg.TriggerDeadzone),
		autonomous: vehicle.NewAutonomousPilot(),
		workers:    []Worker{spk},
	}
	if cfg.ControlCfg.StartAutonomous {
		a.setMode(vehicle.ModeAutonomous)
	}
	return a
}

func (a *App) AddJoystick(reader *joystick.Reader) {
	a.events = reader.Events()
	a.workers = append(a.workers, optional("joystick", reader))
}

func (a *App) AddDecoder(decoder *cam.Decoder) {
	a.frames = decoder.Frames()
	a.workers = append(a.workers, optional("decoder", decoder))
}

func (a *App) Mode() vehicle.Mode {
	return a.mode
}

func (a *App) Start(ctx context.Context) error {
	log.Printf("starting controller with %s bindings in %s mode\n", a.table.Name, a.mode)
	defer a.shutdown()

	workers := append([]Worker{WorkerFunc(a.loop)}, a.workers...)
	return Run(ctx, workers...)
}

func (a *App) loop(ctx context.Context) error {
	tickRate := a.cfg.ControlCfg.TickRate
	if tickRate <= 0 {
		tickRate = config.DefaultTickRate
	}
	period := time.Second / time.Duration(tickRate)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping control loop: %s\n", ctx.Err().Error())
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			a.Step(ctx, start)
			if elapsed := time.Since(start); elapsed > period {
				log.Printf("tick overran: %s > %s\n", elapsed, period)
			}
		}
	}
}

// Step runs one control tick.
func (a *App) Step(ctx context.Context, now time.Time) {
	a.input.Tick()
	a.drainEvents()

	if a.input.ButtonDown(input.RButton) {
		if a.mode == vehicle.ModeAutonomous {
			a.setMode(vehicle.ModeManual)
		} else {
			a.setMode(vehicle.ModeAutonomous)
		}
	}

	switch a.mode {
	case vehicle.ModeAutonomous:
		a.autonomous.Apply(ctx, a.drone, a.channel.DecodeState())
	default:
		a.manual.Apply(ctx, a.drone, &a.input)
	}

	a.writeFrame()

	if a.hud.Due(now) {
		a.hud.Update(a.snapshot())
	}
}

func (a *App) drainEvents() {
	for {
		select {
		case ev := <-a.events:
			if err := a.table.Process(ev, &a.input); err != nil {
				log.Printf("failed processing %s: %s\n", ev, err.Error())
			}
		default:
			return
		}
	}
}

func (a *App) setMode(mode vehicle.Mode) {
	a.mode = mode
	log.Printf("switched to %s mode\n", mode)
	if mode == vehicle.ModeAutonomous {
		// flags already raised before the switch are not edges
		a.autonomous.Reset(a.channel.DecodeState())
		a.speaker.Cue(speaker.Autonomous)
	} else {
		a.speaker.Cue(speaker.Manual)
	}
}

func (a *App) writeFrame() {
	select {
	case frame := <-a.frames:
		geometry := a.channel.Geometry()
		err := a.channel.EncodeFrame(frame, geometry.Width, geometry.Height, geometry.Channels)
		if err != nil {
			log.Printf("dropping frame: %s\n", err.Error())
			return
		}
		a.frameCount++
	default:
	}
}

func (a *App) snapshot() hud.Snapshot {
	snap := hud.Snapshot{
		Mode:      a.mode,
		Input:     a.input,
		Flying:    a.drone.IsFlying(),
		Streaming: a.drone.IsStreaming(),
		Frames:    a.frameCount,
	}
	if a.frameCount > 0 {
		geometry := a.channel.Geometry()
		snap.Frame = models.Frame{Width: geometry.Width, Height: geometry.Height, Channels: geometry.Channels}
	}
	return snap
}

// shutdown leaves the drone safe: stream off, then on the ground.
func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.drone.IsStreaming() {
		log.Println("shutdown: streamoff")
		if err := a.drone.StreamOff(ctx); err != nil {
			log.Printf("shutdown streamoff failed: %s\n", err.Error())
		}
	}
	if a.drone.IsFlying() {
		log.Println("shutdown: land")
		if err := a.drone.Land(ctx); err != nil {
			log.Printf("shutdown land failed: %s\n", err.Error())
		}
	}
}

// optional keeps a failing input source from stopping the loop; the drone
// stays controllable through the other pilot. It returns once ctx is done.
func optional(name string, worker Worker) Worker {
	return WorkerFunc(func(ctx context.Context) error {
		err := worker.Start(ctx)
		if err != nil && ctx.Err() == nil {
			log.Printf("%s stopped: %s\n", name, err.Error())
		}
		<-ctx.Done()
		return nil
	})
}
