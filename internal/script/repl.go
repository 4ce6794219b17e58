package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/Speshl/gorrc_tello/internal/ipc"
	"github.com/Speshl/gorrc_tello/internal/models"
	log "github.com/sirupsen/logrus"
)

const Usage = "t takeoff, l land, e emergency, o stream on, f stream off | " +
	"w/s forward/back, a/d left/right, up/down climb/descend, left/right yaw | space hover, q quit"

// Repl drives the drone from the terminal. Command keys raise their flag
// for one pulse so the controller sees a rising edge; movement keys step
// the held velocities.
type Repl struct {
	cfg      config.ScriptConfig
	tickRate int
	out      StateWriter

	state      models.DroneState
	pulseUntil time.Time
	keys       chan keys.Key
}

func NewRepl(cfg config.ScriptConfig, tickRate int, out StateWriter) *Repl {
	return &Repl{
		cfg:      cfg,
		tickRate: tickRate,
		out:      out,
		keys:     make(chan keys.Key, 16),
	}
}

func (r *Repl) Start(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	fmt.Println(Usage)
	go func() {
		err := keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			if key.Code == keys.Null {
				return false, nil
			}
			select {
			case <-ctx.Done():
				return true, nil
			case r.keys <- key:
			}
			return key.Code == keys.CtrlC || key.Code == keys.Esc || key.String() == "q", nil
		})
		if err != nil {
			log.Printf("keyboard listener failed: %s\n", err.Error())
		}
	}()

	err := writeLoop(ctx, "repl", r.out, r.tickRate, func(now time.Time) models.DroneState {
	drain:
		for {
			select {
			case key := <-r.keys:
				if r.Handle(key, now) {
					cancel()
				}
			default:
				break drain
			}
		}
		return r.State(now)
	})
	if errors.Is(err, context.Canceled) && parent.Err() == nil {
		log.Println("repl quit")
		return nil
	}
	return err
}

// Handle applies one key press and reports whether the user asked to quit.
func (r *Repl) Handle(key keys.Key, now time.Time) bool {
	step := r.cfg.Step
	switch key.Code {
	case keys.CtrlC, keys.Esc:
		return true
	case keys.Up:
		r.state.UpDown = ipc.ClampVelocity(r.state.UpDown + step)
	case keys.Down:
		r.state.UpDown = ipc.ClampVelocity(r.state.UpDown - step)
	case keys.Left:
		r.state.Yaw = ipc.ClampVelocity(r.state.Yaw - step)
	case keys.Right:
		r.state.Yaw = ipc.ClampVelocity(r.state.Yaw + step)
	case keys.Space:
		r.hover()
	case keys.RuneKey:
		switch key.String() {
		case "q":
			return true
		case "w":
			r.state.ForwardBack = ipc.ClampVelocity(r.state.ForwardBack + step)
		case "s":
			r.state.ForwardBack = ipc.ClampVelocity(r.state.ForwardBack - step)
		case "a":
			r.state.LeftRight = ipc.ClampVelocity(r.state.LeftRight - step)
		case "d":
			r.state.LeftRight = ipc.ClampVelocity(r.state.LeftRight + step)
		case "t":
			r.pulse(now, func(s *models.DroneState) { s.Takeoff = true })
		case "l":
			r.hover()
			r.pulse(now, func(s *models.DroneState) { s.Land = true })
		case "e":
			r.hover()
			r.pulse(now, func(s *models.DroneState) { s.Emergency = true })
		case "o":
			r.pulse(now, func(s *models.DroneState) { s.StreamOn = true })
		case "f":
			r.pulse(now, func(s *models.DroneState) { s.StreamOff = true })
		default:
			log.Debugf("unbound key %s\n", key.String())
		}
	default:
		log.Debugf("unbound key %s\n", key.String())
	}
	log.Printf("repl state: %s\n", r.state.String())
	return false
}

func (r *Repl) hover() {
	r.state.LeftRight = 0
	r.state.ForwardBack = 0
	r.state.UpDown = 0
	r.state.Yaw = 0
}

func (r *Repl) pulse(now time.Time, set func(*models.DroneState)) {
	r.clearFlags()
	set(&r.state)
	r.pulseUntil = now.Add(time.Duration(r.cfg.Pulse) * time.Millisecond)
}

func (r *Repl) clearFlags() {
	r.state.Takeoff = false
	r.state.Land = false
	r.state.Emergency = false
	r.state.StreamOn = false
	r.state.StreamOff = false
}

// State is what gets written at now; raised flags drop once the pulse ends.
func (r *Repl) State(now time.Time) models.DroneState {
	if !now.Before(r.pulseUntil) {
		r.clearFlags()
	}
	return r.state
}
