package vehicle

import (
	"context"

	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/Speshl/gorrc_tello/internal/models"
	log "github.com/sirupsen/logrus"
)

type Mode int

const (
	ModeManual Mode = iota
	ModeAutonomous
)

func (m Mode) String() string {
	if m == ModeAutonomous {
		return "autonomous"
	}
	return "manual"
}

// ManualPilot flies the drone from the controller.
type ManualPilot struct {
	triggerDeadzone float64
}

func NewManualPilot(triggerDeadzone float64) *ManualPilot {
	return &ManualPilot{
		triggerDeadzone: triggerDeadzone,
	}
}

func (p *ManualPilot) Apply(ctx context.Context, drone Drone, in *input.Input) {
	NewPress(in, input.A, func() {
		log.Println("takeoff")
		if !drone.IsFlying() {
			logCommandError("takeoff", drone.Takeoff(ctx))
		}
	})
	NewPress(in, input.B, func() {
		log.Println("land")
		if drone.IsFlying() {
			logCommandError("land", drone.Land(ctx))
		}
	})
	NewPress(in, input.Home, func() {
		log.Println("emergency")
		logCommandError("emergency", drone.Emergency(ctx))
	})
	NewPress(in, input.Start, func() {
		log.Println("connect")
		logCommandError("connect", drone.Connect(ctx))
	})
	NewPress(in, input.X, func() {
		log.Println("streamon")
		logCommandError("streamon", drone.StreamOn(ctx))
	})
	NewPress(in, input.Y, func() {
		log.Println("streamoff")
		logCommandError("streamoff", drone.StreamOff(ctx))
	})

	if !drone.IsFlying() {
		return
	}

	leftRight, forwardBack, upDown, yaw := p.Velocities(in)
	logCommandError("rc", drone.SendVelocity(leftRight, forwardBack, upDown, yaw))
}

// Velocities converts the sticks and triggers into rc values. Descending
// wins when both triggers are held.
func (p *ManualPilot) Velocities(in *input.Input) (leftRight, forwardBack, upDown, yaw int) {
	upDownValue := 0.0
	if lt := input.ApplyDeadzone(in.Axis(input.LTrigger), p.triggerDeadzone); lt > 0 {
		upDownValue = -lt
	} else if rt := input.ApplyDeadzone(in.Axis(input.RTrigger), p.triggerDeadzone); rt > 0 {
		upDownValue = rt
	}

	return ToControl(in.Axis(input.LThumbstickX)),
		ToControl(in.Axis(input.LThumbstickY)),
		ToControl(upDownValue),
		ToControl(in.Axis(input.RThumbstickX))
}

// AutonomousPilot flies the drone from the state another process writes
// into the channel.
type AutonomousPilot struct {
	previous models.DroneState
}

func NewAutonomousPilot() *AutonomousPilot {
	return &AutonomousPilot{}
}

// Reset forgets the previous flags so a flag already held when autonomous
// mode starts does not fire.
func (p *AutonomousPilot) Reset(current models.DroneState) {
	p.previous = current
}

func (p *AutonomousPilot) Apply(ctx context.Context, drone Drone, state models.DroneState) {
	previous := p.previous
	p.previous = state

	if RisingEdge(previous.Takeoff, state.Takeoff) && !drone.IsFlying() {
		log.Println("autonomous takeoff")
		logCommandError("takeoff", drone.Takeoff(ctx))
	}
	if RisingEdge(previous.Land, state.Land) && drone.IsFlying() {
		log.Println("autonomous land")
		logCommandError("land", drone.Land(ctx))
	}
	if RisingEdge(previous.Emergency, state.Emergency) {
		log.Println("autonomous emergency")
		logCommandError("emergency", drone.Emergency(ctx))
	}
	if RisingEdge(previous.StreamOn, state.StreamOn) {
		log.Println("autonomous streamon")
		logCommandError("streamon", drone.StreamOn(ctx))
	}
	if RisingEdge(previous.StreamOff, state.StreamOff) {
		log.Println("autonomous streamoff")
		logCommandError("streamoff", drone.StreamOff(ctx))
	}

	if drone.IsFlying() {
		logCommandError("rc", drone.SendVelocity(state.LeftRight, state.ForwardBack, state.UpDown, state.Yaw))
	}
}

func logCommandError(command string, err error) {
	if err != nil {
		log.Printf("drone %s failed: %s\n", command, err.Error())
	}
}
