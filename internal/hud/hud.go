package hud

import (
	"fmt"
	"strings"
	"time"

	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/Speshl/gorrc_tello/internal/models"
	"github.com/Speshl/gorrc_tello/internal/vehicle"
	"github.com/prometheus/procfs"
	log "github.com/sirupsen/logrus"
)

const barWidth = 10

type Snapshot struct {
	Mode      vehicle.Mode
	Input     input.Input
	Flying    bool
	Streaming bool
	Frame     models.Frame
	Frames    int
}

// Hud periodically renders the controller and link state as log lines.
type Hud struct {
	cfg  config.HudConfig
	proc *procfs.Proc
	next time.Time
}

func NewHud(cfg config.HudConfig) *Hud {
	h := &Hud{cfg: cfg}
	p, err := procfs.Self()
	if err != nil {
		log.Printf("warning: procfs could not get process, no network stats: %s\n", err.Error())
	} else {
		h.proc = &p
	}
	return h
}

// Due reports whether the interval elapsed and schedules the next update.
func (h *Hud) Due(now time.Time) bool {
	if !h.cfg.Enabled || now.Before(h.next) {
		return false
	}
	h.next = now.Add(time.Duration(h.cfg.Interval) * time.Millisecond)
	return true
}

func (h *Hud) Update(snap Snapshot) models.Hud {
	var netInfo *procfs.NetDevLine
	if h.proc != nil {
		netDev, err := h.proc.NetDev()
		if err != nil {
			log.Debugf("failed getting netstat: %s\n", err.Error())
		} else if line, ok := netDev[h.cfg.NetInterface]; ok {
			netInfo = &line
		}
	}

	hud := Build(snap, netInfo)
	for _, line := range hud.Lines {
		log.Info(line)
	}
	return hud
}

func Build(snap Snapshot, netInfo *procfs.NetDevLine) models.Hud {
	lines := make([]string, 0, 4)

	lines = append(lines, fmt.Sprintf("Mode:%s | Flying:%t | Streaming:%t | Frames:%d | Frame:%dx%d",
		snap.Mode,
		snap.Flying,
		snap.Streaming,
		snap.Frames,
		snap.Frame.Width,
		snap.Frame.Height,
	))

	in := snap.Input
	lines = append(lines, fmt.Sprintf("LT %s RT %s | L(%.2f,%.2f) R(%.2f,%.2f)",
		bar(in.Axis(input.LTrigger)),
		bar(in.Axis(input.RTrigger)),
		in.Axis(input.LThumbstickX),
		in.Axis(input.LThumbstickY),
		in.Axis(input.RThumbstickX),
		in.Axis(input.RThumbstickY),
	))
	lines = append(lines, in.String())

	if netInfo != nil {
		lines = append(lines, fmt.Sprintf("%s RxPkt:%d | RxErr:%d | RxDrop: %d | TxPkt:%d | TxErr:%d | TxDrop: %d",
			netInfo.Name,
			netInfo.RxPackets,
			netInfo.RxErrors,
			netInfo.RxDropped,
			netInfo.TxPackets,
			netInfo.TxErrors,
			netInfo.TxDropped,
		))
	}

	return models.Hud{
		Lines: lines,
	}
}

// bar draws a [0,1] trigger value.
func bar(value float64) string {
	filled := int(vehicle.MapToRange(value, 0, 1, 0, barWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}
