package script

import (
	"context"
	"time"

	"github.com/Speshl/gorrc_tello/internal/ipc"
	"github.com/Speshl/gorrc_tello/internal/models"
	log "github.com/sirupsen/logrus"
)

// StateWriter is the part of the channel an autonomous producer needs.
type StateWriter interface {
	EncodeState(models.DroneState)
}

var _ StateWriter = (*ipc.Channel)(nil)

func tickPeriod(tickRate int) time.Duration {
	if tickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(tickRate)
}

// writeLoop publishes next() every tick until ctx is done.
func writeLoop(ctx context.Context, name string, out StateWriter, tickRate int, next func(time.Time) models.DroneState) error {
	log.Printf("starting %s script\n", name)

	ticker := time.NewTicker(tickPeriod(tickRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping %s script: %s\n", name, ctx.Err().Error())
			out.EncodeState(models.DroneState{})
			return ctx.Err()
		case now := <-ticker.C:
			out.EncodeState(next(now))
		}
	}
}
