package speaker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	beepspeaker "github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// BeepPlayer is the player name that plays cues in process.
const BeepPlayer = "beep"

const outputSampleRate = beep.SampleRate(48000)

var initOutput = sync.OnceValue(func() error {
	return beepspeaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10))
})

func playBeep(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening sound - %w", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("error decoding sound - %w", err)
	}
	defer streamer.Close()

	if err := initOutput(); err != nil {
		return fmt.Errorf("error opening audio output - %w", err)
	}

	done := make(chan struct{})
	resampled := beep.Resample(3, format.SampleRate, outputSampleRate, streamer)
	beepspeaker.Play(beep.Seq(resampled, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		beepspeaker.Clear()
		return ctx.Err()
	}
}
