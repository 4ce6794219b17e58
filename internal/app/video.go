package app

import (
	"context"
	"errors"
	"time"

	"github.com/Speshl/gorrc_tello/internal/cam"
	"github.com/Speshl/gorrc_tello/internal/ipc"
	"github.com/Speshl/gorrc_tello/internal/models"
	"github.com/Speshl/gorrc_tello/internal/speaker"
	log "github.com/sirupsen/logrus"
)

// FrameWriter copies decoded frames into the channel as they arrive.
type FrameWriter struct {
	channel *ipc.Channel
	frames  <-chan []byte
	written int
}

func NewFrameWriter(channel *ipc.Channel, frames <-chan []byte) *FrameWriter {
	return &FrameWriter{
		channel: channel,
		frames:  frames,
	}
}

func (w *FrameWriter) Start(ctx context.Context) error {
	geometry := w.channel.Geometry()
	for {
		select {
		case <-ctx.Done():
			log.Printf("frame writer stopping after %d frames\n", w.written)
			return ctx.Err()
		case frame := <-w.frames:
			err := w.channel.EncodeFrame(frame, geometry.Width, geometry.Height, geometry.Channels)
			if err != nil {
				log.Printf("dropping frame: %s\n", err.Error())
				continue
			}
			w.written++
		}
	}
}

const stopCueTimeout = 5 * time.Second

// CuePlayer plays a cue to the end.
type CuePlayer interface {
	Play(context.Context, speaker.Cue) error
}

// FrameReader samples the channel's frame at a fixed rate into a recorder.
type FrameReader struct {
	channel  *ipc.Channel
	recorder *cam.Recorder
	fps      int
	cues     CuePlayer
}

func NewFrameReader(channel *ipc.Channel, recorder *cam.Recorder, fps int, cues CuePlayer) *FrameReader {
	return &FrameReader{
		channel:  channel,
		recorder: recorder,
		fps:      fps,
		cues:     cues,
	}
}

func (r *FrameReader) Start(ctx context.Context) error {
	err := r.recorder.Start()
	if err != nil {
		return err
	}
	go r.play(ctx, speaker.Recording)
	defer func() {
		if err := r.recorder.Close(); err != nil {
			log.Printf("failed closing recorder: %s\n", err.Error())
		}
		// ctx is already done here
		stopCtx, cancel := context.WithTimeout(context.Background(), stopCueTimeout)
		defer cancel()
		r.play(stopCtx, speaker.StopRecording)
	}()

	fps := r.fps
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	frame := models.Frame{}
	for {
		select {
		case <-ctx.Done():
			log.Printf("frame reader stopping: %s\n", ctx.Err().Error())
			return ctx.Err()
		case <-ticker.C:
			r.channel.DecodeFrameInto(&frame)
			err := r.recorder.Write(frame.Pix)
			if err != nil {
				return err
			}
		}
	}
}

func (r *FrameReader) play(ctx context.Context, cue speaker.Cue) {
	err := r.cues.Play(ctx, cue)
	if err != nil && !errors.Is(err, speaker.ErrSoundMissing) {
		log.Printf("failed to play %s sound - %s\n", cue, err.Error())
	}
}
