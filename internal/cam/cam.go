package cam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/Speshl/gorrc_tello/internal/ipc"
	log "github.com/sirupsen/logrus"
)

// Decoder runs ffmpeg over a video source and hands out whole raw frames.
// Only the newest frame is kept; a slow consumer skips frames.
type Decoder struct {
	ffmpeg   string
	input    string
	format   string
	fps      int
	geometry ipc.Geometry
	source   io.Reader

	frames chan []byte
}

// stdin read by ffmpeg when the decoder is fed from a stream
const pipeInput = "pipe:0"

// ffmpeg may exit while the stdin copy is still waiting on the source
const waitDelay = time.Second

func NewDecoder(ffmpeg, input, format string, fps int, geometry ipc.Geometry) *Decoder {
	return &Decoder{
		ffmpeg:   ffmpeg,
		input:    input,
		format:   format,
		fps:      fps,
		geometry: geometry,
		frames:   make(chan []byte, 1),
	}
}

// NewStreamDecoder decodes an encoded stream written to ffmpeg's stdin,
// like the drone's H.264 packets.
func NewStreamDecoder(ffmpeg string, source io.Reader, format string, geometry ipc.Geometry) *Decoder {
	d := NewDecoder(ffmpeg, pipeInput, format, 0, geometry)
	d.source = source
	return d
}

// Frames yields frames of exactly Geometry().FrameLength() bytes.
func (d *Decoder) Frames() <-chan []byte {
	return d.frames
}

func (d *Decoder) Geometry() ipc.Geometry {
	return d.geometry
}

func (d *Decoder) Args() []string {
	return decodeArgs(d.input, d.format, d.fps, d.geometry)
}

func (d *Decoder) Start(ctx context.Context) error {
	log.Printf("start decoding %s...\n", d.input)

	cmd := exec.CommandContext(ctx, d.ffmpeg, d.Args()...)
	if d.source != nil {
		cmd.Stdin = d.source
		cmd.WaitDelay = waitDelay
	}
	defer stopCommand("decoder", cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed getting std out pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return fmt.Errorf("failed starting decoder: %w", err)
	}

	log.Println("started ffmpeg", cmd.Args)
	return d.readFrames(ctx, stdout)
}

func (d *Decoder) readFrames(ctx context.Context, from io.Reader) error {
	frameLength := d.geometry.FrameLength()
	for {
		frame := make([]byte, frameLength)
		_, err := io.ReadFull(from, frame)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("stopping decoder due to context\n")
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("decoder output ended: %w", err)
			}
			return fmt.Errorf("failed reading decoder output: %w", err)
		}
		d.publish(frame)
	}
}

func (d *Decoder) publish(frame []byte) {
	for {
		select {
		case d.frames <- frame:
			return
		default:
		}

		select {
		case <-d.frames:
		default:
		}
	}
}
