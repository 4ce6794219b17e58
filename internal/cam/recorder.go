package cam

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/Speshl/gorrc_tello/internal/ipc"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const recordingDir = "/tmp"

// Recorder pipes raw frames into an ffmpeg encoder writing a video file.
// The encoder is not tied to a context so Close can always finish the file.
type Recorder struct {
	cfg      config.RecorderConfig
	ffmpeg   string
	geometry ipc.Geometry
	output   string

	lock  sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func NewRecorder(ffmpeg string, cfg config.RecorderConfig, geometry ipc.Geometry) *Recorder {
	output := cfg.Output
	if output == "" {
		output = RecordingPath(uuid.New())
	}

	return &Recorder{
		cfg:      cfg,
		ffmpeg:   ffmpeg,
		geometry: geometry,
		output:   output,
	}
}

func RecordingPath(id uuid.UUID) string {
	return filepath.Join(recordingDir, fmt.Sprintf("dronevideo-%s.avi", id.String()))
}

func (r *Recorder) Output() string {
	return r.output
}

func (r *Recorder) Args() []string {
	return encodeArgs(r.output, r.cfg.Codec, r.cfg.Tag, r.cfg.FPS, r.geometry)
}

func (r *Recorder) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.cmd != nil {
		return fmt.Errorf("recorder already started")
	}

	cmd := exec.Command(r.ffmpeg, r.Args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed getting std in pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return fmt.Errorf("failed starting recorder: %w", err)
	}

	r.cmd = cmd
	r.stdin = stdin
	log.Printf("recording to %s\n", r.output)
	return nil
}

// Write encodes one frame. Frames of the wrong size are rejected.
func (r *Recorder) Write(frame []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.stdin == nil {
		return fmt.Errorf("recorder not started")
	}
	if len(frame) != r.geometry.FrameLength() {
		return fmt.Errorf("frame of %d bytes, want %d: %w", len(frame), r.geometry.FrameLength(), ipc.ErrFrameShapeMismatch)
	}

	_, err := r.stdin.Write(frame)
	if err != nil {
		return fmt.Errorf("failed writing frame to recorder: %w", err)
	}
	return nil
}

// Close finishes the file. The encoder gets end of input and is waited on.
func (r *Recorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.cmd == nil {
		return nil
	}

	r.stdin.Close()
	err := r.cmd.Wait()
	r.cmd = nil
	r.stdin = nil
	if err != nil {
		return fmt.Errorf("recorder exited: %w", err)
	}
	log.Printf("finished recording %s\n", r.output)
	return nil
}
