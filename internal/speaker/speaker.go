package speaker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Speshl/gorrc_tello/internal/config"
	log "github.com/sirupsen/logrus"
)

type Cue string

const (
	Connecting    Cue = "connecting"
	Connected     Cue = "connected"
	Takeoff       Cue = "takeoff"
	Ready         Cue = "ready"
	Landing       Cue = "landing"
	Emergency     Cue = "emergency"
	Disconnected  Cue = "disconnected"
	Autonomous    Cue = "autonomous"
	Manual        Cue = "manual"
	Recording     Cue = "recording"
	StopRecording Cue = "stoprecording"
)

const (
	soundExtension = ".wav"
	queueSize      = 4
)

var ErrSoundMissing = errors.New("sound file missing")

// Speaker plays cues one at a time off the control loop.
type Speaker struct {
	cues chan Cue
	cfg  config.SpeakerConfig
}

func NewSpeaker(cfg config.SpeakerConfig) *Speaker {
	return &Speaker{
		cues: make(chan Cue, queueSize),
		cfg:  cfg,
	}
}

// Cue queues a sound without blocking. A full queue drops it.
func (s *Speaker) Cue(cue Cue) {
	select {
	case s.cues <- cue:
	default:
		log.Printf("speaker busy, dropping %s sound\n", cue)
	}
}

func (s *Speaker) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			log.Println("speaker done due to ctx")
			return nil
		case cue := <-s.cues:
			err := s.Play(ctx, cue)
			if err != nil && !errors.Is(err, ErrSoundMissing) {
				log.Printf("failed to play sound - %s\n", err.Error())
			}
		}
	}
}

func (s *Speaker) SoundPath(cue Cue) string {
	return filepath.Join(s.cfg.SoundsDir, string(cue)+soundExtension)
}

func (s *Speaker) Play(ctx context.Context, cue Cue) error {
	if !s.cfg.Enabled {
		log.Debugf("speaker disabled, not playing %s sound\n", cue)
		return nil
	}

	soundPath := s.SoundPath(cue)
	if _, err := os.Stat(soundPath); err != nil {
		log.Debugf("no sound for %s at %s\n", cue, soundPath)
		return fmt.Errorf("%s: %w", soundPath, ErrSoundMissing)
	}

	player := strings.Fields(s.cfg.Player)
	if len(player) == 0 {
		return fmt.Errorf("no player configured")
	}

	log.Printf("start playing %s sound\n", cue)
	defer log.Printf("finished playing %s sound\n", cue)

	if player[0] == BeepPlayer {
		return playBeep(ctx, soundPath)
	}

	args := append(player[1:], soundPath)
	cmd := exec.CommandContext(ctx, player[0], args...)
	err := cmd.Start()
	if err != nil {
		return fmt.Errorf("error starting audio playback - %w", err)
	}
	err = cmd.Wait()
	if err != nil {
		return fmt.Errorf("error during audio playback - %w", err)
	}
	return nil
}
