package speaker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoundPath(t *testing.T) {
	s := NewSpeaker(config.SpeakerConfig{SoundsDir: "/opt/sounds"})
	assert.Equal(t, "/opt/sounds/stoprecording.wav", s.SoundPath(StopRecording))
}

func TestPlayDisabled(t *testing.T) {
	s := NewSpeaker(config.SpeakerConfig{Enabled: false, SoundsDir: t.TempDir()})
	assert.NoError(t, s.Play(context.Background(), Takeoff))
}

func TestPlayMissingSound(t *testing.T) {
	s := NewSpeaker(config.SpeakerConfig{Enabled: true, Player: "true", SoundsDir: t.TempDir()})
	assert.ErrorIs(t, s.Play(context.Background(), Landing), ErrSoundMissing)
}

func TestPlayRunsPlayer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ready.wav"), []byte("RIFF"), 0o600))

	s := NewSpeaker(config.SpeakerConfig{Enabled: true, Player: "true -q", SoundsDir: dir})
	assert.NoError(t, s.Play(context.Background(), Ready))

	s = NewSpeaker(config.SpeakerConfig{Enabled: true, Player: "false", SoundsDir: dir})
	assert.Error(t, s.Play(context.Background(), Ready))
}

func TestCueNeverBlocks(t *testing.T) {
	s := NewSpeaker(config.SpeakerConfig{})
	for i := 0; i < queueSize*2; i++ {
		s.Cue(Connected)
	}
	assert.Len(t, s.cues, queueSize)
}
