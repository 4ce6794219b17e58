package tello

import (
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

// videoStream turns the driver's video packets into a byte stream. When
// the reader falls behind, new packets are dropped and the decoder
// resyncs on the next key frame.
type videoStream struct {
	packets chan []byte
	pending []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newVideoStream(depth int) *videoStream {
	return &videoStream{
		packets: make(chan []byte, depth),
		done:    make(chan struct{}),
	}
}

func (s *videoStream) push(packet []byte) {
	// the driver reuses its read buffer
	owned := make([]byte, len(packet))
	copy(owned, packet)

	select {
	case <-s.done:
	case s.packets <- owned:
	default:
		log.Debug("video reader behind, dropping packet")
	}
}

func (s *videoStream) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case <-s.done:
			return 0, io.EOF
		case packet := <-s.packets:
			s.pending = packet
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *videoStream) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
