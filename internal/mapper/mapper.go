package mapper

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/Speshl/gorrc_tello/internal/joystick"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Mapper writes each distinct control a device reports, once, so a new
// controller's codes can be turned into a binding table.
type Mapper struct {
	out  io.Writer
	seen map[string]struct{}
}

func NewMapper(out io.Writer) *Mapper {
	return &Mapper{
		out:  out,
		seen: make(map[string]struct{}),
	}
}

func (m *Mapper) Header(name string, axes, buttons, hats int) error {
	_, err := fmt.Fprintf(m.out, "%s\nN Axes %d\nN Hats %d\nN Buttons %d\n", name, axes, hats, buttons)
	return err
}

// Record writes ev if it is the first of its kind. Axes are told apart by
// direction, hats by position; releases and resting axes are ignored.
func (m *Mapper) Record(ev input.Event) (bool, error) {
	var entry string
	switch ev.Type {
	case input.AxisMotion:
		if ev.Value == 0 {
			return false, nil
		}
		sign := 1
		if ev.Value < 0 {
			sign = -1
		}
		entry = fmt.Sprintf("axis %d %d", ev.Code, sign)
	case input.ButtonDown:
		entry = fmt.Sprintf("button %d", ev.Code)
	case input.HatMotion:
		entry = fmt.Sprintf("hat %d (%d, %d)", ev.Code, ev.Hat.X, ev.Hat.Y)
	default:
		return false, nil
	}

	if _, ok := m.seen[entry]; ok {
		return false, nil
	}
	m.seen[entry] = struct{}{}

	_, err := fmt.Fprintln(m.out, entry)
	if err != nil {
		return false, fmt.Errorf("failed writing %s: %w", entry, err)
	}
	log.Printf("mapped %s\n", entry)
	return true, nil
}

func (m *Mapper) Seen() int {
	return len(m.seen)
}

// Run records everything reader reports into the file at path until ctx is done.
func Run(ctx context.Context, reader *joystick.Reader, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed creating mapper output: %w", err)
	}
	defer file.Close()

	m := NewMapper(file)

	axes, buttons, err := reader.Counts()
	if err != nil {
		log.Printf("warning: %s\n", err.Error())
	}
	err = m.Header(reader.Name(), axes, buttons, reader.Hats())
	if err != nil {
		return fmt.Errorf("failed writing mapper header: %w", err)
	}

	log.Printf("mapping %s into %s, press every control then ctrl-c\n", reader.Device(), path)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return reader.Start(groupCtx)
	})
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				log.Printf("mapper saw %d distinct inputs\n", m.Seen())
				return groupCtx.Err()
			case ev := <-reader.Events():
				if _, err := m.Record(ev); err != nil {
					return err
				}
			}
		}
	})
	return group.Wait()
}
