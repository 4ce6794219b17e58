package models

import "fmt"

// DroneState is one control snapshot exchanged between the controller and
// an autonomous script. Velocities are in [-100, 100].
type DroneState struct {
	Land      bool `json:"land"`
	Takeoff   bool `json:"takeoff"`
	StreamOn  bool `json:"stream_on"`
	StreamOff bool `json:"stream_off"`
	Emergency bool `json:"emergency"`

	LeftRight   int `json:"left_right"`
	UpDown      int `json:"up_down"`
	ForwardBack int `json:"forward_back"`
	Yaw         int `json:"yaw"`
}

func (s DroneState) String() string {
	return fmt.Sprintf("land:%t takeoff:%t streamon:%t streamoff:%t emergency:%t lr:%d ud:%d fb:%d yaw:%d",
		s.Land,
		s.Takeoff,
		s.StreamOn,
		s.StreamOff,
		s.Emergency,
		s.LeftRight,
		s.UpDown,
		s.ForwardBack,
		s.Yaw,
	)
}

// Frame is a decoded video frame, row-major with Channels bytes per pixel
// and no stride padding. Pixel order is BGR as produced by ffmpeg bgr24.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// At returns the bytes of the pixel at x, y.
func (f Frame) At(x, y int) []byte {
	i := (y*f.Width + x) * f.Channels
	return f.Pix[i : i+f.Channels]
}

type Hud struct {
	Lines []string `json:"lines"`
}
