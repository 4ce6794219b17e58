package tello

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/Speshl/gorrc_tello/internal/vehicle"
	log "github.com/sirupsen/logrus"
	dji "gobot.io/x/gobot/platforms/dji/tello"
)

const (
	// the drone drops the stream unless asked for a key frame regularly
	keyFrameInterval = 100 * time.Millisecond

	videoPackets = 64
)

var ErrTimeout = errors.New("drone did not answer in time")

// driver is the part of the gobot Tello driver the client flies with.
type driver interface {
	Start() error
	Halt() error
	On(name string, f func(data interface{})) error

	TakeOff() error
	Land() error
	StartVideo() error

	Left(int) error
	Right(int) error
	Forward(int) error
	Backward(int) error
	Up(int) error
	Down(int) error
	Clockwise(int) error
	CounterClockwise(int) error
}

var _ driver = (*dji.Driver)(nil)

// Client flies a Tello through gobot's driver and republishes its video
// packets as an H.264 byte stream.
type Client struct {
	cfg    config.DroneConfig
	driver driver
	video  *videoStream

	// streaming is read from the driver's event goroutine without lock
	streaming atomic.Bool

	lock       sync.Mutex
	started    bool
	connected  chan struct{}
	flying     bool
	stopFrames context.CancelFunc
}

var _ vehicle.Drone = (*Client)(nil)

func NewClient(cfg config.DroneConfig) *Client {
	return newClient(cfg, dji.NewDriver(cfg.LocalPort))
}

func newClient(cfg config.DroneConfig, d driver) *Client {
	return &Client{
		cfg:    cfg,
		driver: d,
		video:  newVideoStream(videoPackets),
	}
}

// Video is the raw H.264 stream while streaming is on. Reads block until
// packets arrive and end with io.EOF after Close.
func (c *Client) Video() io.Reader {
	return c.video
}

// Connect starts the driver and waits for the drone's connection ack.
func (c *Client) Connect(ctx context.Context) error {
	c.lock.Lock()
	if !c.started {
		err := c.start()
		if err != nil {
			c.lock.Unlock()
			return err
		}
		c.started = true
	}
	connected := c.connected
	c.lock.Unlock()

	timer := time.NewTimer(time.Duration(c.cfg.ResponseTimeout) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("connect: %w", ErrTimeout)
	case <-connected:
		return nil
	}
}

// start registers the event handlers and starts the driver. Caller holds lock.
func (c *Client) start() error {
	var once sync.Once
	connected := make(chan struct{})
	c.connected = connected
	err := c.driver.On(dji.ConnectedEvent, func(interface{}) {
		once.Do(func() {
			log.Println("connected to tello")
			close(connected)
		})
	})
	if err != nil {
		return fmt.Errorf("failed watching connect event: %w", err)
	}

	err = c.driver.On(dji.VideoFrameEvent, c.onVideoFrame)
	if err != nil {
		return fmt.Errorf("failed watching video event: %w", err)
	}

	err = c.driver.Start()
	if err != nil {
		return fmt.Errorf("failed starting tello driver: %w", err)
	}
	log.Printf("tello driver started, answers on port %s\n", c.cfg.LocalPort)
	return nil
}

func (c *Client) onVideoFrame(data interface{}) {
	packet, ok := data.([]byte)
	if !ok || !c.streaming.Load() {
		return
	}
	c.video.push(packet)
}

// Close halts the driver and ends the video stream. The drone keeps
// whatever state it is in.
func (c *Client) Close() error {
	c.lock.Lock()
	c.stopKeyFrames()
	c.streaming.Store(false)
	c.video.close()
	started := c.started
	c.started = false
	c.lock.Unlock()

	if !started {
		return nil
	}
	return c.driver.Halt()
}

// ready fails until the drone acked the connection. Caller holds lock.
func (c *Client) ready() error {
	if !c.started {
		return vehicle.ErrNotConnected
	}
	select {
	case <-c.connected:
		return nil
	default:
		return vehicle.ErrNotConnected
	}
}

func (c *Client) Takeoff(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	if err := c.driver.TakeOff(); err != nil {
		return fmt.Errorf("takeoff: %w", err)
	}
	c.flying = true
	return nil
}

func (c *Client) Land(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	if err := c.driver.Land(); err != nil {
		return fmt.Errorf("land: %w", err)
	}
	c.flying = false
	return nil
}

// Emergency zeroes every stick and lands. The protocol the driver speaks
// has no motor cut.
func (c *Client) Emergency(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	if err := c.setVelocity(0, 0, 0, 0); err != nil {
		return fmt.Errorf("emergency: %w", err)
	}
	if err := c.driver.Land(); err != nil {
		return fmt.Errorf("emergency: %w", err)
	}
	c.flying = false
	return nil
}

func (c *Client) StreamOn(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	if err := c.driver.StartVideo(); err != nil {
		return fmt.Errorf("streamon: %w", err)
	}
	c.streaming.Store(true)

	if c.stopFrames == nil {
		frameCtx, cancel := context.WithCancel(context.Background())
		c.stopFrames = cancel
		go c.requestKeyFrames(frameCtx)
	}
	return nil
}

func (c *Client) requestKeyFrames(ctx context.Context) {
	ticker := time.NewTicker(keyFrameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.driver.StartVideo(); err != nil {
				log.Debugf("failed requesting key frame: %s\n", err.Error())
			}
		}
	}
}

// StreamOff stops forwarding video. The drone keeps sending until it stops
// getting key frame requests.
func (c *Client) StreamOff(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	c.stopKeyFrames()
	c.streaming.Store(false)
	return nil
}

func (c *Client) stopKeyFrames() {
	if c.stopFrames != nil {
		c.stopFrames()
		c.stopFrames = nil
	}
}

// SendVelocity sets the sticks, each value clamped to [-100,100]. The
// driver repeats the last sticks to the drone on its own.
func (c *Client) SendVelocity(leftRight, forwardBack, upDown, yaw int) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if err := c.ready(); err != nil {
		return err
	}
	return c.setVelocity(leftRight, forwardBack, upDown, yaw)
}

func (c *Client) setVelocity(leftRight, forwardBack, upDown, yaw int) error {
	return errors.Join(
		axis(clampControl(leftRight), c.driver.Right, c.driver.Left),
		axis(clampControl(forwardBack), c.driver.Forward, c.driver.Backward),
		axis(clampControl(upDown), c.driver.Up, c.driver.Down),
		axis(clampControl(yaw), c.driver.Clockwise, c.driver.CounterClockwise),
	)
}

// axis drives one stick through the driver's pair of directional setters.
func axis(v int, positive, negative func(int) error) error {
	if v < 0 {
		return negative(-v)
	}
	return positive(v)
}

func clampControl(v int) int {
	if v > vehicle.MaxControl {
		return vehicle.MaxControl
	} else if v < vehicle.MinControl {
		return vehicle.MinControl
	}
	return v
}

func (c *Client) IsFlying() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.flying
}

func (c *Client) IsStreaming() bool {
	return c.streaming.Load()
}
