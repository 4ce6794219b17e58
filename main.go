package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Speshl/gorrc_tello/internal/app"
	"github.com/Speshl/gorrc_tello/internal/cam"
	"github.com/Speshl/gorrc_tello/internal/config"
	"github.com/Speshl/gorrc_tello/internal/input"
	"github.com/Speshl/gorrc_tello/internal/ipc"
	"github.com/Speshl/gorrc_tello/internal/joystick"
	"github.com/Speshl/gorrc_tello/internal/logging"
	"github.com/Speshl/gorrc_tello/internal/mapper"
	"github.com/Speshl/gorrc_tello/internal/script"
	"github.com/Speshl/gorrc_tello/internal/speaker"
	"github.com/Speshl/gorrc_tello/internal/tello"
	log "github.com/sirupsen/logrus"
)

const (
	defaultRole = "controller"
	envFile     = ".env"
)

var roles = map[string]func(context.Context, config.Config) error{
	"controller":   runController,
	"donuts":       runDonuts,
	"repl":         runRepl,
	"video-writer": runVideoWriter,
	"video-reader": runVideoReader,
	"mapper":       runMapper,
}

func main() {
	err := config.LoadEnvFile(envFile)
	if err != nil {
		log.Printf("warning: %s\n", err.Error())
	}

	cfg := config.GetConfig()

	err = logging.Setup(cfg.LogCfg)
	if err != nil {
		log.Printf("warning: %s, using defaults\n", err.Error())
	}

	role := defaultRole
	if len(os.Args) > 1 {
		role = strings.ToLower(os.Args[1])
	}

	run, ok := roles[role]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q, want one of: %s\n", role, strings.Join(roleNames(), ", "))
		os.Exit(2)
	}

	err = run(context.Background(), cfg)
	if err != nil {
		log.Printf("%s shutdown with error: %s", role, err.Error())
		os.Exit(1)
	}
	log.Printf("%s shutdown successfully\n", role)
}

func roleNames() []string {
	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func openChannel(cfg config.IPCConfig) (*ipc.Channel, error) {
	provider, err := ipc.SelectProvider(cfg.Private, cfg.Dir)
	if err != nil {
		return nil, err
	}

	geometry := ipc.Geometry{Width: cfg.Width, Height: cfg.Height, Channels: ipc.DefaultChannels}
	return ipc.Open(provider, cfg.Name, geometry)
}

func loadTable(cfg config.JoystickConfig) (input.Table, error) {
	if cfg.BindingFile != "" {
		return input.LoadTable(cfg.BindingFile)
	}
	profile := cfg.Profile
	if profile == "" {
		profile = input.DefaultProfile()
	}
	return input.Profile(profile)
}

func newJoystick(cfg config.JoystickConfig) (*joystick.Reader, error) {
	pairs, err := config.ParseHatAxes(cfg.HatAxes)
	if err != nil {
		return nil, err
	}
	hatAxes := make([]joystick.HatAxes, 0, len(pairs))
	for _, pair := range pairs {
		hatAxes = append(hatAxes, joystick.HatAxes{X: pair[0], Y: pair[1]})
	}
	return joystick.NewReader(cfg.Device, hatAxes), nil
}

func runController(ctx context.Context, cfg config.Config) error {
	channel, err := openChannel(cfg.IPCCfg)
	if err != nil {
		return err
	}
	defer channel.Close()

	table, err := loadTable(cfg.JoystickCfg)
	if err != nil {
		return fmt.Errorf("failed loading bindings: %w", err)
	}

	drone := tello.NewClient(cfg.DroneCfg)
	defer drone.Close()

	controller := app.NewApp(cfg, channel, drone, table, speaker.NewSpeaker(cfg.SpeakerCfg))

	if cfg.JoystickCfg.Enabled {
		reader, err := newJoystick(cfg.JoystickCfg)
		if err != nil {
			return fmt.Errorf("failed setting up joystick: %w", err)
		}
		controller.AddJoystick(reader)
	}

	if cfg.CamCfg.Enabled {
		controller.AddDecoder(cam.NewStreamDecoder(cfg.CamCfg.FFmpeg, drone.Video(), cfg.CamCfg.Format, channel.Geometry()))
	}

	return controller.Start(ctx)
}

func runDonuts(ctx context.Context, cfg config.Config) error {
	channel, err := openChannel(cfg.IPCCfg)
	if err != nil {
		return err
	}
	defer channel.Close()

	return app.Run(ctx, script.NewDonuts(cfg.ScriptCfg, cfg.ControlCfg.TickRate, channel))
}

func runRepl(ctx context.Context, cfg config.Config) error {
	channel, err := openChannel(cfg.IPCCfg)
	if err != nil {
		return err
	}
	defer channel.Close()

	return app.Run(ctx, script.NewRepl(cfg.ScriptCfg, cfg.ControlCfg.TickRate, channel))
}

func runVideoWriter(ctx context.Context, cfg config.Config) error {
	channel, err := openChannel(cfg.IPCCfg)
	if err != nil {
		return err
	}
	defer channel.Close()

	decoder := cam.NewDecoder(cfg.CamCfg.FFmpeg, cfg.CamCfg.WebcamInput, cfg.CamCfg.WebcamFormat, cfg.CamCfg.WriterFPS, channel.Geometry())
	return app.Run(ctx, decoder, app.NewFrameWriter(channel, decoder.Frames()))
}

func runVideoReader(ctx context.Context, cfg config.Config) error {
	channel, err := openChannel(cfg.IPCCfg)
	if err != nil {
		return err
	}
	defer channel.Close()

	recorder := cam.NewRecorder(cfg.CamCfg.FFmpeg, cfg.RecorderCfg, channel.Geometry())
	return app.Run(ctx, app.NewFrameReader(channel, recorder, cfg.RecorderCfg.FPS, speaker.NewSpeaker(cfg.SpeakerCfg)))
}

func runMapper(ctx context.Context, cfg config.Config) error {
	reader, err := newJoystick(cfg.JoystickCfg)
	if err != nil {
		return fmt.Errorf("failed setting up joystick: %w", err)
	}
	return app.Run(ctx, app.WorkerFunc(func(ctx context.Context) error {
		return mapper.Run(ctx, reader, cfg.MapperCfg.Output)
	}))
}
