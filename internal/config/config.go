package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// LoadEnvFile adds GOTELLO_ settings from a dotenv file. Variables already
// set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed loading %s: %w", path, err)
	}
	return nil
}

func GetConfig() Config {
	cfg := Config{
		LogCfg:      GetLogConfig(),
		IPCCfg:      GetIPCConfig(),
		DroneCfg:    GetDroneConfig(),
		JoystickCfg: GetJoystickConfig(),
		ControlCfg:  GetControlConfig(),
		HudCfg:      GetHudConfig(),
		CamCfg:      GetCamConfig(),
		RecorderCfg: GetRecorderConfig(),
		SpeakerCfg:  GetSpeakerConfig(),
		ScriptCfg:   GetScriptConfig(),
		MapperCfg:   GetMapperConfig(),
	}

	log.Debugf("app Config: \n%+v\n", cfg)
	return cfg
}

func GetLogConfig() LogConfig {
	return LogConfig{
		Level:  strings.ToLower(GetStringEnv("LOG_LEVEL", DefaultLogLevel)),
		Format: strings.ToLower(GetStringEnv("LOG_FORMAT", DefaultLogFormat)),
	}
}

func GetIPCConfig() IPCConfig {
	return IPCConfig{
		Name:    GetStringEnv("IPC_NAME", DefaultIPCName),
		Private: GetBoolEnv("IPC_PRIVATE", DefaultIPCPrivate),
		Dir:     GetStringEnv("IPC_DIR", DefaultIPCDir),
		Width:   GetIntEnv("IPC_WIDTH", DefaultWidth),
		Height:  GetIntEnv("IPC_HEIGHT", DefaultHeight),
	}
}

func GetDroneConfig() DroneConfig {
	return DroneConfig{
		LocalPort:       GetStringEnv("DRONE_LOCALPORT", DefaultDroneLocalPort),
		ResponseTimeout: GetIntEnv("DRONE_TIMEOUT", DefaultResponseTimeout),
	}
}

func GetJoystickConfig() JoystickConfig {
	return JoystickConfig{
		Enabled:     GetBoolEnv("JOYSTICK_ENABLED", DefaultJoystickEnabled),
		Device:      GetStringEnv("JOYSTICK_DEVICE", DefaultJoystickDevice),
		Profile:     strings.ToLower(GetStringEnv("JOYSTICK_PROFILE", DefaultProfile)),
		BindingFile: GetStringEnv("JOYSTICK_BINDINGS", DefaultBindingFile),
		HatAxes:     GetStringEnv("JOYSTICK_HATAXES", DefaultHatAxes),
	}
}

func GetControlConfig() ControlConfig {
	return ControlConfig{
		TickRate:        GetIntEnv("TICKRATE", DefaultTickRate),
		TriggerDeadzone: GetFloatEnv("TRIGGER_DEADZONE", DefaultTriggerDeadzone),
		StartAutonomous: GetBoolEnv("START_AUTONOMOUS", DefaultStartAutonomous),
	}
}

func GetHudConfig() HudConfig {
	return HudConfig{
		Enabled:      GetBoolEnv("HUD_ENABLED", DefaultHudEnabled),
		Interval:     GetIntEnv("HUD_INTERVAL", DefaultHudInterval),
		NetInterface: GetStringEnv("HUD_INTERFACE", DefaultNetInterface),
	}
}

func GetCamConfig() CamConfig {
	return CamConfig{
		Enabled:      GetBoolEnv("CAM_ENABLED", DefaultCamEnabled),
		FFmpeg:       GetStringEnv("FFMPEG", DefaultFFmpeg),
		Format:       GetStringEnv("CAM_FORMAT", DefaultCamFormat),
		WebcamInput:  GetStringEnv("WEBCAM_INPUT", DefaultWebcamInput),
		WebcamFormat: GetStringEnv("WEBCAM_FORMAT", DefaultWebcamFormat),
		WriterFPS:    GetIntEnv("WRITER_FPS", DefaultWriterFPS),
	}
}

func GetRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Output: GetStringEnv("RECORDER_OUTPUT", DefaultRecorderOutput),
		FPS:    GetIntEnv("RECORDER_FPS", DefaultRecorderFPS),
		Codec:  GetStringEnv("RECORDER_CODEC", DefaultRecorderCodec),
		Tag:    GetStringEnv("RECORDER_TAG", DefaultRecorderTag),
	}
}

func GetSpeakerConfig() SpeakerConfig {
	return SpeakerConfig{
		Enabled:   GetBoolEnv("SPEAKER_ENABLED", DefaultSpeakerEnabled),
		Player:    GetStringEnv("SPEAKER_PLAYER", DefaultSpeakerPlayer),
		SoundsDir: GetStringEnv("SPEAKER_SOUNDS", DefaultSoundsDir),
	}
}

func GetScriptConfig() ScriptConfig {
	return ScriptConfig{
		Yaw:   GetIntEnv("SCRIPT_YAW", DefaultScriptYaw),
		Step:  GetIntEnv("SCRIPT_STEP", DefaultScriptStep),
		Pulse: GetIntEnv("SCRIPT_PULSE", DefaultPulse),
	}
}

func GetMapperConfig() MapperConfig {
	return MapperConfig{
		Output: GetStringEnv("MAPPER_OUTPUT", DefaultMapperOutput),
	}
}

// ParseHatAxes reads "x:y" pairs separated by commas, e.g. "16:17,18:19".
func ParseHatAxes(value string) ([][2]int, error) {
	pairs := make([][2]int, 0, 1)
	value = strings.TrimSpace(value)
	if value == "" {
		return pairs, nil
	}

	for _, part := range strings.Split(value, ",") {
		axes := strings.Split(strings.TrimSpace(part), ":")
		if len(axes) != 2 {
			return nil, fmt.Errorf("hat axes %q not in x:y form", part)
		}
		x, err := strconv.Atoi(strings.TrimSpace(axes[0]))
		if err != nil {
			return nil, fmt.Errorf("hat x axis %q: %w", axes[0], err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(axes[1]))
		if err != nil {
			return nil, fmt.Errorf("hat y axis %q: %w", axes[1], err)
		}
		pairs = append(pairs, [2]int{x, y})
	}
	return pairs, nil
}

func GetIntEnv(env string, defaultValue int) int {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseInt(strings.Trim(envValue, "\r"), 10, 32)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return int(value)
		}
	}
}

func GetBoolEnv(env string, defaultValue bool) bool {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseBool(strings.Trim(envValue, "\r"))
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return value
		}
	}
}

func GetStringEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		return strings.Trim(envValue, "\r")
	}
}

func GetFloatEnv(env string, defaultValue float64) float64 {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseFloat(strings.Trim(envValue, "\r"), 64)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		}
		return value
	}
}
