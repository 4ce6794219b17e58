package config

const (
	AppEnvBase = "GOTELLO_"

	// Default Log Options
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Default Channel Options
	DefaultIPCName    = "droneipc"
	DefaultIPCPrivate = false
	DefaultIPCDir     = ""
	DefaultWidth      = 960
	DefaultHeight     = 720

	// Default Drone Options
	DefaultDroneLocalPort  = "8890" //drone answers here, it always listens on 192.168.10.1
	DefaultResponseTimeout = 7000   //ms

	// Default Joystick Options
	DefaultJoystickEnabled = true
	DefaultJoystickDevice  = "/dev/input/event0"
	DefaultProfile         = "" //platform default
	DefaultBindingFile     = ""
	DefaultHatAxes         = "16:17"

	// Default Control Options
	DefaultTickRate        = 60
	DefaultTriggerDeadzone = 0.1
	DefaultStartAutonomous = false

	// Default HUD Options
	DefaultHudEnabled   = true
	DefaultHudInterval  = 1000 //ms
	DefaultNetInterface = "wlan0"

	// Default Camera Options
	DefaultCamEnabled   = true
	DefaultFFmpeg       = "ffmpeg"
	DefaultCamFormat    = "h264"
	DefaultWebcamInput  = "/dev/video0"
	DefaultWebcamFormat = "v4l2"
	DefaultWriterFPS    = 60

	// Default Recorder Options
	DefaultRecorderOutput = "" //generated under /tmp
	DefaultRecorderFPS    = 30
	DefaultRecorderCodec  = "mpeg4"
	DefaultRecorderTag    = "XVID"

	// Default Speaker Options
	DefaultSpeakerEnabled = false
	DefaultSpeakerPlayer  = "beep" //or an external command like "aplay -q"
	DefaultSoundsDir      = "./sounds"

	// Default Script Options
	DefaultScriptYaw  = 30
	DefaultScriptStep = 10
	DefaultPulse      = 100 //ms

	// Default Mapper Options
	DefaultMapperOutput = "received_inputs.txt"
)

type Config struct {
	LogCfg      LogConfig
	IPCCfg      IPCConfig
	DroneCfg    DroneConfig
	JoystickCfg JoystickConfig
	ControlCfg  ControlConfig
	HudCfg      HudConfig
	CamCfg      CamConfig
	RecorderCfg RecorderConfig
	SpeakerCfg  SpeakerConfig
	ScriptCfg   ScriptConfig
	MapperCfg   MapperConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type IPCConfig struct {
	Name    string
	Private bool
	Dir     string
	Width   int
	Height  int
}

type DroneConfig struct {
	LocalPort       string
	ResponseTimeout int
}

type JoystickConfig struct {
	Enabled     bool
	Device      string
	Profile     string
	BindingFile string
	HatAxes     string
}

type ControlConfig struct {
	TickRate        int
	TriggerDeadzone float64
	StartAutonomous bool
}

type HudConfig struct {
	Enabled      bool
	Interval     int
	NetInterface string
}

type CamConfig struct {
	Enabled      bool
	FFmpeg       string
	Format       string
	WebcamInput  string
	WebcamFormat string
	WriterFPS    int
}

type RecorderConfig struct {
	Output string
	FPS    int
	Codec  string
	Tag    string
}

type SpeakerConfig struct {
	Enabled   bool
	Player    string
	SoundsDir string
}

type ScriptConfig struct {
	Yaw   int
	Step  int
	Pulse int
}

type MapperConfig struct {
	Output string
}
