package core

import (
	"fmt"

	"github.com/voiceroute/voiceroute-go/aec"
)

// Config is the routing daemon configuration, loaded from YAML by the CLI.
// The wire format itself is not configurable: every endpoint runs S16LE mono
// at 8000 Hz, the rate of the modem card.
type Config struct {
	Devices struct {
		Local  string `mapstructure:"local"`
		Remote string `mapstructure:"remote"`
	} `mapstructure:"devices"`

	Audio struct {
		SampleRate int `mapstructure:"sample_rate"`
		PeriodSize int `mapstructure:"period_size"`
		BufferSize int `mapstructure:"buffer_size"`
		// Playback start/stop thresholds in frames; 0 keeps the device
		// default.
		StartThreshold int `mapstructure:"start_threshold"`
		StopThreshold  int `mapstructure:"stop_threshold"`
	} `mapstructure:"audio"`

	AEC struct {
		Mode   string `mapstructure:"mode"` // off | nlms | suppress
		Taps   int    `mapstructure:"taps"`
		Margin int    `mapstructure:"margin"`
	} `mapstructure:"aec"`

	Indicator struct {
		RedPath   string `mapstructure:"red_path"`
		GreenPath string `mapstructure:"green_path"`
	} `mapstructure:"indicator"`

	Logging struct {
		Level   string   `mapstructure:"level"`
		Outputs []string `mapstructure:"outputs"`
	} `mapstructure:"logging"`
}

// DefaultConfig routes between the default sound card and an ALSA modem card,
// 256 frame periods (32 ms latency), playback primed with a full buffer.
func DefaultConfig() Config {
	var cfg Config
	cfg.Devices.Local = "default"
	cfg.Devices.Remote = "hw:1,0"
	cfg.Audio.SampleRate = 8000
	cfg.Audio.PeriodSize = 256
	cfg.Audio.BufferSize = 1024
	cfg.Audio.StartThreshold = 1024
	cfg.Audio.StopThreshold = 1024
	cfg.AEC.Mode = aec.ModeOff
	cfg.AEC.Taps = aec.DefaultTaps
	cfg.AEC.Margin = aec.DefaultMargin
	cfg.Logging.Level = "info"
	cfg.Logging.Outputs = []string{"stderr"}
	return cfg
}

func (c *Config) Validate() error {
	if c.Devices.Local == "" || c.Devices.Remote == "" {
		return fmt.Errorf("%w: both device names must be set", ErrInvalidConfig)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.Audio.SampleRate)
	}
	if c.Audio.PeriodSize <= 0 {
		return fmt.Errorf("%w: period size %d", ErrInvalidConfig, c.Audio.PeriodSize)
	}
	if c.Audio.BufferSize != 4*c.Audio.PeriodSize {
		return fmt.Errorf("%w: buffer size %d must be 4x period size %d",
			ErrInvalidConfig, c.Audio.BufferSize, c.Audio.PeriodSize)
	}
	if c.Audio.StartThreshold < 0 || c.Audio.StartThreshold > c.Audio.BufferSize {
		return fmt.Errorf("%w: start threshold %d", ErrInvalidConfig, c.Audio.StartThreshold)
	}
	if c.Audio.StopThreshold < 0 || c.Audio.StopThreshold > c.Audio.BufferSize {
		return fmt.Errorf("%w: stop threshold %d", ErrInvalidConfig, c.Audio.StopThreshold)
	}
	switch c.AEC.Mode {
	case "", aec.ModeOff, aec.ModeNLMS, aec.ModeSuppress:
	default:
		return fmt.Errorf("%w: unknown aec mode %q", ErrInvalidConfig, c.AEC.Mode)
	}
	return nil
}
