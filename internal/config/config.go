package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "tabplayer"

type Config struct {
	Song           string `koanf:"song"`            // audio file loaded at startup
	ResumePosition *bool  `koanf:"resume_position"` // restore the last position of the song (default: true)
	LogLevel       string `koanf:"log_level"`       // "debug", "info", "warn", "error" (default: "info")
	LogFile        string `koanf:"log_file"`        // default: $XDG_STATE_HOME/tabplayer/tabplayer.log

	Engine   EngineConfig   `koanf:"engine"`
	Audio    AudioConfig    `koanf:"audio"`
	Timeline TimelineConfig `koanf:"timeline"`
	Controls ControlsConfig `koanf:"controls"`

	Notifications NotificationsConfig `koanf:"notifications"`
}

// EngineConfig holds playback engine settings.
type EngineConfig struct {
	ChannelCapacity int `koanf:"channel_capacity"` // command queue bound (1-4096, default: 64)
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	SampleRate int     `koanf:"sample_rate"` // device sample rate (default: 44100)
	BufferMs   int     `koanf:"buffer_ms"`   // device buffer (10-1000, default: 100)
	Volume     float64 `koanf:"volume"`      // 0.0-1.0 (default: 1.0)
}

// TimelineConfig holds render-side position settings.
type TimelineConfig struct {
	TickHz     int     `koanf:"tick_hz"`      // fixed simulation rate (default: 64)
	FrameHz    int     `koanf:"frame_hz"`     // render rate (default: 30)
	Speed      float64 `koanf:"speed"`        // visual speed multiplier (0.1-4.0, default: 1.0)
	MaxDriftMs int     `koanf:"max_drift_ms"` // drift tolerance, negative disables correction (default: 50)
}

// ControlsConfig holds jump distances for the arrow keys.
type ControlsConfig struct {
	ScrollMs int `koanf:"scroll_ms"` // arrow keys (default: 50)
	JumpMs   int `koanf:"jump_ms"`   // shift+arrow keys (default: 500)
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Enabled   bool `koanf:"enabled"`    // announce loaded songs and failures (default: false)
	TimeoutMs int  `koanf:"timeout_ms"` // 0 uses the notification server default
}

// Timeout returns the notification timeout as a duration.
func (n NotificationsConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutMs) * time.Millisecond
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads the given config files in order; later files win.
// Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Song = expandPath(cfg.Song)
	cfg.LogFile = expandPath(cfg.LogFile)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/tabplayer/config.toml
	if p, err := xdg.SearchConfigFile(filepath.Join(appName, "config.toml")); err == nil {
		paths = append(paths, p)
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ShouldResume returns true if the last position of the song is restored.
func (c *Config) ShouldResume() bool {
	return c.ResumePosition == nil || *c.ResumePosition
}

// GetLogLevel returns the log level with the default applied.
func (c *Config) GetLogLevel() string {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return c.LogLevel
	default:
		return "info"
	}
}

// GetLogFile returns the log file path, defaulting to the XDG state dir.
func (c *Config) GetLogFile() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}

// GetEngineConfig returns the engine configuration with defaults applied.
func (c *Config) GetEngineConfig() EngineConfig {
	cfg := c.Engine
	if cfg.ChannelCapacity <= 0 || cfg.ChannelCapacity > 4096 {
		cfg.ChannelCapacity = 64
	}
	return cfg
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.BufferMs < 10 || cfg.BufferMs > 1000 {
		cfg.BufferMs = 100
	}
	if cfg.Volume <= 0 || cfg.Volume > 1 {
		cfg.Volume = 1.0
	}
	return cfg
}

// Buffer returns the device buffer as a duration.
func (a AudioConfig) Buffer() time.Duration {
	return time.Duration(a.BufferMs) * time.Millisecond
}

// GetTimelineConfig returns the timeline configuration with defaults applied.
func (c *Config) GetTimelineConfig() TimelineConfig {
	cfg := c.Timeline
	if cfg.TickHz <= 0 || cfg.TickHz > 1000 {
		cfg.TickHz = 64
	}
	if cfg.FrameHz <= 0 || cfg.FrameHz > 240 {
		cfg.FrameHz = 30
	}
	if cfg.Speed < 0.1 || cfg.Speed > 4 {
		cfg.Speed = 1.0
	}
	switch {
	case cfg.MaxDriftMs == 0:
		cfg.MaxDriftMs = 50
	case cfg.MaxDriftMs < 0:
		cfg.MaxDriftMs = 0
	}
	return cfg
}

// MaxDrift returns the drift tolerance as a duration.
func (t TimelineConfig) MaxDrift() time.Duration {
	return time.Duration(t.MaxDriftMs) * time.Millisecond
}

// GetControlsConfig returns the controls configuration with defaults applied.
func (c *Config) GetControlsConfig() ControlsConfig {
	cfg := c.Controls
	if cfg.ScrollMs <= 0 {
		cfg.ScrollMs = 50
	}
	if cfg.JumpMs <= 0 {
		cfg.JumpMs = 500
	}
	return cfg
}

// Scroll returns the plain arrow-key jump distance.
func (c ControlsConfig) Scroll() time.Duration {
	return time.Duration(c.ScrollMs) * time.Millisecond
}

// Jump returns the shift+arrow jump distance.
func (c ControlsConfig) Jump() time.Duration {
	return time.Duration(c.JumpMs) * time.Millisecond
}

// GetNotificationsConfig returns the notification configuration with
// negative timeouts treated as the server default.
func (c *Config) GetNotificationsConfig() NotificationsConfig {
	cfg := c.Notifications
	if cfg.TimeoutMs < 0 {
		cfg.TimeoutMs = 0
	}
	return cfg
}
