package thicket

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// RunConfig configures the window and host loop started by Run.
type RunConfig struct {
	// Title is the window title. The FPS counter is appended when ShowFPS is set.
	Title string `toml:"title"`
	// Width and Height are the logical resolution scenes render at.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// WindowWidth and WindowHeight size the initial window. Zero uses the
	// logical resolution.
	WindowWidth  int  `toml:"window_width"`
	WindowHeight int  `toml:"window_height"`
	Fullscreen   bool `toml:"fullscreen"`
	// TPS is the fixed update rate. Zero keeps ebiten's default of 60.
	TPS     int  `toml:"tps"`
	ShowFPS bool `toml:"show_fps"`
	// TimeRate scales the delta handed to entities. Reset to 1 on every
	// scene transition.
	TimeRate      float64       `toml:"time_rate"`
	ClearColor    Color         `toml:"clear_color"`
	ScreenshotDir string        `toml:"screenshot_dir"`
	Logging       LoggingConfig `toml:"logging"`
}

// LoggingConfig selects the logger built by NewLogger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// DefaultRunConfig returns the configuration used for unset fields.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "thicket",
		Width:         640,
		Height:        360,
		TPS:           60,
		TimeRate:      1,
		ClearColor:    ColorBlack,
		ScreenshotDir: "screenshots",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a TOML file over DefaultRunConfig.
func LoadConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return RunConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data over DefaultRunConfig.
func ParseConfig(data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, err
	}
	if err := cfg.validate(); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

func (c *RunConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("resolution %dx%d must be positive", c.Width, c.Height)
	}
	if c.TPS < 0 {
		return fmt.Errorf("tps %d must not be negative", c.TPS)
	}
	if c.TimeRate < 0 {
		return fmt.Errorf("time_rate %v must not be negative", c.TimeRate)
	}
	return nil
}

// windowSize returns the initial window size.
func (c *RunConfig) windowSize() (int, int) {
	w, h := c.WindowWidth, c.WindowHeight
	if w <= 0 {
		w = c.Width
	}
	if h <= 0 {
		h = c.Height
	}
	return w, h
}
