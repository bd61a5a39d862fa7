package thicket

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Run opens a window and runs scene until the window closes or the engine
// quits. Zero-valued fields of cfg fall back to DefaultRunConfig.
func Run(scene *Scene, cfg RunConfig) error {
	cfg = withDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	log, err := NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("run: build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	e := NewEngine(cfg, log)
	e.SetScene(scene)
	return RunEngine(e)
}

// RunEngine runs a prepared engine, such as one with a script runner
// attached.
func RunEngine(e *Engine) error {
	cfg := e.cfg
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.windowSize())
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}

	e.log.Info("starting",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("tps", ebiten.TPS()),
	)
	if err := ebiten.RunGame(e); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func withDefaults(cfg RunConfig) RunConfig {
	def := DefaultRunConfig()
	if cfg.Title == "" {
		cfg.Title = def.Title
	}
	if cfg.Width == 0 {
		cfg.Width = def.Width
	}
	if cfg.Height == 0 {
		cfg.Height = def.Height
	}
	if cfg.TimeRate == 0 {
		cfg.TimeRate = def.TimeRate
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = def.ScreenshotDir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	return cfg
}
