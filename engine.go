package thicket

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Engine is the host loop: it implements ebiten.Game, feeds each frame's
// elapsed time to the current Scene's phases and performs scene
// transitions between frames.
type Engine struct {
	// TimeRate scales the delta handed to scenes. Reset to 1 on every
	// scene transition.
	TimeRate float64
	// ClearColor fills the screen between BeforeRender and Render.
	ClearColor Color
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	// OnTransition runs after the old scene ended and before the new one
	// begins. Either scene may be nil.
	OnTransition func(from, to *Scene)
	// Override, when set, replaces the scene phases and transitions for
	// every frame until cleared.
	Override func()

	cfg   RunConfig
	log   *zap.Logger
	scene *Scene
	next  *Scene

	frame  FrameTime
	freeze float64
	frames uint64

	focused       bool
	graphicsReady bool
	outsideW      int
	outsideH      int

	input           Input
	screenshotQueue []string
	runner          *ScriptRunner
	fps             fpsCounter
	quit            bool
}

// NewEngine creates a host loop for cfg. A nil logger discards output.
func NewEngine(cfg RunConfig, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	rate := cfg.TimeRate
	if rate == 0 {
		rate = 1
	}
	dir := cfg.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	return &Engine{
		TimeRate:      rate,
		ClearColor:    cfg.ClearColor,
		ScreenshotDir: dir,
		cfg:           cfg,
		log:           log,
		focused:       true,
	}
}

// Scene returns the current scene.
func (e *Engine) Scene() *Scene { return e.scene }

// NextScene returns the scene that becomes current after this frame.
func (e *Engine) NextScene() *Scene { return e.next }

// SetScene requests a transition to s. The switch happens once, at the end
// of the next update, never in the middle of a phase.
func (e *Engine) SetScene(s *Scene) {
	e.next = s
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger { return e.log }

// Input returns the input snapshot shared with every scene the engine runs.
func (e *Engine) Input() *Input { return &e.input }

// Frame returns the elapsed time of the most recent update.
func (e *Engine) Frame() FrameTime { return e.frame }

// Frames returns the number of updates run so far.
func (e *Engine) Frames() uint64 { return e.frames }

// Freeze suspends scene updates for the given number of unscaled seconds.
// Rendering continues.
func (e *Engine) Freeze(seconds float64) {
	e.freeze = max(e.freeze, seconds)
}

// Frozen reports whether a freeze is in effect.
func (e *Engine) Frozen() bool { return e.freeze > 0 }

// Quit makes the next Update end the game loop.
func (e *Engine) Quit() {
	e.quit = true
}

// Update implements ebiten.Game.
func (e *Engine) Update() error {
	e.setFocused(ebiten.IsFocused())
	e.input.poll()
	e.Step(1.0 / float64(ebiten.TPS()))
	if e.quit {
		return ebiten.Termination
	}
	return nil
}

// Step runs one update with raw elapsed seconds.
func (e *Engine) Step(raw float64) {
	e.frames++
	e.frame = FrameTime{Raw: raw, Delta: raw * e.TimeRate}

	if e.runner != nil {
		e.runner.step(e)
	}

	if e.Override != nil {
		e.Override()
		return
	}

	if e.freeze > 0 {
		e.freeze = max(e.freeze-raw, 0)
	} else if e.scene != nil {
		e.scene.BeforeUpdate(e.frame)
		e.scene.Update()
		e.scene.AfterUpdate()
	}

	if e.scene != e.next {
		e.transition()
	}
}

// transition ends the current scene, swaps in the next one and begins it.
func (e *Engine) transition() {
	from, to := e.scene, e.next
	if from != nil {
		if err := from.End(); err != nil {
			e.log.Warn("end scene", zap.String("scene", from.Name), zap.Error(err))
		}
	}
	e.scene = to
	e.TimeRate = 1
	if e.OnTransition != nil {
		e.OnTransition(from, to)
	}
	if to != nil {
		to.input = &e.input
		if to.log == nopLogger {
			to.SetLogger(e.log.Named("scene"))
		}
		if err := to.Begin(); err != nil {
			e.log.Error("begin scene", zap.String("scene", to.Name), zap.Error(err))
		}
	}
	e.log.Info("scene transition", zap.String("from", sceneName(from)), zap.String("to", sceneName(to)))
}

func sceneName(s *Scene) string {
	if s == nil {
		return "<none>"
	}
	if s.Name == "" {
		return "<unnamed>"
	}
	return s.Name
}

// Draw implements ebiten.Game.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.scene != nil {
		e.scene.BeforeRender(screen)
	}
	screen.Fill(e.ClearColor.toRGBA())
	if e.scene != nil {
		e.scene.Render(screen)
		e.scene.AfterRender(screen)
	}
	e.flushScreenshots(screen)
	if e.fps.tick() && e.cfg.ShowFPS {
		ebiten.SetWindowTitle(e.fps.title(e.cfg.Title))
	}
}

// Layout implements ebiten.Game. The first call reports the graphics
// device as created; later changes of the outside size report a reset.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	switch {
	case !e.graphicsReady:
		e.graphicsReady = true
		e.HandleGraphicsCreate()
	case outsideWidth != e.outsideW || outsideHeight != e.outsideH:
		e.HandleGraphicsReset()
	}
	e.outsideW, e.outsideH = outsideWidth, outsideHeight
	return e.cfg.Width, e.cfg.Height
}

// HandleGraphicsCreate forwards device creation to the current and next scenes.
func (e *Engine) HandleGraphicsCreate() {
	if e.scene != nil {
		e.scene.GraphicsCreated()
	}
	if e.next != nil && e.next != e.scene {
		e.next.GraphicsCreated()
	}
}

// HandleGraphicsReset forwards a device reset to the current and next scenes.
func (e *Engine) HandleGraphicsReset() {
	if e.scene != nil {
		e.scene.GraphicsReset()
	}
	if e.next != nil && e.next != e.scene {
		e.next.GraphicsReset()
	}
}

// setFocused forwards window focus changes to the current scene.
func (e *Engine) setFocused(focused bool) {
	if focused == e.focused {
		return
	}
	e.focused = focused
	if e.scene == nil {
		return
	}
	if focused {
		e.scene.GainFocus()
	} else {
		e.scene.LoseFocus()
	}
}
