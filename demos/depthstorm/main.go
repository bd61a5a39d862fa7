// depthstorm keeps 10,000 entities churning: every frame a slice of them
// change depth, a few hundred die and are replaced, and the survivors drift
// across the screen. A stress test for the entity list's queued mutations
// and depth sorting. Pass -profile cpu or -profile mem to capture a profile.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand/v2"

	"github.com/phanxgames/thicket"
	"github.com/pkg/profile"
)

const (
	screenW   = 1280
	screenH   = 720
	count     = 10_000
	churn     = 250
	reshuffle = 500
	maxDepth  = 64
	size      = 6
)

type mote struct {
	thicket.EntityCore
	vel   thicket.Vec2
	life  float64
	color thicket.Color
}

func newMote() *mote {
	m := &mote{
		EntityCore: thicket.NewEntityCore(rand.Float64()*screenW, rand.Float64()*screenH),
		vel:        thicket.AngleToVector(rand.Float64()*2*math.Pi, 20+rand.Float64()*60),
		life:       2 + rand.Float64()*8,
	}
	m.SetDepth(rand.IntN(maxDepth))
	m.tint()
	return m
}

// tint shades motes by depth so sorting errors are visible as speckle.
func (m *mote) tint() {
	f := float64(m.Depth()) / maxDepth
	m.color = thicket.Color{R: 1 - f, G: 0.3 + 0.4*f, B: f, A: 0.9}
}

func (m *mote) Update(dt float64) {
	m.Position = m.Position.Add(m.vel.Scale(dt))
	if m.Position.X < 0 || m.Position.X > screenW {
		m.vel.X = -m.vel.X
	}
	if m.Position.Y < 0 || m.Position.Y > screenH {
		m.vel.Y = -m.vel.Y
	}
	m.life -= dt
	if m.life <= 0 {
		m.RemoveSelf()
	}
}

func (m *mote) Render(ctx *thicket.RenderContext) {
	ctx.FillRect(thicket.Rect{X: m.Position.X, Y: m.Position.Y, Width: size, Height: size}, m.color)
}

// storm replaces dead motes and reshuffles depths once per frame.
type storm struct {
	thicket.EntityCore
	engine *thicket.Engine
	limit  uint64
}

func (s *storm) Update(dt float64) {
	if s.limit > 0 && s.engine.Frames() >= s.limit {
		s.engine.Quit()
	}
	sc := s.Scene()
	live := sc.Entities().Len() - 1
	for range min(count-live, churn) {
		sc.Add(newMote())
	}
	motes := thicket.FindAll[*mote](sc.Entities())
	for range min(reshuffle, len(motes)) {
		m := motes[rand.IntN(len(motes))]
		m.SetDepth(rand.IntN(maxDepth))
		m.tint()
	}
}

func main() {
	prof := flag.String("profile", "", "capture a profile: cpu or mem")
	frames := flag.Int("frames", 0, "quit after this many frames (0 runs until closed)")
	debug := flag.Bool("debug", false, "log flush statistics every frame")
	flag.Parse()

	switch *prof {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		log.Fatalf("unknown profile mode %q", *prof)
	}

	scene := thicket.NewScene()
	scene.Name = "depthstorm"
	scene.SetDebugMode(*debug)
	for range count {
		scene.Add(newMote())
	}
	scene.AddRenderer(thicket.NewEverythingRenderer(screenW, screenH))

	cfg := thicket.DefaultRunConfig()
	cfg.Title = "Thicket - Depth Storm"
	cfg.Width, cfg.Height = screenW, screenH
	cfg.ShowFPS = true
	cfg.ClearColor = thicket.Color{R: 0.06, G: 0.06, B: 0.09, A: 1}

	if *debug {
		cfg.Logging.Level = "debug"
	}
	logger, err := thicket.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	engine := thicket.NewEngine(cfg, logger)
	engine.SetScene(scene)
	scene.Add(&storm{
		EntityCore: thicket.NewEntityCore(0, 0),
		engine:     engine,
		limit:      uint64(*frames),
	})
	if err := thicket.RunEngine(engine); err != nil {
		log.Fatal(err)
	}
}
