package thicket

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// depthEpsilon is the first tie-break offset handed out per depth value.
const depthEpsilon = 1e-6

// nopLogger is shared by scenes that were never given a logger.
var nopLogger = zap.NewNop()

// FrameTime is the elapsed time the host injects into each update.
type FrameTime struct {
	// Raw is the unscaled frame delta in seconds.
	Raw float64
	// Delta is Raw scaled by the host's time rate.
	Delta float64
}

// Scene owns one EntityList and one RendererList and runs them through the
// per-frame phases. The host calls, once per frame and in this order:
//
//	BeforeUpdate -> Update -> AfterUpdate
//	BeforeRender -> Render -> AfterRender
//
// Queued entity and renderer mutations are applied only in BeforeUpdate.
type Scene struct {
	// Name identifies the scene in logs.
	Name string
	// UserData carries game-specific scene state.
	UserData any

	// Optional callbacks fired after the matching state change.
	OnBegin     func(s *Scene)
	OnEnd       func(s *Scene)
	OnGainFocus func(s *Scene)
	OnLoseFocus func(s *Scene)

	entities  *EntityList
	renderers *RendererList

	paused  bool
	focused bool
	current bool
	ended   bool

	timeActive    float64
	rawTimeActive float64
	frame         FrameTime

	// depthLookup maps a depth to the next tie-break offset. It only grows.
	depthLookup map[int]float64

	endOfFrame []func()

	input *Input
	sink  EventSink
	log   *zap.Logger
	debug bool
}

// NewScene creates an empty scene that is not yet current.
func NewScene() *Scene {
	s := &Scene{
		depthLookup: make(map[int]float64),
		input:       new(Input),
		log:         nopLogger,
	}
	s.entities = newEntityList(s)
	s.renderers = newRendererList(s)
	return s
}

// Input returns the input snapshot for the current frame. A scene that was
// never run by an Engine reports an idle input.
func (s *Scene) Input() *Input { return s.input }

// Entities returns the scene's entity list.
func (s *Scene) Entities() *EntityList { return s.entities }

// Renderers returns the scene's renderer list.
func (s *Scene) Renderers() *RendererList { return s.renderers }

// Add queues entities for attachment at the next BeforeUpdate.
func (s *Scene) Add(entities ...Entity) { s.entities.Add(entities...) }

// Remove queues entities for detachment at the next BeforeUpdate.
func (s *Scene) Remove(entities ...Entity) { s.entities.Remove(entities...) }

// AddRenderer queues a renderer to be appended at the next BeforeUpdate.
func (s *Scene) AddRenderer(r Renderer) { s.renderers.Add(r) }

// RemoveRenderer queues a renderer for removal at the next BeforeUpdate.
func (s *Scene) RemoveRenderer(r Renderer) { s.renderers.Remove(r) }

// SetLogger sets the logger used for warnings and debug output.
// Nil restores the no-op logger.
func (s *Scene) SetLogger(log *zap.Logger) {
	if log == nil {
		log = nopLogger
	}
	s.log = log
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *zap.Logger { return s.log }

// SetEventSink sets the optional lifecycle event receiver.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

func (s *Scene) emit(ev SceneEvent) {
	if s.sink == nil {
		return
	}
	ev.Scene = s
	ev.TimeActive = s.timeActive
	if ev.Entity != nil {
		ev.Depth = ev.Entity.entityCore().depth
	}
	s.sink.EmitEvent(ev)
}

// --- State ---

// Begin makes the scene current and focused and notifies live entities.
// A scene that is already current, or has ended, cannot begin.
func (s *Scene) Begin() error {
	if s.ended {
		return &InvalidStateError{Op: "scene begin", Reason: "scene has ended"}
	}
	if s.current {
		return &InvalidStateError{Op: "scene begin", Reason: "scene is already current"}
	}
	s.current = true
	s.focused = true
	for _, e := range s.entities.entities {
		if h, ok := e.(SceneBeginner); ok {
			h.SceneBegin(s)
		}
	}
	if s.OnBegin != nil {
		s.OnBegin(s)
	}
	s.emit(SceneEvent{Type: EventSceneBegin})
	s.log.Debug("scene begin", zap.String("scene", s.Name), zap.Int("entities", s.entities.Len()))
	return nil
}

// End retires the scene and notifies live entities. An ended scene is never
// reused.
func (s *Scene) End() error {
	if !s.current {
		return &InvalidStateError{Op: "scene end", Reason: "scene is not current"}
	}
	s.current = false
	s.focused = false
	s.ended = true
	for _, e := range s.entities.entities {
		if h, ok := e.(SceneEnder); ok {
			h.SceneEnd(s)
		}
	}
	if s.OnEnd != nil {
		s.OnEnd(s)
	}
	s.emit(SceneEvent{Type: EventSceneEnd})
	s.log.Debug("scene end", zap.String("scene", s.Name), zap.Float64("time_active", s.timeActive))
	return nil
}

// GainFocus marks a current scene focused. Update and render are unaffected.
func (s *Scene) GainFocus() {
	if !s.current || s.focused {
		return
	}
	s.focused = true
	if s.OnGainFocus != nil {
		s.OnGainFocus(s)
	}
	s.emit(SceneEvent{Type: EventGainFocus})
}

// LoseFocus marks a current scene unfocused. Update and render are unaffected.
func (s *Scene) LoseFocus() {
	if !s.current || !s.focused {
		return
	}
	s.focused = false
	if s.OnLoseFocus != nil {
		s.OnLoseFocus(s)
	}
	s.emit(SceneEvent{Type: EventLoseFocus})
}

// Current reports whether the scene has begun and not yet ended.
func (s *Scene) Current() bool { return s.current }

// Ended reports whether the scene has received End.
func (s *Scene) Ended() bool { return s.ended }

// Focused reports whether the scene is current and has input focus.
func (s *Scene) Focused() bool { return s.focused }

// Pause suspends entity and renderer updates and active-time advancement.
// Rendering continues.
func (s *Scene) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.emit(SceneEvent{Type: EventPaused})
}

// Resume undoes Pause.
func (s *Scene) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.emit(SceneEvent{Type: EventResumed})
}

// Paused reports whether the scene is paused.
func (s *Scene) Paused() bool { return s.paused }

// TimeActive returns the rate-scaled seconds accumulated while unpaused.
func (s *Scene) TimeActive() float64 { return s.timeActive }

// RawTimeActive returns the unscaled seconds accumulated across all frames,
// paused or not.
func (s *Scene) RawTimeActive() float64 { return s.rawTimeActive }

// DeltaTime returns the current frame's rate-scaled delta.
func (s *Scene) DeltaTime() float64 { return s.frame.Delta }

// RawDeltaTime returns the current frame's unscaled delta.
func (s *Scene) RawDeltaTime() float64 { return s.frame.Raw }

// OnInterval reports whether the active time crossed a multiple of interval
// during the current frame.
func (s *Scene) OnInterval(interval float64) bool {
	if interval <= 0 || s.paused {
		return false
	}
	return math.Floor(s.timeActive/interval) != math.Floor((s.timeActive-s.frame.Delta)/interval)
}

// OnEndOfFrame registers fn to run once at the next AfterUpdate. Callbacks
// registered while the queue is draining run a frame later.
func (s *Scene) OnEndOfFrame(fn func()) {
	if fn == nil {
		return
	}
	s.endOfFrame = append(s.endOfFrame, fn)
}

// --- Frame phases ---

// BeforeUpdate advances the time accumulators and flushes queued entity and
// renderer mutations.
func (s *Scene) BeforeUpdate(ft FrameTime) {
	s.frame = ft
	if !s.paused {
		s.timeActive += ft.Delta
	}
	s.rawTimeActive += ft.Raw

	stats := s.entities.flush()
	s.renderers.Flush()
	if s.debug {
		s.debugLogFlush(stats)
	}
}

// Update runs entity then renderer updates unless the scene is paused.
func (s *Scene) Update() {
	if s.paused {
		return
	}
	s.entities.Update(s.frame.Delta)
	s.renderers.Update()
}

// AfterUpdate drains the end-of-frame callback queue.
func (s *Scene) AfterUpdate() {
	if len(s.endOfFrame) == 0 {
		return
	}
	pending := s.endOfFrame
	s.endOfFrame = nil
	for _, fn := range pending {
		fn()
	}
}

// BeforeRender runs renderer before-render hooks.
func (s *Scene) BeforeRender(target *ebiten.Image) {
	s.renderers.BeforeRender(target)
}

// Render runs every visible renderer onto target.
func (s *Scene) Render(target *ebiten.Image) {
	if s.debug {
		s.debugRender(target)
		return
	}
	s.renderers.Render(target)
}

// AfterRender runs renderer after-render hooks.
func (s *Scene) AfterRender(target *ebiten.Image) {
	s.renderers.AfterRender(target)
}

// GraphicsCreated forwards a device-created notification to live entities.
func (s *Scene) GraphicsCreated() {
	s.entities.graphicsCreated()
}

// GraphicsReset forwards a device-reset notification to live entities.
func (s *Scene) GraphicsReset() {
	s.entities.graphicsReset()
}

// assignActualDepth gives c a tie-broken depth. Each entity placed at a
// given depth sorts after the ones placed there before it; offsets are never
// handed out twice during the scene's lifetime.
func (s *Scene) assignActualDepth(c *EntityCore) {
	offset := s.depthLookup[c.depth]
	s.depthLookup[c.depth] = offset + depthEpsilon
	c.actualDepth = float64(c.depth) - offset
	s.entities.MarkUnsorted()
}
