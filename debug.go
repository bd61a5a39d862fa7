package thicket

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// debugMaxEntities is the live-entity count above which debug mode warns.
const debugMaxEntities = 10000

// SetDebugMode enables or disables debug mode. When enabled, every flush and
// render pass logs its counts and timings at debug level, and oversized
// entity lists are reported as warnings.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// DebugMode reports whether debug mode is enabled.
func (s *Scene) DebugMode() bool { return s.debug }

// debugLogFlush logs the outcome of one entity flush.
func (s *Scene) debugLogFlush(stats flushStats) {
	if stats.added == 0 && stats.removed == 0 && !stats.sorted && stats.deferred == 0 {
		return
	}
	s.log.Debug("entity flush",
		zap.String("scene", s.Name),
		zap.Int("added", stats.added),
		zap.Int("removed", stats.removed),
		zap.Int("deferred", stats.deferred),
		zap.Bool("sorted", stats.sorted),
		zap.Int("live", s.entities.Len()),
		zap.Duration("elapsed", stats.elapsed),
	)
	s.debugCheckEntityCount()
}

// debugCheckEntityCount warns if the live set exceeds debugMaxEntities.
func (s *Scene) debugCheckEntityCount() {
	if n := s.entities.Len(); n > debugMaxEntities {
		s.log.Warn("entity count exceeds threshold",
			zap.String("scene", s.Name),
			zap.Int("entities", n),
			zap.Int("threshold", debugMaxEntities),
		)
	}
}

// debugRender renders and logs the time spent and the pass count.
func (s *Scene) debugRender(target *ebiten.Image) {
	t0 := time.Now()
	s.renderers.Render(target)
	visible := 0
	for _, r := range s.renderers.renderers {
		if r.Visible() {
			visible++
		}
	}
	s.log.Debug("render",
		zap.String("scene", s.Name),
		zap.Int("passes", visible),
		zap.Int("entities", s.entities.Len()),
		zap.Duration("elapsed", time.Since(t0)),
	)
}
