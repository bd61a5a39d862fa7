package thicket

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// RendererList runs a scene's draw passes in insertion order. Add and Remove
// are deferred to the next Flush. MoveToFront reorders immediately, but a
// pass already running keeps the order it started with.
type RendererList struct {
	scene *Scene

	renderers []Renderer
	adding    []Renderer
	removing  []Renderer

	// pass is the sequence the running phase iterates.
	pass []Renderer

	ctx RenderContext
}

func newRendererList(s *Scene) *RendererList {
	return &RendererList{scene: s}
}

// Len returns the number of live renderers.
func (l *RendererList) Len() int { return len(l.renderers) }

// Renderers returns a copy of the live sequence.
func (l *RendererList) Renderers() []Renderer {
	return slices.Clone(l.renderers)
}

// Add queues r to be appended at the next flush.
func (l *RendererList) Add(r Renderer) {
	if r == nil {
		return
	}
	l.adding = append(l.adding, r)
}

// Remove queues r to be dropped at the next flush.
func (l *RendererList) Remove(r Renderer) {
	if r == nil {
		return
	}
	l.removing = append(l.removing, r)
}

// MoveToFront relocates a live renderer to the end of the sequence so it
// draws last, on top of every other pass. No-op if r is not live.
func (l *RendererList) MoveToFront(r Renderer) {
	i := slices.Index(l.renderers, r)
	if i < 0 {
		return
	}
	copy(l.renderers[i:], l.renderers[i+1:])
	l.renderers[len(l.renderers)-1] = r
}

// Flush appends pending additions, then drops pending removals.
func (l *RendererList) Flush() {
	if len(l.adding) > 0 {
		for _, r := range l.adding {
			if slices.Contains(l.renderers, r) {
				continue
			}
			l.renderers = append(l.renderers, r)
		}
		clear(l.adding)
		l.adding = l.adding[:0]
	}

	if len(l.removing) > 0 {
		for _, r := range l.removing {
			if i := slices.Index(l.renderers, r); i >= 0 {
				l.renderers = slices.Delete(l.renderers, i, i+1)
			}
		}
		clear(l.removing)
		l.removing = l.removing[:0]
	}
}

// Update runs the update hook of every visible renderer.
func (l *RendererList) Update() {
	l.ctx.reset(l.scene, nil)
	for _, r := range l.beginPass() {
		if !r.Visible() {
			continue
		}
		if u, ok := r.(RenderUpdater); ok {
			l.activate(r)
			u.Update(&l.ctx)
		}
	}
	l.endPass()
}

// BeforeRender runs the before-render hook of every visible renderer.
func (l *RendererList) BeforeRender(target *ebiten.Image) {
	l.ctx.reset(l.scene, target)
	for _, r := range l.beginPass() {
		if !r.Visible() {
			continue
		}
		if b, ok := r.(BeforeRenderer); ok {
			l.activate(r)
			b.BeforeRender(&l.ctx)
		}
	}
	l.endPass()
}

// Render runs every visible renderer's draw pass onto target.
func (l *RendererList) Render(target *ebiten.Image) {
	l.ctx.reset(l.scene, target)
	for _, r := range l.beginPass() {
		if !r.Visible() {
			continue
		}
		l.activate(r)
		r.Render(&l.ctx)
	}
	l.endPass()
}

// AfterRender runs the after-render hook of every visible renderer.
func (l *RendererList) AfterRender(target *ebiten.Image) {
	l.ctx.reset(l.scene, target)
	for _, r := range l.beginPass() {
		if !r.Visible() {
			continue
		}
		if a, ok := r.(AfterRenderer); ok {
			l.activate(r)
			a.AfterRender(&l.ctx)
		}
	}
	l.endPass()
}

// beginPass snapshots the live sequence for one phase.
func (l *RendererList) beginPass() []Renderer {
	l.pass = append(l.pass[:0], l.renderers...)
	return l.pass
}

// endPass drops the snapshot's references.
func (l *RendererList) endPass() {
	clear(l.pass)
	l.pass = l.pass[:0]
}

// activate makes r the context's active renderer, discarding any camera or
// blend state the previous pass left behind.
func (l *RendererList) activate(r Renderer) {
	l.ctx.Renderer = r
	l.ctx.Camera = nil
	l.ctx.Blend = BlendNormal
}
