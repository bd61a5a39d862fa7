package thicket

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a frame script.
type scriptStep struct {
	Action  string  `yaml:"action"`
	Label   string  `yaml:"label,omitempty"`
	Frames  int     `yaml:"frames,omitempty"`
	Value   float64 `yaml:"value,omitempty"`
	Seconds float64 `yaml:"seconds,omitempty"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	Key     string  `yaml:"key,omitempty"`
}

// frameScript is the top-level document of a frame script.
type frameScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner sequences engine actions across frames for automated
// visual testing. Attach to an Engine via SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadFrameScript parses a YAML frame script. JSON documents are accepted
// as well since they are valid YAML.
//
//	steps:
//	  - action: wait
//	    frames: 30
//	  - action: screenshot
//	    label: after-spawn
//	  - action: click
//	    x: 120
//	    y: 80
//	  - action: key
//	    key: Space
//	  - action: quit
func LoadFrameScript(data []byte) (*ScriptRunner, error) {
	var script frameScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse frame script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse frame script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wait", "screenshot", "pause", "resume", "timerate", "freeze", "quit", "click":
		case "key":
			if _, err := parseKey(st.Key); err != nil {
				return nil, fmt.Errorf("parse frame script: step %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the engine. The runner's step
// method is called at the start of every Step, before the scene phases.
func (e *Engine) SetScriptRunner(r *ScriptRunner) {
	e.runner = r
}

// Done reports whether all steps in the frame script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		e.Screenshot(st.Label)
	case "pause":
		if e.scene != nil {
			e.scene.Pause()
		}
	case "resume":
		if e.scene != nil {
			e.scene.Resume()
		}
	case "timerate":
		e.TimeRate = st.Value
		e.frame.Delta = e.frame.Raw * e.TimeRate
	case "freeze":
		e.Freeze(st.Seconds)
	case "quit":
		e.Quit()
	case "click":
		e.input.InjectClick(st.X, st.Y)
	case "key":
		k, _ := parseKey(st.Key)
		e.input.InjectKey(k)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	e.log.Debug("frame script", zap.String("action", st.Action), zap.Int("step", r.cursor-1))

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// parseKey resolves an ebiten key name such as "Space" or "A".
func parseKey(name string) (ebiten.Key, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}
