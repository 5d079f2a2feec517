package cardtable

import (
	"encoding/json"
	"fmt"
)

// gestureStep is a single action in a gesture script.
type gestureStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type gestureScript struct {
	Steps []gestureStep `json:"steps"`
}

var gestureActions = map[string]bool{
	"click": true, "drag": true, "wait": true,
	"press": true, "move": true, "release": true,
}

// GestureScript replays a recorded sequence of pointer gestures across
// frames. Attach it to a Manager with SetScript; each Update advances it.
// Scripts drive demos and end-to-end tests of game rules.
type GestureScript struct {
	steps     []gestureStep
	cursor    int
	waitCount int
	done      bool
}

// LoadGestureScript parses a JSON gesture script:
//
//	{"steps": [
//	  {"action": "click", "x": 40, "y": 60},
//	  {"action": "drag", "fromX": 40, "fromY": 60, "toX": 200, "toY": 60, "frames": 8},
//	  {"action": "wait", "frames": 3}
//	]}
//
// press, move and release take x and y and queue a single pointer event.
func LoadGestureScript(data []byte) (*GestureScript, error) {
	var script gestureScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	for i, st := range script.Steps {
		if !gestureActions[st.Action] {
			return nil, fmt.Errorf("parse gesture script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &GestureScript{steps: script.Steps}, nil
}

// SetScript attaches a gesture script. A nil script detaches the current one.
func (m *Manager) SetScript(script *GestureScript) {
	m.script = script
}

// Done reports whether every step has been executed and its input consumed.
func (s *GestureScript) Done() bool {
	return s.done
}

// Len returns the number of steps in the script.
func (s *GestureScript) Len() int {
	return len(s.steps)
}

// step advances the script by one frame. Called from Manager.Update before
// injected input is processed.
func (s *GestureScript) step(m *Manager) {
	if s.done {
		return
	}
	// Let queued input drain before the next step.
	if len(m.injectQueue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "click":
		m.InjectClick(st.X, st.Y)
	case "drag":
		m.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "press":
		m.InjectPress(st.X, st.Y)
	case "move":
		m.InjectMove(st.X, st.Y)
	case "release":
		m.InjectRelease(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(m.injectQueue) == 0 {
		s.done = true
	}
}
