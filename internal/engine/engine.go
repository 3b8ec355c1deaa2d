// Package engine turns controller events into MIDI messages for the host.
package engine

import (
	"fmt"
	"log"
	"sync"

	"github.com/PixPMusic/nocturn-studio/internal/hardware"
	"gitlab.com/gomidi/midi/v2"
)

// FeedbackFunc is called with the new value of a control after it was sent
type FeedbackFunc func(sourceID string, value int)

// Engine holds the mapping table and the virtual value of every mapped
// control. It is safe for concurrent use.
type Engine struct {
	send     func(midi.Message) error
	feedback FeedbackFunc

	mu         sync.Mutex
	mappings   map[string]Mapping
	values     map[string]int
	hostRoutes map[hostKey]string
}

// New creates an engine writing to send. feedback may be nil.
func New(send func(midi.Message) error, feedback FeedbackFunc) *Engine {
	return &Engine{
		send:     send,
		feedback: feedback,
		mappings: make(map[string]Mapping),
		values:   make(map[string]int),
	}
}

// Load replaces the mapping table. Values of controls that were already
// known are kept; new ones start at the mapping's minimum.
func (e *Engine) Load(mappings map[string]Mapping) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mappings = make(map[string]Mapping, len(mappings))
	for id, m := range mappings {
		e.mappings[id] = m
		if _, ok := e.values[id]; !ok {
			e.values[id] = m.Min
		}
	}
}

// Mappings returns a copy of the current mapping table
func (e *Engine) Mappings() map[string]Mapping {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]Mapping, len(e.mappings))
	for id, m := range e.mappings {
		out[id] = m
	}
	return out
}

// Value returns the current virtual value of a control
func (e *Engine) Value(sourceID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[sourceID]
}

// HandleEvent processes one controller event. Events from unmapped or
// disabled controls are dropped.
func (e *Engine) HandleEvent(evt hardware.Event) {
	e.mu.Lock()
	m, ok := e.mappings[evt.SourceID]
	if !ok || !m.Enabled {
		e.mu.Unlock()
		return
	}

	var out, value int
	var changed bool
	switch evt.Type {
	case hardware.EncoderTurn:
		out, value, changed = e.encoder(m, evt.Value)
	case hardware.ButtonPress, hardware.ButtonRelease:
		out, changed = e.button(m, evt.Type == hardware.ButtonPress)
		value = out
	case hardware.CrossfaderMove:
		out = scale(evt.Value, m.Min, m.Max)
		e.values[m.SourceID] = out
		value, changed = out, true
	}
	e.mu.Unlock()

	if !changed {
		return
	}
	if err := e.sendValue(m, out); err != nil {
		log.Printf("[engine] Failed to send %s: %v", m.SourceID, err)
	}
	if e.feedback != nil {
		e.feedback(m.SourceID, value)
	}
}

// encoder applies a delta and returns the value to send, the new
// virtual value and whether anything is sent
func (e *Engine) encoder(m Mapping, delta int) (out, value int, changed bool) {
	current := e.values[m.SourceID]
	value = clamp(current+delta, m.Min, m.Max)
	e.values[m.SourceID] = value

	switch m.Mode {
	case ModeRelativeTwosComp, ModeRelativeBinOffset, ModeRelativeSignedBit:
		if delta == 0 {
			return 0, value, false
		}
		return encodeRelative(m.Mode, delta), value, true
	}
	return value, value, value != current
}

func (e *Engine) button(m Mapping, pressed bool) (int, bool) {
	if m.Mode == ModeSwitchToggle {
		if !pressed {
			return 0, false
		}
		next := m.Max
		if e.values[m.SourceID] == m.Max {
			next = m.Min
		}
		e.values[m.SourceID] = next
		return next, true
	}

	value := m.Min
	if pressed {
		value = m.Max
	}
	e.values[m.SourceID] = value
	return value, true
}

func (e *Engine) sendValue(m Mapping, value int) error {
	if e.send == nil {
		return nil
	}
	ch := m.Target.Channel & 0x0F
	data := uint8(clamp(value, 0, 127))

	var msg midi.Message
	switch m.Target.Type {
	case TargetCC:
		msg = midi.ControlChange(ch, m.Target.Identifier, data)
	case TargetNote:
		if data > 0 {
			msg = midi.NoteOn(ch, m.Target.Identifier, data)
		} else {
			msg = midi.NoteOff(ch, m.Target.Identifier)
		}
	case TargetPitchBend:
		msg = midi.Pitchbend(ch, int16(int(data)*16383/127-8192))
	default:
		return fmt.Errorf("unknown target type %q", m.Target.Type)
	}
	return e.send(msg)
}

// encodeRelative encodes a step for hosts that read encoders as
// increments, limited to 63 steps per message
func encodeRelative(mode Mode, delta int) int {
	delta = clamp(delta, -63, 63)
	switch mode {
	case ModeRelativeBinOffset:
		return 64 + delta
	case ModeRelativeSignedBit:
		if delta < 0 {
			return 64 | -delta
		}
		return delta
	default:
		return delta & 0x7F
	}
}

func scale(v, min, max int) int {
	v = clamp(v, 0, 127)
	return min + v*(max-min)/127
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
