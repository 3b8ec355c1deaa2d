package engine

import (
	"github.com/PixPMusic/nocturn-studio/internal/surface"
	"gitlab.com/gomidi/midi/v2"
)

type hostKey struct {
	typ     surface.MessageType
	channel uint8
	number  uint8
}

// WatchHost routes values the host sends on the descriptor's output
// bindings back to the controls they belong to
func (e *Engine) WatchHost(d *surface.Descriptor) {
	routes := make(map[hostKey]string)
	for _, c := range d.Controls {
		if c.Output == nil {
			continue
		}
		routes[hostKey{typ: c.Output.Type, channel: c.Output.Channel, number: c.Output.Number}] = c.ID
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.hostRoutes = routes
}

// HandleHostMessage updates a control from a host message and reports the
// new value through the feedback callback. Messages outside the watched
// bindings are ignored.
func (e *Engine) HandleHostMessage(msg midi.Message) {
	var ch, num, val uint8
	var key hostKey

	switch {
	case msg.GetControlChange(&ch, &num, &val):
		key = hostKey{typ: surface.MessageControlChange, channel: ch, number: num}
	case msg.GetNoteOn(&ch, &num, &val):
		key = hostKey{typ: surface.MessageNote, channel: ch, number: num}
	case msg.GetNoteOff(&ch, &num, &val):
		key = hostKey{typ: surface.MessageNote, channel: ch, number: num}
		val = 0
	default:
		return
	}

	e.mu.Lock()
	id, ok := e.hostRoutes[key]
	if ok {
		e.values[id] = int(val)
	}
	e.mu.Unlock()

	if ok && e.feedback != nil {
		e.feedback(id, int(val))
	}
}
