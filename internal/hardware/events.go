package hardware

import "time"

// EventType is the kind of input a control produced
type EventType int

const (
	EncoderTurn EventType = iota + 1
	ButtonPress
	ButtonRelease
	TouchStart
	TouchEnd
	CrossfaderMove
)

func (t EventType) String() string {
	switch t {
	case EncoderTurn:
		return "encoder_turn"
	case ButtonPress:
		return "button_press"
	case ButtonRelease:
		return "button_release"
	case TouchStart:
		return "touch_start"
	case TouchEnd:
		return "touch_end"
	case CrossfaderMove:
		return "crossfader_move"
	}
	return "unknown"
}

// Event is one input from the controller. Value is a signed delta for
// encoders, 0 or 127 for buttons and an absolute 0-127 position for the
// crossfader.
type Event struct {
	SourceID  string
	Type      EventType
	Value     int
	Timestamp time.Time
}

// Listener receives events from a device
type Listener func(Event)
