package surface

import "fmt"

// Kind is the physical type of a control
type Kind string

const (
	KindKnob   Kind = "knob"
	KindFader  Kind = "fader"
	KindButton Kind = "button"
)

// Direction of a MIDI binding, seen from the host
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// MessageType is the MIDI message a binding listens to or emits
type MessageType string

const (
	MessageControlChange MessageType = "cc"
	MessageNote          MessageType = "note"
)

// Rect is a cell-aligned area on the surface grid
type Rect struct {
	Col    int `json:"col" yaml:"col"`
	Row    int `json:"row" yaml:"row"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Cell returns a 1x1 rect at col, row
func Cell(col, row int) Rect {
	return Rect{Col: col, Row: row, Width: 1, Height: 1}
}

// Overlaps reports whether two rects share at least one grid cell
func (r Rect) Overlaps(o Rect) bool {
	return r.Col < o.Col+o.Width && o.Col < r.Col+r.Width &&
		r.Row < o.Row+o.Height && o.Row < r.Row+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.Col, r.Row, r.Width, r.Height)
}

// MidiBinding ties a control to one MIDI message slot
type MidiBinding struct {
	Direction Direction   `json:"direction"`
	Type      MessageType `json:"type"`
	Channel   uint8       `json:"channel"`
	Number    uint8       `json:"number"` // CC number or note number
}

func (b MidiBinding) String() string {
	if b.Type == MessageNote {
		return fmt.Sprintf("%s Note %d (Ch %d)", b.Direction, b.Number, b.Channel+1)
	}
	return fmt.Sprintf("%s CC %d (Ch %d)", b.Direction, b.Number, b.Channel+1)
}

// Control is one physical element of the controller
type Control struct {
	ID     string       `json:"id"`
	Kind   Kind         `json:"kind"`
	Rect   Rect         `json:"rect"`
	Input  *MidiBinding `json:"input,omitempty"`
	Output *MidiBinding `json:"output,omitempty"`
}

// Bindings returns the control's bindings, input first
func (c *Control) Bindings() []MidiBinding {
	var out []MidiBinding
	if c.Input != nil {
		out = append(out, *c.Input)
	}
	if c.Output != nil {
		out = append(out, *c.Output)
	}
	return out
}

// Port is a named MIDI endpoint the host connects to a physical port
type Port struct {
	Name string `json:"name"`
}

// Detection describes automatic port-pair detection by exact name match
type Detection struct {
	InputName  string `json:"input_name"`
	OutputName string `json:"output_name"`
}

// ActionKind is the family of a host action
type ActionKind string

const (
	ActionQuickControl ActionKind = "quick_control"
	ActionTransport    ActionKind = "transport"
)

// Transport is a host transport command
type Transport string

const (
	TransportPlay   Transport = "Play"
	TransportStop   Transport = "Stop"
	TransportCycle  Transport = "Cycle"
	TransportRecord Transport = "Record"
)

// HostAction is one entry of the host action vocabulary
type HostAction struct {
	Kind      ActionKind `json:"kind"`
	Slot      int        `json:"slot,omitempty"`      // quick control slot
	Transport Transport  `json:"transport,omitempty"` // transport command
}

// QuickControl returns the action for focus quick control slot i
func QuickControl(slot int) HostAction {
	return HostAction{Kind: ActionQuickControl, Slot: slot}
}

// TransportAction returns the action for a transport command
func TransportAction(t Transport) HostAction {
	return HostAction{Kind: ActionTransport, Transport: t}
}

func (a HostAction) String() string {
	if a.Kind == ActionTransport {
		return "transport." + string(a.Transport)
	}
	return fmt.Sprintf("quick-control[%d]", a.Slot)
}

// HostBinding associates a control with a host action
type HostBinding struct {
	ControlID string     `json:"control_id"`
	Action    HostAction `json:"action"`
}

// Page is a host mapping page holding ordered value bindings
type Page struct {
	Name     string        `json:"name"`
	Bindings []HostBinding `json:"bindings"`
}

// Descriptor is the complete declaration handed to the host
type Descriptor struct {
	Vendor    string     `json:"vendor"`
	Device    string     `json:"device"`
	Author    string     `json:"author"`
	Input     Port       `json:"input"`
	Output    Port       `json:"output"`
	Detection *Detection `json:"detection,omitempty"`
	Controls  []Control  `json:"controls"`
	Page      *Page      `json:"page,omitempty"`
}
