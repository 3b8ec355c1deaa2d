package surface

import "fmt"

// Control IDs used by the built descriptors. Numbering is 1-based to match
// the labels printed on the hardware.
const (
	SpeedDialID = "speed_dial"
	FaderID     = "crossfader"
)

// EncoderID returns the ID of encoder i (0-based)
func EncoderID(i int) string { return fmt.Sprintf("encoder_%d", i+1) }

// ButtonID returns the ID of button i (0-based)
func ButtonID(i int) string { return fmt.Sprintf("button_%d", i+1) }

// hostTransport is the fixed button-to-transport assignment, in order
var hostTransport = []Transport{TransportPlay, TransportStop, TransportCycle, TransportRecord}

// BuildVariant builds v on top of DefaultLayout
func BuildVariant(v Variant) *Descriptor {
	return Build(DefaultLayout, v)
}

// Build produces the descriptor for one variant. It is pure: equal inputs
// yield structurally equal descriptors.
func Build(l Layout, v Variant) *Descriptor {
	d := &Descriptor{
		Vendor: l.Vendor,
		Device: v.DeviceName,
		Author: l.Author,
		Input:  Port{Name: l.InputPort},
		Output: Port{Name: l.OutputPort},
	}
	if v.DetectPorts {
		d.Detection = &Detection{InputName: l.InputPort, OutputName: l.OutputPort}
	}

	for i := 0; i < l.EncoderCount; i++ {
		col, row := GridPosition(i, l.EncoderColumns)
		cc := AssignSequential(l.EncoderCCBase, i)
		d.Controls = append(d.Controls, duplex(EncoderID(i), KindKnob, Cell(col, row), MessageControlChange, l.Channel, cc))
	}

	d.Controls = append(d.Controls, duplex(SpeedDialID, KindKnob, l.SpeedDial, MessageControlChange, l.Channel, uint8(l.SpeedDialCC)))

	d.Controls = append(d.Controls, Control{
		ID:    FaderID,
		Kind:  KindFader,
		Rect:  v.FaderPlacement,
		Input: &MidiBinding{Direction: DirectionInput, Type: MessageControlChange, Channel: l.Channel, Number: uint8(l.FaderCC)},
	})

	for i := 0; i < l.ButtonCount; i++ {
		col, row := GridPosition(i, l.ButtonColumns)
		note := AssignSequential(l.ButtonNoteBase, i)
		d.Controls = append(d.Controls, duplex(ButtonID(i), KindButton, Cell(col, v.ButtonBaseRow+row), MessageNote, l.Channel, note))
	}

	if v.MapToHost {
		d.Page = hostPage(l)
	}
	return d
}

func duplex(id string, kind Kind, rect Rect, typ MessageType, channel, number uint8) Control {
	return Control{
		ID:     id,
		Kind:   kind,
		Rect:   rect,
		Input:  &MidiBinding{Direction: DirectionInput, Type: typ, Channel: channel, Number: number},
		Output: &MidiBinding{Direction: DirectionOutput, Type: typ, Channel: channel, Number: number},
	}
}

func hostPage(l Layout) *Page {
	p := &Page{Name: l.PageName}
	for i := 0; i < l.EncoderCount; i++ {
		p.Bindings = append(p.Bindings, HostBinding{ControlID: EncoderID(i), Action: QuickControl(i)})
	}
	for i, t := range hostTransport {
		if i >= l.ButtonCount {
			break
		}
		p.Bindings = append(p.Bindings, HostBinding{ControlID: ButtonID(i), Action: TransportAction(t)})
	}
	return p
}
