package hardware

import (
	"strconv"
	"strings"
	"time"

	"github.com/PixPMusic/nocturn-studio/internal/surface"
)

// USB identifiers of the Novation Nocturn
const (
	VendorID  = 0x1235
	ProductID = 0x000A
)

// Controller numbers used in the Nocturn's USB reports
const (
	ccEncoderFirst    = 64 // encoders 1-8 report on 64-71
	ccEncoderLast     = 71
	ccCrossfader      = 72
	ccSpeedDial       = 74
	ccSpeedDialButton = 81
	ccButtonFirst     = 112 // buttons 1-16 report on 112-127
	ccButtonLast      = 127

	ledRingStyleFirst = 72 // ring style registers for encoders 1-8
	ledRingStyleLast  = 79
	ledSpeedDialStyle = 81
	ledSpeedDial      = 80

	ringStyleBar = 1
)

// SpeedDialButtonID is the push action of the speed dial. It has no
// element on the host surface.
const SpeedDialButtonID = "button_speed_dial"

// ParseReport decodes one input report. Reports carry the controller
// number in byte 1 and the value in byte 2.
func ParseReport(data []byte) (Event, bool) {
	if len(data) < 3 {
		return Event{}, false
	}
	cc, val := data[1], data[2]

	evt := Event{Value: int(val), Timestamp: time.Now()}
	switch {
	case cc >= ccEncoderFirst && cc <= ccEncoderLast:
		evt.SourceID = surface.EncoderID(int(cc - ccEncoderFirst))
		evt.Type = EncoderTurn
		evt.Value = DecodeDelta(val)
	case cc == ccSpeedDial:
		evt.SourceID = surface.SpeedDialID
		evt.Type = EncoderTurn
		evt.Value = DecodeDelta(val)
	case cc == ccCrossfader:
		evt.SourceID = surface.FaderID
		evt.Type = CrossfaderMove
	case cc >= ccButtonFirst && cc <= ccButtonLast:
		evt.SourceID = surface.ButtonID(int(cc - ccButtonFirst))
		evt.Type = buttonType(val)
	case cc == ccSpeedDialButton:
		evt.SourceID = SpeedDialButtonID
		evt.Type = buttonType(val)
	default:
		return Event{}, false
	}
	return evt, true
}

func buttonType(val byte) EventType {
	if val > 0 {
		return ButtonPress
	}
	return ButtonRelease
}

// DecodeDelta converts an encoder report value to a signed step:
// 0-63 turn clockwise by value+1, 64-127 turn counter-clockwise.
func DecodeDelta(val byte) int {
	if val < 64 {
		return int(val) + 1
	}
	return int(val) - 128
}

// LEDAddress returns the LED register for a control
func LEDAddress(id string) (byte, bool) {
	switch id {
	case surface.SpeedDialID:
		return ledSpeedDial, true
	case SpeedDialButtonID:
		return 0, false
	}
	if n, ok := indexOf(id, "encoder_"); ok && n >= 1 && n <= 8 {
		return byte(ccEncoderFirst - 1 + n), true
	}
	if n, ok := indexOf(id, "button_"); ok && n >= 1 && n <= 16 {
		return byte(ccButtonFirst - 1 + n), true
	}
	return 0, false
}

func indexOf(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// InitReports returns the reports sent after connecting: the wake-up
// command followed by the bar ring style for every encoder and the
// speed dial.
func InitReports() [][]byte {
	reports := [][]byte{{0x00, 0x00, 0xB0}}
	for addr := ledRingStyleFirst; addr <= ledRingStyleLast; addr++ {
		reports = append(reports, []byte{byte(addr), ringStyleBar})
	}
	return append(reports, []byte{ledSpeedDialStyle, ringStyleBar})
}

// LEDReport returns the report setting one LED register. Value 0 is off,
// 127 full.
func LEDReport(addr byte, value int) []byte {
	if value < 0 {
		value = 0
	}
	if value > 127 {
		value = 127
	}
	return []byte{addr, byte(value)}
}
