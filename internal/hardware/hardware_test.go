package hardware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Device = (*USBDevice)(nil)
	_ Device = (*MockDevice)(nil)
)

func TestDecodeDelta(t *testing.T) {
	assert.Equal(t, 1, DecodeDelta(0))
	assert.Equal(t, 64, DecodeDelta(63))
	assert.Equal(t, -64, DecodeDelta(64))
	assert.Equal(t, -1, DecodeDelta(127))
}

func TestParseReport(t *testing.T) {
	tests := []struct {
		name   string
		report []byte
		id     string
		typ    EventType
		value  int
	}{
		{"first encoder", []byte{0xB0, 64, 2}, "encoder_1", EncoderTurn, 3},
		{"last encoder", []byte{0xB0, 71, 127}, "encoder_8", EncoderTurn, -1},
		{"speed dial", []byte{0xB0, 74, 0}, "speed_dial", EncoderTurn, 1},
		{"crossfader", []byte{0xB0, 72, 100}, "crossfader", CrossfaderMove, 100},
		{"button press", []byte{0xB0, 112, 127}, "button_1", ButtonPress, 127},
		{"button release", []byte{0xB0, 127, 0}, "button_16", ButtonRelease, 0},
		{"speed dial button", []byte{0xB0, 81, 127}, SpeedDialButtonID, ButtonPress, 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, ok := ParseReport(tt.report)
			require.True(t, ok)
			assert.Equal(t, tt.id, evt.SourceID)
			assert.Equal(t, tt.typ, evt.Type)
			assert.Equal(t, tt.value, evt.Value)
			assert.False(t, evt.Timestamp.IsZero())
		})
	}

	_, ok := ParseReport([]byte{0xB0, 90, 1})
	assert.False(t, ok, "unknown controller")
	_, ok = ParseReport([]byte{0xB0, 64})
	assert.False(t, ok, "short report")
}

func TestLEDAddress(t *testing.T) {
	addr, ok := LEDAddress("encoder_1")
	require.True(t, ok)
	assert.Equal(t, byte(64), addr)

	addr, ok = LEDAddress("encoder_8")
	require.True(t, ok)
	assert.Equal(t, byte(71), addr)

	addr, ok = LEDAddress("speed_dial")
	require.True(t, ok)
	assert.Equal(t, byte(80), addr)

	addr, ok = LEDAddress("button_16")
	require.True(t, ok)
	assert.Equal(t, byte(127), addr)

	_, ok = LEDAddress(SpeedDialButtonID)
	assert.False(t, ok)
	_, ok = LEDAddress("crossfader")
	assert.False(t, ok)
	_, ok = LEDAddress("encoder_9")
	assert.False(t, ok)
}

func TestInitReports(t *testing.T) {
	reports := InitReports()
	require.Len(t, reports, 10)
	assert.Equal(t, []byte{0x00, 0x00, 0xB0}, reports[0])
	assert.Equal(t, []byte{72, 1}, reports[1])
	assert.Equal(t, []byte{79, 1}, reports[8])
	assert.Equal(t, []byte{81, 1}, reports[9])
}

func TestLEDReportClamps(t *testing.T) {
	assert.Equal(t, []byte{64, 127}, LEDReport(64, 300))
	assert.Equal(t, []byte{64, 0}, LEDReport(64, -3))
}

func TestMockDevice(t *testing.T) {
	d := NewMockDevice()

	var got []Event
	d.AddListener(func(e Event) { got = append(got, e) })

	d.SimulateTurn("encoder_1", 5)
	assert.Empty(t, got, "no events before connect")

	require.NoError(t, d.Connect(context.Background()))
	d.SimulateTurn("encoder_1", 5)
	d.SimulatePress("button_2")
	d.SimulateRelease("button_2")
	d.SimulateFader("crossfader", 64)
	d.SimulateReport([]byte{0xB0, 65, 126})

	require.Len(t, got, 5)
	assert.Equal(t, Event{SourceID: "encoder_1", Type: EncoderTurn, Value: 5, Timestamp: got[0].Timestamp}, got[0])
	assert.Equal(t, ButtonPress, got[1].Type)
	assert.Equal(t, ButtonRelease, got[2].Type)
	assert.Equal(t, CrossfaderMove, got[3].Type)
	assert.Equal(t, "encoder_2", got[4].SourceID)
	assert.Equal(t, -2, got[4].Value)

	require.NoError(t, d.SetLED("encoder_1", 42))
	v, ok := d.LED("encoder_1")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	require.NoError(t, d.Disconnect())
	assert.ErrorIs(t, d.SetLED("encoder_1", 1), ErrNotConnected)
}
