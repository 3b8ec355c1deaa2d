package engine

import (
	"context"
	"testing"

	"github.com/PixPMusic/nocturn-studio/internal/hardware"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

type capture struct {
	msgs []midi.Message
}

func (c *capture) send(msg midi.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func cc(t *testing.T, msg midi.Message) (ch, num, val uint8) {
	t.Helper()
	require.True(t, msg.GetControlChange(&ch, &num, &val), "expected CC, got %s", msg)
	return ch, num, val
}

func TestEncoderThroughMockDevice(t *testing.T) {
	out := &capture{}
	e := New(out.send, nil)

	device := hardware.NewMockDevice()
	device.AddListener(e.HandleEvent)
	require.NoError(t, device.Connect(context.Background()))

	e.Load(map[string]Mapping{
		"encoder_1": NewMapping("encoder_1", Target{Type: TargetCC, Channel: 0, Identifier: 10}),
	})

	device.SimulateTurn("encoder_1", 5)
	require.Len(t, out.msgs, 1)
	ch, num, val := cc(t, out.msgs[0])
	assert.Equal(t, uint8(0), ch)
	assert.Equal(t, uint8(10), num)
	assert.Equal(t, uint8(5), val)
	assert.Equal(t, []byte{0xB0, 10, 5}, out.msgs[0].Bytes())

	device.SimulateTurn("encoder_1", 10)
	require.Len(t, out.msgs, 2)
	_, _, val = cc(t, out.msgs[1])
	assert.Equal(t, uint8(15), val)
}

func TestEncoderClampsAndSkipsUnchanged(t *testing.T) {
	out := &capture{}
	var feedback []int
	e := New(out.send, func(id string, v int) { feedback = append(feedback, v) })

	m := NewMapping("encoder_2", Target{Type: TargetCC, Identifier: 11})
	m.Min, m.Max = 0, 20
	e.Load(map[string]Mapping{"encoder_2": m})

	e.HandleEvent(hardware.Event{SourceID: "encoder_2", Type: hardware.EncoderTurn, Value: -3})
	assert.Empty(t, out.msgs, "already at minimum")

	e.HandleEvent(hardware.Event{SourceID: "encoder_2", Type: hardware.EncoderTurn, Value: 50})
	require.Len(t, out.msgs, 1)
	_, _, val := cc(t, out.msgs[0])
	assert.Equal(t, uint8(20), val)
	assert.Equal(t, 20, e.Value("encoder_2"))
	assert.Equal(t, []int{20}, feedback)
}

func TestRelativeModes(t *testing.T) {
	tests := []struct {
		mode  Mode
		delta int
		want  uint8
	}{
		{ModeRelativeTwosComp, 3, 3},
		{ModeRelativeTwosComp, -1, 127},
		{ModeRelativeBinOffset, 1, 65},
		{ModeRelativeBinOffset, -1, 63},
		{ModeRelativeSignedBit, 2, 2},
		{ModeRelativeSignedBit, -2, 66},
	}

	for _, tt := range tests {
		out := &capture{}
		e := New(out.send, nil)
		m := NewMapping("speed_dial", Target{Type: TargetCC, Identifier: 18})
		m.Mode = tt.mode
		e.Load(map[string]Mapping{"speed_dial": m})

		e.HandleEvent(hardware.Event{SourceID: "speed_dial", Type: hardware.EncoderTurn, Value: tt.delta})
		require.Len(t, out.msgs, 1, tt.mode)
		_, _, val := cc(t, out.msgs[0])
		assert.Equal(t, tt.want, val, "%s %d", tt.mode, tt.delta)
	}
}

func TestButtons(t *testing.T) {
	out := &capture{}
	e := New(out.send, nil)

	momentary := NewMapping("button_1", Target{Type: TargetNote, Identifier: 40})
	momentary.Mode = ModeSwitchMomentary
	toggle := NewMapping("button_2", Target{Type: TargetCC, Identifier: 90})
	toggle.Mode = ModeSwitchToggle
	e.Load(map[string]Mapping{"button_1": momentary, "button_2": toggle})

	e.HandleEvent(hardware.Event{SourceID: "button_1", Type: hardware.ButtonPress, Value: 127})
	e.HandleEvent(hardware.Event{SourceID: "button_1", Type: hardware.ButtonRelease})
	require.Len(t, out.msgs, 2)

	var ch, key, vel uint8
	require.True(t, out.msgs[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(40), key)
	assert.Equal(t, uint8(127), vel)
	require.True(t, out.msgs[1].GetNoteOff(&ch, &key, &vel))
	assert.Equal(t, uint8(40), key)

	out.msgs = nil
	e.HandleEvent(hardware.Event{SourceID: "button_2", Type: hardware.ButtonPress})
	e.HandleEvent(hardware.Event{SourceID: "button_2", Type: hardware.ButtonRelease})
	e.HandleEvent(hardware.Event{SourceID: "button_2", Type: hardware.ButtonPress})
	require.Len(t, out.msgs, 2, "toggle ignores releases")
	_, _, v1 := cc(t, out.msgs[0])
	_, _, v2 := cc(t, out.msgs[1])
	assert.Equal(t, uint8(127), v1)
	assert.Equal(t, uint8(0), v2)
}

func TestFaderAndPitchBend(t *testing.T) {
	out := &capture{}
	e := New(out.send, nil)

	fader := NewMapping("crossfader", Target{Type: TargetPitchBend, Channel: 2})
	e.Load(map[string]Mapping{"crossfader": fader})

	e.HandleEvent(hardware.Event{SourceID: "crossfader", Type: hardware.CrossfaderMove, Value: 127})
	e.HandleEvent(hardware.Event{SourceID: "crossfader", Type: hardware.CrossfaderMove, Value: 0})
	require.Len(t, out.msgs, 2)

	var ch uint8
	var rel int16
	var abs uint16
	require.True(t, out.msgs[0].GetPitchBend(&ch, &rel, &abs))
	assert.Equal(t, uint8(2), ch)
	assert.Equal(t, int16(8191), rel)
	require.True(t, out.msgs[1].GetPitchBend(&ch, &rel, &abs))
	assert.Equal(t, int16(-8192), rel)
}

func TestDisabledAndUnknownSources(t *testing.T) {
	out := &capture{}
	e := New(out.send, nil)

	m := NewMapping("encoder_1", Target{Type: TargetCC, Identifier: 10})
	m.Enabled = false
	e.Load(map[string]Mapping{"encoder_1": m})

	e.HandleEvent(hardware.Event{SourceID: "encoder_1", Type: hardware.EncoderTurn, Value: 1})
	e.HandleEvent(hardware.Event{SourceID: "encoder_7", Type: hardware.EncoderTurn, Value: 1})
	assert.Empty(t, out.msgs)
}

func TestLoadKeepsValues(t *testing.T) {
	e := New(nil, nil)
	m := NewMapping("encoder_1", Target{Type: TargetCC, Identifier: 10})
	e.Load(map[string]Mapping{"encoder_1": m})
	e.HandleEvent(hardware.Event{SourceID: "encoder_1", Type: hardware.EncoderTurn, Value: 7})

	e.Load(map[string]Mapping{"encoder_1": m})
	assert.Equal(t, 7, e.Value("encoder_1"))
}

func TestDefaultMappings(t *testing.T) {
	d := surface.BuildVariant(surface.Studio)
	mappings := DefaultMappings(d)

	// 8 encoders, speed dial, fader, 16 buttons and the speed dial button
	require.Len(t, mappings, 27)

	for i := 0; i < 8; i++ {
		m := mappings[surface.EncoderID(i)]
		assert.Equal(t, Target{Type: TargetCC, Identifier: uint8(10 + i)}, m.Target)
		assert.Equal(t, ModeAbsolute, m.Mode)
		assert.True(t, m.Enabled)
	}
	assert.Equal(t, uint8(18), mappings[surface.SpeedDialID].Target.Identifier)
	assert.Equal(t, uint8(19), mappings[surface.FaderID].Target.Identifier)
	for i := 0; i < 16; i++ {
		m := mappings[surface.ButtonID(i)]
		assert.Equal(t, Target{Type: TargetNote, Identifier: uint8(40 + i)}, m.Target)
		assert.Equal(t, ModeSwitchMomentary, m.Mode)
	}
	assert.Equal(t, Target{Type: TargetNote, Identifier: 56}, mappings[hardware.SpeedDialButtonID].Target)

	ids := map[string]bool{}
	for _, m := range mappings {
		assert.False(t, ids[m.ID], "mapping IDs are unique")
		ids[m.ID] = true
	}
}

func TestHostFeedback(t *testing.T) {
	var got []string
	e := New(nil, func(id string, v int) {
		got = append(got, id)
		assert.Equal(t, 99, v)
	})
	e.WatchHost(surface.BuildVariant(surface.Studio))

	e.HandleHostMessage(midi.ControlChange(0, 13, 99))
	e.HandleHostMessage(midi.NoteOn(0, 41, 99))
	e.HandleHostMessage(midi.ControlChange(0, 19, 99)) // fader has no output binding
	e.HandleHostMessage(midi.ControlChange(1, 13, 99)) // other channel

	assert.Equal(t, []string{"encoder_4", "button_2"}, got)
	assert.Equal(t, 99, e.Value("encoder_4"))
}
