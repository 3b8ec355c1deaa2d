package midi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(false)
	var send func(midi.Message) error = r.Send

	require.NoError(t, send(midi.ControlChange(0, 10, 5)))
	require.NoError(t, send(midi.NoteOn(0, 40, 127)))

	msgs := r.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte{0xB0, 10, 5}, msgs[0].Bytes())
	assert.Equal(t, []byte{0x90, 40, 127}, msgs[1].Bytes())

	msgs[0] = nil
	assert.NotNil(t, r.Messages()[0], "Messages returns a copy")
}

func TestSender(t *testing.T) {
	r := NewRecorder(false)
	s := NewSender("Nocturn Studio Out", r.Send)

	require.NoError(t, s.Send(midi.ControlChange(0, 19, 64)))
	assert.Equal(t, uint64(1), s.Sent())
	assert.Equal(t, "Nocturn Studio Out", s.Name())
	assert.Len(t, r.Messages(), 1)

	failing := NewSender("gone", func(midi.Message) error { return errors.New("closed") })
	err := failing.Send(midi.NoteOn(0, 40, 127))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send to gone")
	assert.Zero(t, failing.Sent())
}
