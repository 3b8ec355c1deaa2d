package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PixPMusic/nocturn-studio/internal/hardware"
	imidi "github.com/PixPMusic/nocturn-studio/internal/midi"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func TestBridgeRoutesEventsAndFeedback(t *testing.T) {
	desc := surface.BuildVariant(surface.Studio)
	device := hardware.NewMockDevice()
	require.NoError(t, device.Connect(context.Background()))
	rec := imidi.NewRecorder(false)

	b := NewBridge(desc, device, rec.Send, nil)
	var seen []string
	b.OnValue(func(id string, v int) { seen = append(seen, id) })

	device.SimulateTurn("encoder_4", 3)
	device.SimulatePress("button_2")

	msgs := rec.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte{0xB0, 13, 3}, msgs[0].Bytes())
	assert.Equal(t, []byte{0x90, 41, 127}, msgs[1].Bytes())
	assert.Equal(t, []string{"encoder_4", "button_2"}, seen)

	led, ok := device.LED("encoder_4")
	require.True(t, ok)
	assert.Equal(t, 3, led)

	// the host moves quick control 4
	b.HandleHostMessage(midi.ControlChange(0, 13, 100))
	led, _ = device.LED("encoder_4")
	assert.Equal(t, 100, led)
	assert.Equal(t, 100, b.Engine().Value("encoder_4"))

	b.SetLEDFeedback(false)
	device.SimulateTurn("encoder_4", 1)
	led, _ = device.LED("encoder_4")
	assert.Equal(t, 100, led, "LEDs left alone while disabled")

	b.Close()
}

func TestSelectVariants(t *testing.T) {
	all := surface.Variants()

	got, err := selectVariants(all, "")
	require.NoError(t, err)
	assert.Len(t, got, len(all))

	got, err = selectVariants(all, "manual")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NocturnStudio", got[0].DeviceName)

	_, err = selectVariants(all, "nope")
	assert.ErrorIs(t, err, surface.ErrUnknownVariant)
}

func TestLoadVariantsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`variants:
  - name: wide
    device: Nocturn Wide
    fader: {col: 0, row: 2, width: 8, height: 1}
    buttonBaseRow: 3
`), 0644))

	variants, err := loadVariants(path)
	require.NoError(t, err)
	require.Len(t, variants, len(surface.Variants())+1)
	assert.Equal(t, "wide", variants[len(variants)-1].Name)

	_, err = loadVariants(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGenerateScripts(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, generateScripts(&out, root, surface.Variants()))

	studio, err := os.ReadFile(filepath.Join(root, "Novation", "Nocturn Studio", "Novation_Nocturn_Studio.js"))
	require.NoError(t, err)
	assert.Contains(t, string(studio), "makePage")

	manual, err := os.ReadFile(filepath.Join(root, "Novation", "NocturnStudio", "Novation_NocturnStudio.js"))
	require.NoError(t, err)
	assert.NotContains(t, string(manual), "makePage")

	assert.Contains(t, out.String(), "studio: wrote ")
	assert.Contains(t, out.String(), "manual: wrote ")
}

func TestGenerateRefusesInvalidVariant(t *testing.T) {
	bad := surface.Studio
	bad.Name = "overlap"
	bad.FaderPlacement = surface.Rect{Col: 0, Row: 0, Width: 1, Height: 1} // on top of encoder_1

	root := t.TempDir()
	err := generateScripts(&bytes.Buffer{}, root, []surface.Variant{bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, surface.ErrOverlap)

	entries, _ := os.ReadDir(root)
	assert.Empty(t, entries, "nothing written")
}

func TestValidateVariants(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, validateVariants(&out, surface.Variants()))
	assert.Contains(t, out.String(), "studio: ok (26 controls, 8x6 grid, 12 host bindings)")
	assert.Contains(t, out.String(), "manual: ok (26 controls, 8x5 grid, 0 host bindings)")

	bad := surface.Manual
	bad.ButtonBaseRow = 0
	out.Reset()
	err := validateVariants(&out, []surface.Variant{bad})
	assert.ErrorIs(t, err, surface.ErrOverlap)
	assert.Contains(t, out.String(), "manual: ")
}
