// Package script renders controller descriptors as Cubase MIDI Remote
// scripts (midiremote_api_v1).
package script

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/PixPMusic/nocturn-studio/internal/surface"
)

// Path returns the script location relative to the MIDI Remote driver root:
// <Vendor>/<Device>/<Vendor>_<Device>.js, with spaces in the file name
// replaced by underscores
func Path(d *surface.Descriptor) string {
	file := fmt.Sprintf("%s_%s.js", d.Vendor, d.Device)
	file = strings.ReplaceAll(file, " ", "_")
	return filepath.Join(d.Vendor, d.Device, file)
}

// Render writes the script for d to w
func Render(w io.Writer, d *surface.Descriptor) error {
	if err := scriptTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render script for %s: %w", d.Device, err)
	}
	return nil
}

// WriteFile renders d under root and returns the written path
func WriteFile(root string, d *surface.Descriptor) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		return "", err
	}

	path := filepath.Join(root, Path(d))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

var funcs = template.FuncMap{
	"quote":   quote,
	"maker":   maker,
	"binder":  binder,
	"hostRef": hostRef,
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

func maker(k surface.Kind) string {
	switch k {
	case surface.KindFader:
		return "makeFader"
	case surface.KindButton:
		return "makeButton"
	default:
		return "makeKnob"
	}
}

func binder(b surface.MidiBinding) string {
	if b.Type == surface.MessageNote {
		return fmt.Sprintf("bindToNote(%d, %d)", b.Channel, b.Number)
	}
	return fmt.Sprintf("bindToControlChange(%d, %d)", b.Channel, b.Number)
}

func hostRef(a surface.HostAction) string {
	if a.Kind == surface.ActionTransport {
		return "transport.mAction.m" + string(a.Transport)
	}
	return fmt.Sprintf("focusQuickControls.getByIndex(%d)", a.Slot)
}

var scriptTemplate = template.Must(template.New("script").Funcs(funcs).Parse(`// Cubase 12+ MIDI Remote Script for {{.Vendor}} {{.Device}}
// Vendor: {{.Vendor}}
// Device: {{.Device}}

var midiremote_api = require('midiremote_api_v1')

var deviceDriver = midiremote_api.makeDeviceDriver({{quote .Vendor}}, {{quote .Device}}, {{quote .Author}})

var midiInput = deviceDriver.mPorts.makeMidiInput({{quote .Input.Name}})
var midiOutput = deviceDriver.mPorts.makeMidiOutput({{quote .Output.Name}})
{{with .Detection}}
deviceDriver.makeDetectionUnit().detectPortPair(midiInput, midiOutput)
    .expectInputNameEquals({{quote .InputName}})
    .expectOutputNameEquals({{quote .OutputName}})
{{else}}
// Ports are not detected automatically; select them in the MIDI Remote Manager.
{{end}}
var surface = deviceDriver.mSurface

// --- SURFACE ELEMENTS ---
{{range .Controls}}{{$c := .}}
var {{.ID}} = surface.{{maker .Kind}}({{.Rect.Col}}, {{.Rect.Row}}, {{.Rect.Width}}, {{.Rect.Height}})
{{- with .Input}}
{{$c.ID}}.mSurfaceValue.mMidiBinding
    .setInputPort(midiInput)
    .{{binder .}}
{{- end}}
{{- with .Output}}
{{$c.ID}}.mSurfaceValue.mMidiBinding
    .setOutputPort(midiOutput)
    .{{binder .}}
{{- end}}
{{end}}
{{- with .Page}}
// --- HOST MAPPING ---

var hostMapping = deviceDriver.mMapping
var page = hostMapping.makePage({{quote .Name}})
var focusQuickControls = page.mHostAccess.mFocusQuickControls
var transport = page.mHostAccess.mTransportPanel
{{range .Bindings}}
page.makeValueBinding({{.ControlID}}.mSurfaceValue, {{hostRef .Action}})
{{- end}}
{{else}}
// No host mappings: controls stay plain MIDI endpoints for external use.
{{end}}`))
