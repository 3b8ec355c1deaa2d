package surface

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Layout is the control set shared by every variant of the controller
type Layout struct {
	Vendor string
	Author string

	InputPort  string
	OutputPort string
	Channel    uint8

	EncoderCount   int
	EncoderColumns int
	EncoderCCBase  int

	SpeedDial   Rect
	SpeedDialCC int

	FaderCC int

	ButtonCount    int
	ButtonColumns  int
	ButtonNoteBase int

	PageName string
}

// DefaultLayout is the Nocturn as exposed by the Nocturn Studio bridge
var DefaultLayout = Layout{
	Vendor:         "Novation",
	Author:         "Nocturn Studio Developer",
	InputPort:      "Nocturn Studio Out",
	OutputPort:     "Nocturn Studio In",
	Channel:        0,
	EncoderCount:   8,
	EncoderColumns: 4,
	EncoderCCBase:  10,
	SpeedDial:      Cell(4, 0),
	SpeedDialCC:    18,
	FaderCC:        19,
	ButtonCount:    16,
	ButtonColumns:  8,
	ButtonNoteBase: 40,
	PageName:       "Nocturn Studio Page",
}

// Variant holds what differs between device scripts
type Variant struct {
	Name           string `yaml:"name"`
	DeviceName     string `yaml:"device"`
	DetectPorts    bool   `yaml:"detectPorts"`
	FaderPlacement Rect   `yaml:"fader"`
	ButtonBaseRow  int    `yaml:"buttonBaseRow"`
	MapToHost      bool   `yaml:"mapToHost"`
}

var (
	// Studio detects its ports automatically and maps encoders and the
	// first buttons to host quick controls and transport.
	Studio = Variant{
		Name:           "studio",
		DeviceName:     "Nocturn Studio",
		DetectPorts:    true,
		FaderPlacement: Rect{Col: 4, Row: 1, Width: 1, Height: 3},
		ButtonBaseRow:  4,
		MapToHost:      true,
	}

	// Manual leaves port selection to the user and every control as a raw
	// MIDI endpoint.
	Manual = Variant{
		Name:           "manual",
		DeviceName:     "NocturnStudio",
		DetectPorts:    false,
		FaderPlacement: Rect{Col: 0, Row: 2, Width: 8, Height: 1},
		ButtonBaseRow:  3,
		MapToHost:      false,
	}
)

var ErrUnknownVariant = errors.New("unknown variant")

// Variants returns the built-in variants in declaration order
func Variants() []Variant {
	return []Variant{Studio, Manual}
}

// Lookup finds a variant by name among the built-ins and extra
func Lookup(name string, extra ...Variant) (Variant, error) {
	for _, v := range append(Variants(), extra...) {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

type variantFile struct {
	Variants []Variant `yaml:"variants"`
}

// LoadVariants reads additional variants from a YAML document of the form
//
//	variants:
//	  - name: wide
//	    device: Nocturn Wide
//	    detectPorts: true
//	    fader: {col: 0, row: 2, width: 8, height: 1}
//	    buttonBaseRow: 3
//	    mapToHost: true
func LoadVariants(r io.Reader) ([]Variant, error) {
	var f variantFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode variants: %w", err)
	}

	seen := make(map[string]bool)
	for i, v := range f.Variants {
		if v.Name == "" {
			return nil, fmt.Errorf("variant %d: name is required", i)
		}
		if v.DeviceName == "" {
			return nil, fmt.Errorf("variant %q: device is required", v.Name)
		}
		if v.FaderPlacement.Width <= 0 || v.FaderPlacement.Height <= 0 {
			return nil, fmt.Errorf("variant %q: fader must have a positive size", v.Name)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("variant %q: declared twice", v.Name)
		}
		seen[v.Name] = true
	}
	return f.Variants, nil
}
