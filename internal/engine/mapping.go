package engine

import (
	"github.com/PixPMusic/nocturn-studio/internal/hardware"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
	"github.com/google/uuid"
)

// Mode controls how input values are turned into output values
type Mode string

const (
	ModeAbsolute          Mode = "absolute"
	ModeRelativeTwosComp  Mode = "relative_twos_comp"     // +n = n, -n = 128-n
	ModeRelativeBinOffset Mode = "relative_binary_offset" // 64 = no change, 65 = +1, 63 = -1
	ModeRelativeSignedBit Mode = "relative_signed_bit"    // bit 6 set = negative
	ModeSwitchToggle      Mode = "switch_toggle"
	ModeSwitchMomentary   Mode = "switch_momentary"
)

const (
	defaultMin = 0
	defaultMax = 127
)

// TargetType is the MIDI message a mapping emits
type TargetType string

const (
	TargetCC        TargetType = "cc"
	TargetNote      TargetType = "note"
	TargetPitchBend TargetType = "pitch_bend"
)

// Target is the MIDI destination of a mapping
type Target struct {
	Type       TargetType `json:"type"`
	Channel    uint8      `json:"channel"`
	Identifier uint8      `json:"identifier"` // CC or note number
}

// Mapping routes one control to one MIDI target
type Mapping struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	Target   Target `json:"target"`
	Mode     Mode   `json:"mode"`
	Min      int    `json:"min_val"`
	Max      int    `json:"max_val"`
	Enabled  bool   `json:"enabled"`
}

// NewMapping creates an enabled absolute mapping over the full MIDI range
func NewMapping(sourceID string, target Target) Mapping {
	return Mapping{
		ID:       uuid.New().String(),
		SourceID: sourceID,
		Target:   target,
		Mode:     ModeAbsolute,
		Min:      defaultMin,
		Max:      defaultMax,
		Enabled:  true,
	}
}

// DefaultMappings mirrors the descriptor: every control is sent to the
// host on the binding the host script listens to. The speed-dial push
// button, which has no surface element, takes the next free note.
func DefaultMappings(d *surface.Descriptor) map[string]Mapping {
	mappings := make(map[string]Mapping)
	nextNote := -1

	for _, c := range d.Controls {
		if c.Input == nil {
			continue
		}
		target := Target{Channel: c.Input.Channel, Identifier: c.Input.Number}
		switch c.Input.Type {
		case surface.MessageNote:
			target.Type = TargetNote
			if int(c.Input.Number) > nextNote {
				nextNote = int(c.Input.Number)
			}
		default:
			target.Type = TargetCC
		}
		m := NewMapping(c.ID, target)
		if c.Kind == surface.KindButton {
			m.Mode = ModeSwitchMomentary
		}
		mappings[c.ID] = m
	}

	if nextNote >= 0 && nextNote < 127 {
		m := NewMapping(hardware.SpeedDialButtonID, Target{Type: TargetNote, Identifier: uint8(nextNote + 1)})
		m.Mode = ModeSwitchMomentary
		mappings[hardware.SpeedDialButtonID] = m
	}
	return mappings
}
