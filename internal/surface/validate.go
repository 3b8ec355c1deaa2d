package surface

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateBinding = errors.New("duplicate binding")
	ErrOverlap          = errors.New("overlapping controls")
	ErrOutOfRange       = errors.New("value out of range")
)

type bindingKey struct {
	direction Direction
	typ       MessageType
	channel   uint8
	number    uint8
}

// Validate checks a descriptor against the policy that every MIDI slot is
// claimed by one control per direction, controls do not overlap on the
// grid, and numbers fit in the MIDI data range. Build never calls it; a
// descriptor that fails Validate is still a well-formed descriptor.
func Validate(d *Descriptor) error {
	var errs []error

	owner := make(map[bindingKey]string)
	for _, c := range d.Controls {
		if c.Rect.Width <= 0 || c.Rect.Height <= 0 || c.Rect.Col < 0 || c.Rect.Row < 0 {
			errs = append(errs, fmt.Errorf("%s: rect %s: %w", c.ID, c.Rect, ErrOutOfRange))
		}
		for _, b := range c.Bindings() {
			if b.Channel > 15 || b.Number > 127 {
				errs = append(errs, fmt.Errorf("%s: %s: %w", c.ID, b, ErrOutOfRange))
				continue
			}
			k := bindingKey{direction: b.Direction, typ: b.Type, channel: b.Channel, number: b.Number}
			if prev, ok := owner[k]; ok {
				errs = append(errs, fmt.Errorf("%s and %s both use %s: %w", prev, c.ID, b, ErrDuplicateBinding))
				continue
			}
			owner[k] = c.ID
		}
	}

	for i := range d.Controls {
		for j := i + 1; j < len(d.Controls); j++ {
			a, b := d.Controls[i], d.Controls[j]
			if a.Rect.Overlaps(b.Rect) {
				errs = append(errs, fmt.Errorf("%s %s and %s %s: %w", a.ID, a.Rect, b.ID, b.Rect, ErrOverlap))
			}
		}
	}

	for _, hb := range d.HostBindings() {
		if d.Control(hb.ControlID) == nil {
			errs = append(errs, fmt.Errorf("host binding %s: unknown control %q", hb.Action, hb.ControlID))
		}
	}

	return errors.Join(errs...)
}
